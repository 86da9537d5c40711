package profit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSegmenter(t *testing.T) {
	s := Segmenter{Marker: DefaultRecurringMarker, FirstOrderMarker: DefaultFirstOrderMarker, HasTags: true}

	assert.Equal(t, SegmentRecurring, s.Segment("Subscription Recurring Order, VIP"))
	assert.Equal(t, SegmentRecurring, s.Segment("vip, subscription recurring order"))
	assert.Equal(t, SegmentFrontEnd, s.Segment(""))
	assert.Equal(t, SegmentFrontEnd, s.Segment("Subscription First Order"))
	assert.True(t, s.IsFirstOrder("Subscription First Order"))
	assert.False(t, s.IsFirstOrder("VIP"))
}

func TestSegmenterWithoutTagField(t *testing.T) {
	s := Segmenter{Marker: DefaultRecurringMarker}

	assert.Equal(t, SegmentFrontEnd, s.Segment("Subscription Recurring Order"))
	assert.False(t, s.IsFirstOrder("Subscription First Order"))
}

func TestSegmenterSplitIsPartition(t *testing.T) {
	s := Segmenter{Marker: DefaultRecurringMarker, HasTags: true}
	orders := []Order{
		{ID: "#1", Tags: "Subscription Recurring Order"},
		{ID: "#2"},
		{ID: "#3", Tags: "VIP"},
	}

	frontEnd, recurring := s.Split(orders)
	assert.Len(t, frontEnd, 2)
	assert.Len(t, recurring, 1)
	assert.Equal(t, "#1", recurring[0].ID)
}
