package profit

import "strings"

// DefaultRecurringMarker is the tag Shopify subscription apps put on renewals.
const DefaultRecurringMarker = "Subscription Recurring Order"

// DefaultFirstOrderMarker tags the first order of a subscription.
const DefaultFirstOrderMarker = "Subscription First Order"

// Segment is the partition an order belongs to.
type Segment string

const (
	SegmentFrontEnd  Segment = "front_end"
	SegmentRecurring Segment = "recurring"
)

// Segmenter splits orders into front-end and recurring by tag text.
type Segmenter struct {
	Marker           string
	FirstOrderMarker string
	// HasTags is false when the input has no tag field at all; every order is
	// then front-end.
	HasTags bool
}

// Segment classifies one order's tag text.
func (s Segmenter) Segment(tags string) Segment {
	if !s.HasTags || s.Marker == "" {
		return SegmentFrontEnd
	}
	if containsFold(tags, s.Marker) {
		return SegmentRecurring
	}
	return SegmentFrontEnd
}

// IsFirstOrder reports whether the tags mark a subscription's first order.
func (s Segmenter) IsFirstOrder(tags string) bool {
	return s.HasTags && s.FirstOrderMarker != "" && containsFold(tags, s.FirstOrderMarker)
}

// Split partitions orders; every order lands in exactly one slice.
func (s Segmenter) Split(orders []Order) (frontEnd, recurring []Order) {
	for _, o := range orders {
		if s.Segment(o.Tags) == SegmentRecurring {
			recurring = append(recurring, o)
		} else {
			frontEnd = append(frontEnd, o)
		}
	}
	return frontEnd, recurring
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
