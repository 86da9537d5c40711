package profit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	table := testLine().Countries

	tests := []struct {
		raw  string
		want Resolution
	}{
		{"", Resolution{}},
		{"   ", Resolution{}},
		{"GB", Resolution{Raw: "GB", Country: "United Kingdom", Resolved: true}},
		{" gb ", Resolution{Raw: "gb", Country: "United Kingdom", Resolved: true}},
		{"EU", Resolution{Raw: "EU", Country: "United Kingdom", Resolved: true, Surcharge: 1.00}},
		{"Narnia", Resolution{Raw: "Narnia", Country: "Narnia"}},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, table.Resolve(tt.raw))
		})
	}
}

func TestResolveIsDeterministic(t *testing.T) {
	table := CountryTable{Aliases: map[string]string{"uk": "A", "UK ": "B", "Uk": "C"}}
	for i := 0; i < 200; i++ {
		assert.Equal(t, "B", table.Resolve("UK").Country)
	}
	assert.Equal(t, "A", table.Resolve("uk").Country)
}

func TestCountryTableCheck(t *testing.T) {
	assert.NoError(t, testLine().Countries.Check())

	err := CountryTable{Aliases: map[string]string{"uk": "A", "UK ": "B"}}.Check()
	assert.ErrorContains(t, err, "collide")

	err = CountryTable{Regions: map[string]Region{"EU": {Base: "X"}, " eu": {Base: "Y"}}}.Check()
	assert.ErrorContains(t, err, "region")
}
