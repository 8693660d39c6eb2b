package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTopKFrequent(t *testing.T) {
	tests := []struct {
		name  string
		items []string
		k     int
		want  []ZoneCount
	}{
		{
			name:  "orders by count",
			items: []string{"132", "161", "132", "237", "161", "132"},
			k:     2,
			want:  []ZoneCount{{Zone: "132", Count: 3}, {Zone: "161", Count: 2}},
		},
		{
			name:  "ties keep first seen order",
			items: []string{"b", "a", "c", "a", "b", "c"},
			k:     3,
			want:  []ZoneCount{{Zone: "b", Count: 2}, {Zone: "a", Count: 2}, {Zone: "c", Count: 2}},
		},
		{
			name:  "k larger than distinct items",
			items: []string{"x", "y", "x"},
			k:     10,
			want:  []ZoneCount{{Zone: "x", Count: 2}, {Zone: "y", Count: 1}},
		},
		{
			name:  "empty string counts like any zone",
			items: []string{"", "x", ""},
			k:     5,
			want:  []ZoneCount{{Zone: "", Count: 2}, {Zone: "x", Count: 1}},
		},
		{
			name:  "zero k",
			items: []string{"x"},
			k:     0,
			want:  []ZoneCount{},
		},
		{
			name:  "negative k",
			items: []string{"x"},
			k:     -3,
			want:  []ZoneCount{},
		},
		{
			name:  "no items",
			items: nil,
			k:     10,
			want:  []ZoneCount{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TopKFrequent(tt.items, tt.k))
		})
	}
}
