package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAdjustment(t *testing.T) {
	tests := []struct {
		name      string
		direction Direction
		typ       DiscountType
		running   string
		value     string
		want      string
	}{
		{"percentage discount", DirectionDiscount, DiscountTypePercentage, "90", "10", "9"},
		{"fixed discount", DirectionDiscount, DiscountTypeFixedAmount, "90", "25", "25"},
		{"percentage surcharge", DirectionSurcharge, DiscountTypePercentage, "80", "5", "-4"},
		{"fixed surcharge", DirectionSurcharge, DiscountTypeFixedAmount, "80", "3.50", "-3.5"},
		{"zero percentage", DirectionDiscount, DiscountTypePercentage, "80", "0", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adj, err := NewAdjustment(tt.direction, tt.typ, d(tt.value))
			require.NoError(t, err)
			assert.True(t, adj.Delta(d(tt.running)).Equal(d(tt.want)), "got %s", adj.Delta(d(tt.running)))
		})
	}
}

func TestNewAdjustment_Variants(t *testing.T) {
	adj, err := NewAdjustment(DirectionSurcharge, DiscountTypeFixedAmount, d("1"))
	require.NoError(t, err)

	switch adj.(type) {
	case FixedSurcharge:
	default:
		t.Fatalf("unexpected variant %T", adj)
	}

	_, err = NewAdjustment("sideways", DiscountTypePercentage, d("1"))
	assert.Error(t, err)
	_, err = NewAdjustment(DirectionDiscount, "bogus", d("1"))
	assert.Error(t, err)
}
