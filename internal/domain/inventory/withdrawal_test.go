package inventory

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/yarn-inventory/internal/domain"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestRemaining(t *testing.T) {
	tests := []struct {
		name      string
		available string
		requested string
		want      string
		wantErr   error
	}{
		{"partial", "10", "4", "6", nil},
		{"exact drains lot", "6", "6", "0", nil},
		{"fractional without drift", "0.3", "0.1", "0.2", nil},
		{"too much", "6", "7", "6", domain.ErrInsufficientStock},
		{"zero request", "6", "0", "6", domain.ErrInvalidInput},
		{"negative request", "6", "-1", "6", domain.ErrInvalidInput},
		{"finest stored step", "10", "0.001", "9.999", nil},
		{"below stored precision", "10", "0.0005", "10", domain.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Remaining(d(tt.available), d(tt.requested))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.True(t, d(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestFitsScale(t *testing.T) {
	assert.True(t, FitsScale(decimal.Zero))
	assert.True(t, FitsScale(d("12.5")))
	assert.True(t, FitsScale(d("0.001")))
	assert.True(t, FitsScale(d("7.50000")), "trailing zeros lose nothing")
	assert.False(t, FitsScale(d("0.0004")))
	assert.False(t, FitsScale(d("9.9995")))
}
