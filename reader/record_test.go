package reader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDecimal(t *testing.T) {
	testCases := []struct {
		input   string
		want    string // "" is absent
		wantErr bool
	}{
		{"", "", false},
		{"12.5", "12.5", false},
		{"1,5", "1.5", false},
		{"12,50", "12.5", false},
		{"0,0001", "0.0001", false},
		{"1 234,56", "1234.56", false},
		{"1.000,50", "1000.5", false},
		{"1,000.50", "1000.5", false},
		{"1,000,000", "1000000", false},
		{"1.000.000", "1000000", false},
		{"1.000.000,25", "1000000.25", false},
		{"-2,75", "-2.75", false},
		{"1,000", "", true},
		{"12,345", "", true},
		{"one", "", true},
	}
	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := parseDecimal(tc.input)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tc.want == "" {
				assert.False(t, got.Valid)
				return
			}
			require.True(t, got.Valid)
			assert.True(t, got.Decimal.Equal(D(tc.want)), "parseDecimal(%q) = %v, want %s", tc.input, got.Decimal, tc.want)
		})
	}
}
