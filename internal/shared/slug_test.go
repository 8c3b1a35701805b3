package shared

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Lisbon Coastal Escape":     "lisbon-coastal-escape",
		"Où Aller à Genève":         "ou-aller-a-geneve",
		"  Spaced   Out  ":          "spaced-out",
		"São Paulo -- by Night!":    "sao-paulo-by-night",
		"UPPER lower 123":           "upper-lower-123",
		"!!!":                       "",
		"Kyoto: Temples & Gardens?": "kyoto-temples-gardens",
	}
	for input, want := range cases {
		require.Equal(t, want, Slugify(input), "input %q", input)
	}
}
