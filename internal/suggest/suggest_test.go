package suggest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindSimilar(t *testing.T) {
	testCases := []struct {
		name       string
		input      string
		candidates []string
		want       []string
	}{
		{"transposed letters", "Lenght", []string{"Length", "Width"}, []string{"Length"}},
		{"too far", "foo", []string{"completely_different"}, nil},
		{"ties are all kept", "bat", []string{"cat", "hat", "battle"}, []string{"cat", "hat"}},
		{"closest wins over a farther one", "nx_elem", []string{"nx", "n_elem", "ny_elem"}, []string{"n_elem", "ny_elem"}},
		{"exact match is not a suggestion", "type", []string{"type"}, nil},
		{"duplicates collapse", "rh", []string{"rho", "rho"}, []string{"rho"}},
		{"no candidates", "x", nil, nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := FindSimilar(tc.input, tc.candidates)
			if tc.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDidYouMean(t *testing.T) {
	assert.Equal(t, "", DidYouMean(nil))
	assert.Equal(t, "Did you mean 'Length'?", DidYouMean([]string{"Length"}))
	assert.Equal(t, "Did you mean 'cat' or 'hat'?", DidYouMean([]string{"cat", "hat"}))
}
