package outputs_test

import (
	"testing"

	"github.com/specialistvlad/hitbuild/internal/testutil"
	"github.com/specialistvlad/hitbuild/modules/outputs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputs(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		input    string
		want     outputs.Input
		warnings int
	}{
		{
			name:  "defaults",
			input: "[Outputs]\n[]\n",
			want:  outputs.Input{Interval: 1, ExecuteOn: []string{"timestep_end"}},
		},
		{
			name:  "shortcuts",
			input: "[Outputs]\n  exodus = true\n  csv = true\n  interval = 5\n  execute_on = 'initial final'\n[]\n",
			want:  outputs.Input{Exodus: true, CSV: true, Interval: 5, ExecuteOn: []string{"initial", "final"}},
		},
		{
			name:     "deprecated",
			input:    "[Outputs]\n  output_initial = true\n[]\n",
			want:     outputs.Input{Interval: 1, ExecuteOn: []string{"timestep_end"}},
			warnings: 1,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			result := testutil.BuildInput(t, tc.input, &outputs.Module{})
			require.NoError(t, result.Err)

			var got outputs.Input
			require.NoError(t, testutil.RequireAction(t, result, "Outputs").Params().Decode(&got))
			assert.Equal(t, tc.want, got)
			assert.Len(t, result.Warnings, tc.warnings)
			testutil.AssertLogged(t, result, "Outputs configured.")
		})
	}
}

func TestOutputs_IntervalRange(t *testing.T) {
	t.Parallel()

	result := testutil.BuildInput(t, "[Outputs]\n  interval = 0\n[]\n", &outputs.Module{})

	require.Error(t, result.Err)
	assert.Contains(t, result.Err.Error(), "range check failed for parameter 'interval'")
}
