package variables_test

import (
	"testing"

	"github.com/specialistvlad/hitbuild/internal/testutil"
	"github.com/specialistvlad/hitbuild/modules/variables"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVariables(t *testing.T) {
	t.Parallel()

	result := testutil.BuildInput(t, `
[Variables]
  [u]
  []
  [c]
    family = MONOMIAL
    order = CONSTANT
    initial_condition = 0.25
    block = 'inner'
  []
[]
`, &variables.Module{})
	require.NoError(t, result.Err)
	require.Len(t, result.Actions, 2)

	var u, c variables.Input
	require.NoError(t, testutil.RequireAction(t, result, "Variables/u").Params().Decode(&u))
	require.NoError(t, testutil.RequireAction(t, result, "Variables/c").Params().Decode(&c))
	assert.Equal(t, variables.Input{Family: "LAGRANGE", Order: "FIRST", Scaling: 1}, u)
	assert.Equal(t, variables.Input{Family: "MONOMIAL", Order: "CONSTANT", InitialCondition: 0.25, Scaling: 1, Block: []string{"inner"}}, c)
	testutil.AssertLogged(t, result, "Variable added.", "name=c")
}

func TestVariables_Errors(t *testing.T) {
	t.Parallel()

	result := testutil.BuildInput(t, "[Variables]\n  [u]\n    order = FOURTH\n    scaling = -1\n  []\n[]\n", &variables.Module{})

	require.Error(t, result.Err)
	assert.Contains(t, result.Err.Error(), "parameter 'order'")
	assert.Contains(t, result.Err.Error(), "range check failed for parameter 'scaling'")
}
