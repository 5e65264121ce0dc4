package expand_test

import (
	"errors"
	"testing"

	"github.com/specialistvlad/hitbuild/internal/document"
	"github.com/specialistvlad/hitbuild/internal/expand"
	"github.com/specialistvlad/hitbuild/internal/units"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, text string) *document.Node {
	t.Helper()
	root, err := document.Parse("expand.i", text)
	require.NoError(t, err)
	document.Explode(root)
	return root
}

func noEnv(string) (string, bool) { return "", false }

func TestExpand_Evaluators(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		path  string
		want  string
	}{
		{"replace from enclosing section", "[A]\n  a = 3\n  [B]\n    b = ${replace a}\n  []\n[]", "A/B/b", "3"},
		{"bare name means replace", "x = 5\n[s]\n  y = ${x}\n[]", "s/y", "5"},
		{"nearest scope wins", "v = 1\n[s]\n  v = 2\n  w = ${v}\n[]", "s/w", "2"},
		{"raw concatenates", "f = ${raw mesh _ 3}", "f", "mesh_3"},
		{"surrounding text is kept", "x = 4\nf = out_${x}.e", "f", "out_4.e"},
		{"two markers", "a = 1\nb = 2\nf = ${a}-${b}", "f", "1-2"},
		{"fparse arithmetic", "x = 2\ny = ${fparse x * 3 + 1}", "y", "7"},
		{"fparse functions", "y = ${fparse pow(2, 10)}", "y", "1024"},
		{"fparse power operator", "x = 3\ny = ${fparse x^2}", "y", "9"},
		{"fparse constant", "y = ${fparse pi}", "y", "3.141592653589793"},
		{"fparse variable shadows constant", "e = 2\ny = ${fparse e + 1}", "y", "3"},
		{"fparse chains through replace", "a = 2\nb = ${a}\nc = ${fparse b * b}", "c", "4"},
		{"units passthrough", "l = ${units 1.5 m}", "l", "1.5"},
		{"units conversion", "l = ${units 2 km -> m}", "l", "2000"},
		{"units of a variable", "d = 3\nl = ${units d km -> m}", "l", "3000"},
		{"no marker", "plain = hello", "plain", "hello"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			root := parse(t, tc.input)

			err := expand.New(expand.WithEnv(noEnv)).Expand(root)

			require.NoError(t, err)
			n := root.Find(tc.path)
			require.NotNil(t, n)
			assert.Equal(t, tc.want, n.RawValue())
		})
	}
}

func TestExpand_Env(t *testing.T) {
	root := parse(t, "dir = ${env HOME_DIR}/run")
	env := func(name string) (string, bool) {
		if name == "HOME_DIR" {
			return "/home/sim", true
		}
		return "", false
	}

	require.NoError(t, expand.New(expand.WithEnv(env)).Expand(root))
	assert.Equal(t, "/home/sim/run", root.Find("dir").RawValue())

	missing := parse(t, "dir = ${env NOPE}")
	err := expand.New(expand.WithEnv(env)).Expand(missing)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "environment variable 'NOPE' is not set")
}

func TestExpand_CustomEvaluator(t *testing.T) {
	root := parse(t, "x = ${upper abc}")
	upper := expand.EvaluatorFunc(func(_ *expand.Scope, args []string) (string, error) {
		return "ABC", nil
	})

	require.NoError(t, expand.New(expand.WithEvaluator("upper", upper)).Expand(root))
	assert.Equal(t, "ABC", root.Find("x").RawValue())
}

func TestExpand_TracksUsedFields(t *testing.T) {
	root := parse(t, "[Vars]\n  a = 1\n  b = 2\n  unused = 3\n  sum = ${fparse a + b}\n[]")
	ex := expand.New(expand.WithEnv(noEnv))

	require.NoError(t, ex.Expand(root))

	assert.Equal(t, []string{"Vars/a", "Vars/b"}, ex.Used())
	assert.True(t, ex.IsUsed("/Vars/a"))
	assert.False(t, ex.IsUsed("Vars/unused"))
	assert.Equal(t, "3", root.Find("Vars/sum").RawValue())
}

func TestExpand_CollectsErrors(t *testing.T) {
	root := parse(t, "a = ${missing}\nb = ${bogus x y}\nc = ${fparse 1 +}\nok = ${raw fine}")

	err := expand.New(expand.WithEnv(noEnv)).Expand(root)

	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "no variable 'missing' found for substitution")
	assert.Contains(t, msg, "unknown evaluator 'bogus'")
	assert.Contains(t, msg, "expand.i:3.1")
	assert.Equal(t, "${missing}", root.Find("a").RawValue(), "failed fields keep their text")
	assert.Equal(t, "fine", root.Find("ok").RawValue(), "independent fields still expand")

	var expErr *expand.Error
	require.ErrorAs(t, err, &expErr)
	assert.Equal(t, "a", expErr.Path)
}

func TestExpand_NonFiniteNumbers(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		wantMsg string
	}{
		{"nan variable", "a = nan\nb = ${fparse a * 2}", "variable 'a' has non-numeric value 'nan'"},
		{"inf variable", "a = inf\nb = ${fparse a + 1}", "variable 'a' has non-numeric value 'inf'"},
		{"nan operand", "b = ${units nan m -> cm}", "nan"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			root := parse(t, tc.input)

			var err error
			require.NotPanics(t, func() { err = expand.New(expand.WithEnv(noEnv)).Expand(root) })

			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantMsg)
		})
	}
}

func TestExpand_UnitsError(t *testing.T) {
	root := parse(t, "t = ${units 1 m -> s}")

	err := expand.New().Expand(root)

	var convErr *units.ConversionError
	require.True(t, errors.As(err, &convErr), "got %v", err)
	assert.Equal(t, "m", convErr.From)
	assert.Equal(t, "s", convErr.To)
}

func TestExpand_Cycle(t *testing.T) {
	root := parse(t, "a = ${b}\nb = ${a}")

	err := expand.New().Expand(root)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "reference cycle")
}

// Expanding equal documents yields equal values.
func TestExpand_Deterministic(t *testing.T) {
	text := "n = 4\n[Mesh]\n  nx = ${fparse n * 2}\n  ny = ${n}\n  file = mesh_${n}.e\n[]"
	run := func() map[string]string {
		root := parse(t, text)
		require.NoError(t, expand.New().Expand(root))
		out := map[string]string{}
		document.WalkFields(root, func(p string, f *document.Node) { out[p] = f.RawValue() })
		return out
	}

	first := run()
	assert.Equal(t, first, run())
	assert.Equal(t, "8", first["Mesh/nx"])
}
