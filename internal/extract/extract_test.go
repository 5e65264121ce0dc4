package extract_test

import (
	"errors"
	"testing"

	"github.com/specialistvlad/hitbuild/internal/extract"
	"github.com/specialistvlad/hitbuild/internal/schema"
	"github.com/specialistvlad/hitbuild/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func flowParams() *schema.Parameters {
	ps := schema.New("Incompressible")
	ps.Declare("rho", schema.KindReal, "Density.", schema.Alias("density"))
	ps.Declare("mu", schema.KindReal, "Viscosity.", schema.Default(0.5))
	ps.Declare("steps", schema.KindInt, "Time steps.", schema.Default(3))
	ps.Declare("scheme", schema.KindEnum, "Scheme.", schema.Options("upwind", "central"), schema.Default("upwind"))
	return ps
}

// Every parameter with a default keeps it when the block does not set it.
func TestExtractParams_DefaultsRetained(t *testing.T) {
	doc := testutil.ParseDoc(t, "in.i", "[Flow]\n  rho = 1\n[]")
	params := flowParams()

	err := extract.New(doc, extract.Options{}).ExtractParams(testutil.Context(t), "Flow", params)

	require.NoError(t, err)
	for _, p := range params.Params() {
		if !p.HasDefault() {
			continue
		}
		assert.True(t, p.Default.RawEquals(p.Value()), "parameter %s", p.Name)
		assert.False(t, p.IsSetByUser(), "parameter %s", p.Name)
	}
}

func TestExtractParams_LocalFields(t *testing.T) {
	doc := testutil.ParseDoc(t, "in.i", "[Flow]\n  rho = 1.5\n  scheme = CENTRAL\n[]")
	params := flowParams()
	ex := extract.New(doc, extract.Options{})

	require.NoError(t, ex.ExtractParams(testutil.Context(t), "Flow", params))

	rho := params.Get("rho")
	assert.True(t, cty.NumberFloatVal(1.5).RawEquals(rho.Value()))
	assert.True(t, rho.IsSetByUser())
	assert.False(t, rho.FromGlobal())
	assert.Equal(t, 2, rho.Location().Line)
	assert.Equal(t, "CENTRAL", params.Value("scheme").AsString(), "enums keep the text as written")
	assert.Equal(t, []string{"Flow/rho", "Flow/scheme"}, ex.Used())
}

func TestExtractParams_Alias(t *testing.T) {
	doc := testutil.ParseDoc(t, "in.i", "[Flow]\n  density = 2\n[]")
	params := flowParams()
	ex := extract.New(doc, extract.Options{})

	require.NoError(t, ex.ExtractParams(testutil.Context(t), "Flow", params))

	assert.True(t, cty.NumberFloatVal(2).RawEquals(params.Value("rho")))
	assert.True(t, ex.IsUsed("Flow/density"))
	assert.False(t, ex.IsUsed("Flow/rho"))
}

func TestExtractParams_GlobalFallback(t *testing.T) {
	doc := testutil.ParseDoc(t, "in.i", "[GlobalParams]\n  rho = 1.0\n  secret = 4\n[]\n[Flow]\n  type = Incompressible\n[]")
	global := schema.New("GlobalParamsAction")
	global.Declare("rho", schema.KindString, "")
	params := flowParams()
	params.Declare("secret", schema.KindInt, "", schema.Private())
	ex := extract.New(doc, extract.Options{})
	ex.SetGlobal("GlobalParams", global)

	require.NoError(t, ex.ExtractParams(testutil.Context(t), "Flow", params))

	rho := params.Get("rho")
	assert.True(t, cty.NumberFloatVal(1).RawEquals(rho.Value()))
	assert.True(t, rho.FromGlobal())
	assert.True(t, ex.IsUsed("GlobalParams/rho"))

	written := global.Get("rho")
	require.NotNil(t, written)
	assert.Equal(t, schema.KindReal, written.Kind, "the global slot takes the consumer's kind")
	assert.True(t, cty.NumberFloatVal(1).RawEquals(written.Value()))

	assert.False(t, params.Get("secret").IsValid(), "private parameters are not broadcast")
	assert.False(t, ex.IsUsed("GlobalParams/secret"))
}

func TestExtractParams_LocalBeatsGlobal(t *testing.T) {
	doc := testutil.ParseDoc(t, "in.i", "[GlobalParams]\n  mu = 9\n[]\n[Flow]\n  mu = 1\n[]")
	params := flowParams()
	ex := extract.New(doc, extract.Options{})
	ex.SetGlobal("GlobalParams", schema.New("GlobalParamsAction"))

	require.NoError(t, ex.ExtractParams(testutil.Context(t), "Flow", params))

	assert.True(t, cty.NumberFloatVal(1).RawEquals(params.Value("mu")))
	assert.False(t, params.Get("mu").FromGlobal())
	assert.False(t, ex.IsUsed("GlobalParams/mu"))
}

func TestExtractParams_CollectsBlockErrors(t *testing.T) {
	doc := testutil.ParseDoc(t, "in.i", "[Flow]\n  rho = dense\n  steps = 2.5\n  scheme = sideways\n  mu = 0.1\n[]")
	params := flowParams()
	ex := extract.New(doc, extract.Options{})

	err := ex.ExtractParams(testutil.Context(t), "Flow", params)

	var blockErr *extract.BlockError
	require.ErrorAs(t, err, &blockErr)
	assert.Equal(t, "Flow", blockErr.Block)
	assert.Len(t, blockErr.Errors, 3)
	assert.Contains(t, err.Error(), "in.i:2.3: invalid Real value 'dense' for parameter 'rho'")
	assert.Contains(t, err.Error(), "valid options are: upwind central")

	var convErr *schema.ParameterConversionError
	require.True(t, errors.As(err, &convErr))
	assert.Equal(t, "rho", convErr.Param)

	assert.True(t, cty.NumberFloatVal(0.1).RawEquals(params.Value("mu")), "good parameters are still set")
	assert.True(t, ex.IsUsed("Flow/rho"), "fields that failed to convert count as used")
}

func TestExtractParams_Range(t *testing.T) {
	testCases := []struct {
		value   string
		wantErr bool
	}{
		{"0", true},
		{"2", true},
		{"1", false},
	}

	for _, tc := range testCases {
		t.Run(tc.value, func(t *testing.T) {
			doc := testutil.ParseDoc(t, "in.i", "[B]\n  x = "+tc.value+"\n[]")
			params := schema.New("Bounded")
			params.Declare("x", schema.KindReal, "", schema.Range("x>0 & x<2"))

			err := extract.New(doc, extract.Options{}).ExtractParams(testutil.Context(t), "B", params)

			if !tc.wantErr {
				require.NoError(t, err)
				return
			}
			var rangeErr *schema.RangeCheckError
			require.ErrorAs(t, err, &rangeErr)
			assert.Equal(t, "x", rangeErr.Param)
		})
	}
}

func TestExtractParams_AutoBuild(t *testing.T) {
	declare := func() *schema.Parameters {
		ps := schema.New("Vars")
		ps.Declare("names", schema.KindStringVector, "", schema.AutoBuildFrom("prefix", "count"))
		ps.Declare("prefix", schema.KindString, "")
		ps.Declare("count", schema.KindInt, "")
		return ps
	}

	t.Run("synthesized", func(t *testing.T) {
		doc := testutil.ParseDoc(t, "in.i", "[V]\n  prefix = u\n  count = 3\n[]")
		params := declare()

		require.NoError(t, extract.New(doc, extract.Options{}).ExtractParams(testutil.Context(t), "V", params))

		want := cty.ListVal([]cty.Value{cty.StringVal("u0"), cty.StringVal("u1"), cty.StringVal("u2")})
		assert.True(t, want.RawEquals(params.Value("names")), "got %#v", params.Value("names"))
	})

	t.Run("explicit vector wins", func(t *testing.T) {
		doc := testutil.ParseDoc(t, "in.i", "[V]\n  names = 'a b'\n  prefix = u\n  count = 3\n[]")
		params := declare()

		require.NoError(t, extract.New(doc, extract.Options{}).ExtractParams(testutil.Context(t), "V", params))

		assert.Equal(t, 2, params.Value("names").LengthInt())
	})

	t.Run("count above limit", func(t *testing.T) {
		for _, count := range []string{"10001", "9223372036854775807"} {
			doc := testutil.ParseDoc(t, "in.i", "[V]\n  prefix = u\n  count = "+count+"\n[]")
			params := declare()

			err := extract.New(doc, extract.Options{}).ExtractParams(testutil.Context(t), "V", params)

			var paramErr *extract.ParamError
			require.ErrorAs(t, err, &paramErr, count)
			assert.Equal(t, "V/count", paramErr.Path)
			assert.Contains(t, err.Error(), "at most 10000 are allowed")
			assert.False(t, params.Get("names").IsValid())
		}
	})

	t.Run("needs both base and count", func(t *testing.T) {
		doc := testutil.ParseDoc(t, "in.i", "[V]\n  prefix = u\n[]")
		params := declare()

		require.NoError(t, extract.New(doc, extract.Options{}).ExtractParams(testutil.Context(t), "V", params))

		assert.False(t, params.Get("names").IsValid())
	})
}

func TestExtractParams_FilePaths(t *testing.T) {
	doc := testutil.ParseDoc(t, "in.i", "[Mesh]\n  file = square.e\n  abs = /data/cube.e\n[]")
	declare := func() *schema.Parameters {
		ps := schema.New("FileMesh")
		ps.Declare("file", schema.KindMeshFileName, "")
		ps.Declare("abs", schema.KindMeshFileName, "")
		return ps
	}

	resolved := declare()
	opts := extract.Options{ResolveFilePathsRelativeToInput: true, InputDir: "cases"}
	require.NoError(t, extract.New(doc, opts).ExtractParams(testutil.Context(t), "Mesh", resolved))
	assert.Equal(t, "cases/square.e", resolved.Value("file").AsString())
	assert.Equal(t, "/data/cube.e", resolved.Value("abs").AsString())

	plain := declare()
	opts.ResolveFilePathsRelativeToInput = false
	require.NoError(t, extract.New(doc, opts).ExtractParams(testutil.Context(t), "Mesh", plain))
	assert.Equal(t, "square.e", plain.Value("file").AsString())
}

func TestExtractParams_Deprecated(t *testing.T) {
	doc := testutil.ParseDoc(t, "in.i", "[Flow]\n  visc = 1\n[]")
	params := schema.New("Flow")
	params.Declare("visc", schema.KindReal, "", schema.Deprecated("use 'mu' instead"))
	ex := extract.New(doc, extract.Options{})

	require.NoError(t, ex.ExtractParams(testutil.Context(t), "Flow", params))

	assert.Equal(t, []string{"in.i:2.3: parameter 'Flow/visc' is deprecated: use 'mu' instead"}, ex.Deprecations())
}

func TestInputDirOf(t *testing.T) {
	assert.Equal(t, "", extract.InputDirOf("in.i"))
	assert.Equal(t, "cases/pipe", extract.InputDirOf("cases/pipe/in.i"))
}
