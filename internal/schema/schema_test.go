package schema

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/hitbuild/internal/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

func TestKindTable_IsComplete(t *testing.T) {
	for k := KindInvalid + 1; k < kindCount; k++ {
		assert.NotNil(t, converters[k], "kind %d has no converter", k)
		assert.NotEmpty(t, kindNames[k], "kind %d has no name", k)
		assert.NotEqual(t, cty.DynamicPseudoType, k.Type(), "kind %s has no type", k)
	}
	assert.Equal(t, "Invalid", Kind(-1).String())
	assert.Equal(t, "RealVectorVector", KindRealVectorVector.String())
}

func TestParam_Parse(t *testing.T) {
	testCases := []struct {
		name string
		kind Kind
		raw  string
		want cty.Value
	}{
		{"bool synonym", KindBool, "On", cty.True},
		{"int", KindInt, " -42 ", cty.NumberIntVal(-42)},
		{"uint", KindUint, "7", cty.NumberUIntVal(7)},
		{"real", KindReal, "1.5e2", cty.NumberFloatVal(150)},
		{"string keeps spaces", KindString, "a b", cty.StringVal("a b")},
		{"name", KindName, " u ", cty.StringVal("u")},
		{"object ref", KindObjectRef, "pp/value", cty.StringVal("pp/value")},
		{"point", KindPoint, "1 2 3", cty.ListVal([]cty.Value{cty.NumberFloatVal(1), cty.NumberFloatVal(2), cty.NumberFloatVal(3)})},
		{"bool vector", KindBoolVector, "true no", cty.ListVal([]cty.Value{cty.True, cty.False})},
		{"empty vector", KindRealVector, "", cty.ListValEmpty(cty.Number)},
		{"string vector", KindStringVector, "a  b\tc", cty.ListVal([]cty.Value{cty.StringVal("a"), cty.StringVal("b"), cty.StringVal("c")})},
		{"vector of vectors", KindRealVectorVector, "1 2; 3 4 5", cty.ListVal([]cty.Value{
			cty.ListVal([]cty.Value{cty.NumberFloatVal(1), cty.NumberFloatVal(2)}),
			cty.ListVal([]cty.Value{cty.NumberFloatVal(3), cty.NumberFloatVal(4), cty.NumberFloatVal(5)}),
		})},
		{"3d vector", KindRealVector3D, "1; 2 | 3", cty.ListVal([]cty.Value{
			cty.ListVal([]cty.Value{cty.ListVal([]cty.Value{cty.NumberFloatVal(1)}), cty.ListVal([]cty.Value{cty.NumberFloatVal(2)})}),
			cty.ListVal([]cty.Value{cty.ListVal([]cty.Value{cty.NumberFloatVal(3)})}),
		})},
		{"point vector", KindPointVector, "0 0 0 1 1 1", cty.ListVal([]cty.Value{
			cty.ListVal([]cty.Value{cty.NumberFloatVal(0), cty.NumberFloatVal(0), cty.NumberFloatVal(0)}),
			cty.ListVal([]cty.Value{cty.NumberFloatVal(1), cty.NumberFloatVal(1), cty.NumberFloatVal(1)}),
		})},
		{"real map", KindRealMap, "a 1; b 2", cty.MapVal(map[string]cty.Value{"a": cty.NumberFloatVal(1), "b": cty.NumberFloatVal(2)})},
		{"string map", KindStringMap, "k v", cty.MapVal(map[string]cty.Value{"k": cty.StringVal("v")})},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := newParam("p", tc.kind, "", nil)

			got, err := p.Parse(tc.raw, ConvertOptions{})

			require.NoError(t, err)
			assert.True(t, tc.want.RawEquals(got), "want %#v, got %#v", tc.want, got)
		})
	}
}

func TestParam_ParseVectorOfVectors(t *testing.T) {
	p := newParam("coefs", KindRealVectorVector, "", nil)
	v, err := p.Parse("1 2; 3 4 5", ConvertOptions{})
	require.NoError(t, err)

	var got [][]float64
	require.NoError(t, gocty.FromCtyValue(v, &got))
	assert.Equal(t, [][]float64{{1, 2}, {3, 4, 5}}, got)
	assert.Equal(t, "1 2; 3 4 5", FormatValue(v))
}

func TestParam_ParseErrors(t *testing.T) {
	testCases := []struct {
		name    string
		param   *Param
		raw     string
		target  any
		wantMsg string
	}{
		{"bad bool", newParam("flag", KindBool, "", nil), "maybe", new(*ParameterConversionError), "expected true/false"},
		{"bad int", newParam("n", KindInt, "", nil), "1.5", new(*ParameterConversionError), "not an integer"},
		{"nan real", newParam("x", KindReal, "", nil), "nan", new(*ParameterConversionError), "not a number"},
		{"nan in vector", newParam("v", KindRealVector, "", nil), "1 NaN", new(*ParameterConversionError), "not a number"},
		{"negative uint", newParam("n", KindUint, "", nil), "-1", new(*ParameterConversionError), "non-negative"},
		{"bad real in vector", newParam("v", KindRealVector, "", nil), "1 x 3", new(*ParameterConversionError), "invalid RealVector value 'x'"},
		{"short point", newParam("pt", KindPoint, "", nil), "1 2", new(*ParameterConversionError), "exactly 3 components, got 2"},
		{"ragged point vector", newParam("pts", KindPointVector, "", nil), "1 2 3 4", new(*ParameterConversionError), "not a multiple of 3"},
		{"odd map", newParam("m", KindRealMap, "", nil), "a 1 b", new(*MapFormatError), "odd number of entries"},
		{"duplicate map key", newParam("m", KindStringMap, "", nil), "a x; a y", new(*MapFormatError), "duplicate key 'a'"},
		{"single part reference", newParam("r", KindObjectRef, "", nil), "value", new(*ReferenceFormatError), "expected '<object>/<value>'"},
		{"three part reference", newParam("r", KindObjectRefVector, "", nil), "a/b a/b/c", new(*ReferenceFormatError), "'a/b/c'"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.param.Parse(tc.raw, ConvertOptions{})

			require.Error(t, err)
			assert.True(t, errors.As(err, tc.target), "unexpected error type %T", err)
			assert.Contains(t, err.Error(), tc.wantMsg)
		})
	}
}

func TestParam_Range(t *testing.T) {
	p := newParam("x", KindReal, "", []Option{Range("x>0 & x<2")})

	for _, raw := range []string{"0", "2", "-1"} {
		_, err := p.Parse(raw, ConvertOptions{})
		var rangeErr *RangeCheckError
		require.ErrorAs(t, err, &rangeErr, raw)
		assert.Equal(t, "x", rangeErr.Param)
		assert.Equal(t, "x>0 & x<2", rangeErr.Range)
	}

	v, err := p.Parse("1", ConvertOptions{})
	require.NoError(t, err)
	assert.True(t, cty.NumberFloatVal(1).RawEquals(v))
}

func TestParam_RangeOnVector(t *testing.T) {
	p := newParam("w", KindIntVector, "", []Option{Range("w >= 0 & w_size <= 3")})

	_, err := p.Parse("1 2 3", ConvertOptions{})
	assert.NoError(t, err)

	_, err = p.Parse("1 -2", ConvertOptions{})
	assert.ErrorContains(t, err, "value -2 does not satisfy")

	_, err = p.Parse("1 2 3 4", ConvertOptions{})
	assert.Error(t, err)
}

func TestParam_Enum(t *testing.T) {
	p := newParam("solve_type", KindEnum, "", []Option{Options("NEWTON", "PJFNK", "JFNK")})

	v, err := p.Parse("newton", ConvertOptions{})
	require.NoError(t, err)
	assert.Equal(t, "newton", v.AsString(), "the raw choice is stored")

	_, err = p.Parse("NEWTN", ConvertOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "valid options are: NEWTON PJFNK JFNK")
	assert.Contains(t, err.Error(), "Did you mean 'NEWTON'?")

	_, err = p.Parse("GMRES", ConvertOptions{})
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "Did you mean")
}

func TestParam_FileNames(t *testing.T) {
	p := newParam("file", KindMeshFileName, "", nil)
	dir := filepath.Join("inputs", "case1")

	rel, err := p.Parse("mesh.e", ConvertOptions{InputDir: dir})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "mesh.e"), rel.AsString())

	abs := filepath.Join(string(filepath.Separator), "data", "mesh.e")
	v, err := p.Parse(abs, ConvertOptions{InputDir: dir})
	require.NoError(t, err)
	assert.Equal(t, abs, v.AsString())

	v, err = p.Parse("mesh.e", ConvertOptions{})
	require.NoError(t, err)
	assert.Equal(t, "mesh.e", v.AsString())
}

func TestParam_Dim(t *testing.T) {
	p := newParam("pt", KindPoint, "", nil)
	_, err := p.Parse("1 2", ConvertOptions{Dim: 2})
	assert.NoError(t, err)
}

func TestDefaults(t *testing.T) {
	ps := New("Test")
	ps.Declare("nx", KindInt, "", Default(10))
	ps.Declare("scale", KindReal, "", Default(0.5))
	ps.Declare("flag", KindBool, "", Default(true))
	ps.Declare("vars", KindStringVector, "", Default("u v"))
	ps.Declare("weights", KindRealVector, "", Default([]float64{1, 2.5}))
	ps.Declare("rows", KindIntVectorVector, "", Default([][]int{{1, 2}, {3}}))
	ps.Declare("coef", KindRealMap, "", Default(map[string]float64{"b": 2, "a": 1}))
	ps.Declare("mode", KindEnum, "", Default("fast"), Options("fast", "slow"))
	ps.Declare("none", KindReal, "")

	assert.Equal(t, "10", FormatValue(ps.Value("nx")))
	assert.Equal(t, "0.5", FormatValue(ps.Value("scale")))
	assert.Equal(t, "true", FormatValue(ps.Value("flag")))
	assert.Equal(t, "u v", FormatValue(ps.Value("vars")))
	assert.Equal(t, "1 2.5", FormatValue(ps.Value("weights")))
	assert.Equal(t, "1 2; 3", FormatValue(ps.Value("rows")))
	assert.Equal(t, "a 1 b 2", FormatValue(ps.Value("coef")))
	assert.Equal(t, "fast", FormatValue(ps.Value("mode")))
	assert.False(t, ps.Get("none").IsValid())
	assert.False(t, ps.Get("nx").IsSetByUser())
}

func TestDeclare_Panics(t *testing.T) {
	assert.Panics(t, func() {
		ps := New("Dup")
		ps.Declare("a", KindInt, "")
		ps.Declare("a", KindInt, "")
	})
	assert.Panics(t, func() { New("X").Declare("e", KindEnum, "") }, "enum without options")
	assert.Panics(t, func() { New("X").Declare("s", KindString, "", Range("s > 0")) }, "range on a string")
	assert.Panics(t, func() { New("X").Declare("n", KindInt, "", Default("ten")) }, "bad default")
	assert.Panics(t, func() { New("X").Declare("k", KindInvalid, "") })
}

func TestParameters_Merge(t *testing.T) {
	a := New("A")
	a.Declare("rho", KindReal, "density")
	a.Declare("name", KindString, "")

	b := New("B")
	b.Declare("rho", KindReal, "other doc")
	b.Declare("mu", KindReal, "viscosity")

	require.NoError(t, a.Merge(b))
	assert.Equal(t, []string{"rho", "name", "mu"}, a.Names())
	assert.Equal(t, "density", a.Get("rho").Doc, "existing declarations are kept")

	c := New("C")
	c.Declare("rho", KindInt, "")
	c.Declare("extra", KindInt, "")
	err := a.Merge(c)

	var conflict *KindConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "rho", conflict.Param)
	assert.Equal(t, "parameter 'rho' is declared as Real and as Int", conflict.Error())
	assert.False(t, a.Has("extra"), "a failed merge adds nothing")
}

func TestParameters_CloneIsIndependent(t *testing.T) {
	ps := New("C")
	ps.Declare("v", KindString, "", Alias("w"))

	c := ps.Clone()
	c.Get("v").Set(cty.StringVal("x"), document.Location{File: "f.i", Line: 1}, false)
	c.Get("v").Aliases[0] = "changed"

	assert.False(t, ps.Get("v").IsValid())
	assert.Equal(t, []string{"w"}, ps.Get("v").Aliases)
	assert.True(t, c.Get("v").IsSetByUser())
	assert.Equal(t, "f.i", c.Get("v").Location().File)
}

func TestParameters_PutRemove(t *testing.T) {
	ps := New("P")
	ps.Declare("a", KindInt, "")
	ps.Declare("b", KindInt, "")
	ps.Declare("c", KindInt, "")

	ps.Remove("b")
	ps.Remove("missing")
	assert.Equal(t, []string{"a", "c"}, ps.Names())

	replacement := newParam("a", KindReal, "", nil)
	ps.Put(replacement)
	assert.Equal(t, []string{"a", "c"}, ps.Names())
	assert.Same(t, replacement, ps.Get("a"))
}

func TestParameters_Missing(t *testing.T) {
	ps := New("M")
	ps.Declare("req", KindReal, "", Required())
	ps.Declare("req_default", KindReal, "", Required(), Default(1))
	ps.Declare("opt", KindReal, "")

	assert.Equal(t, []string{"req"}, ps.Missing())

	ps.Get("req").Set(cty.NumberFloatVal(2), document.Location{}, false)
	assert.Empty(t, ps.Missing())
}

func TestParameters_InputNames(t *testing.T) {
	ps := New("N")
	ps.Declare("length", KindReal, "", Alias("len"))
	ps.Declare("_task", KindString, "", Private())

	assert.Equal(t, []string{"length", "len"}, ps.InputNames())
}

func TestParameters_Decode(t *testing.T) {
	ps := New("D")
	ps.Declare("rho", KindReal, "", Default(1.5))
	ps.Declare("n", KindInt, "", Default(3))
	ps.Declare("vars", KindStringVector, "", Default("u v"))
	ps.Declare("coef", KindRealMap, "", Default(map[string]float64{"a": 1}))
	ps.Declare("rows", KindRealVectorVector, "", Default("1 2; 3"))
	ps.Declare("raw", KindBool, "", Default(true))
	ps.Declare("unset", KindString, "")

	var target struct {
		Rho    float64            `param:"rho"`
		N      int                `param:"n"`
		Vars   []string           `param:"vars"`
		Coef   map[string]float64 `param:"coef"`
		Rows   [][]float64        `param:"rows"`
		Raw    cty.Value          `param:"raw"`
		Unset  string             `param:"unset"`
		Ignore string
	}
	target.Unset = "kept"

	require.NoError(t, ps.Decode(&target))

	assert.Equal(t, 1.5, target.Rho)
	assert.Equal(t, 3, target.N)
	assert.Equal(t, []string{"u", "v"}, target.Vars)
	assert.Equal(t, map[string]float64{"a": 1}, target.Coef)
	assert.Equal(t, [][]float64{{1, 2}, {3}}, target.Rows)
	assert.True(t, target.Raw.True())
	assert.Equal(t, "kept", target.Unset)

	var bad struct {
		X int `param:"nope"`
	}
	assert.ErrorContains(t, ps.Decode(&bad), "undeclared parameter 'nope'")
	assert.Error(t, ps.Decode(target))
}
