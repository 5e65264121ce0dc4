package schema

import (
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"github.com/specialistvlad/hitbuild/internal/document"
	"github.com/specialistvlad/hitbuild/internal/suggest"
	"github.com/zclconf/go-cty/cty"
)

// DefaultDim is the number of components of a Point.
const DefaultDim = 3

// ConvertOptions carries the per-build settings conversion depends on.
type ConvertOptions struct {
	// Dim is the number of components per Point. Zero means DefaultDim.
	Dim int
	// InputDir prefixes relative file names. Empty leaves them untouched.
	InputDir string
}

func (o ConvertOptions) dim() int {
	if o.Dim <= 0 {
		return DefaultDim
	}
	return o.Dim
}

type converter func(p *Param, raw string, opts ConvertOptions) (cty.Value, error)

var converters = map[Kind]converter{
	KindBool:          convertBool,
	KindInt:           convertInt,
	KindUint:          convertUint,
	KindReal:          convertReal,
	KindString:        convertString,
	KindFileName:      convertFileName,
	KindFileNameNoExt: convertFileName,
	KindMeshFileName:  convertFileName,
	KindEnum:          convertEnum,
	KindName:          convertName,
	KindObjectRef:     convertObjectRef,
	KindPoint:         convertPoint,

	KindBoolVector:      vectorOf(convertBool, cty.Bool),
	KindIntVector:       vectorOf(convertInt, cty.Number),
	KindRealVector:      vectorOf(convertReal, cty.Number),
	KindStringVector:    vectorOf(convertString, cty.String),
	KindFileNameVector:  vectorOf(convertFileName, cty.String),
	KindEnumVector:      vectorOf(convertEnum, cty.String),
	KindNameVector:      vectorOf(convertName, cty.String),
	KindObjectRefVector: vectorOf(convertObjectRef, cty.String),
	KindPointVector:     convertPointVector,

	KindIntVectorVector:    vectorVectorOf(convertInt, cty.Number),
	KindRealVectorVector:   vectorVectorOf(convertReal, cty.Number),
	KindStringVectorVector: vectorVectorOf(convertString, cty.String),
	KindRealVector3D:       convertRealVector3D,

	KindRealMap:   mapOf(convertReal, cty.Number),
	KindStringMap: mapOf(convertString, cty.String),
}

func conversionError(p *Param, raw, reason string) error {
	return &ParameterConversionError{Param: p.Name, Kind: p.Kind, Value: raw, Reason: reason}
}

func convertBool(p *Param, raw string, _ ConvertOptions) (cty.Value, error) {
	b, err := document.ParseBool(raw)
	if err != nil {
		return cty.NilVal, conversionError(p, raw, "expected true/false, on/off or yes/no")
	}
	return cty.BoolVal(b), nil
}

func convertInt(p *Param, raw string, _ ConvertOptions) (cty.Value, error) {
	i, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return cty.NilVal, conversionError(p, raw, "not an integer")
	}
	return cty.NumberIntVal(i), nil
}

func convertUint(p *Param, raw string, _ ConvertOptions) (cty.Value, error) {
	u, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return cty.NilVal, conversionError(p, raw, "not a non-negative integer")
	}
	return cty.NumberUIntVal(u), nil
}

func convertReal(p *Param, raw string, _ ConvertOptions) (cty.Value, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(f) {
		return cty.NilVal, conversionError(p, raw, "not a number")
	}
	return cty.NumberFloatVal(f), nil
}

func convertString(_ *Param, raw string, _ ConvertOptions) (cty.Value, error) {
	return cty.StringVal(raw), nil
}

func convertName(_ *Param, raw string, _ ConvertOptions) (cty.Value, error) {
	return cty.StringVal(strings.TrimSpace(raw)), nil
}

func convertFileName(_ *Param, raw string, opts ConvertOptions) (cty.Value, error) {
	name := strings.TrimSpace(raw)
	if name != "" && opts.InputDir != "" && !filepath.IsAbs(name) {
		name = filepath.Join(opts.InputDir, name)
	}
	return cty.StringVal(name), nil
}

func convertEnum(p *Param, raw string, _ ConvertOptions) (cty.Value, error) {
	choice := strings.TrimSpace(raw)
	for _, opt := range p.Options {
		if strings.EqualFold(opt, choice) {
			return cty.StringVal(choice), nil
		}
	}
	reason := "valid options are: " + strings.Join(p.Options, " ")
	if similar := suggest.FindSimilar(choice, p.Options); len(similar) == 1 {
		reason += ". " + suggest.DidYouMean(similar)
	}
	return cty.NilVal, conversionError(p, raw, reason)
}

func convertObjectRef(p *Param, raw string, _ ConvertOptions) (cty.Value, error) {
	name := strings.TrimSpace(raw)
	parts := strings.Split(name, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return cty.NilVal, &ReferenceFormatError{Param: p.Name, Value: name}
	}
	return cty.StringVal(name), nil
}

func convertPoint(p *Param, raw string, opts ConvertOptions) (cty.Value, error) {
	words := strings.Fields(raw)
	if len(words) != opts.dim() {
		return cty.NilVal, conversionError(p, raw, fmt.Sprintf("a point needs exactly %d components, got %d", opts.dim(), len(words)))
	}
	return listOf(p, words, convertReal, cty.Number, opts)
}

func convertPointVector(p *Param, raw string, opts ConvertOptions) (cty.Value, error) {
	words := strings.Fields(raw)
	dim := opts.dim()
	if len(words)%dim != 0 {
		return cty.NilVal, conversionError(p, raw, fmt.Sprintf("the number of components (%d) is not a multiple of %d", len(words), dim))
	}
	points := make([]cty.Value, 0, len(words)/dim)
	for i := 0; i < len(words); i += dim {
		pt, err := listOf(p, words[i:i+dim], convertReal, cty.Number, opts)
		if err != nil {
			return cty.NilVal, err
		}
		points = append(points, pt)
	}
	if len(points) == 0 {
		return cty.ListValEmpty(cty.List(cty.Number)), nil
	}
	return cty.ListVal(points), nil
}

func listOf(p *Param, words []string, elem converter, elemType cty.Type, opts ConvertOptions) (cty.Value, error) {
	if len(words) == 0 {
		return cty.ListValEmpty(elemType), nil
	}
	vals := make([]cty.Value, 0, len(words))
	for _, w := range words {
		v, err := elem(p, w, opts)
		if err != nil {
			return cty.NilVal, err
		}
		vals = append(vals, v)
	}
	return cty.ListVal(vals), nil
}

func vectorOf(elem converter, elemType cty.Type) converter {
	return func(p *Param, raw string, opts ConvertOptions) (cty.Value, error) {
		return listOf(p, strings.Fields(raw), elem, elemType, opts)
	}
}

// vectorVectorOf splits rows on ';' and the entries of a row on whitespace.
func vectorVectorOf(elem converter, elemType cty.Type) converter {
	return func(p *Param, raw string, opts ConvertOptions) (cty.Value, error) {
		if strings.TrimSpace(raw) == "" {
			return cty.ListValEmpty(cty.List(elemType)), nil
		}
		rows := strings.Split(raw, ";")
		vals := make([]cty.Value, 0, len(rows))
		for _, row := range rows {
			v, err := listOf(p, strings.Fields(row), elem, elemType, opts)
			if err != nil {
				return cty.NilVal, err
			}
			vals = append(vals, v)
		}
		return cty.ListVal(vals), nil
	}
}

// convertRealVector3D splits planes on '|' and parses each plane as rows.
func convertRealVector3D(p *Param, raw string, opts ConvertOptions) (cty.Value, error) {
	if strings.TrimSpace(raw) == "" {
		return cty.ListValEmpty(cty.List(cty.List(cty.Number))), nil
	}
	rows := vectorVectorOf(convertReal, cty.Number)
	planes := strings.Split(raw, "|")
	vals := make([]cty.Value, 0, len(planes))
	for _, plane := range planes {
		v, err := rows(p, plane, opts)
		if err != nil {
			return cty.NilVal, err
		}
		vals = append(vals, v)
	}
	return cty.ListVal(vals), nil
}

// mapOf reads alternating keys and values separated by whitespace or ';'.
func mapOf(elem converter, elemType cty.Type) converter {
	return func(p *Param, raw string, opts ConvertOptions) (cty.Value, error) {
		tokens := strings.FieldsFunc(raw, func(r rune) bool { return unicode.IsSpace(r) || r == ';' })
		if len(tokens)%2 != 0 {
			return cty.NilVal, &MapFormatError{Param: p.Name, Reason: fmt.Sprintf("odd number of entries (%d); every key needs a value", len(tokens))}
		}
		if len(tokens) == 0 {
			return cty.MapValEmpty(elemType), nil
		}
		vals := make(map[string]cty.Value, len(tokens)/2)
		for i := 0; i < len(tokens); i += 2 {
			key := tokens[i]
			if _, dup := vals[key]; dup {
				return cty.NilVal, &MapFormatError{Param: p.Name, Reason: fmt.Sprintf("duplicate key '%s'", key)}
			}
			v, err := elem(p, tokens[i+1], opts)
			if err != nil {
				return cty.NilVal, err
			}
			vals[key] = v
		}
		return cty.MapVal(vals), nil
	}
}
