package schema

import (
	"sort"
	"strconv"
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// FormatValue renders a value back into input syntax: list entries are
// separated by spaces, rows by ';' and planes by '|'.
func FormatValue(v cty.Value) string {
	if v == cty.NilVal || v.IsNull() || !v.IsKnown() {
		return ""
	}
	ty := v.Type()
	switch {
	case ty == cty.String:
		return v.AsString()
	case ty == cty.Bool:
		return strconv.FormatBool(v.True())
	case ty == cty.Number:
		f, _ := v.AsBigFloat().Float64()
		return strconv.FormatFloat(f, 'g', -1, 64)
	case ty.IsListType():
		sep := " "
		if et := ty.ElementType(); et.IsListType() {
			sep = "; "
			if et.ElementType().IsListType() {
				sep = " | "
			}
		}
		parts := make([]string, 0, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			_, el := it.Element()
			parts = append(parts, FormatValue(el))
		}
		return strings.Join(parts, sep)
	case ty.IsMapType():
		m := v.AsValueMap()
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, 2*len(keys))
		for _, k := range keys {
			parts = append(parts, k, FormatValue(m[k]))
		}
		return strings.Join(parts, " ")
	}
	return v.GoString()
}
