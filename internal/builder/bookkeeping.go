package builder

import (
	"github.com/samber/lo"
	"github.com/specialistvlad/hitbuild/internal/document"
	"github.com/specialistvlad/hitbuild/internal/registry"
	"github.com/specialistvlad/hitbuild/internal/schema"
	"github.com/zclconf/go-cty/cty"
)

// setBookkeeping records on params which registration built them.
func setBookkeeping(params *schema.Parameters, r registry.Registration, path string, controlTag bool) {
	hidden(params, TaskParam, schema.KindString).Assign(cty.StringVal(r.Task))
	hidden(params, IdentifierParam, schema.KindString).Assign(cty.StringVal(r.ID()))
	if controlTag {
		addControlTag(params, path)
	}
}

// addControlTag appends the tag derived from the block path: the path of the
// enclosing block, or the block itself at the top level.
func addControlTag(params *schema.Parameters, path string) {
	tag := document.ParentPath(path)
	if tag == "" {
		tag = path
	}
	p := hidden(params, ControlTagsParam, schema.KindStringVector)
	tags := ControlTags(params)
	if !lo.Contains(tags, tag) {
		tags = append(tags, tag)
	}
	p.Assign(stringList(tags))
}

// ControlTags returns the control tags recorded on params.
func ControlTags(params *schema.Parameters) []string {
	return listStrings(params.Value(ControlTagsParam))
}

// hidden returns the named parameter, declaring it private if the schema
// does not have it.
func hidden(params *schema.Parameters, name string, kind schema.Kind) *schema.Param {
	if p := params.Get(name); p != nil {
		return p
	}
	return params.Declare(name, kind, "", schema.Private())
}

func stringList(values []string) cty.Value {
	if len(values) == 0 {
		return cty.ListValEmpty(cty.String)
	}
	return cty.ListVal(lo.Map(values, func(s string, _ int) cty.Value { return cty.StringVal(s) }))
}

func listStrings(v cty.Value) []string {
	if v == cty.NilVal || v.IsNull() || !v.Type().IsListType() {
		return nil
	}
	var out []string
	for it := v.ElementIterator(); it.Next(); {
		_, el := it.Element()
		out = append(out, el.AsString())
	}
	return out
}
