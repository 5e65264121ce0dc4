package registry

import (
	"fmt"
	"sort"

	"github.com/specialistvlad/hitbuild/internal/schema"
	"gopkg.in/yaml.v3"
)

type paramDump struct {
	Name       string   `yaml:"name"`
	Kind       string   `yaml:"kind"`
	Required   bool     `yaml:"required,omitempty"`
	Default    string   `yaml:"default,omitempty"`
	Doc        string   `yaml:"doc,omitempty"`
	Options    []string `yaml:"options,omitempty"`
	Aliases    []string `yaml:"aliases,omitempty"`
	Range      string   `yaml:"range,omitempty"`
	Deprecated string   `yaml:"deprecated,omitempty"`
}

type handlerDump struct {
	Handler        string      `yaml:"handler"`
	Task           string      `yaml:"task"`
	ProducesObject bool        `yaml:"produces_object,omitempty"`
	Parameters     []paramDump `yaml:"parameters,omitempty"`
}

type syntaxDump struct {
	Path     string        `yaml:"path"`
	Handlers []handlerDump `yaml:"handlers"`
}

type objectDump struct {
	Name       string      `yaml:"name"`
	Doc        string      `yaml:"doc,omitempty"`
	Parameters []paramDump `yaml:"parameters,omitempty"`
}

type registryDump struct {
	Tasks   []string     `yaml:"tasks"`
	Syntax  []syntaxDump `yaml:"syntax"`
	Objects []objectDump `yaml:"objects,omitempty"`
}

// Dump serializes the registered syntax, handlers, objects and their
// parameters to YAML. Private parameters are left out.
func (r *Registry) Dump() ([]byte, error) {
	tasks, err := r.TaskOrder()
	if err != nil {
		return nil, err
	}
	out := registryDump{Tasks: tasks}

	index := make(map[string]int)
	for _, reg := range r.registrations {
		i, ok := index[reg.ID()]
		if !ok {
			i = len(out.Syntax)
			index[reg.ID()] = i
			out.Syntax = append(out.Syntax, syntaxDump{Path: reg.ID()})
		}
		hd := handlerDump{Handler: reg.Handler, Task: reg.Task}
		if ht, ok := r.handlerTypes[reg.Handler]; ok {
			hd.ProducesObject = ht.ProducesObject
			hd.Parameters = dumpParams(ht.Params())
		}
		out.Syntax[i].Handlers = append(out.Syntax[i].Handlers, hd)
	}
	sort.SliceStable(out.Syntax, func(a, b int) bool { return out.Syntax[a].Path < out.Syntax[b].Path })

	for _, name := range r.ObjectTypes() {
		obj := r.objectTypes[name]
		out.Objects = append(out.Objects, objectDump{Name: name, Doc: obj.Doc, Parameters: dumpParams(obj.Params())})
	}

	data, err := yaml.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("failed to encode registry dump: %w", err)
	}
	return data, nil
}

func dumpParams(ps *schema.Parameters) []paramDump {
	var out []paramDump
	for _, p := range ps.Params() {
		if p.Private {
			continue
		}
		out = append(out, paramDump{
			Name:       p.Name,
			Kind:       p.Kind.String(),
			Required:   p.Required,
			Default:    schema.FormatValue(p.Default),
			Doc:        p.Doc,
			Options:    p.Options,
			Aliases:    p.Aliases,
			Range:      p.Range,
			Deprecated: p.DeprecationMessage,
		})
	}
	return out
}
