// Package problem provides the [Problem] block. Besides the problem
// settings it loads additional application libraries, whose object types
// are registered while the input is being built.
package problem

import (
	"context"
	"fmt"
	"sort"

	"github.com/samber/lo"
	"github.com/specialistvlad/hitbuild/internal/action"
	"github.com/specialistvlad/hitbuild/internal/builder"
	"github.com/specialistvlad/hitbuild/internal/ctxlog"
	"github.com/specialistvlad/hitbuild/internal/registry"
	"github.com/specialistvlad/hitbuild/internal/schema"
	"github.com/specialistvlad/hitbuild/internal/suggest"
	"github.com/specialistvlad/hitbuild/modules/globalparams"
	"github.com/specialistvlad/hitbuild/modules/kernels"
	"github.com/specialistvlad/hitbuild/modules/mesh"
)

// Task is the task [Problem] runs under.
const Task = "dynamic_object_registration"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Library registers the object types of one application library.
type Library func(r *registry.Registry)

// Libraries are the application libraries [Problem] can load by name.
var Libraries = map[string]Library{
	"HeatTransferApp": func(r *registry.Registry) {
		r.RegisterObject("HeatConduction", &registry.ObjectType{
			Params: func() *schema.Parameters {
				ps := kernels.BaseParams("HeatConduction")
				ps.Declare("diffusion_coefficient", schema.KindReal, "Thermal conductivity.", schema.Default(1.0), schema.Range("diffusion_coefficient > 0"))
				return ps
			},
			Doc: "Heat conduction kernel.",
		})
		r.RegisterObject("HeatSource", &registry.ObjectType{
			Params: func() *schema.Parameters {
				ps := kernels.BaseParams("HeatSource")
				ps.Declare("value", schema.KindReal, "Volumetric heat source.", schema.Default(0.0))
				return ps
			},
			Doc: "Constant volumetric heat source.",
		})
	},
	"ChemicalReactionsApp": func(r *registry.Registry) {
		r.RegisterObject("PrimaryDiffusion", &registry.ObjectType{
			Params: func() *schema.Parameters { return kernels.BaseParams("PrimaryDiffusion") },
			Doc:    "Diffusion of a primary species.",
		})
	},
}

func libraryNames() []string {
	names := lo.Keys(Libraries)
	sort.Strings(names)
	return names
}

func params() *schema.Parameters {
	ps := schema.New(builder.DynamicObjectRegistrationHandler)
	ps.Declare("register_objects_from", schema.KindStringVector, "Application libraries to load object types from.")
	ps.Declare("library_path", schema.KindFileName, "Directory the libraries are searched in.")
	ps.Declare("solve", schema.KindBool, "Whether to solve the problem.", schema.Default(true))
	ps.Declare("kernel_coverage_check", schema.KindBool, "Require a kernel on every subdomain.", schema.Default(true))
	return ps
}

type problem struct {
	action.Base
	loaded []string
}

// newProblem loads the requested libraries into the registry, reopened for
// the duration of the call.
func newProblem(cfg action.Config, reg *registry.Registry) (action.Action, error) {
	var input struct {
		Libraries []string `param:"register_objects_from"`
	}
	if err := cfg.Params.Decode(&input); err != nil {
		return nil, err
	}
	requested := lo.Uniq(input.Libraries)
	for _, name := range requested {
		if _, ok := Libraries[name]; !ok {
			msg := fmt.Sprintf("unknown application library '%s'", name)
			if hint := suggest.DidYouMean(suggest.FindSimilar(name, libraryNames())); hint != "" {
				msg += "; " + hint
			}
			return nil, fmt.Errorf("%s (available: %v)", msg, libraryNames())
		}
	}

	if len(requested) > 0 {
		h := reg.Reopen(fmt.Sprintf("[%s] register_objects_from", cfg.Block))
		defer h.Close()
		for _, name := range requested {
			Libraries[name](reg)
		}
	}
	return &problem{Base: action.NewBase(cfg), loaded: requested}, nil
}

// Act logs the loaded libraries.
func (a *problem) Act(ctx context.Context) error {
	ctxlog.FromContext(ctx).Info("Problem configured.", "libraries", a.loaded)
	return nil
}

// Register registers the handler with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterHandlerType(builder.DynamicObjectRegistrationHandler, &registry.HandlerType{
		Params: params,
		New:    newProblem,
		Doc:    "Problem settings; loads object types from application libraries.",
	})
	r.RegisterTask(Task, globalparams.Task)
	r.AddTaskDependency(mesh.Task, Task)
	r.RegisterHandler("Problem", builder.DynamicObjectRegistrationHandler, Task)
}
