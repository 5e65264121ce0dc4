// Package multiapps provides the [MultiApps] blocks. Each block configures
// sub-applications built from their own input files.
package multiapps

import (
	"context"

	"github.com/specialistvlad/hitbuild/internal/action"
	"github.com/specialistvlad/hitbuild/internal/ctxlog"
	"github.com/specialistvlad/hitbuild/internal/registry"
	"github.com/specialistvlad/hitbuild/internal/schema"
	"github.com/specialistvlad/hitbuild/modules/kernels"
)

const (
	// Task is the task multiapp blocks run under.
	Task    = "add_multi_app"
	Handler = "AddMultiAppAction"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the parameters of one multiapp block.
type Input struct {
	InputFiles []string `param:"input_files"`
	ExecuteOn  []string `param:"execute_on"`
}

type addMultiApp struct {
	action.Base
	input Input
}

func params() *schema.Parameters {
	ps := schema.New(Handler)
	ps.Declare("input_files", schema.KindFileNameVector, "Input file of each sub-application.", schema.Required())
	ps.Declare("execute_on", schema.KindEnumVector, "When the sub-applications run.",
		schema.Options("initial", "timestep_begin", "timestep_end", "final"), schema.Default("timestep_begin"))
	return ps
}

func newAddMultiApp(cfg action.Config, _ *registry.Registry) (action.Action, error) {
	a := &addMultiApp{Base: action.NewBase(cfg)}
	if err := cfg.Params.Decode(&a.input); err != nil {
		return nil, err
	}
	return a, nil
}

// SubApps returns one sub-application per input file, named after the block.
func (a *addMultiApp) SubApps() []action.SubApp {
	subs := make([]action.SubApp, len(a.input.InputFiles))
	for i, file := range a.input.InputFiles {
		subs[i] = action.SubApp{Name: a.Name(), Index: i, Input: file}
	}
	return subs
}

// Act logs the configured sub-applications.
func (a *addMultiApp) Act(ctx context.Context) error {
	ctxlog.FromContext(ctx).Info("Sub-applications configured.", "name", a.Name(), "inputs", a.input.InputFiles)
	return nil
}

// Register registers the handler with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterHandlerType(Handler, &registry.HandlerType{
		Params: params,
		New:    newAddMultiApp,
		Doc:    "Adds sub-applications built from their own input files.",
	})
	r.RegisterTask(Task, kernels.Task)
	r.RegisterHandler("MultiApps/*", Handler, Task)
}
