// Package outputs provides the [Outputs] block.
package outputs

import (
	"context"

	"github.com/specialistvlad/hitbuild/internal/action"
	"github.com/specialistvlad/hitbuild/internal/ctxlog"
	"github.com/specialistvlad/hitbuild/internal/registry"
	"github.com/specialistvlad/hitbuild/internal/schema"
	"github.com/specialistvlad/hitbuild/modules/kernels"
)

const (
	// Task is the task [Outputs] runs under.
	Task    = "common_output"
	Handler = "CommonOutputAction"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the parameters of the [Outputs] block.
type Input struct {
	Exodus    bool     `param:"exodus"`
	CSV       bool     `param:"csv"`
	FileBase  string   `param:"file_base"`
	Interval  uint     `param:"interval"`
	ExecuteOn []string `param:"execute_on"`
}

type commonOutput struct {
	action.Base
	input Input
}

func params() *schema.Parameters {
	ps := schema.New(Handler)
	ps.Declare("exodus", schema.KindBool, "Write an ExodusII file.", schema.Default(false))
	ps.Declare("csv", schema.KindBool, "Write postprocessor values as CSV.", schema.Default(false))
	ps.Declare("file_base", schema.KindFileNameNoExt, "Base name of output files.")
	ps.Declare("interval", schema.KindUint, "Write every n-th step.", schema.Default(1), schema.Range("interval > 0"))
	ps.Declare("execute_on", schema.KindEnumVector, "When to write.",
		schema.Options("initial", "timestep_end", "final"), schema.Default("timestep_end"))
	ps.Declare("output_initial", schema.KindBool, "Write the initial condition.",
		schema.Deprecated("use \"execute_on = 'initial timestep_end'\" instead"))
	return ps
}

func newCommonOutput(cfg action.Config, _ *registry.Registry) (action.Action, error) {
	a := &commonOutput{Base: action.NewBase(cfg)}
	if err := cfg.Params.Decode(&a.input); err != nil {
		return nil, err
	}
	return a, nil
}

// Act logs the configured outputs.
func (a *commonOutput) Act(ctx context.Context) error {
	ctxlog.FromContext(ctx).Info("Outputs configured.",
		"exodus", a.input.Exodus,
		"csv", a.input.CSV,
		"file_base", a.input.FileBase,
		"execute_on", a.input.ExecuteOn)
	return nil
}

// Register registers the handler with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterHandlerType(Handler, &registry.HandlerType{
		Params: params,
		New:    newCommonOutput,
		Doc:    "Output shortcuts for the common output formats.",
	})
	r.RegisterTask(Task, kernels.Task)
	r.RegisterHandler("Outputs", Handler, Task)
}
