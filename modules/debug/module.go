// Package debug provides the [Debug] block, built before any other block.
package debug

import (
	"context"

	"github.com/specialistvlad/hitbuild/internal/action"
	"github.com/specialistvlad/hitbuild/internal/builder"
	"github.com/specialistvlad/hitbuild/internal/ctxlog"
	"github.com/specialistvlad/hitbuild/internal/registry"
	"github.com/specialistvlad/hitbuild/internal/schema"
)

// Task is the task [Debug] runs under.
const Task = "setup_debug"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the parameters of the [Debug] block.
type Input struct {
	ShowActions bool     `param:"show_actions"`
	ShowParser  bool     `param:"show_parser"`
	ShowVarRes  []string `param:"show_var_residual"`
}

type setupDebug struct {
	action.Base
	input Input
}

func params() *schema.Parameters {
	ps := schema.New(builder.SetupDebugHandler)
	ps.Declare("show_actions", schema.KindBool, "Log every configured action before it runs.", schema.Default(false))
	ps.Declare("show_parser", schema.KindBool, "Log the parsed input parameters of every block.", schema.Default(false))
	ps.Declare("show_var_residual", schema.KindNameVector, "Variables whose residual norms are reported.")
	return ps
}

func newSetupDebug(cfg action.Config, _ *registry.Registry) (action.Action, error) {
	a := &setupDebug{Base: action.NewBase(cfg)}
	if err := cfg.Params.Decode(&a.input); err != nil {
		return nil, err
	}
	return a, nil
}

// Act logs the debug settings.
func (a *setupDebug) Act(ctx context.Context) error {
	ctxlog.FromContext(ctx).Info("Debug output configured.",
		"show_actions", a.input.ShowActions,
		"show_parser", a.input.ShowParser,
		"residuals", a.input.ShowVarRes)
	return nil
}

// Register registers the handler with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterHandlerType(builder.SetupDebugHandler, &registry.HandlerType{
		Params: params,
		New:    newSetupDebug,
		Doc:    "Debugging switches, applied before the rest of the input is built.",
	})
	r.RegisterTask(Task)
	r.RegisterHandler("Debug", builder.SetupDebugHandler, Task)
}
