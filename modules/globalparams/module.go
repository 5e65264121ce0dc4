// Package globalparams provides the [GlobalParams] block. Its fields are not
// declared anywhere: every other block falls back to them for parameters it
// does not set itself.
package globalparams

import (
	"context"

	"github.com/specialistvlad/hitbuild/internal/action"
	"github.com/specialistvlad/hitbuild/internal/builder"
	"github.com/specialistvlad/hitbuild/internal/ctxlog"
	"github.com/specialistvlad/hitbuild/internal/registry"
	"github.com/specialistvlad/hitbuild/internal/schema"
	"github.com/specialistvlad/hitbuild/modules/debug"
)

// Task is the task [GlobalParams] runs under.
const Task = "global_params"

// Module implements the registry.Module interface for this package.
type Module struct{}

type globalParams struct {
	action.Base
}

// Act logs the global values consumers typed.
func (a *globalParams) Act(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	for _, p := range a.Params().Params() {
		if p.Private || !p.IsValid() {
			continue
		}
		logger.Debug("Global parameter.", "name", p.Name, "kind", p.Kind.String(), "value", schema.FormatValue(p.Value()))
	}
	return nil
}

// Register registers the handler with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterHandlerType(builder.GlobalParamsHandler, &registry.HandlerType{
		Params: func() *schema.Parameters { return schema.New(builder.GlobalParamsHandler) },
		New: func(cfg action.Config, _ *registry.Registry) (action.Action, error) {
			return &globalParams{Base: action.NewBase(cfg)}, nil
		},
		Doc: "Parameters shared by every block that declares them.",
	})
	r.RegisterTask(Task, debug.Task)
	r.RegisterHandler("GlobalParams", builder.GlobalParamsHandler, Task)
}
