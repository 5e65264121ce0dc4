// Package flow provides the [Flow] block and the fluid property objects.
package flow

import (
	"context"

	"github.com/specialistvlad/hitbuild/internal/action"
	"github.com/specialistvlad/hitbuild/internal/ctxlog"
	"github.com/specialistvlad/hitbuild/internal/registry"
	"github.com/specialistvlad/hitbuild/internal/schema"
	"github.com/specialistvlad/hitbuild/modules/variables"
)

const (
	// Task is the task [Flow] runs under.
	Task    = "add_flow"
	Handler = "AddFlowAction"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Fluid is the decoded Incompressible object.
type Fluid struct {
	Rho       float64 `param:"rho"`
	Mu        float64 `param:"mu"`
	Length    float64 `param:"Length"`
	Advection string  `param:"advection"`
}

func handlerParams() *schema.Parameters {
	ps := schema.New(Handler)
	ps.Declare("type", schema.KindString, "The fluid model.", schema.Required())
	ps.Declare("velocity_variables", schema.KindNameVector, "Velocity component variables.",
		schema.AutoBuildFrom("velocity_base", "velocity_count"))
	ps.Declare("velocity_base", schema.KindString, "Base name of generated velocity variables.")
	ps.Declare("velocity_count", schema.KindUint, "Number of generated velocity variables.")
	return ps
}

func incompressibleParams() *schema.Parameters {
	ps := schema.New("Incompressible")
	ps.Declare("rho", schema.KindReal, "Density.", schema.Required(), schema.Alias("density"), schema.Range("rho > 0"))
	ps.Declare("mu", schema.KindReal, "Dynamic viscosity.", schema.Default(1e-3), schema.Range("mu > 0"))
	ps.Declare("Length", schema.KindReal, "Characteristic length.", schema.Default(1.0))
	ps.Declare("advection", schema.KindEnum, "Advection interpolation.", schema.Options("upwind", "central"), schema.Default("upwind"))
	ps.Declare("gravity", schema.KindPoint, "Gravity vector.", schema.Default("0 0 0"))
	return ps
}

type addFlow struct {
	action.Base
	fluid Fluid
}

func newAddFlow(cfg action.Config, _ *registry.Registry) (action.Action, error) {
	a := &addFlow{Base: action.NewBase(cfg)}
	if err := cfg.ObjectParams.Decode(&a.fluid); err != nil {
		return nil, err
	}
	return a, nil
}

// Act logs the configured fluid.
func (a *addFlow) Act(ctx context.Context) error {
	ctxlog.FromContext(ctx).Info("Flow configured.",
		"model", a.ObjectType(),
		"rho", a.fluid.Rho,
		"mu", a.fluid.Mu,
		"reynolds_scale", a.fluid.Rho*a.fluid.Length/a.fluid.Mu)
	return nil
}

// Register registers the handler and the fluid objects with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterHandlerType(Handler, &registry.HandlerType{
		Params:         handlerParams,
		New:            newAddFlow,
		ProducesObject: true,
		Doc:            "Sets up the flow equations for one fluid model.",
	})
	r.RegisterObject("Incompressible", &registry.ObjectType{Params: incompressibleParams, Doc: "Constant density fluid."})
	r.RegisterTask(Task, variables.Task)
	r.RegisterHandler("Flow", Handler, Task)
}
