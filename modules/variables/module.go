// Package variables provides the [Variables] blocks.
package variables

import (
	"context"

	"github.com/specialistvlad/hitbuild/internal/action"
	"github.com/specialistvlad/hitbuild/internal/ctxlog"
	"github.com/specialistvlad/hitbuild/internal/registry"
	"github.com/specialistvlad/hitbuild/internal/schema"
	"github.com/specialistvlad/hitbuild/modules/mesh"
)

const (
	// Task is the task variable blocks run under.
	Task    = "add_variable"
	Handler = "AddVariableAction"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the parameters of one variable block.
type Input struct {
	Family           string   `param:"family"`
	Order            string   `param:"order"`
	InitialCondition float64  `param:"initial_condition"`
	Scaling          float64  `param:"scaling"`
	Block            []string `param:"block"`
}

type addVariable struct {
	action.Base
	input Input
}

func params() *schema.Parameters {
	ps := schema.New(Handler)
	ps.Declare("family", schema.KindEnum, "Finite element family.", schema.Options("LAGRANGE", "MONOMIAL", "HERMITE"), schema.Default("LAGRANGE"))
	ps.Declare("order", schema.KindEnum, "Polynomial order.", schema.Options("CONSTANT", "FIRST", "SECOND", "THIRD"), schema.Default("FIRST"))
	ps.Declare("initial_condition", schema.KindReal, "Constant initial value.", schema.Default(0.0))
	ps.Declare("scaling", schema.KindReal, "Residual scaling factor.", schema.Default(1.0), schema.Range("scaling > 0"))
	ps.Declare("block", schema.KindNameVector, "Mesh subdomains the variable lives on.")
	return ps
}

func newAddVariable(cfg action.Config, _ *registry.Registry) (action.Action, error) {
	a := &addVariable{Base: action.NewBase(cfg)}
	if err := cfg.Params.Decode(&a.input); err != nil {
		return nil, err
	}
	return a, nil
}

// Act logs the configured variable.
func (a *addVariable) Act(ctx context.Context) error {
	ctxlog.FromContext(ctx).Info("Variable added.",
		"name", a.Name(),
		"family", a.input.Family,
		"order", a.input.Order,
		"initial_condition", a.input.InitialCondition)
	return nil
}

// Register registers the handler with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterHandlerType(Handler, &registry.HandlerType{
		Params: params,
		New:    newAddVariable,
		Doc:    "Adds one nonlinear variable per block.",
	})
	r.RegisterTask(Task, mesh.Task)
	r.RegisterHandler("Variables/*", Handler, Task)
}
