// Package kernels provides the [Kernels] blocks and the kernel object types.
package kernels

import (
	"context"
	"fmt"

	"github.com/specialistvlad/hitbuild/internal/action"
	"github.com/specialistvlad/hitbuild/internal/ctxlog"
	"github.com/specialistvlad/hitbuild/internal/registry"
	"github.com/specialistvlad/hitbuild/internal/schema"
	"github.com/specialistvlad/hitbuild/modules/variables"
)

const (
	// Task is the task kernel blocks run under.
	Task    = "add_kernel"
	Handler = "AddKernelAction"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// BaseParams declares what every kernel object accepts.
func BaseParams(class string) *schema.Parameters {
	ps := schema.New(class)
	ps.Declare("variable", schema.KindName, "The variable this kernel acts on.", schema.Required())
	ps.Declare("block", schema.KindNameVector, "Mesh subdomains the kernel is restricted to.")
	return ps
}

func diffusionParams() *schema.Parameters {
	ps := BaseParams("Diffusion")
	ps.Declare("coefficient", schema.KindReal, "Diffusion coefficient.", schema.Default(1.0), schema.Range("coefficient > 0"))
	return ps
}

func timeDerivativeParams() *schema.Parameters {
	ps := BaseParams("TimeDerivative")
	ps.Declare("lumping", schema.KindBool, "Lump the mass matrix.", schema.Default(false))
	return ps
}

func bodyForceParams() *schema.Parameters {
	ps := BaseParams("BodyForce")
	ps.Declare("value", schema.KindReal, "Constant source value.", schema.Default(1.0))
	ps.Declare("function", schema.KindName, "Function multiplying the value.")
	ps.Declare("postprocessor", schema.KindName, "Postprocessor multiplying the value.", schema.Deprecated("use 'function' instead"))
	return ps
}

func handlerParams() *schema.Parameters {
	ps := schema.New(Handler)
	ps.Declare("type", schema.KindString, "The kernel object type.", schema.Required())
	return ps
}

// Input defines the parameters every kernel object shares.
type Input struct {
	Variable string   `param:"variable"`
	Block    []string `param:"block"`
}

type addKernel struct {
	action.Base
	input Input
}

func newAddKernel(cfg action.Config, _ *registry.Registry) (action.Action, error) {
	a := &addKernel{Base: action.NewBase(cfg)}
	if err := cfg.ObjectParams.Decode(&a.input); err != nil {
		return nil, fmt.Errorf("kernel '%s': %w", a.Name(), err)
	}
	return a, nil
}

// Act logs the configured kernel.
func (a *addKernel) Act(ctx context.Context) error {
	ctxlog.FromContext(ctx).Info("Kernel added.", "name", a.Name(), "type", a.ObjectType(), "variable", a.input.Variable)
	return nil
}

// Register registers the handler and the kernel objects with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterHandlerType(Handler, &registry.HandlerType{
		Params:         handlerParams,
		New:            newAddKernel,
		ProducesObject: true,
		Doc:            "Adds one kernel object per block.",
	})
	r.RegisterObject("Diffusion", &registry.ObjectType{Params: diffusionParams, Doc: "Laplacian of the variable."})
	r.RegisterObject("TimeDerivative", &registry.ObjectType{Params: timeDerivativeParams, Doc: "Time derivative of the variable."})
	r.RegisterObject("BodyForce", &registry.ObjectType{Params: bodyForceParams, Doc: "Constant volumetric source."})
	r.RegisterTask(Task, variables.Task)
	r.RegisterHandler("Kernels/*", Handler, Task)
}
