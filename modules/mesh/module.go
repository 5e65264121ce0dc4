// Package mesh provides the [Mesh] block and the mesh object types.
package mesh

import (
	"context"
	"fmt"

	"github.com/specialistvlad/hitbuild/internal/action"
	"github.com/specialistvlad/hitbuild/internal/ctxlog"
	"github.com/specialistvlad/hitbuild/internal/registry"
	"github.com/specialistvlad/hitbuild/internal/schema"
	"github.com/specialistvlad/hitbuild/modules/globalparams"
)

const (
	// Task is the task [Mesh] runs under.
	Task    = "setup_mesh"
	Handler = "SetupMeshAction"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Generated is the decoded GeneratedMesh object.
type Generated struct {
	Dim      string  `param:"dim"`
	NX       uint    `param:"nx"`
	NY       uint    `param:"ny"`
	NZ       uint    `param:"nz"`
	XMin     float64 `param:"xmin"`
	XMax     float64 `param:"xmax"`
	ElemType string  `param:"elem_type"`
}

func handlerParams() *schema.Parameters {
	ps := schema.New(Handler)
	ps.Declare("type", schema.KindString, "The mesh object type.", schema.Required())
	ps.Declare("uniform_refine", schema.KindUint, "Number of uniform refinements.", schema.Default(0))
	ps.Declare("second_order", schema.KindBool, "Convert to second order elements.", schema.Default(false))
	return ps
}

func generatedParams() *schema.Parameters {
	ps := schema.New("GeneratedMesh")
	ps.Declare("dim", schema.KindEnum, "Mesh dimension.", schema.Options("1", "2", "3"), schema.Required())
	for _, n := range []string{"nx", "ny", "nz"} {
		ps.Declare(n, schema.KindUint, "Number of elements along one axis.", schema.Default(1), schema.Range(n+" > 0"))
	}
	ps.Declare("xmin", schema.KindReal, "Lower x bound.", schema.Default(0.0))
	ps.Declare("xmax", schema.KindReal, "Upper x bound.", schema.Default(1.0))
	ps.Declare("elem_type", schema.KindEnum, "Element type.", schema.Options("EDGE2", "QUAD4", "QUAD9", "HEX8", "HEX27"))
	return ps
}

func fileParams() *schema.Parameters {
	ps := schema.New("FileMesh")
	ps.Declare("file", schema.KindMeshFileName, "The mesh file to read.", schema.Required())
	return ps
}

type setupMesh struct {
	action.Base
	generated *Generated
	file      string
}

func newSetupMesh(cfg action.Config, _ *registry.Registry) (action.Action, error) {
	a := &setupMesh{Base: action.NewBase(cfg)}
	switch cfg.ObjectType {
	case "GeneratedMesh":
		a.generated = &Generated{}
		if err := cfg.ObjectParams.Decode(a.generated); err != nil {
			return nil, err
		}
		if a.generated.XMax <= a.generated.XMin {
			return nil, fmt.Errorf("xmax (%g) must be greater than xmin (%g)", a.generated.XMax, a.generated.XMin)
		}
	case "FileMesh":
		a.file = schema.FormatValue(cfg.ObjectParams.Value("file"))
	}
	return a, nil
}

// Act logs the configured mesh.
func (a *setupMesh) Act(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	if a.generated != nil {
		logger.Info("Mesh generated.", "dim", a.generated.Dim, "nx", a.generated.NX, "ny", a.generated.NY, "nz", a.generated.NZ)
		return nil
	}
	logger.Info("Mesh read.", "file", a.file)
	return nil
}

// Register registers the handler and the mesh objects with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterHandlerType(Handler, &registry.HandlerType{
		Params:         handlerParams,
		New:            newSetupMesh,
		ProducesObject: true,
		Doc:            "Creates the mesh.",
	})
	r.RegisterObject("GeneratedMesh", &registry.ObjectType{Params: generatedParams, Doc: "A structured mesh of a line, rectangle or box."})
	r.RegisterObject("FileMesh", &registry.ObjectType{Params: fileParams, Doc: "A mesh read from a file."})
	r.RegisterTask(Task, globalparams.Task)
	r.RegisterHandler("Mesh", Handler, Task)
}
