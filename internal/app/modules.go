package app

import (
	"github.com/specialistvlad/hitbuild/internal/registry"
	"github.com/specialistvlad/hitbuild/modules/debug"
	"github.com/specialistvlad/hitbuild/modules/flow"
	"github.com/specialistvlad/hitbuild/modules/globalparams"
	"github.com/specialistvlad/hitbuild/modules/kernels"
	"github.com/specialistvlad/hitbuild/modules/mesh"
	"github.com/specialistvlad/hitbuild/modules/multiapps"
	"github.com/specialistvlad/hitbuild/modules/outputs"
	"github.com/specialistvlad/hitbuild/modules/problem"
	"github.com/specialistvlad/hitbuild/modules/variables"
)

// coreModules is the definitive list of all modules that are compiled into
// the hitbuild binary.
var coreModules = []registry.Module{
	&debug.Module{},
	&globalparams.Module{},
	&problem.Module{},
	&mesh.Module{},
	&variables.Module{},
	&kernels.Module{},
	&flow.Module{},
	&multiapps.Module{},
	&outputs.Module{},
}
