package registry

import (
	"fmt"
	"log/slog"

	"github.com/specialistvlad/hitbuild/internal/action"
	"github.com/specialistvlad/hitbuild/internal/dag"
	"github.com/specialistvlad/hitbuild/internal/schema"
	"github.com/specialistvlad/hitbuild/internal/syntax"
)

// Module is the interface that all modules must implement to be registered.
type Module interface {
	Register(r *Registry)
}

// ParamsFunc returns a fresh schema for a handler or object type.
type ParamsFunc func() *schema.Parameters

// Factory constructs the action for one block. It may register further types
// through reg while the registry is reopened for it.
type Factory func(cfg action.Config, reg *Registry) (action.Action, error)

// HandlerType is the compiled Go side of a handler.
type HandlerType struct {
	Params ParamsFunc
	New    Factory
	// ProducesObject handlers read a "type" parameter naming a registered
	// object type, whose parameters are extracted from the same block.
	ProducesObject bool
	Doc            string
}

// ObjectType is a named parameter schema configured by object-producing
// handlers.
type ObjectType struct {
	Params ParamsFunc
	Doc    string
}

// Registration associates a handler with a syntax path under a task.
type Registration struct {
	Syntax  *syntax.Pattern
	Handler string
	Task    string
	// Origin is the file:line of the code that registered it.
	Origin string
}

// ID is the syntax path the registration was made for.
func (r Registration) ID() string { return r.Syntax.String() }

// Registry holds all the registered handlers, objects and syntax for a
// single application instance.
type Registry struct {
	handlerTypes  map[string]*HandlerType
	objectTypes   map[string]*ObjectType
	registrations []Registration
	tasks         *dag.Graph

	sealed   bool
	reopened []string
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{
		handlerTypes: make(map[string]*HandlerType),
		objectTypes:  make(map[string]*ObjectType),
		tasks:        dag.New(),
	}
}

// Seal ends the registration phase. Registering afterwards panics unless
// the registry has been reopened.
func (r *Registry) Seal() {
	r.sealed = true
	slog.Debug("Registry sealed.", "handlers", len(r.handlerTypes), "objects", len(r.objectTypes), "registrations", len(r.registrations))
}

func (r *Registry) Sealed() bool { return r.sealed }

// Reopening is an open window for registering into a sealed registry.
type Reopening struct {
	r      *Registry
	reason string
	closed bool
}

// Reopen allows registration until the returned handle is closed. reason
// names who reopened it, for diagnostics.
func (r *Registry) Reopen(reason string) *Reopening {
	slog.Debug("Registry reopened.", "reason", reason)
	r.reopened = append(r.reopened, reason)
	return &Reopening{r: r, reason: reason}
}

// Close ends the window. Closing twice is a no-op.
func (h *Reopening) Close() {
	if h.closed {
		return
	}
	h.closed = true
	for i := len(h.r.reopened) - 1; i >= 0; i-- {
		if h.r.reopened[i] == h.reason {
			h.r.reopened = append(h.r.reopened[:i], h.r.reopened[i+1:]...)
			break
		}
	}
	slog.Debug("Registry closed again.", "reason", h.reason)
}

func (r *Registry) checkWritable(what string) {
	if r.sealed && len(r.reopened) == 0 {
		panic(fmt.Sprintf("registry is sealed; cannot register %s without reopening it", what))
	}
}
