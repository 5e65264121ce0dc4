// Package action defines the configured handler instances the builder
// produces, one per (block, handler) pair.
package action

import (
	"context"

	"github.com/specialistvlad/hitbuild/internal/schema"
)

// Action is one handler configured from one input block.
type Action interface {
	// Block is the full path of the input block the action was built from.
	Block() string
	// Handler is the registered handler type name.
	Handler() string
	// Task is the task label the action runs under.
	Task() string
	// Params are the extracted handler parameters.
	Params() *schema.Parameters
	// Act performs the action. It runs after the whole input is built.
	Act(ctx context.Context) error
}

// ObjectProducer is implemented by actions that also configure an object
// whose type is named by the block's "type" parameter.
type ObjectProducer interface {
	Action
	ObjectType() string
	ObjectParams() *schema.Parameters
}

// Config is what a handler factory receives.
type Config struct {
	Block        string
	Handler      string
	Task         string
	Params       *schema.Parameters
	ObjectType   string
	ObjectParams *schema.Parameters
}

// Base implements the bookkeeping half of Action and ObjectProducer.
// Handlers embed it and add Act.
type Base struct {
	cfg Config
}

// NewBase wraps cfg.
func NewBase(cfg Config) Base { return Base{cfg: cfg} }

func (b Base) Block() string                    { return b.cfg.Block }
func (b Base) Handler() string                  { return b.cfg.Handler }
func (b Base) Task() string                     { return b.cfg.Task }
func (b Base) Params() *schema.Parameters       { return b.cfg.Params }
func (b Base) ObjectType() string               { return b.cfg.ObjectType }
func (b Base) ObjectParams() *schema.Parameters { return b.cfg.ObjectParams }

// Name is the last segment of the block path.
func (b Base) Name() string {
	block := b.cfg.Block
	for i := len(block) - 1; i >= 0; i-- {
		if block[i] == '/' {
			return block[i+1:]
		}
	}
	return block
}

// SubApp is one sub-application input configured by an action.
type SubApp struct {
	// Name is the block name; command line parameters prefixed with
	// "Name:" or "Name<Index>:" are addressed to it.
	Name  string
	Index int
	Input string
}

// SubAppProvider is implemented by actions that configure sub-applications.
// Each sub-application is built once the parent input is, and what it
// consumed counts towards the parent's usage audit.
type SubAppProvider interface {
	Action
	SubApps() []SubApp
}
