package builder

import (
	"context"
	"strings"

	"github.com/samber/lo"
	"github.com/specialistvlad/hitbuild/internal/action"
	"github.com/specialistvlad/hitbuild/internal/ctxlog"
	"github.com/specialistvlad/hitbuild/internal/diag"
	"github.com/specialistvlad/hitbuild/internal/document"
	"github.com/specialistvlad/hitbuild/internal/extract"
	"github.com/specialistvlad/hitbuild/internal/registry"
	"github.com/specialistvlad/hitbuild/internal/schema"
)

// Handler names with special meaning to the builder.
const (
	SetupDebugHandler                = "SetupDebugAction"
	GlobalParamsHandler              = "GlobalParamsAction"
	DynamicObjectRegistrationHandler = "DynamicObjectRegistrationAction"
)

// Bookkeeping parameters added to every handler schema.
const (
	TaskParam        = "_task"
	IdentifierParam  = "registered_identifier"
	ControlTagsParam = "control_tags"
	// TypeParam names the object type of object-producing handlers.
	TypeParam = "type"
)

// DefaultPriority lists the handlers whose blocks are built before all
// others, in order.
var DefaultPriority = []string{SetupDebugHandler, GlobalParamsHandler, DynamicObjectRegistrationHandler}

// Warehouse receives every configured action, in build order.
type Warehouse interface {
	AddConfiguredBlock(a action.Action)
}

// Options configure one build.
type Options struct {
	Extract extract.Options
	// Priority overrides DefaultPriority when non-nil.
	Priority []string
	// ErrorOnDeprecated turns deprecated parameter warnings into errors.
	ErrorOnDeprecated bool
}

// Result is what a build leaves behind for the usage audit.
type Result struct {
	// Used are the field paths extraction consumed, in order.
	Used []string
	// Warnings are messages to show the user before execution.
	Warnings []string
	// Actions are the configured actions in the order the warehouse got them.
	Actions []action.Action
}

// Builder builds the actions of one document against one registry.
type Builder struct {
	reg  *registry.Registry
	doc  *document.Node
	wh   Warehouse
	opts Options
	ext  *extract.Extractor

	processed map[string]map[string]bool
	prebuilt  map[string]bool
	actions   []action.Action
	errs      diag.Errors
}

// New returns a builder for doc. The registry should be sealed.
func New(reg *registry.Registry, doc *document.Node, wh Warehouse, opts Options) *Builder {
	return &Builder{
		reg:       reg,
		doc:       doc,
		wh:        wh,
		opts:      opts,
		ext:       extract.New(doc, opts.Extract),
		processed: make(map[string]map[string]bool),
		prebuilt:  make(map[string]bool),
	}
}

func (b *Builder) priority() []string {
	if b.opts.Priority != nil {
		return b.opts.Priority
	}
	return DefaultPriority
}

// Build visits the whole document. The result is returned even when the
// build fails, so callers can still report what was consumed.
func (b *Builder) Build(ctx context.Context) (*Result, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Build started.")

	if err := document.CheckActiveLists(b.doc); err != nil {
		return &Result{}, err
	}

	for _, handler := range b.priority() {
		for _, n := range b.prioritySections(handler) {
			path := n.FullPath()
			if b.prebuilt[path] {
				continue
			}
			logger.Debug("Building priority block.", "block", path, "handler", handler)
			b.prebuilt[path] = true
			b.walkBlock(ctx, n)
		}
	}

	document.Walk(b.doc, document.WalkerFunc(func(path string, n *document.Node) bool {
		if !n.IsSection() {
			return n.Kind() == document.KindRoot
		}
		if !document.IsActive(n) {
			logger.Debug("Skipping inactive block.", "block", path)
			return false
		}
		if !b.prebuilt[path] {
			b.walkBlock(ctx, n)
		}
		return true
	}))

	res := &Result{Used: b.ext.Used(), Actions: b.actions}
	if deprecations := b.ext.Deprecations(); len(deprecations) > 0 {
		msg := strings.Join(deprecations, "\n\n")
		if b.opts.ErrorOnDeprecated {
			b.errs.Addf("%s", msg)
		} else {
			res.Warnings = append(res.Warnings, msg)
		}
	}

	logger.Debug("Build finished.", "actions", len(b.actions), "used", len(res.Used), "errors", b.errs.Len())
	return res, b.errs.ErrorOrNil()
}

// prioritySections returns the active sections a handler is registered for,
// in document order.
func (b *Builder) prioritySections(handler string) []*document.Node {
	var regs []registry.Registration
	for _, r := range b.reg.Registrations() {
		if r.Handler == handler {
			regs = append(regs, r)
		}
	}
	if len(regs) == 0 {
		return nil
	}
	var out []*document.Node
	document.Walk(b.doc, document.WalkerFunc(func(path string, n *document.Node) bool {
		if n.Kind() == document.KindRoot {
			return true
		}
		if !n.IsSection() || !document.IsActive(n) {
			return false
		}
		for _, r := range regs {
			if r.Syntax.Match(path) {
				out = append(out, n)
				break
			}
		}
		return true
	}))
	return out
}

// walkBlock builds every handler registered for the section until none is
// left unprocessed.
func (b *Builder) walkBlock(ctx context.Context, n *document.Node) {
	path := n.FullPath()
	_, isParent, ok := b.reg.IsPathAssociated(path)
	if !ok {
		b.errs.Add(&UnregisteredSyntaxError{Location: n.Location(), Section: path})
		return
	}
	if isParent {
		return
	}
	if b.processed[path] == nil {
		b.processed[path] = make(map[string]bool)
	}
	for {
		next, found := lo.Find(b.reg.GetHandlersForPath(path), func(r registry.Registration) bool {
			return !b.processed[path][r.Handler]
		})
		if !found {
			return
		}
		b.processed[path][next.Handler] = true
		b.buildAction(ctx, n, next)
	}
}

func (b *Builder) buildAction(ctx context.Context, n *document.Node, r registry.Registration) {
	path := n.FullPath()
	logger := ctxlog.FromContext(ctx).With("block", path, "handler", r.Handler)
	ctx = ctxlog.WithLogger(ctx, logger)

	ht, ok := b.reg.HandlerType(r.Handler)
	if !ok {
		b.errs.Addf("%s: handler '%s' registered for '%s' at %s does not exist", n.Location(), r.Handler, r.ID(), r.Origin)
		return
	}
	params, err := b.reg.HandlerParams(r.Handler)
	if err != nil {
		b.errs.Add(err)
		return
	}
	failed := b.errs.Len()

	b.errs.Add(b.ext.ExtractParams(ctx, path, params))
	b.checkRequired(n, path, params.Class, params.Missing())
	setBookkeeping(params, r, path, !ht.ProducesObject)

	cfg := action.Config{
		Block:   path,
		Handler: r.Handler,
		Task:    r.Task,
		Params:  params,
	}
	if ht.ProducesObject {
		cfg.ObjectType, cfg.ObjectParams = b.extractObject(ctx, n, path)
	}
	if b.errs.Len() > failed {
		logger.Debug("Block has errors; handler not constructed.")
		return
	}

	a, err := ht.New(cfg, b.reg)
	if err != nil {
		b.errs.Add(&ActionError{Location: n.Location(), Block: path, Handler: r.Handler, Err: err})
		return
	}
	if r.Handler == GlobalParamsHandler {
		b.ext.SetGlobal(path, a.Params())
	}
	logger.Debug("Adding configured block.", "task", r.Task)
	b.actions = append(b.actions, a)
	b.wh.AddConfiguredBlock(a)
}

// extractObject configures the object named by the block's type parameter.
func (b *Builder) extractObject(ctx context.Context, n *document.Node, path string) (string, *schema.Parameters) {
	typeField := n.Find(TypeParam)
	if typeField == nil || !typeField.IsField() {
		return "", nil
	}
	typeName := typeField.StrVal()
	params, err := b.reg.GetValidParams(typeName)
	if err != nil {
		b.errs.Addf("%s: %v", typeField.Location(), err)
		return typeName, nil
	}
	b.errs.Add(b.ext.ExtractParams(ctx, path, params))
	b.checkRequired(n, path, typeName, params.Missing())
	addControlTag(params, path)
	return typeName, params
}

func (b *Builder) checkRequired(n *document.Node, path, class string, missing []string) {
	for _, name := range missing {
		b.errs.Add(&RequiredParameterMissingError{Location: n.Location(), Block: path, Class: class, Param: name})
	}
}

// ValidNames returns every parameter name the block at path accepts, for
// suggestions on unused parameters.
func (b *Builder) ValidNames(path string) []string {
	var names []string
	block := b.doc.Find(path)
	for _, r := range b.reg.GetHandlersForPath(path) {
		params, err := b.reg.HandlerParams(r.Handler)
		if err != nil {
			continue
		}
		names = append(names, params.InputNames()...)
		ht, _ := b.reg.HandlerType(r.Handler)
		if ht == nil || !ht.ProducesObject || block == nil {
			continue
		}
		if typeField := block.Find(TypeParam); typeField != nil && typeField.IsField() {
			if obj, err := b.reg.GetValidParams(typeField.StrVal()); err == nil {
				names = append(names, obj.InputNames()...)
			}
		}
	}
	return lo.Uniq(names)
}
