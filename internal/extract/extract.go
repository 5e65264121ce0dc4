package extract

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"path/filepath"

	"github.com/specialistvlad/hitbuild/internal/ctxlog"
	"github.com/specialistvlad/hitbuild/internal/document"
	"github.com/specialistvlad/hitbuild/internal/schema"
	"github.com/zclconf/go-cty/cty"
)

// Options select the conversion conveniences of one extractor.
type Options struct {
	// ResolveFilePathsRelativeToInput prefixes relative file name values
	// with InputDir.
	ResolveFilePathsRelativeToInput bool
	InputDir                        string
	// Dim is the number of components of a point. Zero means
	// schema.DefaultDim.
	Dim int
}

// Extractor fills parameter schemas from one document.
type Extractor struct {
	doc  *document.Node
	opts Options

	globalPath string
	global     *schema.Parameters

	used         map[string]struct{}
	usedOrder    []string
	deprecations []string
}

// New returns an extractor reading from doc.
func New(doc *document.Node, opts Options) *Extractor {
	return &Extractor{
		doc:  doc,
		opts: opts,
		used: make(map[string]struct{}),
	}
}

// SetGlobal makes the block at path the fallback for every other block.
// Values taken from it are written back, with their resolved kind, to params,
// the schema of the action that owns the block.
func (e *Extractor) SetGlobal(path string, params *schema.Parameters) {
	e.globalPath = document.NormalizePath(path)
	e.global = params
}

// GlobalPath returns the fallback block path, or "" when none is set.
func (e *Extractor) GlobalPath() string { return e.globalPath }

func (e *Extractor) convertOptions() schema.ConvertOptions {
	opts := schema.ConvertOptions{Dim: e.opts.Dim}
	if e.opts.ResolveFilePathsRelativeToInput {
		opts.InputDir = e.opts.InputDir
	}
	return opts
}

// ExtractParams fills params from the block at blockPath. Parameters the
// block does not set fall back to the global block, then keep their
// default. Every conversion failure of the block is returned together as
// one *BlockError. Required parameters are not checked here.
func (e *Extractor) ExtractParams(ctx context.Context, blockPath string, params *schema.Parameters) error {
	logger := ctxlog.FromContext(ctx)
	blockPath = document.NormalizePath(blockPath)
	block := e.doc.Find(blockPath)
	var errs []error

	for _, p := range params.Params() {
		if p.Private {
			continue
		}
		field, path, fromGlobal := e.lookup(block, blockPath, p)
		if field == nil {
			continue
		}
		e.markUsed(path)

		v, err := p.Parse(field.StrVal(), e.convertOptions())
		if err != nil {
			errs = append(errs, &ParamError{Location: field.Location(), Path: path, Err: err})
			continue
		}
		p.Set(v, field.Location(), fromGlobal)
		if p.Deprecated {
			e.deprecations = append(e.deprecations, fmt.Sprintf("%s: parameter '%s' is deprecated: %s", field.Location(), path, p.DeprecationMessage))
		}
		if fromGlobal {
			e.writeBack(logger, p)
		}
	}

	for _, p := range params.Params() {
		if p.AutoBuild != nil && !p.IsSetByUser() {
			if err := autoBuild(params, p); err != nil {
				count := params.Get(p.AutoBuild.Count)
				errs = append(errs, &ParamError{Location: count.Location(), Path: document.JoinPath(blockPath, count.Name), Err: err})
			}
		}
	}

	logger.Debug("Extracted block parameters.", "block", blockPath, "class", params.Class, "errors", len(errs))
	if len(errs) > 0 {
		return &BlockError{Block: blockPath, Errors: errs}
	}
	return nil
}

// lookup finds the field for p, trying each of its names first in the block
// and then in the global block.
func (e *Extractor) lookup(block *document.Node, blockPath string, p *schema.Param) (*document.Node, string, bool) {
	if block != nil {
		for _, name := range p.Names() {
			if f := block.Find(name); f != nil && f.IsField() {
				return f, document.JoinPath(blockPath, name), false
			}
		}
	}
	if e.globalPath == "" || e.globalPath == blockPath {
		return nil, "", false
	}
	global := e.doc.Find(e.globalPath)
	if global == nil {
		return nil, "", false
	}
	for _, name := range p.Names() {
		if f := global.Find(name); f != nil && f.IsField() {
			return f, document.JoinPath(e.globalPath, name), true
		}
	}
	return nil, "", false
}

// writeBack replaces the global action's slot for p with the kind and value
// this block resolved it to.
func (e *Extractor) writeBack(logger *slog.Logger, p *schema.Param) {
	if e.global == nil {
		return
	}
	if old := e.global.Get(p.Name); old != nil && old.Kind != p.Kind {
		logger.Debug("Global parameter re-typed by consumer.", "param", p.Name, "from", old.Kind, "to", p.Kind)
	}
	e.global.Remove(p.Name)
	e.global.Put(p.Clone())
}

// maxAutoBuildCount bounds the number of names autoBuild synthesizes.
const maxAutoBuildCount = 10000

func autoBuild(params *schema.Parameters, p *schema.Param) error {
	base, count := params.Get(p.AutoBuild.Base), params.Get(p.AutoBuild.Count)
	if base == nil || count == nil || !base.IsSetByUser() || !count.IsSetByUser() {
		return nil
	}
	prefix := base.Value().AsString()
	n, acc := count.Value().AsBigFloat().Int64()
	if acc != big.Exact || n > maxAutoBuildCount {
		return fmt.Errorf("parameter '%s' asks for %s names for '%s', at most %d are allowed", count.Name, count.Value().AsBigFloat().Text('f', 0), p.Name, maxAutoBuildCount)
	}
	if n <= 0 {
		p.Assign(cty.ListValEmpty(cty.String))
		return nil
	}
	names := make([]cty.Value, 0, n)
	for i := int64(0); i < n; i++ {
		names = append(names, cty.StringVal(fmt.Sprintf("%s%d", prefix, i)))
	}
	p.Assign(cty.ListVal(names))
	return nil
}

func (e *Extractor) markUsed(path string) {
	if _, ok := e.used[path]; ok {
		return
	}
	e.used[path] = struct{}{}
	e.usedOrder = append(e.usedOrder, path)
}

// Used returns the field paths read so far, in the order they were read.
func (e *Extractor) Used() []string {
	return append([]string(nil), e.usedOrder...)
}

// IsUsed reports whether the field at path has been read.
func (e *Extractor) IsUsed(path string) bool {
	_, ok := e.used[document.NormalizePath(path)]
	return ok
}

// Deprecations returns one message per deprecated parameter set so far.
func (e *Extractor) Deprecations() []string {
	return append([]string(nil), e.deprecations...)
}

// InputDirOf returns the directory of an input file name, for
// Options.InputDir.
func InputDirOf(file string) string {
	dir := filepath.Dir(file)
	if dir == "." {
		return ""
	}
	return dir
}
