package app

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"github.com/specialistvlad/hitbuild/internal/action"
	"github.com/specialistvlad/hitbuild/internal/audit"
	"github.com/specialistvlad/hitbuild/internal/builder"
	"github.com/specialistvlad/hitbuild/internal/cmdline"
	"github.com/specialistvlad/hitbuild/internal/ctxlog"
	"github.com/specialistvlad/hitbuild/internal/document"
	"github.com/specialistvlad/hitbuild/internal/expand"
	"github.com/specialistvlad/hitbuild/internal/extract"
	"github.com/specialistvlad/hitbuild/internal/fsutil"
	"github.com/specialistvlad/hitbuild/internal/registry"
	"github.com/specialistvlad/hitbuild/internal/warehouse"
)

// maxSubAppDepth bounds sub-applications configuring sub-applications.
const maxSubAppDepth = 8

// buildInput describes one build of one input.
type buildInput struct {
	reg    *registry.Registry
	inputs []string
	// cliDoc holds the command line parameters merged over the inputs.
	cliDoc *document.Node
	// cl is told what sub-applications consumed. Only the top level has one.
	cl *cmdline.CommandLine
	// The top level builds only the sub-applications whose position modulo
	// ranks is rank. Nested levels build all of theirs.
	rank  int
	ranks int
	depth int
	dump  bool
}

// buildResult is everything one build leaves behind.
type buildResult struct {
	doc      *document.Node
	cliDoc   *document.Node
	builder  *builder.Builder
	wh       *warehouse.Warehouse
	used     []string
	warnings []string
	// unused holds the input file diagnostics of this build only.
	unused  []audit.Diagnostic
	subApps []*buildResult
}

// subAppReports returns the warnings and input file diagnostics of every
// sub-application below r, depth first.
func (r *buildResult) subAppReports() ([]string, []audit.Diagnostic) {
	var warnings []string
	var diags []audit.Diagnostic
	for _, sub := range r.subApps {
		warnings = append(warnings, sub.warnings...)
		diags = append(diags, sub.unused...)
		w, d := sub.subAppReports()
		warnings = append(warnings, w...)
		diags = append(diags, d...)
	}
	return warnings, diags
}

// build runs the pipeline for one input: load, command line merge,
// expansion, build, sub-applications and the input file audit.
func (a *App) build(ctx context.Context, in buildInput) (*buildResult, error) {
	logger := ctxlog.FromContext(ctx)

	// A directory stands for the input files below it.
	inputs, err := fsutil.ExpandInputs(a.fs, in.inputs, InputExtension)
	if err != nil {
		return nil, fmt.Errorf("failed to list inputs: %w", err)
	}
	doc, warnings, err := a.loadInputs(ctx, inputs)
	if err != nil {
		return nil, err
	}
	res := &buildResult{doc: doc, cliDoc: in.cliDoc, warnings: warnings}

	if in.cliDoc != nil {
		overrides := document.Merge(in.cliDoc, doc)
		logger.Debug("Command line parameters merged.", "overrides", len(overrides))
	}

	exp := expand.New()
	if err := exp.Expand(doc); err != nil {
		return nil, err
	}
	logger.Debug("Input expanded.", "referenced_fields", len(exp.Used()))

	if in.dump {
		fmt.Fprint(a.outW, doc.Render())
	}

	res.wh = warehouse.New(in.reg)
	res.builder = builder.New(in.reg, doc, res.wh, builder.Options{
		Extract: extract.Options{
			ResolveFilePathsRelativeToInput: true,
			InputDir:                        extract.InputDirOf(inputs[len(inputs)-1]),
		},
		ErrorOnDeprecated: a.config.ErrorDeprecated,
	})
	built, err := res.builder.Build(ctx)
	if err != nil {
		return nil, err
	}
	res.warnings = append(res.warnings, built.Warnings...)
	res.used = lo.Uniq(append(exp.Used(), built.Used...))
	logger.Debug("Input built.", "actions", len(built.Actions), "used_fields", len(res.used))

	res.unused = audit.New(res.builder, audit.SkipSource(cmdline.SourceName)).Audit(doc, res.used)

	if err := a.buildSubApps(ctx, in, res); err != nil {
		return nil, err
	}
	return res, nil
}

// buildSubApps builds the sub-applications the actions of parent configured
// that belong to this rank and attaches them to parent.
func (a *App) buildSubApps(ctx context.Context, in buildInput, parent *buildResult) error {
	position := 0
	for _, act := range parent.wh.Actions() {
		provider, ok := act.(action.SubAppProvider)
		if !ok {
			continue
		}
		for _, sub := range provider.SubApps() {
			name := fmt.Sprintf("%s%d", sub.Name, sub.Index)
			if in.depth >= maxSubAppDepth {
				return fmt.Errorf("block '[%s]': sub-application '%s' is nested deeper than %d levels", act.Block(), name, maxSubAppDepth)
			}
			owner := 0
			if in.ranks > 1 {
				owner = position % in.ranks
			}
			position++
			if owner != in.rank {
				ctxlog.FromContext(ctx).Debug("Sub-application belongs to another rank.", "subapp", name, "owner", owner)
				continue
			}
			subCtx := ctxlog.With(ctx, "subapp", name)
			ctxlog.FromContext(subCtx).Debug("Building sub-application.", "input", sub.Input)

			var cliDoc *document.Node
			if in.cl != nil {
				doc, err := in.cl.SubAppHitParams(sub.Name, sub.Index)
				if err != nil {
					return err
				}
				cliDoc = doc
			}
			res, err := a.build(subCtx, buildInput{
				reg:    a.newRegistry(subCtx),
				inputs: []string{sub.Input},
				cliDoc: cliDoc,
				depth:  in.depth + 1,
			})
			if err != nil {
				return fmt.Errorf("sub-application '%s' of block '[%s]':\n%w", name, act.Block(), err)
			}
			if in.cl != nil {
				in.cl.MarkSubAppParamsUsed(sub.Name, sub.Index, res.used)
			}
			parent.subApps = append(parent.subApps, res)
		}
	}
	return nil
}

// execute runs the actions of res, then those of its sub-applications.
func (a *App) execute(ctx context.Context, res *buildResult) error {
	if err := res.wh.Execute(ctx); err != nil {
		return fmt.Errorf("execution failed: %w", err)
	}
	for _, sub := range res.subApps {
		if err := a.execute(ctx, sub); err != nil {
			return err
		}
	}
	return nil
}
