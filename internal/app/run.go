package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/hitbuild/internal/audit"
	"github.com/specialistvlad/hitbuild/internal/cmdline"
	"github.com/specialistvlad/hitbuild/internal/ctxlog"
	"golang.org/x/sync/errgroup"
)

// rank is one independent application instance.
type rank struct {
	id     int
	cl     *cmdline.CommandLine
	result *buildResult
}

// Run builds the input on every rank, audits what was consumed, prints the
// warnings and, when the audit passes, executes the configured actions.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if a.config.DumpSchema {
		return a.dumpSchema()
	}

	if err := a.buildRanks(ctx); err != nil {
		return err
	}
	a.logger.Debug("All ranks built.", "ranks", len(a.ranks))

	warnings, diags := a.reports()
	unusedWarnings, auditErr := audit.Report(diags, a.config.UnusedSeverity())
	a.printWarnings(append(warnings, unusedWarnings...))
	if auditErr != nil {
		return auditErr
	}

	a.logger.Info("Executing configured actions.")
	for _, r := range a.ranks {
		if err := a.execute(ctxlog.With(ctx, "rank", r.id), r.result); err != nil {
			return err
		}
	}
	a.logger.Debug("App.Run method finished.")
	return nil
}

// buildRanks builds the input once per rank, concurrently, then unions the
// command line usage of all ranks. Every rank parses the same arguments, but
// may consume different parameters.
func (a *App) buildRanks(ctx context.Context) error {
	a.ranks = make([]*rank, a.config.Ranks)
	for i := range a.ranks {
		a.ranks[i] = &rank{id: i, cl: a.config.CommandLine.Clone()}
	}
	group := cmdline.NewGroup(len(a.ranks))

	g, gctx := errgroup.WithContext(ctx)
	for _, r := range a.ranks {
		r := r
		g.Go(func() error {
			rctx := ctxlog.With(gctx, "rank", r.id)
			cliDoc, err := r.cl.HitParams()
			if err != nil {
				return err
			}
			r.result, err = a.build(rctx, buildInput{
				reg:    a.newRegistry(rctx),
				inputs: a.config.Inputs,
				cliDoc: cliDoc,
				cl:     r.cl,
				rank:   r.id,
				ranks:  len(a.ranks),
				dump:   r.id == 0 && a.config.DumpInput,
			})
			if err != nil {
				return err
			}
			r.cl.MarkHitParamsUsed(r.result.used)
			return r.cl.AllGather(rctx, group.Comm(r.id))
		})
	}
	return g.Wait()
}

// reports collects what Run prints. The main input and the command line are
// the same on every rank, so rank 0 reports them. Each sub-application is
// built on one rank only, so their reports come from all ranks.
func (a *App) reports() ([]string, []audit.Diagnostic) {
	primary := a.ranks[0]
	warnings := append([]string(nil), primary.result.warnings...)
	diags := a.unused(primary)
	for _, r := range a.ranks {
		w, d := r.result.subAppReports()
		warnings = append(warnings, w...)
		diags = append(diags, d...)
	}
	return warnings, diags
}

// unused collects the diagnostics of one rank: its main input files, the
// command line parameters checked against their own used set, and the
// options and sub-application parameters nothing consumed.
func (a *App) unused(r *rank) []audit.Diagnostic {
	diags := append([]audit.Diagnostic(nil), r.result.unused...)
	cliUsed := r.cl.UsedHitPaths()
	diags = append(diags, audit.New(r.result.builder).Audit(r.result.cliDoc, cliUsed)...)
	diags = append(diags, audit.UnusedFlags(r.cl.UnusedOptions())...)
	diags = append(diags, audit.UnusedFlags(r.cl.UnusedSubAppParams())...)
	return diags
}

func (a *App) dumpSchema() error {
	out, err := a.registry.Dump()
	if err != nil {
		return fmt.Errorf("failed to dump schema: %w", err)
	}
	_, err = a.outW.Write(out)
	return err
}
