// Package warehouse stores the configured actions of one build and runs them
// task by task.
package warehouse

import (
	"context"
	"fmt"

	"github.com/specialistvlad/hitbuild/internal/action"
	"github.com/specialistvlad/hitbuild/internal/ctxlog"
)

// TaskOrderer supplies the order tasks run in.
type TaskOrderer interface {
	TaskOrder() ([]string, error)
}

// Warehouse keeps actions in the order they were added, grouped by task.
type Warehouse struct {
	tasks   TaskOrderer
	actions []action.Action
	byTask  map[string][]action.Action
	seen    []string
}

// New creates an empty warehouse ordering tasks with tasks.
func New(tasks TaskOrderer) *Warehouse {
	return &Warehouse{tasks: tasks, byTask: make(map[string][]action.Action)}
}

// AddConfiguredBlock stores a.
func (w *Warehouse) AddConfiguredBlock(a action.Action) {
	if _, ok := w.byTask[a.Task()]; !ok {
		w.seen = append(w.seen, a.Task())
	}
	w.actions = append(w.actions, a)
	w.byTask[a.Task()] = append(w.byTask[a.Task()], a)
}

// Actions returns every action in insertion order.
func (w *Warehouse) Actions() []action.Action {
	return append([]action.Action(nil), w.actions...)
}

// ActionsForTask returns the actions of one task in insertion order.
func (w *Warehouse) ActionsForTask(task string) []action.Action {
	return append([]action.Action(nil), w.byTask[task]...)
}

// Tasks returns the tasks that have actions, in run order. Tasks unknown to
// the orderer run last, in the order their first action arrived.
func (w *Warehouse) Tasks() ([]string, error) {
	order, err := w.tasks.TaskOrder()
	if err != nil {
		return nil, fmt.Errorf("cannot order tasks: %w", err)
	}
	var out []string
	placed := make(map[string]bool, len(order))
	for _, task := range order {
		placed[task] = true
		if len(w.byTask[task]) > 0 {
			out = append(out, task)
		}
	}
	for _, task := range w.seen {
		if !placed[task] {
			out = append(out, task)
		}
	}
	return out, nil
}

// Execute runs every action, task by task. The first failure stops the run.
func (w *Warehouse) Execute(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	tasks, err := w.Tasks()
	if err != nil {
		return err
	}
	for _, task := range tasks {
		logger.Debug("Running task.", "task", task, "actions", len(w.byTask[task]))
		for _, a := range w.byTask[task] {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := a.Act(ctx); err != nil {
				return fmt.Errorf("task '%s', block '[%s]': %w", task, a.Block(), err)
			}
		}
	}
	return nil
}
