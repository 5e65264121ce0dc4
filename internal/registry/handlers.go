package registry

import (
	"fmt"
	"log/slog"
	"runtime"

	"github.com/specialistvlad/hitbuild/internal/syntax"
)

// RegisterHandlerType registers the Go code for a handler.
func (r *Registry) RegisterHandlerType(name string, ht *HandlerType) {
	r.checkWritable(fmt.Sprintf("handler type '%s'", name))
	if _, exists := r.handlerTypes[name]; exists {
		panic(fmt.Sprintf("handler type with name '%s' already registered", name))
	}
	if ht.Params == nil || ht.New == nil {
		panic(fmt.Sprintf("handler type '%s' needs both Params and New", name))
	}
	slog.Debug("Registering handler type.", "name", name, "produces_object", ht.ProducesObject)
	r.handlerTypes[name] = ht
}

// RegisterObject registers a named object type.
func (r *Registry) RegisterObject(name string, obj *ObjectType) {
	r.checkWritable(fmt.Sprintf("object type '%s'", name))
	if _, exists := r.objectTypes[name]; exists {
		panic(fmt.Sprintf("object type with name '%s' already registered", name))
	}
	if obj.Params == nil {
		panic(fmt.Sprintf("object type '%s' needs Params", name))
	}
	slog.Debug("Registering object type.", "name", name)
	r.objectTypes[name] = obj
}

// RegisterHandler associates the handler with the syntax path under the
// given task. The task is created if it does not exist yet.
func (r *Registry) RegisterHandler(path, handler, task string) {
	r.checkWritable(fmt.Sprintf("syntax '%s'", path))
	pattern := syntax.MustParse(path)
	for _, reg := range r.registrations {
		if reg.ID() == pattern.String() && reg.Handler == handler {
			panic(fmt.Sprintf("handler '%s' already registered for syntax '%s' at %s", handler, path, reg.Origin))
		}
	}

	origin := "unknown"
	if _, file, line, ok := runtime.Caller(1); ok {
		origin = fmt.Sprintf("%s:%d", file, line)
	}
	slog.Debug("Registering syntax.", "path", pattern.String(), "handler", handler, "task", task)
	r.tasks.AddNode(task)
	r.registrations = append(r.registrations, Registration{
		Syntax:  pattern,
		Handler: handler,
		Task:    task,
		Origin:  origin,
	})
}

// RegisterTask declares a task and the tasks it depends on.
func (r *Registry) RegisterTask(task string, dependsOn ...string) {
	r.checkWritable(fmt.Sprintf("task '%s'", task))
	r.tasks.AddNode(task)
	for _, dep := range dependsOn {
		r.AddTaskDependency(task, dep)
	}
}

// AddTaskDependency makes task run after dependsOn.
func (r *Registry) AddTaskDependency(task, dependsOn string) {
	r.checkWritable(fmt.Sprintf("task dependency '%s' -> '%s'", task, dependsOn))
	r.tasks.AddNode(task)
	r.tasks.AddNode(dependsOn)
	if err := r.tasks.AddEdge(dependsOn, task); err != nil {
		panic(fmt.Sprintf("invalid task dependency: %v", err))
	}
}
