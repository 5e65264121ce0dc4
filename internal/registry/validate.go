package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/specialistvlad/hitbuild/internal/ctxlog"
)

// ValidateRegistry checks that every syntax registration refers to a
// registered handler type, that object-producing handlers declare a "type"
// parameter and that the task graph has no cycles.
func (r *Registry) ValidateRegistry(ctx context.Context) error {
	var errs []string
	logger := ctxlog.FromContext(ctx)

	for _, reg := range r.registrations {
		if _, ok := r.handlerTypes[reg.Handler]; !ok {
			errs = append(errs, fmt.Sprintf("syntax '%s' (registered at %s) refers to unknown handler type '%s'", reg.ID(), reg.Origin, reg.Handler))
		}
	}

	for name, ht := range r.handlerTypes {
		if ht.ProducesObject && !ht.Params().Has("type") {
			errs = append(errs, fmt.Sprintf("handler type '%s' produces objects but declares no 'type' parameter", name))
		}
		used := false
		for _, reg := range r.registrations {
			if reg.Handler == name {
				used = true
				break
			}
		}
		if !used {
			logger.Debug("Handler type has no syntax registered.", "handler", name)
		}
	}

	if err := r.tasks.DetectCycles(); err != nil {
		errs = append(errs, fmt.Sprintf("task dependencies: %v", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	logger.Debug("Registry validation passed.")
	return nil
}
