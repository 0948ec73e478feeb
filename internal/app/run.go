package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/specialistvlad/dispatchgrid/internal/ctxlog"
)

// Run builds the declared objects and executes the declared calls in order,
// printing each result. With Describe set it prints the registered
// definitions instead.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if a.config.Describe {
		return a.describe()
	}

	if err := a.session.Build(ctx, a.model.Objects); err != nil {
		return fmt.Errorf("failed to build objects: %w", err)
	}

	if len(a.model.Calls) == 0 {
		a.logger.Warn("No calls declared, execution not required.")
		return nil
	}

	for _, call := range a.model.Calls {
		result, err := a.session.Execute(ctx, call)
		if err != nil {
			return fmt.Errorf("execution failed: %w", err)
		}
		rendered := strings.TrimRight(render(result), "\n")
		if _, err := fmt.Fprintf(a.outW, "[%s.%s]\n%s\n", call.Generic, call.Label, rendered); err != nil {
			return err
		}
	}
	a.logger.Info("Execution finished.", "calls", len(a.model.Calls))

	a.logger.Debug("App.Run method finished.")
	return nil
}
