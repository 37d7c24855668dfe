package dialect

import (
	"context"
	"log/slog"
)

// DebugDriver wraps a Driver and logs every statement with its parameters
// before delegating. Useful during development to see the compiled query
// text that reaches the store.
type DebugDriver struct {
	Driver
	log *slog.Logger
}

// Debug wraps the driver with statement logging on slog.Default.
func Debug(d Driver) *DebugDriver {
	return DebugLog(d, slog.Default())
}

// DebugLog wraps the driver with statement logging on the given logger.
func DebugLog(d Driver, l *slog.Logger) *DebugDriver {
	return &DebugDriver{Driver: d, log: l}
}

// Query implements the Driver interface.
func (d *DebugDriver) Query(ctx context.Context, query string, params map[string]any) ([]Record, error) {
	d.log.LogAttrs(ctx, slog.LevelDebug, "driver.Query",
		slog.String("query", query), slog.Any("params", params))
	return d.Driver.Query(ctx, query, params)
}

// QueryScalar implements the Driver interface.
func (d *DebugDriver) QueryScalar(ctx context.Context, query string, params map[string]any) (any, error) {
	d.log.LogAttrs(ctx, slog.LevelDebug, "driver.QueryScalar",
		slog.String("query", query), slog.Any("params", params))
	return d.Driver.QueryScalar(ctx, query, params)
}

// Exec implements the Driver interface.
func (d *DebugDriver) Exec(ctx context.Context, query string, params map[string]any) error {
	d.log.LogAttrs(ctx, slog.LevelDebug, "driver.Exec",
		slog.String("query", query), slog.Any("params", params))
	return d.Driver.Exec(ctx, query, params)
}
