package logging

import (
	"context"
	"maps"
	"strings"

	"github.com/goliatone/go-mdtree/pkg/interfaces"
)

const (
	fieldSourcePath = "source_path"
	fieldSnapshotID = "snapshot_id"
	fieldOperation  = "operation"
)

// WithFields attaches a copy of fields when logger can carry them. Other
// loggers are returned unchanged.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if logger == nil || len(fields) == 0 {
		return logger
	}
	fl, ok := logger.(interfaces.FieldsLogger)
	if !ok {
		return logger
	}
	return fl.WithFields(maps.Clone(fields))
}

// WithConversionContext tags logger with the file, snapshot and operation a
// conversion is working on. Blank values are left out.
func WithConversionContext(logger interfaces.Logger, path, snapshotID, operation string) interfaces.Logger {
	fields := make(map[string]any, 3)
	for key, value := range map[string]string{
		fieldSourcePath: path,
		fieldSnapshotID: snapshotID,
		fieldOperation:  operation,
	} {
		if value = strings.TrimSpace(value); value != "" {
			fields[key] = value
		}
	}
	return WithFields(logger, fields)
}

type fieldsKey struct{}

// ContextWithFields stores fields on ctx for loggers that read their context.
// Fields already present are kept unless overridden.
func ContextWithFields(ctx context.Context, fields map[string]any) context.Context {
	if ctx == nil || len(fields) == 0 {
		return ctx
	}
	merged := ContextFields(ctx)
	if merged == nil {
		merged = make(map[string]any, len(fields))
	}
	maps.Copy(merged, fields)
	return context.WithValue(ctx, fieldsKey{}, merged)
}

// ContextFields returns a copy of the fields on ctx, or nil.
func ContextFields(ctx context.Context) map[string]any {
	if ctx == nil {
		return nil
	}
	fields, _ := ctx.Value(fieldsKey{}).(map[string]any)
	if len(fields) == 0 {
		return nil
	}
	return maps.Clone(fields)
}
