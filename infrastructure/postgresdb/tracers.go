package postgresdb

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5"
)

// LoggingQueryTracer logs every query through slog. Enable with
// WithLogQueries; only for debug environments.
type LoggingQueryTracer struct {
	logger *slog.Logger
}

func NewLoggingQueryTracer(logger *slog.Logger) *LoggingQueryTracer {
	return &LoggingQueryTracer{logger: logger}
}

var (
	collapseTabs   = regexp.MustCompile(`\t+`)
	collapseSpaces = regexp.MustCompile(`\s+`)
)

// flattenSQL collapses a multi-line query into one log-friendly line.
func flattenSQL(sql string) string {
	flat := strings.Join(strings.Split(sql, "\n"), " ")
	flat = collapseTabs.ReplaceAllString(flat, " ")
	flat = collapseSpaces.ReplaceAllString(flat, " ")
	return strings.TrimSpace(flat)
}

func (l *LoggingQueryTracer) TraceQueryStart(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	l.logger.Info("query start",
		slog.String("sql", flattenSQL(data.SQL)),
		slog.Any("args", data.Args),
	)
	return ctx
}

func (l *LoggingQueryTracer) TraceQueryEnd(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryEndData) {
	if data.Err != nil {
		l.logger.Error("query end",
			slog.String("error", data.Err.Error()),
			slog.String("command_tag", data.CommandTag.String()),
		)
		return
	}

	l.logger.Info("query end",
		slog.String("command_tag", data.CommandTag.String()),
	)
}
