package datasource

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// StatementObserver receives one call per SQL statement executed by gorm.
// operation is the lower-cased leading keyword ("select", "insert", ...).
type StatementObserver interface {
	ObserveStatement(operation string, duration time.Duration, rowsAffected int64, err error)
}

// statementLogger adapts gorm's logger interface to slog. Successful
// statements log at debug, slow statements at warn, and failures at error,
// except record-not-found and cancellation which are ordinary outcomes.
type statementLogger struct {
	logger   *slog.Logger
	level    gormlogger.LogLevel
	slow     time.Duration
	observer StatementObserver
}

func newStatementLogger(logger *slog.Logger, slow time.Duration, observer StatementObserver) *statementLogger {
	return &statementLogger{
		logger:   logger,
		level:    gormlogger.Info,
		slow:     slow,
		observer: observer,
	}
}

// LogMode implements gormlogger.Interface.
func (l *statementLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	c := *l
	c.level = level
	return &c
}

// Info implements gormlogger.Interface.
func (l *statementLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= gormlogger.Info {
		l.logger.InfoContext(ctx, fmt.Sprintf(msg, data...))
	}
}

// Warn implements gormlogger.Interface.
func (l *statementLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= gormlogger.Warn {
		l.logger.WarnContext(ctx, fmt.Sprintf(msg, data...))
	}
}

// Error implements gormlogger.Interface.
func (l *statementLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= gormlogger.Error {
		l.logger.ErrorContext(ctx, fmt.Sprintf(msg, data...))
	}
}

// Trace implements gormlogger.Interface.
func (l *statementLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent && l.observer == nil {
		return
	}

	elapsed := time.Since(begin)
	stmt, rows := fc()
	op := operationOf(stmt)

	if l.observer != nil {
		l.observer.ObserveStatement(op, elapsed, rows, err)
	}

	switch {
	case err != nil && l.level >= gormlogger.Error && !isExpected(err):
		l.logger.ErrorContext(ctx, "Statement failed",
			"operation", op,
			"sql", stmt,
			"rows", rows,
			"duration_ms", elapsed.Milliseconds(),
			"error", err,
		)
	case l.slow > 0 && elapsed > l.slow && l.level >= gormlogger.Warn:
		l.logger.WarnContext(ctx, "Slow statement",
			"operation", op,
			"sql", stmt,
			"rows", rows,
			"duration_ms", elapsed.Milliseconds(),
			"threshold_ms", l.slow.Milliseconds(),
		)
	case l.level >= gormlogger.Info:
		l.logger.DebugContext(ctx, "Statement executed",
			"operation", op,
			"sql", stmt,
			"rows", rows,
			"duration_ms", elapsed.Milliseconds(),
		)
	}
}

func isExpected(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

// operationOf returns the statement's leading keyword in lower case.
func operationOf(stmt string) string {
	stmt = strings.TrimSpace(stmt)
	end := strings.IndexFunc(stmt, func(r rune) bool {
		return r == ' ' || r == '\n' || r == '\t' || r == '('
	})
	if end < 0 {
		end = len(stmt)
	}
	switch kw := strings.ToLower(stmt[:end]); kw {
	case "select", "insert", "update", "delete", "create", "drop", "alter", "pragma", "begin", "commit", "rollback":
		return kw
	case "with":
		return "select"
	case "":
		return "unknown"
	default:
		return "other"
	}
}
