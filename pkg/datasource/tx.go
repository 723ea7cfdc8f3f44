package datasource

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"mercator-hq/quarry/pkg/queryable"
)

// IsolationLevel is a transaction isolation level. Drivers reject levels they
// do not support when the transaction begins.
type IsolationLevel int

const (
	IsolationDefault IsolationLevel = iota
	IsolationReadUncommitted
	IsolationReadCommitted
	IsolationRepeatableRead
	IsolationSnapshot
	IsolationSerializable
	IsolationLinearizable
)

var isolationNames = map[IsolationLevel]string{
	IsolationDefault:         "default",
	IsolationReadUncommitted: "read_uncommitted",
	IsolationReadCommitted:   "read_committed",
	IsolationRepeatableRead:  "repeatable_read",
	IsolationSnapshot:        "snapshot",
	IsolationSerializable:    "serializable",
	IsolationLinearizable:    "linearizable",
}

// ParseIsolationLevel parses names such as "read_committed" or
// "Read Committed". The empty string is the driver default.
func ParseIsolationLevel(name string) (IsolationLevel, error) {
	norm := strings.ToLower(strings.TrimSpace(name))
	norm = strings.NewReplacer(" ", "_", "-", "_").Replace(norm)
	if norm == "" {
		return IsolationDefault, nil
	}
	for level, n := range isolationNames {
		if n == norm {
			return level, nil
		}
	}
	return IsolationDefault, fmt.Errorf("unknown isolation level %q", name)
}

// String returns the level's configuration name.
func (l IsolationLevel) String() string {
	if n, ok := isolationNames[l]; ok {
		return n
	}
	return fmt.Sprintf("isolation(%d)", int(l))
}

func (l IsolationLevel) sqlLevel() sql.IsolationLevel {
	switch l {
	case IsolationReadUncommitted:
		return sql.LevelReadUncommitted
	case IsolationReadCommitted:
		return sql.LevelReadCommitted
	case IsolationRepeatableRead:
		return sql.LevelRepeatableRead
	case IsolationSnapshot:
		return sql.LevelSnapshot
	case IsolationSerializable:
		return sql.LevelSerializable
	case IsolationLinearizable:
		return sql.LevelLinearizable
	default:
		return sql.LevelDefault
	}
}

// TxOptions configures BeginTx.
type TxOptions struct {
	Isolation IsolationLevel
	ReadOnly  bool
}

func (o TxOptions) sqlOptions() *sql.TxOptions {
	if o.Isolation == IsolationDefault && !o.ReadOnly {
		return nil
	}
	return &sql.TxOptions{Isolation: o.Isolation.sqlLevel(), ReadOnly: o.ReadOnly}
}

// Tx is an open transaction. Queries built from its Source run inside it.
type Tx struct {
	gorm   *gorm.DB
	driver Driver
}

// BeginTx starts a transaction. ctx governs the whole transaction: when it is
// cancelled the driver rolls back.
func (db *DB) BeginTx(ctx context.Context, opts TxOptions) (*Tx, error) {
	tx := db.gorm.WithContext(ctx).Begin(opts.sqlOptions())
	if tx.Error != nil {
		return nil, NewStorageError(db.driver.String(), "begin", tx.Error)
	}
	db.logger.Debug("Transaction started", "isolation", opts.Isolation.String(), "read_only", opts.ReadOnly)
	return &Tx{gorm: tx, driver: db.driver}, nil
}

// Source returns a handle over the database scoped to the transaction.
func (t *Tx) Source() queryable.Source {
	return queryable.NewSource(t.gorm)
}

// Commit commits the transaction.
func (t *Tx) Commit() error {
	return t.gorm.Commit().Error
}

// Rollback aborts the transaction. Rolling back a finished transaction is a
// no-op, so Rollback can always be deferred.
func (t *Tx) Rollback() error {
	err := t.gorm.Rollback().Error
	if errors.Is(err, sql.ErrTxDone) {
		return nil
	}
	return err
}
