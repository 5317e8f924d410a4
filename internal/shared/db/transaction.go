// Package db carries the ambient-transaction plumbing that lets the
// reopen flow commit its audit comment and status change as one unit
// while every other operation runs against the plain connection.
package db

import (
	"context"

	"gorm.io/gorm"
)

type ctxTxKey struct{}

// TransactionManager starts gorm transactions and threads them through
// context so repositories join them without knowing who opened them.
type TransactionManager struct {
	db *gorm.DB
}

func NewTransactionManager(db *gorm.DB) *TransactionManager {
	return &TransactionManager{db: db}
}

// RunInTransaction runs fn inside one transaction. Every repository call
// made with the context handed to fn joins it; any error rolls the whole
// unit back.
func (tm *TransactionManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, ctxTxKey{}, tx))
	})
}

// Conn returns the handle a repository should use for ctx: the ambient
// transaction when one is running, otherwise the fallback connection.
func Conn(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(ctxTxKey{}).(*gorm.DB); ok {
		return tx
	}
	return fallback.WithContext(ctx)
}
