package db

import (
	"context"

	"gorm.io/gorm"
)

// WithTransaction runs fn inside a single database transaction, committing
// when fn returns nil and rolling back on error or panic. The batch video
// upserts and deletes run through here so a sync tick either lands whole or
// leaves the store untouched; channel upserts use it for the same guarantee
// during bootstrap.
func (db *DB) WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return db.DB.WithContext(ctx).Transaction(fn)
}
