package repository

import (
	"context"

	"gorm.io/gorm"
)

// NewConnectionScope returns a function that runs fn with repositories bound
// to one pooled connection. gorm's Connection guarantees the handle is
// returned to the pool exactly once, whether fn succeeds or fails.
func NewConnectionScope(db *gorm.DB) func(ctx context.Context, fn func(TicketRepository, ActivityRepository) error) error {
	return func(ctx context.Context, fn func(TicketRepository, ActivityRepository) error) error {
		return db.WithContext(ctx).Connection(func(tx *gorm.DB) error {
			return fn(NewTicketRepository(tx), NewActivityRepository(tx))
		})
	}
}
