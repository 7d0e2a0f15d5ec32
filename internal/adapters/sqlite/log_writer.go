package sqlite

import (
	"context"

	"github.com/google/uuid"

	"github.com/example/streak/internal/ctxutil"
	"github.com/example/streak/internal/ports/secondary"
)

// LogWriterAdapter implements secondary.ActivityLog using ActivityLogRepository.
type LogWriterAdapter struct {
	logRepo secondary.ActivityLogRepository
	newID   func() string
}

// NewLogWriterAdapter creates a new LogWriterAdapter.
func NewLogWriterAdapter(logRepo secondary.ActivityLogRepository) *LogWriterAdapter {
	return &LogWriterAdapter{
		logRepo: logRepo,
		newID:   uuid.NewString,
	}
}

// Record logs a streak transition, tagging it with the request id and
// calling surface found in ctx.
func (w *LogWriterAdapter) Record(ctx context.Context, userID, action, fieldName, oldValue, newValue string) error {
	return w.logRepo.Create(ctx, &secondary.ActivityRecord{
		ID:        w.newID(),
		UserID:    userID,
		Action:    action,
		FieldName: fieldName,
		OldValue:  oldValue,
		NewValue:  newValue,
		Source:    ctxutil.SourceFromContext(ctx),
		RequestID: ctxutil.RequestIDFromContext(ctx),
	})
}

// Ensure LogWriterAdapter implements the interface
var _ secondary.ActivityLog = (*LogWriterAdapter)(nil)
