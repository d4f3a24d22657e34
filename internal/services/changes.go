package services

import (
	"context"
	"log/slog"

	"soravault/internal/realtime"
)

// changes publishes realtime notifications on behalf of a service. A failed
// publish is logged and never fails the write that caused it.
type changes struct {
	pub    realtime.Publisher
	logger *slog.Logger
}

func newChanges(pub realtime.Publisher, logger *slog.Logger) changes {
	return changes{pub: pub, logger: logger}
}

func (c changes) emit(ctx context.Context, table, typ, id, userID string) {
	if c.pub == nil {
		return
	}
	ev := realtime.Event{Table: table, Type: typ, ID: id, UserID: userID}
	if err := c.pub.Publish(ctx, ev); err != nil && c.logger != nil {
		c.logger.Warn("realtime publish failed", "table", table, "id", id, "error", err)
	}
}
