package repo

import (
	"context"
	"encoding/json"
	"time"

	"engmate/internal/domain"
	"engmate/internal/infra"
	"engmate/internal/sqlinline"
)

// UsageEventRepositoryPG implements domain.UsageEventRepository backed by PostgreSQL.
type UsageEventRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewUsageEventRepository creates a new UsageEventRepositoryPG.
func NewUsageEventRepository(sql infra.SQLExecutor) *UsageEventRepositoryPG {
	return &UsageEventRepositoryPG{sql: sql}
}

// Insert appends one usage event.
func (r *UsageEventRepositoryPG) Insert(ctx context.Context, event *domain.UsageEvent) error {
	props := event.Properties
	if len(props) == 0 {
		props = json.RawMessage(`{}`)
	}
	_, err := r.sql.Exec(ctx, sqlinline.QInsertUsageEvent,
		event.ID,
		event.UserID,
		event.EventType,
		string(event.Feature),
		props,
		event.CreatedAt,
	)
	return err
}

// CountSince counts the user's events of the given type at or after since.
func (r *UsageEventRepositoryPG) CountSince(ctx context.Context, userID, eventType string, since time.Time) (int, error) {
	var count int
	row := r.sql.QueryRow(ctx, sqlinline.QCountUsageEventsSince, userID, eventType, since)
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

var _ domain.UsageEventRepository = (*UsageEventRepositoryPG)(nil)
