package postgres

import (
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smarttasker/api/internal/domain"
)

// fakeRow feeds canned column values to scanTask in query column order:
// id, user_id, title, description, status, deadline, notification_sent,
// created_at, updated_at.
type fakeRow struct {
	values []any
}

func (r *fakeRow) Scan(dest ...any) error {
	for i, d := range dest {
		switch v := r.values[i].(type) {
		case uuid.UUID:
			*d.(*uuid.UUID) = v
		case string:
			switch target := d.(type) {
			case *string:
				*target = v
			case *sql.NullString:
				*target = sql.NullString{String: v, Valid: true}
			}
		case nil:
			// Leave the Null* destination invalid.
		case time.Time:
			switch target := d.(type) {
			case *time.Time:
				*target = v
			case *sql.NullTime:
				*target = sql.NullTime{Time: v, Valid: true}
			}
		case bool:
			*d.(*bool) = v
		}
	}
	return nil
}

func TestScanTask(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	userID := uuid.New()
	created := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)
	deadline := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	t.Run("full row", func(t *testing.T) {
		t.Parallel()
		task, err := scanTask(&fakeRow{values: []any{
			id, userID, "Write report", "numbers", "pending", deadline, true, created, created,
		}})
		require.NoError(t, err)

		assert.Equal(t, id, task.ID)
		assert.Equal(t, userID, task.UserID)
		assert.Equal(t, "Write report", task.Title)
		assert.Equal(t, "numbers", task.Description)
		assert.Equal(t, domain.TaskStatusPending, task.Status)
		require.NotNil(t, task.Deadline)
		assert.True(t, task.Deadline.Equal(deadline))
		assert.True(t, task.NotificationSent)
	})

	t.Run("null description and deadline", func(t *testing.T) {
		t.Parallel()
		task, err := scanTask(&fakeRow{values: []any{
			id, userID, "Write report", nil, "completed", nil, false, created, created,
		}})
		require.NoError(t, err)

		assert.Empty(t, task.Description)
		assert.Nil(t, task.Deadline)
		assert.Equal(t, domain.TaskStatusCompleted, task.Status)
	})
}
