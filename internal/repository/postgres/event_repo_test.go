package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"explorewithme/internal/domain"
)

var eventRowColumns = []string{"id", "title", "annotation", "initiator_id", "participant_limit", "request_moderation", "state", "created_at"}

func TestEventRepository_Create(t *testing.T) {
	ctx := context.Background()
	createdAt := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		event   *domain.Event
		mock    func(mock sqlmock.Sqlmock)
		wantID  int64
		wantErr bool
	}{
		{
			name:  "success",
			event: domain.NewEvent("Jazz night", 1, 10, true, createdAt),
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO events \(title, annotation, initiator_id, participant_limit, request_moderation, state, created_at\)`).
					WithArgs("Jazz night", "", int64(1), 10, true, "PENDING", createdAt).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))
			},
			wantID: 42,
		},
		{
			name:  "db error",
			event: domain.NewEvent("Jazz night", 1, 10, true, createdAt),
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO events`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewEventRepository(db)
			err = repo.Create(ctx, tt.event)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantID, tt.event.ID)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	createdAt := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		want    *domain.Event
		errIs   error
		wantErr bool
	}{
		{
			name: "found",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, title, annotation, initiator_id, participant_limit, request_moderation, state, created_at FROM events WHERE id = \$1`).
					WithArgs(int64(42)).
					WillReturnRows(sqlmock.NewRows(eventRowColumns).
						AddRow(42, "Jazz night", "", 1, 10, true, "PUBLISHED", createdAt))
			},
			want: &domain.Event{
				ID: 42, Title: "Jazz night", InitiatorID: 1, ParticipantLimit: 10,
				RequestModeration: true, State: domain.EventStatePublished, CreatedAt: createdAt,
			},
		},
		{
			name: "not found",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM events WHERE id = \$1`).
					WithArgs(int64(42)).
					WillReturnRows(sqlmock.NewRows(eventRowColumns))
			},
			wantErr: true,
			errIs:   domain.ErrNotFound,
		},
		{
			name: "db error",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM events WHERE id = \$1`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
			errIs:   sql.ErrConnDone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewEventRepository(db)
			got, err := repo.GetByID(ctx, 42)
			if tt.wantErr {
				require.ErrorIs(t, err, tt.errIs)
			} else {
				require.NoError(t, err)
				require.Equal(t, tt.want, got)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_ListByIDs(t *testing.T) {
	ctx := context.Background()
	createdAt := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("returns existing events", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`FROM events WHERE id = ANY\(\$1\) ORDER BY id`).
			WithArgs(pq.Array([]int64{1, 2, 9})).
			WillReturnRows(sqlmock.NewRows(eventRowColumns).
				AddRow(1, "A", "", 5, 0, false, "PUBLISHED", createdAt).
				AddRow(2, "B", "", 5, 3, true, "PENDING", createdAt))

		repo := NewEventRepository(db)
		events, err := repo.ListByIDs(ctx, []int64{1, 2, 9})
		require.NoError(t, err)
		require.Len(t, events, 2)
		require.Equal(t, int64(2), events[1].ID)
		require.Equal(t, domain.EventStatePending, events[1].State)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty ids", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewEventRepository(db)
		events, err := repo.ListByIDs(ctx, []int64{})
		require.NoError(t, err)
		require.Empty(t, events)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestEventRepository_UpdateState(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		errIs    error
	}{
		{"published", 1, nil},
		{"missing event", 0, domain.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			mock.ExpectExec(`UPDATE events SET state = \$1 WHERE id = \$2`).
				WithArgs("PUBLISHED", int64(42)).
				WillReturnResult(sqlmock.NewResult(0, tt.affected))

			repo := NewEventRepository(db)
			err = repo.UpdateState(context.Background(), 42, domain.EventStatePublished)
			if tt.errIs != nil {
				require.ErrorIs(t, err, tt.errIs)
			} else {
				require.NoError(t, err)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
