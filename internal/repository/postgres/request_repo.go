package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"explorewithme/internal/domain"
)

const requestColumns = `id, event_id, requester_id, status, created`

type requestRepository struct {
	DB *sql.DB
}

func NewRequestRepository(db *sql.DB) domain.RequestRepository {
	return &requestRepository{
		DB: db,
	}
}

func scanRequest(row rowScanner) (*domain.ParticipationRequest, error) {
	req := &domain.ParticipationRequest{}
	if err := row.Scan(&req.ID, &req.EventID, &req.RequesterID, &req.Status, &req.Created); err != nil {
		return nil, err
	}
	return req, nil
}

func (r *requestRepository) ExistsByRequesterAndEvent(ctx context.Context, requesterID, eventID int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM requests WHERE event_id = $1 AND requester_id = $2)`
	var exists bool
	if err := r.DB.QueryRowContext(ctx, query, eventID, requesterID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// Admit runs the publication and capacity checks and the insert in one transaction that
// holds a row lock on the event. Concurrent admissions for the same event queue on that
// lock, so each one sees the state and confirmed requests committed before it.
func (r *requestRepository) Admit(ctx context.Context, req *domain.ParticipationRequest) (err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin admission: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var (
		limit int
		state domain.EventState
	)
	err = tx.QueryRowContext(ctx,
		`SELECT participant_limit, state FROM events WHERE id = $1 FOR UPDATE`,
		req.EventID,
	).Scan(&limit, &state)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("lock event: %w", err)
	}

	var exists bool
	err = tx.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM requests WHERE event_id = $1 AND requester_id = $2)`,
		req.EventID, req.RequesterID,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check duplicate: %w", err)
	}
	if exists {
		return domain.ErrDuplicateRequest
	}
	if state != domain.EventStatePublished {
		return domain.ErrEventNotPublished
	}

	if limit > 0 {
		var confirmed int64
		err = tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM requests WHERE event_id = $1 AND status = $2`,
			req.EventID, string(domain.RequestStatusConfirmed),
		).Scan(&confirmed)
		if err != nil {
			return fmt.Errorf("count confirmed: %w", err)
		}
		if confirmed >= int64(limit) {
			return domain.ErrCapacityExceeded
		}
	}

	err = tx.QueryRowContext(ctx,
		`INSERT INTO requests (event_id, requester_id, status, created)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		req.EventID, req.RequesterID, string(req.Status), req.Created,
	).Scan(&req.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateRequest
		}
		return fmt.Errorf("insert request: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit admission: %w", err)
	}
	return nil
}

func (r *requestRepository) GetByID(ctx context.Context, id int64) (*domain.ParticipationRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM requests WHERE id = $1`
	req, err := scanRequest(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return req, nil
}

func (r *requestRepository) Cancel(ctx context.Context, id, requesterID int64) (bool, error) {
	query := `
		UPDATE requests SET status = $1
		WHERE id = $2 AND requester_id = $3 AND status IN ($4, $5)
	`
	result, err := r.DB.ExecContext(ctx, query,
		string(domain.RequestStatusCanceled), id, requesterID,
		string(domain.RequestStatusPending), string(domain.RequestStatusConfirmed),
	)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (r *requestRepository) ListByRequesterID(ctx context.Context, requesterID int64) ([]*domain.ParticipationRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM requests WHERE requester_id = $1 ORDER BY created ASC, id ASC`
	rows, err := r.DB.QueryContext(ctx, query, requesterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reqs := make([]*domain.ParticipationRequest, 0)
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, req)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return reqs, nil
}

func (r *requestRepository) ConfirmedCount(ctx context.Context, eventID int64) (int64, error) {
	query := `SELECT COUNT(*) FROM requests WHERE event_id = $1 AND status = $2`
	var count int64
	err := r.DB.QueryRowContext(ctx, query, eventID, string(domain.RequestStatusConfirmed)).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *requestRepository) ConfirmedCounts(ctx context.Context, eventIDs []int64) (map[int64]int64, error) {
	counts := make(map[int64]int64)
	if len(eventIDs) == 0 {
		return counts, nil
	}
	query := `
		SELECT event_id, COUNT(*)
		FROM requests
		WHERE event_id = ANY($1) AND status = $2
		GROUP BY event_id
	`
	rows, err := r.DB.QueryContext(ctx, query, pq.Array(eventIDs), string(domain.RequestStatusConfirmed))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var eventID, count int64
		if err := rows.Scan(&eventID, &count); err != nil {
			return nil, err
		}
		if count > 0 {
			counts[eventID] = count
		}
	}
	return counts, rows.Err()
}
