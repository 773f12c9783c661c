package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/metinatakli/cinex-booking/internal/domain"
)

const deadlineColumns = `booking_id, session_id, user_id, amount, status, expires_at, created_at, updated_at`

type PostgresDeadlineRepository struct {
	db DBTX
}

var _ domain.PaymentDeadlineRepository = (*PostgresDeadlineRepository)(nil)

func NewPostgresDeadlineRepository(db DBTX) *PostgresDeadlineRepository {
	return &PostgresDeadlineRepository{
		db: db,
	}
}

func (p *PostgresDeadlineRepository) Create(ctx context.Context, deadline *domain.PaymentDeadline) error {
	query := `
		INSERT INTO payment_deadlines (
			booking_id,
			session_id,
			user_id,
			amount,
			status,
			expires_at
		)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`

	if deadline.Status == "" {
		deadline.Status = domain.DeadlineStatusPending
	}

	err := p.db.QueryRow(
		ctx,
		query,
		deadline.BookingID,
		deadline.SessionID,
		deadline.UserID,
		deadline.Amount,
		deadline.Status,
		deadline.ExpiresAt,
	).Scan(&deadline.CreatedAt, &deadline.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return domain.ErrDuplicateDeadline
		}

		return err
	}

	return nil
}

func (p *PostgresDeadlineRepository) GetByBookingID(ctx context.Context, bookingID string) (*domain.PaymentDeadline, error) {
	query := `SELECT ` + deadlineColumns + ` FROM payment_deadlines WHERE booking_id = $1`

	deadline, err := scanDeadline(p.db.QueryRow(ctx, query, bookingID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, err
	}

	return deadline, nil
}

func (p *PostgresDeadlineRepository) UpdateStatus(
	ctx context.Context,
	bookingID string,
	status domain.DeadlineStatus,
	from ...domain.DeadlineStatus) error {

	var (
		tag pgconn.CommandTag
		err error
	)

	if len(from) == 0 {
		query := `UPDATE payment_deadlines
			SET status = $1, updated_at = NOW()
			WHERE booking_id = $2
		`
		tag, err = p.db.Exec(ctx, query, status, bookingID)
	} else {
		fromStatuses := make([]string, len(from))
		for i, s := range from {
			fromStatuses[i] = string(s)
		}

		query := `UPDATE payment_deadlines
			SET status = $1, updated_at = NOW()
			WHERE booking_id = $2 AND status = ANY($3)
		`
		tag, err = p.db.Exec(ctx, query, status, bookingID, fromStatuses)
	}

	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		if len(from) > 0 {
			return domain.ErrEditConflict
		}
		return domain.ErrRecordNotFound
	}

	return nil
}

// ClaimExpired moves overdue pending deadlines to expired in one statement. Rows locked by
// another claimer are skipped so several instances can run the watchdog.
func (p *PostgresDeadlineRepository) ClaimExpired(ctx context.Context, now time.Time, limit int) ([]domain.PaymentDeadline, error) {
	query := `
		UPDATE payment_deadlines
		SET status = 'expired', updated_at = NOW()
		WHERE booking_id IN (
			SELECT booking_id
			FROM payment_deadlines
			WHERE status = 'pending' AND expires_at <= $1
			ORDER BY expires_at
			LIMIT $2
			FOR UPDATE SKIP LOCKED
		)
		RETURNING ` + deadlineColumns

	rows, err := p.db.Query(ctx, query, now, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var deadlines []domain.PaymentDeadline
	for rows.Next() {
		d, err := scanDeadline(rows)
		if err != nil {
			return nil, err
		}
		deadlines = append(deadlines, *d)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return deadlines, nil
}

func scanDeadline(row pgx.Row) (*domain.PaymentDeadline, error) {
	var d domain.PaymentDeadline

	err := row.Scan(
		&d.BookingID,
		&d.SessionID,
		&d.UserID,
		&d.Amount,
		&d.Status,
		&d.ExpiresAt,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &d, nil
}
