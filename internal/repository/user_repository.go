package repository

import (
	"context"
	"errors"
	"time"

	"chatrelay/internal/domain/user"
	relay_errors "chatrelay/pkg/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresUserRepository struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

// NewUserRepository builds the Postgres-backed user repository. Every
// statement runs under its own queryTimeout deadline.
func NewUserRepository(db *pgxpool.Pool, queryTimeout time.Duration) UserRepository {
	return &PostgresUserRepository{db: db, timeout: queryTimeout}
}

const userColumns = "id, email, display_name, password_hash, image_url, created_at, updated_at"

func (r *PostgresUserRepository) Create(ctx context.Context, rec *user.Record) error {
	ctx, cancel := withQueryTimeout(ctx, r.timeout)
	defer cancel()

	_, err := r.db.Exec(ctx,
		`INSERT INTO users (id, email, display_name, password_hash, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		rec.ID, rec.Email, rec.DisplayName, rec.PasswordHash, rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return relay_errors.ErrEmailTaken
		}
		return err
	}
	return nil
}

func (r *PostgresUserRepository) Find(ctx context.Context) ([]user.Record, error) {
	ctx, cancel := withQueryTimeout(ctx, r.timeout)
	defer cancel()

	rows, err := r.db.Query(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []user.Record
	for rows.Next() {
		rec, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *PostgresUserRepository) FindOneByID(ctx context.Context, id uuid.UUID) (user.Record, error) {
	ctx, cancel := withQueryTimeout(ctx, r.timeout)
	defer cancel()

	row := r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUserRow(row)
}

func (r *PostgresUserRepository) FindOneByEmail(ctx context.Context, email string) (user.Record, error) {
	ctx, cancel := withQueryTimeout(ctx, r.timeout)
	defer cancel()

	row := r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUserRow(row)
}

func (r *PostgresUserRepository) FindOneAndUpdate(ctx context.Context, id uuid.UUID, changes user.Changes) (user.Record, error) {
	ctx, cancel := withQueryTimeout(ctx, r.timeout)
	defer cancel()

	row := r.db.QueryRow(ctx,
		`UPDATE users SET
		   email = COALESCE($2, email),
		   display_name = COALESCE($3, display_name),
		   password_hash = COALESCE($4, password_hash),
		   image_url = COALESCE($5, image_url),
		   updated_at = now()
		 WHERE id = $1
		 RETURNING `+userColumns,
		id, changes.Email, changes.DisplayName, changes.PasswordHash, changes.ImageURL)
	rec, err := scanUserRow(row)
	if err != nil {
		if isUniqueViolation(err) {
			return user.Record{}, relay_errors.ErrEmailTaken
		}
		return user.Record{}, err
	}
	return rec, nil
}

func (r *PostgresUserRepository) FindOneAndDelete(ctx context.Context, id uuid.UUID) (user.Record, error) {
	ctx, cancel := withQueryTimeout(ctx, r.timeout)
	defer cancel()

	row := r.db.QueryRow(ctx,
		`DELETE FROM users WHERE id = $1 RETURNING `+userColumns, id)
	return scanUserRow(row)
}

func scanUser(rows pgx.Rows) (user.Record, error) {
	var rec user.Record
	err := rows.Scan(&rec.ID, &rec.Email, &rec.DisplayName, &rec.PasswordHash,
		&rec.ImageURL, &rec.CreatedAt, &rec.UpdatedAt)
	return rec, err
}

func scanUserRow(row pgx.Row) (user.Record, error) {
	var rec user.Record
	err := row.Scan(&rec.ID, &rec.Email, &rec.DisplayName, &rec.PasswordHash,
		&rec.ImageURL, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.Record{}, relay_errors.ErrNotFound
		}
		return user.Record{}, err
	}
	return rec, nil
}
