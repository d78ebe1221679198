package repository

import (
	"context"
	"errors"
	"time"

	"chatrelay/internal/domain/chat"
	relay_errors "chatrelay/pkg/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresChatRepository struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

// NewChatRepository builds the Postgres-backed chat repository. Every
// statement runs under its own queryTimeout deadline.
func NewChatRepository(db *pgxpool.Pool, queryTimeout time.Duration) ChatRepository {
	return &PostgresChatRepository{db: db, timeout: queryTimeout}
}

const chatColumns = "id, creator_id, name, member_ids, created_at"

func (r *PostgresChatRepository) Create(ctx context.Context, c *chat.Chat) error {
	ctx, cancel := withQueryTimeout(ctx, r.timeout)
	defer cancel()

	_, err := r.db.Exec(ctx,
		`INSERT INTO chats (id, creator_id, name, member_ids, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		c.ID, c.CreatorID, c.Name, c.MemberIDs, c.CreatedAt)
	return err
}

func (r *PostgresChatRepository) Find(ctx context.Context, skip, limit int) ([]chat.Chat, error) {
	ctx, cancel := withQueryTimeout(ctx, r.timeout)
	defer cancel()

	rows, err := r.db.Query(ctx,
		`SELECT `+chatColumns+` FROM chats ORDER BY created_at, id OFFSET $1 LIMIT $2`,
		skip, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chats []chat.Chat
	for rows.Next() {
		var c chat.Chat
		if err := rows.Scan(&c.ID, &c.CreatorID, &c.Name, &c.MemberIDs, &c.CreatedAt); err != nil {
			return nil, err
		}
		chats = append(chats, c)
	}
	return chats, rows.Err()
}

func (r *PostgresChatRepository) FindOneByID(ctx context.Context, id uuid.UUID) (chat.Chat, error) {
	ctx, cancel := withQueryTimeout(ctx, r.timeout)
	defer cancel()

	row := r.db.QueryRow(ctx,
		`SELECT `+chatColumns+` FROM chats WHERE id = $1`, id)
	return scanChatRow(row)
}

func (r *PostgresChatRepository) FindOneAndUpdate(ctx context.Context, id uuid.UUID, changes chat.Changes) (chat.Chat, error) {
	ctx, cancel := withQueryTimeout(ctx, r.timeout)
	defer cancel()

	row := r.db.QueryRow(ctx,
		`UPDATE chats SET
		   name = COALESCE($2, name),
		   member_ids = COALESCE($3, member_ids)
		 WHERE id = $1
		 RETURNING `+chatColumns,
		id, changes.Name, changes.MemberIDs)
	return scanChatRow(row)
}

func (r *PostgresChatRepository) FindOneAndDelete(ctx context.Context, id uuid.UUID) (chat.Chat, error) {
	ctx, cancel := withQueryTimeout(ctx, r.timeout)
	defer cancel()

	row := r.db.QueryRow(ctx,
		`DELETE FROM chats WHERE id = $1 RETURNING `+chatColumns, id)
	return scanChatRow(row)
}

func scanChatRow(row pgx.Row) (chat.Chat, error) {
	var c chat.Chat
	err := row.Scan(&c.ID, &c.CreatorID, &c.Name, &c.MemberIDs, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return chat.Chat{}, relay_errors.ErrNotFound
		}
		return chat.Chat{}, err
	}
	return c, nil
}
