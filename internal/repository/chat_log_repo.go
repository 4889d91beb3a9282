package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"assistant-backend/internal/models"
)

type ChatLogRepo struct {
	pool *pgxpool.Pool
}

func NewChatLogRepo(pool *pgxpool.Pool) *ChatLogRepo {
	return &ChatLogRepo{pool: pool}
}

func (r *ChatLogRepo) Create(ctx context.Context, entry *models.ChatLog) error {
	entry.ID = uuid.New()

	query := `INSERT INTO chat_logs (id, request_id, message, reply, model)
		VALUES ($1, $2, $3, $4, $5) RETURNING created_at`

	return r.pool.QueryRow(ctx, query,
		entry.ID, entry.RequestID, entry.Message, entry.Reply, entry.Model,
	).Scan(&entry.CreatedAt)
}

func (r *ChatLogRepo) ListRecent(ctx context.Context, limit int) ([]*models.ChatLog, error) {
	query := `SELECT id, request_id, message, reply, model, created_at
		FROM chat_logs ORDER BY created_at DESC LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.ChatLog
	for rows.Next() {
		e := &models.ChatLog{}
		if err := rows.Scan(&e.ID, &e.RequestID, &e.Message, &e.Reply, &e.Model, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}
