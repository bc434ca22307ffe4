package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SketchTurnerrr/imago-server/internal/domain/model"
)

type MessageRepo struct {
	pool *pgxpool.Pool
}

func NewMessageRepo(pool *pgxpool.Pool) *MessageRepo {
	return &MessageRepo{pool: pool}
}

func (r *MessageRepo) Insert(ctx context.Context, tx pgx.Tx, m model.Message) error {
	if m.ID == "" || m.ConversationID == "" || m.SenderID == "" {
		return fmt.Errorf("invalid message payload")
	}
	if tx == nil {
		return fmt.Errorf("transaction is required")
	}

	if _, err := tx.Exec(ctx, `
INSERT INTO messages (
	id,
	conversation_id,
	sender_id,
	content,
	created_at
) VALUES ($1, $2, $3, $4, NOW())
`, m.ID, m.ConversationID, m.SenderID, m.Content); err != nil {
		return fmt.Errorf("insert message: %w", err)
	}

	return nil
}

func (r *MessageRepo) ListByConversation(ctx context.Context, conversationID string) ([]model.Message, error) {
	if conversationID == "" {
		return nil, fmt.Errorf("invalid conversation id")
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, conversation_id, sender_id, content, created_at
FROM messages
WHERE conversation_id = $1
ORDER BY created_at ASC, id ASC
`, conversationID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	items := make([]model.Message, 0, 32)
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.SenderID, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		items = append(items, m)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate messages: %w", rows.Err())
	}

	return items, nil
}

// LastByConversation returns the newest message, used for chat list
// previews. ok is false when the conversation has no messages yet.
func (r *MessageRepo) LastByConversation(ctx context.Context, conversationID string) (model.Message, bool, error) {
	if conversationID == "" {
		return model.Message{}, false, fmt.Errorf("invalid conversation id")
	}

	var m model.Message
	err := r.pool.QueryRow(ctx, `
SELECT id, conversation_id, sender_id, content, created_at
FROM messages
WHERE conversation_id = $1
ORDER BY created_at DESC, id DESC
LIMIT 1
`, conversationID).Scan(&m.ID, &m.ConversationID, &m.SenderID, &m.Content, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Message{}, false, nil
		}
		return model.Message{}, false, fmt.Errorf("get last message: %w", err)
	}

	return m, true, nil
}
