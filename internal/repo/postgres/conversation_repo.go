package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SketchTurnerrr/imago-server/internal/domain/model"
)

var ErrConversationNotFound = errors.New("conversation not found")

type ConversationRepo struct {
	pool *pgxpool.Pool
}

func NewConversationRepo(pool *pgxpool.Pool) *ConversationRepo {
	return &ConversationRepo{pool: pool}
}

const conversationColumns = `
	id,
	participant_a,
	participant_b,
	last_message_time,
	created_at`

func scanConversation(row pgx.Row) (model.Conversation, error) {
	var c model.Conversation
	err := row.Scan(
		&c.ID,
		&c.ParticipantA,
		&c.ParticipantB,
		&c.LastMessageTime,
		&c.CreatedAt,
	)
	return c, err
}

func (r *ConversationRepo) Insert(ctx context.Context, tx pgx.Tx, c model.Conversation) error {
	if c.ID == "" || c.ParticipantA == "" || c.ParticipantB == "" {
		return fmt.Errorf("invalid conversation payload")
	}
	if tx == nil {
		return fmt.Errorf("transaction is required")
	}

	if _, err := tx.Exec(ctx, `
INSERT INTO conversations (
	id,
	participant_a,
	participant_b,
	last_message_time,
	created_at
) VALUES ($1, $2, $3, $4, NOW())
`, c.ID, c.ParticipantA, c.ParticipantB, c.LastMessageTime); err != nil {
		return fmt.Errorf("insert conversation: %w", err)
	}

	return nil
}

func (r *ConversationRepo) GetByID(ctx context.Context, conversationID string) (model.Conversation, error) {
	if conversationID == "" {
		return model.Conversation{}, fmt.Errorf("invalid conversation id")
	}

	c, err := scanConversation(r.pool.QueryRow(ctx, `
SELECT`+conversationColumns+`
FROM conversations
WHERE id = $1
`, conversationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Conversation{}, ErrConversationNotFound
		}
		return model.Conversation{}, fmt.Errorf("get conversation: %w", err)
	}

	return c, nil
}

func (r *ConversationRepo) ListByParticipant(ctx context.Context, userID string) ([]model.Conversation, error) {
	if userID == "" {
		return nil, fmt.Errorf("invalid user id")
	}

	rows, err := r.pool.Query(ctx, `
SELECT`+conversationColumns+`
FROM conversations
WHERE participant_a = $1 OR participant_b = $1
ORDER BY last_message_time DESC
`, userID)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	defer rows.Close()

	items := make([]model.Conversation, 0, 16)
	for rows.Next() {
		c, err := scanConversation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan conversation: %w", err)
		}
		items = append(items, c)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate conversations: %w", rows.Err())
	}

	return items, nil
}

// TouchLastMessageTime runs inside the send-message transaction so the
// conversation ordering key moves together with the inserted message.
func (r *ConversationRepo) TouchLastMessageTime(ctx context.Context, tx pgx.Tx, conversationID string, at time.Time) error {
	if conversationID == "" {
		return fmt.Errorf("invalid conversation id")
	}
	if tx == nil {
		return fmt.Errorf("transaction is required")
	}

	result, err := tx.Exec(ctx, `
UPDATE conversations SET last_message_time = $2
WHERE id = $1
`, conversationID, at)
	if err != nil {
		return fmt.Errorf("touch conversation: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrConversationNotFound
	}

	return nil
}
