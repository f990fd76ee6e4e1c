package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, menuID int64, sessionID string) ([]Message, error) {
	var data []byte

	err := r.db.QueryRow(ctx, `
		SELECT messages
		FROM conversations
		WHERE menu_id = $1 AND session_id = $2
	`, menuID, sessionID).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []Message{}, nil
		}
		return nil, err
	}

	msgs := []Message{}
	if err := json.Unmarshal(data, &msgs); err != nil {
		return nil, fmt.Errorf("decode conversation: %w", err)
	}
	return msgs, nil
}

func (r *PostgresRepository) Save(ctx context.Context, menuID int64, sessionID string, msgs []Message) error {
	data, err := json.Marshal(msgs)
	if err != nil {
		return fmt.Errorf("encode conversation: %w", err)
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO conversations (menu_id, session_id, messages, created_at, updated_at)
		VALUES ($1, $2, $3, now(), now())
		ON CONFLICT (menu_id, session_id)
		DO UPDATE SET messages = EXCLUDED.messages,
		              updated_at = now()
	`, menuID, sessionID, data)

	return err
}

func (r *PostgresRepository) Delete(ctx context.Context, menuID int64, sessionID string) error {
	_, err := r.db.Exec(ctx, `
		DELETE FROM conversations
		WHERE menu_id = $1 AND session_id = $2
	`, menuID, sessionID)

	return err
}
