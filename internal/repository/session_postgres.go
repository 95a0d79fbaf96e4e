package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/futig/rag-client/internal/entity"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	createSessionQuery = `
INSERT INTO chat_sessions (id, upload_state, document_name, exchanges, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (id) DO NOTHING`

	selectSessionQuery = `
SELECT id, upload_state, document_name, exchanges, created_at, updated_at
FROM chat_sessions
WHERE id = $1`

	updateSessionQuery = `
UPDATE chat_sessions
SET upload_state = $2, document_name = $3, exchanges = $4, updated_at = $5
WHERE id = $1`

	deleteSessionQuery = `DELETE FROM chat_sessions WHERE id = $1`
)

// SessionPostgres stores sessions in PostgreSQL. Exchanges are kept as JSONB.
type SessionPostgres struct {
	db *pgxpool.Pool
}

func NewSessionPostgres(db *pgxpool.Pool) *SessionPostgres {
	return &SessionPostgres{db: db}
}

func (r *SessionPostgres) Create(ctx context.Context, session *entity.Session) error {
	exchanges, err := marshalExchanges(session.Exchanges)
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, createSessionQuery,
		session.ID,
		session.UploadState.String(),
		session.DocumentName,
		exchanges,
		session.CreatedAt,
		session.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert chat session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", entity.ErrSessionExists, session.ID)
	}

	return nil
}

func (r *SessionPostgres) Get(ctx context.Context, id string) (*entity.Session, error) {
	return scanSession(r.db.QueryRow(ctx, selectSessionQuery, id), id)
}

// Update locks the row with SELECT ... FOR UPDATE for the duration of fn.
func (r *SessionPostgres) Update(ctx context.Context, id string, fn func(*entity.Session) error) (*entity.Session, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	session, err := scanSession(tx.QueryRow(ctx, selectSessionQuery+" FOR UPDATE", id), id)
	if err != nil {
		return nil, err
	}

	if err := fn(session); err != nil {
		return nil, err
	}
	session.UpdatedAt = time.Now()

	exchanges, err := marshalExchanges(session.Exchanges)
	if err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx, updateSessionQuery,
		session.ID,
		session.UploadState.String(),
		session.DocumentName,
		exchanges,
		session.UpdatedAt,
	); err != nil {
		return nil, fmt.Errorf("update chat session: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	return session, nil
}

func (r *SessionPostgres) Delete(ctx context.Context, id string) error {
	if _, err := r.db.Exec(ctx, deleteSessionQuery, id); err != nil {
		return fmt.Errorf("delete chat session: %w", err)
	}
	return nil
}

func (r *SessionPostgres) Close() {
	r.db.Close()
}

func scanSession(row pgx.Row, id string) (*entity.Session, error) {
	var (
		session   entity.Session
		state     string
		exchanges []byte
	)

	err := row.Scan(&session.ID, &state, &session.DocumentName, &exchanges, &session.CreatedAt, &session.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", entity.ErrSessionNotFound, id)
		}
		return nil, fmt.Errorf("query chat session: %w", err)
	}

	if session.UploadState, err = entity.ParseUploadState(state); err != nil {
		return nil, err
	}

	if len(exchanges) > 0 {
		if err := json.Unmarshal(exchanges, &session.Exchanges); err != nil {
			return nil, fmt.Errorf("unmarshal exchanges: %w", err)
		}
	}

	return &session, nil
}

func marshalExchanges(exchanges []entity.Exchange) ([]byte, error) {
	if exchanges == nil {
		exchanges = []entity.Exchange{}
	}
	data, err := json.Marshal(exchanges)
	if err != nil {
		return nil, fmt.Errorf("marshal exchanges: %w", err)
	}
	return data, nil
}
