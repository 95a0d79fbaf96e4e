package repository

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/futig/rag-client/internal/entity"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newPostgresStore migrates the database at DATABASE_URL and returns a store
// over it. Tests using it are skipped when the variable is unset.
func newPostgresStore(t *testing.T) *SessionPostgres {
	t.Helper()
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL is not set")
	}

	require.NoError(t, RunMigrations(url))
	// running again is a no-op
	require.NoError(t, RunMigrations(url))

	pool, err := pgxpool.New(context.Background(), url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return NewSessionPostgres(pool)
}

func createTestSession(t *testing.T, store *SessionPostgres) string {
	t.Helper()
	ctx := context.Background()
	id := "test-" + uuid.NewString()
	require.NoError(t, store.Create(ctx, newSession(id)))
	t.Cleanup(func() { _ = store.Delete(context.Background(), id) })
	return id
}

func TestSessionPostgres_CreateGetDelete(t *testing.T) {
	store := newPostgresStore(t)
	ctx := context.Background()
	id := createTestSession(t, store)

	assert.ErrorIs(t, store.Create(ctx, newSession(id)), entity.ErrSessionExists)

	got, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, entity.NotUploaded, got.UploadState)
	assert.Empty(t, got.Exchanges)

	require.NoError(t, store.Delete(ctx, id))
	_, err = store.Get(ctx, id)
	assert.ErrorIs(t, err, entity.ErrSessionNotFound)

	// deleting a missing session is not an error
	assert.NoError(t, store.Delete(ctx, id))
}

func TestSessionPostgres_UpdateRoundTripsExchanges(t *testing.T) {
	store := newPostgresStore(t)
	ctx := context.Background()
	id := createTestSession(t, store)

	asked := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	_, err := store.Update(ctx, id, func(s *entity.Session) error {
		s.MarkUploaded("doc.pdf")
		s.Exchanges = append(s.Exchanges,
			entity.Exchange{Question: "What is X?", Answer: "X is ...", AskedAt: asked},
			entity.Exchange{Question: "And Y?", Answer: `{"error":"bad request"}`, Failed: true, AskedAt: asked},
		)
		return nil
	})
	require.NoError(t, err)

	got, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, entity.Uploaded, got.UploadState)
	assert.Equal(t, "doc.pdf", got.DocumentName)
	require.Len(t, got.Exchanges, 2)
	assert.Equal(t, "X is ...", got.Exchanges[0].Answer)
	assert.False(t, got.Exchanges[0].Failed)
	assert.True(t, got.Exchanges[1].Failed)
	assert.True(t, asked.Equal(got.Exchanges[1].AskedAt))
}

func TestSessionPostgres_UpdateErrors(t *testing.T) {
	store := newPostgresStore(t)
	ctx := context.Background()
	id := createTestSession(t, store)

	_, err := store.Update(ctx, id, func(s *entity.Session) error {
		s.MarkUploaded("doc.pdf")
		return fmt.Errorf("abort")
	})
	assert.EqualError(t, err, "abort")

	got, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, entity.NotUploaded, got.UploadState, "aborted update must roll back")

	_, err = store.Update(ctx, "missing-"+uuid.NewString(), func(*entity.Session) error { return nil })
	assert.ErrorIs(t, err, entity.ErrSessionNotFound)
}

func TestSessionPostgres_ConcurrentAskAndUpload(t *testing.T) {
	store := newPostgresStore(t)
	ctx := context.Background()
	id := createTestSession(t, store)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_, err := store.Update(ctx, id, func(s *entity.Session) error {
				s.Exchanges = append(s.Exchanges, entity.Exchange{Question: fmt.Sprintf("q%d", i)})
				return nil
			})
			assert.NoError(t, err)
		}(i)
		go func() {
			defer wg.Done()
			_, err := store.Update(ctx, id, func(s *entity.Session) error {
				s.MarkUploaded("doc.pdf")
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, entity.Uploaded, got.UploadState)
	assert.Len(t, got.Exchanges, 20)
}

func TestMarshalExchanges_NilIsEmptyArray(t *testing.T) {
	data, err := marshalExchanges(nil)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))
}

func TestForceTarget(t *testing.T) {
	assert.Equal(t, database.NilVersion, forceTarget(1))
	assert.Equal(t, database.NilVersion, forceTarget(0))
	assert.Equal(t, 1, forceTarget(2))
	assert.Equal(t, 4, forceTarget(5))
}
