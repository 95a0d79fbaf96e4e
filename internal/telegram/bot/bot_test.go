package bot

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/futig/rag-client/internal/config"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeTelegram answers Bot API calls. getUpdates hands out the queued
// updates once, then keeps returning empty batches.
type fakeTelegram struct {
	mu      sync.Mutex
	pending []tgbotapi.Update
	sent    []string
}

func (f *fakeTelegram) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	method := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]
	_ = r.ParseForm()

	f.mu.Lock()
	defer f.mu.Unlock()

	var result any = true
	switch method {
	case "getMe":
		result = tgbotapi.User{ID: 1, IsBot: true, FirstName: "test", UserName: "test_bot"}
	case "getUpdates":
		if len(f.pending) == 0 {
			time.Sleep(10 * time.Millisecond)
		}
		result, f.pending = f.pending, []tgbotapi.Update{}
	case "sendMessage":
		f.sent = append(f.sent, r.FormValue("text"))
		result = tgbotapi.Message{MessageID: len(f.sent), Chat: &tgbotapi.Chat{ID: 42}}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "result": result})
}

func (f *fakeTelegram) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func helpUpdate(id int) tgbotapi.Update {
	return tgbotapi.Update{
		UpdateID: id,
		Message: &tgbotapi.Message{
			MessageID: id,
			From:      &tgbotapi.User{ID: 7},
			Chat:      &tgbotapi.Chat{ID: 42},
			Text:      "/help",
			Entities:  []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: 5}},
		},
	}
}

func newTestBot(t *testing.T, tg *fakeTelegram) *Bot {
	t.Helper()
	srv := httptest.NewServer(tg)
	t.Cleanup(srv.Close)

	api, err := tgbotapi.NewBotAPIWithAPIEndpoint("token", srv.URL+"/bot%s/%s")
	require.NoError(t, err)

	return &Bot{
		api:      api,
		cfg:      &config.TelegramConfig{ShutdownTimeout: 5},
		logger:   zap.NewNop(),
		stopChan: make(chan struct{}),
	}
}

func TestBot_AnswersUpdatesAndStops(t *testing.T) {
	tg := &fakeTelegram{}
	for i := 1; i <= 5; i++ {
		tg.pending = append(tg.pending, helpUpdate(i))
	}
	b := newTestBot(t, tg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, b.Start(ctx))

	require.Eventually(t, func() bool { return tg.sentCount() == 5 }, 5*time.Second, 10*time.Millisecond)

	cancel()
	assert.NoError(t, b.Stop())
	assert.Zero(t, b.inFlight.Load())
}

func TestBot_StopWhileUpdatesArrive(t *testing.T) {
	tg := &fakeTelegram{}
	for i := 1; i <= 50; i++ {
		tg.pending = append(tg.pending, helpUpdate(i))
	}
	b := newTestBot(t, tg)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, b.Start(ctx))

	// stop as soon as the batch starts flowing; late updates must not race Stop
	require.Eventually(t, func() bool { return tg.sentCount() > 0 }, 5*time.Second, time.Millisecond)
	cancel()
	assert.NoError(t, b.Stop())
	assert.Zero(t, b.inFlight.Load())
}

func TestBot_StopBeforeStart(t *testing.T) {
	b := newTestBot(t, &fakeTelegram{})
	assert.NoError(t, b.Stop())
}
