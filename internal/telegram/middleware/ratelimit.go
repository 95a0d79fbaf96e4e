package middleware

import (
	"strconv"
	"sync"
	"time"

	"github.com/futig/rag-client/internal/telegram/render"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const (
	warningInterval = 30 * time.Second
	// Buckets of users silent for this long are dropped; they would be full anyway.
	bucketIdleTTL   = time.Hour
	bucketSweepTick = 10 * time.Minute
)

// bucket is one user's token bucket.
type bucket struct {
	mu            sync.Mutex
	tokens        float64
	lastRefill    time.Time
	warningsSent  int
	lastWarningAt time.Time
}

// RateLimiterMiddleware drops updates from users that exceed their token bucket.
// Each user may burst up to the configured size, then refills at the per-minute rate.
type RateLimiterMiddleware struct {
	buckets    *cache.Cache
	create     sync.Mutex
	maxTokens  float64
	refillRate float64 // tokens per second
	logger     *zap.Logger
	api        Sender
	now        func() time.Time
}

// NewRateLimiterMiddleware creates a new rate limiter middleware
func NewRateLimiterMiddleware(
	requestsPerMinute int,
	burstSize int,
	logger *zap.Logger,
	api Sender,
) *RateLimiterMiddleware {
	return &RateLimiterMiddleware{
		buckets:    cache.New(bucketIdleTTL, bucketSweepTick),
		maxTokens:  float64(max(burstSize, 1)),
		refillRate: float64(requestsPerMinute) / 60.0,
		logger:     logger,
		api:        api,
		now:        time.Now,
	}
}

// Handle passes the update on when the sender still has a token.
func (rl *RateLimiterMiddleware) Handle(update tgbotapi.Update, next func(tgbotapi.Update)) {
	o, ok := updateOrigin(update)
	if !ok {
		next(update)
		return
	}

	if !rl.allow(o) {
		rl.logger.Warn("rate limit exceeded",
			zap.Int64("user_id", o.userID),
			zap.Int64("chat_id", o.chatID),
			zap.String("type", o.kind),
		)
		return
	}

	next(update)
}

func (rl *RateLimiterMiddleware) bucketFor(userID int64) *bucket {
	key := strconv.FormatInt(userID, 10)

	rl.create.Lock()
	defer rl.create.Unlock()

	if v, found := rl.buckets.Get(key); found {
		// Touch to push the idle expiry forward.
		rl.buckets.SetDefault(key, v)
		return v.(*bucket)
	}

	b := &bucket{tokens: rl.maxTokens, lastRefill: rl.now()}
	rl.buckets.SetDefault(key, b)
	return b
}

func (rl *RateLimiterMiddleware) allow(o origin) bool {
	b := rl.bucketFor(o.userID)

	b.mu.Lock()
	defer b.mu.Unlock()

	now := rl.now()
	b.tokens = min(rl.maxTokens, b.tokens+now.Sub(b.lastRefill).Seconds()*rl.refillRate)
	b.lastRefill = now

	if b.tokens >= 1 {
		b.tokens--
		b.warningsSent = 0
		return true
	}

	if now.Sub(b.lastWarningAt) > warningInterval {
		b.warningsSent++
		b.lastWarningAt = now
		rl.warn(o.chatID, b.warningsSent)
	}
	return false
}

// warn escalates the reply each time the user keeps pushing past the limit.
func (rl *RateLimiterMiddleware) warn(chatID int64, warningCount int) {
	text := render.ErrRateLimitedStop
	switch warningCount {
	case 1:
		text = render.ErrRateLimited
	case 2:
		text = render.ErrRateLimitedAgain
	}

	if _, err := rl.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		rl.logger.Error("failed to send rate limit warning",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
		)
	}
}
