// Package retry maps env settings onto avast/retry-go options.
package retry

import (
	"time"

	"github.com/avast/retry-go/v4"
)

// RetryConfig is read with an envPrefix such as RAG_RETRY_. One attempt
// means no retry.
type RetryConfig struct {
	Attempts uint          `env:"ATTEMPTS" envDefault:"1"`
	Delay    time.Duration `env:"DELAY" envDefault:"200ms"`
	MaxDelay time.Duration `env:"MAX_DELAY" envDefault:"2s"`
}

// ToRetryOptions yields exponential backoff with jitter, capped at MaxDelay.
// A zero Attempts is treated as one.
func (rc *RetryConfig) ToRetryOptions() []retry.Option {
	return []retry.Option{
		retry.Attempts(max(rc.Attempts, 1)),
		retry.Delay(rc.Delay),
		retry.MaxDelay(rc.MaxDelay),
		retry.DelayType(retry.CombineDelay(retry.BackOffDelay, retry.RandomDelay)),
		retry.MaxJitter(rc.Delay),
	}
}

func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		Attempts: 1,
		Delay:    200 * time.Millisecond,
		MaxDelay: 2 * time.Second,
	}
}
