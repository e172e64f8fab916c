package infra

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
)

// CBState is the breaker state reported by the health check and read by the
// DLQ replay cron.
type CBState = gobreaker.State

const (
	CBClosed   = gobreaker.StateClosed
	CBHalfOpen = gobreaker.StateHalfOpen
	CBOpen     = gobreaker.StateOpen
)

// ErrCircuitOpen is returned by Execute while the breaker is open.
var ErrCircuitOpen = gobreaker.ErrOpenState

// CircuitBreakerConfig holds the SMTP breaker tuning.
type CircuitBreakerConfig struct {
	Name             string
	FailureThreshold int           // consecutive failures that open the breaker
	SuccessThreshold int           // consecutive half-open successes that close it
	OpenTimeout      time.Duration // time spent open before trial calls
}

// DefaultCBConfig returns the defaults used for the SMTP breaker.
func DefaultCBConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Name:             "smtp",
		FailureThreshold: 5,
		SuccessThreshold: 2,
		OpenTimeout:      30 * time.Second,
	}
}

// CircuitBreaker guards calls to the SMTP relay so a dead relay fails fast
// instead of tying up report-email workers on connect timeouts.
type CircuitBreaker struct {
	cb *gobreaker.CircuitBreaker
}

func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.SuccessThreshold <= 0 {
		cfg.SuccessThreshold = 2
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 60 * time.Second
	}
	if cfg.Name == "" {
		cfg.Name = "smtp"
	}

	failures := uint32(cfg.FailureThreshold)
	return &CircuitBreaker{cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name: cfg.Name,
		// Half-open admits this many trial calls and closes once they all succeed.
		MaxRequests: uint32(cfg.SuccessThreshold),
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state changed")
		},
	})}
}

// State moves an open breaker to half-open once its timeout has passed.
func (b *CircuitBreaker) State() CBState { return b.cb.State() }

// Execute runs fn unless the breaker is open or its half-open trial calls are
// already in flight.
func (b *CircuitBreaker) Execute(fn func() error) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, fn()
	})
	return err
}
