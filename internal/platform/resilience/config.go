package resilience

import "time"

// CircuitBreakerConfig holds breaker tuning. Zero values fall back to the
// defaults, except Enabled.
type CircuitBreakerConfig struct {
	Enabled bool
	// FailureThreshold is the run of consecutive failures that opens the circuit.
	FailureThreshold int           `validate:"gte=0"`
	OpenTimeout      time.Duration `validate:"gte=0"`
	// HalfOpenMaxReq probes must succeed before the circuit closes again.
	HalfOpenMaxReq int `validate:"gte=0"`
}

const (
	defaultFailureThreshold = 8
	defaultOpenTimeout      = 30 * time.Second
	defaultHalfOpenMaxReq   = 2
)

func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: defaultFailureThreshold,
		OpenTimeout:      defaultOpenTimeout,
		HalfOpenMaxReq:   defaultHalfOpenMaxReq,
	}
}

func (c CircuitBreakerConfig) withDefaults() CircuitBreakerConfig {
	if c.FailureThreshold < 1 {
		c.FailureThreshold = defaultFailureThreshold
	}
	if c.OpenTimeout <= 0 {
		c.OpenTimeout = defaultOpenTimeout
	}
	if c.HalfOpenMaxReq < 1 {
		c.HalfOpenMaxReq = defaultHalfOpenMaxReq
	}
	return c
}
