package api

import (
	"time"

	"github.com/crateapp/crate-server/internal/ratelimit"
)

// RateLimiter wraps KeyedRateLimiter for API use.
type RateLimiter = ratelimit.KeyedRateLimiter

// NewRateLimiter creates a rate limiter from a per-interval allowance.
// For example 20 per minute becomes 0.333 requests per second.
func NewRateLimiter(ratePerInterval int, interval time.Duration, burst int) *RateLimiter {
	rps := float64(ratePerInterval) / interval.Seconds()
	return ratelimit.New(rps, burst)
}

// clientIP picks the rate limit key for a request: the forwarded client IP
// when present, the direct peer otherwise.
func clientIP(xForwardedFor, xRealIP, remoteAddr string) string {
	if xForwardedFor != "" {
		// First IP in the chain is the client.
		for i := 0; i < len(xForwardedFor); i++ {
			if xForwardedFor[i] == ',' {
				return xForwardedFor[:i]
			}
		}
		return xForwardedFor
	}
	if xRealIP != "" {
		return xRealIP
	}
	// Strip the port from host:port.
	for i := len(remoteAddr) - 1; i >= 0; i-- {
		if remoteAddr[i] == ':' {
			return remoteAddr[:i]
		}
	}
	return remoteAddr
}
