package controllers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"
)

const (
	rateLimiterSize = 1000
	rateLimiterTTL  = 5 * time.Minute
)

var (
	errMissingSignature = errors.New("missing signature")
	errInvalidSignature = errors.New("signature verification failed")
)

// verifySignature checks the hex HMAC-SHA256 Gitea sends in X-Gitea-Signature.
// Without a configured secret every payload is accepted.
func verifySignature(secret string, payload []byte, signature string) error {
	if secret == "" {
		return nil
	}
	if signature == "" {
		return errMissingSignature
	}
	expected, err := hex.DecodeString(signature)
	if err != nil {
		return errInvalidSignature
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	if !hmac.Equal(expected, mac.Sum(nil)) {
		return errInvalidSignature
	}
	return nil
}

// rateLimiter keeps one token bucket per client, forgetting idle clients.
type rateLimiter struct {
	limiters *expirable.LRU[string, *rate.Limiter]
	rate     rate.Limit
	burst    int
}

func newRateLimiter(requestsPerMin int) *rateLimiter {
	return &rateLimiter{
		limiters: expirable.NewLRU[string, *rate.Limiter](rateLimiterSize, nil, rateLimiterTTL),
		rate:     rate.Limit(float64(requestsPerMin) / 60.0),
		burst:    max(1, requestsPerMin/10),
	}
}

func (rl *rateLimiter) Allow(key string) bool {
	limiter, ok := rl.limiters.Get(key)
	if !ok {
		limiter = rate.NewLimiter(rl.rate, rl.burst)
		rl.limiters.Add(key, limiter)
	}
	return limiter.Allow()
}

// clientAddress relies on middleware.RealIP having rewritten RemoteAddr.
func clientAddress(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
