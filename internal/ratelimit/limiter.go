// SPDX-License-Identifier: MIT

// Package ratelimit throttles incoming Telegram updates per chat.
package ratelimit

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/time/rate"
)

var rateLimitExceeded = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "polyansky",
		Name:      "ratelimit_exceeded_total",
		Help:      "Total rate limit rejections",
	},
	[]string{"limit_type"},
)

// Config holds rate limiting configuration.
type Config struct {
	// Global limits across all chats.
	GlobalRate  rate.Limit // updates per second
	GlobalBurst int

	// Per-chat limits.
	PerChatRate  rate.Limit
	PerChatBurst int

	// Cleanup interval for per-chat limiters.
	CleanupInterval time.Duration
}

// DefaultConfig returns defaults sized for a small-town bot.
func DefaultConfig() Config {
	return Config{
		GlobalRate:      30,
		GlobalBurst:     60,
		PerChatRate:     1,
		PerChatBurst:    5,
		CleanupInterval: 5 * time.Minute,
	}
}

// Limiter manages update rate limiting.
type Limiter struct {
	config Config

	global  *rate.Limiter
	perChat map[int64]*rate.Limiter
	mu      sync.Mutex

	lastCleanup time.Time
}

// New creates a rate limiter with the given config.
func New(config Config) *Limiter {
	return &Limiter{
		config:      config,
		global:      rate.NewLimiter(config.GlobalRate, config.GlobalBurst),
		perChat:     make(map[int64]*rate.Limiter),
		lastCleanup: time.Now(),
	}
}

// Allow reports whether an update from the given chat may be handled.
func (l *Limiter) Allow(chatID int64) bool {
	if !l.global.Allow() {
		rateLimitExceeded.WithLabelValues("global").Inc()
		return false
	}

	if !l.chatLimiter(chatID).Allow() {
		rateLimitExceeded.WithLabelValues("per_chat").Inc()
		return false
	}

	l.maybeCleanup()
	return true
}

func (l *Limiter) chatLimiter(chatID int64) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, exists := l.perChat[chatID]
	if !exists {
		limiter = rate.NewLimiter(l.config.PerChatRate, l.config.PerChatBurst)
		l.perChat[chatID] = limiter
	}
	return limiter
}

// maybeCleanup drops all per-chat limiters once the cleanup interval passed.
// Idle chats refill to full burst anyway, so wholesale reset is safe.
func (l *Limiter) maybeCleanup() {
	if time.Since(l.lastCleanup) < l.config.CleanupInterval {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.perChat = make(map[int64]*rate.Limiter)
	l.lastCleanup = time.Now()
}
