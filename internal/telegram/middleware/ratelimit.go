package middleware

import (
	"strconv"
	"sync"
	"time"

	"github.com/futig/behavior-profile/internal/telegram/render"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const (
	inactiveUserTTL     = time.Hour
	limitCleanupPeriod  = 10 * time.Minute
	rateWarningInterval = 30 * time.Second
)

// userLimit tracks rate limit state for a single user
type userLimit struct {
	mu            sync.Mutex
	tokens        float64
	lastRefill    time.Time
	warningsSent  int
	lastWarningAt time.Time
}

// RateLimiterMiddleware implements token bucket rate limiting per user.
// Buckets of users idle for an hour are dropped.
type RateLimiterMiddleware struct {
	limits          *cache.Cache
	maxTokens       float64 // bucket capacity
	refillRate      float64 // tokens added per second
	warningInterval time.Duration
	now             func() time.Time
	logger          *zap.Logger
	api             Sender
}

// NewRateLimiterMiddleware creates a new rate limiter middleware. A user may
// send burstSize updates at once and requestsPerMinute on average.
func NewRateLimiterMiddleware(
	requestsPerMinute int,
	burstSize int,
	logger *zap.Logger,
	api Sender,
) *RateLimiterMiddleware {
	if burstSize <= 0 {
		burstSize = 1
	}
	return &RateLimiterMiddleware{
		limits:          cache.New(inactiveUserTTL, limitCleanupPeriod),
		maxTokens:       float64(burstSize),
		refillRate:      float64(requestsPerMinute) / 60.0,
		warningInterval: rateWarningInterval,
		now:             time.Now,
		logger:          logger,
		api:             api,
	}
}

// Handle processes the update through rate limiting
func (rl *RateLimiterMiddleware) Handle(update tgbotapi.Update, next func(tgbotapi.Update)) {
	userID, chatID, ok := updateIDs(update)
	if !ok {
		next(update)
		return
	}

	if !rl.allowRequest(userID, chatID) {
		rl.logger.Warn("rate limit exceeded",
			zap.Int64("user_id", userID),
			zap.Int64("chat_id", chatID),
		)
		return
	}

	next(update)
}

// allowRequest checks if request is allowed under rate limit
func (rl *RateLimiterMiddleware) allowRequest(userID, chatID int64) bool {
	limit := rl.bucket(userID)

	limit.mu.Lock()
	defer limit.mu.Unlock()

	now := rl.now()

	elapsed := now.Sub(limit.lastRefill).Seconds()
	limit.tokens = min(rl.maxTokens, limit.tokens+elapsed*rl.refillRate)
	limit.lastRefill = now

	if limit.tokens >= 1.0 {
		limit.tokens -= 1.0
		limit.warningsSent = 0
		return true
	}

	if now.Sub(limit.lastWarningAt) > rl.warningInterval {
		limit.warningsSent++
		limit.lastWarningAt = now

		rl.sendRateLimitWarning(chatID, limit.warningsSent)
	}

	return false
}

// bucket returns the user's bucket, creating a full one on first use, and
// extends its expiry
func (rl *RateLimiterMiddleware) bucket(userID int64) *userLimit {
	key := strconv.FormatInt(userID, 10)

	fresh := &userLimit{tokens: rl.maxTokens, lastRefill: rl.now()}
	if err := rl.limits.Add(key, fresh, cache.DefaultExpiration); err == nil {
		return fresh
	}

	v, ok := rl.limits.Get(key)
	if !ok {
		// expired between Add and Get
		rl.limits.SetDefault(key, fresh)
		return fresh
	}

	limit := v.(*userLimit)
	rl.limits.SetDefault(key, limit)
	return limit
}

// sendRateLimitWarning sends a warning message to the user
func (rl *RateLimiterMiddleware) sendRateLimitWarning(chatID int64, warningCount int) {
	var text string

	switch {
	case warningCount == 1:
		text = render.ErrRateLimited
	case warningCount == 2:
		text = "⚠️ Limite de solicitações excedido. Aguarde cerca de 30 segundos antes de tentar novamente."
	default:
		text = "🛑 Você está enviando solicitações com muita frequência. Aguarde um minuto."
	}

	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := rl.api.Send(msg); err != nil {
		rl.logger.Error("failed to send rate limit warning",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
		)
	}
}
