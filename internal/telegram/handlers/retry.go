package handlers

import (
	"context"
	"time"

	"github.com/futig/behavior-profile/internal/pkg/retry"
	"go.uber.org/zap"
)

const (
	maxSendRetries    = 3
	criticalRetryBase = 500 * time.Millisecond
	criticalRetryMax  = 2 * time.Second
)

// sendMessageWithRetry sends a message, retrying failed attempts with backoff
func sendMessageWithRetry(
	ctx context.Context,
	sender *MessageSender,
	chatID int64,
	text string,
	markup interface{},
	rc *retry.RetryConfig,
	logger *zap.Logger,
) (int, error) {
	var (
		messageID int
		attempt   int
	)

	err := retry.Do(ctx, rc, func(error) bool { return true }, func() error {
		attempt++
		id, err := sender.Send(chatID, text, markup)
		if err != nil {
			logger.Warn("failed to send message, retrying",
				zap.Error(err),
				zap.Int("attempt", attempt),
				zap.Uint("max_retries", rc.Attempts),
				zap.Int64("chat_id", chatID),
			)
			return err
		}
		messageID = id
		return nil
	})
	if err != nil {
		logger.Error("failed to send message after all retries",
			zap.Error(err),
			zap.Uint("max_retries", rc.Attempts),
			zap.Int64("chat_id", chatID),
		)
		return 0, err
	}

	if attempt > 1 {
		logger.Info("message sent after retry",
			zap.Int("attempt", attempt),
			zap.Int64("chat_id", chatID),
		)
	}
	return messageID, nil
}

// sendCriticalMessage sends a message that must be delivered, such as the
// confirmation of a submission
func sendCriticalMessage(
	ctx context.Context,
	sender *MessageSender,
	chatID int64,
	text string,
	markup interface{},
	logger *zap.Logger,
) (int, error) {
	rc := &retry.RetryConfig{
		Attempts: maxSendRetries,
		Delay:    criticalRetryBase,
		MaxDelay: criticalRetryMax,
	}
	return sendMessageWithRetry(ctx, sender, chatID, text, markup, rc, logger)
}
