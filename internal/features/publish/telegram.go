// Package publish delivers rendered chart previews to a Telegram chat.
package publish

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"polo-charts/internal/config"
	"polo-charts/internal/infra/log"
	"polo-charts/internal/infra/retry"
)

// Sender is the part of tgbotapi.BotAPI the publisher needs.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Publisher sends photos to one chat, rate limited and guarded by a circuit
// breaker. Transient Telegram errors are retried.
type Publisher struct {
	sender  Sender
	chatID  int64
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
	retry   retry.Options
}

// New wraps sender with the limits from cfg.
func New(sender Sender, cfg config.TelegramConfig) *Publisher {
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}
	limit := rate.Limit(cfg.RatePerSecond)
	if cfg.RatePerSecond <= 0 {
		limit = rate.Inf
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "TelegramAPI",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.LogWarn("Circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})

	return &Publisher{
		sender:  sender,
		chatID:  cfg.ChatID,
		limiter: rate.NewLimiter(limit, burst),
		breaker: breaker,
		retry: retry.Options{
			MaxRetries: cfg.MaxRetries,
			BaseDelay:  500 * time.Millisecond,
			MaxDelay:   30 * time.Second,
		},
	}
}

// NewBot connects to the Bot API with the token from cfg.
func NewBot(cfg config.TelegramConfig) (*Publisher, error) {
	timeout := time.Duration(cfg.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	bot, err := tgbotapi.NewBotAPIWithClient(cfg.BotToken, tgbotapi.APIEndpoint, &http.Client{Timeout: timeout})
	if err != nil {
		return nil, fmt.Errorf("failed to connect telegram bot: %w", err)
	}
	log.LogDebug("Telegram bot connected", zap.String("bot", bot.Self.UserName))
	return New(bot, cfg), nil
}

// SendChart uploads a PNG with caption.
func (p *Publisher) SendChart(ctx context.Context, name string, png []byte, caption string) error {
	if len(png) == 0 {
		return fmt.Errorf("chart %s is empty", name)
	}

	requestID := log.GenerateRequestID()
	target := fmt.Sprintf("chat:%d", p.chatID)
	start := time.Now()

	opts := p.retry
	opts.OnRetry = func(attempt int, err error, sleep time.Duration) {
		log.RequestLogger(requestID).Warn("Retrying delivery",
			zap.Int("attempt", attempt+1),
			zap.Duration("sleep", sleep),
			zap.Error(err))
	}

	err := retry.Do(ctx, opts, func() error {
		if err := p.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter wait failed: %w", err)
		}
		_, err := p.breaker.Execute(func() (interface{}, error) {
			photo := tgbotapi.NewPhoto(p.chatID, tgbotapi.FileBytes{Name: name + ".png", Bytes: png})
			photo.Caption = caption
			return p.sender.Send(photo)
		})
		return classify(err)
	})

	log.LogDelivery(requestID, target, err, time.Since(start).Milliseconds(), zap.String("chart", name))
	if err != nil {
		return fmt.Errorf("failed to send %s: %w", name, err)
	}
	return nil
}

// SendChartFile reads a rendered PNG from disk and sends it.
func (p *Publisher) SendChartFile(ctx context.Context, path, caption string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read chart: %w", err)
	}
	name := filepath.Base(path)
	name = name[:len(name)-len(filepath.Ext(name))]
	return p.SendChart(ctx, name, data, caption)
}

// classify turns Bot API errors into retry.StatusError so 429 and 5xx are retried.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) {
		return statusError(*apiErr)
	}
	var apiVal tgbotapi.Error
	if errors.As(err, &apiVal) {
		return statusError(apiVal)
	}
	return err
}

func statusError(e tgbotapi.Error) error {
	return &retry.StatusError{
		StatusCode: e.Code,
		Message:    e.Message,
		RetryAfter: time.Duration(e.RetryAfter) * time.Second,
	}
}
