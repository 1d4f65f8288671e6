package handlers

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v5"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// RetryingDispatcher повторяет обработку апдейта с экспоненциальной паузой.
// В режиме long polling это заменяет повторную доставку, которую в режиме
// вебхука делает Telegram после ответа 500.
type RetryingDispatcher struct {
	Next            Dispatcher
	MaxTries        uint
	InitialInterval time.Duration

	log *slog.Logger
}

func NewRetryingDispatcher(next Dispatcher, log *slog.Logger) *RetryingDispatcher {
	return &RetryingDispatcher{
		Next:            next,
		MaxTries:        5,
		InitialInterval: time.Second,
		log:             log,
	}
}

func (d *RetryingDispatcher) Dispatch(ctx context.Context, u *tgbotapi.Update) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = d.InitialInterval

	attempt := 0
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		attempt++
		err := d.Next.Dispatch(ctx, u)
		if err != nil && ctx.Err() == nil {
			d.log.WarnContext(ctx, "dispatch failed, will retry",
				"update_id", u.UpdateID, "attempt", attempt, "error", err)
		}
		return struct{}{}, err
	}, backoff.WithBackOff(b), backoff.WithMaxTries(d.MaxTries))
	return err
}
