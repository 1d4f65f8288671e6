package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/hashicorp/go-retryablehttp"

	"joingate/internal/captcha"
	"joingate/internal/models"
)

// AllowedUpdates: типы апдейтов, которые получает бот.
var AllowedUpdates = []string{"message", "chat_join_request", "my_chat_member"}

type TelegramOptions struct {
	APIEndpoint string
	// RetryMax is the number of transport-level retries; 0 keeps every call single-shot.
	RetryMax int
	Timeout  time.Duration
}

// TelegramService is the chat platform: slot machine, join request
// approval, member lookup and plain messages.
type TelegramService struct {
	bot *tgbotapi.BotAPI
	log *slog.Logger
}

func NewTelegramService(token string, opts TelegramOptions, log *slog.Logger) (*TelegramService, error) {
	if token == "" {
		return nil, errors.New("telegram token is empty")
	}
	endpoint := opts.APIEndpoint
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		// больше, чем таймаут long polling
		timeout = 75 * time.Second
	}

	rc := retryablehttp.NewClient()
	rc.RetryMax = opts.RetryMax
	rc.Logger = log.With("component", "telegram-http")
	rc.HTTPClient.Timeout = timeout

	if err := tgbotapi.SetLogger(slog.NewLogLogger(log.Handler(), slog.LevelDebug)); err != nil {
		return nil, fmt.Errorf("telegram logger: %w", err)
	}
	bot, err := tgbotapi.NewBotAPIWithClient(token, endpoint, rc.StandardClient())
	if err != nil {
		return nil, fmt.Errorf("telegram getMe: %w", err)
	}
	log.Info("telegram bot authorized", "username", bot.Self.UserName)
	return &TelegramService{bot: bot, log: log}, nil
}

func communityChat(owner models.OwnerID) tgbotapi.ChatConfig {
	return tgbotapi.ChatConfig{SuperGroupUsername: "@" + owner.Community}
}

func (t *TelegramService) Roll(ctx context.Context, chatID int64) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	cfg := tgbotapi.NewDiceWithEmoji(chatID, captcha.SlotMachineEmoji)
	cfg.ReplyMarkup = captchaKeyboard()

	msg, err := t.bot.Send(cfg)
	if err != nil {
		return 0, fmt.Errorf("telegram sendDice: %w", err)
	}
	if msg.Dice == nil {
		return 0, errors.New("telegram sendDice: no dice in response")
	}
	return msg.Dice.Value, nil
}

func (t *TelegramService) SendText(ctx context.Context, chatID int64, text string, kb Keyboard) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m := tgbotapi.NewMessage(chatID, text)
	m.DisableWebPagePreview = true
	if markup := kb.markup(); markup != nil {
		m.ReplyMarkup = markup
	}
	if _, err := t.bot.Send(m); err != nil {
		return fmt.Errorf("telegram sendMessage: %w", err)
	}
	return nil
}

func (t *TelegramService) ApproveJoinRequest(ctx context.Context, owner models.OwnerID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := t.bot.Request(tgbotapi.ApproveChatJoinRequestConfig{
		ChatConfig: communityChat(owner),
		UserID:     owner.UserID,
	})
	if err != nil {
		return fmt.Errorf("telegram approveChatJoinRequest: %w", err)
	}
	return nil
}

func (t *TelegramService) DeclineJoinRequest(ctx context.Context, owner models.OwnerID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := t.bot.Request(tgbotapi.DeclineChatJoinRequest{
		ChatConfig: communityChat(owner),
		UserID:     owner.UserID,
	})
	if err != nil {
		return fmt.Errorf("telegram declineChatJoinRequest: %w", err)
	}
	return nil
}

func (t *TelegramService) MemberStatus(ctx context.Context, owner models.OwnerID) (models.MemberStatus, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	member, err := t.bot.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{
			SuperGroupUsername: "@" + owner.Community,
			UserID:             owner.UserID,
		},
	})
	if err != nil {
		return "", fmt.Errorf("telegram getChatMember: %w", err)
	}
	return models.MemberStatusFromTelegram(member.Status), nil
}

func (t *TelegramService) LeaveChat(ctx context.Context, chatID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := t.bot.Request(tgbotapi.LeaveChatConfig{ChatID: chatID}); err != nil {
		return fmt.Errorf("telegram leaveChat: %w", err)
	}
	return nil
}

// SetWebhook registers url with Telegram; updates will carry secret in the
// X-Telegram-Bot-Api-Secret-Token header.
func (t *TelegramService) SetWebhook(url, secret string) error {
	if url == "" {
		return errors.New("webhook url is empty")
	}
	params := tgbotapi.Params{"url": url}
	params.AddNonEmpty("secret_token", secret)
	if err := params.AddInterface("allowed_updates", AllowedUpdates); err != nil {
		return err
	}
	resp, err := t.bot.MakeRequest("setWebhook", params)
	if err != nil {
		return fmt.Errorf("telegram setWebhook: %w", err)
	}
	t.log.Info("telegram webhook set", "url", redactURL(url), "ok", resp.Ok)
	return nil
}

// Updates starts long polling; the webhook is removed first because Telegram
// refuses getUpdates while one is set.
func (t *TelegramService) Updates() (tgbotapi.UpdatesChannel, error) {
	if _, err := t.bot.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		return nil, fmt.Errorf("telegram deleteWebhook: %w", err)
	}
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	u.AllowedUpdates = AllowedUpdates
	return t.bot.GetUpdatesChan(u), nil
}

func (t *TelegramService) StopUpdates() {
	t.bot.StopReceivingUpdates()
}

func redactURL(u string) string {
	if i := strings.Index(u, "?"); i >= 0 {
		return u[:i]
	}
	return u
}
