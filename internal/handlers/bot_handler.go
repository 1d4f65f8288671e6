package handlers

import (
	"context"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"joingate/internal/captcha"
	"joingate/internal/logger"
	"joingate/internal/models"
	"joingate/internal/services"
)

// BotHandler turns Telegram updates into verification events for one community.
type BotHandler struct {
	Community string
	Verify    *services.VerificationService
	Guard     *services.MembershipGuard
	Chat      services.Messenger
	log       *slog.Logger
}

func NewBotHandler(
	community string,
	verify *services.VerificationService,
	guard *services.MembershipGuard,
	chat services.Messenger,
	log *slog.Logger,
) *BotHandler {
	return &BotHandler{
		Community: strings.TrimPrefix(community, "@"),
		Verify:    verify,
		Guard:     guard,
		Chat:      chat,
		log:       log,
	}
}

// Pipeline returns the stages in dispatch order.
func (h *BotHandler) Pipeline() *Pipeline {
	return NewPipeline(
		Stage{Name: "leave-foreign-groups", Match: h.isForeignGroup, Handle: h.leaveForeignGroup},
		Stage{Name: "join-request", Match: isJoinRequest, Handle: h.joinRequest},
		Stage{Name: "help", Match: isCommand("help", "start"), Handle: h.help},
		Stage{Name: "membership-guard", Match: isPrivateMessage, Handle: h.membershipGuard},
		Stage{Name: "retry", Match: or(isCommand("retry"), isText(services.ButtonRetry)), Handle: h.retry},
		Stage{Name: "backspace", Match: isText(services.ButtonBackspace), Handle: h.backspace},
		Stage{Name: "symbol", Match: isSymbol, Handle: h.symbol},
		Stage{Name: "fallback", Match: isPrivateMessage, Handle: h.fallback},
	)
}

func (h *BotHandler) owner(userID int64) models.OwnerID {
	return models.OwnerID{Community: h.Community, UserID: userID}
}

// reply отправляет сообщение; ошибка доставки только логируется.
func (h *BotHandler) reply(ctx context.Context, chatID int64, text string, kb services.Keyboard) {
	if err := h.Chat.SendText(ctx, chatID, text, kb); err != nil {
		h.log.ErrorContext(ctx, "send message", "chat_id", chatID, "error", err)
	}
}

// ---- predicates

// isPrivateMessage matches text messages in a private chat. Stickers, photos
// and other media carry no text and are ignored.
func isPrivateMessage(u *tgbotapi.Update) bool {
	m := u.Message
	return m != nil && m.Chat != nil && m.Chat.IsPrivate() && m.From != nil && m.Text != ""
}

func isJoinRequest(u *tgbotapi.Update) bool {
	return u.ChatJoinRequest != nil
}

func isCommand(names ...string) func(*tgbotapi.Update) bool {
	return func(u *tgbotapi.Update) bool {
		if !isPrivateMessage(u) || !u.Message.IsCommand() {
			return false
		}
		cmd := u.Message.Command()
		for _, n := range names {
			if cmd == n {
				return true
			}
		}
		return false
	}
}

func isText(text string) func(*tgbotapi.Update) bool {
	return func(u *tgbotapi.Update) bool {
		return isPrivateMessage(u) && strings.TrimSpace(u.Message.Text) == text
	}
}

func isSymbol(u *tgbotapi.Update) bool {
	if !isPrivateMessage(u) {
		return false
	}
	_, ok := captcha.SymbolIndex(strings.TrimSpace(u.Message.Text))
	return ok
}

func or(preds ...func(*tgbotapi.Update) bool) func(*tgbotapi.Update) bool {
	return func(u *tgbotapi.Update) bool {
		for _, p := range preds {
			if p(u) {
				return true
			}
		}
		return false
	}
}

func (h *BotHandler) isForeignGroup(u *tgbotapi.Update) bool {
	m := u.MyChatMember
	if m == nil {
		return false
	}
	if !m.Chat.IsGroup() && !m.Chat.IsSuperGroup() && !m.Chat.IsChannel() {
		return false
	}
	// из чатов, где бота уже нет, выходить не нужно
	switch m.NewChatMember.Status {
	case "left", "kicked":
		return false
	}
	return !strings.EqualFold(m.Chat.UserName, h.Community)
}

// ---- stages

func (h *BotHandler) leaveForeignGroup(ctx context.Context, u *tgbotapi.Update) (Verdict, error) {
	chat := u.MyChatMember.Chat
	h.log.InfoContext(ctx, "leaving foreign chat", "chat_id", chat.ID, "chat", chat.UserName)
	if err := h.Chat.LeaveChat(ctx, chat.ID); err != nil {
		h.log.ErrorContext(ctx, "leave chat", "chat_id", chat.ID, "error", err)
	}
	return Stop, nil
}

func (h *BotHandler) joinRequest(ctx context.Context, u *tgbotapi.Update) (Verdict, error) {
	req := u.ChatJoinRequest
	if !strings.EqualFold(req.Chat.UserName, h.Community) {
		h.log.DebugContext(ctx, "join request for another chat", "chat", req.Chat.UserName)
		return Stop, nil
	}

	owner := h.owner(req.From.ID)
	ctx = logger.WithOwner(ctx, owner)
	h.reply(ctx, req.From.ID, msgWelcome(h.Community), services.KeyboardCaptcha)

	res, err := h.Verify.IssueChallenge(ctx, owner)
	if err != nil {
		return Stop, err
	}
	if res.State == services.StateBlocked {
		h.reply(ctx, req.From.ID, msgBlocked(h.Community, res.Status), services.KeyboardRemove)
	}
	return Stop, nil
}

func (h *BotHandler) help(ctx context.Context, u *tgbotapi.Update) (Verdict, error) {
	chatID := u.Message.Chat.ID
	res, err := h.Verify.State(ctx, h.owner(u.Message.From.ID))
	if err != nil {
		return Stop, err
	}
	if res.State == services.StateNoChallenge {
		h.reply(ctx, chatID, msgHelpPreRequest(h.Community), services.KeyboardKeep)
		return Stop, nil
	}
	h.reply(ctx, chatID, msgHelpPostRequest(h.Community), services.KeyboardCaptcha)
	return Stop, nil
}

func (h *BotHandler) membershipGuard(ctx context.Context, u *tgbotapi.Update) (Verdict, error) {
	owner := h.owner(u.Message.From.ID)
	access, err := h.Guard.CheckAccess(logger.WithOwner(ctx, owner), owner)
	if err != nil {
		return Stop, err
	}
	if !access.Proceed {
		h.reply(ctx, u.Message.Chat.ID, msgBlocked(h.Community, access.Status), services.KeyboardRemove)
		return Stop, nil
	}
	return Continue, nil
}

func (h *BotHandler) retry(ctx context.Context, u *tgbotapi.Update) (Verdict, error) {
	chatID := u.Message.Chat.ID
	res, err := h.Verify.RetryChallenge(ctx, h.owner(u.Message.From.ID))
	if err != nil {
		return Stop, err
	}
	switch {
	case res.State == services.StateNoChallenge && res.Code != 0:
		h.reply(ctx, chatID, msgRetryTooLate(h.Community), services.KeyboardRemove)
		return Stop, nil
	case res.State == services.StateNoChallenge:
		h.reply(ctx, chatID, msgRequestFirst(h.Community), services.KeyboardRemove)
		return Stop, nil
	}
	h.reply(ctx, chatID, msgNewDice, services.KeyboardCaptcha)
	return Stop, nil
}

func (h *BotHandler) backspace(ctx context.Context, u *tgbotapi.Update) (Verdict, error) {
	chatID := u.Message.Chat.ID
	res, err := h.Verify.Backspace(ctx, h.owner(u.Message.From.ID))
	if err != nil {
		return Stop, err
	}
	if res.State == services.StateNoChallenge {
		h.reply(ctx, chatID, msgRequestFirst(h.Community), services.KeyboardRemove)
		return Stop, nil
	}
	h.reply(ctx, chatID, msgProgress(res.Pending), services.KeyboardKeep)
	return Stop, nil
}

func (h *BotHandler) symbol(ctx context.Context, u *tgbotapi.Update) (Verdict, error) {
	chatID := u.Message.Chat.ID
	symbol, _ := captcha.SymbolIndex(strings.TrimSpace(u.Message.Text))

	res, err := h.Verify.Input(ctx, h.owner(u.Message.From.ID), symbol)
	if err != nil {
		return Stop, err
	}
	switch {
	case res.State == services.StateNoChallenge:
		h.reply(ctx, chatID, msgRequestFirstEmoji(h.Community), services.KeyboardRemove)
	case res.State == services.StateVerified:
		h.reply(ctx, chatID, msgCorrect(h.Community), services.KeyboardRemove)
	case res.Mismatch:
		h.reply(ctx, chatID, msgIncorrect, services.KeyboardCaptcha)
	default:
		h.reply(ctx, chatID, msgProgress(res.Pending), services.KeyboardKeep)
	}
	return Stop, nil
}

func (h *BotHandler) fallback(ctx context.Context, u *tgbotapi.Update) (Verdict, error) {
	chatID := u.Message.Chat.ID
	res, err := h.Verify.State(ctx, h.owner(u.Message.From.ID))
	if err != nil {
		return Stop, err
	}
	if res.State == services.StateNoChallenge {
		h.reply(ctx, chatID, msgRequestFirst(h.Community), services.KeyboardKeep)
		return Stop, nil
	}
	h.reply(ctx, chatID, msgUseButtons, services.KeyboardCaptcha)
	return Stop, nil
}

// HandleTimeout is the scheduler callback: it runs the timeout event and tells
// the requester when the request was declined.
func (h *BotHandler) HandleTimeout(ctx context.Context, payload models.TimeoutPayload) error {
	res, err := h.Verify.HandleTimeout(ctx, payload)
	if err != nil {
		return err
	}
	if res.State == services.StateExpired {
		h.reply(logger.WithOwner(ctx, payload.Owner), payload.Owner.UserID, msgTimedOut(h.Community), services.KeyboardRemove)
	}
	return nil
}
