package services

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"joingate/internal/captcha"
)

// Кнопки под строкой ввода, помимо символов алфавита.
const (
	ButtonBackspace = "⌫"
	ButtonRetry     = "🔄 New dice"
)

// Keyboard: какую клавиатуру прикрепить к сообщению.
type Keyboard int

const (
	KeyboardKeep Keyboard = iota
	KeyboardCaptcha
	KeyboardRemove
)

func captchaKeyboard() tgbotapi.ReplyKeyboardMarkup {
	symbols := make([]tgbotapi.KeyboardButton, 0, len(captcha.Alphabet))
	for _, s := range captcha.Alphabet {
		symbols = append(symbols, tgbotapi.NewKeyboardButton(s))
	}
	kb := tgbotapi.NewReplyKeyboard(
		symbols,
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(ButtonBackspace),
			tgbotapi.NewKeyboardButton(ButtonRetry),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

func (k Keyboard) markup() any {
	switch k {
	case KeyboardCaptcha:
		return captchaKeyboard()
	case KeyboardRemove:
		return tgbotapi.NewRemoveKeyboard(false)
	default:
		return nil
	}
}
