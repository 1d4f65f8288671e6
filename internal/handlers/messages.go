package handlers

import (
	"fmt"
	"strings"

	"joingate/internal/captcha"
	"joingate/internal/models"
	"joingate/internal/services"
)

// Тексты для пользователя. Сообщество подставляется как @username.

func msgWelcome(community string) string {
	return fmt.Sprintf("Hi! Glad to see that you want to join @%s! Let me make sure that you are human. "+
		"Which emojis do you see? Please use the buttons below!", community)
}

func msgHelpPreRequest(community string) string {
	return fmt.Sprintf("This bot protects the chat @%s. You did not request to join it, "+
		"so this bot does nothing for you right now.", community)
}

func msgHelpPostRequest(community string) string {
	return fmt.Sprintf(`You have requested to join @%s. We are happy to welcome you to the chat as soon as you have confirmed that you are human.

You can do this by sending me the three values that you see in the slot machine above. Simply tap three of the buttons beneath this message in the order that you see them.

Tapped the wrong one? Use %s to remove the last symbol. Cannot read the slot machine? Tap %s for a new one.`,
		community, services.ButtonBackspace, services.ButtonRetry)
}

func msgBlocked(community string, status models.MemberStatus) string {
	switch status {
	case models.MemberStatusAdmin:
		return fmt.Sprintf("You are admin in @%s already!", community)
	case models.MemberStatusBanned:
		return fmt.Sprintf("You were banned from @%s already!", community)
	default:
		return fmt.Sprintf("You are a member of @%s already!", community)
	}
}

func msgRequestFirstEmoji(community string) string {
	return fmt.Sprintf("Please request to join @%s before sending any emoji to me.", community)
}

func msgRequestFirst(community string) string {
	return fmt.Sprintf("Please request to join @%s before messaging me.", community)
}

// msgRetryTooLate объясняет лишний кубик: запрос закрыли, пока он крутился.
func msgRetryTooLate(community string) string {
	return fmt.Sprintf("Ignore that slot machine: your request to join @%s was already resolved. You can request to join again at any time.", community)
}

func msgCorrect(community string) string {
	return fmt.Sprintf("Correct! Welcome to @%s!", community)
}

const (
	msgIncorrect  = "Incorrect. Are you sure that you are human? Please try again."
	msgUseButtons = "Please use one of the provided buttons"
	msgNewDice    = "Here is a new slot machine. Send me the three values you see."
	msgNoInput    = "Nothing entered yet. Tap the three values you see in the slot machine."
)

func msgTimedOut(community string) string {
	return fmt.Sprintf("Time is up, your request to join @%s was declined. You can request to join again at any time.", community)
}

func msgProgress(pending []int) string {
	if len(pending) == 0 {
		return msgNoInput
	}
	return "Current input: " + strings.Join(captcha.Labels(pending), " ")
}
