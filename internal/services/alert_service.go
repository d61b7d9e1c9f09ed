package services

import (
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramAlerter pushes security and ops alerts into a Telegram chat.
// With no token configured it degrades to log-only, so development setups
// need no bot.
type TelegramAlerter struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegramAlerter(botToken string, chatID int64) *TelegramAlerter {
	a := &TelegramAlerter{chatID: chatID}
	if botToken == "" || chatID == 0 {
		return a
	}
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		log.Printf("[alert][init] telegram unavailable: %v", err)
		return a
	}
	a.bot = bot
	return a
}

func (a *TelegramAlerter) SecurityAlert(text string) {
	log.Printf("[alert][security] %s", text)
	if a.bot == nil {
		return
	}
	msg := tgbotapi.NewMessage(a.chatID, "⚠️ "+text)
	if _, err := a.bot.Send(msg); err != nil {
		log.Printf("[alert][security] telegram send failed: %v", err)
	}
}
