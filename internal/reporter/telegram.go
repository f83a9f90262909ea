package reporter

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"go-jobharvest-automation/internal/config"
	"go-jobharvest-automation/internal/models"
)

// TelegramReporter pushes run summaries to the operator. Reporting is best
// effort: a send failure never fails the run that produced it.
type TelegramReporter struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegramReporter(cfg *config.Config) (*TelegramReporter, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram bot: %w", err)
	}

	return &TelegramReporter{
		bot:    bot,
		chatID: cfg.TelegramChatID,
	}, nil
}

func (t *TelegramReporter) SendMessage(text string) error {
	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = "HTML"
	_, err := t.bot.Send(msg)
	return err
}

func (t *TelegramReporter) SendRunSummary(result models.RunResult) error {
	icon := "✅"
	if !result.Success {
		icon = "⚠️"
	}
	text := fmt.Sprintf(
		"%s <b>%s run finished</b>\n"+
			"🔎 Found: %d\n"+
			"💾 Saved: %d\n"+
			"⏱ %.1fs\n"+
			"%s",
		icon, result.ScraperName,
		result.JobsFound,
		result.JobsSaved,
		result.DurationSeconds,
		result.Message,
	)
	return t.SendMessage(text)
}

func (t *TelegramReporter) SendError(errReq error) error {
	text := fmt.Sprintf("⚠️ <b>JobHarvest Error</b>:\n%v", errReq)
	return t.SendMessage(text)
}
