// Package notify delivers computed summaries to a Telegram chat.
package notify

import (
	"context"
	"fmt"
	"html"
	"path/filepath"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"profitdash/internal/profit"
	"profitdash/internal/report"
)

// Sender is the part of the bot API the notifier uses.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Telegram struct {
	bot    Sender
	chatID int64
	logger *zap.Logger
}

// NewTelegram authorizes the bot token and returns a notifier for chatID.
func NewTelegram(token string, chatID int64, logger *zap.Logger) (*Telegram, error) {
	botAPI, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %w", err)
	}

	logger.Info("Bot authorized",
		zap.String("username", botAPI.Self.UserName),
		zap.Int64("id", botAPI.Self.ID))

	return NewWithSender(botAPI, chatID, logger), nil
}

func NewWithSender(bot Sender, chatID int64, logger *zap.Logger) *Telegram {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Telegram{bot: bot, chatID: chatID, logger: logger}
}

// SendSummary posts the text summary of r.
func (t *Telegram) SendSummary(ctx context.Context, r *profit.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if t.chatID == 0 {
		t.logger.Warn("Telegram notifications disabled - no chat ID configured")
		return nil
	}

	msg := tgbotapi.NewMessage(t.chatID, "<pre>"+html.EscapeString(report.FormatSummary(r))+"</pre>")
	msg.ParseMode = tgbotapi.ModeHTML

	if _, err := t.bot.Send(msg); err != nil {
		t.logger.Error("Failed to send summary",
			zap.Int64("chat_id", t.chatID),
			zap.String("product_line", r.Line),
			zap.Error(err))
		return fmt.Errorf("notify.SendSummary: %w", err)
	}
	return nil
}

// SendFile uploads an export (workbook or TSV) with a caption.
func (t *Telegram) SendFile(ctx context.Context, path, caption string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if t.chatID == 0 {
		return nil
	}

	doc := tgbotapi.NewDocument(t.chatID, tgbotapi.FilePath(path))
	doc.Caption = caption

	if _, err := t.bot.Send(doc); err != nil {
		t.logger.Error("Failed to send file",
			zap.String("file", filepath.Base(path)),
			zap.Error(err))
		return fmt.Errorf("notify.SendFile: %w", err)
	}
	return nil
}
