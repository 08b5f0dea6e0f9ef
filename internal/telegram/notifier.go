package telegram

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/undff/lzt-donate/internal/lzt"
)

// Notifier mirrors each new payment to the operator's Telegram chat. It
// is a plain observer: delivery failures are logged and never affect the
// monitoring loop or the DonationAlerts dispatch.
type Notifier struct {
	bot    *bot.Bot
	chatID int64
	log    *slog.Logger
}

// New creates a notifier for the given bot token and chat.
func New(token string, chatID int64, log *slog.Logger) (*Notifier, error) {
	b, err := bot.New(token)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}

	return &Notifier{bot: b, chatID: chatID, log: log}, nil
}

// NotifyPayment sends a message describing the payment.
func (n *Notifier) NotifyPayment(ctx context.Context, p lzt.Payment) {
	disablePreview := true
	_, err := n.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    n.chatID,
		Text:      formatPayment(p),
		ParseMode: models.ParseModeHTML,
		LinkPreviewOptions: &models.LinkPreviewOptions{
			IsDisabled: &disablePreview,
		},
	})
	if err != nil {
		n.log.Error("send telegram notification", "payment_id", p.ID, "error", err)
	}
}

func formatPayment(p lzt.Payment) string {
	// Username and comment are donor-supplied and must not break the
	// HTML parse mode.
	lines := []string{
		"<b>💸 Новый донат</b>",
		"",
		fmt.Sprintf("+%s RUB от <b>%s</b>", p.Amount, html.EscapeString(p.Username)),
	}

	if p.Comment != "" {
		lines = append(lines, "", fmt.Sprintf("💬 <code>%s</code>", html.EscapeString(p.Comment)))
	}

	return strings.Join(lines, "\n")
}
