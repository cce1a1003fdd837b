package services

import (
	"context"

	"github.com/ad/go-telegram-practice/internal/fsm"
	"github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// TelegramSender is the slice of the bot API the manager needs.
// *bot.Bot satisfies it; tests substitute a recording fake.
type TelegramSender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*tgmodels.Message, error)
	AnswerCallbackQuery(ctx context.Context, params *bot.AnswerCallbackQueryParams) (bool, error)
}

// MessageManager sends outbound messages with a short retry. Send
// failures are logged and swallowed so the conversation state machine
// never blocks on Telegram.
type MessageManager struct {
	sender   TelegramSender
	logger   *zap.Logger
	maxRetry int
}

func NewMessageManager(sender TelegramSender, logger *zap.Logger) *MessageManager {
	return &MessageManager{
		sender:   sender,
		logger:   logger,
		maxRetry: 2,
	}
}

func (m *MessageManager) SendWithRetry(ctx context.Context, params *bot.SendMessageParams) (*tgmodels.Message, error) {
	var lastErr error
	for attempt := 0; attempt < m.maxRetry; attempt++ {
		msg, err := m.sender.SendMessage(ctx, params)
		if err == nil {
			return msg, nil
		}
		lastErr = err
	}
	m.logger.Warn("failed to send message",
		zap.Any("chat_id", params.ChatID),
		zap.Error(lastErr))
	return nil, lastErr
}

func (m *MessageManager) SendText(ctx context.Context, chatID int64, text string) {
	_, _ = m.SendWithRetry(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
}

func (m *MessageManager) SendMarkdown(ctx context.Context, chatID int64, text string) {
	_, _ = m.SendWithRetry(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: tgmodels.ParseModeMarkdownV1,
	})
}

// SendModeMenu shows the four-way mode selection keyboard.
func (m *MessageManager) SendModeMenu(ctx context.Context, chatID int64) {
	keyboard := &tgmodels.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgmodels.InlineKeyboardButton{
			{
				{Text: "By Rating", CallbackData: fsm.ModeRating.CallbackData()},
				{Text: "By Tag", CallbackData: fsm.ModeTag.CallbackData()},
			},
			{
				{Text: "By Index (A/B/C)", CallbackData: fsm.ModeIndex.CallbackData()},
				{Text: "By Rating + Tag", CallbackData: fsm.ModeRatingTag.CallbackData()},
			},
		},
	}

	_, _ = m.SendWithRetry(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        "🎯 Choose your mode to fetch problems:",
		ReplyMarkup: keyboard,
	})
}

func (m *MessageManager) AnswerCallback(ctx context.Context, callbackID string) {
	_, err := m.sender.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
	})
	if err != nil {
		m.logger.Warn("failed to answer callback query", zap.Error(err))
	}
}
