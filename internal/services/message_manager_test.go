package services

import (
	"context"
	"errors"
	"testing"

	"github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

type fakeSender struct {
	sent      []*bot.SendMessageParams
	answered  []string
	failSends int
}

func (f *fakeSender) SendMessage(ctx context.Context, params *bot.SendMessageParams) (*tgmodels.Message, error) {
	if f.failSends > 0 {
		f.failSends--
		return nil, errors.New("telegram unavailable")
	}
	f.sent = append(f.sent, params)
	return &tgmodels.Message{ID: len(f.sent)}, nil
}

func (f *fakeSender) AnswerCallbackQuery(ctx context.Context, params *bot.AnswerCallbackQueryParams) (bool, error) {
	f.answered = append(f.answered, params.CallbackQueryID)
	return true, nil
}

func TestSendWithRetrySucceedsAfterFailure(t *testing.T) {
	sender := &fakeSender{failSends: 1}
	mgr := NewMessageManager(sender, zap.NewNop())

	msg, err := mgr.SendWithRetry(context.Background(), &bot.SendMessageParams{ChatID: int64(1), Text: "hi"})
	if err != nil {
		t.Fatalf("Expected retry to succeed, got %v", err)
	}
	if msg == nil {
		t.Fatal("Expected a message")
	}
	if len(sender.sent) != 1 {
		t.Errorf("Expected 1 delivered message, got %d", len(sender.sent))
	}
}

func TestSendWithRetryGivesUp(t *testing.T) {
	sender := &fakeSender{failSends: 5}
	mgr := NewMessageManager(sender, zap.NewNop())

	_, err := mgr.SendWithRetry(context.Background(), &bot.SendMessageParams{ChatID: int64(1), Text: "hi"})
	if err == nil {
		t.Fatal("Expected error after exhausting retries")
	}
	if len(sender.sent) != 0 {
		t.Errorf("Expected no delivered messages, got %d", len(sender.sent))
	}
}

func TestSendModeMenuKeyboard(t *testing.T) {
	sender := &fakeSender{}
	mgr := NewMessageManager(sender, zap.NewNop())

	mgr.SendModeMenu(context.Background(), 42)

	if len(sender.sent) != 1 {
		t.Fatalf("Expected 1 message, got %d", len(sender.sent))
	}
	params := sender.sent[0]
	keyboard, ok := params.ReplyMarkup.(*tgmodels.InlineKeyboardMarkup)
	if !ok {
		t.Fatalf("Expected inline keyboard, got %T", params.ReplyMarkup)
	}
	if len(keyboard.InlineKeyboard) != 2 {
		t.Fatalf("Expected 2 keyboard rows, got %d", len(keyboard.InlineKeyboard))
	}

	var payloads []string
	for _, row := range keyboard.InlineKeyboard {
		for _, btn := range row {
			payloads = append(payloads, btn.CallbackData)
		}
	}
	expected := []string{"mode_rating", "mode_tag", "mode_index", "mode_rating_tag"}
	if len(payloads) != len(expected) {
		t.Fatalf("Expected %d buttons, got %d", len(expected), len(payloads))
	}
	for i, want := range expected {
		if payloads[i] != want {
			t.Errorf("Button %d: expected payload %q, got %q", i, want, payloads[i])
		}
	}
}

func TestAnswerCallback(t *testing.T) {
	sender := &fakeSender{}
	mgr := NewMessageManager(sender, zap.NewNop())

	mgr.AnswerCallback(context.Background(), "cb-123")

	if len(sender.answered) != 1 || sender.answered[0] != "cb-123" {
		t.Errorf("Expected callback cb-123 answered, got %v", sender.answered)
	}
}
