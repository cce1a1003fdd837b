package handlers

import (
	"context"
	"strconv"
	"strings"

	"github.com/ad/go-telegram-practice/internal/db"
	"github.com/ad/go-telegram-practice/internal/fsm"
	"github.com/ad/go-telegram-practice/internal/models"
	"github.com/ad/go-telegram-practice/internal/services"
	"github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

const historyLimit = 10

const (
	promptRating      = "Enter rating (e.g., 1200):"
	promptTag         = "Enter tag (e.g., dp, greedy, math):"
	promptIndex       = "Enter index letter (e.g., A, B, C):"
	promptComboRating = "Enter rating first (e.g., 1300):"
	promptComboTag    = "Now enter tag (e.g., dp, math, graphs):"
	promptCount       = "Enter number of problems (max 10):"

	replyBadRating  = "Please enter a valid rating."
	replyBadNumber  = "Please enter a valid number."
	replyBadTag     = "Please enter a tag."
	replyNoProblems = "❌ No problems found for your filters."
	replyNoHistory  = "No history yet."
	replyDone       = "✅ Done!"
	replyRedirect   = "Use /start to choose a mode again."
)

// BotHandler is the webhook-driven conversation controller. It
// dispatches each update on (event class, step, mode), mutates the
// durable per-chat state and drives the filter engine.
type BotHandler struct {
	stateRepo   *db.UserStateRepository
	historyRepo *db.HistoryRepository
	filter      *services.FilterEngine
	msgManager  *services.MessageManager
	logger      *zap.Logger
}

func NewBotHandler(
	stateRepo *db.UserStateRepository,
	historyRepo *db.HistoryRepository,
	filter *services.FilterEngine,
	msgManager *services.MessageManager,
	logger *zap.Logger,
) *BotHandler {
	return &BotHandler{
		stateRepo:   stateRepo,
		historyRepo: historyRepo,
		filter:      filter,
		msgManager:  msgManager,
		logger:      logger,
	}
}

func (h *BotHandler) HandleUpdate(ctx context.Context, b *bot.Bot, update *tgmodels.Update) {
	defer h.recoverPanic(update)

	if update.Message != nil {
		h.handleMessage(ctx, update.Message)
	} else if update.CallbackQuery != nil {
		h.handleCallback(ctx, update.CallbackQuery)
	}
}

func (h *BotHandler) recoverPanic(update *tgmodels.Update) {
	if r := recover(); r != nil {
		h.logger.Error("panic while handling update",
			zap.Any("panic", r),
			zap.Int64("update_id", update.ID))
	}
}

func (h *BotHandler) handleCallback(ctx context.Context, callback *tgmodels.CallbackQuery) {
	h.msgManager.AnswerCallback(ctx, callback.ID)

	chatID := callback.From.ID
	if callback.Message.Message != nil {
		chatID = callback.Message.Message.Chat.ID
	}

	mode, ok := fsm.ModeFromCallback(callback.Data)
	if !ok {
		// unknown payload, fall back to the mode menu
		h.startFlow(ctx, chatID)
		return
	}

	state, err := h.stateRepo.Get(chatID)
	if err != nil {
		h.logger.Error("failed to load user state", zap.Int64("chat_id", chatID), zap.Error(err))
		return
	}
	if state == nil {
		state = &models.UserState{ChatID: chatID}
	}

	state.StartFlow(mode)
	if err := h.stateRepo.Save(state); err != nil {
		h.logger.Error("failed to save user state", zap.Int64("chat_id", chatID), zap.Error(err))
		return
	}

	h.msgManager.SendText(ctx, chatID, promptForMode(mode))
}

func promptForMode(mode fsm.Mode) string {
	switch mode {
	case fsm.ModeTag:
		return promptTag
	case fsm.ModeIndex:
		return promptIndex
	case fsm.ModeRatingTag:
		return promptComboRating
	}
	return promptRating
}

func (h *BotHandler) handleMessage(ctx context.Context, msg *tgmodels.Message) {
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)

	state, err := h.stateRepo.Get(chatID)
	if err != nil {
		h.logger.Error("failed to load user state", zap.Int64("chat_id", chatID), zap.Error(err))
		return
	}
	if state == nil {
		// first contact behaves like /start
		h.startFlow(ctx, chatID)
		return
	}

	switch text {
	case "/start":
		h.startFlow(ctx, chatID)
		return
	case "/history":
		h.sendHistory(ctx, chatID)
		return
	}

	switch state.Step {
	case fsm.StepAwaitRating:
		h.acceptRating(ctx, state, text, fsm.StepAwaitCount, promptCount, replyBadRating)
	case fsm.StepAwaitComboRating:
		h.acceptRating(ctx, state, text, fsm.StepAwaitComboTag, promptComboTag, "Please enter a numeric rating.")
	case fsm.StepAwaitTag, fsm.StepAwaitComboTag:
		h.acceptTag(ctx, state, text)
	case fsm.StepAwaitIndex:
		h.acceptIndex(ctx, state, text)
	case fsm.StepAwaitCount:
		h.acceptCount(ctx, state, text)
	default:
		h.msgManager.SendText(ctx, chatID, replyRedirect)
	}
}

func (h *BotHandler) acceptRating(ctx context.Context, state *models.UserState, text string, next fsm.Step, prompt, reject string) {
	rating, ok := parseDigits(text)
	if !ok {
		h.msgManager.SendText(ctx, state.ChatID, reject)
		return
	}

	state.Rating = &rating
	state.Step = next
	if !h.saveState(state) {
		return
	}
	h.msgManager.SendText(ctx, state.ChatID, prompt)
}

func (h *BotHandler) acceptTag(ctx context.Context, state *models.UserState, text string) {
	if text == "" {
		h.msgManager.SendText(ctx, state.ChatID, replyBadTag)
		return
	}

	tag := strings.ToLower(text)
	state.Tag = &tag
	state.Step = fsm.StepAwaitCount
	if !h.saveState(state) {
		return
	}
	h.msgManager.SendText(ctx, state.ChatID, promptCount)
}

func (h *BotHandler) acceptIndex(ctx context.Context, state *models.UserState, text string) {
	letter := strings.ToUpper(text)
	state.IndexLetter = &letter
	state.Step = fsm.StepAwaitCount
	if !h.saveState(state) {
		return
	}
	h.msgManager.SendText(ctx, state.ChatID, promptCount)
}

func (h *BotHandler) acceptCount(ctx context.Context, state *models.UserState, text string) {
	n, ok := parseDigits(text)
	if !ok {
		h.msgManager.SendText(ctx, state.ChatID, replyBadNumber)
		return
	}

	h.completeFlow(ctx, state, services.ClampCount(n))
}

// completeFlow runs the filter with the accumulated params, delivers
// the results and returns the chat to the idle state.
func (h *BotHandler) completeFlow(ctx context.Context, state *models.UserState, count int) {
	q := services.Query{Mode: state.Mode, Count: count}
	if state.Rating != nil {
		q.Rating = *state.Rating
	}
	if state.Tag != nil {
		q.Tag = *state.Tag
	}
	if state.IndexLetter != nil {
		q.IndexLetter = *state.IndexLetter
	}

	problems, err := h.filter.Select(ctx, q)
	if err != nil {
		h.logger.Error("problem selection failed",
			zap.Int64("chat_id", state.ChatID),
			zap.String("mode", string(state.Mode)),
			zap.Error(err))
		problems = nil
	}

	h.sendProblems(ctx, state.ChatID, problems)

	state.ResetFlow()
	h.saveState(state)
}

func (h *BotHandler) sendProblems(ctx context.Context, chatID int64, problems []models.Problem) {
	if len(problems) == 0 {
		h.msgManager.SendText(ctx, chatID, replyNoProblems)
		return
	}

	for _, p := range problems {
		h.msgManager.SendMarkdown(ctx, chatID, services.FormatProblem(p))
		entry := &models.HistoryEntry{
			ChatID:       chatID,
			ContestID:    p.ContestID,
			ProblemIndex: p.Index,
			Name:         p.Name,
			Rating:       p.Rating,
		}
		if err := h.historyRepo.Add(entry); err != nil {
			h.logger.Error("failed to record history", zap.Int64("chat_id", chatID), zap.Error(err))
		}
	}

	h.msgManager.SendText(ctx, chatID, replyDone)
}

func (h *BotHandler) sendHistory(ctx context.Context, chatID int64) {
	entries, err := h.historyRepo.Recent(chatID, historyLimit)
	if err != nil {
		h.logger.Error("failed to load history", zap.Int64("chat_id", chatID), zap.Error(err))
		return
	}
	if len(entries) == 0 {
		h.msgManager.SendText(ctx, chatID, replyNoHistory)
		return
	}

	h.msgManager.SendMarkdown(ctx, chatID, services.FormatHistory(entries))
}

// startFlow resets the chat's state and re-issues the mode menu. It
// also serves as the first-contact path.
func (h *BotHandler) startFlow(ctx context.Context, chatID int64) {
	state := &models.UserState{ChatID: chatID}
	if !h.saveState(state) {
		return
	}
	h.msgManager.SendModeMenu(ctx, chatID)
}

func (h *BotHandler) saveState(state *models.UserState) bool {
	if err := h.stateRepo.Save(state); err != nil {
		h.logger.Error("failed to save user state", zap.Int64("chat_id", state.ChatID), zap.Error(err))
		return false
	}
	return true
}

// parseDigits accepts only all-digit strings, mirroring the strictness
// of the rating and count prompts.
func parseDigits(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
