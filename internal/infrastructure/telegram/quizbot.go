// Package telegram serves discovery-backed quiz rounds over a Telegram bot.
package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"histomap/internal/discovery"
	"histomap/internal/domain"
	"histomap/internal/ports"
	"histomap/internal/quiz"
)

const (
	cmdPlay  = "play"
	cmdStats = "stats"

	answerPrefix = "answer:"
	hintPrefix   = "hint:"

	defaultRadiusMeters = 10000
)

// QuizBot runs the polling loop and keeps the pending rounds.
type QuizBot struct {
	api          *tgbotapi.BotAPI
	orchestrator *discovery.Orchestrator
	generator    *quiz.Generator
	activity     ports.ActivityStore
	logger       *slog.Logger

	mu     sync.Mutex
	rounds map[string]*round
}

type round struct {
	chatID    int64
	eventID   int
	question  domain.QuizQuestion
	hintsUsed int
}

// NewQuizBot authenticates against the bot API and wires dependencies.
// A nil activity store disables /stats but not play.
func NewQuizBot(token string, orchestrator *discovery.Orchestrator, generator *quiz.Generator, activity ports.ActivityStore, logger *slog.Logger) (*QuizBot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &QuizBot{
		api:          api,
		orchestrator: orchestrator,
		generator:    generator,
		activity:     activity,
		logger:       logger,
		rounds:       map[string]*round{},
	}, nil
}

// Run polls for updates until the context is cancelled.
func (b *QuizBot) Run(ctx context.Context) error {
	b.logger.Info("bot polling started", "username", b.api.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	for update := range updates {
		switch {
		case update.CallbackQuery != nil:
			b.handleCallback(ctx, update.CallbackQuery)
		case update.Message != nil:
			b.handleMessage(ctx, update.Message)
		}
	}
	return nil
}

func (b *QuizBot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	switch {
	case strings.HasPrefix(msg.Text, "/"+cmdPlay):
		b.handlePlay(ctx, msg)
	case strings.HasPrefix(msg.Text, "/"+cmdStats):
		b.handleStats(ctx, msg)
	default:
		b.send(msg.Chat.ID, "Commands:\n/play <lat> <lon> [radius] - quiz on a place\n/stats - your score")
	}
}

func (b *QuizBot) handlePlay(ctx context.Context, msg *tgbotapi.Message) {
	fields := strings.Fields(msg.Text)
	if len(fields) < 3 {
		b.send(msg.Chat.ID, "Usage: /play <lat> <lon> [radius]")
		return
	}
	lat, latErr := strconv.ParseFloat(fields[1], 64)
	lon, lonErr := strconv.ParseFloat(fields[2], 64)
	if latErr != nil || lonErr != nil {
		b.send(msg.Chat.ID, "Usage: /play <lat> <lon> [radius]")
		return
	}
	radius := defaultRadiusMeters
	if len(fields) > 3 {
		if r, err := strconv.Atoi(fields[3]); err == nil {
			radius = r
		}
	}

	result, err := b.orchestrator.FetchEvents(ctx, lat, lon, radius)
	if err != nil {
		b.logger.Error("discovery pass failed", "error", err)
		b.send(msg.Chat.ID, "Something went wrong, try again later.")
		return
	}
	if len(result.Events) == 0 {
		if result.Degraded {
			b.send(msg.Chat.ID, "Sources are unavailable right now, try again later.")
		} else {
			b.send(msg.Chat.ID, "No historical events found around there.")
		}
		return
	}

	event := result.Events[0]
	question := b.generator.PrepareQuestion(event, result.Events, "hard")
	roundID := uuid.NewString()

	b.mu.Lock()
	b.rounds[roundID] = &round{chatID: msg.Chat.ID, eventID: event.ID, question: question}
	b.mu.Unlock()

	var keyboard [][]tgbotapi.InlineKeyboardButton
	for i, option := range question.Options {
		data := fmt.Sprintf("%s%s:%d", answerPrefix, roundID, i)
		keyboard = append(keyboard, []tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData(option, data),
		})
	}
	keyboard = append(keyboard, []tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardButtonData("Indice", hintPrefix+roundID),
	})

	reply := tgbotapi.NewMessage(msg.Chat.ID, "Quel événement se cache ici ?\n\n"+question.MaskedDescription)
	reply.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(keyboard...)
	if _, err := b.api.Send(reply); err != nil {
		b.logger.Warn("send question", "error", err)
	}
}

func (b *QuizBot) handleStats(ctx context.Context, msg *tgbotapi.Message) {
	if b.activity == nil {
		b.send(msg.Chat.ID, "Statistics are not available with this storage driver.")
		return
	}
	stats, err := b.activity.Stats(ctx, msg.From.ID)
	if err != nil {
		b.logger.Warn("load stats", "error", err)
		b.send(msg.Chat.ID, "Could not load your statistics, try again later.")
		return
	}
	b.send(msg.Chat.ID, fmt.Sprintf("Parties : %d\nBonnes réponses : %d\nPoints : %d",
		stats.Answered, stats.Correct, stats.Points))
}

func (b *QuizBot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		b.logger.Warn("ack callback", "error", err)
	}

	switch {
	case strings.HasPrefix(cb.Data, answerPrefix):
		b.handleAnswer(ctx, cb)
	case strings.HasPrefix(cb.Data, hintPrefix):
		b.handleHint(cb)
	}
}

func (b *QuizBot) handleAnswer(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	parts := strings.Split(strings.TrimPrefix(cb.Data, answerPrefix), ":")
	if len(parts) != 2 {
		return
	}
	idx, err := strconv.Atoi(parts[1])
	if err != nil {
		return
	}

	b.mu.Lock()
	r, ok := b.rounds[parts[0]]
	if ok {
		delete(b.rounds, parts[0])
	}
	b.mu.Unlock()
	if !ok || idx < 0 || idx >= len(r.question.Options) {
		return
	}

	correct := r.question.Options[idx] == r.question.CorrectTitle
	result := quiz.CalculatePoints(correct, r.hintsUsed, true)
	if b.activity != nil {
		if err := b.activity.SaveAnswer(ctx, cb.From.ID, r.eventID, result); err != nil {
			b.logger.Warn("save answer", "error", err)
		}
	}

	if correct {
		b.send(r.chatID, fmt.Sprintf("Bravo ! C'était « %s ». +%d points.", r.question.CorrectTitle, result.Points))
	} else {
		b.send(r.chatID, fmt.Sprintf("Raté. C'était « %s ».", r.question.CorrectTitle))
	}
}

func (b *QuizBot) handleHint(cb *tgbotapi.CallbackQuery) {
	roundID := strings.TrimPrefix(cb.Data, hintPrefix)

	b.mu.Lock()
	r, ok := b.rounds[roundID]
	var hint string
	if ok {
		hint = nextHint(r)
	}
	b.mu.Unlock()
	if !ok {
		return
	}

	if hint == "" {
		b.send(r.chatID, "Plus d'indices disponibles.")
		return
	}
	b.send(r.chatID, "Indice : "+hint)
}

// nextHint reveals category, then year, then action verbs; each reveal counts
// against the round's score.
func nextHint(r *round) string {
	hints := r.question.Hints
	switch r.hintsUsed {
	case 0:
		r.hintsUsed++
		return "catégorie " + string(hints.Category)
	case 1:
		r.hintsUsed++
		if hints.Year == nil {
			return "année inconnue"
		}
		if *hints.Year < 0 {
			return fmt.Sprintf("année %d av. J.-C.", -*hints.Year)
		}
		return fmt.Sprintf("année %d", *hints.Year)
	case 2:
		r.hintsUsed++
		if len(hints.Actions) == 0 {
			return "aucune action notable"
		}
		return "actions : " + strings.Join(hints.Actions, ", ")
	}
	return ""
}

func (b *QuizBot) send(chatID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		b.logger.Warn("send message", "error", err)
	}
}
