package bot

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"go-infobot"
	"go-infobot/reply"
)

// pollTimeout long polling timeout in seconds
const pollTimeout = 60

var descriptions = map[infobot.Command]string{
	infobot.CommandStart:   "Начать работу",
	infobot.CommandAuthor:  "Об авторе проекта",
	infobot.CommandNews:    "Свежие новости",
	infobot.CommandRates:   "Курсы валют от ЦБ РФ",
	infobot.CommandConvert: "Конвертер валют: /convert 100 USD RUB",
}

// sender the part of tgbotapi.BotAPI used to reply
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// botAPI the part of tgbotapi.BotAPI used by Telegram
type botAPI interface {
	sender
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Telegram feeds Telegram updates into a Handler, one goroutine per update.
type Telegram struct {
	api     botAPI
	handler *Handler
	logger  log.Logger

	// updateTimeout bounds the handling of a single update
	updateTimeout time.Duration

	wg sync.WaitGroup
}

// NewTelegram logs in with token.
func NewTelegram(token string, handler *Handler, updateTimeout time.Duration, logger log.Logger) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram login: %w", err)
	}
	level.Info(logger).Log("msg", "authorized", "bot", api.Self.UserName)
	return &Telegram{
		api:           api,
		handler:       handler,
		logger:        logger,
		updateTimeout: updateTimeout,
	}, nil
}

// RegisterCommands publishes the command menu shown by Telegram clients.
func (t *Telegram) RegisterCommands() error {
	commands := make([]tgbotapi.BotCommand, 0, len(infobot.Commands))
	for _, c := range infobot.Commands {
		commands = append(commands, tgbotapi.BotCommand{Command: string(c), Description: descriptions[c]})
	}
	if _, err := t.api.Request(tgbotapi.NewSetMyCommands(commands...)); err != nil {
		return fmt.Errorf("set my commands: %w", err)
	}
	return nil
}

// Run polls for updates until ctx is done, then waits for in-flight updates.
func (t *Telegram) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = pollTimeout
	updates := t.api.GetUpdatesChan(u)
	defer t.wg.Wait()

	for {
		select {
		case <-ctx.Done():
			t.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil || !update.Message.IsCommand() {
				continue
			}
			t.wg.Add(1)
			go func(m *tgbotapi.Message) {
				defer t.wg.Done()
				t.serve(ctx, m)
			}(update.Message)
		}
	}
}

func (t *Telegram) serve(ctx context.Context, m *tgbotapi.Message) {
	// let in-flight updates finish on shutdown
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), t.updateTimeout)
	defer cancel()

	command := infobot.Command(m.Command())
	sink := &chatSink{api: t.api, chatID: m.Chat.ID}
	defer func() {
		// a panicking command must not take the other chats down with it
		if r := recover(); r != nil {
			level.Error(t.logger).Log("msg", "command panicked", "chat_id", m.Chat.ID, "command", command, "panic", r)
			if err := sink.Send(ctx, reply.Unexpected()); err != nil {
				level.Error(t.logger).Log("msg", "reply failed", "chat_id", m.Chat.ID, "err", err)
			}
		}
	}()

	err := t.handler.Handle(ctx, command, strings.Fields(m.CommandArguments()), sink)
	if err != nil {
		level.Error(t.logger).Log("msg", "reply failed", "chat_id", m.Chat.ID, "err", err)
	}
}

// chatSink replies into a Telegram chat
type chatSink struct {
	api    sender
	chatID int64
}

func (s *chatSink) Send(_ context.Context, msg reply.Message) error {
	out := tgbotapi.NewMessage(s.chatID, msg.Text)
	out.ParseMode = tgbotapi.ModeMarkdown
	out.DisableWebPagePreview = msg.DisablePreview
	if _, err := s.api.Send(out); err != nil {
		return fmt.Errorf("send to chat %d: %w", s.chatID, err)
	}
	return nil
}
