package bot

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-kit/log"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-infobot"
	"go-infobot/cbr"
	"go-infobot/exchange"
	"go-infobot/metrics"
	"go-infobot/reply"
)

type senderMock struct {
	sent []tgbotapi.Chattable
	err  error
}

func (s *senderMock) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	s.sent = append(s.sent, c)
	return tgbotapi.Message{}, s.err
}

func TestChatSink_Send(t *testing.T) {
	api := &senderMock{}
	sink := &chatSink{api: api, chatID: 42}

	err := sink.Send(context.Background(), reply.Message{Text: "*hi*", DisablePreview: true})

	require.NoError(t, err)
	require.Len(t, api.sent, 1)
	msg, ok := api.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, int64(42), msg.ChatID)
	assert.Equal(t, "*hi*", msg.Text)
	assert.Equal(t, tgbotapi.ModeMarkdown, msg.ParseMode)
	assert.True(t, msg.DisableWebPagePreview)
}

func TestChatSink_SendError(t *testing.T) {
	sink := &chatSink{api: &senderMock{err: errors.New("Forbidden: bot was blocked by the user")}, chatID: 7}

	err := sink.Send(context.Background(), reply.Start())

	assert.EqualError(t, err, "send to chat 7: Forbidden: bot was blocked by the user")
}

func TestDescriptions_CoverEveryCommand(t *testing.T) {
	for _, c := range infobot.Commands {
		assert.NotEmpty(t, descriptions[c], c)
	}
}

// botMock a Telegram API fed from a channel, safe for the per-update goroutines
type botMock struct {
	updates chan tgbotapi.Update

	mu       sync.Mutex
	sent     []tgbotapi.MessageConfig
	requests []tgbotapi.Chattable
	stopped  bool
}

func (b *botMock) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sent = append(b.sent, c.(tgbotapi.MessageConfig))
	return tgbotapi.Message{}, nil
}

func (b *botMock) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.requests = append(b.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (b *botMock) GetUpdatesChan(_ tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return b.updates
}

func (b *botMock) StopReceivingUpdates() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stopped = true
}

func (b *botMock) messages() []tgbotapi.MessageConfig {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]tgbotapi.MessageConfig(nil), b.sent...)
}

// slowRates answers after delay, or panics when panics is set
type slowRates struct {
	delay  time.Duration
	panics bool
	calls  atomic.Int32
}

func (s *slowRates) FetchRates(_ context.Context) (infobot.RateTable, error) {
	s.calls.Add(1)
	time.Sleep(s.delay)
	if s.panics {
		panic("rates exploded")
	}
	return usdTable(), nil
}

func newTestTelegram(api botAPI, rates cbr.Service) *Telegram {
	h := NewHandler(rates, &newsMock{}, exchange.NewService(rates), "Санкт-Петербург", log.NewNopLogger(), metrics.New(prometheus.NewRegistry()))
	return &Telegram{api: api, handler: h, logger: log.NewNopLogger(), updateTimeout: time.Second}
}

// command builds the update Telegram sends for a command typed in chatID
func command(chatID int64, text string) tgbotapi.Update {
	name := strings.Fields(text)[0]
	return tgbotapi.Update{Message: &tgbotapi.Message{
		Text:     text,
		Chat:     &tgbotapi.Chat{ID: chatID},
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(name)}},
	}}
}

func chatIDs(sent []tgbotapi.MessageConfig) []int64 {
	ids := make([]int64, 0, len(sent))
	for _, m := range sent {
		ids = append(ids, m.ChatID)
	}
	return ids
}

func TestTelegram_RunAnswersEveryCommandBeforeReturning(t *testing.T) {
	rates := &slowRates{delay: 50 * time.Millisecond}
	api := &botMock{updates: make(chan tgbotapi.Update, 8)}
	tg := newTestTelegram(api, rates)

	api.updates <- command(1, "/rates")
	api.updates <- tgbotapi.Update{Message: &tgbotapi.Message{Text: "hello", Chat: &tgbotapi.Chat{ID: 2}}}
	api.updates <- tgbotapi.Update{}
	api.updates <- command(3, "/convert 100 USD RUB")
	api.updates <- command(4, "/start")
	close(api.updates)

	require.NoError(t, tg.Run(context.Background()))

	sent := api.messages()
	assert.ElementsMatch(t, []int64{1, 3, 4}, chatIDs(sent))
	assert.Equal(t, int32(2), rates.calls.Load())
	for _, m := range sent {
		if m.ChatID == 3 {
			assert.Contains(t, m.Text, "*100.00 USD* = *9000.00 RUB*")
		}
	}
}

func TestTelegram_RunReturnsOnCancel(t *testing.T) {
	api := &botMock{updates: make(chan tgbotapi.Update)}
	tg := newTestTelegram(api, &slowRates{delay: 50 * time.Millisecond})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- tg.Run(ctx) }()

	// unbuffered, so Run has taken the update once this send returns
	api.updates <- command(1, "/rates")
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}

	assert.True(t, api.stopped)
	require.Len(t, api.messages(), 1, "in-flight update answered after cancel")
	assert.Equal(t, reply.Rates(usdTable()).Text, api.messages()[0].Text)
}

func TestTelegram_PanickingCommandGetsGenericReply(t *testing.T) {
	api := &botMock{updates: make(chan tgbotapi.Update, 2)}
	tg := newTestTelegram(api, &slowRates{panics: true})

	api.updates <- command(1, "/rates")
	api.updates <- command(2, "/start")
	close(api.updates)

	require.NoError(t, tg.Run(context.Background()))

	sent := api.messages()
	require.Len(t, sent, 2)
	for _, m := range sent {
		switch m.ChatID {
		case 1:
			assert.Equal(t, reply.Unexpected().Text, m.Text)
		case 2:
			assert.Equal(t, reply.Start().Text, m.Text)
		}
	}
}

func TestTelegram_RegisterCommands(t *testing.T) {
	api := &botMock{}
	tg := newTestTelegram(api, &slowRates{})

	require.NoError(t, tg.RegisterCommands())

	require.Len(t, api.requests, 1)
	cfg, ok := api.requests[0].(tgbotapi.SetMyCommandsConfig)
	require.True(t, ok)
	require.Len(t, cfg.Commands, len(infobot.Commands))
	assert.Equal(t, string(infobot.CommandStart), cfg.Commands[0].Command)
}
