package bot

import (
	"context"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/google/uuid"

	"go-infobot"
	"go-infobot/cbr"
	"go-infobot/exchange"
	"go-infobot/metrics"
	"go-infobot/newsapi"
	"go-infobot/reply"
)

// Sink delivers a reply to whoever sent the command
type Sink interface {
	Send(ctx context.Context, msg reply.Message) error
}

// commandFunc answers a command. The returned error is already rendered into
// the message and is only reported for logs and metrics.
type commandFunc func(ctx context.Context, args []string) (reply.Message, error)

// Handler dispatches chat commands to the data sources
type Handler struct {
	rates    cbr.Service
	news     newsapi.Service
	exchange exchange.Service

	// newsQuery the topic searched by the news command
	newsQuery string

	logger  log.Logger
	metrics *metrics.Metrics

	commands map[infobot.Command]commandFunc
}

// NewHandler constructs a Handler answering every infobot.Commands entry.
func NewHandler(rates cbr.Service, news newsapi.Service, ex exchange.Service, newsQuery string, logger log.Logger, m *metrics.Metrics) *Handler {
	h := &Handler{
		rates:     rates,
		news:      news,
		exchange:  ex,
		newsQuery: newsQuery,
		logger:    logger,
		metrics:   m,
	}
	h.commands = map[infobot.Command]commandFunc{
		infobot.CommandStart:   h.start,
		infobot.CommandAuthor:  h.author,
		infobot.CommandNews:    h.fetchNews,
		infobot.CommandRates:   h.fetchRates,
		infobot.CommandConvert: h.convert,
	}
	return h
}

// Handle answers a single command through sink. Failures of the data sources
// are answered with a failure message; only a failed send is returned.
// Unknown commands are ignored.
func (h *Handler) Handle(ctx context.Context, command infobot.Command, args []string, sink Sink) error {
	logger := log.With(h.logger, "request_id", uuid.NewString(), "command", command)

	fn, ok := h.commands[command]
	if !ok {
		level.Debug(logger).Log("msg", "ignoring unknown command")
		return nil
	}

	begin := time.Now()
	msg, err := fn(ctx, args)
	took := time.Since(begin)

	h.metrics.CommandsTotal.WithLabelValues(string(command), metrics.Outcome(err)).Inc()
	h.metrics.CommandDuration.WithLabelValues(string(command)).Observe(took.Seconds())
	if err != nil {
		level.Warn(logger).Log("msg", "command failed", "args", len(args), "took", took, "err", err)
	} else {
		level.Info(logger).Log("msg", "command handled", "args", len(args), "took", took)
	}

	return sink.Send(ctx, msg)
}

func (h *Handler) start(_ context.Context, _ []string) (reply.Message, error) {
	return reply.Start(), nil
}

func (h *Handler) author(_ context.Context, _ []string) (reply.Message, error) {
	return reply.Author(), nil
}

func (h *Handler) fetchNews(ctx context.Context, _ []string) (reply.Message, error) {
	articles, err := h.news.FetchArticles(ctx, h.newsQuery)
	if err != nil {
		return reply.Failure(infobot.CommandNews, err), err
	}
	return reply.News(articles), nil
}

func (h *Handler) fetchRates(ctx context.Context, _ []string) (reply.Message, error) {
	table, err := h.rates.FetchRates(ctx)
	if err != nil {
		return reply.Failure(infobot.CommandRates, err), err
	}
	return reply.Rates(table), nil
}

// convert validates the arguments before any rates are fetched.
func (h *Handler) convert(ctx context.Context, args []string) (reply.Message, error) {
	req, err := exchange.ParseRequest(args)
	if err != nil {
		return reply.Failure(infobot.CommandConvert, err), err
	}
	ex, err := h.exchange.Convert(ctx, req.Amount, req.From, req.To)
	if err != nil {
		return reply.Failure(infobot.CommandConvert, err), err
	}
	return reply.Conversion(ex), nil
}
