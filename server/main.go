package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"go-infobot/bot"
	"go-infobot/cbr"
	"go-infobot/config"
	"go-infobot/exchange"
	"go-infobot/http"
	"go-infobot/metrics"
	"go-infobot/newsapi"

	nhttp "net/http"
)

func main() {
	w := log.NewSyncWriter(os.Stderr)
	logger := log.NewLogfmtLogger(w)
	logger = log.With(logger, "ts", log.DefaultTimestampUTC, "caller", log.DefaultCaller)

	if err := godotenv.Load(); err != nil {
		level.Debug(logger).Log("msg", "no .env file loaded", "err", err)
	}

	cfg, err := config.Load()
	if err != nil {
		level.Error(logger).Log("msg", "invalid configuration", "err", err)
		fmt.Fprintln(os.Stderr, config.Usage())
		os.Exit(1)
	}
	logger = level.NewFilter(logger, levelOption(cfg.Log.Level))

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	ratesService := cbr.NewService(cfg.Rates.URL, cfg.Rates.Timeout)
	ratesService = cbr.NewInstrumentingService(m, ratesService)
	ratesService = cbr.NewLoggingService(log.With(logger, "component", "cbr"), ratesService)

	newsService := newsapi.NewService(cfg.News.URL, cfg.News.APIKey, cfg.News.Limit, cfg.News.Timeout)
	newsService = newsapi.NewInstrumentingService(m, newsService)
	newsService = newsapi.NewLoggingService(log.With(logger, "component", "newsapi"), newsService)

	exchangeService := exchange.NewService(ratesService)
	exchangeService = exchange.NewLoggingService(log.With(logger, "component", "exchange"), exchangeService)

	handler := bot.NewHandler(ratesService, newsService, exchangeService, cfg.News.Query, log.With(logger, "component", "bot"), m)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	telegram, err := bot.NewTelegram(cfg.Telegram.Token, handler, cfg.Telegram.UpdateTimeout, log.With(logger, "component", "telegram"))
	if err != nil {
		level.Error(logger).Log("msg", "telegram unavailable", "err", err)
		os.Exit(1)
	}
	if err := telegram.RegisterCommands(); err != nil {
		level.Warn(logger).Log("msg", "command menu not registered", "err", err)
	}

	if cfg.HTTP.Addr != "" {
		httpServer := &nhttp.Server{
			Addr:              cfg.HTTP.Addr,
			Handler:           http.NewServer(exchangeService, reg, log.With(logger, "component", "http")),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			level.Info(logger).Log("msg", "http listening", "addr", cfg.HTTP.Addr)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, nhttp.ErrServerClosed) {
				level.Error(logger).Log("msg", "http server stopped", "err", err)
				stop()
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = httpServer.Shutdown(shutdownCtx)
		}()
	}

	level.Info(logger).Log("msg", "polling for updates")
	if err := telegram.Run(ctx); err != nil {
		level.Error(logger).Log("msg", "polling stopped", "err", err)
	}
	level.Info(logger).Log("msg", "shut down")
}

func levelOption(name string) level.Option {
	switch name {
	case "debug":
		return level.AllowDebug()
	case "warn":
		return level.AllowWarn()
	case "error":
		return level.AllowError()
	default:
		return level.AllowInfo()
	}
}
