package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"

	"go-infobot"
	"go-infobot/exchange"
)

// maxBodyBytes caps request bodies of /api/convert
const maxBodyBytes = 1 << 16

// Server dependencies for HTTP Server functions
type Server struct {
	Service  exchange.Service
	Gatherer prometheus.Gatherer
	Logger   log.Logger
	router   http.ServeMux
}

func NewServer(s exchange.Service, g prometheus.Gatherer, logger log.Logger) *Server {
	server := &Server{
		Service:  s,
		Gatherer: g,
		Logger:   logger,
		router:   http.ServeMux{},
	}
	server.routes()
	return server
}

func (s *Server) routes() {
	s.router.Handle("/api/convert", s.convert())
	s.router.Handle("/metrics", promhttp.HandlerFor(s.Gatherer, promhttp.HandlerOpts{}))
	s.router.HandleFunc("/healthz", func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(http.StatusOK)
		_, _ = rw.Write([]byte("ok"))
	})
}

func (s *Server) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(rw, r)
}

// convert produces HTTP handler for currency conversions
func (s *Server) convert() http.HandlerFunc {

	// request for unmarshalling JSON requests posted by clients
	type request struct {
		Amount decimal.Decimal `json:"amount"`
		From   string          `json:"from"`
		To     string          `json:"to"`
	}

	// response for marshalling JSON responses to return to clients
	type response struct {
		Amount    decimal.Decimal  `json:"amount"`
		From      infobot.Currency `json:"from"`
		To        infobot.Currency `json:"to"`
		Converted decimal.Decimal  `json:"converted"`
		Rate      decimal.Decimal  `json:"rate"`
		Date      string           `json:"date"`
	}

	return func(rw http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()

		rw.Header().Set("Content-Type", "application/json")

		if r.Method != http.MethodPost {
			rw.Header().Set("Allow", http.MethodPost)
			writeError(rw, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		bytes, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
		if err != nil {
			writeError(rw, http.StatusBadRequest, "invalid request")
			return
		}

		var request request
		err = json.Unmarshal(bytes, &request)
		if err != nil {
			writeError(rw, http.StatusBadRequest, "invalid json")
			return
		}
		// before the amount reaches any log line
		if err := exchange.CheckAmount(request.Amount); err != nil {
			writeError(rw, http.StatusBadRequest, "invalid amount")
			return
		}

		result, err := s.Service.Convert(r.Context(), request.Amount, infobot.ParseCurrency(request.From), infobot.ParseCurrency(request.To))
		if err != nil {
			status, msg := errorStatus(err)
			level.Debug(s.Logger).Log("msg", "conversion failed", "status", status, "err", err)
			writeError(rw, status, msg)
			return
		}

		response := response{
			Amount:    result.Amount,
			From:      result.Source,
			To:        result.Target,
			Converted: result.Converted,
			Rate:      result.CrossRate,
			Date:      result.Date.Format("2006-01-02"),
		}

		enc := json.NewEncoder(rw)
		err = enc.Encode(&response)
		if err != nil {
			level.Error(s.Logger).Log("msg", "failed json encoding", "err", err)
		}
	}
}

// errorStatus maps a conversion failure onto a status code and a message.
// Messages never carry the wrapped error text.
func errorStatus(err error) (int, string) {
	var unknown *infobot.UnknownCurrencyError
	switch {
	case errors.Is(err, infobot.ErrInvalidAmount):
		return http.StatusBadRequest, "invalid amount"
	case errors.As(err, &unknown):
		return http.StatusBadRequest, "unknown currency: " + string(unknown.Code)
	case errors.Is(err, infobot.ErrUnknownCurrency):
		return http.StatusBadRequest, "unknown currency"
	case errors.Is(err, infobot.ErrSourceUnavailable), errors.Is(err, infobot.ErrMalformedDocument):
		return http.StatusBadGateway, "rates unavailable"
	default:
		return http.StatusInternalServerError, "failed conversion"
	}
}

func writeError(rw http.ResponseWriter, status int, msg string) {
	rw.WriteHeader(status)
	_ = json.NewEncoder(rw).Encode(map[string]string{"error": msg})
}
