package cbr

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/net/html/charset"

	"go-infobot"
)

// DefaultURL the daily rates document of the Central Bank of Russia
const DefaultURL = "https://www.cbr.ru/scripts/XML_daily.asp"

// dateLayout of the Date attribute, e.g. 19.10.2026
const dateLayout = "02.01.2006"

// Service wraps the daily rates feed
type Service interface {
	FetchRates(ctx context.Context) (infobot.RateTable, error)
}

// service rates feed client
type service struct {
	// url of the daily rates document
	url string

	// client for HTTP requests
	client http.Client
}

// NewService constructs a valid rates Service.
func NewService(url string, timeout time.Duration) Service {
	return &service{
		url: url,
		client: http.Client{
			Timeout: timeout,
		},
	}
}

// valCurs the rates document as published, numbers still in their raw form
type valCurs struct {
	XMLName xml.Name `xml:"ValCurs"`
	Date    string   `xml:"Date,attr"`
	Valutes []struct {
		CharCode string `xml:"CharCode"`
		Nominal  string `xml:"Nominal"`
		Name     string `xml:"Name"`
		Value    string `xml:"Value"`
	} `xml:"Valute"`
}

// FetchRates loads today's rates. The feed is updated once a day.
func (s *service) FetchRates(ctx context.Context) (infobot.RateTable, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return infobot.RateTable{}, fmt.Errorf("building http request: %w", err)
	}
	// the feed answers 403 to requests without an agent now and then
	request.Header.Set("User-Agent", "infobot/1.0")
	request.Header.Set("Accept", "application/xml")

	httpResponse, err := s.client.Do(request)
	if err != nil {
		return infobot.RateTable{}, fmt.Errorf("http get: %w: %w", infobot.ErrSourceUnavailable, err)
	}
	defer httpResponse.Body.Close()

	if httpResponse.StatusCode < 200 || httpResponse.StatusCode > 299 {
		return infobot.RateTable{}, fmt.Errorf("http get: %w: status %d", infobot.ErrSourceUnavailable, httpResponse.StatusCode)
	}

	body, err := io.ReadAll(httpResponse.Body)
	if err != nil {
		return infobot.RateTable{}, fmt.Errorf("reading xml: %w: %w", infobot.ErrSourceUnavailable, err)
	}

	var doc valCurs
	decoder := xml.NewDecoder(bytes.NewReader(body))
	decoder.CharsetReader = charset.NewReaderLabel
	if err := decoder.Decode(&doc); err != nil {
		return infobot.RateTable{}, fmt.Errorf("decoding xml: %w: %w", infobot.ErrMalformedDocument, err)
	}

	table, err := doc.table()
	if err != nil {
		return infobot.RateTable{}, fmt.Errorf("parsing rates: %w: %w", infobot.ErrMalformedDocument, err)
	}
	return table, nil
}

func (doc *valCurs) table() (infobot.RateTable, error) {
	date, err := time.Parse(dateLayout, strings.TrimSpace(doc.Date))
	if err != nil {
		return infobot.RateTable{}, fmt.Errorf("bad document date %q: %w", doc.Date, err)
	}
	if len(doc.Valutes) == 0 {
		return infobot.RateTable{}, errors.New("no currencies in document")
	}

	rates := make(map[infobot.Currency]infobot.Valute, len(doc.Valutes))
	for _, v := range doc.Valutes {
		code := infobot.ParseCurrency(v.CharCode)
		if code == "" {
			return infobot.RateTable{}, errors.New("currency without a code")
		}

		nominal, err := parseNumber(v.Nominal)
		if err != nil {
			return infobot.RateTable{}, fmt.Errorf("bad nominal for %v: %w", code, err)
		}
		if !nominal.IsInteger() || !nominal.IsPositive() {
			return infobot.RateTable{}, fmt.Errorf("bad nominal for %v: %v", code, nominal)
		}

		value, err := parseNumber(v.Value)
		if err != nil {
			return infobot.RateTable{}, fmt.Errorf("bad value for %v: %w", code, err)
		}
		if !value.IsPositive() {
			return infobot.RateTable{}, fmt.Errorf("bad value for %v: %v", code, value)
		}

		rates[code] = infobot.Valute{
			Code:    code,
			Name:    strings.TrimSpace(v.Name),
			Nominal: nominal.IntPart(),
			Value:   value,
		}
	}

	return infobot.RateTable{Date: date, Rates: rates}, nil
}

// normalizeNumber accepts both "," and "." as the decimal point.
// The feed publishes "92,1234" while mirrors of it use "92.1234".
func normalizeNumber(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
}

func parseNumber(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(normalizeNumber(s))
}
