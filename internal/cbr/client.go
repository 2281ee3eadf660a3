// Package cbr fetches and decodes the Central Bank of Russia daily currency rates feed.
package cbr

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"

	"github.com/BrokenDetector/Coupon-calendar-sub000/internal/model"
)

// DefaultURL is the public daily rates endpoint.
const DefaultURL = "https://www.cbr.ru/scripts/XML_daily.asp"

const feedDateLayout = "02.01.2006"

// Client defines the interface for fetching the daily rate table.
// This interface enables dependency injection and testing with mock implementations.
type Client interface {
	FetchRates(ctx context.Context) (model.RateSnapshot, error)
}

// RatesClient fetches the daily XML feed over HTTP.
type RatesClient struct {
	httpClient *http.Client
	url        string
}

// NewRatesClient creates a new rates client. An empty url selects DefaultURL.
func NewRatesClient(url string) *RatesClient {
	if url == "" {
		url = DefaultURL
	}
	return &RatesClient{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		url:        url,
	}
}

// FetchRates downloads and parses today's rate table.
//
// Returns:
//   - model.RateSnapshot: Rates keyed by currency code, converted per one unit
//   - error: If the request fails, the status is not 200, or the document cannot be parsed
func (c *RatesClient) FetchRates(ctx context.Context) (model.RateSnapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return model.RateSnapshot{}, err
	}
	req.Header.Set("Accept", "application/xml")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.RateSnapshot{}, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.RateSnapshot{}, err
	}
	if resp.StatusCode != http.StatusOK {
		return model.RateSnapshot{}, fmt.Errorf("cbr error: %s", resp.Status)
	}

	snapshot, err := ParseDailyRates(data)
	if err != nil {
		return model.RateSnapshot{}, err
	}
	snapshot.FetchedAt = time.Now().UTC()
	return snapshot, nil
}

// ParseDailyRates decodes a ValCurs document. The feed is windows-1251
// encoded; other declared encodings are rejected.
//
// Each rate is Value / Nominal, so it converts one unit of the currency to rubles.
func ParseDailyRates(data []byte) (model.RateSnapshot, error) {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	decoder.CharsetReader = charsetReader

	var doc DailyRates
	if err := decoder.Decode(&doc); err != nil {
		return model.RateSnapshot{}, fmt.Errorf("failed to decode rates document: %w", err)
	}
	if len(doc.Valutes) == 0 {
		return model.RateSnapshot{}, fmt.Errorf("rates document has no currencies")
	}

	snapshot := model.RateSnapshot{Rates: make(model.CurrencyRates, len(doc.Valutes))}
	if doc.Date != "" {
		date, err := time.Parse(feedDateLayout, doc.Date)
		if err != nil {
			return model.RateSnapshot{}, fmt.Errorf("failed to parse rates date %q: %w", doc.Date, err)
		}
		snapshot.Date = date
	}

	for _, v := range doc.Valutes {
		rate, err := unitRate(v)
		if err != nil {
			return model.RateSnapshot{}, fmt.Errorf("currency %s: %w", v.CharCode, err)
		}
		snapshot.Rates[v.CharCode] = model.CurrencyRate{
			Rate: rate,
			Name: strings.TrimSpace(v.Name),
		}
	}

	return snapshot, nil
}

func unitRate(v Valute) (float64, error) {
	value, err := decimal.NewFromString(strings.Replace(strings.TrimSpace(v.Value), ",", ".", 1))
	if err != nil {
		return 0, fmt.Errorf("invalid value %q: %w", v.Value, err)
	}
	if v.Nominal <= 0 {
		return 0, fmt.Errorf("invalid nominal %d", v.Nominal)
	}
	return value.Div(decimal.NewFromInt(v.Nominal)).InexactFloat64(), nil
}

func charsetReader(label string, input io.Reader) (io.Reader, error) {
	switch strings.ToLower(label) {
	case "windows-1251", "cp1251":
		return charmap.Windows1251.NewDecoder().Reader(input), nil
	case "utf-8", "utf8":
		return input, nil
	default:
		return nil, fmt.Errorf("unsupported charset %q", label)
	}
}
