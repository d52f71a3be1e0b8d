package marketdata

import (
	"context"
	"encoding/csv"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	apperrors "md-journal/internal/errors"
	"md-journal/internal/logging"
	"md-journal/internal/models"
	"md-journal/pkg/utils"
)

// Client fetches daily bars from a CSV download endpoint. Each request is a
// single GET per symbol; there is no caching and no retry, so repeated calls
// re-fetch.
type Client struct {
	http   *resty.Client
	logger zerolog.Logger
}

// ClientConfig holds client settings.
type ClientConfig struct {
	BaseURL string
	Timeout time.Duration
}

// NewClient creates a new daily-bars client.
func NewClient(cfg ClientConfig, logger zerolog.Logger) *Client {
	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout)

	return &Client{
		http:   httpClient,
		logger: logger,
	}
}

// Fetch retrieves daily bars for every symbol over [start, end]. A symbol
// the provider has no data for maps to an empty slice. The first transport
// failure aborts the batch; per-symbol empties do not.
func (c *Client) Fetch(ctx context.Context, symbols []string, start, end time.Time) (map[string][]models.Bar, error) {
	began := time.Now()
	result := make(map[string][]models.Bar, len(symbols))
	total := 0

	for _, symbol := range symbols {
		bars, err := c.fetchSymbol(ctx, symbol, start, end)
		if err != nil {
			logging.LogFetch(c.logger, symbols, start, end, total, time.Since(began), err)
			return nil, err
		}
		result[symbol] = bars
		total += len(bars)
	}

	logging.LogFetch(c.logger, symbols, start, end, total, time.Since(began), nil)
	return result, nil
}

func (c *Client) fetchSymbol(ctx context.Context, symbol string, start, end time.Time) ([]models.Bar, error) {
	window := utils.FormatDate(start) + ".." + utils.FormatDate(end)

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"symbol":   symbol,
			"period1":  strconv.FormatInt(utils.Midnight(start).Unix(), 10),
			"period2":  strconv.FormatInt(utils.Midnight(end).AddDate(0, 0, 1).Unix(), 10),
			"interval": "1d",
			"events":   "history",
		}).
		Get("")
	if err != nil {
		return nil, apperrors.NewDataError(symbol, window,
			"request failed: "+err.Error(), apperrors.ErrRetrievalFailure)
	}

	switch {
	case resp.StatusCode() == http.StatusNotFound:
		// No history for the symbol/range. Empty, not an error.
		return nil, nil
	case resp.StatusCode() != http.StatusOK:
		return nil, apperrors.NewDataError(symbol, window,
			"unexpected status "+strconv.Itoa(resp.StatusCode()), apperrors.ErrRetrievalFailure)
	}

	bars, err := parseBars(strings.NewReader(resp.String()))
	if err != nil {
		return nil, apperrors.NewDataError(symbol, window, "malformed response", err)
	}
	return bars, nil
}

// parseBars decodes a Date,Open,High,Low,Close[,Adj Close],Volume CSV body.
// Header order is taken from the header row; rows with an unparseable
// close are dropped (the provider marks holidays with "null" fields).
func parseBars(r io.Reader) ([]models.Bar, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	dateIdx, ok := cols["date"]
	if !ok {
		return nil, apperrors.ErrRetrievalFailure
	}

	var bars []models.Bar
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		date, err := utils.ParseDate(field(record, dateIdx))
		if err != nil {
			continue
		}

		closePrice, err := parsePrice(field(record, cols["close"]))
		if err != nil {
			continue
		}

		bar := models.Bar{
			Date:  utils.Midnight(date),
			Close: closePrice,
		}
		if v, err := parsePrice(field(record, cols["open"])); err == nil {
			bar.Open = v
		}
		if v, err := parsePrice(field(record, cols["high"])); err == nil {
			bar.High = v
		}
		if v, err := parsePrice(field(record, cols["low"])); err == nil {
			bar.Low = v
		}
		if idx, ok := cols["adj close"]; ok {
			if v, err := parsePrice(field(record, idx)); err == nil {
				bar.AdjClose = v
			}
		}
		if idx, ok := cols["volume"]; ok {
			if v, err := strconv.ParseInt(field(record, idx), 10, 64); err == nil {
				bar.Volume = v
			}
		}

		bars = append(bars, bar)
	}

	return bars, nil
}

func field(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

func parsePrice(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}
