package marketdata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	apperrors "md-journal/internal/errors"
)

func newTestClient(url string) *Client {
	return NewClient(ClientConfig{BaseURL: url, Timeout: 5 * time.Second}, zerolog.Nop())
}

func TestClientFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("symbol") {
		case "SPY":
			w.Write([]byte("Date,Open,High,Low,Close,Adj Close,Volume\n" +
				"2026-08-24,100,102,99,101,100.5,123456\n" +
				"2026-08-25,101,103,100,102,101.4,234567\n"))
		case "^VIX":
			// No adjusted close column.
			w.Write([]byte("Date,Open,High,Low,Close,Volume\n" +
				"2026-08-24,15,16,14,15.5,0\n"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	bars, err := client.Fetch(context.Background(),
		[]string{"SPY", "^VIX", "MISSING"}, day(2026, 8, 24), day(2026, 8, 25))
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if len(bars["SPY"]) != 2 {
		t.Fatalf("SPY bars = %d, want 2", len(bars["SPY"]))
	}
	if got := bars["SPY"][0].EffectiveClose(); got != 100.5 {
		t.Errorf("SPY adjusted close = %v, want 100.5", got)
	}
	if got := bars["SPY"][1].Volume; got != 234567 {
		t.Errorf("SPY volume = %d", got)
	}

	if len(bars["^VIX"]) != 1 {
		t.Fatalf("^VIX bars = %d, want 1", len(bars["^VIX"]))
	}
	if got := bars["^VIX"][0].EffectiveClose(); got != 15.5 {
		t.Errorf("^VIX close without adjusted column = %v, want 15.5", got)
	}

	// A 404 is an empty result, not an error.
	if got := bars["MISSING"]; len(got) != 0 {
		t.Errorf("missing symbol bars = %d, want 0", len(got))
	}
}

func TestClientServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Fetch(context.Background(), []string{"SPY"}, day(2026, 8, 24), day(2026, 8, 25))
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
	if !apperrors.Is(err, apperrors.ErrRetrievalFailure) {
		t.Errorf("error not classified as retrieval failure: %v", err)
	}
	var dataErr *apperrors.DataError
	if !apperrors.As(err, &dataErr) || dataErr.Symbol != "SPY" {
		t.Errorf("expected DataError for SPY, got %v", err)
	}
}

func TestParseBarsSkipsNullRows(t *testing.T) {
	body := "Date,Open,High,Low,Close,Adj Close,Volume\n" +
		"2026-08-24,100,102,99,101,100.5,123456\n" +
		"2026-08-25,null,null,null,null,null,null\n" +
		"2026-08-26,102,104,101,103,102.6,345678\n"

	bars, err := parseBars(strings.NewReader(body))
	if err != nil {
		t.Fatalf("parseBars failed: %v", err)
	}
	if len(bars) != 2 {
		t.Fatalf("bars = %d, want 2 (null row dropped)", len(bars))
	}
	if bars[1].Close != 103 {
		t.Errorf("second bar close = %v", bars[1].Close)
	}
}

func TestParseBarsEmptyBody(t *testing.T) {
	bars, err := parseBars(strings.NewReader(""))
	if err != nil {
		t.Fatalf("parseBars on empty body: %v", err)
	}
	if len(bars) != 0 {
		t.Errorf("bars = %d, want 0", len(bars))
	}
}
