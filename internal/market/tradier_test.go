package market

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	apperrors "optionsage/internal/errors"
)

func TestGetQuoteDataMapsQuote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Missing bearer auth, got %q", got)
		}
		if got := r.URL.Query().Get("symbols"); got != "AAPL" {
			t.Errorf("Expected symbols=AAPL, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"quotes":{"quote":{
			"symbol":"AAPL",
			"description":"Apple Inc",
			"average_volume":52500000,
			"week_52_low":164.08,
			"week_52_high":237.23
		}}}`))
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("test-key", srv.URL, zerolog.Nop())
	got, err := c.GetQuoteData(context.Background(), " aapl ")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got.Symbol != "AAPL" || got.Name != "Apple Inc" {
		t.Errorf("Identity mismatch: %+v", got)
	}
	if got.AvgVolume != "52.50M" {
		t.Errorf("AvgVolume = %q, want 52.50M", got.AvgVolume)
	}
	if got.Range52Week != "$164.08 - $237.23" {
		t.Errorf("Range52Week = %q", got.Range52Week)
	}
}

func TestGetQuoteDataArrayPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"quotes":{"quote":[{"symbol":"MSFT","description":"Microsoft Corp","average_volume":2500}]}}`))
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("k", srv.URL, zerolog.Nop())
	got, err := c.GetQuoteData(context.Background(), "MSFT")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got.Symbol != "MSFT" || got.AvgVolume != "2.50K" {
		t.Errorf("Unexpected mapping: %+v", got)
	}
}

func TestGetQuoteDataSymbolNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"quotes":{"quote":[]}}`))
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("k", srv.URL, zerolog.Nop())
	_, err := c.GetQuoteData(context.Background(), "ZZZZ")
	if !errors.Is(err, apperrors.ErrSymbolNotFound) {
		t.Fatalf("Expected ErrSymbolNotFound, got %v", err)
	}
}

func TestGetQuoteDataServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("bad", srv.URL, zerolog.Nop())
	_, err := c.GetQuoteData(context.Background(), "AAPL")
	var qerr *apperrors.QuoteError
	if !errors.As(err, &qerr) {
		t.Fatalf("Expected QuoteError, got %v", err)
	}
	if qerr.StatusCode != http.StatusUnauthorized {
		t.Errorf("StatusCode = %d, want 401", qerr.StatusCode)
	}
}

func TestGetQuoteDataMissingVolume(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"quotes":{"quote":{"symbol":"NEWIPO","description":"New Listing"}}}`))
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("k", srv.URL, zerolog.Nop())
	got, err := c.GetQuoteData(context.Background(), "NEWIPO")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got.AvgVolume != "N/A" {
		t.Errorf("AvgVolume = %q, want N/A", got.AvgVolume)
	}
}
