// Package market fetches quote data from the Tradier brokerage API to
// pre-fill watchlist research worksheets.
package market

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	apperrors "optionsage/internal/errors"
	"optionsage/internal/models"
	"optionsage/pkg/utils"
)

const defaultBaseURL = "https://api.tradier.com/v1"

// Client is a Tradier market data client.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a Tradier client using the given API key.
func NewClient(apiKey string, logger zerolog.Logger) *Client {
	return &Client{
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     logger.With().Str("component", "market").Logger(),
	}
}

// NewClientWithBaseURL creates a client against a non-default endpoint,
// e.g. the Tradier sandbox or a test server.
func NewClientWithBaseURL(apiKey, baseURL string, logger zerolog.Logger) *Client {
	c := NewClient(apiKey, logger)
	c.baseURL = baseURL
	return c
}

// quoteResponse models the subset of the Tradier quotes payload we read.
// Tradier returns an object for a single symbol and an array for several,
// so the inner field needs custom decoding.
type quoteResponse struct {
	Quotes struct {
		Quote quoteList `json:"quote"`
	} `json:"quotes"`
}

type quote struct {
	Symbol        string  `json:"symbol"`
	Description   string  `json:"description"`
	AverageVolume float64 `json:"average_volume"`
	Week52High    float64 `json:"week_52_high"`
	Week52Low     float64 `json:"week_52_low"`
}

type quoteList []quote

func (q *quoteList) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '[' {
		var list []quote
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		*q = list
		return nil
	}
	var single quote
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	*q = quoteList{single}
	return nil
}

// GetQuoteData fetches the standard quote for a symbol and maps it onto a
// partial watchlist worksheet: symbol, company name, compact average volume,
// and the 52-week range. Everything else stays empty for the student or the
// AI gateway to fill.
func (c *Client) GetQuoteData(ctx context.Context, symbol string) (models.StockFundamentalAnalysis, error) {
	symbol = models.NormalizeSymbol(symbol)

	endpoint := fmt.Sprintf("%s/markets/quotes?symbols=%s", c.baseURL, url.QueryEscape(symbol))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return models.StockFundamentalAnalysis{}, &apperrors.QuoteError{Symbol: symbol, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return models.StockFundamentalAnalysis{}, &apperrors.QuoteError{Symbol: symbol, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn().Str("symbol", symbol).Int("status", resp.StatusCode).Msg("Tradier quote request failed")
		return models.StockFundamentalAnalysis{}, &apperrors.QuoteError{
			Symbol:     symbol,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("tradier API error: %s", resp.Status),
		}
	}

	var payload quoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return models.StockFundamentalAnalysis{}, &apperrors.QuoteError{Symbol: symbol, Err: err}
	}
	if len(payload.Quotes.Quote) == 0 || payload.Quotes.Quote[0].Symbol == "" {
		return models.StockFundamentalAnalysis{}, &apperrors.QuoteError{Symbol: symbol, Err: apperrors.ErrSymbolNotFound}
	}

	q := payload.Quotes.Quote[0]
	name := q.Description
	if name == "" {
		name = symbol
	}
	avgVolume := "N/A"
	if q.AverageVolume > 0 {
		avgVolume = utils.FormatCompactNumber(q.AverageVolume)
	}

	return models.StockFundamentalAnalysis{
		Symbol:      q.Symbol,
		Name:        name,
		AvgVolume:   avgVolume,
		Range52Week: fmt.Sprintf("%s - %s", utils.FormatCurrency(q.Week52Low), utils.FormatCurrency(q.Week52High)),
	}, nil
}
