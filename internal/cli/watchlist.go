package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	apperrors "optionsage/internal/errors"
	"optionsage/internal/models"
)

func addWatchlistCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newWatchlistCmd(app))
}

func newWatchlistCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "watchlist",
		Aliases: []string{"wl"},
		Short:   "Track fundamental analysis worksheets per symbol",
	}

	cmd.AddCommand(newWatchlistListCmd(app))
	cmd.AddCommand(newWatchlistAddCmd(app))
	cmd.AddCommand(newWatchlistShowCmd(app))
	cmd.AddCommand(newWatchlistRemoveCmd(app))
	return cmd
}

func newWatchlistListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List watchlist entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireStore(app); err != nil {
				return err
			}
			output := NewOutput(cmd)

			items := app.Store.GetWatchlist(cmd.Context())
			if output.IsJSON() {
				return output.JSON(items)
			}
			if len(items) == 0 {
				output.Dim("Watchlist is empty. Add a symbol with 'optionsage watchlist add <ticker>'.")
				return nil
			}

			table := NewTable(output, "SYMBOL", "NAME", "ADDED", "AVG VOL", "52W RANGE")
			for _, item := range items {
				table.AddRow(item.Symbol, item.Name, item.DateAdded, item.AvgVolume, item.Range52Week)
			}
			table.Render()
			return nil
		},
	}
}

func findWatchlistItem(items []models.StockFundamentalAnalysis, symbol string) (models.StockFundamentalAnalysis, int) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	for i, item := range items {
		if item.Symbol == symbol {
			return item, i
		}
	}
	return models.StockFundamentalAnalysis{}, -1
}

func newWatchlistAddCmd(app *App) *cobra.Command {
	var fetchQuote, aiFill bool
	var notes string

	cmd := &cobra.Command{
		Use:   "add <symbol>",
		Short: "Add a symbol, optionally pre-filled from Tradier and the AI",
		Long: `Add a symbol to the watchlist as a fundamental analysis worksheet.

With --quote, live quote data from Tradier fills the name, average volume
and 52 week range. With --ai, the AI model drafts the remaining worksheet
fields. Both are best effort; whatever fails is left blank for you to fill.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireStore(app); err != nil {
				return err
			}
			ctx := cmd.Context()
			output := NewOutput(cmd)
			symbol := strings.ToUpper(strings.TrimSpace(args[0]))
			if symbol == "" {
				return fmt.Errorf("symbol is required")
			}

			items := app.Store.GetWatchlist(ctx)
			if _, idx := findWatchlistItem(items, symbol); idx >= 0 {
				return fmt.Errorf("%s is already on the watchlist", symbol)
			}

			item := models.StockFundamentalAnalysis{
				ID:        models.NewID(),
				Symbol:    symbol,
				Name:      symbol,
				DateAdded: time.Now().Format("2006-01-02"),
				Notes:     notes,
			}

			if aiFill {
				if app.Gateway == nil {
					return fmt.Errorf("--ai requires an OpenAI key: %w", apperrors.ErrNoAPIKey)
				}
				drafted, err := app.Gateway.GetStockFundamentals(ctx, symbol)
				if err != nil {
					output.Warning("AI worksheet draft failed: %v", err)
				} else {
					drafted.ID = item.ID
					drafted.Symbol = symbol
					drafted.DateAdded = item.DateAdded
					if notes != "" {
						drafted.Notes = notes
					}
					item = drafted
				}
			}

			if fetchQuote {
				if app.Market == nil {
					return fmt.Errorf("--quote requires a Tradier key: %w", apperrors.ErrNoAPIKey)
				}
				quote, err := app.Market.GetQuoteData(ctx, symbol)
				if err != nil {
					output.Warning("Quote lookup failed: %v", err)
				} else {
					// Live quote data wins over AI guesses for the fields it covers.
					item.Name = quote.Name
					item.AvgVolume = quote.AvgVolume
					item.Range52Week = quote.Range52Week
				}
			}

			updated := append([]models.StockFundamentalAnalysis{item}, items...)
			app.Store.SaveWatchlist(ctx, updated)
			if output.IsJSON() {
				return output.JSON(updated)
			}
			output.Success("Added %s to the watchlist (%d entries)", symbol, len(updated))
			return nil
		},
	}

	cmd.Flags().BoolVar(&fetchQuote, "quote", false, "fill quote fields from Tradier")
	cmd.Flags().BoolVar(&aiFill, "ai", false, "draft the worksheet with the AI model")
	cmd.Flags().StringVar(&notes, "notes", "", "free-form notes")
	return cmd
}

func newWatchlistShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <symbol>",
		Short: "Show a worksheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireStore(app); err != nil {
				return err
			}
			items := app.Store.GetWatchlist(cmd.Context())
			item, idx := findWatchlistItem(items, args[0])
			if idx < 0 {
				return fmt.Errorf("%s: %w", strings.ToUpper(args[0]), apperrors.ErrSymbolNotFound)
			}

			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(item)
			}
			renderWatchlistItem(output, item)
			return nil
		},
	}
}

func renderWatchlistItem(output *Output, item models.StockFundamentalAnalysis) {
	output.Bold("%s - %s", item.Symbol, item.Name)
	output.Printf("Added: %s\n", item.DateAdded)
	output.Println()

	if item.Overview != "" {
		output.Printf("%s\n\n", item.Overview)
	}

	table := NewTable(output, "FIELD", "VALUE")
	table.AddRow("Avg Volume", item.AvgVolume)
	table.AddRow("Inst. Ownership", item.InstitutionalOwnership)
	table.AddRow("Earnings Date", item.EarningsDate)
	table.AddRow("52 Week Range", item.Range52Week)
	table.AddRow("Debt/Equity", item.DebtToEquity)
	table.AddRow("P/E Ratio", item.PERatio)
	table.AddRow("Dividend", item.Dividend)
	table.AddRow("Intrinsic Value", item.IntrinsicValue)
	table.AddRow("Analyst Target", item.AnalystTargetPrice)
	table.AddRow("ROIC / ROA / ROE", fmt.Sprintf("%s / %s / %s", item.Management.ROIC, item.Management.ROA, item.Management.ROE))
	table.AddRow("Growth (next yr)", item.Growth.NextYear)
	table.AddRow("Growth (next 5y)", item.Growth.Next5Years)
	table.Render()

	if item.Notes != "" {
		output.Println()
		output.Bold("Notes")
		output.Printf("%s\n", item.Notes)
	}
}

func newWatchlistRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <symbol>",
		Aliases: []string{"rm"},
		Short:   "Remove a symbol from the watchlist",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireStore(app); err != nil {
				return err
			}
			ctx := cmd.Context()
			items := app.Store.GetWatchlist(ctx)
			_, idx := findWatchlistItem(items, args[0])
			if idx < 0 {
				return fmt.Errorf("%s: %w", strings.ToUpper(args[0]), apperrors.ErrSymbolNotFound)
			}

			remaining := append(items[:idx:idx], items[idx+1:]...)
			app.Store.SaveWatchlist(ctx, remaining)

			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(remaining)
			}
			output.Success("Removed %s (%d remaining)", strings.ToUpper(args[0]), len(remaining))
			return nil
		},
	}
}
