package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	apperrors "optionsage/internal/errors"
	"optionsage/internal/models"
	"optionsage/internal/wizard"
)

func requireWizard(app *App) error {
	if err := requireStore(app); err != nil {
		return err
	}
	if app.Wizard == nil {
		return fmt.Errorf("AI features disabled: %w", apperrors.ErrNoAPIKey)
	}
	return nil
}

func addPlanCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newPlanCmd(app))
}

func newPlanCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Build 6-step trading plans with AI coach review",
		Long: `Build graduation trading plans following the 6-step process:

  1. Determine direction (fundamentals, technicals, sentiment)
  2. Analyze possibilities (IV environment, candidate strategies)
  3. Structure the trade (strategy, strikes, expiration)
  4. Plan the exits (primary and secondary)
  5. Place the trade
  6. Monitor and review

Steps may be filled in any order. Once a plan reaches step 6, ask the AI
coach for a review; the critique is merged into the plan and it is graded.`,
	}

	cmd.AddCommand(newPlanListCmd(app))
	cmd.AddCommand(newPlanNewCmd(app))
	cmd.AddCommand(newPlanStepCmds(app)...)
	cmd.AddCommand(newPlanViewCmd(app))
	cmd.AddCommand(newPlanReviewCmd(app))
	cmd.AddCommand(newPlanDeleteCmd(app))
	return cmd
}

func newPlanListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved plans, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireStore(app); err != nil {
				return err
			}
			output := NewOutput(cmd)

			plans := app.Store.GetPlans(cmd.Context())
			if output.IsJSON() {
				return output.JSON(plans)
			}
			if len(plans) == 0 {
				output.Dim("No plans yet. Run 'optionsage plan new --symbol <ticker>' to start one.")
				return nil
			}

			table := NewTable(output, "ID", "SYMBOL", "DATE", "STATUS", "STRATEGY")
			for _, p := range plans {
				table.AddRow(p.ID, p.Symbol, p.Date, output.StatusString(string(p.Status)), p.Step3.SelectedStrategy)
			}
			table.Render()
			return nil
		},
	}
}

func newPlanNewCmd(app *App) *cobra.Command {
	var symbol string

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Start a new draft plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireWizard(app); err != nil {
				return err
			}
			app.Wizard.CreateNew()
			if symbol != "" {
				app.Wizard.SetSymbol(symbol)
			}
			plans, err := app.Wizard.SaveDraft(cmd.Context())
			if err != nil {
				return err
			}

			plan := plans[0]
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(plan)
			}
			output.Success("Created draft plan %s (%s)", plan.ID, plan.Symbol)
			output.Dim("Fill it in with 'optionsage plan step1 %s ...' and so on.", plan.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&symbol, "symbol", "", "underlying ticker")
	return cmd
}

// withDraft loads a plan into the wizard editor, applies fn, and persists.
func withDraft(app *App, cmd *cobra.Command, id string, fn func(w *wizard.Wizard)) (models.TradingPlan, error) {
	if err := requireWizard(app); err != nil {
		return models.TradingPlan{}, err
	}
	if err := app.Wizard.Edit(cmd.Context(), id); err != nil {
		return models.TradingPlan{}, err
	}
	fn(app.Wizard)
	if _, err := app.Wizard.SaveDraft(cmd.Context()); err != nil {
		return models.TradingPlan{}, err
	}
	return *app.Wizard.Draft(), nil
}

func reportPlanSaved(cmd *cobra.Command, plan models.TradingPlan, section string) error {
	output := NewOutput(cmd)
	if output.IsJSON() {
		return output.JSON(plan)
	}
	output.Success("Updated %s of plan %s (%s)", section, plan.ID, plan.Symbol)
	return nil
}

func newPlanStepCmds(app *App) []*cobra.Command {
	var cmds []*cobra.Command

	// symbol
	{
		cmd := &cobra.Command{
			Use:   "symbol <plan-id> <ticker>",
			Short: "Set the plan's underlying symbol",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				plan, err := withDraft(app, cmd, args[0], func(w *wizard.Wizard) {
					w.SetSymbol(args[1])
				})
				if err != nil {
					return err
				}
				return reportPlanSaved(cmd, plan, "symbol")
			},
		}
		cmds = append(cmds, cmd)
	}

	// step1
	{
		var fundamentals, technicals, sentiment, conclusion string
		cmd := &cobra.Command{
			Use:   "step1 <plan-id>",
			Short: "Step 1: determine direction",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				dir, err := parseDirection(conclusion)
				if err != nil {
					return err
				}
				plan, err := withDraft(app, cmd, args[0], func(w *wizard.Wizard) {
					w.SetStep1(models.Step1{
						Fundamentals: fundamentals,
						Technicals:   technicals,
						Sentiment:    sentiment,
						Conclusion:   dir,
					})
				})
				if err != nil {
					return err
				}
				return reportPlanSaved(cmd, plan, "step 1")
			},
		}
		cmd.Flags().StringVar(&fundamentals, "fundamentals", "", "fundamental analysis")
		cmd.Flags().StringVar(&technicals, "technicals", "", "technical analysis")
		cmd.Flags().StringVar(&sentiment, "sentiment", "", "market sentiment read")
		cmd.Flags().StringVar(&conclusion, "conclusion", "Neutral", "Bullish, Bearish, Neutral, or Stagnant")
		cmds = append(cmds, cmd)
	}

	// step2
	{
		var iv string
		var strategies []string
		cmd := &cobra.Command{
			Use:   "step2 <plan-id>",
			Short: "Step 2: analyze possibilities",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				level, err := parseIVLevel(iv)
				if err != nil {
					return err
				}
				plan, err := withDraft(app, cmd, args[0], func(w *wizard.Wizard) {
					w.SetStep2(models.Step2{
						ImpliedVolatility:   level,
						CandidateStrategies: strategies,
					})
				})
				if err != nil {
					return err
				}
				return reportPlanSaved(cmd, plan, "step 2")
			},
		}
		cmd.Flags().StringVar(&iv, "iv", "Medium", "implied volatility environment: Low, Medium, High")
		cmd.Flags().StringSliceVar(&strategies, "strategy", nil, "candidate strategy (repeatable)")
		cmds = append(cmds, cmd)
	}

	// step3
	{
		var strategy, strikes, expiration, riskReward string
		cmd := &cobra.Command{
			Use:   "step3 <plan-id>",
			Short: "Step 3: structure the trade",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				plan, err := withDraft(app, cmd, args[0], func(w *wizard.Wizard) {
					w.SetStep3(models.Step3{
						SelectedStrategy: strategy,
						Strikes:          strikes,
						Expiration:       expiration,
						RiskRewardRatio:  riskReward,
					})
				})
				if err != nil {
					return err
				}
				return reportPlanSaved(cmd, plan, "step 3")
			},
		}
		cmd.Flags().StringVar(&strategy, "strategy", "", "selected strategy")
		cmd.Flags().StringVar(&strikes, "strikes", "", "strike selection")
		cmd.Flags().StringVar(&expiration, "expiration", "", "expiration selection")
		cmd.Flags().StringVar(&riskReward, "risk-reward", "", "risk/reward ratio")
		cmds = append(cmds, cmd)
	}

	// step4
	{
		var primary, bullish, bearish string
		cmd := &cobra.Command{
			Use:   "step4 <plan-id>",
			Short: "Step 4: plan the exits",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				plan, err := withDraft(app, cmd, args[0], func(w *wizard.Wizard) {
					w.SetStep4(models.Step4{
						PrimaryExit:          primary,
						SecondaryExitBullish: bullish,
						SecondaryExitBearish: bearish,
					})
				})
				if err != nil {
					return err
				}
				return reportPlanSaved(cmd, plan, "step 4")
			},
		}
		cmd.Flags().StringVar(&primary, "primary", "", "primary exit")
		cmd.Flags().StringVar(&bullish, "secondary-bullish", "", "secondary exit if the stock runs up")
		cmd.Flags().StringVar(&bearish, "secondary-bearish", "", "secondary exit if the stock drops")
		cmds = append(cmds, cmd)
	}

	// step5-6
	{
		var placement, monitoring string
		cmd := &cobra.Command{
			Use:   "step56 <plan-id>",
			Short: "Steps 5-6: placement and monitoring",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				plan, err := withDraft(app, cmd, args[0], func(w *wizard.Wizard) {
					w.SetStep56(models.Step56{
						PlacementNotes: placement,
						MonitoringPlan: monitoring,
					})
				})
				if err != nil {
					return err
				}
				return reportPlanSaved(cmd, plan, "steps 5-6")
			},
		}
		cmd.Flags().StringVar(&placement, "placement", "", "order placement notes")
		cmd.Flags().StringVar(&monitoring, "monitoring", "", "monitoring plan")
		cmds = append(cmds, cmd)
	}

	return cmds
}

func parseDirection(s string) (models.Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bullish":
		return models.DirectionBullish, nil
	case "bearish":
		return models.DirectionBearish, nil
	case "neutral", "":
		return models.DirectionNeutral, nil
	case "stagnant":
		return models.DirectionStagnant, nil
	}
	return "", fmt.Errorf("unknown direction %q (Bullish, Bearish, Neutral, Stagnant)", s)
}

func parseIVLevel(s string) (models.IVLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return models.IVLow, nil
	case "medium", "":
		return models.IVMedium, nil
	case "high":
		return models.IVHigh, nil
	}
	return "", fmt.Errorf("unknown IV level %q (Low, Medium, High)", s)
}

func newPlanViewCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "view <plan-id>",
		Short: "Render a plan as a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireWizard(app); err != nil {
				return err
			}
			if err := app.Wizard.ViewDocument(cmd.Context(), args[0]); err != nil {
				return err
			}
			plan := app.Wizard.Draft()

			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(plan)
			}
			renderPlanDocument(output, plan)
			return nil
		},
	}
}

func renderPlanDocument(output *Output, plan *models.TradingPlan) {
	output.Bold("Trading Plan: %s", plan.Symbol)
	output.Printf("Date: %s    Status: %s\n", plan.Date, output.StatusString(string(plan.Status)))
	output.Println()

	output.Bold("Step 1 - Direction")
	output.Printf("  Fundamentals: %s\n", plan.Step1.Fundamentals)
	output.Printf("  Technicals:   %s\n", plan.Step1.Technicals)
	output.Printf("  Sentiment:    %s\n", plan.Step1.Sentiment)
	output.Printf("  Conclusion:   %s\n", plan.Step1.Conclusion)
	output.Println()

	output.Bold("Step 2 - Possibilities")
	output.Printf("  IV environment: %s\n", plan.Step2.ImpliedVolatility)
	output.Printf("  Candidates:     %s\n", strings.Join(plan.Step2.CandidateStrategies, ", "))
	output.Println()

	output.Bold("Step 3 - Structure")
	output.Printf("  Strategy:    %s\n", plan.Step3.SelectedStrategy)
	output.Printf("  Strikes:     %s\n", plan.Step3.Strikes)
	output.Printf("  Expiration:  %s\n", plan.Step3.Expiration)
	output.Printf("  Risk/Reward: %s\n", plan.Step3.RiskRewardRatio)
	output.Println()

	output.Bold("Step 4 - Exits")
	output.Printf("  Primary:            %s\n", plan.Step4.PrimaryExit)
	output.Printf("  Secondary (bull):   %s\n", plan.Step4.SecondaryExitBullish)
	output.Printf("  Secondary (bear):   %s\n", plan.Step4.SecondaryExitBearish)
	output.Println()

	output.Bold("Steps 5-6 - Placement & Monitoring")
	output.Printf("  Placement:  %s\n", plan.Step56.PlacementNotes)
	output.Printf("  Monitoring: %s\n", plan.Step56.MonitoringPlan)

	if plan.Reviewed() {
		output.Println()
		output.Bold("Coach Feedback")
		output.Markdown(plan.AIFeedback)
	}
}

func newPlanReviewCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "review <plan-id>",
		Short: "Ask the AI coach to review and grade a plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireWizard(app); err != nil {
				return err
			}
			if err := app.Wizard.Edit(cmd.Context(), args[0]); err != nil {
				return err
			}
			if err := app.Wizard.GoToStep(wizard.LastStep); err != nil {
				return err
			}

			output := NewOutput(cmd)
			if !output.IsJSON() {
				output.Info("Asking the AI coach to review the plan...")
			}
			if err := app.Wizard.RequestReview(cmd.Context()); err != nil {
				return err
			}

			plan := app.Wizard.Draft()
			if output.IsJSON() {
				return output.JSON(plan)
			}
			output.Success("Plan %s graded", plan.ID)
			output.Println()
			output.Markdown(plan.AIFeedback)
			return nil
		},
	}
}

func newPlanDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <plan-id>",
		Short: "Delete a plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireStore(app); err != nil {
				return err
			}
			updated := app.Store.DeletePlan(cmd.Context(), args[0])
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(updated)
			}
			output.Success("Deleted plan %s (%d remaining)", args[0], len(updated))
			return nil
		},
	}
}
