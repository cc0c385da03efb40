// Package cli implements the funmoney terminal client.
package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"funmoney/internal/client"
	"funmoney/internal/identity"
	"funmoney/internal/uuid"
)

var (
	flagConfig string
	flagAPIURL string
)

var rootCmd = &cobra.Command{
	Use:   "funmoney",
	Short: "Personal pay-period budgeting CLI",
	Long:  "Track recurring pay-period budgets, log expenses against the active period, and watch unspent balance roll into savings.",
	RunE:  runView,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", identity.DefaultPath(), "Path to the config file")
	rootCmd.PersistentFlags().StringVar(&flagAPIURL, "api-url", "", "API base URL (overrides config)")
}

// newClient loads the persisted identity and builds an API client for it.
// A fresh user ID is generated and saved on first run.
func newClient() (*client.FunMoney, error) {
	cfg, err := identity.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("loading identity: %w", err)
	}

	apiURL := cfg.APIURL
	if flagAPIURL != "" {
		apiURL = flagAPIURL
	}

	httpClient := &http.Client{Timeout: 15 * time.Second}
	return client.NewFunMoney(apiURL, cfg.UserID, httpClient), nil
}

// selectBudget resolves arg to one of the user's budgets. A budget ID is
// matched directly; a number is treated as a 1-based position and clamped
// into range, so "0" and "99" select the first and last budget. An empty
// arg selects the first budget.
func selectBudget(ctx context.Context, c *client.FunMoney, arg string) (*client.Budget, error) {
	budgets, err := c.ListBudgets(ctx)
	if err != nil {
		return nil, err
	}
	if len(budgets) == 0 {
		return nil, fmt.Errorf("no budgets yet; create one with 'funmoney budgets create'")
	}

	if uuid.IsValid(arg) {
		for i := range budgets {
			if budgets[i].ID == arg {
				return &budgets[i], nil
			}
		}
		return nil, fmt.Errorf("no budget with id %s", arg)
	}

	idx := 1
	if arg != "" {
		idx, err = strconv.Atoi(arg)
		if err != nil {
			return nil, fmt.Errorf("budget must be a position or an id, got %q", arg)
		}
	}
	if idx < 1 {
		idx = 1
	}
	if idx > len(budgets) {
		idx = len(budgets)
	}
	return &budgets[idx-1], nil
}

// activateBudget performs the selection-time rollover check. When the
// budget's period has elapsed the server closes it out; the returned budget
// always carries the current period start, so expense stamps stay fresh.
func activateBudget(ctx context.Context, c *client.FunMoney, budget *client.Budget) (*client.Budget, error) {
	outcome, err := c.Rollover(ctx, budget.ID)
	if err != nil {
		return nil, err
	}
	if outcome.RolledOver {
		if outcome.Savings != nil {
			fmt.Printf("Pay period ended: %s moved to savings\n", FormatMoney(outcome.Savings.Amount))
		} else {
			fmt.Println("Pay period ended with nothing left over")
		}
	}
	return outcome.Budget, nil
}
