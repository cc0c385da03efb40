package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"funmoney/internal/client"
	"funmoney/internal/models"
)

var (
	flagBudgetName   string
	flagBudgetAmount string
	flagBudgetDays   int
	flagBudgetStart  string
)

var budgetsCmd = &cobra.Command{
	Use:   "budgets",
	Short: "Manage budgets",
}

var budgetsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all budgets in creation order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		c, err := newClient()
		if err != nil {
			return err
		}

		budgets, err := c.ListBudgets(ctx)
		if err != nil {
			return err
		}
		if len(budgets) == 0 {
			fmt.Println("No budgets yet; create one with 'funmoney budgets create'")
			return nil
		}
		for i, b := range budgets {
			fmt.Printf("%d. %s  %s every %d days, period since %s  (%s)\n",
				i+1, b.Name, FormatMoney(b.PayPeriodAmount), b.PayPeriodDays, FormatDate(b.CurrentPeriodStart), b.ID)
		}
		return nil
	},
}

var budgetsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new recurring pay-period budget",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		c, err := newClient()
		if err != nil {
			return err
		}

		start := flagBudgetStart
		if start == "" {
			start = models.Today().String()
		}

		budget, err := c.CreateBudget(ctx, client.CreateBudgetRequest{
			Name:               flagBudgetName,
			PayPeriodAmount:    flagBudgetAmount,
			PayPeriodDays:      flagBudgetDays,
			CurrentPeriodStart: start,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Created %s: %s every %d days starting %s\n",
			budget.Name, FormatMoney(budget.PayPeriodAmount), budget.PayPeriodDays, FormatDate(budget.CurrentPeriodStart))
		return nil
	},
}

var budgetsSetAmountCmd = &cobra.Command{
	Use:   "set-amount <budget> <amount>",
	Short: "Change how much the budget gets each pay period",
	Long:  "Change the per-period amount. The new amount applies to the current period immediately; past savings entries are untouched.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		c, err := newClient()
		if err != nil {
			return err
		}

		budget, err := selectBudget(ctx, c, args[0])
		if err != nil {
			return err
		}

		updated, err := c.SetBudgetAmount(ctx, budget.ID, args[1])
		if err != nil {
			return err
		}
		fmt.Printf("%s now gets %s per period\n", updated.Name, FormatMoney(updated.PayPeriodAmount))
		return nil
	},
}

var budgetsDeleteCmd = &cobra.Command{
	Use:   "delete <budget>",
	Short: "Delete a budget and all of its expenses and savings",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		c, err := newClient()
		if err != nil {
			return err
		}

		budget, err := selectBudget(ctx, c, args[0])
		if err != nil {
			return err
		}

		if err := c.DeleteBudget(ctx, budget.ID); err != nil {
			return err
		}
		fmt.Printf("Deleted %s\n", budget.Name)
		return nil
	},
}

func init() {
	budgetsCreateCmd.Flags().StringVarP(&flagBudgetName, "name", "n", "", "Budget name")
	budgetsCreateCmd.Flags().StringVarP(&flagBudgetAmount, "amount", "a", "", "Amount per pay period, e.g. 200.00")
	budgetsCreateCmd.Flags().IntVarP(&flagBudgetDays, "days", "d", 14, "Pay period length in days")
	budgetsCreateCmd.Flags().StringVarP(&flagBudgetStart, "start", "s", "", "First period start date (YYYY-MM-DD, default today)")
	_ = budgetsCreateCmd.MarkFlagRequired("name")
	_ = budgetsCreateCmd.MarkFlagRequired("amount")

	budgetsCmd.AddCommand(budgetsListCmd)
	budgetsCmd.AddCommand(budgetsCreateCmd)
	budgetsCmd.AddCommand(budgetsSetAmountCmd)
	budgetsCmd.AddCommand(budgetsDeleteCmd)
	rootCmd.AddCommand(budgetsCmd)
}
