package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var viewCmd = &cobra.Command{
	Use:   "view [budget]",
	Short: "Show a budget's current period, expenses, and savings",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runView,
}

func init() {
	rootCmd.AddCommand(viewCmd)
}

func runView(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	c, err := newClient()
	if err != nil {
		return err
	}

	arg := ""
	if len(args) > 0 {
		arg = args[0]
	}
	budget, err := selectBudget(ctx, c, arg)
	if err != nil {
		return err
	}
	budget, err = activateBudget(ctx, c, budget)
	if err != nil {
		return err
	}

	balance, err := c.GetBalance(ctx, budget.ID)
	if err != nil {
		return err
	}

	fmt.Printf("\n%s\n", budget.Name)
	fmt.Printf("Period %s to %s (%d days)\n", FormatDate(balance.PeriodStart), FormatDate(balance.PeriodEnd), budget.PayPeriodDays)
	fmt.Printf("Budget %s  Spent %s  Left %s\n\n",
		FormatMoney(balance.PeriodAmount), FormatMoney(balance.TotalSpent), FormatMoney(balance.Balance))

	expenses, err := c.ListExpenses(ctx, budget.ID, 1, 20)
	if err != nil {
		return err
	}
	if len(expenses.Data) == 0 {
		fmt.Println("No expenses this period")
	} else {
		fmt.Println("Expenses:")
		for _, e := range expenses.Data {
			fmt.Printf("  %s  %8s  %s  (%s)\n", FormatDate(e.ExpenseDate), FormatMoney(e.Amount), e.Description, e.ID)
		}
		if expenses.TotalPages > 1 {
			fmt.Printf("  ... and %d more\n", expenses.TotalItems-int64(len(expenses.Data)))
		}
	}

	savings, err := c.ListSavings(ctx, budget.ID, 1, 10)
	if err != nil {
		return err
	}
	if len(savings.Data) > 0 {
		fmt.Println("\nSavings:")
		for _, s := range savings.Data {
			fmt.Printf("  %s to %s  %8s\n", FormatDate(s.PeriodStart), FormatDate(s.PeriodEnd), FormatMoney(s.Amount))
		}
	}

	return nil
}
