package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"funmoney/internal/client"
	"funmoney/internal/models"
)

var (
	flagExpenseAmount string
	flagExpenseDesc   string
	flagExpenseDate   string
)

var expensesCmd = &cobra.Command{
	Use:   "expenses",
	Short: "Log and edit expenses",
}

var expensesAddCmd = &cobra.Command{
	Use:   "add <budget>",
	Short: "Log an expense against the budget's current pay period",
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
		// Run the rollover check first so the period stamp we send is the
		// one the server considers current.
		budget, err = activateBudget(ctx, c, budget)
		if err != nil {
			return err
		}

		date := flagExpenseDate
		if date == "" {
			date = models.Today().String()
		}

		expense, err := c.CreateExpense(ctx, budget.ID, client.CreateExpenseRequest{
			Amount:         flagExpenseAmount,
			Description:    flagExpenseDesc,
			ExpenseDate:    date,
			PayPeriodStart: budget.CurrentPeriodStart,
		})
		if err != nil {
			if client.IsStalePeriod(err) {
				return fmt.Errorf("the pay period changed while you were typing; run 'funmoney view' and try again")
			}
			return err
		}

		fmt.Printf("Logged %s for %s on %s\n", FormatMoney(expense.Amount), expense.Description, FormatDate(expense.ExpenseDate))
		return nil
	},
}

var expensesEditCmd = &cobra.Command{
	Use:   "edit <expense-id>",
	Short: "Edit an expense's amount, description, or date",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		c, err := newClient()
		if err != nil {
			return err
		}

		if flagExpenseAmount == "" && flagExpenseDesc == "" && flagExpenseDate == "" {
			return fmt.Errorf("nothing to change; pass --amount, --desc, or --date")
		}

		expense, err := c.UpdateExpense(ctx, args[0], client.UpdateExpenseRequest{
			Amount:      flagExpenseAmount,
			Description: flagExpenseDesc,
			ExpenseDate: flagExpenseDate,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Updated: %s %s on %s\n", FormatMoney(expense.Amount), expense.Description, FormatDate(expense.ExpenseDate))
		return nil
	},
}

var expensesDeleteCmd = &cobra.Command{
	Use:   "delete <expense-id>",
	Short: "Delete an expense",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		c, err := newClient()
		if err != nil {
			return err
		}

		if err := c.DeleteExpense(ctx, args[0]); err != nil {
			return err
		}
		fmt.Println("Deleted expense")
		return nil
	},
}

func init() {
	expensesAddCmd.Flags().StringVarP(&flagExpenseAmount, "amount", "a", "", "Amount spent, e.g. 45.50")
	expensesAddCmd.Flags().StringVarP(&flagExpenseDesc, "desc", "m", "", "What the money went to")
	expensesAddCmd.Flags().StringVarP(&flagExpenseDate, "date", "t", "", "Spend date (YYYY-MM-DD, default today)")
	_ = expensesAddCmd.MarkFlagRequired("amount")
	_ = expensesAddCmd.MarkFlagRequired("desc")

	expensesEditCmd.Flags().StringVarP(&flagExpenseAmount, "amount", "a", "", "New amount")
	expensesEditCmd.Flags().StringVarP(&flagExpenseDesc, "desc", "m", "", "New description")
	expensesEditCmd.Flags().StringVarP(&flagExpenseDate, "date", "t", "", "New spend date (YYYY-MM-DD)")

	expensesCmd.AddCommand(expensesAddCmd)
	expensesCmd.AddCommand(expensesEditCmd)
	expensesCmd.AddCommand(expensesDeleteCmd)
	rootCmd.AddCommand(expensesCmd)
}
