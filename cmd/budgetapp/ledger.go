package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"budgetapp/internal/charts"
	"budgetapp/internal/core"
	"budgetapp/internal/ledger"
)

func budgetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Manage the monthly budget",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "set AMOUNT",
			Short: "Set the monthly budget",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				m, err := appFrom(cmd).Ledger.SetMonthlyBudgetString(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Budget mensuel: %s€\n", m)
				return nil
			},
		},
		&cobra.Command{
			Use:   "show",
			Short: "Show the budget status",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				printStatus(cmd.OutOrStdout(), appFrom(cmd).Ledger.Status(cmd.Context()))
				return nil
			},
		},
	)
	return cmd
}

func expenseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "expense",
		Aliases: []string{"exp"},
		Short:   "Add, edit, remove and list expenses",
	}

	var in core.ExpenseInput
	add := &cobra.Command{
		Use:   "add",
		Short: "Record an expense",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := appFrom(cmd).Ledger.Add(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Dépense %d ajoutée\n", e.ID)
			return nil
		},
	}
	bindExpenseFlags(add, &in)
	_ = add.MarkFlagRequired("amount")
	_ = add.MarkFlagRequired("category")

	var edit core.ExpenseInput
	editCmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Replace an expense's fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseExpenseID(args[0])
			if err != nil {
				return err
			}
			e, err := appFrom(cmd).Ledger.Update(cmd.Context(), id, edit)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Dépense %d modifiée\n", e.ID)
			return nil
		},
	}
	bindExpenseFlags(editCmd, &edit)
	_ = editCmd.MarkFlagRequired("amount")
	_ = editCmd.MarkFlagRequired("category")

	rm := &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"delete"},
		Short:   "Delete an expense",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseExpenseID(args[0])
			if err != nil {
				return err
			}
			if err := appFrom(cmd).Ledger.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Dépense %d supprimée\n", id)
			return nil
		},
	}

	var search, category string
	list := &cobra.Command{
		Use:   "list",
		Short: "List expenses, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printExpenses(cmd.OutOrStdout(), appFrom(cmd).Ledger.Filter(cmd.Context(), search, category))
			return nil
		},
	}
	list.Flags().StringVarP(&search, "search", "q", "", "Match note or category (case-insensitive)")
	list.Flags().StringVarP(&category, "category", "c", ledger.AllCategories, "Category filter or \"all\"")

	cmd.AddCommand(add, editCmd, rm, list)
	return cmd
}

func bindExpenseFlags(cmd *cobra.Command, in *core.ExpenseInput) {
	cmd.Flags().StringVarP(&in.Amount, "amount", "a", "", "Amount in euros, e.g. 12.50")
	cmd.Flags().StringVarP(&in.Category, "category", "c", "", "Category")
	cmd.Flags().StringVarP(&in.Date, "date", "d", "", "Date YYYY-MM-DD (default today)")
	cmd.Flags().StringVarP(&in.Note, "note", "n", "", "Free-text note")
}

func parseExpenseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid expense id %q", s)
	}
	return id, nil
}

func summaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show budget status and totals by category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ov := appFrom(cmd).Ledger.Overview(cmd.Context())
			out := cmd.OutOrStdout()
			printStatus(out, ov.Status)
			fmt.Fprintf(out, "%d dépense(s)\n", ov.Count)
			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			for _, c := range ov.ByCategory {
				fmt.Fprintf(w, "%s\t%s€\n", c.Category, c.Amount)
			}
			return w.Flush()
		},
	}
}

func chartCmd() *cobra.Command {
	var kind, outPath string
	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Render a PNG chart of the ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			l := appFrom(cmd).Ledger
			r := charts.NewRenderer()

			f, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("create %s: %w", outPath, err)
			}
			switch kind {
			case "pie":
				err = r.CategoryPie(f, l.ByCategory(cmd.Context()))
			case "bars":
				err = r.ExpenseBars(f, l.List(cmd.Context()))
			default:
				err = fmt.Errorf("unknown chart kind %q (pie or bars)", kind)
			}
			if cerr := f.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				os.Remove(outPath)
				if errors.Is(err, charts.ErrNoData) {
					return fmt.Errorf("nothing to chart: %w", err)
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Graphique écrit dans %s\n", outPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "pie", "Chart kind: pie or bars")
	cmd.Flags().StringVarP(&outPath, "out", "o", "chart.png", "Output PNG file")
	return cmd
}

func printStatus(out io.Writer, st core.BudgetStatus) {
	if !st.BudgetSet {
		fmt.Fprintf(out, "Dépensé: %s€ (aucun budget défini)\n", st.Spent)
		return
	}
	fmt.Fprintf(out, "Budget: %s€  Dépensé: %s€  Reste: %s€  (%.1f%%)\n",
		st.Budget, st.Spent, st.Remaining, st.PercentUsed)
}

func printExpenses(out io.Writer, items []core.Expense) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tCATÉGORIE\tMONTANT\tNOTE")
	for _, e := range items {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s€\t%s\n", e.ID, e.Date, e.Category, e.Amount, e.Note)
	}
	w.Flush()
}
