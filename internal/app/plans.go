package app

import (
	"fmt"

	"github.com/osfund/osfund/internal/allocate"
	"github.com/spf13/cobra"
)

var plansCmd = &cobra.Command{
	Use:   "plans",
	Short: "List saved allocation plans",
	Long: `List allocation plans previously persisted with 'osfund budget plan --save'.

Each line shows the plan ID, when it was computed, the strategy, and the
budgeted amount. Saved plans are the record of what you decided to give;
they are never modified after the fact.`,
	Example: `  # List saved plans
  osfund plans`,
	RunE: runPlans,
}

func init() {
	RootCmd.AddCommand(plansCmd)
}

func runPlans(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	plans, err := db.ListPlans()
	if err != nil {
		return fmt.Errorf("failed to list plans: %w", err)
	}

	if len(plans) == 0 {
		fmt.Println("No saved plans. Run 'osfund budget plan --save' to create one.")
		return nil
	}

	fmt.Printf("%-36s  %-16s  %-8s  %-12s  %s\n", "ID", "CREATED", "STRATEGY", "BUDGET", "PROJECTS")
	for _, p := range plans {
		budget := fmt.Sprintf("%s/%s", allocate.FormatMoney(p.BudgetAmount, p.Currency), shortCadence(p.Cadence))
		fmt.Printf("%-36s  %-16s  %-8s  %-12s  %d\n",
			p.ID,
			p.CreatedAt.Format("2006-01-02 15:04"),
			p.Strategy,
			budget,
			p.EntryCount,
		)
	}
	return nil
}

func shortCadence(cadence string) string {
	if cadence == string(allocate.CadenceYearly) {
		return "yr"
	}
	return "mo"
}
