package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/osfund/osfund/internal/allocate"
	"github.com/osfund/osfund/internal/config"
	"github.com/osfund/osfund/internal/output"
	"github.com/osfund/osfund/internal/resolve"
	"github.com/spf13/cobra"
)

var (
	budgetCadence  string
	budgetCurrency string

	planStrategy  string
	planMinAmount string
	planSave      bool
	planFormat    string

	budgetCmd = &cobra.Command{
		Use:   "budget",
		Short: "Set a donation budget and plan how to split it",
		Long: `Manage the recurring donation budget and compute allocation plans.

The budget lives in config.toml. Planning splits it across the projects
resolved from the most recent scan, either equally or weighted by how many
of each project's packages are installed. Every plan sums to the budget
exactly; rounding remainders go to the projects that sort first.`,
	}

	budgetSetCmd = &cobra.Command{
		Use:   "set AMOUNT",
		Short: "Set the recurring budget amount",
		Long: `Set the recurring donation budget.

AMOUNT is a decimal number in major currency units, e.g. 25 or 25.50.
The amount is stored in config.toml alongside the cadence and currency.`,
		Example: `  # 25 USD per month
  osfund budget set 25.00

  # 300 EUR per year
  osfund budget set 300 --cadence yearly --currency EUR`,
		Args: cobra.ExactArgs(1),
		RunE: runBudgetSet,
	}

	budgetShowCmd = &cobra.Command{
		Use:   "show",
		Short: "Show the configured budget",
		RunE:  runBudgetShow,
	}

	budgetPlanCmd = &cobra.Command{
		Use:   "plan",
		Short: "Split the budget across the projects from the last scan",
		Long: `Compute an allocation plan over the projects resolved from the most
recent scan.

Strategies:
  • equal: every project gets the same share
  • weighted: shares are proportional to each project's installed
    package count

With --min-amount, projects whose share would fall below the threshold
are dropped and the budget is re-split across the rest, so no plan ever
contains a donation too small to be worth sending.`,
		Example: `  # Equal split of the configured budget
  osfund budget plan

  # Weight by installed package count and persist the plan
  osfund budget plan --strategy weighted --save

  # Skip donations under 1.00
  osfund budget plan --min-amount 1.00`,
		RunE: runBudgetPlan,
	}
)

func init() {
	budgetSetCmd.Flags().StringVar(&budgetCadence, "cadence", "", "budget cadence: monthly or yearly (default: keep current)")
	budgetSetCmd.Flags().StringVar(&budgetCurrency, "currency", "", "currency code, e.g. USD (default: keep current)")

	budgetPlanCmd.Flags().StringVar(&planStrategy, "strategy", "", "allocation strategy: equal or weighted (default: from config)")
	budgetPlanCmd.Flags().StringVar(&planMinAmount, "min-amount", "", "drop projects below this amount (default: from config)")
	budgetPlanCmd.Flags().BoolVar(&planSave, "save", false, "persist the plan to the database")
	budgetPlanCmd.Flags().StringVar(&planFormat, "format", "terminal", "output format: terminal or json")

	budgetCmd.AddCommand(budgetSetCmd)
	budgetCmd.AddCommand(budgetShowCmd)
	budgetCmd.AddCommand(budgetPlanCmd)
	RootCmd.AddCommand(budgetCmd)
}

func runBudgetSet(cmd *cobra.Command, args []string) error {
	amount, err := allocate.ParseAmount(args[0])
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", args[0], err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	cfg.Budget.Amount = args[0]
	if budgetCadence != "" {
		cfg.Budget.Cadence = budgetCadence
	}
	if budgetCurrency != "" {
		cfg.Budget.Currency = budgetCurrency
	}

	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	cadence, _ := allocate.ParseCadence(cfg.Budget.Cadence)
	fmt.Printf("Budget set: %s per %s\n", allocate.FormatMoney(amount, cfg.Budget.Currency), cadencePeriod(cadence))
	fmt.Println("Run 'osfund budget plan' to split it across your projects.")
	return nil
}

func runBudgetShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if !cfg.HasBudget() {
		fmt.Println("No budget set. Run 'osfund budget set AMOUNT' to configure one.")
		return nil
	}

	budget, err := cfg.ParsedBudget()
	if err != nil {
		return fmt.Errorf("invalid budget in config: %w", err)
	}
	minAmount, err := cfg.ParsedMinAmount()
	if err != nil {
		return fmt.Errorf("invalid min_amount in config: %w", err)
	}

	fmt.Printf("Budget:     %s per %s\n", allocate.FormatMoney(budget.Amount, budget.Currency), cadencePeriod(budget.Cadence))
	fmt.Printf("Strategy:   %s\n", cfg.Budget.Strategy)
	if minAmount > 0 {
		fmt.Printf("Minimum:    %s per project\n", allocate.FormatMoney(minAmount, budget.Currency))
	}
	return nil
}

func runBudgetPlan(cmd *cobra.Command, args []string) error {
	if planFormat != "terminal" && planFormat != "json" {
		return fmt.Errorf("unknown format %q (want terminal or json)", planFormat)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if !cfg.HasBudget() {
		return fmt.Errorf("no budget configured; run 'osfund budget set AMOUNT' first")
	}

	budget, err := cfg.ParsedBudget()
	if err != nil {
		return fmt.Errorf("invalid budget in config: %w", err)
	}

	strategyStr := cfg.Budget.Strategy
	if planStrategy != "" {
		strategyStr = planStrategy
	}
	strategy, err := allocate.ParseStrategy(strategyStr)
	if err != nil {
		return err
	}

	minAmount, err := cfg.ParsedMinAmount()
	if err != nil {
		return fmt.Errorf("invalid min_amount in config: %w", err)
	}
	if planMinAmount != "" {
		minAmount, err = allocate.ParseAmount(planMinAmount)
		if err != nil {
			return fmt.Errorf("invalid --min-amount %q: %w", planMinAmount, err)
		}
	}

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	info, records, err := db.LatestScan()
	if err != nil {
		return fmt.Errorf("failed to load last scan: %w", err)
	}
	if info == nil {
		return fmt.Errorf("no scan found; run 'osfund scan' first")
	}

	projects := resolve.New(resolve.BuiltinTable()).Resolve(records)

	// Weighted strategy counts installed packages per project.
	weights := make(map[resolve.ProjectKey]int64, len(projects))
	for _, project := range projects {
		weights[project.Key] = int64(len(project.Members))
	}

	plan, err := allocate.Allocate(projects, budget, strategy, weights, minAmount)
	if err != nil {
		if errors.Is(err, allocate.ErrEmptyProjectSet) && len(projects) > 0 {
			return fmt.Errorf("no project meets the %s minimum: increase the budget or lower the minimum amount",
				allocate.FormatMoney(minAmount, budget.Currency))
		}
		return err
	}

	if planFormat == "json" {
		data, err := output.RenderJSONPlan(plan)
		if err != nil {
			return fmt.Errorf("failed to render plan: %w", err)
		}
		fmt.Println(string(data))
	} else {
		fmt.Print(output.RenderPlanTable(plan))
		if dropped := len(projects) - len(plan.Entries); dropped > 0 {
			fmt.Printf("\n%d project(s) fell below the %s minimum and were dropped.\n",
				dropped, allocate.FormatMoney(minAmount, budget.Currency))
		}
	}

	if planSave {
		id, err := db.SavePlan(plan, time.Now())
		if err != nil {
			return fmt.Errorf("failed to save plan: %w", err)
		}
		fmt.Printf("\nPlan saved as %s\n", id)
	}

	return nil
}

func cadencePeriod(c allocate.Cadence) string {
	if c == allocate.CadenceYearly {
		return "year"
	}
	return "month"
}
