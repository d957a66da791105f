package app

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/osfund/osfund/internal/allocate"
	"github.com/osfund/osfund/internal/backend"
	"github.com/osfund/osfund/internal/config"
)

func TestBudgetSubcommands(t *testing.T) {
	found := make(map[string]bool)
	for _, cmd := range budgetCmd.Commands() {
		found[strings.Fields(cmd.Use)[0]] = true
	}

	for _, want := range []string{"set", "show", "plan"} {
		if !found[want] {
			t.Errorf("expected budget subcommand '%s' to be registered", want)
		}
	}
}

func TestBudgetPlanFlags(t *testing.T) {
	for _, flag := range []string{"strategy", "min-amount", "save", "format"} {
		if budgetPlanCmd.Flags().Lookup(flag) == nil {
			t.Errorf("expected --%s flag to be registered", flag)
		}
	}
}

func TestCadencePeriod(t *testing.T) {
	if got := cadencePeriod(allocate.CadenceMonthly); got != "month" {
		t.Errorf("cadencePeriod(monthly) = %q, want 'month'", got)
	}
	if got := cadencePeriod(allocate.CadenceYearly); got != "year" {
		t.Errorf("cadencePeriod(yearly) = %q, want 'year'", got)
	}
}

func TestRunBudgetSetPersistsConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	origCadence, origCurrency := budgetCadence, budgetCurrency
	defer func() { budgetCadence, budgetCurrency = origCadence, origCurrency }()
	budgetCadence = "yearly"
	budgetCurrency = "EUR"

	if err := runBudgetSet(budgetSetCmd, []string{"120.50"}); err != nil {
		t.Fatalf("runBudgetSet() error = %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load() after set error = %v", err)
	}

	if cfg.Budget.Amount != "120.50" {
		t.Errorf("Budget.Amount = %q, want '120.50'", cfg.Budget.Amount)
	}
	if cfg.Budget.Cadence != "yearly" {
		t.Errorf("Budget.Cadence = %q, want 'yearly'", cfg.Budget.Cadence)
	}
	if cfg.Budget.Currency != "EUR" {
		t.Errorf("Budget.Currency = %q, want 'EUR'", cfg.Budget.Currency)
	}

	budget, err := cfg.ParsedBudget()
	if err != nil {
		t.Fatalf("ParsedBudget() error = %v", err)
	}
	if budget.Amount != 12050 {
		t.Errorf("parsed amount = %d, want 12050", budget.Amount)
	}
}

func TestRunBudgetSetRejectsBadAmount(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	for _, bad := range []string{"abc", "-5", "1.234"} {
		if err := runBudgetSet(budgetSetCmd, []string{bad}); err == nil {
			t.Errorf("runBudgetSet(%q) expected error", bad)
		}
	}
}

func TestRunBudgetPlanWithoutBudget(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	err := runBudgetPlan(budgetPlanCmd, nil)
	if err == nil {
		t.Fatal("expected error when no budget is configured")
	}
	if !strings.Contains(err.Error(), "budget set") {
		t.Errorf("error should point at 'osfund budget set', got: %v", err)
	}
}

func TestRunBudgetPlanEndToEnd(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	origDB := dbPath
	defer func() { dbPath = origDB }()
	dbPath = filepath.Join(t.TempDir(), "osfund.db")

	// Configure a budget.
	origCadence, origCurrency := budgetCadence, budgetCurrency
	defer func() { budgetCadence, budgetCurrency = origCadence, origCurrency }()
	budgetCadence, budgetCurrency = "", ""
	if err := runBudgetSet(budgetSetCmd, []string{"10.00"}); err != nil {
		t.Fatalf("runBudgetSet() error = %v", err)
	}

	// Seed a scan.
	db, err := openStore()
	if err != nil {
		t.Fatalf("openStore() error = %v", err)
	}
	records := []backend.Record{
		{Manager: backend.ManagerPacman, Name: "curl", Version: "8.5.0"},
		{Manager: backend.ManagerPacman, Name: "git", Version: "2.43.0"},
	}
	if _, err := db.InsertScan(records, time.Now()); err != nil {
		t.Fatalf("InsertScan() error = %v", err)
	}
	db.Close()

	// Plan with --save.
	origSave, origFormat := planSave, planFormat
	defer func() { planSave, planFormat = origSave, origFormat }()
	planSave = true
	planFormat = "terminal"

	if err := runBudgetPlan(budgetPlanCmd, nil); err != nil {
		t.Fatalf("runBudgetPlan() error = %v", err)
	}

	// Plan must have been persisted.
	db, err = openStore()
	if err != nil {
		t.Fatalf("openStore() error = %v", err)
	}
	defer db.Close()

	plans, err := db.ListPlans()
	if err != nil {
		t.Fatalf("ListPlans() error = %v", err)
	}
	if len(plans) != 1 {
		t.Fatalf("expected 1 saved plan, got %d", len(plans))
	}
	if plans[0].BudgetAmount != 1000 {
		t.Errorf("saved budget = %d, want 1000", plans[0].BudgetAmount)
	}
	if plans[0].EntryCount != 2 {
		t.Errorf("saved entry count = %d, want 2", plans[0].EntryCount)
	}
}
