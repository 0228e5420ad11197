package testutil_test

import (
	"testing"

	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/errors"
	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/models"
	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/testutil"
)

func TestSetupTestDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	var count int64
	for _, table := range []string{"auth_users", "user_profiles", "budgets", "budget_entries", "categories", "audit_logs"} {
		if err := db.Table(table).Count(&count).Error; err != nil {
			t.Errorf("table %q should exist after migration: %v", table, err)
		}
	}
}

func TestFixtures(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	user := testutil.CreateTestAuthUser(t, db)
	if user.ID == "" {
		t.Fatal("user should have an ID")
	}

	budget := testutil.CreateTestBudget(t, db, user.ID, "friend")
	if !budget.Collaborators.Contains("friend") {
		t.Errorf("expected collaborator friend, got %v", budget.Collaborators)
	}

	entry := testutil.CreateTestEntry(t, db, user.ID, budget.ID, models.EntryTypeExpense, 250)
	if entry.Amount != -250 {
		t.Errorf("expected amount -250, got %v", entry.Amount)
	}

	category := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)
	if category.Type != models.CategoryTypeExpense {
		t.Errorf("expected expense category, got %s", category.Type)
	}
}

func TestCountCreates(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	counter := testutil.CountCreates(t, db, "budgets")
	user := testutil.CreateTestAuthUser(t, db)
	testutil.CreateTestBudget(t, db, user.ID)

	if got := counter.Count("budgets"); got != 1 {
		t.Errorf("expected 1 budget insert, got %d", got)
	}
	if got := counter.Total(); got != 2 {
		t.Errorf("expected 2 inserts total, got %d", got)
	}
}

func TestAssertAppError(t *testing.T) {
	err := errors.WithMessage(errors.ErrBudgetNotFound, "custom message")
	testutil.AssertAppError(t, err, "BUDGET_NOT_FOUND")
}

func TestAssertNoError(t *testing.T) {
	testutil.AssertNoError(t, nil)
}
