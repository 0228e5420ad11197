package profilestore

import (
	"context"
	"testing"

	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/auth"
	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/ids"
	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/kvstore"
	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/localstore"
	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/models"
	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/remote"
	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/testutil"
)

func TestLocal(t *testing.T) {
	ctx := context.Background()
	ls := localstore.New(kvstore.NewMemory(), nil)
	store := NewLocal(ls)

	if store.Mode() != ModeLocal {
		t.Errorf("expected local mode, got %s", store.Mode())
	}
	if store.LoadProfile(ctx, "u1") != nil {
		t.Error("expected nil for unknown user")
	}

	ls.Save(ctx, "u1", &models.UserProfile{ID: "u1", Email: "a@b.com"})
	if p := store.LoadProfile(ctx, "u1"); p == nil || p.Email != "a@b.com" {
		t.Errorf("unexpected profile %+v", p)
	}

	id, ok := store.CreateEntry(ctx, &models.BudgetEntry{})
	if !ok || id != "" {
		t.Errorf("expected (\"\", true), got (%q, %v)", id, ok)
	}
}

func TestRemoteCreateProfile(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	provider := auth.NewJWTProvider(db, "test-secret")
	ctx := context.Background()

	session, err := provider.SignUp(ctx, "alice@example.com", testutil.TestPassword)
	testutil.AssertNoError(t, err)

	store := NewRemote(remote.NewService(db, provider))
	if got := store.SessionUserID(ctx); got != session.User.ID {
		t.Fatalf("expected session user %s, got %s", session.User.ID, got)
	}

	userID := session.User.ID
	profile := &models.UserProfile{
		ID:    userID,
		Email: "alice@example.com",
		Budgets: []models.Budget{{
			Base: models.Base{ID: ids.New()}, Name: "Main Budget", Code: ids.NewShareCode(), OwnerID: userID,
		}},
		Categories: []models.Category{
			{Base: models.Base{ID: ids.New()}, Name: "Salário", Type: models.CategoryTypeIncome},
			{Base: models.Base{ID: ids.New()}, Name: "Lazer", Type: models.CategoryTypeExpense},
		},
	}
	if !store.CreateProfile(ctx, profile) {
		t.Fatal("expected profile to be published")
	}

	loaded := store.LoadProfile(ctx, userID)
	if loaded == nil {
		t.Fatal("expected profile to load")
	}
	if len(loaded.Budgets) != 1 || loaded.ActiveBudgetID != profile.Budgets[0].ID {
		t.Errorf("unexpected budgets %+v", loaded.Budgets)
	}
	if len(loaded.Categories) != 2 {
		t.Errorf("expected 2 categories, got %d", len(loaded.Categories))
	}

	id, ok := store.CreateEntry(ctx, &models.BudgetEntry{
		Date: "2024-01-15", Category: "Salário", Amount: 5000,
		Type: models.EntryTypeIncome, BudgetID: profile.Budgets[0].ID,
	})
	if !ok || id == "" {
		t.Errorf("expected server id, got (%q, %v)", id, ok)
	}
}
