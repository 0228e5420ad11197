package userdata

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/auth"
	apperrors "github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/errors"
	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/ids"
	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/kvstore"
	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/localstore"
	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/models"
	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/pagination"
	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/profilestore"
	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/remote"
	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/testutil"
)

var fixedNow = time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func newLocalManager(t *testing.T) (DataContext, *localstore.Store) {
	t.Helper()
	ls := localstore.New(kvstore.NewMemory(), kvstore.NewMemory(), localstore.WithClock(clock))
	return NewManager(ls, WithClock(clock)), ls
}

func signedIn(t *testing.T) DataContext {
	t.Helper()
	m, _ := newLocalManager(t)
	_, err := m.SetUser(context.Background(), "alice@example.com", "Alice")
	testutil.AssertNoError(t, err)
	return m
}

func TestSetUser(t *testing.T) {
	t.Run("new_user_gets_default_profile", func(t *testing.T) {
		m, _ := newLocalManager(t)

		p, err := m.SetUser(context.Background(), "alice@example.com", "Alice")
		testutil.AssertNoError(t, err)

		if p.ID != ids.FromEmail("alice@example.com") {
			t.Errorf("expected email-derived id, got %s", p.ID)
		}
		if len(p.Budgets) != 1 {
			t.Fatalf("expected 1 budget, got %d", len(p.Budgets))
		}
		if p.Budgets[0].Name != DefaultBudgetName {
			t.Errorf("expected %q, got %q", DefaultBudgetName, p.Budgets[0].Name)
		}
		if !ids.IsShareCode(p.Budgets[0].Code) {
			t.Errorf("invalid share code %q", p.Budgets[0].Code)
		}
		if p.ActiveBudgetID != p.Budgets[0].ID {
			t.Errorf("active budget should be the default budget")
		}
		if len(p.Categories) < 6 {
			t.Errorf("expected at least 6 categories, got %d", len(p.Categories))
		}
		types := map[models.CategoryType]bool{}
		for _, c := range p.Categories {
			types[c.Type] = true
		}
		if !types[models.CategoryTypeIncome] || !types[models.CategoryTypeExpense] {
			t.Errorf("expected both category types, got %v", types)
		}

		st := m.Status()
		if st.State != StateReady || st.Mode != profilestore.ModeLocal {
			t.Errorf("unexpected status %+v", st)
		}
	})

	t.Run("stored_profile_wins_over_default", func(t *testing.T) {
		m, ls := newLocalManager(t)
		id := ids.FromEmail("alice@example.com")
		stored := &models.UserProfile{
			ID: id, Email: "alice@example.com", Name: "Stored",
			Budgets:        []models.Budget{{Base: models.Base{ID: "b1"}, Name: "Casa", Code: "PFAAAAAA", OwnerID: id}},
			ActiveBudgetID: "b1",
		}
		ls.Save(context.Background(), id, stored)

		p, err := m.SetUser(context.Background(), "Alice@Example.com ", "")
		testutil.AssertNoError(t, err)

		if p.Name != "Stored" || len(p.Budgets) != 1 || p.Budgets[0].Name != "Casa" {
			t.Errorf("expected stored profile, got %+v", p)
		}
		if len(p.Categories) != 0 {
			t.Errorf("sources must not be merged, got %d categories", len(p.Categories))
		}
	})

	t.Run("empty_email", func(t *testing.T) {
		m, _ := newLocalManager(t)
		_, err := m.SetUser(context.Background(), "  ", "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("persists_every_change", func(t *testing.T) {
		m, ls := newLocalManager(t)
		ctx := context.Background()
		p, _ := m.SetUser(ctx, "alice@example.com", "Alice")

		_, err := m.CreateBudget(ctx, "Viagem")
		testutil.AssertNoError(t, err)

		stored := ls.Load(ctx, p.ID)
		if stored == nil || len(stored.Budgets) != 2 {
			t.Fatalf("expected persisted profile with 2 budgets, got %+v", stored)
		}
		if ls.RememberedUser(ctx) != p.ID {
			t.Error("expected user to be remembered")
		}
	})
}

func TestStartLocalOnly(t *testing.T) {
	m, _ := newLocalManager(t)
	m.Start(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	testutil.AssertNoError(t, m.WaitReady(ctx))

	if st := m.Status(); st.State != StateReady || st.Mode != profilestore.ModeLocal {
		t.Errorf("unexpected status %+v", st)
	}
}

func TestDeleteBudget(t *testing.T) {
	t.Run("last_budget_is_kept", func(t *testing.T) {
		m := signedIn(t)
		p := m.Snapshot()

		for _, id := range []string{p.Budgets[0].ID, "unknown"} {
			if m.DeleteBudget(context.Background(), id) {
				t.Errorf("deleting %q should be rejected", id)
			}
		}
		testutil.AssertAppError(t, m.DeleteBudgetChecked(context.Background(), p.Budgets[0].ID), "LAST_BUDGET")
	})

	t.Run("active_budget_is_kept", func(t *testing.T) {
		m := signedIn(t)
		ctx := context.Background()
		b, err := m.CreateBudget(ctx, "Viagem")
		testutil.AssertNoError(t, err)

		if m.DeleteBudget(ctx, b.ID) {
			t.Error("deleting the active budget should be rejected")
		}
		testutil.AssertAppError(t, m.DeleteBudgetChecked(ctx, b.ID), "ACTIVE_BUDGET")
		if n := len(m.Snapshot().Budgets); n != 2 {
			t.Errorf("expected 2 budgets, got %d", n)
		}
	})

	t.Run("inactive_budget_is_removed", func(t *testing.T) {
		m := signedIn(t)
		ctx := context.Background()
		first := m.Snapshot().Budgets[0]
		_, err := m.CreateBudget(ctx, "Viagem")
		testutil.AssertNoError(t, err)

		if !m.DeleteBudget(ctx, first.ID) {
			t.Fatal("expected delete to succeed")
		}
		p := m.Snapshot()
		if len(p.Budgets) != 1 || p.Budgets[0].Name != "Viagem" {
			t.Errorf("unexpected budgets %+v", p.Budgets)
		}
	})

	t.Run("signed_out", func(t *testing.T) {
		m, _ := newLocalManager(t)
		testutil.AssertAppError(t, m.DeleteBudgetChecked(context.Background(), "x"), "NOT_AUTHENTICATED")
	})
}

func TestCreateAndSwitchBudget(t *testing.T) {
	m := signedIn(t)
	ctx := context.Background()
	main := m.Snapshot().Budgets[0]

	b, err := m.CreateBudget(ctx, "Viagem")
	testutil.AssertNoError(t, err)
	if b.Code == main.Code || !ids.IsShareCode(b.Code) {
		t.Errorf("unexpected share code %q", b.Code)
	}
	if active, _ := m.ActiveBudget(); active.ID != b.ID {
		t.Errorf("new budget should be active")
	}

	testutil.AssertNoError(t, m.SwitchBudget(ctx, main.ID))
	if active, _ := m.ActiveBudget(); active.ID != main.ID {
		t.Errorf("expected main budget active")
	}

	testutil.AssertNoError(t, m.SwitchBudget(ctx, "does-not-exist"))
	_, err = m.ActiveBudget()
	testutil.AssertAppError(t, err, "NO_ACTIVE_BUDGET")

	renamed, err := m.RenameBudget(ctx, b.ID, "Férias")
	testutil.AssertNoError(t, err)
	if renamed.Name != "Férias" {
		t.Errorf("expected renamed budget, got %q", renamed.Name)
	}
	_, err = m.RenameBudget(ctx, "missing", "x")
	testutil.AssertAppError(t, err, "BUDGET_NOT_FOUND")
	_, err = m.CreateBudget(ctx, " ")
	testutil.AssertAppError(t, err, "INVALID_INPUT")
}

func TestEntries(t *testing.T) {
	t.Run("alice_scenario", func(t *testing.T) {
		m := signedIn(t)
		ctx := context.Background()

		salary, err := m.AddEntry(ctx, EntryInput{
			Date: "2024-01-15", Description: "Salary", Category: "Salário",
			Amount: 5000, Type: models.EntryTypeIncome,
		})
		testutil.AssertNoError(t, err)

		active, _ := m.ActiveBudget()
		if len(active.Entries) != 1 || active.Entries[0].Amount != 5000 {
			t.Fatalf("unexpected entries %+v", active.Entries)
		}
		if salary.BudgetID != active.ID {
			t.Errorf("entry should belong to active budget")
		}

		groceries, err := m.AddEntry(ctx, EntryInput{
			Date: "2024-01-16", Description: "Groceries", Category: "Alimentação",
			Amount: 250, Type: models.EntryTypeExpense,
		})
		testutil.AssertNoError(t, err)
		if groceries.Amount != -250 {
			t.Errorf("expected -250, got %v", groceries.Amount)
		}
	})

	t.Run("amount_sign_follows_type", func(t *testing.T) {
		m := signedIn(t)
		ctx := context.Background()
		for _, amount := range []float64{10, -10, 0.01, -99999.5} {
			for _, typ := range []models.EntryType{models.EntryTypeIncome, models.EntryTypeExpense} {
				e, err := m.AddEntry(ctx, EntryInput{Category: "Lazer", Amount: amount, Type: typ})
				testutil.AssertNoError(t, err)
				if typ == models.EntryTypeExpense && e.Amount >= 0 {
					t.Errorf("expense %v stored as %v", amount, e.Amount)
				}
				if typ == models.EntryTypeIncome && e.Amount <= 0 {
					t.Errorf("income %v stored as %v", amount, e.Amount)
				}
			}
		}
	})

	t.Run("validation", func(t *testing.T) {
		m := signedIn(t)
		ctx := context.Background()

		_, err := m.AddEntry(ctx, EntryInput{Category: "Lazer", Amount: 1, Type: "transfer"})
		testutil.AssertAppError(t, err, "INVALID_ENTRY_TYPE")
		_, err = m.AddEntry(ctx, EntryInput{Category: "Lazer", Amount: 0, Type: models.EntryTypeIncome})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
		_, err = m.AddEntry(ctx, EntryInput{Category: "Lazer", Amount: 1, Type: models.EntryTypeIncome, Date: "15/01/2024"})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("update_and_delete", func(t *testing.T) {
		m := signedIn(t)
		ctx := context.Background()
		e, err := m.AddEntry(ctx, EntryInput{Category: "Lazer", Amount: 30, Type: models.EntryTypeExpense})
		testutil.AssertNoError(t, err)

		updated, err := m.UpdateEntry(ctx, e.ID, EntryInput{Category: "Freelance", Amount: 30, Type: models.EntryTypeIncome})
		testutil.AssertNoError(t, err)
		if updated.Amount != 30 || updated.Category != "Freelance" {
			t.Errorf("unexpected update %+v", updated)
		}

		testutil.AssertNoError(t, m.DeleteEntry(ctx, e.ID))
		testutil.AssertAppError(t, m.DeleteEntry(ctx, e.ID), "ENTRY_NOT_FOUND")
		_, err = m.UpdateEntry(ctx, e.ID, EntryInput{Category: "Lazer", Amount: 1, Type: models.EntryTypeIncome})
		testutil.AssertAppError(t, err, "ENTRY_NOT_FOUND")
	})

	t.Run("list_and_summary", func(t *testing.T) {
		m := signedIn(t)
		ctx := context.Background()
		inputs := []EntryInput{
			{Date: "2024-01-10", Category: "Salário", Amount: 5000, Type: models.EntryTypeIncome},
			{Date: "2024-01-12", Category: "Alimentação", Amount: 250, Type: models.EntryTypeExpense},
			{Date: "2024-01-11", Category: "Alimentação", Amount: 50, Type: models.EntryTypeExpense},
		}
		for _, in := range inputs {
			_, err := m.AddEntry(ctx, in)
			testutil.AssertNoError(t, err)
		}

		page, err := m.ListEntries(pagination.PageRequest{Page: 1, PageSize: 2})
		testutil.AssertNoError(t, err)
		if page.TotalItems != 3 || page.TotalPages != 2 || len(page.Data) != 2 {
			t.Fatalf("unexpected page %+v", page)
		}
		if page.Data[0].Date != "2024-01-12" {
			t.Errorf("expected newest first, got %s", page.Data[0].Date)
		}

		s, err := m.Summary()
		testutil.AssertNoError(t, err)
		if s.Income != 5000 || s.Expense != 300 || s.Balance != 4700 {
			t.Errorf("unexpected summary %+v", s)
		}
		if len(s.ByCategory) != 2 {
			t.Errorf("expected 2 category totals, got %+v", s.ByCategory)
		}
	})
}

func TestCategories(t *testing.T) {
	t.Run("in_use_in_active_budget", func(t *testing.T) {
		m := signedIn(t)
		ctx := context.Background()
		_, err := m.AddEntry(ctx, EntryInput{Category: "Alimentação", Amount: 250, Type: models.EntryTypeExpense})
		testutil.AssertNoError(t, err)

		var food, leisure string
		for _, c := range m.Categories() {
			switch c.Name {
			case "Alimentação":
				food = c.ID
			case "Lazer":
				leisure = c.ID
			}
		}

		err = m.DeleteCategory(ctx, food)
		testutil.AssertAppError(t, err, "CATEGORY_IN_USE")
		testutil.AssertNoError(t, m.DeleteCategory(ctx, leisure))
		testutil.AssertAppError(t, m.DeleteCategory(ctx, leisure), "CATEGORY_NOT_FOUND")
	})

	t.Run("other_budgets_are_not_checked", func(t *testing.T) {
		m := signedIn(t)
		ctx := context.Background()
		_, err := m.AddEntry(ctx, EntryInput{Category: "Transporte", Amount: 20, Type: models.EntryTypeExpense})
		testutil.AssertNoError(t, err)
		_, err = m.CreateBudget(ctx, "Viagem")
		testutil.AssertNoError(t, err)

		for _, c := range m.Categories() {
			if c.Name == "Transporte" {
				testutil.AssertNoError(t, m.DeleteCategory(ctx, c.ID))
			}
		}
	})

	t.Run("add_and_update", func(t *testing.T) {
		m := signedIn(t)
		ctx := context.Background()

		c, err := m.AddCategory(ctx, CategoryInput{Name: "Pets", Type: models.CategoryTypeExpense})
		testutil.AssertNoError(t, err)
		if c.Color == "" || c.Icon == "" {
			t.Errorf("expected defaults, got %+v", c)
		}
		_, err = m.AddCategory(ctx, CategoryInput{Name: "Pets", Type: models.CategoryTypeExpense})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
		_, err = m.AddCategory(ctx, CategoryInput{Name: "X", Type: "other"})
		testutil.AssertAppError(t, err, "INVALID_INPUT")

		updated, err := m.UpdateCategory(ctx, c.ID, CategoryInput{Name: "Animais", Type: models.CategoryTypeExpense, Color: "#000000"})
		testutil.AssertNoError(t, err)
		if updated.Name != "Animais" || updated.Color != "#000000" {
			t.Errorf("unexpected update %+v", updated)
		}
		_, err = m.UpdateCategory(ctx, "missing", CategoryInput{Name: "A", Type: models.CategoryTypeIncome})
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})
}

func TestClearUser(t *testing.T) {
	m, ls := newLocalManager(t)
	ctx := context.Background()
	p, _ := m.SetUser(ctx, "alice@example.com", "Alice")
	ls.SaveSettings(ctx, localstore.Settings{Currency: "USD"})

	var mu sync.Mutex
	var cleared int
	m.OnChange(func(p *models.UserProfile) {
		if p == nil {
			mu.Lock()
			cleared++
			mu.Unlock()
		}
	})

	m.ClearUser(ctx)
	m.ClearUser(ctx)

	if m.Snapshot() != nil {
		t.Error("expected no current user")
	}
	if st := m.Status(); st.State != StateUninitialized {
		t.Errorf("expected uninitialized, got %s", st.State)
	}
	if ls.Load(ctx, p.ID) != nil {
		t.Error("profile should be wiped from local storage")
	}
	if ls.LoadSettings(ctx) != localstore.DefaultSettings() {
		t.Error("settings should be wiped from local storage")
	}
	if ls.RememberedUser(ctx) != "" {
		t.Error("short-lived storage should be wiped")
	}
	mu.Lock()
	defer mu.Unlock()
	if cleared != 2 {
		t.Errorf("expected 2 clear notifications, got %d", cleared)
	}
}

func TestExportImport(t *testing.T) {
	t.Run("round_trip", func(t *testing.T) {
		m, ls := newLocalManager(t)
		ctx := context.Background()
		m.SetUser(ctx, "alice@example.com", "Alice")
		m.AddEntry(ctx, EntryInput{Date: "2024-01-15", Description: "Salary", Category: "Salário", Amount: 5000, Type: models.EntryTypeIncome})
		m.CreateBudget(ctx, "Viagem")
		before := m.Snapshot()

		data, err := m.ExportUserData(ctx)
		testutil.AssertNoError(t, err)
		if !ls.LastBackup(ctx).Equal(fixedNow) {
			t.Errorf("expected backup stamp %v, got %v", fixedNow, ls.LastBackup(ctx))
		}

		m.ClearUser(ctx)
		testutil.AssertNoError(t, m.ImportUserData(ctx, data))

		if after := m.Snapshot(); !reflect.DeepEqual(before, after) {
			t.Errorf("round trip mismatch:\nbefore %+v\nafter  %+v", before, after)
		}
	})

	t.Run("invalid_json", func(t *testing.T) {
		m := signedIn(t)
		before := m.Snapshot()

		err := m.ImportUserData(context.Background(), []byte("{not json"))
		testutil.AssertAppError(t, err, "INVALID_IMPORT")
		if !reflect.DeepEqual(before, m.Snapshot()) {
			t.Error("failed import must not change state")
		}
	})

	t.Run("import_after_clear_is_ready", func(t *testing.T) {
		m, _ := newLocalManager(t)
		ctx := context.Background()
		m.SetUser(ctx, "alice@example.com", "Alice")
		data, err := m.ExportUserData(ctx)
		testutil.AssertNoError(t, err)

		m.ClearUser(ctx)
		if st := m.Status(); st.State != StateUninitialized {
			t.Fatalf("expected uninitialized after clear, got %s", st.State)
		}

		testutil.AssertNoError(t, m.ImportUserData(ctx, data))
		st := m.Status()
		if st.State != StateReady || st.Mode != profilestore.ModeLocal || st.UserID == "" {
			t.Errorf("expected ready local context with a user, got %+v", st)
		}

		waitCtx, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		testutil.AssertNoError(t, m.WaitReady(waitCtx))
	})

	t.Run("foreign_profile_logs_warning", func(t *testing.T) {
		core, logs := observer.New(zap.WarnLevel)
		ls := localstore.New(kvstore.NewMemory(), kvstore.NewMemory(), localstore.WithClock(clock))
		m := NewManager(ls, WithClock(clock), WithLogger(zap.New(core).Sugar()))
		ctx := context.Background()
		p, err := m.SetUser(ctx, "alice@example.com", "Alice")
		testutil.AssertNoError(t, err)

		other := p.Clone()
		other.ID = ids.FromEmail("bob@example.com")
		data, _ := json.Marshal(other)
		testutil.AssertNoError(t, m.ImportUserData(ctx, data))

		if n := logs.FilterMessage("imported profile belongs to another user").Len(); n != 1 {
			t.Errorf("expected one warning, got %d", n)
		}
		if got := m.Status().UserID; got != other.ID {
			t.Errorf("import should still replace the profile, got user %s", got)
		}

		testutil.AssertNoError(t, m.ImportUserData(ctx, data))
		if n := logs.FilterMessage("imported profile belongs to another user").Len(); n != 1 {
			t.Errorf("re-importing the current user should not warn, got %d warnings", n)
		}
	})

	t.Run("export_signed_out", func(t *testing.T) {
		m, _ := newLocalManager(t)
		_, err := m.ExportUserData(context.Background())
		testutil.AssertAppError(t, err, "NOT_AUTHENTICATED")
	})
}

func TestResume(t *testing.T) {
	ls := localstore.New(kvstore.NewMemory(), kvstore.NewMemory(), localstore.WithClock(clock))
	ctx := context.Background()

	first := NewManager(ls, WithClock(clock))
	p, _ := first.SetUser(ctx, "alice@example.com", "Alice")
	first.Close()

	second := NewManager(ls, WithClock(clock))
	got, err := second.Resume(ctx)
	testutil.AssertNoError(t, err)
	if got == nil || got.ID != p.ID {
		t.Fatalf("expected resumed profile %s, got %+v", p.ID, got)
	}

	empty := NewManager(localstore.New(kvstore.NewMemory(), nil))
	got, err = empty.Resume(ctx)
	testutil.AssertNoError(t, err)
	if got != nil {
		t.Errorf("expected nothing to resume, got %+v", got)
	}
}

func TestCloseDiscardsChanges(t *testing.T) {
	m := signedIn(t)
	before := m.Snapshot()
	m.Close()

	m.CreateBudget(context.Background(), "Late")
	if !reflect.DeepEqual(before, m.Snapshot()) {
		t.Error("changes after close should be discarded")
	}
}

func TestCollaborationStubs(t *testing.T) {
	m := signedIn(t)
	ctx := context.Background()

	_, err := m.JoinBudgetByCode(ctx, "PFABC123")
	testutil.AssertAppError(t, err, "NOT_IMPLEMENTED")
	_, err = m.FindBudgetByCode(ctx, "PFABC123")
	testutil.AssertAppError(t, err, "NOT_IMPLEMENTED")
	testutil.AssertAppError(t, m.LeaveBudgetAsCollaborator(ctx, "b1"), "NOT_IMPLEMENTED")

	if errors.Is(err, apperrors.ErrAccessDenied) {
		t.Error("stub results must not look like a denial")
	}

	_, err = m.JoinBudgetByCode(ctx, "bad")
	testutil.AssertAppError(t, err, "INVALID_INPUT")
}

// remoteFixture wires a data context to a migrated SQLite database acting
// as the hosted store.
type remoteFixture struct {
	db       *gorm.DB
	svc      *remote.Service
	provider *auth.JWTProvider
	local    *localstore.Store
	m        DataContext
}

func newRemoteFixture(t *testing.T) *remoteFixture {
	t.Helper()
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	provider := auth.NewJWTProvider(db, "test-secret", auth.WithBcryptCost(bcrypt.MinCost))
	svc := remote.NewService(db, provider)
	local := localstore.New(kvstore.NewMemory(), nil)
	m := NewManager(local, WithRemote(svc), WithAuth(provider), WithClock(clock))
	m.Start(context.Background())
	t.Cleanup(m.Close)

	return &remoteFixture{db: db, svc: svc, provider: provider, local: local, m: m}
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestRemoteMode(t *testing.T) {
	t.Run("sign_up_publishes_default_profile", func(t *testing.T) {
		f := newRemoteFixture(t)
		ctx := context.Background()

		p, err := f.m.SignUp(ctx, "alice@example.com", testutil.TestPassword, "Alice")
		testutil.AssertNoError(t, err)
		if st := f.m.Status(); st.Mode != profilestore.ModeRemote {
			t.Fatalf("expected remote mode, got %+v", st)
		}

		session, _ := f.provider.GetSession(ctx)
		if p.ID != session.User.ID {
			t.Errorf("profile id should be the session user id")
		}

		loaded := f.svc.GetUserProfile(ctx, p.ID)
		if loaded == nil || len(loaded.Budgets) != 1 || loaded.Budgets[0].Code != p.Budgets[0].Code {
			t.Fatalf("expected published profile, got %+v", loaded)
		}
		if len(loaded.Categories) != len(p.Categories) {
			t.Errorf("expected %d remote categories, got %d", len(p.Categories), len(loaded.Categories))
		}
	})

	t.Run("entry_takes_server_id", func(t *testing.T) {
		f := newRemoteFixture(t)
		ctx := context.Background()
		_, err := f.m.SignUp(ctx, "alice@example.com", testutil.TestPassword, "Alice")
		testutil.AssertNoError(t, err)

		e, err := f.m.AddEntry(ctx, EntryInput{Date: "2024-01-15", Description: "Salary", Category: "Salário", Amount: 5000, Type: models.EntryTypeIncome})
		testutil.AssertNoError(t, err)

		active, _ := f.m.ActiveBudget()
		remoteProfile := f.svc.GetUserProfile(ctx, active.OwnerID)
		if len(remoteProfile.Budgets[0].Entries) != 1 || remoteProfile.Budgets[0].Entries[0].ID != e.ID {
			t.Errorf("local entry id %s should match the stored row", e.ID)
		}
		if st := f.m.Status(); st.Mode != profilestore.ModeRemote {
			t.Errorf("expected to stay in remote mode, got %s", st.Mode)
		}
	})

	t.Run("resume_without_session_stays_local", func(t *testing.T) {
		f := newRemoteFixture(t)
		ctx := context.Background()
		p, err := f.m.SignUp(ctx, "alice@example.com", testutil.TestPassword, "Alice")
		testutil.AssertNoError(t, err)

		// Sign out behind the context's back so no session matches.
		f.m.Close()
		f.provider.SignOut(ctx)
		f.svc.InvalidateSession()

		m := NewManager(f.local, WithRemote(f.svc), WithAuth(f.provider), WithClock(clock))
		resumed, err := m.Resume(ctx)
		testutil.AssertNoError(t, err)
		if resumed == nil || resumed.ID != p.ID {
			t.Fatalf("expected resumed profile")
		}
		if st := m.Status(); st.Mode != profilestore.ModeLocal {
			t.Errorf("resume without a matching session should be local, got %s", st.Mode)
		}

		e, err := m.AddEntry(ctx, EntryInput{Category: "Lazer", Amount: 10, Type: models.EntryTypeExpense})
		testutil.AssertNoError(t, err)
		if e.ID == "" {
			t.Error("expected local id")
		}
	})

	t.Run("denied_write_demotes_for_rest_of_session", func(t *testing.T) {
		f := newRemoteFixture(t)
		ctx := context.Background()
		_, err := f.m.SignUp(ctx, "alice@example.com", testutil.TestPassword, "Alice")
		testutil.AssertNoError(t, err)

		// A budget that exists only locally fails the remote access check.
		local := &models.UserProfile{}
		*local = *f.m.Snapshot()
		orphan := newBudget("Offline", local.ID, nil, fixedNow)
		local.Budgets = append(local.Budgets, orphan)
		local.ActiveBudgetID = orphan.ID
		data, _ := json.Marshal(local)
		testutil.AssertNoError(t, f.m.ImportUserData(ctx, data))

		_, err = f.m.AddEntry(ctx, EntryInput{Category: "Lazer", Amount: 10, Type: models.EntryTypeExpense})
		testutil.AssertNoError(t, err)
		if st := f.m.Status(); st.Mode != profilestore.ModeLocal {
			t.Fatalf("expected local mode after failed write, got %s", st.Mode)
		}

		active, _ := f.m.ActiveBudget()
		if len(active.Entries) != 1 {
			t.Errorf("entry should still be kept locally")
		}
	})

	t.Run("signed_out_event_clears_user", func(t *testing.T) {
		f := newRemoteFixture(t)
		ctx := context.Background()
		p, err := f.m.SignUp(ctx, "alice@example.com", testutil.TestPassword, "Alice")
		testutil.AssertNoError(t, err)

		testutil.AssertNoError(t, f.provider.SignOut(ctx))

		waitFor(t, "user to be cleared", func() bool { return f.m.Snapshot() == nil })
		waitFor(t, "local storage to be wiped", func() bool { return f.local.Load(ctx, p.ID) == nil })
	})

	t.Run("late_signed_out_event_keeps_new_session", func(t *testing.T) {
		f := newRemoteFixture(t)
		ctx := context.Background()
		_, err := f.m.SignUp(ctx, "alice@example.com", testutil.TestPassword, "Alice")
		testutil.AssertNoError(t, err)

		for i := 0; i < 20; i++ {
			testutil.AssertNoError(t, f.provider.SignOut(ctx))
			_, err := f.m.SignIn(ctx, "alice@example.com", testutil.TestPassword)
			testutil.AssertNoError(t, err)

			// Let the sign-out event be delivered after the new sign-in.
			time.Sleep(30 * time.Millisecond)

			if f.m.Snapshot() == nil {
				t.Fatalf("iteration %d: profile of the new sign-in was cleared", i)
			}
			if session, _ := f.provider.GetSession(ctx); session == nil {
				t.Fatalf("iteration %d: new session was ended", i)
			}
		}
	})

	t.Run("sign_in_loads_remote_profile", func(t *testing.T) {
		f := newRemoteFixture(t)
		ctx := context.Background()
		first, err := f.m.SignUp(ctx, "alice@example.com", testutil.TestPassword, "Alice")
		testutil.AssertNoError(t, err)

		other := NewManager(localstore.New(kvstore.NewMemory(), nil), WithRemote(f.svc), WithAuth(f.provider), WithClock(clock))
		got, err := other.SignIn(ctx, "alice@example.com", testutil.TestPassword)
		testutil.AssertNoError(t, err)
		if got.Budgets[0].ID != first.Budgets[0].ID {
			t.Errorf("expected remote budget %s, got %s", first.Budgets[0].ID, got.Budgets[0].ID)
		}

		_, err = other.SignIn(ctx, "alice@example.com", "wrong")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})

	t.Run("collaborator_adopts_shared_budgets", func(t *testing.T) {
		f := newRemoteFixture(t)
		ctx := context.Background()
		alice, err := f.m.SignUp(ctx, "alice@example.com", testutil.TestPassword, "Alice")
		testutil.AssertNoError(t, err)

		bob := testutil.CreateTestAuthUserWithEmail(t, f.db, "bob@example.com")
		testutil.CreateTestProfile(t, f.db, bob.ID, bob.Email)
		shared := testutil.CreateTestBudget(t, f.db, alice.ID, bob.ID)

		m := NewManager(localstore.New(kvstore.NewMemory(), nil), WithRemote(f.svc), WithAuth(f.provider), WithClock(clock))
		m.Start(ctx)
		defer m.Close()

		p, err := m.SignIn(ctx, "bob@example.com", testutil.TestPassword)
		testutil.AssertNoError(t, err)
		if len(p.Budgets) != 0 {
			t.Fatalf("owned budgets should start empty, got %d", len(p.Budgets))
		}

		f.svc.Wait()
		waitFor(t, "shared budget adoption", func() bool {
			s := m.Snapshot()
			return s != nil && len(s.Budgets) == 1 && s.ActiveBudgetID == shared.ID
		})
	})
}
