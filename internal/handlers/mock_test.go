package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/auth"
	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/localstore"
	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/middleware"
	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/models"
	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/pagination"
	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/userdata"
	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/validator"
)

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
}

// --- mock data context ---

type mockDataContext struct {
	statusFn        func() userdata.Status
	signUpFn        func(email, password, name string) (*models.UserProfile, error)
	signInFn        func(email, password string) (*models.UserProfile, error)
	clearUserFn     func()
	snapshotFn      func() *models.UserProfile
	updateProfileFn func(name string) (*models.UserProfile, error)

	createBudgetFn func(name string) (*models.Budget, error)
	switchBudgetFn func(budgetID string) error
	renameBudgetFn func(budgetID, name string) (*models.Budget, error)
	deleteBudgetFn func(budgetID string) error

	addEntryFn    func(in userdata.EntryInput) (*models.BudgetEntry, error)
	updateEntryFn func(entryID string, in userdata.EntryInput) (*models.BudgetEntry, error)
	deleteEntryFn func(entryID string) error
	listEntriesFn func(page pagination.PageRequest) (*pagination.PageResponse[models.BudgetEntry], error)
	summaryFn     func() (*userdata.Summary, error)

	addCategoryFn    func(in userdata.CategoryInput) (*models.Category, error)
	updateCategoryFn func(categoryID string, in userdata.CategoryInput) (*models.Category, error)
	deleteCategoryFn func(categoryID string) error
	categoriesFn     func() []models.Category

	exportFn func() ([]byte, error)
	importFn func(data []byte) error

	joinFn  func(code string) (*models.Budget, error)
	findFn  func(code string) (*models.Budget, error)
	leaveFn func(budgetID string) error
}

func (m *mockDataContext) Start(context.Context) {}
func (m *mockDataContext) WaitReady(context.Context) error { return nil }
func (m *mockDataContext) Close() {}
func (m *mockDataContext) OnChange(userdata.ChangeListener) func() { return func() {} }

func (m *mockDataContext) Status() userdata.Status {
	if m.statusFn != nil {
		return m.statusFn()
	}
	return userdata.Status{State: userdata.StateReady, Mode: "local"}
}

func (m *mockDataContext) SignUp(_ context.Context, email, password, name string) (*models.UserProfile, error) {
	if m.signUpFn != nil {
		return m.signUpFn(email, password, name)
	}
	return &models.UserProfile{Email: email, Name: name}, nil
}

func (m *mockDataContext) SignIn(_ context.Context, email, password string) (*models.UserProfile, error) {
	if m.signInFn != nil {
		return m.signInFn(email, password)
	}
	return &models.UserProfile{Email: email}, nil
}

func (m *mockDataContext) SetUser(_ context.Context, email, name string) (*models.UserProfile, error) {
	return &models.UserProfile{Email: email, Name: name}, nil
}

func (m *mockDataContext) Resume(context.Context) (*models.UserProfile, error) { return nil, nil }

func (m *mockDataContext) ClearUser(context.Context) {
	if m.clearUserFn != nil {
		m.clearUserFn()
	}
}

func (m *mockDataContext) Snapshot() *models.UserProfile {
	if m.snapshotFn != nil {
		return m.snapshotFn()
	}
	return nil
}

func (m *mockDataContext) UpdateProfile(_ context.Context, name string) (*models.UserProfile, error) {
	if m.updateProfileFn != nil {
		return m.updateProfileFn(name)
	}
	return &models.UserProfile{Name: name}, nil
}

func (m *mockDataContext) CreateBudget(_ context.Context, name string) (*models.Budget, error) {
	if m.createBudgetFn != nil {
		return m.createBudgetFn(name)
	}
	return &models.Budget{Name: name}, nil
}

func (m *mockDataContext) SwitchBudget(_ context.Context, budgetID string) error {
	if m.switchBudgetFn != nil {
		return m.switchBudgetFn(budgetID)
	}
	return nil
}

func (m *mockDataContext) RenameBudget(_ context.Context, budgetID, name string) (*models.Budget, error) {
	if m.renameBudgetFn != nil {
		return m.renameBudgetFn(budgetID, name)
	}
	return &models.Budget{Base: models.Base{ID: budgetID}, Name: name}, nil
}

func (m *mockDataContext) DeleteBudget(ctx context.Context, budgetID string) bool {
	return m.DeleteBudgetChecked(ctx, budgetID) == nil
}

func (m *mockDataContext) DeleteBudgetChecked(_ context.Context, budgetID string) error {
	if m.deleteBudgetFn != nil {
		return m.deleteBudgetFn(budgetID)
	}
	return nil
}

func (m *mockDataContext) ActiveBudget() (*models.Budget, error) { return &models.Budget{}, nil }

func (m *mockDataContext) AddEntry(_ context.Context, in userdata.EntryInput) (*models.BudgetEntry, error) {
	if m.addEntryFn != nil {
		return m.addEntryFn(in)
	}
	return &models.BudgetEntry{Category: in.Category, Amount: in.Amount, Type: in.Type}, nil
}

func (m *mockDataContext) UpdateEntry(_ context.Context, entryID string, in userdata.EntryInput) (*models.BudgetEntry, error) {
	if m.updateEntryFn != nil {
		return m.updateEntryFn(entryID, in)
	}
	return &models.BudgetEntry{Base: models.Base{ID: entryID}}, nil
}

func (m *mockDataContext) DeleteEntry(_ context.Context, entryID string) error {
	if m.deleteEntryFn != nil {
		return m.deleteEntryFn(entryID)
	}
	return nil
}

func (m *mockDataContext) ListEntries(page pagination.PageRequest) (*pagination.PageResponse[models.BudgetEntry], error) {
	if m.listEntriesFn != nil {
		return m.listEntriesFn(page)
	}
	resp := pagination.NewPageResponse([]models.BudgetEntry{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockDataContext) Summary() (*userdata.Summary, error) {
	if m.summaryFn != nil {
		return m.summaryFn()
	}
	return &userdata.Summary{}, nil
}

func (m *mockDataContext) AddCategory(_ context.Context, in userdata.CategoryInput) (*models.Category, error) {
	if m.addCategoryFn != nil {
		return m.addCategoryFn(in)
	}
	return &models.Category{Name: in.Name, Type: in.Type}, nil
}

func (m *mockDataContext) UpdateCategory(_ context.Context, categoryID string, in userdata.CategoryInput) (*models.Category, error) {
	if m.updateCategoryFn != nil {
		return m.updateCategoryFn(categoryID, in)
	}
	return &models.Category{Base: models.Base{ID: categoryID}, Name: in.Name}, nil
}

func (m *mockDataContext) DeleteCategory(_ context.Context, categoryID string) error {
	if m.deleteCategoryFn != nil {
		return m.deleteCategoryFn(categoryID)
	}
	return nil
}

func (m *mockDataContext) Categories() []models.Category {
	if m.categoriesFn != nil {
		return m.categoriesFn()
	}
	return nil
}

func (m *mockDataContext) ExportUserData(context.Context) ([]byte, error) {
	if m.exportFn != nil {
		return m.exportFn()
	}
	return []byte(`{}`), nil
}

func (m *mockDataContext) ImportUserData(_ context.Context, data []byte) error {
	if m.importFn != nil {
		return m.importFn(data)
	}
	return nil
}

func (m *mockDataContext) JoinBudgetByCode(_ context.Context, code string) (*models.Budget, error) {
	if m.joinFn != nil {
		return m.joinFn(code)
	}
	return nil, nil
}

func (m *mockDataContext) FindBudgetByCode(_ context.Context, code string) (*models.Budget, error) {
	if m.findFn != nil {
		return m.findFn(code)
	}
	return nil, nil
}

func (m *mockDataContext) LeaveBudgetAsCollaborator(_ context.Context, budgetID string) error {
	if m.leaveFn != nil {
		return m.leaveFn(budgetID)
	}
	return nil
}

var _ userdata.DataContext = (*mockDataContext)(nil)

// --- mock session provider ---

type mockSessions struct {
	auth.Provider
	session *auth.Session
}

func (m *mockSessions) GetSession(context.Context) (*auth.Session, error) {
	return m.session, nil
}

// --- mock settings store ---

type mockSettingsStore struct {
	settings localstore.Settings
	saveOK   bool
	saved    []localstore.Settings
}

func (m *mockSettingsStore) LoadSettings(context.Context) localstore.Settings { return m.settings }

func (m *mockSettingsStore) SaveSettings(_ context.Context, s localstore.Settings) bool {
	m.saved = append(m.saved, s)
	if m.saveOK {
		m.settings = s
	}
	return m.saveOK
}

var _ SettingsStore = (*mockSettingsStore)(nil)

// --- helpers ---

func injectUserID(id string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDKey, id)
		c.Next()
	}
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}
