package userdata

import (
	"context"

	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/models"
	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/pagination"
	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/profilestore"
)

// State is the lifecycle state of the data context.
type State string

const (
	StateUninitialized State = "uninitialized"
	StateInitializing  State = "initializing"
	StateReady         State = "ready"
)

// EntryInput carries the user-editable fields of a budget entry. Amount
// may be given with either sign; it is stored with the sign of Type.
type EntryInput struct {
	Date        string
	Description string
	Category    string
	Amount      float64
	Type        models.EntryType
}

// CategoryInput carries the user-editable fields of a category.
type CategoryInput struct {
	Name        string
	Type        models.CategoryType
	Color       string
	Icon        string
	Description string
}

// CategoryTotal is the sum of the active budget's entries in one category.
type CategoryTotal struct {
	Category string           `json:"category"`
	Type     models.EntryType `json:"type"`
	Total    float64          `json:"total"`
}

// Summary aggregates the active budget. Expense is reported as a positive
// magnitude; Balance is Income minus Expense.
type Summary struct {
	BudgetID   string          `json:"budgetId"`
	Income     float64         `json:"income"`
	Expense    float64         `json:"expense"`
	Balance    float64         `json:"balance"`
	EntryCount int             `json:"entryCount"`
	ByCategory []CategoryTotal `json:"byCategory"`
}

// Status describes the data context for callers that render a loading gate.
type Status struct {
	State  State             `json:"state"`
	Mode   profilestore.Mode `json:"mode,omitempty"`
	UserID string            `json:"userId,omitempty"`
}

// ChangeListener is called with a copy of the profile after every commit,
// or nil after the user is cleared.
type ChangeListener func(profile *models.UserProfile)

// DataContext is the contract the UI layer calls into.
type DataContext interface {
	Start(ctx context.Context)
	WaitReady(ctx context.Context) error
	Close()
	Status() Status
	OnChange(l ChangeListener) (unsubscribe func())

	SignUp(ctx context.Context, email, password, name string) (*models.UserProfile, error)
	SignIn(ctx context.Context, email, password string) (*models.UserProfile, error)
	SetUser(ctx context.Context, email, name string) (*models.UserProfile, error)
	Resume(ctx context.Context) (*models.UserProfile, error)
	ClearUser(ctx context.Context)
	Snapshot() *models.UserProfile
	UpdateProfile(ctx context.Context, name string) (*models.UserProfile, error)

	CreateBudget(ctx context.Context, name string) (*models.Budget, error)
	SwitchBudget(ctx context.Context, budgetID string) error
	RenameBudget(ctx context.Context, budgetID, name string) (*models.Budget, error)
	DeleteBudget(ctx context.Context, budgetID string) bool
	DeleteBudgetChecked(ctx context.Context, budgetID string) error
	ActiveBudget() (*models.Budget, error)

	AddEntry(ctx context.Context, in EntryInput) (*models.BudgetEntry, error)
	UpdateEntry(ctx context.Context, entryID string, in EntryInput) (*models.BudgetEntry, error)
	DeleteEntry(ctx context.Context, entryID string) error
	ListEntries(page pagination.PageRequest) (*pagination.PageResponse[models.BudgetEntry], error)
	Summary() (*Summary, error)

	AddCategory(ctx context.Context, in CategoryInput) (*models.Category, error)
	UpdateCategory(ctx context.Context, categoryID string, in CategoryInput) (*models.Category, error)
	DeleteCategory(ctx context.Context, categoryID string) error
	Categories() []models.Category

	ExportUserData(ctx context.Context) ([]byte, error)
	ImportUserData(ctx context.Context, data []byte) error

	JoinBudgetByCode(ctx context.Context, code string) (*models.Budget, error)
	FindBudgetByCode(ctx context.Context, code string) (*models.Budget, error)
	LeaveBudgetAsCollaborator(ctx context.Context, budgetID string) error
}
