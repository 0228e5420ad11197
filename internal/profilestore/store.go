// Package profilestore is the strategy the data context writes through.
// Remote targets the hosted store, Local keeps everything in the local
// fallback store. The data context picks one at sign-in and demotes to
// Local when a remote write fails.
package profilestore

import (
	"context"

	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/models"
)

// Mode names the active strategy.
type Mode string

const (
	ModeRemote Mode = "remote"
	ModeLocal  Mode = "local"
)

// ProfileStore is implemented by Remote and Local. Write methods report
// success as a bool and never return errors; a false result from Remote
// means "fall back", not "rejected".
type ProfileStore interface {
	Mode() Mode
	// SessionUserID returns the id of the signed-in identity, or "".
	SessionUserID(ctx context.Context) string
	LoadProfile(ctx context.Context, userID string) *models.UserProfile
	// CreateProfile publishes a freshly built profile with its budgets and categories.
	CreateProfile(ctx context.Context, profile *models.UserProfile) bool
	UpdateProfile(ctx context.Context, userID, name string) bool
	// CreateBudget may rewrite budget.Code when the code is already taken.
	CreateBudget(ctx context.Context, budget *models.Budget) bool
	RenameBudget(ctx context.Context, budgetID, name string) bool
	DeleteBudget(ctx context.Context, budgetID string) bool
	// CreateEntry returns the id the store assigned. An empty id with ok
	// true means the caller's id stands.
	CreateEntry(ctx context.Context, entry *models.BudgetEntry) (id string, ok bool)
	UpdateEntry(ctx context.Context, entry *models.BudgetEntry) bool
	DeleteEntry(ctx context.Context, entryID string) bool
}
