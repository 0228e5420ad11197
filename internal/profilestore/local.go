package profilestore

import (
	"context"

	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/localstore"
	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/models"
)

// Local serves profiles from the local fallback store. Its writes are
// no-ops that succeed: the data context persists the whole document after
// every change.
type Local struct {
	store *localstore.Store
}

// NewLocal wraps store.
func NewLocal(store *localstore.Store) *Local {
	return &Local{store: store}
}

func (l *Local) Mode() Mode { return ModeLocal }

func (l *Local) SessionUserID(context.Context) string { return "" }

func (l *Local) LoadProfile(ctx context.Context, userID string) *models.UserProfile {
	return l.store.Load(ctx, userID)
}

func (l *Local) CreateProfile(context.Context, *models.UserProfile) bool { return true }

func (l *Local) UpdateProfile(context.Context, string, string) bool { return true }

func (l *Local) CreateBudget(context.Context, *models.Budget) bool { return true }

func (l *Local) RenameBudget(context.Context, string, string) bool { return true }

func (l *Local) DeleteBudget(context.Context, string) bool { return true }

func (l *Local) CreateEntry(context.Context, *models.BudgetEntry) (string, bool) { return "", true }

func (l *Local) UpdateEntry(context.Context, *models.BudgetEntry) bool { return true }

func (l *Local) DeleteEntry(context.Context, string) bool { return true }

var _ ProfileStore = (*Local)(nil)
