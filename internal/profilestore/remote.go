package profilestore

import (
	"context"

	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/models"
	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/remote"
)

// Remote writes through to the hosted store.
type Remote struct {
	svc *remote.Service
}

// NewRemote wraps svc.
func NewRemote(svc *remote.Service) *Remote {
	return &Remote{svc: svc}
}

func (r *Remote) Mode() Mode { return ModeRemote }

func (r *Remote) SessionUserID(ctx context.Context) string {
	if s := r.svc.GetSession(ctx); s != nil {
		return s.User.ID
	}
	return ""
}

func (r *Remote) LoadProfile(ctx context.Context, userID string) *models.UserProfile {
	return r.svc.GetUserProfile(ctx, userID)
}

// CreateProfile inserts the profile row, then each budget and category.
// It stops at the first failure; rows already written stay.
func (r *Remote) CreateProfile(ctx context.Context, profile *models.UserProfile) bool {
	if !r.svc.CreateUserProfile(ctx, profile) {
		return false
	}
	for i := range profile.Budgets {
		if !r.svc.CreateBudget(ctx, &profile.Budgets[i]) {
			return false
		}
	}
	for i := range profile.Categories {
		if r.svc.CreateCategory(ctx, &profile.Categories[i]) == "" {
			return false
		}
	}
	return true
}

func (r *Remote) UpdateProfile(ctx context.Context, userID, name string) bool {
	return r.svc.UpdateUserProfile(ctx, userID, remote.ProfileUpdates{Name: &name})
}

func (r *Remote) CreateBudget(ctx context.Context, budget *models.Budget) bool {
	return r.svc.CreateBudget(ctx, budget)
}

func (r *Remote) RenameBudget(ctx context.Context, budgetID, name string) bool {
	return r.svc.RenameBudget(ctx, budgetID, name)
}

func (r *Remote) DeleteBudget(ctx context.Context, budgetID string) bool {
	return r.svc.DeleteBudget(ctx, budgetID)
}

func (r *Remote) CreateEntry(ctx context.Context, entry *models.BudgetEntry) (string, bool) {
	id := r.svc.CreateBudgetEntry(ctx, entry)
	return id, id != ""
}

func (r *Remote) UpdateEntry(ctx context.Context, entry *models.BudgetEntry) bool {
	return r.svc.UpdateBudgetEntry(ctx, entry)
}

func (r *Remote) DeleteEntry(ctx context.Context, entryID string) bool {
	return r.svc.DeleteBudgetEntry(ctx, entryID)
}

var _ ProfileStore = (*Remote)(nil)
