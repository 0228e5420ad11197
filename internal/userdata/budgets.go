package userdata

import (
	"context"
	"strings"

	apperrors "github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/errors"
	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/models"
)

// CreateBudget appends a new budget and makes it active. A failed remote
// write is logged; the budget is kept locally either way.
func (m *manager) CreateBudget(ctx context.Context, name string) (*models.Budget, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "budget name is required")
	}

	m.opMu.Lock()
	defer m.opMu.Unlock()

	next, store, err := m.current()
	if err != nil {
		return nil, err
	}

	budget := newBudget(name, next.ID, next.ShareCodes(), m.now())
	if !store.CreateBudget(ctx, &budget) {
		m.log.Warnw("failed to sync new budget", "budget_id", budget.ID, "mode", store.Mode())
	}

	next.Budgets = append(next.Budgets, budget)
	next.ActiveBudgetID = budget.ID
	m.commit(ctx, next)

	out := budget.Clone()
	return &out, nil
}

// SwitchBudget selects budgetID as the active budget. The id is not checked.
func (m *manager) SwitchBudget(ctx context.Context, budgetID string) error {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	next, _, err := m.current()
	if err != nil {
		return err
	}
	next.ActiveBudgetID = budgetID
	m.commit(ctx, next)
	return nil
}

// RenameBudget changes the name of one of the user's budgets.
func (m *manager) RenameBudget(ctx context.Context, budgetID, name string) (*models.Budget, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "budget name is required")
	}

	m.opMu.Lock()
	defer m.opMu.Unlock()

	next, store, err := m.current()
	if err != nil {
		return nil, err
	}
	i := next.BudgetIndex(budgetID)
	if i < 0 {
		return nil, apperrors.ErrBudgetNotFound
	}

	if !store.RenameBudget(ctx, budgetID, name) {
		m.log.Warnw("failed to sync budget rename", "budget_id", budgetID)
	}
	next.Budgets[i].Name = name
	next.Budgets[i].Touch(m.now())
	m.commit(ctx, next)

	out := next.Budgets[i].Clone()
	return &out, nil
}

// DeleteBudget removes a budget and reports whether it did. The last
// budget and the active budget are never removed.
func (m *manager) DeleteBudget(ctx context.Context, budgetID string) bool {
	if err := m.DeleteBudgetChecked(ctx, budgetID); err != nil {
		m.log.Infow("budget not deleted", "budget_id", budgetID, "reason", err)
		return false
	}
	return true
}

// DeleteBudgetChecked is DeleteBudget reporting why a budget was kept.
func (m *manager) DeleteBudgetChecked(ctx context.Context, budgetID string) error {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	next, store, err := m.current()
	if err != nil {
		return err
	}
	if len(next.Budgets) <= 1 {
		return apperrors.ErrLastBudget
	}
	if budgetID == next.ActiveBudgetID {
		return apperrors.ErrActiveBudget
	}
	i := next.BudgetIndex(budgetID)
	if i < 0 {
		return apperrors.ErrBudgetNotFound
	}

	if next.Budgets[i].OwnerID == next.ID && !store.DeleteBudget(ctx, budgetID) {
		m.log.Warnw("failed to sync budget deletion", "budget_id", budgetID)
	}
	next.Budgets = append(next.Budgets[:i], next.Budgets[i+1:]...)
	m.commit(ctx, next)
	return nil
}

// ActiveBudget returns a copy of the selected budget.
func (m *manager) ActiveBudget() (*models.Budget, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.user == nil {
		return nil, apperrors.ErrNotAuthenticated
	}
	b := m.user.ActiveBudget()
	if b == nil {
		return nil, apperrors.ErrNoActiveBudget
	}
	out := b.Clone()
	return &out, nil
}
