package userdata

import (
	"context"

	apperrors "github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/errors"
	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/ids"
	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/models"
)

// Joining, finding and leaving shared budgets are not built yet. They
// report ErrNotImplemented so callers can tell them apart from a denial.

func (m *manager) JoinBudgetByCode(_ context.Context, code string) (*models.Budget, error) {
	if !ids.IsShareCode(code) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid share code")
	}
	return nil, apperrors.ErrNotImplemented
}

func (m *manager) FindBudgetByCode(_ context.Context, code string) (*models.Budget, error) {
	if !ids.IsShareCode(code) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid share code")
	}
	return nil, apperrors.ErrNotImplemented
}

func (m *manager) LeaveBudgetAsCollaborator(_ context.Context, _ string) error {
	return apperrors.ErrNotImplemented
}
