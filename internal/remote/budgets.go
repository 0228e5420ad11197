package remote

import (
	"context"

	"gorm.io/gorm/clause"

	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/ids"
	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/models"
)

const maxShareCodeAttempts = 5

// CreateBudget inserts budget when its owner is the signed-in user. A share
// code collision draws a new code; the final code is written back to budget.
func (s *Service) CreateBudget(ctx context.Context, budget *models.Budget) bool {
	if budget == nil {
		return false
	}
	session := s.requireSession(ctx, "create_budget")
	if session == nil {
		return false
	}
	if budget.OwnerID != session.User.ID {
		s.recordDenial(ctx, session.User.ID, "create", "budget", budget.ID, "owner mismatch")
		return false
	}

	row := budget.Clone()
	row.Entries = nil
	if row.Code == "" {
		row.Code = ids.NewShareCode()
	}

	for attempt := 1; attempt <= maxShareCodeAttempts; attempt++ {
		err := s.db.WithContext(ctx).Omit(clause.Associations).Create(&row).Error
		if err == nil {
			budget.ID = row.ID
			budget.Code = row.Code
			return true
		}
		if !isUniqueViolation(err) {
			s.log.Errorw("failed to create budget", "budget_id", row.ID, "error", err)
			return false
		}
		s.log.Infow("share code collision, retrying", "code", row.Code, "attempt", attempt)
		row.Code = ids.NewShareCode()
	}

	s.log.Errorw("giving up on share code after collisions", "budget_id", row.ID)
	return false
}

// DeleteBudget removes budgetID and its entries when the signed-in user owns it.
func (s *Service) DeleteBudget(ctx context.Context, budgetID string) bool {
	session := s.requireSession(ctx, "delete_budget")
	if session == nil {
		return false
	}

	var budget models.Budget
	if err := s.db.WithContext(ctx).Select("id", "owner_id").Where("id = ?", budgetID).First(&budget).Error; err != nil {
		s.log.Warnw("budget lookup failed", "budget_id", budgetID, "error", err)
		return false
	}
	if budget.OwnerID != session.User.ID {
		s.recordDenial(ctx, session.User.ID, "delete", "budget", budgetID, "not owner")
		return false
	}

	db := s.db.WithContext(ctx)
	if err := db.Where("budget_id = ?", budgetID).Delete(&models.BudgetEntry{}).Error; err != nil {
		s.log.Errorw("failed to delete budget entries", "budget_id", budgetID, "error", err)
		return false
	}
	if err := db.Where("id = ?", budgetID).Delete(&models.Budget{}).Error; err != nil {
		s.log.Errorw("failed to delete budget", "budget_id", budgetID, "error", err)
		return false
	}
	return true
}

// RenameBudget changes the name of a budget the signed-in user can access.
func (s *Service) RenameBudget(ctx context.Context, budgetID, name string) bool {
	session := s.requireSession(ctx, "rename_budget")
	if session == nil {
		return false
	}
	if !s.VerifyBudgetAccess(ctx, budgetID, session.User.ID) {
		s.recordDenial(ctx, session.User.ID, "update", "budget", budgetID, "no access")
		return false
	}
	err := s.db.WithContext(ctx).Model(&models.Budget{}).Where("id = ?", budgetID).
		Updates(map[string]interface{}{"name": name, "updated_at": s.now().UTC()}).Error
	if err != nil {
		s.log.Errorw("failed to rename budget", "budget_id", budgetID, "error", err)
		return false
	}
	return true
}
