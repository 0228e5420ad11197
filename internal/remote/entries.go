package remote

import (
	"context"

	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/models"
)

// CreateBudgetEntry inserts entry into its budget and returns the id the
// store assigned, or "" when there is no session, the user may not write to
// the budget, or the insert fails.
func (s *Service) CreateBudgetEntry(ctx context.Context, entry *models.BudgetEntry) string {
	if entry == nil {
		return ""
	}
	session := s.requireSession(ctx, "create_budget_entry")
	if session == nil {
		return ""
	}
	if !s.VerifyBudgetAccess(ctx, entry.BudgetID, session.User.ID) {
		s.recordDenial(ctx, session.User.ID, "create", "budget_entry", entry.BudgetID, "no access")
		return ""
	}

	row := *entry
	row.ID = ""
	row.UserID = session.User.ID
	row.NormalizeAmount()
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		s.log.Errorw("failed to create entry", "budget_id", entry.BudgetID, "error", err)
		return ""
	}
	return row.ID
}

// UpdateBudgetEntry overwrites the editable fields of entry.ID after
// checking access to the entry's budget.
func (s *Service) UpdateBudgetEntry(ctx context.Context, entry *models.BudgetEntry) bool {
	if entry == nil {
		return false
	}
	session := s.requireSession(ctx, "update_budget_entry")
	if session == nil {
		return false
	}
	budgetID, ok := s.entryBudget(ctx, entry.ID)
	if !ok {
		return false
	}
	if !s.VerifyBudgetAccess(ctx, budgetID, session.User.ID) {
		s.recordDenial(ctx, session.User.ID, "update", "budget_entry", entry.ID, "no access")
		return false
	}

	err := s.db.WithContext(ctx).Model(&models.BudgetEntry{}).Where("id = ?", entry.ID).
		Updates(map[string]interface{}{
			"date":        entry.Date,
			"description": entry.Description,
			"category":    entry.Category,
			"amount":      models.SignedAmount(entry.Amount, entry.Type),
			"type":        entry.Type,
			"updated_at":  s.now().UTC(),
		}).Error
	if err != nil {
		s.log.Errorw("failed to update entry", "entry_id", entry.ID, "error", err)
		return false
	}
	return true
}

// DeleteBudgetEntry removes entryID after checking access to its budget.
func (s *Service) DeleteBudgetEntry(ctx context.Context, entryID string) bool {
	session := s.requireSession(ctx, "delete_budget_entry")
	if session == nil {
		return false
	}
	budgetID, ok := s.entryBudget(ctx, entryID)
	if !ok {
		return false
	}
	if !s.VerifyBudgetAccess(ctx, budgetID, session.User.ID) {
		s.recordDenial(ctx, session.User.ID, "delete", "budget_entry", entryID, "no access")
		return false
	}

	if err := s.db.WithContext(ctx).Where("id = ?", entryID).Delete(&models.BudgetEntry{}).Error; err != nil {
		s.log.Errorw("failed to delete entry", "entry_id", entryID, "error", err)
		return false
	}
	return true
}

// entryBudget resolves the parent budget of an entry.
func (s *Service) entryBudget(ctx context.Context, entryID string) (string, bool) {
	var entry models.BudgetEntry
	err := s.db.WithContext(ctx).Select("id", "budget_id").Where("id = ?", entryID).First(&entry).Error
	if err != nil {
		s.log.Warnw("entry lookup failed", "entry_id", entryID, "error", err)
		return "", false
	}
	return entry.BudgetID, true
}
