package remote

import (
	"context"

	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/models"
)

// VerifyBudgetAccess reports whether userID owns budgetID or is one of its
// collaborators. Any lookup failure denies access.
func (s *Service) VerifyBudgetAccess(ctx context.Context, budgetID, userID string) bool {
	if s.db == nil || budgetID == "" || userID == "" {
		return false
	}

	var budget models.Budget
	err := s.db.WithContext(ctx).
		Select("id", "owner_id", "collaborators").
		Where("id = ?", budgetID).
		First(&budget).Error
	if err != nil {
		s.log.Warnw("budget access lookup failed", "budget_id", budgetID, "user_id", userID, "error", err)
		return false
	}
	return budget.CanAccess(userID)
}

// recordDenial writes an audit row for a refused write. Failures are logged only.
func (s *Service) recordDenial(ctx context.Context, userID, action, resourceType, resourceID, reason string) {
	s.log.Warnw("write denied",
		"user_id", userID,
		"action", action,
		"resource_type", resourceType,
		"resource_id", resourceID,
		"reason", reason,
	)

	entry := &models.AuditLog{
		UserID:       userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Reason:       reason,
	}
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		s.log.Errorw("failed to create audit log entry", "error", err, "action", action)
	}
}
