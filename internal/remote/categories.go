package remote

import (
	"context"

	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/models"
)

// CreateCategory inserts a category for the signed-in user and returns its id.
func (s *Service) CreateCategory(ctx context.Context, category *models.Category) string {
	if category == nil {
		return ""
	}
	session := s.requireSession(ctx, "create_category")
	if session == nil {
		return ""
	}

	row := *category
	row.UserID = session.User.ID
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		s.log.Errorw("failed to create category", "user_id", session.User.ID, "error", err)
		return ""
	}
	return row.ID
}

// UpdateCategory overwrites a category owned by the signed-in user.
func (s *Service) UpdateCategory(ctx context.Context, category *models.Category) bool {
	if category == nil {
		return false
	}
	session := s.requireSession(ctx, "update_category")
	if session == nil {
		return false
	}

	res := s.db.WithContext(ctx).Model(&models.Category{}).
		Where("id = ? AND user_id = ?", category.ID, session.User.ID).
		Updates(map[string]interface{}{
			"name":        category.Name,
			"type":        category.Type,
			"color":       category.Color,
			"icon":        category.Icon,
			"description": category.Description,
			"updated_at":  s.now().UTC(),
		})
	if res.Error != nil {
		s.log.Errorw("failed to update category", "category_id", category.ID, "error", res.Error)
		return false
	}
	return res.RowsAffected > 0
}

// DeleteCategory removes a category owned by the signed-in user.
func (s *Service) DeleteCategory(ctx context.Context, categoryID string) bool {
	session := s.requireSession(ctx, "delete_category")
	if session == nil {
		return false
	}

	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", categoryID, session.User.ID).
		Delete(&models.Category{})
	if res.Error != nil {
		s.log.Errorw("failed to delete category", "category_id", categoryID, "error", res.Error)
		return false
	}
	return res.RowsAffected > 0
}
