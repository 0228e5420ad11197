package userdata

import (
	"context"
	"strings"

	apperrors "github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/errors"
	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/ids"
	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/models"
)

const (
	defaultCategoryColor = "#6B7280"
	defaultCategoryIcon  = "📁"
)

func validateCategory(in *CategoryInput) error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}
	if !in.Type.Valid() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "category type must be income or expense")
	}
	if in.Color == "" {
		in.Color = defaultCategoryColor
	}
	if in.Icon == "" {
		in.Icon = defaultCategoryIcon
	}
	return nil
}

// AddCategory adds a category to the profile. Categories are kept locally
// only.
func (m *manager) AddCategory(ctx context.Context, in CategoryInput) (*models.Category, error) {
	if err := validateCategory(&in); err != nil {
		return nil, err
	}

	m.opMu.Lock()
	defer m.opMu.Unlock()

	next, _, err := m.current()
	if err != nil {
		return nil, err
	}
	for _, c := range next.Categories {
		if c.Name == in.Name && c.Type == in.Type {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category with this name already exists")
		}
	}

	c := models.Category{
		Base:        models.Base{ID: ids.New()},
		UserID:      next.ID,
		Name:        in.Name,
		Type:        in.Type,
		Color:       in.Color,
		Icon:        in.Icon,
		Description: in.Description,
	}
	c.Touch(m.now())
	next.Categories = append(next.Categories, c)
	m.commit(ctx, next)
	return &c, nil
}

// UpdateCategory overwrites a category. Entries keep the name they were
// recorded with.
func (m *manager) UpdateCategory(ctx context.Context, categoryID string, in CategoryInput) (*models.Category, error) {
	if err := validateCategory(&in); err != nil {
		return nil, err
	}

	m.opMu.Lock()
	defer m.opMu.Unlock()

	next, _, err := m.current()
	if err != nil {
		return nil, err
	}
	i := next.CategoryIndex(categoryID)
	if i < 0 {
		return nil, apperrors.ErrCategoryNotFound
	}

	c := &next.Categories[i]
	c.Name = in.Name
	c.Type = in.Type
	c.Color = in.Color
	c.Icon = in.Icon
	c.Description = in.Description
	c.Touch(m.now())
	m.commit(ctx, next)

	out := *c
	return &out, nil
}

// DeleteCategory removes a category unless an entry in the active budget
// references it by name. Other budgets are not checked.
func (m *manager) DeleteCategory(ctx context.Context, categoryID string) error {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	next, _, err := m.current()
	if err != nil {
		return err
	}
	i := next.CategoryIndex(categoryID)
	if i < 0 {
		return apperrors.ErrCategoryNotFound
	}
	if active := next.ActiveBudget(); active != nil && active.UsesCategory(next.Categories[i].Name) {
		return apperrors.ErrCategoryInUse
	}

	next.Categories = append(next.Categories[:i], next.Categories[i+1:]...)
	m.commit(ctx, next)
	return nil
}

// Categories returns a copy of the user's categories.
func (m *manager) Categories() []models.Category {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.user == nil {
		return nil
	}
	out := make([]models.Category, len(m.user.Categories))
	copy(out, m.user.Categories)
	return out
}
