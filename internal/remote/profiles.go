package remote

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/models"
)

const sharedLookupTimeout = 10 * time.Second

// ProfileUpdates holds the profile fields a caller may change. Nil fields
// are left untouched.
type ProfileUpdates struct {
	Name  *string
	Email *string
}

// CreateUserProfile upserts the user_profiles row: an existing row gets the
// new name and email, otherwise a row is inserted.
func (s *Service) CreateUserProfile(ctx context.Context, profile *models.UserProfile) bool {
	if profile == nil || profile.ID == "" {
		return false
	}
	if s.requireSession(ctx, "create_user_profile") == nil {
		return false
	}

	db := s.db.WithContext(ctx)
	var existing models.ProfileRecord
	err := db.Where("id = ?", profile.ID).First(&existing).Error
	switch {
	case err == nil:
		if err := db.Model(&existing).Updates(map[string]interface{}{
			"name":       profile.Name,
			"email":      profile.Email,
			"updated_at": s.now().UTC(),
		}).Error; err != nil {
			s.log.Errorw("failed to update profile", "user_id", profile.ID, "error", err)
			return false
		}
		return true
	case errors.Is(err, gorm.ErrRecordNotFound):
		rec := &models.ProfileRecord{ID: profile.ID, Email: profile.Email, Name: profile.Name}
		if err := db.Create(rec).Error; err != nil {
			s.log.Errorw("failed to insert profile", "user_id", profile.ID, "error", err)
			return false
		}
		return true
	default:
		s.log.Errorw("failed to look up profile", "user_id", profile.ID, "error", err)
		return false
	}
}

// GetUserProfile assembles the profile document of userID from the
// user_profiles row, the budgets it owns (with entries) and its categories.
// The active budget defaults to the first owned budget.
//
// A user that owns no budgets gets an empty budget list back immediately;
// a background lookup of budgets shared with them is then handed to the
// OnSharedBudgets handler.
func (s *Service) GetUserProfile(ctx context.Context, userID string) *models.UserProfile {
	if s.db == nil || userID == "" {
		return nil
	}
	db := s.db.WithContext(ctx)

	var rec models.ProfileRecord
	if err := db.Where("id = ?", userID).First(&rec).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Errorw("failed to fetch profile", "user_id", userID, "error", err)
		}
		return nil
	}

	var budgets []models.Budget
	var categories []models.Category
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.db.WithContext(gctx).
			Preload("Entries", orderEntries).
			Where("owner_id = ?", userID).
			Order("created_at").
			Find(&budgets).Error
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).
			Where("user_id = ?", userID).
			Order("created_at").
			Find(&categories).Error
	})
	if err := g.Wait(); err != nil {
		s.log.Errorw("failed to fetch profile data", "user_id", userID, "error", err)
		return nil
	}

	profile := &models.UserProfile{
		ID:         rec.ID,
		Email:      rec.Email,
		Name:       rec.Name,
		Budgets:    budgets,
		Categories: categories,
	}
	if len(budgets) > 0 {
		profile.ActiveBudgetID = budgets[0].ID
	} else {
		s.lookupSharedBudgets(ctx, userID)
	}
	return profile
}

func (s *Service) lookupSharedBudgets(ctx context.Context, userID string) {
	s.bg.Add(1)
	go func() {
		defer s.bg.Done()

		lookupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedLookupTimeout)
		defer cancel()

		budgets := s.GetCollaboratorBudgets(lookupCtx, userID)
		if len(budgets) == 0 {
			return
		}

		s.sharedMu.RLock()
		handler := s.onShared
		s.sharedMu.RUnlock()
		if handler != nil {
			handler(userID, budgets)
		}
	}()
}

// GetCollaboratorBudgets returns budgets that list userID as a collaborator.
func (s *Service) GetCollaboratorBudgets(ctx context.Context, userID string) []models.Budget {
	if s.db == nil || userID == "" {
		return nil
	}
	var budgets []models.Budget
	err := s.db.WithContext(ctx).
		Preload("Entries", orderEntries).
		Where("collaborators LIKE ?", `%"`+userID+`"%`).
		Order("created_at").
		Find(&budgets).Error
	if err != nil {
		s.log.Errorw("failed to fetch shared budgets", "user_id", userID, "error", err)
		return nil
	}
	return budgets
}

// UpdateUserProfile applies updates to the user_profiles row and stamps updated_at.
func (s *Service) UpdateUserProfile(ctx context.Context, userID string, updates ProfileUpdates) bool {
	if s.requireSession(ctx, "update_user_profile") == nil {
		return false
	}

	fields := map[string]interface{}{"updated_at": s.now().UTC()}
	if updates.Name != nil {
		fields["name"] = *updates.Name
	}
	if updates.Email != nil {
		fields["email"] = *updates.Email
	}

	res := s.db.WithContext(ctx).Model(&models.ProfileRecord{}).Where("id = ?", userID).Updates(fields)
	if res.Error != nil {
		s.log.Errorw("failed to update profile", "user_id", userID, "error", res.Error)
		return false
	}
	return res.RowsAffected > 0
}

func orderEntries(db *gorm.DB) *gorm.DB {
	return db.Order("created_at")
}
