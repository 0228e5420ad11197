package userdata

import (
	"context"
	"encoding/json"

	apperrors "github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/errors"
	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/models"
)

// ExportUserData serializes the whole profile and records the backup time.
func (m *manager) ExportUserData(ctx context.Context) ([]byte, error) {
	m.mu.RLock()
	user := m.user.Clone()
	m.mu.RUnlock()
	if user == nil {
		return nil, apperrors.ErrNotAuthenticated
	}

	data, err := json.MarshalIndent(user, "", "  ")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	m.local.MarkBackup(ctx)
	return data, nil
}

// ImportUserData replaces the in-memory profile with the decoded document.
// Nothing beyond JSON decoding is checked and nothing is merged.
func (m *manager) ImportUserData(ctx context.Context, data []byte) error {
	var profile models.UserProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return apperrors.Wrap(apperrors.ErrInvalidImport, err)
	}

	m.opMu.Lock()
	defer m.opMu.Unlock()

	m.mu.Lock()
	if m.user != nil && m.user.ID != profile.ID {
		m.log.Warnw("imported profile belongs to another user", "current_user_id", m.user.ID, "imported_user_id", profile.ID)
	}
	if m.store == nil {
		m.markReadyLocked(m.localStore)
	}
	m.mu.Unlock()

	m.commit(ctx, &profile)
	m.log.Infow("profile imported", "user_id", profile.ID, "budgets", len(profile.Budgets))
	return nil
}
