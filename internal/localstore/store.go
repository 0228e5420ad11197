// Package localstore persists whole user profile documents to a namespaced
// key-value store so the data context can keep working without the remote
// store. Failures are logged and reported as false/nil, never as errors.
package localstore

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/kvstore"
	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/logger"
	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/models"
)

const (
	// SchemaVersion is stamped on every saved profile document.
	SchemaVersion = 1

	// DefaultPrefix namespaces every key written by the application.
	DefaultPrefix = "plannerfinancas_"

	userKeyPart        = "user_"
	settingsKeyPart    = "settings"
	backupKeyPart      = "last_backup"
	currentUserKeyPart = "current_user"
)

// storedProfile is the on-disk shape: the profile plus version stamps.
type storedProfile struct {
	models.UserProfile
	Version   int       `json:"version"`
	LastSaved time.Time `json:"lastSaved"`
}

// Settings are per-device application preferences.
type Settings struct {
	Currency string `json:"currency"`
	Locale   string `json:"locale"`
	Theme    string `json:"theme"`
}

// DefaultSettings returns the settings used when none are stored.
func DefaultSettings() Settings {
	return Settings{Currency: "BRL", Locale: "pt-BR", Theme: "light"}
}

// Store reads and writes profile documents. Durable holds profiles,
// settings and backup metadata; Session holds short-lived hints that
// must not outlive the sign-in.
type Store struct {
	durable kvstore.Store
	session kvstore.Store
	prefix  string
	now     func() time.Time
	log     *zap.SugaredLogger
}

// Option configures a Store.
type Option func(*Store)

// WithPrefix overrides DefaultPrefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) { s.prefix = prefix }
}

// WithClock overrides the clock used for lastSaved and backup stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New creates a Store. session may be nil, in which case an in-memory
// store is used for short-lived keys.
func New(durable, session kvstore.Store, opts ...Option) *Store {
	if session == nil {
		session = kvstore.NewMemory()
	}
	s := &Store{
		durable: durable,
		session: session,
		prefix:  DefaultPrefix,
		now:     time.Now,
		log:     logger.Named("localstore"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Prefix returns the key namespace.
func (s *Store) Prefix() string { return s.prefix }

// UserKey returns the key holding the profile of userID.
func (s *Store) UserKey(userID string) string {
	return s.prefix + userKeyPart + userID
}

// Save replaces the stored document for userID with profile.
func (s *Store) Save(ctx context.Context, userID string, profile *models.UserProfile) bool {
	if userID == "" || profile == nil {
		s.log.Warnw("refusing to save empty profile", "user_id", userID)
		return false
	}

	doc := storedProfile{
		UserProfile: *profile,
		Version:     SchemaVersion,
		LastSaved:   s.now().UTC(),
	}
	data, err := json.Marshal(doc)
	if err != nil {
		s.log.Errorw("failed to encode profile", "user_id", userID, "error", err)
		return false
	}
	if err := s.durable.Set(ctx, s.UserKey(userID), string(data)); err != nil {
		s.log.Errorw("failed to save profile", "user_id", userID, "error", err)
		return false
	}
	return true
}

// Load returns the stored profile for userID, or nil when it is missing
// or unreadable.
func (s *Store) Load(ctx context.Context, userID string) *models.UserProfile {
	if userID == "" {
		return nil
	}
	raw, ok, err := s.durable.Get(ctx, s.UserKey(userID))
	if err != nil {
		s.log.Errorw("failed to read profile", "user_id", userID, "error", err)
		return nil
	}
	if !ok {
		return nil
	}

	var doc storedProfile
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		s.log.Warnw("discarding corrupt profile document", "user_id", userID, "error", err)
		return nil
	}
	if doc.ID == "" {
		s.log.Warnw("discarding profile document without id", "user_id", userID)
		return nil
	}
	profile := doc.UserProfile
	return &profile
}

// StoredUsers lists the user ids that have a saved profile.
func (s *Store) StoredUsers(ctx context.Context) []string {
	keys, err := s.durable.Keys(ctx, s.prefix+userKeyPart)
	if err != nil {
		s.log.Errorw("failed to list stored profiles", "error", err)
		return nil
	}
	users := make([]string, 0, len(keys))
	for _, k := range keys {
		users = append(users, k[len(s.prefix+userKeyPart):])
	}
	return users
}

// SaveSettings stores application settings.
func (s *Store) SaveSettings(ctx context.Context, settings Settings) bool {
	data, err := json.Marshal(settings)
	if err != nil {
		s.log.Errorw("failed to encode settings", "error", err)
		return false
	}
	if err := s.durable.Set(ctx, s.prefix+settingsKeyPart, string(data)); err != nil {
		s.log.Errorw("failed to save settings", "error", err)
		return false
	}
	return true
}

// LoadSettings returns stored settings, falling back to DefaultSettings.
func (s *Store) LoadSettings(ctx context.Context) Settings {
	raw, ok, err := s.durable.Get(ctx, s.prefix+settingsKeyPart)
	if err != nil || !ok {
		return DefaultSettings()
	}
	settings := DefaultSettings()
	if err := json.Unmarshal([]byte(raw), &settings); err != nil {
		s.log.Warnw("discarding corrupt settings", "error", err)
		return DefaultSettings()
	}
	return settings
}

// MarkBackup records the time of the latest export.
func (s *Store) MarkBackup(ctx context.Context) {
	stamp := s.now().UTC().Format(time.RFC3339Nano)
	if err := s.durable.Set(ctx, s.prefix+backupKeyPart, stamp); err != nil {
		s.log.Warnw("failed to record backup time", "error", err)
	}
}

// LastBackup returns the time of the latest export, or the zero time.
func (s *Store) LastBackup(ctx context.Context) time.Time {
	raw, ok, err := s.durable.Get(ctx, s.prefix+backupKeyPart)
	if err != nil || !ok {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}

// RememberUser records the signed-in user in short-lived storage.
func (s *Store) RememberUser(ctx context.Context, userID string) {
	if err := s.session.Set(ctx, s.prefix+currentUserKeyPart, userID); err != nil {
		s.log.Warnw("failed to remember current user", "user_id", userID, "error", err)
	}
}

// RememberedUser returns the user recorded by RememberUser, if any.
func (s *Store) RememberedUser(ctx context.Context) string {
	v, ok, err := s.session.Get(ctx, s.prefix+currentUserKeyPart)
	if err != nil || !ok {
		return ""
	}
	return v
}

// Clear removes every key under the namespace from both stores. It keeps
// going after a failure so as much as possible is wiped.
func (s *Store) Clear(ctx context.Context) {
	for name, kv := range map[string]kvstore.Store{"durable": s.durable, "session": s.session} {
		n, err := kvstore.DeletePrefix(ctx, kv, s.prefix)
		if err != nil {
			s.log.Warnw("failed to clear local storage", "store", name, "removed", n, "error", err)
			continue
		}
		s.log.Debugw("cleared local storage", "store", name, "removed", n)
	}
}
