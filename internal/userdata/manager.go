// Package userdata holds the signed-in user's profile in memory and is the
// single entry point the UI mutates it through. It chooses between the
// remote and local profile stores, mirrors every change to the local
// fallback store and tears everything down on sign-out.
package userdata

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/auth"
	apperrors "github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/errors"
	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/ids"
	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/localstore"
	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/logger"
	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/models"
	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/profilestore"
	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/remote"
)

// manager implements DataContext.
//
// opMu serializes operations so each one sees the result of the previous
// one. mu guards the fields below it and is never held across I/O.
type manager struct {
	remote     *remote.Service
	local      *localstore.Store
	localStore *profilestore.Local
	auth       auth.Provider
	now        func() time.Time
	log        *zap.SugaredLogger

	opMu sync.Mutex

	mu           sync.RWMutex
	state        State
	ready        chan struct{}
	store        profilestore.ProfileStore
	user         *models.UserProfile
	closed       bool
	listeners    map[int]ChangeListener
	nextListener int
	unsubscribe  func()
}

// Option configures the data context.
type Option func(*manager)

// WithRemote enables remote mode through svc when the store is reachable.
func WithRemote(svc *remote.Service) Option {
	return func(m *manager) { m.remote = svc }
}

// WithAuth sets the identity provider used for sign-in and sign-out.
func WithAuth(provider auth.Provider) Option {
	return func(m *manager) { m.auth = provider }
}

// WithLogger replaces the component logger.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(m *manager) { m.log = log }
}

// WithClock overrides the clock used for record timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *manager) { m.now = now }
}

// NewManager creates a DataContext persisting to local. Call Start before use.
func NewManager(local *localstore.Store, opts ...Option) DataContext {
	m := &manager{
		local:      local,
		localStore: profilestore.NewLocal(local),
		now:        time.Now,
		log:        logger.Named("userdata"),
		state:      StateUninitialized,
		ready:      make(chan struct{}),
		listeners:  make(map[int]ChangeListener),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start subscribes to auth events and probes the remote store in the
// background. WaitReady returns once the probe has settled the mode.
func (m *manager) Start(ctx context.Context) {
	m.mu.Lock()
	if m.closed || m.state != StateUninitialized {
		m.mu.Unlock()
		return
	}
	m.state = StateInitializing
	m.mu.Unlock()

	if m.auth != nil {
		unsubscribe := m.auth.OnAuthStateChange(m.handleAuthEvent)
		m.mu.Lock()
		m.unsubscribe = unsubscribe
		m.mu.Unlock()
	}
	if m.remote != nil {
		m.remote.OnSharedBudgets(m.adoptSharedBudgets)
	}

	go func() {
		store := m.selectStore(ctx)

		m.mu.Lock()
		defer m.mu.Unlock()
		if m.closed || m.state != StateInitializing {
			return
		}
		m.markReadyLocked(store)
		m.log.Infow("data context ready", "mode", store.Mode())
	}()
}

// WaitReady blocks until the data context leaves the initializing state.
func (m *manager) WaitReady(ctx context.Context) error {
	m.mu.RLock()
	ready := m.ready
	m.mu.RUnlock()

	select {
	case <-ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops listening for auth events. Results of work still in flight
// are discarded.
func (m *manager) Close() {
	m.mu.Lock()
	m.closed = true
	unsubscribe := m.unsubscribe
	m.unsubscribe = nil
	m.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	if m.remote != nil {
		m.remote.OnSharedBudgets(nil)
	}
}

func (m *manager) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()

	st := Status{State: m.state}
	if m.store != nil {
		st.Mode = m.store.Mode()
	}
	if m.user != nil {
		st.UserID = m.user.ID
	}
	return st
}

// OnChange registers l for every committed profile change.
func (m *manager) OnChange(l ChangeListener) func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextListener
	m.nextListener++
	m.listeners[id] = l

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.listeners, id)
	}
}

// SignUp registers the identity and loads its profile. Without an identity
// provider the password is not checked and the user is set directly.
func (m *manager) SignUp(ctx context.Context, email, password, name string) (*models.UserProfile, error) {
	if m.auth != nil {
		if _, err := m.auth.SignUp(ctx, email, password); err != nil {
			return nil, err
		}
		m.invalidateSession()
	}
	return m.SetUser(ctx, email, name)
}

// SignIn verifies credentials and loads the profile.
func (m *manager) SignIn(ctx context.Context, email, password string) (*models.UserProfile, error) {
	if m.auth != nil {
		if _, err := m.auth.SignInWithPassword(ctx, email, password); err != nil {
			return nil, err
		}
		m.invalidateSession()
	}
	return m.SetUser(ctx, email, "")
}

// SetUser resolves the user id and loads the profile from exactly one
// source: the remote store, else the local store, else a new default profile.
func (m *manager) SetUser(ctx context.Context, email, name string) (*models.UserProfile, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "email is required")
	}

	m.opMu.Lock()
	defer m.opMu.Unlock()

	m.mu.Lock()
	m.state = StateInitializing
	m.mu.Unlock()

	store := m.selectStore(ctx)
	userID := store.SessionUserID(ctx)
	if userID == "" {
		userID = ids.FromEmail(email)
	}

	profile, source := m.loadProfile(ctx, store, userID)
	if profile == nil {
		profile = newDefaultProfile(userID, email, name, m.now())
		source = "default"
		if !store.CreateProfile(ctx, profile) {
			m.log.Warnw("failed to publish default profile", "user_id", userID)
		}
	}
	m.log.Infow("user loaded", "user_id", userID, "source", source, "mode", store.Mode())

	m.mu.Lock()
	m.markReadyLocked(store)
	m.mu.Unlock()

	m.commit(ctx, profile)
	m.local.RememberUser(ctx, userID)
	return profile.Clone(), nil
}

func (m *manager) loadProfile(ctx context.Context, store profilestore.ProfileStore, userID string) (*models.UserProfile, string) {
	if p := store.LoadProfile(ctx, userID); p != nil {
		return p, string(store.Mode())
	}
	if store.Mode() == profilestore.ModeLocal {
		return nil, ""
	}
	if p := m.localStore.LoadProfile(ctx, userID); p != nil {
		return p, string(profilestore.ModeLocal)
	}
	return nil, ""
}

// Resume restores the user remembered in short-lived storage from the
// local store. It returns nil when there is nobody to resume.
func (m *manager) Resume(ctx context.Context) (*models.UserProfile, error) {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	userID := m.local.RememberedUser(ctx)
	if userID == "" {
		return nil, nil
	}
	profile := m.local.Load(ctx, userID)
	if profile == nil {
		return nil, nil
	}

	store := m.selectStore(ctx)
	if store.Mode() == profilestore.ModeRemote && store.SessionUserID(ctx) != userID {
		store = m.localStore
	}

	m.mu.Lock()
	m.markReadyLocked(store)
	m.mu.Unlock()

	m.commit(ctx, profile)
	m.log.Infow("user resumed", "user_id", userID, "mode", store.Mode())
	return profile.Clone(), nil
}

// ClearUser signs out when in remote mode, wipes the local namespace and
// resets the context. It never fails and may be called repeatedly.
func (m *manager) ClearUser(ctx context.Context) {
	m.opMu.Lock()
	defer m.opMu.Unlock()
	m.clearLocked(ctx, true)
}

// clearLocked is ClearUser with opMu held. signOut is false when the
// provider has already ended the session.
func (m *manager) clearLocked(ctx context.Context, signOut bool) {
	defer m.reset()

	m.mu.RLock()
	remoteMode := m.store != nil && m.store.Mode() == profilestore.ModeRemote
	m.mu.RUnlock()

	if signOut && remoteMode && m.auth != nil {
		m.signOut(ctx)
	}
	m.local.Clear(ctx)
	m.invalidateSession()
}

func (m *manager) signOut(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			m.log.Errorw("sign-out panicked", "panic", r)
		}
	}()
	if err := m.auth.SignOut(ctx); err != nil {
		m.log.Warnw("sign-out failed", "error", err)
	}
}

func (m *manager) reset() {
	m.mu.Lock()
	m.user = nil
	m.store = nil
	m.state = StateUninitialized
	select {
	case <-m.ready:
		m.ready = make(chan struct{})
	default:
	}
	listeners := m.snapshotListenersLocked()
	m.mu.Unlock()

	for _, l := range listeners {
		l(nil)
	}
}

// Snapshot returns a copy of the current profile, or nil.
func (m *manager) Snapshot() *models.UserProfile {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user.Clone()
}

// UpdateProfile renames the user.
func (m *manager) UpdateProfile(ctx context.Context, name string) (*models.UserProfile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name is required")
	}

	m.opMu.Lock()
	defer m.opMu.Unlock()

	next, store, err := m.current()
	if err != nil {
		return nil, err
	}
	if !store.UpdateProfile(ctx, next.ID, name) {
		m.log.Warnw("failed to sync profile name", "user_id", next.ID)
	}
	next.Name = name
	m.commit(ctx, next)
	return next.Clone(), nil
}

func (m *manager) handleAuthEvent(ev auth.Event) {
	m.invalidateSession()
	if ev.Type != auth.SignedOut {
		return
	}

	m.opMu.Lock()
	defer m.opMu.Unlock()

	m.mu.RLock()
	user := m.user
	closed := m.closed
	m.mu.RUnlock()
	if closed || user == nil {
		return
	}
	if ev.Session != nil && ev.Session.User.ID != user.ID && !strings.EqualFold(ev.Session.User.Email, user.Email) {
		return
	}

	// Events arrive asynchronously. A session started after this one ended
	// belongs to a later sign-in and must survive the stale event.
	ctx := context.Background()
	if live, err := m.auth.GetSession(ctx); err == nil && live != nil {
		if ev.Session == nil || live.AccessToken != ev.Session.AccessToken {
			m.log.Debugw("ignoring sign-out of an earlier session", "user_id", user.ID)
			return
		}
	}

	m.log.Infow("signed out, clearing user", "user_id", user.ID)
	m.clearLocked(ctx, false)
}

// adoptSharedBudgets replaces the empty budget list of a collaborator with
// the budgets found by the background lookup.
func (m *manager) adoptSharedBudgets(userID string, budgets []models.Budget) {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	m.mu.RLock()
	user := m.user
	closed := m.closed
	m.mu.RUnlock()
	if closed || user == nil || user.ID != userID || len(user.Budgets) > 0 || len(budgets) == 0 {
		return
	}

	next := user.Clone()
	next.Budgets = make([]models.Budget, len(budgets))
	for i := range budgets {
		next.Budgets[i] = budgets[i].Clone()
	}
	next.ActiveBudgetID = next.Budgets[0].ID
	m.commit(context.Background(), next)
	m.log.Infow("adopted shared budgets", "user_id", userID, "count", len(budgets))
}

// commit replaces the in-memory profile, persists it locally and notifies
// listeners. Every mutation ends here.
func (m *manager) commit(ctx context.Context, next *models.UserProfile) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		m.log.Debugw("discarding change after close")
		return
	}
	m.user = next
	listeners := m.snapshotListenersLocked()
	m.mu.Unlock()

	if !m.local.Save(ctx, next.ID, next) {
		m.log.Warnw("local persistence failed", "user_id", next.ID)
	}
	for _, l := range listeners {
		l(next.Clone())
	}
}

// current returns a private copy of the profile and the active store.
func (m *manager) current() (*models.UserProfile, profilestore.ProfileStore, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.user == nil {
		return nil, nil, apperrors.ErrNotAuthenticated
	}
	store := m.store
	if store == nil {
		store = m.localStore
	}
	return m.user.Clone(), store, nil
}

// demote switches to local mode for the rest of the session.
func (m *manager) demote(reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.store != nil && m.store.Mode() == profilestore.ModeRemote {
		m.store = m.localStore
		m.log.Warnw("falling back to local mode", "reason", reason)
	}
}

func (m *manager) selectStore(ctx context.Context) profilestore.ProfileStore {
	if m.remote != nil && m.remote.CheckAvailability(ctx) {
		return profilestore.NewRemote(m.remote)
	}
	return m.localStore
}

func (m *manager) markReadyLocked(store profilestore.ProfileStore) {
	m.store = store
	m.state = StateReady
	select {
	case <-m.ready:
	default:
		close(m.ready)
	}
}

func (m *manager) snapshotListenersLocked() []ChangeListener {
	out := make([]ChangeListener, 0, len(m.listeners))
	for _, l := range m.listeners {
		out = append(out, l)
	}
	return out
}

func (m *manager) invalidateSession() {
	if m.remote != nil {
		m.remote.InvalidateSession()
	}
}

var _ DataContext = (*manager)(nil)
