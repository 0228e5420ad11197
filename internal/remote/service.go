// Package remote adapts profile, budget, category and entry operations to
// the hosted relational store. Every public method swallows errors: it logs
// them and returns false, "" or nil so the caller can fall back to local
// mode. Writes are gated on a valid session and a budget access check.
package remote

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/auth"
	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/logger"
	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/models"
)

// DefaultSessionTTL bounds how long an identity lookup is reused.
const DefaultSessionTTL = 5 * time.Minute

const probeTimeout = 10 * time.Second

// probedTables must all answer for the store to count as available.
var probedTables = []string{"user_profiles", "budgets", "categories", "budget_entries"}

// SharedBudgetsHandler receives budgets found for a user who owns none but
// collaborates on some.
type SharedBudgetsHandler func(userID string, budgets []models.Budget)

// Service is the remote data service. Session cache, availability flag
// and single-flight state are per instance.
type Service struct {
	db         *gorm.DB
	auth       auth.Provider
	sessionTTL time.Duration
	now        func() time.Time
	probe      func(ctx context.Context) error
	log        *zap.SugaredLogger

	sessMu        sync.Mutex
	cachedSession *auth.Session
	cachedAt      time.Time

	availMu      sync.Mutex
	availChecked bool
	available    bool
	flight       singleflight.Group

	sharedMu sync.RWMutex
	onShared SharedBudgetsHandler
	bg       sync.WaitGroup
}

// Option configures a Service.
type Option func(*Service)

// WithSessionTTL overrides DefaultSessionTTL.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Service) { s.sessionTTL = ttl }
}

// WithClock overrides the clock used for the session cache.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithProbe replaces the table availability probe.
func WithProbe(probe func(ctx context.Context) error) Option {
	return func(s *Service) { s.probe = probe }
}

// NewService creates a Service. A nil db yields a service that always
// reports the store as unavailable.
func NewService(db *gorm.DB, provider auth.Provider, opts ...Option) *Service {
	s := &Service{
		db:         db,
		auth:       provider,
		sessionTTL: DefaultSessionTTL,
		now:        time.Now,
		log:        logger.Named("remote"),
	}
	s.probe = s.probeTables
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CheckAvailability probes the store once and caches the answer for the
// life of the Service. Concurrent callers share one in-flight probe.
func (s *Service) CheckAvailability(ctx context.Context) bool {
	s.availMu.Lock()
	if s.availChecked {
		available := s.available
		s.availMu.Unlock()
		return available
	}
	s.availMu.Unlock()

	v, _, _ := s.flight.Do("availability", func() (interface{}, error) {
		s.availMu.Lock()
		if s.availChecked {
			available := s.available
			s.availMu.Unlock()
			return available, nil
		}
		s.availMu.Unlock()

		probeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), probeTimeout)
		defer cancel()
		available := s.runProbe(probeCtx)

		s.availMu.Lock()
		s.available = available
		s.availChecked = true
		s.availMu.Unlock()
		return available, nil
	})
	return v.(bool)
}

func (s *Service) runProbe(ctx context.Context) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Errorw("availability probe panicked", "panic", r)
			ok = false
		}
	}()

	if err := s.probe(ctx); err != nil {
		s.log.Warnw("remote store unavailable", "error", err)
		return false
	}
	s.log.Infow("remote store available")
	return true
}

func (s *Service) probeTables(ctx context.Context) error {
	if s.db == nil {
		return errNotConfigured
	}
	for _, table := range probedTables {
		var n int64
		if err := s.db.WithContext(ctx).Table(table).Limit(1).Count(&n).Error; err != nil {
			return err
		}
	}
	return nil
}

// GetSession returns the cached identity while it is younger than the TTL,
// otherwise asks the identity provider. It returns nil when there is no
// session or the lookup fails.
func (s *Service) GetSession(ctx context.Context) *auth.Session {
	s.sessMu.Lock()
	if s.cachedSession != nil && s.now().Sub(s.cachedAt) < s.sessionTTL {
		session := *s.cachedSession
		s.sessMu.Unlock()
		return &session
	}
	s.sessMu.Unlock()

	if s.auth == nil {
		return nil
	}
	session, err := s.auth.GetSession(ctx)
	if err != nil {
		s.log.Warnw("session lookup failed", "error", err)
		return nil
	}
	if session == nil {
		return nil
	}

	s.sessMu.Lock()
	s.cachedSession = session
	s.cachedAt = s.now()
	s.sessMu.Unlock()

	out := *session
	return &out
}

// InvalidateSession drops the cached identity.
func (s *Service) InvalidateSession() {
	s.sessMu.Lock()
	s.cachedSession = nil
	s.cachedAt = time.Time{}
	s.sessMu.Unlock()
}

// OnSharedBudgets registers the handler for background collaborator lookups.
func (s *Service) OnSharedBudgets(h SharedBudgetsHandler) {
	s.sharedMu.Lock()
	s.onShared = h
	s.sharedMu.Unlock()
}

// Wait blocks until background lookups started by GetUserProfile finish.
func (s *Service) Wait() {
	s.bg.Wait()
}

// requireSession returns the acting user, or nil after logging why not.
func (s *Service) requireSession(ctx context.Context, op string) *auth.Session {
	if s.db == nil {
		s.log.Debugw("remote store not configured", "op", op)
		return nil
	}
	session := s.GetSession(ctx)
	if session == nil {
		s.log.Warnw("no valid session", "op", op)
		return nil
	}
	return session
}
