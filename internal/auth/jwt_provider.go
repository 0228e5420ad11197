package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/errors"
	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/ids"
	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/logger"
	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/models"
)

const issuer = "plannerfinancas"

// Claims are the JWT claims of an access token.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// JWTProvider keeps identities in the auth_users table and issues HS256
// access tokens. It holds a single current session, like a client SDK.
type JWTProvider struct {
	db       *gorm.DB
	secret   []byte
	tokenTTL time.Duration
	cost     int
	now      func() time.Time
	log      *zap.SugaredLogger

	mu        sync.Mutex
	current   *Session
	listeners map[int]Listener
	nextID    int
}

// JWTOption configures a JWTProvider.
type JWTOption func(*JWTProvider)

// WithTokenTTL sets the access token lifetime.
func WithTokenTTL(ttl time.Duration) JWTOption {
	return func(p *JWTProvider) { p.tokenTTL = ttl }
}

// WithBcryptCost sets the password hashing cost.
func WithBcryptCost(cost int) JWTOption {
	return func(p *JWTProvider) { p.cost = cost }
}

// WithProviderClock overrides the clock used for token timestamps.
func WithProviderClock(now func() time.Time) JWTOption {
	return func(p *JWTProvider) { p.now = now }
}

// NewJWTProvider creates a provider over db signing tokens with secret.
func NewJWTProvider(db *gorm.DB, secret string, opts ...JWTOption) *JWTProvider {
	p := &JWTProvider{
		db:        db,
		secret:    []byte(secret),
		tokenTTL:  time.Hour,
		cost:      bcrypt.DefaultCost,
		now:       time.Now,
		log:       logger.Named("auth"),
		listeners: make(map[int]Listener),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// SignUp registers a new identity and signs it in.
func (p *JWTProvider) SignUp(ctx context.Context, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "email and password are required")
	}

	var count int64
	if err := p.db.WithContext(ctx).Model(&models.AuthUser{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateEmail
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	user := &models.AuthUser{Email: email, PasswordHash: string(hash)}
	if err := p.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return p.startSession(ctx, user)
}

// SignInWithPassword verifies credentials and starts a session.
func (p *JWTProvider) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user models.AuthUser
	if err := p.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	return p.startSession(ctx, &user)
}

func (p *JWTProvider) startSession(ctx context.Context, user *models.AuthUser) (*Session, error) {
	session, err := p.issue(SessionUser{ID: user.ID, Email: user.Email})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	now := p.now().UTC()
	if err := p.db.WithContext(ctx).Model(user).Update("last_sign_in_at", now).Error; err != nil {
		p.log.Warnw("failed to record sign-in time", "user_id", user.ID, "error", err)
	}

	p.mu.Lock()
	p.current = session
	p.mu.Unlock()

	p.emit(Event{Type: SignedIn, Session: session})
	return session, nil
}

func (p *JWTProvider) issue(user SessionUser) (*Session, error) {
	now := p.now()
	expiresAt := now.Add(p.tokenTTL)
	claims := &Claims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        ids.New(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    issuer,
			Subject:   user.ID,
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return nil, fmt.Errorf("signing token: %w", err)
	}
	return &Session{User: user, AccessToken: token, ExpiresAt: expiresAt}, nil
}

// GetSession returns the current session, or nil when signed out or expired.
func (p *JWTProvider) GetSession(_ context.Context) (*Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current == nil {
		return nil, nil
	}
	if !p.now().Before(p.current.ExpiresAt) {
		return nil, nil
	}
	s := *p.current
	return &s, nil
}

// RefreshSession re-issues the current session's token.
func (p *JWTProvider) RefreshSession(_ context.Context) (*Session, error) {
	p.mu.Lock()
	current := p.current
	p.mu.Unlock()

	if current == nil {
		return nil, apperrors.ErrNotAuthenticated
	}

	session, err := p.issue(current.User)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	p.mu.Lock()
	p.current = session
	p.mu.Unlock()

	p.emit(Event{Type: TokenRefreshed, Session: session})
	return session, nil
}

// SignOut ends the current session. Signing out without a session succeeds.
func (p *JWTProvider) SignOut(_ context.Context) error {
	p.mu.Lock()
	ended := p.current
	p.current = nil
	p.mu.Unlock()

	p.emit(Event{Type: SignedOut, Session: ended})
	return nil
}

// OnAuthStateChange registers a listener.
func (p *JWTProvider) OnAuthStateChange(l Listener) func() {
	p.mu.Lock()
	defer p.mu.Unlock()

	id := p.nextID
	p.nextID++
	p.listeners[id] = l

	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.listeners, id)
	}
}

// ValidateToken parses and validates an access token.
func (p *JWTProvider) ValidateToken(tokenString string) (*SessionUser, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return p.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(p.now))

	if err != nil || !token.Valid {
		return nil, apperrors.ErrUnauthorized
	}
	return &SessionUser{ID: claims.Subject, Email: claims.Email}, nil
}

func (p *JWTProvider) emit(ev Event) {
	p.mu.Lock()
	listeners := make([]Listener, 0, len(p.listeners))
	for _, l := range p.listeners {
		listeners = append(listeners, l)
	}
	p.mu.Unlock()

	for _, l := range listeners {
		go l(ev)
	}
}

var _ Provider = (*JWTProvider)(nil)
