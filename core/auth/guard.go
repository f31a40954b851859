package auth

import (
	"context"
	"sync"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"

	"github.com/trezcool/hackadmin/core"
)

type State int

const (
	Anonymous State = iota
	Authenticating
	Authenticated
	Expired
)

func (s State) String() string {
	switch s {
	case Anonymous:
		return "anonymous"
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	case Expired:
		return "expired"
	}
	return "unknown"
}

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrSessionExpired   = errors.New("session expired, please log in again")
	ErrLoginInProgress  = errors.New("a login is already in progress")
	ErrAlreadyLoggedIn  = errors.New("already logged in")
	// ErrNoSession is returned by a Storage with nothing saved.
	ErrNoSession = errors.New("no saved session")
)

type (
	// Storage persists the session between runs.
	Storage interface {
		Load() (Session, error)
		Save(sess Session) error
		Clear() error
	}

	// TokenHolder receives the bearer token of the current session (the API client).
	TokenHolder interface {
		SetToken(token string)
	}

	// Resetter is implemented by every store the guard empties on logout.
	Resetter interface {
		Reset()
	}

	GuardOptions struct {
		Auth    Authenticator
		Storage Storage     // optional
		Client  TokenHolder // optional
		Logger  core.Logger // optional
		Now     func() time.Time
	}

	// Guard gates the admin operations behind a session:
	//	anonymous -> authenticating -> authenticated -> expired
	// A failed login goes back to anonymous; an expired session can log in again.
	Guard struct {
		auth    Authenticator
		storage Storage
		client  TokenHolder
		logger  core.Logger
		now     func() time.Time

		mu        sync.Mutex
		state     State
		session   Session
		expiresAt time.Time
		resetters []Resetter
	}
)

func NewGuard(opts GuardOptions) *Guard {
	g := &Guard{
		auth:    opts.Auth,
		storage: opts.Storage,
		client:  opts.Client,
		logger:  opts.Logger,
		now:     opts.Now,
	}
	if g.logger == nil {
		g.logger = core.NopLogger{}
	}
	if g.now == nil {
		g.now = time.Now
	}
	return g
}

// Register adds stores to reset on logout.
func (g *Guard) Register(rs ...Resetter) {
	g.mu.Lock()
	g.resetters = append(g.resetters, rs...)
	g.mu.Unlock()
}

func (g *Guard) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.checkExpiry()
	return g.state
}

// Session returns the current session, even an expired one.
func (g *Guard) Session() Session {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.session
}

// Restore loads the saved session, if any. An expired saved session leaves the guard expired.
func (g *Guard) Restore() error {
	if g.storage == nil {
		return nil
	}
	sess, err := g.storage.Load()
	if err != nil {
		if errors.Cause(err) == ErrNoSession {
			return nil
		}
		return errors.Wrap(err, "restoring session")
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state == Authenticating {
		return ErrLoginInProgress
	}
	g.authenticate(sess)
	g.checkExpiry()
	return nil
}

// Login authenticates with creds and saves the session.
func (g *Guard) Login(ctx context.Context, creds Credentials) (Session, error) {
	g.mu.Lock()
	g.checkExpiry()
	switch g.state {
	case Authenticating:
		g.mu.Unlock()
		return Session{}, ErrLoginInProgress
	case Authenticated:
		g.mu.Unlock()
		return Session{}, ErrAlreadyLoggedIn
	}
	g.state = Authenticating
	g.mu.Unlock()

	sess, err := g.auth.Login(ctx, creds)
	if err == nil {
		err = ctx.Err()
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if err != nil {
		g.state = Anonymous
		g.session = Session{}
		g.setToken("")
		return Session{}, err
	}
	g.authenticate(sess)
	if g.storage != nil {
		if err = g.storage.Save(sess); err != nil {
			g.logger.Error("saving session failed", err, sess.Admin)
		}
	}
	g.logger.Info("admin logged in", sess.Admin)
	return sess, nil
}

// Require returns the current session when authenticated.
func (g *Guard) Require() (Session, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.checkExpiry()
	switch g.state {
	case Authenticated:
		return g.session, nil
	case Expired:
		return Session{}, ErrSessionExpired
	}
	return Session{}, ErrNotAuthenticated
}

// ExpiresAt is zero when the token carries no expiry.
func (g *Guard) ExpiresAt() time.Time {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.expiresAt
}

// Logout forgets the session and empties every registered store.
func (g *Guard) Logout() error {
	g.mu.Lock()
	adm := g.session.Admin
	g.state = Anonymous
	g.session = Session{}
	g.expiresAt = time.Time{}
	g.setToken("")
	resetters := append([]Resetter(nil), g.resetters...)
	g.mu.Unlock()

	for _, r := range resetters {
		r.Reset()
	}
	if g.storage != nil {
		if err := g.storage.Clear(); err != nil {
			return errors.Wrap(err, "clearing session")
		}
	}
	g.logger.Info("admin logged out", adm)
	return nil
}

// authenticate must be called with g.mu held.
func (g *Guard) authenticate(sess Session) {
	g.state = Authenticated
	g.session = sess
	g.expiresAt = TokenExpiry(sess.Token)
	g.setToken(sess.Token)
}

// checkExpiry must be called with g.mu held.
func (g *Guard) checkExpiry() {
	if g.state != Authenticated || g.expiresAt.IsZero() {
		return
	}
	if !g.now().Before(g.expiresAt) {
		g.state = Expired
		g.setToken("")
		g.logger.Info("session expired", g.session.Admin)
	}
}

func (g *Guard) setToken(token string) {
	if g.client != nil {
		g.client.SetToken(token)
	}
}

// TokenExpiry reads the exp claim of a JWT without verifying it; the platform
// verifies its own tokens. Opaque tokens and tokens without exp never expire.
func TokenExpiry(token string) time.Time {
	claims := jwt.StandardClaims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(token, &claims); err != nil {
		return time.Time{}
	}
	if claims.ExpiresAt == 0 {
		return time.Time{}
	}
	return time.Unix(claims.ExpiresAt, 0)
}
