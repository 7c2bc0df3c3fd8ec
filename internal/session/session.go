// Package session holds the per-chat state that outlives a single command:
// the user or admin session and the locally submitted ads. All mutation goes
// through Context so the user and admin sessions stay mutually exclusive.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/0x0BSoD/am5tv/internal/locale"
	"github.com/0x0BSoD/am5tv/internal/model"
)

const (
	KeyToken      = "token"
	KeyUser       = "user"
	KeyAdminToken = "adminToken"
	KeyAdminUser  = "adminUser"
	// KeyAdminFlag is only ever cleared; older clients wrote it on admin login.
	KeyAdminFlag = "isAdminLoggedIn"
	KeyAds       = "ads"
)

func roleKeys(role model.Role) (tokenKey, userKey string) {
	if role == model.RoleAdmin {
		return KeyAdminToken, KeyAdminUser
	}
	return KeyToken, KeyUser
}

func clearedBy(role model.Role) []string {
	if role == model.RoleAdmin {
		return []string{KeyToken, KeyUser}
	}
	return []string{KeyAdminToken, KeyAdminUser, KeyAdminFlag}
}

// Context is the session state of one namespace. It is safe for concurrent
// use.
type Context struct {
	store     Store
	namespace string
	now       func() time.Time

	mu      sync.RWMutex
	current *model.Session
}

func NewContext(store Store, namespace string) *Context {
	return &Context{store: store, namespace: namespace, now: time.Now}
}

func (c *Context) Namespace() string {
	return c.namespace
}

// Load reads the persisted session. The user session is preferred over the
// admin one; a stored token whose expiry has passed is cleared instead.
func (c *Context) Load(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.current = nil

	for _, role := range []model.Role{model.RoleUser, model.RoleAdmin} {
		sess, ok, err := c.read(ctx, role)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}

		if tokenExpired(sess.Token, c.now()) {
			tokenKey, userKey := roleKeys(role)
			if err := c.store.Update(ctx, c.namespace, nil, []string{tokenKey, userKey}); err != nil {
				return fmt.Errorf("clear expired %s session: %w", role, err)
			}
			continue
		}

		c.current = &sess
		return nil
	}

	return nil
}

func (c *Context) read(ctx context.Context, role model.Role) (model.Session, bool, error) {
	tokenKey, userKey := roleKeys(role)

	token, ok, err := c.store.Get(ctx, c.namespace, tokenKey)
	if err != nil || !ok || token == "" {
		return model.Session{}, false, err
	}

	rawUser, ok, err := c.store.Get(ctx, c.namespace, userKey)
	if err != nil || !ok {
		return model.Session{}, false, err
	}

	var user model.User
	if err := json.Unmarshal([]byte(rawUser), &user); err != nil {
		return model.Session{}, false, fmt.Errorf("decode stored %s: %w", userKey, err)
	}

	return model.Session{Role: role, Token: token, User: user}, true, nil
}

// Set activates sess, clearing the other role's keys first.
func (c *Context) Set(ctx context.Context, sess model.Session) error {
	if sess.Role != model.RoleUser && sess.Role != model.RoleAdmin {
		return fmt.Errorf("unknown role %q", sess.Role)
	}

	rawUser, err := json.Marshal(sess.User)
	if err != nil {
		return err
	}

	tokenKey, userKey := roleKeys(sess.Role)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.store.Update(ctx, c.namespace,
		map[string]string{tokenKey: sess.Token, userKey: string(rawUser)},
		clearedBy(sess.Role),
	); err != nil {
		return fmt.Errorf("store %s session: %w", sess.Role, err)
	}

	c.current = &sess
	return nil
}

// Clear removes the session of role. The in-memory session is dropped only
// when it belongs to role.
func (c *Context) Clear(ctx context.Context, role model.Role) error {
	tokenKey, userKey := roleKeys(role)
	del := []string{tokenKey, userKey}
	if role == model.RoleAdmin {
		del = append(del, KeyAdminFlag)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.store.Update(ctx, c.namespace, nil, del); err != nil {
		return fmt.Errorf("clear %s session: %w", role, err)
	}

	if c.current != nil && c.current.Role == role {
		c.current = nil
	}
	return nil
}

// ClearAll logs out of both roles.
func (c *Context) ClearAll(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.store.Update(ctx, c.namespace, nil, []string{
		KeyToken, KeyUser, KeyAdminToken, KeyAdminUser, KeyAdminFlag,
	}); err != nil {
		return fmt.Errorf("clear sessions: %w", err)
	}

	c.current = nil
	return nil
}

// UpdateUser replaces the stored user record of the active session.
func (c *Context) UpdateUser(ctx context.Context, user model.User) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil {
		return nil
	}

	raw, err := json.Marshal(user)
	if err != nil {
		return err
	}

	_, userKey := roleKeys(c.current.Role)
	if err := c.store.Update(ctx, c.namespace, map[string]string{userKey: string(raw)}, nil); err != nil {
		return err
	}

	c.current.User = user
	return nil
}

// Token implements api.TokenSource.
func (c *Context) Token(role model.Role) string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.current == nil || c.current.Role != role {
		return ""
	}
	return c.current.Token
}

func (c *Context) Current() (model.Session, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.current == nil {
		return model.Session{}, false
	}
	return *c.current, true
}

func (c *Context) LoggedIn() bool {
	_, ok := c.Current()
	return ok
}

func (c *Context) IsAdmin() bool {
	sess, ok := c.Current()
	return ok && sess.Role == model.RoleAdmin
}

// Ads returns every ad submitted from this namespace. A missing list is
// empty.
func (c *Context) Ads(ctx context.Context) ([]model.AdRecord, error) {
	raw, ok, err := c.store.Get(ctx, c.namespace, KeyAds)
	if err != nil || !ok || raw == "" {
		return nil, err
	}

	var ads []model.AdRecord
	if err := json.Unmarshal([]byte(raw), &ads); err != nil {
		return nil, fmt.Errorf("decode stored ads: %w", err)
	}
	return ads, nil
}

func (c *Context) AppendAd(ctx context.Context, ad model.AdRecord) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	ads, err := c.Ads(ctx)
	if err != nil {
		return err
	}

	raw, err := json.Marshal(append(ads, ad))
	if err != nil {
		return err
	}

	return c.store.Update(ctx, c.namespace, map[string]string{KeyAds: string(raw)}, nil)
}

// AdsFor returns the ads matching sel, padded with placeholders. The
// placeholders are returned even when the stored list cannot be read.
func (c *Context) AdsFor(ctx context.Context, sel model.Selection) ([]model.AdRecord, error) {
	ads, err := c.Ads(ctx)
	return locale.WithFallback(locale.FilterAds(ads, sel)), err
}

// tokenExpired reports whether token is a JWT whose exp claim has passed.
// Tokens that are not JWTs never expire here; the backend remains the judge.
func tokenExpired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}

	return exp.Before(now)
}

// Manager hands out one loaded Context per namespace.
type Manager struct {
	store Store

	mu       sync.Mutex
	contexts map[string]*Context
}

func NewManager(store Store) *Manager {
	return &Manager{store: store, contexts: make(map[string]*Context)}
}

// For returns the Context of namespace, loading it from the store on first
// use. Loads run outside the lock; when two race, the first stored wins.
func (m *Manager) For(ctx context.Context, namespace string) (*Context, error) {
	m.mu.Lock()
	c, ok := m.contexts[namespace]
	m.mu.Unlock()
	if ok {
		return c, nil
	}

	loaded := NewContext(m.store, namespace)
	if err := loaded.Load(ctx); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if c, ok := m.contexts[namespace]; ok {
		return c, nil
	}
	m.contexts[namespace] = loaded

	return loaded, nil
}

// Forget drops the loaded Context of namespace. The next For reloads it
// from the store.
func (m *Manager) Forget(namespace string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.contexts, namespace)
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.contexts)
}

func ChatNamespace(chatID int64) string {
	return fmt.Sprintf("chat:%d", chatID)
}
