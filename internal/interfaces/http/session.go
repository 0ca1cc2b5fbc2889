package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/google/uuid"

	"github.com/jhoicas/yarn-inventory/internal/domain/entity"
)

// Session keys. Values are stored as primitives so the store needs no type registration.
const (
	sessUserID    = "uid"
	sessUsername  = "username"
	sessEmail     = "email"
	sessRole      = "role"
	sessCreatedAt = "created_at"
)

// SessionConfig cookie and expiry settings.
type SessionConfig struct {
	CookieName  string
	Secure      bool
	IdleTimeout time.Duration
	Storage     fiber.Storage // nil means fiber's in-memory storage
}

// SessionManager keeps one Identity per session id. Entries expire after
// IdleTimeout without a request; every authenticated request renews them.
type SessionManager struct {
	store *session.Store
}

// NewSessionManager builds the manager over fiber's session store.
func NewSessionManager(cfg SessionConfig) *SessionManager {
	name := cfg.CookieName
	if name == "" {
		name = "yarn_session"
	}
	return &SessionManager{store: session.New(session.Config{
		Expiration:     cfg.IdleTimeout,
		Storage:        cfg.Storage,
		KeyLookup:      "cookie:" + name,
		CookieSecure:   cfg.Secure,
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
		KeyGenerator:   uuid.NewString,
	})}
}

// Start issues a fresh session id and stores who in it.
func (m *SessionManager) Start(c *fiber.Ctx, who entity.Identity) error {
	sess, err := m.store.Get(c)
	if err != nil {
		return err
	}
	if err := sess.Regenerate(); err != nil {
		return err
	}
	sess.Set(sessUserID, who.UserID)
	sess.Set(sessUsername, who.Username)
	sess.Set(sessEmail, who.Email)
	sess.Set(sessRole, who.Role)
	sess.Set(sessCreatedAt, who.CreatedAt.Unix())
	return sess.Save()
}

// Load returns the identity of a live session and pushes its expiry forward.
// ok is false for missing, expired or anonymous sessions.
func (m *SessionManager) Load(c *fiber.Ctx) (who entity.Identity, ok bool, err error) {
	sess, err := m.store.Get(c)
	if err != nil {
		return entity.Identity{}, false, err
	}
	uid, _ := sess.Get(sessUserID).(int64)
	if uid == 0 {
		return entity.Identity{}, false, nil
	}
	who = entity.Identity{
		UserID:   uid,
		Username: str(sess.Get(sessUsername)),
		Email:    str(sess.Get(sessEmail)),
		Role:     str(sess.Get(sessRole)),
	}
	if ts, isInt := sess.Get(sessCreatedAt).(int64); isInt {
		who.CreatedAt = time.Unix(ts, 0).UTC()
	}
	return who, true, sess.Save()
}

// Destroy drops the session and expires the cookie.
func (m *SessionManager) Destroy(c *fiber.Ctx) error {
	sess, err := m.store.Get(c)
	if err != nil {
		return err
	}
	return sess.Destroy()
}

func str(v interface{}) string {
	s, _ := v.(string)
	return s
}
