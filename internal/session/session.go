// Package session issues the signed cookie that identifies an anonymous
// browser across vote submissions.
package session

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/hkdf"

	"github.com/gravadigital/huddle-api/internal/logger"
)

const (
	// ContextKey is where the middleware stores the session id
	ContextKey = "session_id"

	issuer  = "huddle"
	keyInfo = "huddle session cookie v1"
)

// ErrInvalidToken is returned for cookies that fail verification
var ErrInvalidToken = errors.New("invalid session token")

// Options configures a Manager
type Options struct {
	Secret     string
	CookieName string
	TTL        time.Duration
	Secure     bool
}

// Manager signs and verifies session cookies
type Manager struct {
	key        []byte
	cookieName string
	ttl        time.Duration
	secure     bool
	now        func() time.Time
	log        *log.Logger
}

// NewManager derives the signing key from opts.Secret. Without a secret a
// random one is used, so sessions do not survive a restart.
func NewManager(opts Options) (*Manager, error) {
	log := logger.WithContext("component", "session")

	secret := []byte(opts.Secret)
	if len(secret) == 0 {
		log.Warn("SESSION_SECRET is not set, using an ephemeral key")
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("failed to generate session secret: %w", err)
		}
	}

	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, nil, []byte(keyInfo)), key); err != nil {
		return nil, fmt.Errorf("failed to derive session key: %w", err)
	}

	if opts.CookieName == "" {
		opts.CookieName = ContextKey
	}
	if opts.TTL <= 0 {
		opts.TTL = 30 * 24 * time.Hour
	}

	return &Manager{
		key:        key,
		cookieName: opts.CookieName,
		ttl:        opts.TTL,
		secure:     opts.Secure,
		now:        time.Now,
		log:        log,
	}, nil
}

// Issue signs a token carrying sessionID, valid for the manager's TTL
func (m *Manager) Issue(sessionID string) (string, error) {
	now := m.now()
	claims := jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   sessionID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// Parse verifies raw and returns the session id it carries
func (m *Manager) Parse(raw string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, claims,
		func(*jwt.Token) (any, error) { return m.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if _, err := uuid.Parse(claims.Subject); err != nil {
		return "", fmt.Errorf("%w: subject is not a session id", ErrInvalidToken)
	}
	return claims.Subject, nil
}

// Middleware reads the session cookie, mints a new session when it is
// missing or invalid, and refreshes the cookie on every request
func (m *Manager) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		var sessionID string
		if raw, err := c.Cookie(m.cookieName); err == nil && raw != "" {
			id, err := m.Parse(raw)
			if err != nil {
				m.log.Debug("Discarding session cookie", "error", err)
			}
			sessionID = id
		}

		if sessionID == "" {
			sessionID = uuid.NewString()
			m.log.Debug("Started new session")
		}

		c.Set(ContextKey, sessionID)

		if token, err := m.Issue(sessionID); err != nil {
			m.log.Error("Failed to refresh session cookie", "error", err)
		} else {
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(m.cookieName, token, int(m.ttl.Seconds()), "/", "", m.secure, true)
		}

		c.Next()
	}
}

// FromContext returns the session id set by Middleware, or ""
func FromContext(c *gin.Context) string {
	return c.GetString(ContextKey)
}
