package session

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// ErrNoSession is returned when no valid session envelope is present.
var ErrNoSession = errors.New("no active session")

// Session is the single envelope holding all authenticated state. It replaces
// scattered per-key storage: one signed value, one write, one clear.
type Session struct {
	Query              string
	SelectedConsumerNo string
	IssuedAt           time.Time
}

// Manager issues, parses and clears signed session cookies.
type Manager struct {
	secret     []byte
	issuer     string
	cookieName string
	ttl        time.Duration
	secure     bool
}

// NewManager creates a session manager with the provided secret, issuer,
// cookie name and lifetime.
func NewManager(secret, issuer, cookieName string, ttl time.Duration, secure bool) *Manager {
	return &Manager{
		secret:     []byte(secret),
		issuer:     issuer,
		cookieName: cookieName,
		ttl:        ttl,
		secure:     secure,
	}
}

// CookieName returns the name of the session cookie.
func (m *Manager) CookieName() string {
	return m.cookieName
}

// Issue signs a session envelope and returns the token string.
func (m *Manager) Issue(sess Session) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"iss":      m.issuer,
		"sub":      sess.Query,
		"consumer": sess.SelectedConsumerNo,
		"iat":      now.Unix(),
		"nbf":      now.Unix(),
		"exp":      now.Add(m.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Parse validates a token string and returns the session envelope.
// Invalid, expired or foreign tokens yield ErrNoSession.
func (m *Manager) Parse(tokenString string) (*Session, error) {
	if tokenString == "" {
		return nil, ErrNoSession
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithIssuer(m.issuer), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil, ErrNoSession
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrNoSession
	}

	query, _ := claims["sub"].(string)
	consumer, _ := claims["consumer"].(string)
	if query == "" {
		return nil, ErrNoSession
	}

	issuedAt := time.Time{}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		issuedAt = iat.Time
	}

	return &Session{
		Query:              query,
		SelectedConsumerNo: consumer,
		IssuedAt:           issuedAt,
	}, nil
}

// Write sets the session cookie on the response.
func (m *Manager) Write(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cookieName, token, int(m.ttl.Seconds()), "/", "", m.secure, true)
}

// Load reads and parses the session cookie from the request.
func (m *Manager) Load(c *gin.Context) (*Session, error) {
	token, err := c.Cookie(m.cookieName)
	if err != nil {
		return nil, ErrNoSession
	}
	return m.Parse(token)
}

// Clear expires the session cookie. Clearing an already-cleared session is a
// no-op, so the operation is idempotent.
func (m *Manager) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cookieName, "", -1, "/", "", m.secure, true)
}
