package tokens

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// UnsubscribeClaims identifies the recipient an unsubscribe link belongs to.
type UnsubscribeClaims struct {
	SubscriberID string `json:"sid"`
	Email        string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Manager signs and verifies unsubscribe tokens embedded in email footers.
type Manager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewManager constructs a token manager. TTL bounds how long a mailed link
// stays valid.
func NewManager(secret string, ttl time.Duration) *Manager {
	return &Manager{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Generate issues a signed token for the given subscriber.
func (m *Manager) Generate(subscriberID, email string) (string, error) {
	if len(m.secret) == 0 {
		return "", errors.New("unsubscribe secret not configured")
	}
	now := m.now()
	claims := UnsubscribeClaims{
		SubscriberID: subscriberID,
		Email:        email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subscriberID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Parse validates a token and returns its claims.
func (m *Manager) Parse(tokenString string) (*UnsubscribeClaims, error) {
	claims := &UnsubscribeClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
