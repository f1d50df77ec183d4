package tokens

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseRoundTrip(t *testing.T) {
	manager := NewManager("test-secret", time.Hour)

	token, err := manager.Generate("sub-123", "ada@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := manager.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "sub-123", claims.SubscriberID)
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.Equal(t, "sub-123", claims.Subject)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token, err := NewManager("secret-a", time.Hour).Generate("sub-1", "")
	require.NoError(t, err)

	_, err = NewManager("secret-b", time.Hour).Parse(token)
	assert.Error(t, err)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	manager := NewManager("test-secret", time.Hour)
	manager.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := manager.Generate("sub-1", "")
	require.NoError(t, err)

	manager.now = time.Now
	_, err = manager.Parse(token)
	assert.Error(t, err)
}

func TestGenerateRequiresSecret(t *testing.T) {
	_, err := NewManager("", time.Hour).Generate("sub-1", "")
	assert.Error(t, err)
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := NewManager("test-secret", time.Hour).Parse("not-a-token")
	assert.Error(t, err)
}
