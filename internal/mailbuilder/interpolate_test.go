package mailbuilder

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInterpolateReplacesKnownPlaceholders(t *testing.T) {
	result := Interpolate("Hello {{name}}, ticket {{ticketKey}} was updated.", map[string]any{
		"name":      "Ada",
		"ticketKey": "TCK-1A2B3C4D",
	})
	assert.Equal(t, "Hello Ada, ticket TCK-1A2B3C4D was updated.", result)
}

func TestInterpolateLeavesUnknownPlaceholdersIntact(t *testing.T) {
	result := Interpolate("Hello {{name}}, see {{unsubscribeToken}}.", map[string]any{
		"name": "Ada",
	})
	assert.Equal(t, "Hello Ada, see {{unsubscribeToken}}.", result)
}

func TestInterpolateNonStringValues(t *testing.T) {
	result := Interpolate("{{count}} open tickets", map[string]any{"count": 7})
	assert.Equal(t, "7 open tickets", result)
}

func TestInterpolateEmptyData(t *testing.T) {
	document := "Hello {{name}}"
	assert.Equal(t, document, Interpolate(document, nil))
}

func TestInterpolateIgnoresMalformedPlaceholders(t *testing.T) {
	result := Interpolate("{{ spaced }} and {{hy-phen}} stay", map[string]any{
		"spaced": "x",
	})
	assert.Equal(t, "{{ spaced }} and {{hy-phen}} stay", result)
}

func TestInterpolateRepeatedPlaceholder(t *testing.T) {
	result := Interpolate("{{name}} and {{name}}", map[string]any{"name": "Ada"})
	assert.Equal(t, "Ada and Ada", result)
}
