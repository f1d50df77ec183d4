package mailbuilder

import (
	"fmt"
	"regexp"
)

var placeholderPattern = regexp.MustCompile(`\{\{(\w+)\}\}`)

// Interpolate replaces {{identifier}} placeholders with values from data.
// Placeholders without a matching key are left intact, so partially-bound
// documents can go through further passes.
func Interpolate(document string, data map[string]any) string {
	if len(data) == 0 {
		return document
	}
	return placeholderPattern.ReplaceAllStringFunc(document, func(match string) string {
		key := placeholderPattern.FindStringSubmatch(match)[1]
		value, ok := data[key]
		if !ok {
			return match
		}
		return fmt.Sprint(value)
	})
}
