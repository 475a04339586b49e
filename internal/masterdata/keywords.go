package masterdata

import (
	"errors"
	"fmt"
	"strings"

	"github.com/JonMunkholm/qbank/internal/core"
)

// MaxSuggestions caps the number of keyword candidates returned.
const MaxSuggestions = 10

// Suggest returns up to MaxSuggestions keywords containing query,
// ignoring case. An empty query suggests nothing.
func Suggest(keywords []string, query string) []string {
	q := strings.ToLower(strings.TrimSpace(query))
	out := []string{}
	if q == "" {
		return out
	}
	for _, k := range keywords {
		if strings.Contains(strings.ToLower(k), q) {
			out = append(out, k)
			if len(out) == MaxSuggestions {
				break
			}
		}
	}
	return out
}

// AddKeyword appends word to a comma-separated keyword list unless it is
// already present. Existing entries are trimmed and empties dropped.
func AddKeyword(list, word string) string {
	cur := strings.TrimSpace(list)
	if cur == "" {
		return word
	}
	parts := core.SplitList(cur)
	for _, p := range parts {
		if p == word {
			return strings.Join(parts, ", ")
		}
	}
	return strings.Join(append(parts, word), ", ")
}

var (
	// ErrTemplateNotFound is returned for an unknown template id.
	ErrTemplateNotFound = errors.New("template not found")
	// ErrUnknownField is returned when the insertion target is not a question field.
	ErrUnknownField = errors.New("unknown field")
)

// InsertText returns the text of template id cleaned for field, ready to be
// inserted into that field's editor.
func (d *Data) InsertText(id, field string) (string, error) {
	t, ok := d.Template(id)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrTemplateNotFound, id)
	}
	spec, ok := core.LookupField(field)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return core.Sanitize(t.InsertText, spec.Content), nil
}
