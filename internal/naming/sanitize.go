// Package naming maps canonical module identities to syntactically valid
// GitLab CI job names.
package naming

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// fallbackName is used when sanitization produces an empty string.
const fallbackName = "unknown-job"

// sanitizeReplacer rewrites characters GitLab CI job names cannot contain.
var sanitizeReplacer = strings.NewReplacer(
	"/", "-",
	":", "-",
	"+", "plus",
	"(", "",
	")", "",
	" ", "-",
)

// Sanitize returns a syntactically legal GitLab CI job name for an arbitrary
// module identity. It is pure and total: the same input always yields the
// same output, and there are no error conditions. Distinct identities may
// collapse to the same name; use a Table when uniqueness is required.
func Sanitize(identity string) string {
	sanitized := sanitizeReplacer.Replace(identity)
	if sanitized == "" {
		return fallbackName
	}
	first, _ := utf8.DecodeRuneInString(sanitized)
	if !unicode.IsLetter(first) && first != '_' {
		sanitized = "job-" + sanitized
	}
	return sanitized
}

// Table resolves sanitized-name collisions within one generation run.
// Sanitization is lossy, so two distinct identities can map to the same
// string; the table appends a numeric suffix to keep names injective.
type Table struct {
	byName     map[string]string // sanitized name -> owning identity
	byIdentity map[string]string // identity -> claimed name
}

// NewTable returns an empty collision table.
func NewTable() *Table {
	return &Table{
		byName:     make(map[string]string),
		byIdentity: make(map[string]string),
	}
}

// Claim returns the unique job name for the given identity. Repeated claims
// of the same identity return the same name. When a distinct identity has
// already claimed the sanitized form, a "-2", "-3", ... suffix is appended.
func (t *Table) Claim(identity string) string {
	if name, ok := t.byIdentity[identity]; ok {
		return name
	}

	base := Sanitize(identity)
	name := base
	for n := 2; ; n++ {
		owner, taken := t.byName[name]
		if !taken || owner == identity {
			break
		}
		name = base + "-" + strconv.Itoa(n)
	}

	t.byName[name] = identity
	t.byIdentity[identity] = name
	return name
}

// Lookup returns the name previously claimed for identity, if any.
func (t *Table) Lookup(identity string) (string, bool) {
	name, ok := t.byIdentity[identity]
	return name, ok
}
