// Package rules holds the pure validation predicates shared by the entity
// services: format checks, required-field presence, and payload shape helpers.
// Uniqueness checks need collection state and live with the services.
package rules

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

var (
	emailFormat = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneFormat = regexp.MustCompile(`^[0-9]{10}$`)
)

func EmailValid(s string) bool {
	return emailFormat.MatchString(s)
}

func PhoneValid(s string) bool {
	return phoneFormat.MatchString(s)
}

// PasswordValid enforces the signup password policy: at least 8 characters,
// drawn only from letters, digits and @$!%*?&, with at least one lowercase,
// one uppercase, one digit and one special character.
func PasswordValid(s string) bool {
	if len(s) < 8 {
		return false
	}
	var lower, upper, digit, special bool
	for _, c := range s {
		switch {
		case c >= 'a' && c <= 'z':
			lower = true
		case c >= 'A' && c <= 'Z':
			upper = true
		case c >= '0' && c <= '9':
			digit = true
		case strings.ContainsRune("@$!%*?&", c):
			special = true
		default:
			return false
		}
	}
	return lower && upper && digit && special
}

// Payload is a decoded request body, kept raw per field so that services can
// tell an absent field from a zero value and reject unknown keys.
type Payload map[string]json.RawMessage

func (p Payload) Has(field string) bool {
	raw, ok := p[field]
	return ok && !bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// String returns the field as a string. ok is false when the field is absent
// or is not a JSON string.
func (p Payload) String(field string) (string, bool) {
	raw, ok := p[field]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

func (p Payload) Int(field string) (int, bool) {
	raw, ok := p[field]
	if !ok {
		return 0, false
	}
	var n int
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, false
	}
	return n, true
}

func (p Payload) StringSlice(field string) ([]string, bool) {
	raw, ok := p[field]
	if !ok {
		return nil, false
	}
	var ss []string
	if err := json.Unmarshal(raw, &ss); err != nil {
		return nil, false
	}
	return ss, true
}

// MissingFields reports which of the required fields are absent or falsy
// (null, empty string, zero number, empty array), in required order.
func (p Payload) MissingFields(required []string) []string {
	var missing []string
	for _, field := range required {
		if !p.Present(field) {
			missing = append(missing, field)
		}
	}
	return missing
}

// Present reports whether the field carries a non-falsy value: absent keys,
// null, empty or blank strings, zero numbers and empty arrays all count as
// not present.
func (p Payload) Present(field string) bool {
	raw, ok := p[field]
	if !ok {
		return false
	}
	trimmed := bytes.TrimSpace(raw)
	if bytes.Equal(trimmed, []byte("null")) {
		return false
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		return strings.TrimSpace(s) != ""
	}
	var n float64
	if err := json.Unmarshal(trimmed, &n); err == nil {
		return n != 0
	}
	var arr []json.RawMessage
	if err := json.Unmarshal(trimmed, &arr); err == nil {
		return len(arr) > 0
	}
	return true
}

// UnexpectedFields reports payload keys outside the known set, sorted for a
// stable message.
func (p Payload) UnexpectedFields(known []string) []string {
	allowed := make(map[string]bool, len(known))
	for _, f := range known {
		allowed[f] = true
	}
	var unexpected []string
	for k := range p {
		if !allowed[k] {
			unexpected = append(unexpected, k)
		}
	}
	sort.Strings(unexpected)
	return unexpected
}

// Violations accumulates rule failures for one request. All of them travel
// back to the client in a single message.
type Violations []string

func (v *Violations) Add(msg string) {
	*v = append(*v, msg)
}

func (v *Violations) Addf(format string, args ...any) {
	*v = append(*v, fmt.Sprintf(format, args...))
}

func (v Violations) Empty() bool { return len(v) == 0 }

func (v Violations) Message() string { return strings.Join(v, " ") }
