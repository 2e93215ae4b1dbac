// Package metaedit decides how a metadata write composes with the entries
// already stored in a file.
package metaedit

import (
	"fmt"
	"strings"

	"github.com/lewtec/pngtag/internal/domain"
)

// Policy selects what happens when the key being written already exists.
type Policy int

const (
	// Replace drops every entry with the key and appends the new one.
	Replace Policy = iota
	// Append joins the new value onto the first existing entry with MergeSeparator.
	Append
)

// MergeSeparator joins values under the Append policy.
const MergeSeparator = "; "

func (p Policy) String() string {
	switch p {
	case Replace:
		return "replace"
	case Append:
		return "append"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// ParsePolicy converts a policy name as found in configuration or flags.
// The empty string selects Replace.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "replace":
		return Replace, nil
	case "append", "merge":
		return Append, nil
	default:
		return Replace, fmt.Errorf("unknown edit policy %q (want replace or append)", s)
	}
}

// MarshalText implements encoding.TextMarshaler so policies read naturally in YAML.
func (p Policy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Policy) UnmarshalText(text []byte) error {
	parsed, err := ParsePolicy(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Apply returns the entry list after setting key to value under policy p.
// existing is never modified.
func Apply(existing domain.Entries, key, value string, p Policy) domain.Entries {
	if p == Append {
		for i, e := range existing {
			if e.Key == key {
				out := existing.Clone()
				out[i].Value = e.Value + MergeSeparator + value
				return out
			}
		}
		out := existing.Clone()
		return append(out, domain.Entry{Key: key, Value: value})
	}
	out := Remove(existing, key)
	return append(out, domain.Entry{Key: key, Value: value})
}

// Remove returns existing without any entry stored under key.
func Remove(existing domain.Entries, key string) domain.Entries {
	out := make(domain.Entries, 0, len(existing)+1)
	for _, e := range existing {
		if e.Key != key {
			out = append(out, e)
		}
	}
	return out
}
