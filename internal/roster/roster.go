// Package roster maps free-text player names to stable aliases and
// handedness. The mapping is loaded once per run and read-only after.
package roster

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// UnknownAlias is returned for names with no roster match. Keeping the
// fallback a single sentinel keeps alias a closed set for grouping.
const UnknownAlias = "UNKNOWN"

// Entry is one player's stable identity.
type Entry struct {
	Alias string `json:"alias"`
	Hand  string `json:"hand"` // "L" or "R"
}

// Roster is the loaded name-key → identity table.
type Roster struct {
	players map[string]Entry
}

// rosterFile matches the on-disk schema: {"players": {name: entry}}.
// Entry values may be a bare alias string or an {alias, hand} object.
type rosterFile struct {
	Players map[string]json.RawMessage `json:"players"`
}

var stripMarks = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))

// NormalizeKey reduces a free-text name to a lookup key: trim, lower,
// drop diacritics, keep only [a-z0-9].
func NormalizeKey(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	if s == "" {
		return ""
	}
	if decomposed, _, err := transform.String(stripMarks, s); err == nil {
		s = decomposed
	}
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Load reads the roster configuration file. An absent file yields an
// empty roster, not an error: identity resolution fails open per name.
func Load(path string) (*Roster, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Roster{players: map[string]Entry{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read roster: %w", err)
	}
	return Parse(data)
}

// Parse builds a roster from raw JSON, tolerating bare-string entries
// and free-text hand values.
func Parse(data []byte) (*Roster, error) {
	var rf rosterFile
	if err := json.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parse roster: %w", err)
	}

	players := make(map[string]Entry, len(rf.Players))
	for rawKey, rawVal := range rf.Players {
		key := NormalizeKey(rawKey)
		if key == "" {
			continue
		}

		var e Entry
		var alias string
		if err := json.Unmarshal(rawVal, &alias); err == nil {
			e = Entry{Alias: strings.TrimSpace(alias), Hand: "R"}
		} else if err := json.Unmarshal(rawVal, &e); err != nil {
			return nil, fmt.Errorf("parse roster entry %q: %w", rawKey, err)
		}

		if e.Alias == "" {
			e.Alias = strings.TrimSpace(rawKey)
		}
		e.Hand = normalizeHand(e.Hand)
		players[key] = e
	}
	return &Roster{players: players}, nil
}

// Alias resolves a free-text name to its stable alias. Unknown names map
// to the UnknownAlias sentinel rather than failing.
func (r *Roster) Alias(name string) string {
	if e, ok := r.players[NormalizeKey(name)]; ok && e.Alias != "" {
		return e.Alias
	}
	return UnknownAlias
}

// Hand resolves a free-text name to "L" or "R", defaulting to "R" when
// the name is unmapped.
func (r *Roster) Hand(name string) string {
	if e, ok := r.players[NormalizeKey(name)]; ok {
		return e.Hand
	}
	return "R"
}

// Known reports whether the name has a roster match.
func (r *Roster) Known(name string) bool {
	_, ok := r.players[NormalizeKey(name)]
	return ok
}

// Len returns the number of roster entries.
func (r *Roster) Len() int { return len(r.players) }

func normalizeHand(hand string) string {
	switch strings.ToLower(strings.TrimSpace(hand)) {
	case "l", "left", "gaucher":
		return "L"
	case "r", "right", "droitier":
		return "R"
	default:
		return "R"
	}
}
