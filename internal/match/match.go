// Package match resolves noisy OCR output and free-form text against the
// champion database. Scoring: exact and alias hits win outright, prefixes
// score high, everything else pays a levenshtein penalty scaled to the
// candidate length.
package match

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// Match is a resolved champion name with its confidence.
type Match struct {
	Name  string
	Score float64
}

// Matcher resolves raw text to canonical champion names.
type Matcher struct {
	names   []string
	lower   []string // lowercased names, same order
	aliases map[string]string

	// Whole segments must clear SegmentThreshold; single words inside a
	// segment only need WordThreshold. Mirrors the stricter whole-segment
	// cutoff the voice path always used.
	SegmentThreshold float64
	WordThreshold    float64
}

// DefaultAliases are common community shorthands for champion names.
var DefaultAliases = map[string]string{
	"mf":   "Miss Fortune",
	"gp":   "Gangplank",
	"ez":   "Ezreal",
	"tf":   "Twisted Fate",
	"ww":   "Warwick",
	"cait": "Caitlyn",
	"asol": "Aurelion Sol",
	"kat":  "Katarina",
	"mord": "Mordekaiser",
	"voli": "Volibear",
}

// NewMatcher builds a matcher over canonical names. Extra alias tables are
// merged on top of the defaults; later tables win.
func NewMatcher(names []string, extra ...map[string]string) *Matcher {
	m := &Matcher{
		names:            append([]string(nil), names...),
		aliases:          make(map[string]string),
		SegmentThreshold: 0.80,
		WordThreshold:    0.72,
	}
	m.lower = make([]string, len(m.names))
	nameSet := make(map[string]bool, len(m.names))
	for i, n := range m.names {
		m.lower[i] = strings.ToLower(n)
		nameSet[n] = true
	}
	for alias, name := range DefaultAliases {
		if nameSet[name] {
			m.aliases[alias] = name
		}
	}
	for _, table := range extra {
		for alias, name := range table {
			if nameSet[name] {
				m.aliases[strings.ToLower(alias)] = name
			}
		}
	}
	return m
}

// Best returns the highest-scoring champion for input, or ok=false when
// nothing clears the segment threshold. Deterministic for a given database:
// ties keep the earlier name.
func (m *Matcher) Best(input string) (Match, bool) {
	return m.best(input, m.SegmentThreshold)
}

func (m *Matcher) best(input string, threshold float64) (Match, bool) {
	token := strings.ToLower(strings.TrimSpace(input))
	if token == "" || len(m.names) == 0 {
		return Match{}, false
	}

	if name, ok := m.aliases[token]; ok {
		return Match{Name: name, Score: 1.0}, true
	}

	best := Match{Score: -1}
	for i, cand := range m.lower {
		var score float64
		switch {
		case token == cand:
			score = 1.0
		case strings.HasPrefix(cand, token) && len(token) >= 2:
			score = 0.9
		case len(token) < 3:
			// Too short for edit distance; exact or alias only.
			continue
		default:
			dist := levenshtein.ComputeDistance(token, cand)
			if dist > distanceLimit(len(cand)) {
				continue
			}
			score = 1.0 - 0.1*float64(dist)
		}
		if score > best.Score {
			best = Match{Name: m.names[i], Score: score}
		}
	}

	if best.Score < threshold {
		return Match{}, false
	}
	return best, true
}

// distanceLimit bounds the tolerated edit distance by candidate length, so
// short names do not absorb unrelated tokens.
func distanceLimit(n int) int {
	switch {
	case n <= 4:
		return 1
	case n <= 8:
		return 2
	default:
		return 3
	}
}

var fillerWords = map[string]bool{
	"with": true, "plus": true, "also": true, "have": true, "got": true,
	"a": true, "an": true, "the": true, "is": true, "are": true,
	"my": true, "i": true, "some": true,
}

// ExtractAll pulls champion names out of free text. Segments split on
// commas, "and", and "&"; each segment is resolved whole first, then word
// by word at the looser threshold. Order is preserved, duplicates dropped.
func (m *Matcher) ExtractAll(text string) []string {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return nil
	}

	segments := []string{text}
	for _, sep := range []string{",", " and ", " & "} {
		var next []string
		for _, seg := range segments {
			next = append(next, strings.Split(seg, sep)...)
		}
		segments = next
	}

	var found []string
	seen := make(map[string]bool)
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			found = append(found, name)
		}
	}

	for _, seg := range segments {
		words := strings.Fields(seg)
		kept := words[:0]
		for _, w := range words {
			if !fillerWords[w] {
				kept = append(kept, w)
			}
		}
		cleaned := strings.Join(kept, " ")
		if cleaned == "" {
			continue
		}

		if hit, ok := m.best(cleaned, m.SegmentThreshold); ok {
			add(hit.Name)
			continue
		}
		for _, w := range kept {
			if len(w) < 3 {
				continue
			}
			if hit, ok := m.best(w, m.WordThreshold); ok {
				add(hit.Name)
				break // one match per segment
			}
		}
	}
	return found
}
