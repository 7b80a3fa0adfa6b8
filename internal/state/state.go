// Package state parses free-form descriptions of the current game into a
// structured snapshot. Input arrives as transcribed voice or typed chat and
// is noisy; champion segments are resolved through the fuzzy matcher.
package state

import (
	"fmt"
	"regexp"
	"strings"

	"tftnerd/internal/match"
)

// GameState is a partial snapshot of the player's situation. Zero values
// mean "not mentioned".
type GameState struct {
	Board      []string
	Bench      []string
	Shop       []string
	Gold       int
	HasGold    bool
	Level      int
	Health     int
	Stage      string
	TargetComp string
}

var (
	goldRe  = regexp.MustCompile(`(?:i have|with|got)\s*(\d+)\s*gold`)
	levelRe = regexp.MustCompile(`(?:level|lvl)\s*(\d+)`)
	// Both "30 health" and "health 30" show up in transcripts.
	healthRe     = regexp.MustCompile(`(\d+)\s*(?:health|hp|life)\b`)
	healthWordRe = regexp.MustCompile(`(?:health|hp|life)\s*(\d+)`)
	stageRe      = regexp.MustCompile(`round\s*(\d+[-–]\d+)`)
	withRe       = regexp.MustCompile(`with\s+([a-z\s]+?)\s+on\s+(?:my\s+)?board`)
)

var boardKeywords = []string{"on my board", "on board", "my board has"}
var benchKeywords = []string{"on my bench", "on bench", "bench has"}
var shopKeywords = []string{"in shop", "shop has", "shop shows", "can buy"}
var compKeywords = []string{"want to play", "going for", "trying to build", "playing"}

// Stop words end a champion-list section so the next clause is not swallowed.
var stopWords = []string{
	"on bench", "bench has", "in shop", "shop has", "shop shows", "can buy",
	"trying to", "going for", "want to play", "playing",
}

// Parse extracts whatever game state the text mentions. Returns ok=false
// when nothing useful was found.
func Parse(text string, m *match.Matcher) (GameState, bool) {
	query := strings.ToLower(strings.TrimSpace(text))
	var st GameState

	if g := goldRe.FindStringSubmatch(query); g != nil {
		fmt.Sscanf(g[1], "%d", &st.Gold)
		st.HasGold = true
	}
	if l := levelRe.FindStringSubmatch(query); l != nil {
		fmt.Sscanf(l[1], "%d", &st.Level)
	}
	if h := healthRe.FindStringSubmatch(query); h != nil {
		fmt.Sscanf(h[1], "%d", &st.Health)
	} else if h := healthWordRe.FindStringSubmatch(query); h != nil {
		fmt.Sscanf(h[1], "%d", &st.Health)
	}
	if r := stageRe.FindStringSubmatch(query); r != nil {
		st.Stage = r[1]
	}

	st.Board = sectionChampions(query, boardKeywords, m)
	if len(st.Board) == 0 {
		// "with X and Y on my board" arrives before the keyword.
		if w := withRe.FindStringSubmatch(query); w != nil {
			st.Board = m.ExtractAll(w[1])
		}
	}
	st.Bench = sectionChampions(query, benchKeywords, m)
	st.Shop = sectionChampions(query, shopKeywords, m)

	for _, kw := range compKeywords {
		if idx := strings.Index(query, kw); idx >= 0 {
			rest := strings.TrimSpace(query[idx+len(kw):])
			rest = trimAtStopWord(rest)
			rest = strings.Trim(rest, " .,!?")
			if rest != "" {
				st.TargetComp = rest
			}
			break
		}
	}

	ok := st.HasGold || st.Level > 0 || st.Health > 0 || st.Stage != "" ||
		len(st.Board) > 0 || len(st.Bench) > 0 || len(st.Shop) > 0 || st.TargetComp != ""
	return st, ok
}

// sectionChampions pulls the champion list after the first matching keyword,
// cut at the next section's keyword.
func sectionChampions(query string, keywords []string, m *match.Matcher) []string {
	for _, kw := range keywords {
		idx := strings.Index(query, kw)
		if idx < 0 {
			continue
		}
		section := trimAtStopWord(query[idx+len(kw):])
		return m.ExtractAll(section)
	}
	return nil
}

func trimAtStopWord(s string) string {
	cut := len(s)
	for _, stop := range stopWords {
		if idx := strings.Index(s, stop); idx >= 0 && idx < cut {
			cut = idx
		}
	}
	return s[:cut]
}

// Roster returns board and bench combined, the unit set synergy inference
// works over.
func (st GameState) Roster() []string {
	roster := make([]string, 0, len(st.Board)+len(st.Bench))
	roster = append(roster, st.Board...)
	roster = append(roster, st.Bench...)
	return roster
}

// FormatPrompt renders the snapshot as the compact " | "-joined line the
// LLM context uses.
func (st GameState) FormatPrompt() string {
	var parts []string
	if st.Stage != "" {
		parts = append(parts, "Round: "+st.Stage)
	}
	if st.Level > 0 {
		parts = append(parts, fmt.Sprintf("Level: %d", st.Level))
	}
	if st.HasGold {
		parts = append(parts, fmt.Sprintf("Gold: %d", st.Gold))
	}
	if st.Health > 0 {
		parts = append(parts, fmt.Sprintf("Health: %d", st.Health))
	}
	if len(st.Board) > 0 {
		parts = append(parts, "Board: "+strings.Join(st.Board, ", "))
	}
	if len(st.Bench) > 0 {
		parts = append(parts, "Bench: "+strings.Join(st.Bench, ", "))
	}
	if len(st.Shop) > 0 {
		parts = append(parts, "Shop: "+strings.Join(st.Shop, ", "))
	}
	if st.TargetComp != "" {
		parts = append(parts, "Target composition: "+st.TargetComp)
	}
	if len(parts) == 0 {
		return "No game state information provided"
	}
	return strings.Join(parts, " | ")
}
