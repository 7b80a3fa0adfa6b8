// Package rules decides which comps are in play for a partial roster and
// which champions are safe to sell. All decisions are explicit set logic
// over the reference data; the LLM never makes these calls.
package rules

import (
	"fmt"
	"sort"
	"strings"

	"tftnerd/internal/gamedata"
	"tftnerd/internal/logging"
)

// InterestCap is the gold threshold above which interest income maxes out.
const InterestCap = 50

// Advice is a sell/keep split for a roster plus the spoken summary.
type Advice struct {
	Sell []string
	Keep []string
	Text string
}

// CompsInPlay returns every comp sharing at least one champion with the
// roster: holding any constituent means the player could be building it.
// Sorted by overlap descending, then name, so callers can truncate.
func CompsInPlay(comps []gamedata.Comp, roster []string) []gamedata.Comp {
	have := nameSet(roster)

	type scored struct {
		comp    gamedata.Comp
		overlap int
	}
	var hits []scored
	for _, comp := range comps {
		overlap := 0
		for _, c := range comp.Champions {
			if have[strings.ToLower(c)] {
				overlap++
			}
		}
		if overlap > 0 {
			hits = append(hits, scored{comp, overlap})
		}
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].overlap != hits[j].overlap {
			return hits[i].overlap > hits[j].overlap
		}
		return hits[i].comp.Name < hits[j].comp.Name
	})

	result := make([]gamedata.Comp, len(hits))
	for i, h := range hits {
		result[i] = h.comp
	}
	return result
}

// SellAdvice splits the roster into sell and keep lists. A champion is safe
// to sell when the database knows it and no in-play comp uses it. Sell and
// Keep partition the roster; names the database does not know are kept,
// never sold, since selling on a misread is the expensive mistake.
func SellAdvice(champions []gamedata.Champion, comps []gamedata.Comp, roster []string, gold int) Advice {
	inPlay := CompsInPlay(comps, roster)

	known := make(map[string]bool, len(champions))
	for _, c := range champions {
		known[strings.ToLower(c.Name)] = true
	}
	usable := make(map[string]bool)
	for _, comp := range inPlay {
		for _, c := range comp.Champions {
			usable[strings.ToLower(c)] = true
		}
	}

	var advice Advice
	for _, c := range roster {
		lower := strings.ToLower(c)
		if usable[lower] || !known[lower] {
			advice.Keep = append(advice.Keep, c)
		} else {
			advice.Sell = append(advice.Sell, c)
		}
	}

	var b strings.Builder
	if len(advice.Sell) == 0 {
		b.WriteString("All of those fit into at least one common comp. Keep them for now.")
	} else {
		fmt.Fprintf(&b, "Sell: %s. Keep the others for potential comp synergies.",
			strings.Join(advice.Sell, ", "))
	}
	if gold < InterestCap {
		fmt.Fprintf(&b, " You have less than %d gold. Avoid spending below %d to maximize interest.",
			InterestCap, InterestCap)
	} else {
		fmt.Fprintf(&b, " Good job saving at least %d gold for interest.", InterestCap)
	}
	advice.Text = b.String()

	logging.Rules("sell advice: roster=%d sell=%d keep=%d comps_in_play=%d",
		len(roster), len(advice.Sell), len(advice.Keep), len(inPlay))
	return advice
}

// TraitCounts tallies trait memberships across the roster. Unknown
// champions contribute nothing.
func TraitCounts(champions []gamedata.Champion, roster []string) map[string]int {
	byName := make(map[string]gamedata.Champion, len(champions))
	for _, c := range champions {
		byName[strings.ToLower(c.Name)] = c
	}

	counts := make(map[string]int)
	for _, name := range roster {
		c, ok := byName[strings.ToLower(name)]
		if !ok {
			continue
		}
		for _, trait := range c.Traits {
			counts[trait]++
		}
	}
	return counts
}

// ActiveTraits filters trait counts to those with at least min units,
// the point where a synergy plausibly matters.
func ActiveTraits(counts map[string]int, min int) map[string]int {
	active := make(map[string]int)
	for trait, n := range counts {
		if n >= min {
			active[trait] = n
		}
	}
	return active
}

// EconAdvice answers the reroll/level/save questions the voice path fields
// most often. Stage is the "4-2" style round label, may be empty.
func EconAdvice(gold, level int, stage string) string {
	var parts []string

	switch {
	case gold < InterestCap:
		parts = append(parts, fmt.Sprintf(
			"You have %d gold. Build to %d before rolling so interest keeps paying.", gold, InterestCap))
	case gold >= InterestCap+20:
		parts = append(parts, fmt.Sprintf(
			"With %d gold you can roll down to %d and stay at max interest.", gold, InterestCap))
	default:
		parts = append(parts, fmt.Sprintf(
			"You are right at the interest cap with %d gold. Only roll for units that complete an active synergy.", gold))
	}

	if level > 0 && level < 8 && strings.HasPrefix(stage, "4") {
		parts = append(parts, "Stage 4 is usually the point to push levels rather than reroll.")
	} else if level >= 8 {
		parts = append(parts, "At level 8 rolling for upgrades beats further leveling.")
	}

	return strings.Join(parts, " ")
}

func nameSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[strings.ToLower(n)] = true
	}
	return set
}
