package state

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"tftnerd/internal/match"
)

func testMatcher() *match.Matcher {
	return match.NewMatcher([]string{
		"Caitlyn", "Ekko", "Jayce", "Jinx", "Miss Fortune", "Vi", "Warwick",
	})
}

func TestParse(t *testing.T) {
	m := testMatcher()

	tests := []struct {
		name string
		text string
		want GameState
		ok   bool
	}{
		{
			name: "gold level and board",
			text: "I have 50 gold, level 7, with Jinx and Vi on my board",
			want: GameState{Gold: 50, HasGold: true, Level: 7, Board: []string{"Jinx", "Vi"}},
			ok:   true,
		},
		{
			name: "bench and shop sections",
			text: "my bench has Caitlyn and Ekko, shop shows Jayce",
			want: GameState{Bench: []string{"Caitlyn", "Ekko"}, Shop: []string{"Jayce"}},
			ok:   true,
		},
		{
			name: "health and target comp",
			text: "I'm level 6 with 30 health, trying to build enforcers",
			want: GameState{Level: 6, Health: 30, TargetComp: "enforcers"},
			ok:   true,
		},
		{
			name: "round stage",
			text: "round 4-2, I have 40 gold and want to play snipers",
			want: GameState{Stage: "4-2", Gold: 40, HasGold: true, TargetComp: "snipers"},
			ok:   true,
		},
		{
			name: "board keyword form",
			text: "on my board jinx, warwick and vi",
			want: GameState{Board: []string{"Jinx", "Warwick", "Vi"}},
			ok:   true,
		},
		{
			name: "board section stops before shop",
			text: "my board has vi and warwick, in shop caitlyn",
			want: GameState{Board: []string{"Vi", "Warwick"}, Shop: []string{"Caitlyn"}},
			ok:   true,
		},
		{
			name: "nothing useful",
			text: "tell me a joke",
			want: GameState{},
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Parse(tt.text, m)
			if ok != tt.ok {
				t.Fatalf("Parse(%q) ok = %v, want %v", tt.text, ok, tt.ok)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("Parse(%q) mismatch (-want +got):\n%s", tt.text, diff)
			}
		})
	}
}

func TestRoster(t *testing.T) {
	st := GameState{Board: []string{"Jinx"}, Bench: []string{"Vi", "Ekko"}}
	got := st.Roster()
	want := []string{"Jinx", "Vi", "Ekko"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Roster mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatPrompt(t *testing.T) {
	st := GameState{
		Stage: "4-2", Level: 7, Gold: 50, HasGold: true,
		Board: []string{"Jinx", "Vi"}, TargetComp: "snipers",
	}
	got := st.FormatPrompt()
	want := "Round: 4-2 | Level: 7 | Gold: 50 | Board: Jinx, Vi | Target composition: snipers"
	if got != want {
		t.Fatalf("FormatPrompt() = %q, want %q", got, want)
	}

	if empty := (GameState{}).FormatPrompt(); empty != "No game state information provided" {
		t.Fatalf("empty FormatPrompt() = %q", empty)
	}
}
