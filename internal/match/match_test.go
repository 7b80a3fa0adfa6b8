package match

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

var testNames = []string{
	"Ashe", "Caitlyn", "Ekko", "Gangplank", "Jayce", "Jinx",
	"Miss Fortune", "Twisted Fate", "Vi", "Viktor", "Warwick",
}

func TestBest(t *testing.T) {
	m := NewMatcher(testNames)

	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{"exact", "Jinx", "Jinx", true},
		{"exact lowercase", "warwick", "Warwick", true},
		{"alias", "mf", "Miss Fortune", true},
		{"alias ww", "ww", "Warwick", true},
		{"prefix", "cait", "Caitlyn", true},
		{"ocr single typo", "jaycc", "Jayce", true},
		{"ocr two typos long name", "twisted fale", "Twisted Fate", true},
		{"too noisy", "qqqqqq", "", false},
		{"short token no fuzz", "vx", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := m.Best(tt.input)
			if ok != tt.ok {
				t.Fatalf("Best(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if ok && got.Name != tt.want {
				t.Fatalf("Best(%q) = %q (score %.2f), want %q", tt.input, got.Name, got.Score, tt.want)
			}
		})
	}
}

func TestBestScoreBounds(t *testing.T) {
	m := NewMatcher(testNames)
	for _, input := range []string{"jinx", "cait", "jaycc", "viktor"} {
		got, ok := m.Best(input)
		if !ok {
			t.Fatalf("Best(%q) unexpectedly failed", input)
		}
		if got.Score < 0 || got.Score > 1 {
			t.Fatalf("Best(%q) score %v out of [0,1]", input, got.Score)
		}
	}
}

func TestBestNeverInventsNames(t *testing.T) {
	m := NewMatcher(testNames)
	known := make(map[string]bool)
	for _, n := range testNames {
		known[n] = true
	}
	for _, input := range []string{"jinx", "mf", "cait", "warwik", "twisted fate"} {
		if got, ok := m.Best(input); ok && !known[got.Name] {
			t.Fatalf("Best(%q) returned unknown name %q", input, got.Name)
		}
	}
}

func TestBestEmptyDatabase(t *testing.T) {
	m := NewMatcher(nil)
	if _, ok := m.Best("jinx"); ok {
		t.Fatal("empty matcher should never match")
	}
	if got := m.ExtractAll("jinx and vi"); got != nil {
		t.Fatalf("empty matcher extracted %v", got)
	}
}

func TestExtractAll(t *testing.T) {
	m := NewMatcher(testNames)

	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "comma and conjunction",
			text: "jinx, vi and caitlyn",
			want: []string{"Jinx", "Vi", "Caitlyn"},
		},
		{
			name: "filler words stripped",
			text: "i have a jinx and also got warwick",
			want: []string{"Jinx", "Warwick"},
		},
		{
			name: "multi-word name survives",
			text: "miss fortune and twisted fate",
			want: []string{"Miss Fortune", "Twisted Fate"},
		},
		{
			name: "aliases resolve",
			text: "mf, ww & gp",
			want: []string{"Miss Fortune", "Warwick", "Gangplank"},
		},
		{
			name: "duplicates collapse",
			text: "jinx, jinx and jinx",
			want: []string{"Jinx"},
		},
		{
			name: "noise around a real name",
			text: "ekko something unrecognizable",
			want: []string{"Ekko"},
		},
		{
			name: "nothing matches",
			text: "blorbo and zzyzx",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.ExtractAll(tt.text)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("ExtractAll(%q) mismatch (-want +got):\n%s", tt.text, diff)
			}
		})
	}
}

func TestExtraAliasesIgnoredForUnknownNames(t *testing.T) {
	m := NewMatcher([]string{"Jinx"}, map[string]string{
		"j":     "Jinx",
		"ghost": "Nonexistent",
	})
	if got, ok := m.Best("j"); !ok || got.Name != "Jinx" {
		t.Fatalf("alias j should resolve to Jinx, got %v ok=%v", got, ok)
	}
	if _, ok := m.Best("ghost"); ok {
		t.Fatal("alias to a name outside the database must not resolve")
	}
}
