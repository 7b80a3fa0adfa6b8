package scraper

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/net/html"

	"tftnerd/internal/gamedata"
)

func mustParse(t *testing.T, src string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return doc
}

const championsPage = `
<html><body>
<div class="champions-wrap__details">
  <div class="champions-wrap__details__champion__info">
    <span class="name">Jinx</span>
    <span class="cost">4G</span>
    <img src="/images/traits/rebel.png">
    <img src="/images/traits/sniper.png">
  </div>
</div>
<div class="champions-wrap__details">
  <div class="champions-wrap__details__champion__info">
    <span class="name">Vi</span>
    <span class="cost">1G</span>
    <img src="/images/traits/enforcer.png">
  </div>
</div>
<div class="champions-wrap__details">
  <div>no info div, skipped</div>
</div>
<div class="synergies-wrap">
  <div class="origins">
    <div class="details">
      <div class="details__pic"><img src="/images/traits/rebel.png"></div>
      <ul class="bbcode_list"><li>3 units: buff</li><li>6 units: big buff</li></ul>
    </div>
  </div>
  <div class="classes">
    <div class="details">
      <div class="details__pic"><img src="/images/traits/sniper.png"></div>
    </div>
  </div>
</div>
</body></html>`

func TestParseChampionsPage(t *testing.T) {
	champions, traits := parseChampionsPage(mustParse(t, championsPage))

	wantChampions := []gamedata.Champion{
		{Name: "Jinx", Cost: 4, Traits: []string{"rebel", "sniper"}},
		{Name: "Vi", Cost: 1, Traits: []string{"enforcer"}},
	}
	if diff := cmp.Diff(wantChampions, champions); diff != "" {
		t.Errorf("champions mismatch (-want +got):\n%s", diff)
	}

	wantTraits := []gamedata.Trait{
		{Name: "rebel", Breaks: []int{3, 6}},
		{Name: "sniper", Breaks: []int{1}},
	}
	if diff := cmp.Diff(wantTraits, traits); diff != "" {
		t.Errorf("traits mismatch (-want +got):\n%s", diff)
	}
}

func TestParseCost(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"3G", 3},
		{"1G", 1},
		{" 5G ", 5},
		{"7", 7},
		{"", 0},
		{"free", 0},
	}
	for _, tt := range tests {
		if got := parseCost(tt.in); got != tt.want {
			t.Errorf("parseCost(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

const compsIndexPage = `
<html><body>
<div class="comps">
  <a class="tft-row" href="/teamfight-tactics/team-comps/enforcer-rush-123">Enforcer Rush</a>
  <a class="tft-row" href="/teamfight-tactics/team-comps/sniper-squad-456">Sniper Squad</a>
  <a class="tft-row" href="/teamfight-tactics/team-comps/enforcer-rush-123">dup</a>
  <a class="tft-row" href="/guides/unrelated">not a comp</a>
  <a href="/teamfight-tactics/team-comps/no-row-class">wrong class</a>
</div>
</body></html>`

func TestParseCompLinks(t *testing.T) {
	got := parseCompLinks(mustParse(t, compsIndexPage), "https://example.com")
	want := []string{
		"https://example.com/teamfight-tactics/team-comps/enforcer-rush-123",
		"https://example.com/teamfight-tactics/team-comps/sniper-squad-456",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("links mismatch (-want +got):\n%s", diff)
	}
}

const compDetailPage = `
<html><head><title>fallback title</title></head><body>
<h1 class="list-title">Enforcer Rush</h1>
<div id="tier__grid">
  <div class="unit"><div class="name">Vi</div></div>
  <div class="unit"><div class="name">Caitlyn</div></div>
  <div class="unit"><div class="name">Vi</div></div>
  <div class="unit"><div class="name"></div></div>
</div>
</body></html>`

const compDetailLinkFallback = `
<html><head><title>Sniper Squad - TFT</title></head><body>
<a href="/teamfight-tactics/champions/caitlyn">Caitlyn</a>
<a href="/teamfight-tactics/champions/jinx"><img src="x.png" alt="Jinx"></a>
<a href="/teamfight-tactics/items/bow">Recurve Bow</a>
</body></html>`

func TestParseCompPage(t *testing.T) {
	got := parseCompPage(mustParse(t, compDetailPage))
	want := gamedata.Comp{Name: "Enforcer Rush", Champions: []string{"Vi", "Caitlyn"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("comp mismatch (-want +got):\n%s", diff)
	}
}

func TestParseCompPageLinkFallback(t *testing.T) {
	got := parseCompPage(mustParse(t, compDetailLinkFallback))
	want := gamedata.Comp{Name: "Sniper Squad - TFT", Champions: []string{"Caitlyn", "Jinx"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("comp mismatch (-want +got):\n%s", diff)
	}
}
