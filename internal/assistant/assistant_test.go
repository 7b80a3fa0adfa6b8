package assistant

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"tftnerd/internal/gamedata"
)

// fakeLLM records prompts and returns a canned answer.
type fakeLLM struct {
	answer  string
	err     error
	calls   int
	system  string
	prompts []string
}

func (f *fakeLLM) Complete(ctx context.Context, prompt string) (string, error) {
	return f.CompleteWithSystem(ctx, "", prompt)
}

func (f *fakeLLM) CompleteWithSystem(ctx context.Context, system, prompt string) (string, error) {
	f.calls++
	f.system = system
	f.prompts = append(f.prompts, prompt)
	return f.answer, f.err
}

// recordingSpeaker captures everything spoken.
type recordingSpeaker struct {
	spoken []string
}

func (r *recordingSpeaker) Speak(ctx context.Context, text string) error {
	r.spoken = append(r.spoken, text)
	return nil
}

func testStore(t *testing.T) *gamedata.Store {
	t.Helper()
	store := gamedata.NewStore(t.TempDir())
	require.NoError(t, store.SaveChampions([]gamedata.Champion{
		{Name: "Caitlyn", Cost: 1, Traits: []string{"enforcer", "sniper"}},
		{Name: "Vi", Cost: 1, Traits: []string{"enforcer"}},
		{Name: "Jinx", Cost: 4, Traits: []string{"rebel", "sniper"}},
		{Name: "Gangplank", Cost: 3, Traits: []string{"pirate"}},
		{Name: "Warwick", Cost: 2, Traits: []string{"brawler"}},
	}))
	require.NoError(t, store.SaveComps([]gamedata.Comp{
		{Name: "Enforcers", Champions: []string{"Caitlyn", "Vi"}},
		{Name: "Snipers", Champions: []string{"Caitlyn", "Jinx"}},
	}))
	require.NoError(t, store.Load())
	return store
}

func TestProcessQueryInventoryFastPath(t *testing.T) {
	client := &fakeLLM{answer: "should not be used"}
	speaker := &recordingSpeaker{}
	a := New(testStore(t), client, speaker)

	got, err := a.ProcessQuery(context.Background(),
		"I have caitlyn, vi and gangplank, what should I sell?")
	require.NoError(t, err)

	require.Contains(t, got, "Sell: Gangplank")
	require.Contains(t, got, "less than 50 gold")
	require.Zero(t, client.calls, "inventory questions must not reach the LLM")
	require.Equal(t, []string{got}, speaker.spoken)
}

func TestProcessQueryInventoryWithGold(t *testing.T) {
	a := New(testStore(t), &fakeLLM{}, nil)

	got, err := a.ProcessQuery(context.Background(),
		"i have 60 gold and i have warwick what should i sell")
	require.NoError(t, err)
	require.Contains(t, got, "Good job saving at least 50 gold")
}

func TestProcessQueryLLMPath(t *testing.T) {
	client := &fakeLLM{answer: "Roll down for Jinx."}
	speaker := &recordingSpeaker{}
	a := New(testStore(t), client, speaker)

	got, err := a.ProcessQuery(context.Background(),
		"I have 50 gold, level 7, with Jinx and Vi on my board. Should I reroll?")
	require.NoError(t, err)
	require.Equal(t, "Roll down for Jinx.", got)
	require.Equal(t, 1, client.calls)
	require.Contains(t, client.system, "Teamfight Tactics assistant")

	prompt := client.prompts[0]
	require.Contains(t, prompt, "DATA CONTEXT (JSON):")
	require.Contains(t, prompt, `"comps"`)
	require.Contains(t, prompt, "Gold: 50")
	require.Contains(t, prompt, "Board: Jinx, Vi")
	require.Contains(t, prompt, "USER QUESTION:")
	require.Equal(t, []string{"Roll down for Jinx."}, speaker.spoken)
}

func TestProcessQueryLLMError(t *testing.T) {
	client := &fakeLLM{err: errors.New("boom")}
	speaker := &recordingSpeaker{}
	a := New(testStore(t), client, speaker)

	_, err := a.ProcessQuery(context.Background(), "should I level up?")
	require.Error(t, err)
	require.Len(t, speaker.spoken, 1)
	require.Contains(t, speaker.spoken[0], "trouble connecting")
}

func TestProcessQueryEconFallbackOnLLMError(t *testing.T) {
	client := &fakeLLM{err: errors.New("boom")}
	speaker := &recordingSpeaker{}
	a := New(testStore(t), client, speaker)

	got, err := a.ProcessQuery(context.Background(),
		"i have 55 gold at level 8, should i reroll?")
	require.NoError(t, err)
	require.Contains(t, got, "interest cap")
	require.Contains(t, got, "level 8")
	require.Equal(t, []string{got}, speaker.spoken)
}

func TestProcessQueryEmpty(t *testing.T) {
	a := New(testStore(t), &fakeLLM{}, nil)
	_, err := a.ProcessQuery(context.Background(), "   ")
	require.Error(t, err)
}

func TestSellAdviceForResolvesTemplateNames(t *testing.T) {
	a := New(testStore(t), &fakeLLM{}, nil)

	// Template file stems are lowercase; advice should use canonical names.
	advice := a.SellAdviceFor(context.Background(), []string{"caitlyn", "gangplank"}, 20)
	require.Equal(t, []string{"Gangplank"}, advice.Sell)
	require.Equal(t, []string{"Caitlyn"}, advice.Keep)
}

func TestRefreshMatcherPicksUpNewChampions(t *testing.T) {
	store := testStore(t)
	a := New(store, &fakeLLM{}, nil)

	_, ok := a.Matcher().Best("Ekko")
	require.False(t, ok)

	require.NoError(t, store.SaveChampions([]gamedata.Champion{
		{Name: "Ekko", Cost: 3, Traits: []string{"rebel"}},
	}))
	require.NoError(t, store.Load())
	a.RefreshMatcher()

	hit, ok := a.Matcher().Best("Ekko")
	require.True(t, ok)
	require.Equal(t, "Ekko", hit.Name)
}

func TestInventoryRegex(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"i have vi and jinx what should i sell", "vi and jinx"},
		{"i have caitlyn, what should i sell?", "caitlyn"},
		{"what should i sell", ""},
		{"should i reroll", ""},
	}
	for _, tt := range tests {
		m := inventoryRe.FindStringSubmatch(tt.query)
		if tt.want == "" {
			require.Nil(t, m, "query %q should not match", tt.query)
			continue
		}
		require.NotNil(t, m, "query %q should match", tt.query)
		require.Equal(t, tt.want, strings.TrimSpace(m[1]))
	}
}
