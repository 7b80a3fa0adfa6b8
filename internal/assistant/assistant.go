// Package assistant is the decision layer: it routes player questions either
// through the deterministic rules engine or through the LLM with the full
// data context, and vocalizes whatever comes back.
package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"tftnerd/internal/gamedata"
	"tftnerd/internal/llm"
	"tftnerd/internal/logging"
	"tftnerd/internal/match"
	"tftnerd/internal/rules"
	"tftnerd/internal/state"
	"tftnerd/internal/tts"
)

const systemPrompt = "You are a Teamfight Tactics assistant. " +
	"You know the player's current champions and gold from JSON, " +
	"and the list of common team comps with their units. " +
	"Answer any question dynamically based on that data, and be concise. " +
	"Provide strategic advice about team composition, economy management, " +
	"and positioning when relevant."

// inventoryRe is the fast-path question that never needs the LLM.
var inventoryRe = regexp.MustCompile(`i have (.+?)[,.!?]?\s*what should i sell`)

// econRe marks questions the rules engine can answer by itself when the
// LLM is unreachable.
var econRe = regexp.MustCompile(`reroll|roll down|level|interest|econom`)

// Assistant answers player questions from the loaded reference data.
type Assistant struct {
	store   *gamedata.Store
	client  llm.LLMClient
	speaker tts.Speaker

	mu      sync.RWMutex
	matcher *match.Matcher
}

// New creates an assistant. The store must already be loaded.
func New(store *gamedata.Store, client llm.LLMClient, speaker tts.Speaker) *Assistant {
	if speaker == nil {
		speaker = tts.NopSpeaker{}
	}
	a := &Assistant{store: store, client: client, speaker: speaker}
	a.RefreshMatcher()
	return a
}

// RefreshMatcher rebuilds the fuzzy matcher from the store. Call after a
// data reload.
func (a *Assistant) RefreshMatcher() {
	m := match.NewMatcher(a.store.Names(), a.store.Aliases())
	a.mu.Lock()
	a.matcher = m
	a.mu.Unlock()
}

// Matcher returns the current fuzzy matcher.
func (a *Assistant) Matcher() *match.Matcher {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.matcher
}

// ProcessQuery answers one player question. Inventory questions are decided
// by the rules engine alone; everything else goes to the LLM with the data
// context attached. The answer is spoken as well as returned.
func (a *Assistant) ProcessQuery(ctx context.Context, query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", fmt.Errorf("empty query")
	}
	logging.Get(logging.CategoryChat).Info("query: %s", truncate(query, 100))

	lower := strings.ToLower(query)
	st, _ := state.Parse(query, a.Matcher())

	if m := inventoryRe.FindStringSubmatch(lower); m != nil {
		roster := a.Matcher().ExtractAll(m[1])
		advice := rules.SellAdvice(a.store.Champions(), a.store.Comps(), roster, st.Gold)
		a.speak(ctx, advice.Text)
		return advice.Text, nil
	}

	prompt, err := a.buildPrompt(st, query)
	if err != nil {
		return "", err
	}
	answer, err := a.client.CompleteWithSystem(ctx, systemPrompt, prompt)
	if err != nil {
		// Economy questions with a known gold count still get a useful
		// answer when the LLM is down.
		if st.HasGold && econRe.MatchString(lower) {
			fallback := rules.EconAdvice(st.Gold, st.Level, st.Stage)
			logging.Get(logging.CategoryChat).Warn("llm failed, using econ rules: %v", err)
			a.speak(ctx, fallback)
			return fallback, nil
		}
		a.speak(ctx, "Sorry, I'm having trouble connecting to the AI service.")
		return "", fmt.Errorf("complete query: %w", err)
	}
	a.speak(ctx, answer)
	return answer, nil
}

// SellAdviceFor runs the rules engine directly over a known roster. Used by
// the bench reader path where champions come from the screen, not from text.
func (a *Assistant) SellAdviceFor(ctx context.Context, roster []string, gold int) rules.Advice {
	resolved := make([]string, 0, len(roster))
	for _, name := range roster {
		if hit, ok := a.Matcher().Best(name); ok {
			resolved = append(resolved, hit.Name)
		} else {
			resolved = append(resolved, name)
		}
	}
	advice := rules.SellAdvice(a.store.Champions(), a.store.Comps(), resolved, gold)
	a.speak(ctx, advice.Text)
	return advice
}

// dataContext is the JSON blob the LLM reasons over.
type dataContext struct {
	Champions []gamedata.Champion `json:"champions"`
	Comps     []gamedata.Comp     `json:"comps"`
	GameState string              `json:"game_state"`
}

func (a *Assistant) buildPrompt(st state.GameState, query string) (string, error) {
	payload := dataContext{
		Champions: a.store.Champions(),
		Comps:     a.store.Comps(),
		GameState: st.FormatPrompt(),
	}
	blob, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal data context: %w", err)
	}
	return fmt.Sprintf("DATA CONTEXT (JSON):\n%s\n\nUSER QUESTION:\n%s", blob, query), nil
}

func (a *Assistant) speak(ctx context.Context, text string) {
	if err := a.speaker.Speak(ctx, text); err != nil {
		logging.Get(logging.CategoryTTS).Warn("speak failed: %v", err)
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
