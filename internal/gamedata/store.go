// Package gamedata owns the champion, trait, and team-comp reference data.
// Everything here is ephemeral JSON: the scraper regenerates the files on
// each run and the store reloads them, nothing survives beyond that.
package gamedata

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"tftnerd/internal/logging"
)

// ErrDataMissing indicates a required data file does not exist yet.
var ErrDataMissing = errors.New("game data file missing")

// Champion is a purchasable unit with its shop cost and trait memberships.
type Champion struct {
	Name   string   `json:"name"`
	Cost   int      `json:"cost"`
	Traits []string `json:"traits"`
}

// Trait is a named synergy with its activation break thresholds.
type Trait struct {
	Name   string `json:"name"`
	Breaks []int  `json:"breaks"`
}

// Comp is a named target team composition.
type Comp struct {
	Name      string   `json:"name"`
	Champions []string `json:"champions"`
}

// Store loads and serves the reference JSON files for one data directory.
type Store struct {
	dir           string
	championsFile string
	traitsFile    string
	compsFile     string

	mu        sync.RWMutex
	champions []Champion
	traits    []Trait
	comps     []Comp
	byName    map[string]Champion
}

// Option configures a Store.
type Option func(*Store)

// WithFiles overrides the default file names inside the data directory.
func WithFiles(champions, traits, comps string) Option {
	return func(s *Store) {
		if champions != "" {
			s.championsFile = champions
		}
		if traits != "" {
			s.traitsFile = traits
		}
		if comps != "" {
			s.compsFile = comps
		}
	}
}

// NewStore creates a store rooted at dir. Call Load before reading.
func NewStore(dir string, opts ...Option) *Store {
	s := &Store{
		dir:           dir,
		championsFile: "champions.json",
		traitsFile:    "traits.json",
		compsFile:     "comps.json",
		byName:        make(map[string]Champion),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dir returns the data directory.
func (s *Store) Dir() string { return s.dir }

// Load reads all three data files. Champions and comps are required; traits
// are optional since older scrapes did not emit them.
func (s *Store) Load() error {
	var champions []Champion
	if err := readJSON(s.path(s.championsFile), &champions); err != nil {
		return err
	}
	var comps []Comp
	if err := readJSON(s.path(s.compsFile), &comps); err != nil {
		return err
	}
	var traits []Trait
	if err := readJSON(s.path(s.traitsFile), &traits); err != nil && !errors.Is(err, ErrDataMissing) {
		return err
	}

	byName := make(map[string]Champion, len(champions))
	for _, c := range champions {
		byName[strings.ToLower(c.Name)] = c
	}

	s.mu.Lock()
	s.champions = champions
	s.traits = traits
	s.comps = comps
	s.byName = byName
	s.mu.Unlock()

	logging.Data("loaded %d champions, %d traits, %d comps from %s",
		len(champions), len(traits), len(comps), s.dir)
	return nil
}

// Champions returns the loaded champion list.
func (s *Store) Champions() []Champion {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.champions
}

// Traits returns the loaded trait list.
func (s *Store) Traits() []Trait {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.traits
}

// Comps returns the loaded comp list.
func (s *Store) Comps() []Comp {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.comps
}

// Lookup finds a champion by canonical name, case-insensitively.
func (s *Store) Lookup(name string) (Champion, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.byName[strings.ToLower(name)]
	return c, ok
}

// Names returns all canonical champion names.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.champions))
	for _, c := range s.champions {
		names = append(names, c.Name)
	}
	return names
}

// Aliases derives a lookup table from input alias to canonical name:
// the lowercase name plus a space-stripped variant for multi-word names.
func (s *Store) Aliases() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	aliases := make(map[string]string, len(s.champions)*2)
	for _, c := range s.champions {
		lower := strings.ToLower(c.Name)
		aliases[lower] = c.Name
		if strings.Contains(lower, " ") {
			aliases[strings.ReplaceAll(lower, " ", "")] = c.Name
		}
	}
	return aliases
}

// SaveChampions writes the champion list, sorted by name.
func (s *Store) SaveChampions(champions []Champion) error {
	sort.Slice(champions, func(i, j int) bool { return champions[i].Name < champions[j].Name })
	return s.writeJSON(s.championsFile, champions)
}

// SaveTraits writes the trait list, sorted by name.
func (s *Store) SaveTraits(traits []Trait) error {
	sort.Slice(traits, func(i, j int) bool { return traits[i].Name < traits[j].Name })
	return s.writeJSON(s.traitsFile, traits)
}

// SaveComps writes the comp list.
func (s *Store) SaveComps(comps []Comp) error {
	return s.writeJSON(s.compsFile, comps)
}

func (s *Store) path(file string) string {
	return filepath.Join(s.dir, file)
}

func (s *Store) writeJSON(file string, v interface{}) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", file, err)
	}
	path := s.path(file)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	logging.Data("wrote %s", path)
	return nil
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrDataMissing, path)
		}
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}
