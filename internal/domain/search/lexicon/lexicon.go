// Package lexicon holds the static vocabulary tables used to normalize search queries.
package lexicon

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Substitution rewrites every occurrence of From into To.
type Substitution struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// Lexicon is an immutable set of vocabulary tables. Order is significant:
// substitutions apply in sequence and colors match first-in-list.
type Lexicon struct {
	colloquial     []Substitution
	misspellings   []Substitution
	colors         []string
	cheapWords     []string
	expensiveWords []string
	sentimentSlang []string
}

// Default returns the built-in Hinglish/English vocabulary.
func Default() *Lexicon {
	return &Lexicon{
		colloquial: []Substitution{
			{"sasta", "cheap"},
			{"sastha", "cheap"},
			{"mehenga", "expensive"},
			{"accha", "good"},
			{"acha", "good"},
			{"best", "best"},
			{"latest", "latest"},
			{"naya", "new"},
			{"purana", "old"},
			{"bada", "big"},
			{"chota", "small"},
		},
		misspellings: []Substitution{
			{"ifone", "iphone"},
			{"ifonn", "iphone"},
			{"aifone", "iphone"},
			{"sumsung", "samsung"},
			{"samsang", "samsung"},
			{"smasung", "samsung"},
			{"leptop", "laptop"},
			{"hedphone", "headphone"},
		},
		colors: []string{
			"red", "blue", "black", "white", "green", "yellow",
			"pink", "purple", "gold", "silver", "grey", "gray",
		},
		cheapWords:     []string{"sasta", "sastha", "cheap", "budget", "affordable"},
		expensiveWords: []string{"mehenga", "expensive", "premium", "luxury"},
		sentimentSlang: []string{"sasta", "sastha", "mehenga"},
	}
}

// Colloquial returns the informal-term substitutions.
func (l *Lexicon) Colloquial() []Substitution { return cloneSubs(l.colloquial) }

// Misspellings returns the spelling corrections.
func (l *Lexicon) Misspellings() []Substitution { return cloneSubs(l.misspellings) }

// Colors returns the recognized color names in match priority order.
func (l *Lexicon) Colors() []string { return cloneStrings(l.colors) }

// CheapWords returns the words signalling a low-price preference.
func (l *Lexicon) CheapWords() []string { return cloneStrings(l.cheapWords) }

// ExpensiveWords returns the words signalling a premium preference.
func (l *Lexicon) ExpensiveWords() []string { return cloneStrings(l.expensiveWords) }

// SentimentSlang returns colloquial sentiment spellings stripped from cleaned text.
func (l *Lexicon) SentimentSlang() []string { return cloneStrings(l.sentimentSlang) }

// file mirrors the YAML layout of a lexicon override file.
type file struct {
	Colloquial     []Substitution `yaml:"colloquial"`
	Misspellings   []Substitution `yaml:"misspellings"`
	Colors         []string       `yaml:"colors"`
	CheapWords     []string       `yaml:"cheap_words"`
	ExpensiveWords []string       `yaml:"expensive_words"`
	SentimentSlang []string       `yaml:"sentiment_slang"`
}

// Load reads a YAML file and overlays it on Default. Each non-empty section
// replaces the corresponding default table.
func Load(path string) (*Lexicon, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read lexicon %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a YAML lexicon document and overlays it on Default.
func Parse(data []byte) (*Lexicon, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse lexicon: %w", err)
	}

	l := Default()
	if len(f.Colloquial) > 0 {
		if err := validateSubs("colloquial", f.Colloquial); err != nil {
			return nil, err
		}
		l.colloquial = f.Colloquial
	}
	if len(f.Misspellings) > 0 {
		if err := validateSubs("misspellings", f.Misspellings); err != nil {
			return nil, err
		}
		l.misspellings = f.Misspellings
	}
	if len(f.Colors) > 0 {
		l.colors = f.Colors
	}
	if len(f.CheapWords) > 0 {
		l.cheapWords = f.CheapWords
	}
	if len(f.ExpensiveWords) > 0 {
		l.expensiveWords = f.ExpensiveWords
	}
	if len(f.SentimentSlang) > 0 {
		l.sentimentSlang = f.SentimentSlang
	}
	return l, nil
}

func validateSubs(section string, subs []Substitution) error {
	for i, s := range subs {
		if s.From == "" {
			return fmt.Errorf("lexicon %s[%d]: from is required", section, i)
		}
	}
	return nil
}

func cloneSubs(s []Substitution) []Substitution {
	return append([]Substitution(nil), s...)
}

func cloneStrings(s []string) []string {
	return append([]string(nil), s...)
}
