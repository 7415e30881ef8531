package query

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/kailas-cloud/shopdex/internal/domain/search/lexicon"
)

var (
	pricePattern   = regexp.MustCompile(`(\d+)(k)?\s*(rupees?|rs\.?|inr)?`)
	storagePattern = regexp.MustCompile(`(\d+)\s*(gb|tb)`)
)

// Parser interprets raw queries using an injected lexicon. Safe for concurrent use.
type Parser struct {
	lex            *lexicon.Lexicon
	colloquial     []lexicon.Substitution
	misspellings   []lexicon.Substitution
	colors         []string
	cheapWords     []string
	expensiveWords []string
	stripWords     []string
	slangPattern   *regexp.Regexp

	storageAwarePrices bool
}

// NewParser creates a Parser. A nil lexicon selects lexicon.Default().
func NewParser(lex *lexicon.Lexicon) *Parser {
	if lex == nil {
		lex = lexicon.Default()
	}
	p := &Parser{
		lex:            lex,
		colloquial:     lex.Colloquial(),
		misspellings:   lex.Misspellings(),
		colors:         lex.Colors(),
		cheapWords:     lex.CheapWords(),
		expensiveWords: lex.ExpensiveWords(),
	}

	slang := lex.SentimentSlang()
	isSlang := make(map[string]bool, len(slang))
	quoted := make([]string, 0, len(slang))
	for _, s := range slang {
		isSlang[s] = true
		quoted = append(quoted, regexp.QuoteMeta(s))
	}
	for _, words := range [][]string{p.cheapWords, p.expensiveWords} {
		for _, w := range words {
			if w != "" && !isSlang[w] {
				p.stripWords = append(p.stripWords, w)
			}
		}
	}
	if len(quoted) > 0 {
		p.slangPattern = regexp.MustCompile(`\b(` + strings.Join(quoted, "|") + `)\b`)
	}
	return p
}

// WithStorageAwarePrices makes price extraction skip digit runs followed by
// gb/tb, so "256gb" is a storage size rather than a price. Off by default:
// the first number in the query is the price target.
func (p *Parser) WithStorageAwarePrices(enabled bool) *Parser {
	p.storageAwarePrices = enabled
	return p
}

// Lexicon returns the vocabulary the parser was built with.
func (p *Parser) Lexicon() *lexicon.Lexicon { return p.lex }

// Parse interprets a raw query. It never fails; empty input yields empty tokens.
func (p *Parser) Parse(raw string) ParsedQuery {
	text := strings.ToLower(strings.TrimSpace(raw))

	parsed := ParsedQuery{
		OriginalQuery:   raw,
		PriceIntent:     p.extractPrice(text),
		CheapIntent:     containsAny(text, p.cheapWords),
		ExpensiveIntent: containsAny(text, p.expensiveWords),
		Color:           firstContained(text, p.colors),
		Storage:         extractStorage(text),
	}

	text = substitute(text, p.colloquial)
	text = substitute(text, p.misspellings)

	text = p.stripPrices(text)
	for _, w := range p.stripWords {
		text = strings.ReplaceAll(text, w, "")
	}
	if p.slangPattern != nil {
		text = p.slangPattern.ReplaceAllString(text, "")
	}

	parsed.CleanedText = strings.Join(strings.Fields(text), " ")
	parsed.Tokens = Tokenize(parsed.CleanedText)
	return parsed
}

// Tokenize splits text into lowercase words on any rune that is not a letter or digit.
func Tokenize(text string) []string {
	tokens := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if tokens == nil {
		return []string{}
	}
	return tokens
}

// extractPrice returns the first price mention.
func (p *Parser) extractPrice(text string) *PriceIntent {
	for _, m := range pricePattern.FindAllStringSubmatchIndex(text, -1) {
		if p.skipPrice(text, m[3]) {
			continue
		}
		n, err := strconv.ParseFloat(text[m[2]:m[3]], 64)
		if err != nil {
			continue
		}
		if m[4] >= 0 {
			n *= 1000
		}
		return &PriceIntent{TargetValue: n, MatchType: MatchExact}
	}
	return nil
}

func (p *Parser) stripPrices(text string) string {
	matches := pricePattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return text
	}
	var b strings.Builder
	last := 0
	for _, m := range matches {
		if p.skipPrice(text, m[3]) {
			continue
		}
		b.WriteString(text[last:m[0]])
		b.WriteByte(' ')
		last = m[1]
	}
	b.WriteString(text[last:])
	return b.String()
}

func (p *Parser) skipPrice(text string, end int) bool {
	return p.storageAwarePrices && isStorageSize(text, end)
}

// isStorageSize reports whether the digit run ending at end is followed by a storage unit.
func isStorageSize(text string, end int) bool {
	rest := strings.TrimLeft(text[end:], " \t")
	return strings.HasPrefix(rest, "gb") || strings.HasPrefix(rest, "tb")
}

func extractStorage(text string) string {
	m := storagePattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return m[1] + strings.ToUpper(m[2])
}

func substitute(text string, subs []lexicon.Substitution) string {
	for _, s := range subs {
		text = strings.ReplaceAll(text, s.From, s.To)
	}
	return text
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if w != "" && strings.Contains(text, w) {
			return true
		}
	}
	return false
}

func firstContained(text string, candidates []string) string {
	for _, c := range candidates {
		if c != "" && strings.Contains(text, c) {
			return c
		}
	}
	return ""
}
