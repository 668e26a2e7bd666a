// Package script classifies the characters of a text by Unicode script and
// general category. It backs the script composition report.
package script

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/runenames"
)

// MaxExamples is how many example words are kept per character.
const MaxExamples = 3

// exampleRunes truncates example words.
const exampleRunes = 10

// Classifier analyzes the script composition of a text.
type Classifier interface {
	Analyze(text string) *Analysis
}

// CharInfo describes one distinct character.
type CharInfo struct {
	Count    int      `json:"count"`
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Examples []string `json:"ex,omitempty"`
}

// ScriptCount is the number of characters attributed to one script.
type ScriptCount struct {
	Count int `json:"count"`
}

// Analysis is the composition of a text.
type Analysis struct {
	Characters   int                             `json:"n_characters"`
	Lines        int                             `json:"n_lines"`
	LetterScript map[string]ScriptCount          `json:"letter-script"`
	NumberScript map[string]ScriptCount          `json:"number-script"`
	Blocks       map[string]map[string]*CharInfo `json:"block"`
}

func newAnalysis() *Analysis {
	return &Analysis{
		LetterScript: make(map[string]ScriptCount),
		NumberScript: make(map[string]ScriptCount),
		Blocks:       make(map[string]map[string]*CharInfo),
	}
}

// Map returns the analysis as nested JSON-compatible maps.
func (a *Analysis) Map() map[string]any {
	scripts := func(m map[string]ScriptCount) map[string]any {
		out := make(map[string]any, len(m))
		for k, v := range m {
			out[k] = map[string]any{"count": v.Count}
		}
		return out
	}

	blocks := make(map[string]any, len(a.Blocks))
	for name, chars := range a.Blocks {
		table := make(map[string]any, len(chars))
		for ch, info := range chars {
			entry := map[string]any{
				"count": info.Count,
				"id":    info.ID,
				"name":  info.Name,
			}
			if len(info.Examples) > 0 {
				entry["ex"] = slices.Clone(info.Examples)
			}
			table[ch] = entry
		}
		blocks[name] = table
	}

	return map[string]any{
		"n_characters":  a.Characters,
		"n_lines":       a.Lines,
		"letter-script": scripts(a.LetterScript),
		"number-script": scripts(a.NumberScript),
		"block":         blocks,
	}
}

// BlockNames returns block names in sorted order.
func (a *Analysis) BlockNames() []string {
	return slices.Sorted(maps.Keys(a.Blocks))
}

// UnicodeClassifier classifies with the standard library Unicode tables and
// names characters with the Unicode character database.
type UnicodeClassifier struct {
	scriptNames []string
}

// NewClassifier returns the default classifier.
func NewClassifier() *UnicodeClassifier {
	return &UnicodeClassifier{scriptNames: slices.Sorted(maps.Keys(unicode.Scripts))}
}

// Analyze implements Classifier. An empty text yields a zero analysis.
func (c *UnicodeClassifier) Analyze(text string) *Analysis {
	a := newAnalysis()
	if text == "" {
		return a
	}

	a.Lines = strings.Count(text, "\n")
	if !strings.HasSuffix(text, "\n") {
		a.Lines++
	}

	scriptOf := make(map[rune]string)
	for line := range strings.Lines(text) {
		for _, word := range strings.Fields(line) {
			c.noteExamples(a, word, scriptOf)
		}
		for _, r := range line {
			if r == '\n' || r == '\r' {
				continue
			}
			a.Characters++
			sc := c.lookup(r, scriptOf)
			switch {
			case unicode.IsLetter(r):
				a.LetterScript[sc] = ScriptCount{Count: a.LetterScript[sc].Count + 1}
			case unicode.IsNumber(r):
				a.NumberScript[sc] = ScriptCount{Count: a.NumberScript[sc].Count + 1}
			}
			info := c.info(a, r, sc)
			info.Count++
		}
	}
	return a
}

// noteExamples records word as an example for each distinct character in it.
func (c *UnicodeClassifier) noteExamples(a *Analysis, word string, scriptOf map[rune]string) {
	example := truncate(word, exampleRunes)
	seen := make(map[rune]bool)
	for _, r := range word {
		if seen[r] {
			continue
		}
		seen[r] = true
		info := c.info(a, r, c.lookup(r, scriptOf))
		if len(info.Examples) < MaxExamples && !slices.Contains(info.Examples, example) {
			info.Examples = append(info.Examples, example)
		}
	}
}

// info returns the table entry for r, creating it on first sight.
func (c *UnicodeClassifier) info(a *Analysis, r rune, sc string) *CharInfo {
	block := BlockName(r, sc)
	chars, ok := a.Blocks[block]
	if !ok {
		chars = make(map[string]*CharInfo)
		a.Blocks[block] = chars
	}
	key := string(r)
	ci, ok := chars[key]
	if !ok {
		ci = &CharInfo{ID: CodePoint(r), Name: Name(r)}
		chars[key] = ci
	}
	return ci
}

func (c *UnicodeClassifier) lookup(r rune, cache map[rune]string) string {
	if sc, ok := cache[r]; ok {
		return sc
	}
	sc := c.scriptOf(r)
	cache[r] = sc
	return sc
}

// scriptOf returns the Unicode script name of r, or "Unknown".
func (c *UnicodeClassifier) scriptOf(r rune) string {
	if r < utf8.RuneSelf {
		if unicode.IsLetter(r) {
			return "Latin"
		}
		return "Common"
	}
	for _, name := range c.scriptNames {
		if unicode.Is(unicode.Scripts[name], r) {
			return name
		}
	}
	return "Unknown"
}

// BlockName groups a character by script and general category, for example
// "LATIN LETTER" or "COMMON PUNCTUATION".
func BlockName(r rune, script string) string {
	return strings.ToUpper(script) + " " + Category(r)
}

// Category returns a coarse general category name for r.
func Category(r rune) string {
	switch {
	case unicode.IsLetter(r):
		return "LETTER"
	case unicode.IsMark(r):
		return "MARK"
	case unicode.IsNumber(r):
		return "NUMBER"
	case unicode.IsPunct(r):
		return "PUNCTUATION"
	case unicode.IsSymbol(r):
		return "SYMBOL"
	case unicode.Is(unicode.Zs, r), r == '\t':
		return "SPACE"
	case unicode.Is(unicode.Cf, r):
		return "FORMAT"
	case unicode.IsControl(r):
		return "CONTROL"
	default:
		return "OTHER"
	}
}

// CodePoint formats r as "U+XXXX".
func CodePoint(r rune) string {
	return fmt.Sprintf("U+%04X", r)
}

// Name returns the Unicode character name of r, or its code point when the
// database has no name.
func Name(r rune) string {
	if n := runenames.Name(r); n != "" && !strings.HasPrefix(n, "<") {
		return n
	}
	return CodePoint(r)
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
