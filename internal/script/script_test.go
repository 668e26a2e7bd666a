package script

import (
	"encoding/json"
	"slices"
	"testing"
)

func TestAnalyzeEmpty(t *testing.T) {
	a := NewClassifier().Analyze("")
	if a.Characters != 0 || a.Lines != 0 {
		t.Errorf("Characters/Lines = %d/%d, want 0/0", a.Characters, a.Lines)
	}
	if len(a.Blocks) != 0 || len(a.LetterScript) != 0 {
		t.Errorf("empty text produced tables: %+v", a)
	}

	m := a.Map()
	for _, key := range []string{"n_characters", "n_lines", "letter-script", "number-script", "block"} {
		if _, ok := m[key]; !ok {
			t.Errorf("Map() missing key %q", key)
		}
	}
}

func TestAnalyzeCounts(t *testing.T) {
	a := NewClassifier().Analyze("Ab 12,\nΩμ!\n")

	if a.Characters != 9 {
		t.Errorf("Characters = %d, want 9", a.Characters)
	}
	if a.Lines != 2 {
		t.Errorf("Lines = %d, want 2", a.Lines)
	}
	if got := a.LetterScript["Latin"].Count; got != 2 {
		t.Errorf("LetterScript[Latin] = %d, want 2", got)
	}
	if got := a.LetterScript["Greek"].Count; got != 2 {
		t.Errorf("LetterScript[Greek] = %d, want 2", got)
	}
	if got := a.NumberScript["Common"].Count; got != 2 {
		t.Errorf("NumberScript[Common] = %d, want 2", got)
	}

	omega := a.Blocks["GREEK LETTER"]["Ω"]
	if omega == nil {
		t.Fatalf("GREEK LETTER block missing Ω: %v", a.BlockNames())
	}
	if omega.ID != "U+03A9" {
		t.Errorf("Ω ID = %q, want U+03A9", omega.ID)
	}
	if omega.Name != "GREEK CAPITAL LETTER OMEGA" {
		t.Errorf("Ω Name = %q", omega.Name)
	}
	if !slices.Equal(omega.Examples, []string{"Ωμ!"}) {
		t.Errorf("Ω Examples = %q, want [Ωμ!]", omega.Examples)
	}

	comma := a.Blocks["COMMON PUNCTUATION"][","]
	if comma == nil || comma.Count != 1 {
		t.Errorf("comma entry = %+v, want count 1", comma)
	}
	if space := a.Blocks["COMMON SPACE"][" "]; space == nil || space.Count != 1 {
		t.Errorf("space entry = %+v, want count 1", space)
	}
}

func TestAnalyzeLinesWithoutTrailingNewline(t *testing.T) {
	a := NewClassifier().Analyze("a\nb")
	if a.Lines != 2 {
		t.Errorf("Lines = %d, want 2", a.Lines)
	}
	if a.Characters != 2 {
		t.Errorf("Characters = %d, want 2", a.Characters)
	}
}

func TestExamplesBounded(t *testing.T) {
	a := NewClassifier().Analyze("ab ac ad ae af extraordinarily")
	info := a.Blocks["LATIN LETTER"]["a"]
	if info == nil {
		t.Fatal("missing entry for a")
	}
	if len(info.Examples) != MaxExamples {
		t.Errorf("len(Examples) = %d, want %d", len(info.Examples), MaxExamples)
	}

	x := a.Blocks["LATIN LETTER"]["x"]
	if x == nil || !slices.Equal(x.Examples, []string{"extraordin"}) {
		t.Errorf("x Examples = %v, want [extraordin]", x)
	}
}

func TestName(t *testing.T) {
	tests := []struct {
		r    rune
		want string
	}{
		{'A', "LATIN CAPITAL LETTER A"},
		{'“', "LEFT DOUBLE QUOTATION MARK"},
		{'\x07', "U+0007"},
	}
	for _, tt := range tests {
		if got := Name(tt.r); got != tt.want {
			t.Errorf("Name(%q) = %q, want %q", tt.r, got, tt.want)
		}
	}
}

func TestCategory(t *testing.T) {
	tests := []struct {
		r    rune
		want string
	}{
		{'a', "LETTER"},
		{'\u0301', "MARK"},
		{'٣', "NUMBER"},
		{'«', "PUNCTUATION"},
		{'+', "SYMBOL"},
		{' ', "SPACE"},
		{'\u200D', "FORMAT"},
		{'\x07', "CONTROL"},
	}
	for _, tt := range tests {
		if got := Category(tt.r); got != tt.want {
			t.Errorf("Category(%q) = %q, want %q", tt.r, got, tt.want)
		}
	}
}

func TestMapIsJSON(t *testing.T) {
	a := NewClassifier().Analyze("In the beginning 1:1\n")
	data, err := json.Marshal(a.Map())
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var back Analysis
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if back.Characters != a.Characters || back.Lines != a.Lines {
		t.Errorf("decoded counts = %d/%d, want %d/%d", back.Characters, back.Lines, a.Characters, a.Lines)
	}
	if len(back.Blocks) != len(a.Blocks) {
		t.Errorf("decoded blocks = %d, want %d", len(back.Blocks), len(a.Blocks))
	}
}
