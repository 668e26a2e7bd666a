// Package canon holds the fixed 66-book Protestant canon used for completion
// statistics: USFM book codes, display names, expected verse counts and the
// Old/New Testament partitions.
//
// The tables are read-only process-wide data. Accessors return copies so callers
// cannot mutate them.
package canon

// Testament identifies one of the two fixed partitions of the canon.
type Testament string

// Testament constants.
const (
	OldTestament Testament = "OT"
	NewTestament Testament = "NT"
)

// Book describes one canonical book.
type Book struct {
	// Code is the three-character USFM book code (e.g., "GEN", "1CO").
	Code string `json:"code"`

	// Name is the English display name.
	Name string `json:"name"`

	// Verses is the expected number of verses in a complete translation.
	Verses int `json:"verses"`

	// Testament is the partition this book belongs to.
	Testament Testament `json:"testament"`
}

// books is the canon in canonical order.
var books = []Book{
	{"GEN", "Genesis", 1533, OldTestament},
	{"EXO", "Exodus", 1213, OldTestament},
	{"LEV", "Leviticus", 859, OldTestament},
	{"NUM", "Numbers", 1288, OldTestament},
	{"DEU", "Deuteronomy", 959, OldTestament},
	{"JOS", "Joshua", 658, OldTestament},
	{"JDG", "Judges", 618, OldTestament},
	{"RUT", "Ruth", 85, OldTestament},
	{"1SA", "1 Samuel", 810, OldTestament},
	{"2SA", "2 Samuel", 695, OldTestament},
	{"1KI", "1 Kings", 816, OldTestament},
	{"2KI", "2 Kings", 719, OldTestament},
	{"1CH", "1 Chronicles", 942, OldTestament},
	{"2CH", "2 Chronicles", 822, OldTestament},
	{"EZR", "Ezra", 280, OldTestament},
	{"NEH", "Nehemiah", 406, OldTestament},
	{"EST", "Esther", 167, OldTestament},
	{"JOB", "Job", 1070, OldTestament},
	{"PSA", "Psalms", 2461, OldTestament},
	{"PRO", "Proverbs", 915, OldTestament},
	{"ECC", "Ecclesiastes", 222, OldTestament},
	{"SNG", "Song of Solomon", 117, OldTestament},
	{"ISA", "Isaiah", 1292, OldTestament},
	{"JER", "Jeremiah", 1364, OldTestament},
	{"LAM", "Lamentations", 154, OldTestament},
	{"EZK", "Ezekiel", 1273, OldTestament},
	{"DAN", "Daniel", 357, OldTestament},
	{"HOS", "Hosea", 197, OldTestament},
	{"JOL", "Joel", 73, OldTestament},
	{"AMO", "Amos", 146, OldTestament},
	{"OBA", "Obadiah", 21, OldTestament},
	{"JON", "Jonah", 48, OldTestament},
	{"MIC", "Micah", 105, OldTestament},
	{"NAM", "Nahum", 47, OldTestament},
	{"HAB", "Habakkuk", 56, OldTestament},
	{"ZEP", "Zephaniah", 53, OldTestament},
	{"HAG", "Haggai", 38, OldTestament},
	{"ZEC", "Zechariah", 211, OldTestament},
	{"MAL", "Malachi", 55, OldTestament},
	{"MAT", "Matthew", 1071, NewTestament},
	{"MRK", "Mark", 678, NewTestament},
	{"LUK", "Luke", 1151, NewTestament},
	{"JHN", "John", 879, NewTestament},
	{"ACT", "Acts", 1007, NewTestament},
	{"ROM", "Romans", 433, NewTestament},
	{"1CO", "1 Corinthians", 437, NewTestament},
	{"2CO", "2 Corinthians", 257, NewTestament},
	{"GAL", "Galatians", 149, NewTestament},
	{"EPH", "Ephesians", 155, NewTestament},
	{"PHP", "Philippians", 104, NewTestament},
	{"COL", "Colossians", 95, NewTestament},
	{"1TH", "1 Thessalonians", 89, NewTestament},
	{"2TH", "2 Thessalonians", 47, NewTestament},
	{"1TI", "1 Timothy", 113, NewTestament},
	{"2TI", "2 Timothy", 83, NewTestament},
	{"TIT", "Titus", 46, NewTestament},
	{"PHM", "Philemon", 25, NewTestament},
	{"HEB", "Hebrews", 303, NewTestament},
	{"JAS", "James", 108, NewTestament},
	{"1PE", "1 Peter", 105, NewTestament},
	{"2PE", "2 Peter", 61, NewTestament},
	{"1JN", "1 John", 105, NewTestament},
	{"2JN", "2 John", 13, NewTestament},
	{"3JN", "3 John", 15, NewTestament},
	{"JUD", "Jude", 25, NewTestament},
	{"REV", "Revelation", 404, NewTestament},
}

// byCode indexes books by code.
var byCode = func() map[string]int {
	m := make(map[string]int, len(books))
	for i, b := range books {
		m[b.Code] = i
	}
	return m
}()

// Len is the number of canonical books.
const Len = 66

// Books returns the canon in canonical order.
func Books() []Book {
	out := make([]Book, len(books))
	copy(out, books)
	return out
}

// Codes returns the book codes in canonical order.
func Codes() []string {
	out := make([]string, len(books))
	for i, b := range books {
		out[i] = b.Code
	}
	return out
}

// Lookup returns the book for a code.
func Lookup(code string) (Book, bool) {
	i, ok := byCode[code]
	if !ok {
		return Book{}, false
	}
	return books[i], true
}

// IsBook reports whether code is one of the 66 canonical book codes.
func IsBook(code string) bool {
	_, ok := byCode[code]
	return ok
}

// ExpectedVerses returns the expected verse count for a code, or 0 if the code
// is not canonical.
func ExpectedVerses(code string) int {
	if b, ok := Lookup(code); ok {
		return b.Verses
	}
	return 0
}

// ExpectedTable returns a fresh code -> expected verse count map.
func ExpectedTable() map[string]int {
	m := make(map[string]int, len(books))
	for _, b := range books {
		m[b.Code] = b.Verses
	}
	return m
}

// TestamentCodes returns the book codes of one testament in canonical order.
func TestamentCodes(t Testament) []string {
	var out []string
	for _, b := range books {
		if b.Testament == t {
			out = append(out, b.Code)
		}
	}
	return out
}

// Order returns the 1-based canonical position of a code, or 0 if unknown.
func Order(code string) int {
	i, ok := byCode[code]
	if !ok {
		return 0
	}
	return i + 1
}
