package render

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/FocuswithJustin/JuniperReports/core/analysis"
)

// PathSeparator joins nested result keys in flattened output.
const PathSeparator = "."

// Leaf is one scalar value inside a result, addressed by its key path.
type Leaf struct {
	Path  []string
	Value any // float64, string, bool or nil
}

// Key returns the joined key path.
func (l Leaf) Key() string {
	return strings.Join(l.Path, PathSeparator)
}

// envelope is the serialized form of a report.
type envelope struct {
	RunID     string         `json:"run_id"`
	Started   time.Time      `json:"started"`
	Finished  time.Time      `json:"finished"`
	ElapsedMS int64          `json:"elapsed_ms"`
	Documents int            `json:"documents"`
	Analyzers []string       `json:"analyzers"`
	Results   map[string]any `json:"results"`
}

func newEnvelope(r *analysis.Report) envelope {
	names := r.Names
	if names == nil {
		names = []string{}
	}
	return envelope{
		RunID:     r.RunID,
		Started:   r.Started,
		Finished:  r.Finished,
		ElapsedMS: r.Elapsed().Milliseconds(),
		Documents: r.Documents,
		Analyzers: names,
		Results:   r.Mapping(),
	}
}

// normalize round-trips v through JSON so every map is map[string]any and
// every number is float64.
func normalize(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Flatten returns every scalar in v, ordered by key path. Map keys that are
// all integers sort numerically.
func Flatten(v any) ([]Leaf, error) {
	n, err := normalize(v)
	if err != nil {
		return nil, fmt.Errorf("normalize result: %w", err)
	}
	var leaves []Leaf
	flatten(nil, n, func(path []string, value any) {
		leaves = append(leaves, Leaf{Path: slices.Clone(path), Value: value})
	})
	return leaves, nil
}

func flatten(path []string, v any, emit func([]string, any)) {
	switch t := v.(type) {
	case map[string]any:
		for _, k := range sortedKeys(t) {
			flatten(append(path, k), t[k], emit)
		}
	case []any:
		for i, item := range t {
			flatten(append(path, strconv.Itoa(i)), item, emit)
		}
	default:
		emit(path, v)
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareKeys)
	return keys
}

func compareKeys(a, b string) int {
	ai, aerr := strconv.Atoi(a)
	bi, berr := strconv.Atoi(b)
	switch {
	case aerr == nil && berr == nil:
		return ai - bi
	case aerr == nil:
		return -1
	case berr == nil:
		return 1
	}
	return strings.Compare(a, b)
}

// FormatValue renders a leaf value for display.
func FormatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case float64:
		if t == math.Trunc(t) && math.Abs(t) < 1e15 {
			return humanize.Comma(int64(t))
		}
		return humanize.FormatFloat("#,###.##", t)
	case bool:
		return strconv.FormatBool(t)
	case string:
		return t
	}
	return fmt.Sprint(v)
}
