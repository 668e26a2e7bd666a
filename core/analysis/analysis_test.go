package analysis

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"slices"
	"sync/atomic"
	"testing"

	"github.com/FocuswithJustin/JuniperReports/core/corpus"
	jerrors "github.com/FocuswithJustin/JuniperReports/core/errors"
	"github.com/FocuswithJustin/JuniperReports/internal/logging"
)

// counting returns an analyzer that records how many times it ran.
func counting(name string, calls *int32) *Func {
	return NewFunc(name, func(ctx context.Context, c *corpus.Corpus) (Result, error) {
		atomic.AddInt32(calls, 1)
		return Result{"documents": c.Len()}, nil
	})
}

func failing(name string) *Func {
	return NewFunc(name, func(ctx context.Context, c *corpus.Corpus) (Result, error) {
		return nil, errors.New("tokenizer unavailable")
	})
}

func panicking(name string) *Func {
	return NewFunc(name, func(ctx context.Context, c *corpus.Corpus) (Result, error) {
		panic("index out of range")
	})
}

func testCorpus() *corpus.Corpus {
	return corpus.New(
		corpus.NewDocument("a.usfm", "", []corpus.Verse{corpus.NewVerse("GEN 1:1", "x")}),
		corpus.NewDocument("b.usfm", "", nil),
	)
}

func TestNewRegistryDuplicateRejected(t *testing.T) {
	var first, second, other int32
	reg, err := NewRegistry(
		counting("token_report", &first),
		counting("punctuation_report", &other),
		counting("token_report", &second),
	)

	if err == nil {
		t.Fatal("NewRegistry() error = nil, want duplicate error")
	}
	if reg != nil {
		t.Error("NewRegistry() should not return a registry on error")
	}

	var dup *jerrors.DuplicateError
	if !errors.As(err, &dup) {
		t.Fatalf("error type = %T, want *DuplicateError", err)
	}
	if dup.Name != "token_report" {
		t.Errorf("DuplicateError.Name = %q, want token_report", dup.Name)
	}
	if !errors.Is(err, jerrors.ErrAlreadyExists) {
		t.Error("error should match ErrAlreadyExists")
	}

	if first+second+other != 0 {
		t.Errorf("analyzers executed %d times, want 0", first+second+other)
	}
}

func TestRegisterInvalid(t *testing.T) {
	reg, err := NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}

	if err := reg.Register(nil); !errors.Is(err, jerrors.ErrInvalidInput) {
		t.Errorf("Register(nil) error = %v, want ErrInvalidInput", err)
	}
	if err := reg.Register(NewFunc("", nil)); !errors.Is(err, jerrors.ErrInvalidInput) {
		t.Errorf("Register(empty name) error = %v, want ErrInvalidInput", err)
	}
	if reg.Len() != 0 {
		t.Errorf("Len() = %d, want 0", reg.Len())
	}
}

func TestRegistryOrderAndLookup(t *testing.T) {
	var n int32
	reg, err := NewRegistry(counting("c", &n), counting("a", &n), counting("b", &n))
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}

	if got := reg.Names(); !slices.Equal(got, []string{"c", "a", "b"}) {
		t.Errorf("Names() = %v, want [c a b]", got)
	}
	if a, err := reg.Get("a"); err != nil || a.Name() != "a" {
		t.Errorf("Get(a) = %v, %v", a, err)
	}
	if _, err := reg.Get("missing"); !errors.Is(err, jerrors.ErrNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
	}
}

func TestRegistrySelect(t *testing.T) {
	var n int32
	reg, _ := NewRegistry(counting("c", &n), counting("a", &n), counting("b", &n))

	sub, err := reg.Select("b", "c")
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if got := sub.Names(); !slices.Equal(got, []string{"c", "b"}) {
		t.Errorf("Select().Names() = %v, want [c b]", got)
	}

	if _, err := reg.Select("nope"); !errors.Is(err, jerrors.ErrNotFound) {
		t.Errorf("Select(nope) error = %v, want ErrNotFound", err)
	}
}

func TestRunFailureIsolation(t *testing.T) {
	for _, parallel := range []bool{false, true} {
		name := "serial"
		if parallel {
			name = "parallel"
		}
		t.Run(name, func(t *testing.T) {
			var calls int32
			reg, err := NewRegistry(
				counting("first", &calls),
				failing("broken"),
				panicking("explodes"),
				counting("last", &calls),
			)
			if err != nil {
				t.Fatalf("NewRegistry() error = %v", err)
			}

			report := reg.Run(context.Background(), testCorpus(), Options{Parallel: parallel})

			if calls != 2 {
				t.Errorf("healthy analyzers ran %d times, want 2", calls)
			}
			for _, ok := range []string{"first", "last"} {
				res, found := report.Result(ok)
				if !found {
					t.Errorf("Result(%s) missing", ok)
					continue
				}
				if res["documents"] != 2 {
					t.Errorf("Result(%s)[documents] = %v, want 2", ok, res["documents"])
				}
			}

			if report.OK() {
				t.Error("OK() = true, want false")
			}
			if len(report.Failures) != 2 {
				t.Fatalf("len(Failures) = %d, want 2", len(report.Failures))
			}

			broken := report.Failures["broken"]
			if broken == nil || broken.Panic {
				t.Errorf("Failures[broken] = %+v, want non-panic failure", broken)
			}
			explodes := report.Failures["explodes"]
			if explodes == nil || !explodes.Panic {
				t.Errorf("Failures[explodes] = %+v, want panic failure", explodes)
			}

			err = report.Err()
			if !errors.Is(err, jerrors.ErrAnalyzerFailed) {
				t.Errorf("Err() = %v, want ErrAnalyzerFailed", err)
			}

			var aerr *jerrors.AnalyzerError
			if !errors.As(broken.Err(), &aerr) || aerr.Analyzer != "broken" {
				t.Errorf("Failure.Err() = %v, want AnalyzerError for broken", broken.Err())
			}
		})
	}
}

func TestRunEachAnalyzerOnce(t *testing.T) {
	var a, b, c int32
	reg, _ := NewRegistry(counting("a", &a), counting("b", &b), counting("c", &c))

	report := reg.Run(context.Background(), testCorpus(), Options{Parallel: true, Workers: 2})

	if a != 1 || b != 1 || c != 1 {
		t.Errorf("calls = %d/%d/%d, want 1/1/1", a, b, c)
	}
	if !report.OK() {
		t.Errorf("OK() = false, failures: %v", report.Err())
	}
	if report.RunID == "" {
		t.Error("RunID is empty")
	}
	if report.Documents != 2 {
		t.Errorf("Documents = %d, want 2", report.Documents)
	}
	if report.Finished.Before(report.Started) {
		t.Error("Finished before Started")
	}
}

func TestReportEntriesAndMapping(t *testing.T) {
	var n int32
	reg, _ := NewRegistry(counting("z_first", &n), failing("m_broken"), counting("a_last", &n))
	report := reg.Run(context.Background(), testCorpus(), Options{Parallel: true})

	entries := report.Entries()
	var names []string
	for _, e := range entries {
		names = append(names, e.Name)
	}
	if !slices.Equal(names, []string{"z_first", "m_broken", "a_last"}) {
		t.Errorf("Entries() order = %v, want registration order", names)
	}
	if entries[1].Failure == nil || entries[1].Result != nil {
		t.Errorf("Entries()[1] = %+v, want failure only", entries[1])
	}

	m := report.Mapping()
	if len(m) != 3 {
		t.Fatalf("len(Mapping()) = %d, want 3", len(m))
	}
	marker, ok := m["m_broken"].(map[string]any)
	if !ok || marker["failed"] != true {
		t.Errorf("Mapping()[m_broken] = %v, want failure marker", m["m_broken"])
	}

	if _, err := json.Marshal(m); err != nil {
		t.Errorf("Mapping() not JSON-encodable: %v", err)
	}
}

func TestRunEmptyCorpus(t *testing.T) {
	var n int32
	reg, _ := NewRegistry(counting("a", &n))

	for _, c := range []*corpus.Corpus{corpus.New(), nil} {
		report := reg.Run(context.Background(), c, Options{})
		res, ok := report.Result("a")
		if !ok {
			t.Fatal("Result(a) missing for empty corpus")
		}
		if res["documents"] != 0 {
			t.Errorf("documents = %v, want 0", res["documents"])
		}
	}
}

func TestRunNilResultBecomesEmpty(t *testing.T) {
	reg, _ := NewRegistry(NewFunc("nil", func(ctx context.Context, c *corpus.Corpus) (Result, error) {
		return nil, nil
	}))

	report := reg.Run(context.Background(), testCorpus(), Options{})
	res, ok := report.Result("nil")
	if !ok || res == nil {
		t.Errorf("Result(nil) = %v, %v, want empty non-nil result", res, ok)
	}
}

func TestRunNoAnalyzers(t *testing.T) {
	reg, _ := NewRegistry()
	report := reg.Run(context.Background(), testCorpus(), Options{Parallel: true})

	if len(report.Mapping()) != 0 {
		t.Errorf("Mapping() = %v, want empty", report.Mapping())
	}
	if report.Err() != nil {
		t.Errorf("Err() = %v, want nil", report.Err())
	}
}

func TestCached(t *testing.T) {
	var n int32
	cached := NewCached(counting("cached", &n))

	if _, ok := cached.Last(); ok {
		t.Error("Last() ok before any run")
	}

	reg, err := NewRegistry(cached)
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	reg.Run(context.Background(), testCorpus(), Options{})

	last, ok := cached.Last()
	if !ok || last["documents"] != 2 {
		t.Errorf("Last() = %v, %v", last, ok)
	}
	if cached.Name() != "cached" {
		t.Errorf("Name() = %q, want cached", cached.Name())
	}

	failingCached := NewCached(failing("broken"))
	if _, err := failingCached.Analyze(context.Background(), testCorpus()); err == nil {
		t.Error("Analyze() error = nil, want error")
	}
	if _, ok := failingCached.Last(); ok {
		t.Error("Last() should not store failed results")
	}
}

func TestRunLogEvents(t *testing.T) {
	var buf bytes.Buffer
	logging.InitLoggerTo(&buf, logging.LevelDebug, logging.FormatJSON)
	t.Cleanup(func() { logging.InitLogger(logging.LevelInfo, logging.FormatText) })

	var calls int32
	reg, err := NewRegistry(counting("a", &calls), failing("b"))
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	reg.Run(context.Background(), testCorpus(), Options{})

	event := regexp.MustCompile(`^[a-z]+(_[a-z]+)*$`)
	var msgs []string
	sc := bufio.NewScanner(&buf)
	for sc.Scan() {
		var rec map[string]any
		if err := json.Unmarshal(sc.Bytes(), &rec); err != nil {
			t.Fatalf("log line is not JSON: %s", sc.Text())
		}
		msg, _ := rec["msg"].(string)
		if !event.MatchString(msg) {
			t.Errorf("msg = %q, want a snake_case event name", msg)
		}
		msgs = append(msgs, msg)
	}
	for _, want := range []string{"run_started", "analyzer_start", "analyzer_done", "analyzer_failed", "run_finished"} {
		if !slices.Contains(msgs, want) {
			t.Errorf("events = %v, missing %s", msgs, want)
		}
	}
}
