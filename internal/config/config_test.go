package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"

	jerrors "github.com/FocuswithJustin/JuniperReports/core/errors"
)

type testCLI struct {
	Config kong.ConfigFlag `help:"Config file."`
	Run    struct {
		Corpus     string   `arg:""`
		Step       int      `default:"5"`
		Parallel   bool     `default:"false"`
		Only       []string `sep:","`
		QuoteChars string   `name:"quote-chars"`
	} `cmd:""`
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func parse(t *testing.T, args ...string) (*testCLI, error) {
	t.Helper()
	var cli testCLI
	parser, err := kong.New(&cli, kong.Configuration(YAML), kong.Exit(func(int) {}))
	if err != nil {
		t.Fatalf("kong.New() error = %v", err)
	}
	_, err = parser.Parse(args)
	return &cli, err
}

func TestParse(t *testing.T) {
	r, err := Parse([]byte("step: 10\nQuote_Chars: \"«»\"\nonly: [a, b]\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	got := strings.Join(r.Keys(), ",")
	if got != "only,quote-chars,step" {
		t.Errorf("Keys() = %s, want only,quote-chars,step", got)
	}
}

func TestParseEmpty(t *testing.T) {
	r, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(r.Keys()) != 0 {
		t.Errorf("Keys() = %v, want none", r.Keys())
	}
}

func TestParseInvalid(t *testing.T) {
	_, err := Parse([]byte("step: [unclosed"))
	if !errors.Is(err, jerrors.ErrInvalidInput) {
		t.Errorf("Parse() error = %v, want ErrInvalidInput", err)
	}
}

func TestConfigFlag(t *testing.T) {
	path := writeConfig(t, `
step: 10
parallel: true
only: [token_report, vref_stats_report]
quote_chars: "«»"
`)

	cli, err := parse(t, "--config", path, "run", "corpus")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cli.Run.Step != 10 {
		t.Errorf("Step = %d, want 10", cli.Run.Step)
	}
	if !cli.Run.Parallel {
		t.Error("Parallel = false, want true")
	}
	if len(cli.Run.Only) != 2 || cli.Run.Only[1] != "vref_stats_report" {
		t.Errorf("Only = %v", cli.Run.Only)
	}
	if cli.Run.QuoteChars != "«»" {
		t.Errorf("QuoteChars = %q, want «»", cli.Run.QuoteChars)
	}
}

func TestFlagsOverrideConfig(t *testing.T) {
	path := writeConfig(t, "step: 10\n")

	cli, err := parse(t, "--config", path, "run", "corpus", "--step", "20")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cli.Run.Step != 20 {
		t.Errorf("Step = %d, want 20", cli.Run.Step)
	}
}

func TestUnknownKey(t *testing.T) {
	path := writeConfig(t, "steps: 10\n")

	_, err := parse(t, "--config", path, "run", "corpus")
	if err == nil || !strings.Contains(err.Error(), "unknown keys: steps") {
		t.Errorf("Parse() error = %v, want unknown key error", err)
	}
}
