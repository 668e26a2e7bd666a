// Command juniper-report analyzes a scripture corpus (USFM/USX) and writes
// punctuation, token, script composition and verse-coverage reports.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/FocuswithJustin/JuniperReports/core/analysis"
	"github.com/FocuswithJustin/JuniperReports/core/canon"
	"github.com/FocuswithJustin/JuniperReports/core/errors"
	"github.com/FocuswithJustin/JuniperReports/core/sqlite"
	"github.com/FocuswithJustin/JuniperReports/internal/config"
	"github.com/FocuswithJustin/JuniperReports/internal/loader"
	"github.com/FocuswithJustin/JuniperReports/internal/logging"
	"github.com/FocuswithJustin/JuniperReports/internal/render"
	"github.com/FocuswithJustin/JuniperReports/internal/reports"
)

const version = "0.1.0"

// CLI defines the command-line interface for juniper-report.
type CLI struct {
	Config    kong.ConfigFlag `help:"YAML file with flag defaults" placeholder:"FILE"`
	LogLevel  string          `name:"log-level" help:"Log level" default:"info" enum:"debug,info,warn,error"`
	LogFormat string          `name:"log-format" help:"Log format" default:"text" enum:"text,json"`

	Run     RunCmd     `cmd:"" help:"Analyze a corpus and write reports"`
	Books   BooksCmd   `cmd:"" help:"Print the canon used for completion statistics"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

// env carries the process streams into commands.
type env struct {
	stdout io.Writer
}

// RunCmd analyzes a corpus.
type RunCmd struct {
	Corpus     string   `arg:"" help:"Corpus directory, .tar.gz/.tar.xz archive, or single file" type:"path"`
	Out        []string `short:"o" help:"Output file (.json, .json.xz, .html, .db); repeatable. Prints JSON to stdout when omitted"`
	Parallel   bool     `help:"Run analyzers concurrently"`
	Workers    int      `help:"Worker count with --parallel (0 = one per analyzer)" default:"0"`
	Step       int      `help:"Rounding step for completion percentages" default:"5"`
	Only       []string `help:"Run only the named analyzers" placeholder:"NAME"`
	QuoteChars string   `name:"quote-chars" help:"Characters counted as quotation marks"`
	Quiet      bool     `help:"Do not log each unparseable reference"`
}

func (c *RunCmd) Run(e *env) error {
	ctx := context.Background()

	// Resolve sinks first so a bad --out fails before any work is done.
	sinks, err := render.ForPaths(c.Out)
	if err != nil {
		return err
	}
	if len(sinks) == 0 {
		sinks = []render.Sink{render.NewJSONWriter(e.stdout)}
	}

	corpus, err := loader.Load(ctx, c.Corpus)
	if err != nil {
		return err
	}
	if corpus.IsEmpty() {
		return errors.Wrapf(errors.ErrEmptyCorpus, "no scripture files in %s", c.Corpus)
	}

	reg, err := analysis.NewRegistry(reports.Defaults(reports.Options{
		Step:       c.Step,
		QuoteChars: c.QuoteChars,
		Quiet:      c.Quiet,
	})...)
	if err != nil {
		return err
	}
	if len(c.Only) > 0 {
		if reg, err = reg.Select(c.Only...); err != nil {
			return err
		}
	}

	report := reg.Run(ctx, corpus, analysis.Options{
		Parallel: c.Parallel,
		Workers:  c.Workers,
	})
	if !report.OK() {
		logging.Warn("analyzers_failed", "count", len(report.Failures), "run_id", report.RunID)
	}
	logging.Info("run_complete",
		"run_id", report.RunID,
		"documents", report.Documents,
		"duration_ms", report.Elapsed().Milliseconds())

	return render.WriteAll(ctx, report, sinks...)
}

// BooksCmd prints the canon table.
type BooksCmd struct {
	JSON bool `help:"Print as JSON"`
}

func (c *BooksCmd) Run(e *env) error {
	books := canon.Books()
	if c.JSON {
		enc := json.NewEncoder(e.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(books)
	}
	for _, b := range books {
		fmt.Fprintf(e.stdout, "%-4s %-2s %5d  %s\n", b.Code, b.Testament, b.Verses, b.Name)
	}
	return nil
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run(e *env) error {
	info := sqlite.GetInfo()
	fmt.Fprintf(e.stdout, "juniper-report %s\n", version)
	fmt.Fprintf(e.stdout, "analyzers: %s\n", strings.Join(reports.Names(), ", "))
	fmt.Fprintf(e.stdout, "sqlite: %s (%s)\n", info.Package, info.DriverType)
	return nil
}

func newParser(cli *CLI, stdout io.Writer, options ...kong.Option) (*kong.Kong, error) {
	opts := []kong.Option{
		kong.Name("juniper-report"),
		kong.Description("Scripture corpus analysis reports"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Configuration(config.YAML, config.DefaultPaths...),
		kong.Bind(&env{stdout: stdout}),
	}
	return kong.New(cli, append(opts, options...)...)
}

func main() {
	var cli CLI
	parser, err := newParser(&cli, os.Stdout)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	ctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	logging.InitLoggerTo(os.Stderr, logging.ParseLevel(cli.LogLevel), logging.ParseFormat(cli.LogFormat))

	err = ctx.Run()
	ctx.FatalIfErrorf(err)
}
