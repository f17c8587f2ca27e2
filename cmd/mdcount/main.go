// Package main provides the CLI entrypoint for mdcount.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/dgallion1/mdcount/internal/config"
	"github.com/dgallion1/mdcount/internal/counter"
	"github.com/dgallion1/mdcount/internal/parser"
	"github.com/dgallion1/mdcount/internal/pipeline"
)

const stdinName = "<stdin>"

var categoryHelp = map[string]string{
	"headings":    "count headings",
	"blockquotes": "count blockquotes",
	"code-blocks": "count fenced and indented code blocks",
	"inline-code": "count inline code spans",
	"footnotes":   "count footnote definitions",
	"tables":      "count tables",
	"html":        "count text inside raw HTML",
	"metadata":    "count YAML, TOML or JSON front matter",
}

// countFlags holds the root command's flag values.
type countFlags struct {
	categories map[string]*bool
	all        bool
	output     string
	force      bool
	json       bool
	jobs       int
	configPath string
	verbose    bool
}

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	f := &countFlags{categories: make(map[string]*bool)}

	rootCmd := &cobra.Command{
		Use:           "mdcount [files...]",
		Short:         "Count the words of Markdown documents",
		Long:          "Count the words a reader would read, skipping markup. With no files, reads stdin.",
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCountCmd(cmd, f, args)
		},
	}

	rootCmd.Flags().BoolVar(&f.all, "all", false, "count every category")
	flagSet := counter.Flags()
	for _, name := range counter.FlagNames() {
		v := new(bool)
		f.categories[name] = v
		rootCmd.Flags().BoolVar(v, name, counter.Default.Has(flagSet[name]), categoryHelp[name])
		rootCmd.MarkFlagsMutuallyExclusive("all", name)
	}
	rootCmd.Flags().StringVarP(&f.output, "output", "o", "", "write the report to a file instead of stdout")
	rootCmd.Flags().BoolVar(&f.force, "force", false, "overwrite the --output file if it exists")
	rootCmd.Flags().BoolVar(&f.json, "json", false, "emit the report as JSON")
	rootCmd.Flags().IntVarP(&f.jobs, "jobs", "j", runtime.NumCPU(), "files counted in parallel")
	rootCmd.PersistentFlags().StringVar(&f.configPath, "config", config.DefaultConfigPath(), "config file path")
	rootCmd.PersistentFlags().BoolVarP(&f.verbose, "verbose", "v", false, "log debug output to stderr")

	rootCmd.AddCommand(newConfigCmd(f))
	rootCmd.AddCommand(newServeCmd(f))

	return rootCmd
}

func runCountCmd(cmd *cobra.Command, f *countFlags, args []string) error {
	if f.force && f.output == "" {
		return fmt.Errorf("--force is only allowed with --output")
	}

	opts, err := resolveOptions(cmd, f)
	if err != nil {
		return err
	}
	if f.jobs <= 0 {
		return fmt.Errorf("--jobs must be > 0")
	}

	log := newLogger(cmd.ErrOrStderr(), f.verbose)
	docs, err := readInputs(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	// Open the destination before counting so a refused overwrite costs nothing.
	out := cmd.OutOrStdout()
	dest := "<stdout>"
	if f.output != "" {
		file, err := openOutput(f.output, f.force)
		if err != nil {
			return err
		}
		defer file.Close()
		out = file
		dest = f.output
	}

	c, err := pipeline.NewCounter(parser.DefaultSettings, 0, nil, log)
	if err != nil {
		return err
	}
	log.Debug("counting", "files", len(docs), "options", opts.String(), "jobs", f.jobs)
	results, err := c.CountAll(commandContext(cmd), docs, opts, f.jobs)
	if err != nil {
		return err
	}

	if err := writeReport(out, results, opts, f.json); err != nil {
		return fmt.Errorf("could not write to %q: %w", dest, err)
	}

	failed := 0
	for _, res := range results {
		if res.Error != "" {
			failed++
			log.Error("could not count file", "name", res.Name, "error", res.Error)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files could not be counted", failed, len(results))
	}
	return nil
}

// resolveOptions merges built-in defaults, the config file and flags, in
// that order of precedence.
func resolveOptions(cmd *cobra.Command, f *countFlags) (counter.Options, error) {
	fileCfg, err := config.LoadConfig(f.configPath)
	if err != nil {
		return counter.None, fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "jobs", &f.jobs, fileCfg.Count.Jobs)

	if f.all {
		return counter.All, nil
	}

	fileCats := fileCfg.Count.Categories()
	if fileCfg.Count.All != nil && *fileCfg.Count.All {
		on := true
		for name, v := range f.categories {
			applyBoolConfig(cmd, name, v, &on)
		}
	}

	opts := counter.None
	flagSet := counter.Flags()
	for _, name := range counter.FlagNames() {
		v := f.categories[name]
		applyBoolConfig(cmd, name, v, fileCats[name])
		opts = opts.Set(flagSet[name], *v)
	}
	return opts, nil
}

func readInputs(stdin io.Reader, paths []string) ([]pipeline.Document, error) {
	if len(paths) == 0 {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("could not read from %q: %w", stdinName, err)
		}
		return []pipeline.Document{{Name: stdinName, Data: data}}, nil
	}

	docs := make([]pipeline.Document, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("could not open file at %q to read it: %w", path, err)
		}
		docs = append(docs, pipeline.Document{Name: path, Data: data})
	}
	return docs, nil
}

// openOutput creates path and its parent directories. Without force an
// existing file is refused atomically.
func openOutput(path string, force bool) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("could not create directory for %q: %w", path, err)
	}
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !force {
		flags |= os.O_EXCL
	}
	file, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil, fmt.Errorf("the file %q already exists (use --force to overwrite)", path)
		}
		return nil, fmt.Errorf("could not open file at %q to write to it: %w", path, err)
	}
	return file, nil
}

type jsonReport struct {
	Files   []pipeline.Result `json:"files"`
	Total   int               `json:"total"`
	Options string            `json:"options"`
}

func writeReport(w io.Writer, results []pipeline.Result, opts counter.Options, asJSON bool) error {
	total := pipeline.Total(results)
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(jsonReport{Files: results, Total: total, Options: opts.String()})
	}

	for _, res := range results {
		if res.Error != "" {
			continue
		}
		if _, err := fmt.Fprintf(w, "%s has %d words\n", res.Name, res.Words); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "Total: %d\n", total)
	return err
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

// commandContext returns cmd's context, or Background when run outside
// Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
