package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/dgallion1/mdcount/internal/counter"
)

func newConfigCmd(f *countFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create the config file if missing and print its path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigCmd(cmd, f.configPath)
		},
	}
}

func runConfigCmd(cmd *cobra.Command, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), path); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func defaultConfigTemplate() string {
	d := counter.Default
	return fmt.Sprintf(`# mdcount configuration
# Uncomment a value to enable it. CLI flags override config values.

[count]
# headings = %t
# blockquotes = %t
# code-blocks = %t
# inline-code = %t
# footnotes = %t
# tables = %t
# html = %t
# metadata = %t
# all = false            # Count every category
# jobs = %d               # Files counted in parallel
`,
		d.Has(counter.Headings),
		d.Has(counter.Blockquotes),
		d.Has(counter.CodeBlocks),
		d.Has(counter.InlineCode),
		d.Has(counter.Footnotes),
		d.Has(counter.Tables),
		d.Has(counter.HTML),
		d.Has(counter.Metadata),
		runtime.NumCPU(),
	)
}
