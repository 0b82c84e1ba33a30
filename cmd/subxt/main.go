// Command subxt drives the binding generator's configuration surface.
//
// The substitutes subcommands load subxt.yaml, build the type substitution
// table and either verify it (check) or print the resolved entries (list).
package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/airzhe/subxt/internal/config"
	"github.com/airzhe/subxt/internal/diagnostics"
	"github.com/airzhe/subxt/internal/substitutes"
)

var (
	verbose   bool
	cratePath string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "subxt",
		Short:         "Generate typed client bindings from chain metadata",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				log.SetLevel(log.DebugLevel)
			}
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(substitutesCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func substitutesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "substitutes",
		Short: "Inspect the type substitution table",
	}
	cmd.PersistentFlags().StringVar(&cratePath, "crate-path", "", "override the crate anchor from subxt.yaml")

	cmd.AddCommand(&cobra.Command{
		Use:   "check [dir]",
		Short: "Validate the substitutions in subxt.yaml",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, cfg, err := buildTable(argDir(args))
			if err != nil {
				return err
			}
			fmt.Printf("ok: %d substitutions (%d from config)\n", len(table.Keys()), len(cfg.Substitutes))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list [dir]",
		Short: "Print the resolved substitution table",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, _, err := buildTable(argDir(args))
			if err != nil {
				return err
			}
			printTable(table)
			return nil
		},
	})

	return cmd
}

func argDir(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}

// buildTable loads the config found at or above dir, seeds the table with
// defaults under the crate anchor and ingests the configured substitutions.
func buildTable(dir string) (*substitutes.Substitutes, *config.Config, error) {
	path, err := config.FindConfig(dir)
	if err != nil {
		return nil, nil, err
	}
	if path == "" {
		return nil, nil, fmt.Errorf("no subxt.yaml found at or above %s", dir)
	}
	log.Debugf("using config %s", path)

	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, nil, err
	}
	if cratePath != "" {
		cfg.CratePath = cratePath
	}

	anchor, err := cfg.Anchor()
	if err != nil {
		return nil, nil, err
	}
	log.Debugf("crate anchor %s", anchor)

	table := substitutes.New(anchor)

	entries, err := cfg.Entries()
	if err != nil {
		renderEntryError(err)
		return nil, nil, err
	}
	for i := range entries {
		if derr := table.Extend(entries[i : i+1]); derr != nil {
			renderEntry(&cfg.Substitutes[i], derr)
			return nil, nil, derr
		}
		log.Debugf("substitute %s => %s", entries[i].Source, entries[i].Target.Path())
	}
	return table, cfg, nil
}

// renderEntryError prints a caret-annotated diagnostic for a config entry
// that failed to parse or validate.
func renderEntryError(err error) {
	var eerr *config.EntryError
	if !errors.As(err, &eerr) {
		return
	}
	var derr *diagnostics.DiagnosticError
	if !errors.As(eerr.Err, &derr) {
		return
	}
	diagnostics.Render(os.Stderr, eerr.Text, derr)
}

// renderEntry prints an ingestion diagnostic anchored into the entry text it
// came from: target-side codes point into `with`, the rest into `type`.
func renderEntry(sub *config.Substitute, derr *diagnostics.DiagnosticError) {
	src := sub.Type
	if derr.Code == diagnostics.ErrS001 || derr.Code == diagnostics.ErrS004 {
		src = sub.With
	}
	diagnostics.Render(os.Stderr, src, derr)
}

func printTable(table *substitutes.Substitutes) {
	for _, key := range table.Keys() {
		target, _ := table.Target(key)
		fmt.Printf("%s => %s", key, target)
		if template, ok := table.Template(key); ok {
			fmt.Printf("  %s", formatTemplate(template))
		}
		fmt.Println()
	}
}

func formatTemplate(template substitutes.ParamTemplate) string {
	slots := make([]string, len(template))
	for i, slot := range template {
		switch slot.Kind {
		case substitutes.SlotPassThrough:
			slots[i] = fmt.Sprintf("$%d", slot.Index)
		case substitutes.SlotConcrete:
			slots[i] = slot.Path.String()
		}
	}
	return "[" + strings.Join(slots, ", ") + "]"
}
