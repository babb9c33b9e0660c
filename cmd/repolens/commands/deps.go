package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/repolens/repolens/pkg/imports"
	"github.com/repolens/repolens/pkg/snapshot"
)

// Dependency scopes and output formats.
const (
	depsScopeAll      = "all"
	depsScopeInternal = "internal"
	depsScopeExternal = "external"

	depsFormatText = "text"
	depsFormatJSON = "json"
	depsFormatYAML = "yaml"
)

// ErrInvalidDepsScope indicates an unknown --scope value.
var ErrInvalidDepsScope = errors.New("scope must be all, internal, or external")

// ErrInvalidDepsFormat indicates an unknown --format value.
var ErrInvalidDepsFormat = errors.New("format must be text, json, or yaml")

// depsReport is the serializable deps command output.
type depsReport struct {
	Internal map[string][]string `json:"internal,omitempty" yaml:"internal,omitempty"`
	External map[string][]string `json:"external,omitempty" yaml:"external,omitempty"`
}

// NewDepsCommand creates the deps subcommand.
func NewDepsCommand() *cobra.Command {
	var (
		scope        string
		format       string
		snapshotPath string
	)

	cmd := &cobra.Command{
		Use:   "deps [repository-url]",
		Short: "List a repository's import dependencies, classified internal/external",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			err := validateDepsFlags(scope, format)
			if err != nil {
				return err
			}

			deps, err := resolveDeps(cobraCmd, args, snapshotPath)
			if err != nil {
				return err
			}

			report := buildReport(deps, scope)

			return writeReport(cobraCmd.OutOrStdout(), report, format)
		},
	}

	cmd.Flags().StringVar(&scope, "scope", depsScopeAll, "dependency scope: all, internal, or external")
	cmd.Flags().StringVar(&format, "format", depsFormatText, "output format: text, json, or yaml")
	cmd.Flags().StringVar(&snapshotPath, "snapshot", "", "read from a snapshot file instead of cloning")

	return cmd
}

func validateDepsFlags(scope, format string) error {
	switch scope {
	case depsScopeAll, depsScopeInternal, depsScopeExternal:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidDepsScope, scope)
	}

	switch format {
	case depsFormatText, depsFormatJSON, depsFormatYAML:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidDepsFormat, format)
	}

	return nil
}

// resolveDeps obtains the dependency set from a snapshot or a fresh pass.
func resolveDeps(cobraCmd *cobra.Command, args []string, snapshotPath string) (*imports.DependencySet, error) {
	if snapshotPath != "" {
		snap, err := snapshot.Load(snapshotPath)
		if err != nil {
			return nil, err
		}

		return snap.Result().Deps, nil
	}

	if len(args) == 0 {
		return nil, ErrNoSource
	}

	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	cfg.Ingest.SkipMetadata = true

	providers, err := initObservability(cfg)
	if err != nil {
		return nil, err
	}

	defer shutdownProviders(providers)

	result, err := runPipeline(cobraCmd.Context(), cfg, providers, args[0], 0)
	if err != nil {
		return nil, err
	}

	return result.Deps, nil
}

func buildReport(deps *imports.DependencySet, scope string) depsReport {
	var report depsReport

	if scope == depsScopeAll || scope == depsScopeInternal {
		report.Internal = deps.AllInternal()
	}

	if scope == depsScopeAll || scope == depsScopeExternal {
		report.External = deps.AllExternal()
	}

	return report
}

func writeReport(w io.Writer, report depsReport, format string) error {
	switch format {
	case depsFormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")

		err := encoder.Encode(report)
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}

		return nil
	case depsFormatYAML:
		err := yaml.NewEncoder(w).Encode(report)
		if err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}

		return nil
	default:
		writeTextReport(w, report)

		return nil
	}
}

func writeTextReport(w io.Writer, report depsReport) {
	writeSection(w, "internal", report.Internal)
	writeSection(w, "external", report.External)
}

func writeSection(w io.Writer, name string, files map[string][]string) {
	if len(files) == 0 {
		return
	}

	fmt.Fprintf(w, "%s:\n", name)

	paths := make([]string, 0, len(files))
	for path := range files {
		paths = append(paths, path)
	}

	sort.Strings(paths)

	for _, path := range paths {
		fmt.Fprintf(w, "  %s\n", path)

		for _, stmt := range files[path] {
			fmt.Fprintf(w, "    %s\n", stmt)
		}
	}
}
