package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/springguard/config"
	"github.com/dhamidi/springguard/format"
	"github.com/dhamidi/springguard/project"
	"github.com/dhamidi/springguard/routes"
)

var errMissingPath = errors.New("missing project path")

// scanFlags are the command-line settings that override the config file.
type scanFlags struct {
	configPath      string
	parser          string
	format          string
	unguarded       bool
	failOnUnguarded bool
	includeTests    bool
	jobs            int
}

func (f *scanFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.configPath, "config", "", "config file (default <path>/"+config.FileName+")")
	cmd.Flags().StringVar(&f.parser, "parser", project.ParserNative, fmt.Sprintf("Java parser %v", project.ParserNames()))
	cmd.Flags().StringVarP(&f.format, "format", "f", "text", fmt.Sprintf("output format %v", format.Names()))
	cmd.Flags().BoolVar(&f.unguarded, "unguarded", false, "only list routes without a security expression")
	cmd.Flags().BoolVar(&f.failOnUnguarded, "fail-on-unguarded", false, "exit with status 1 when a route has no security expression")
	cmd.Flags().BoolVar(&f.includeTests, "include-tests", false, "also scan test sources")
	cmd.Flags().IntVarP(&f.jobs, "jobs", "j", 0, "files parsed in parallel (0: one per CPU)")
}

// config layers the flags the user set over the configuration file of dir.
func (f *scanFlags) config(cmd *cobra.Command, dir string) (*config.Config, error) {
	cfg, err := config.Find(dir, f.configPath)
	if err != nil {
		return nil, err
	}

	changed := cmd.Flags().Changed
	if changed("parser") {
		cfg.Parser = f.parser
	}
	if changed("format") {
		cfg.Format = f.format
	}
	if changed("unguarded") {
		cfg.UnguardedOnly = f.unguarded
	}
	if changed("fail-on-unguarded") {
		cfg.FailOnUnguarded = f.failOnUnguarded
	}
	if changed("include-tests") {
		cfg.IncludeTests = f.includeTests
	}
	if changed("jobs") {
		cfg.Jobs = f.jobs
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newScanCmd() *cobra.Command {
	var flags scanFlags

	cmd := &cobra.Command{
		Use:   "scan <path>",
		Short: "Scan a Maven project for routes (same as the root command)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, args, &flags)
		},
	}
	flags.register(cmd)

	return cmd
}

func runScan(cmd *cobra.Command, args []string, flags *scanFlags) error {
	if len(args) == 0 {
		return errMissingPath
	}
	dir := args[0]

	cfg, err := flags.config(cmd, dir)
	if err != nil {
		return err
	}
	result, err := analyze(cmd.Context(), dir, cfg)
	if err != nil {
		return err
	}

	report := format.NewReport(result, cfg.UnguardedOnly)
	encoder, err := format.New(cfg.Format, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if err := encoder.Encode(report); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	if err := format.WriteDiagnostics(cmd.ErrOrStderr(), result.Diagnostics); err != nil {
		return err
	}

	if result.Failed() {
		return errFindings
	}
	if cfg.FailOnUnguarded {
		if n := len(routes.Unguarded(result.Routes())); n > 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "%d routes are not guarded by a method security annotation\n", n)
			return errFindings
		}
	}
	return nil
}

// analyze loads the project in dir, parses its sources and extracts the
// routes.
func analyze(ctx context.Context, dir string, cfg *config.Config) (*routes.Result, error) {
	proj, err := project.LoadFrom(dir, cfg.ProjectOptions())
	if err != nil {
		return nil, err
	}
	parse, err := project.Parser(cfg.Parser)
	if err != nil {
		return nil, err
	}
	files, err := proj.Parse(ctx, parse, cfg.Jobs)
	if err != nil {
		return nil, err
	}
	return routes.Extract(project.Model(files)), nil
}
