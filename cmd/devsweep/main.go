package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"devsweep/internal/cleaner"
	"devsweep/internal/config"
	"devsweep/internal/detect"
	"devsweep/internal/platform"
	"devsweep/internal/reporter"
	"devsweep/internal/scanner"
	"devsweep/internal/ui"
	"devsweep/pkg/utils"
)

var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

var (
	configPath string
	verbose    bool
	dryRun     bool
	outputFmt  string
	showHidden bool
)

var logger = log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: false})

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "devsweep",
	Short: "Find and reclaim disk space eaten by developer tools",
	Long: `devsweep scans the well-known cache and artifact locations of developer
tools (npm, pip, cargo, gradle, ...), sizes what it finds by actual disk
usage, and safely deletes what can be rebuilt.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildTime),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logger.SetLevel(log.DebugLevel)
		}
	},
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan all tools and report their disk usage",
	RunE: func(cmd *cobra.Command, args []string) error {
		coordinator, err := buildCoordinator()
		if err != nil {
			return err
		}

		onProgress := func(fraction float64, label string) {
			logger.Debug("progress", "fraction", fmt.Sprintf("%.2f", fraction), "step", label)
		}
		report := coordinator.ScanAll(cmd.Context(), onProgress)

		rep := reporter.New(os.Stdout, reporter.OutputFormat(outputFmt))
		return rep.Report(report)
	},
}

var duCmd = &cobra.Command{
	Use:   "du <path>",
	Short: "Aggregate a directory's disk usage by top-level folder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		s := scanner.New(cfg.ExcludeHidden && !showHidden)
		result := s.Scan(cmd.Context(), args[0], func(fraction float64, label string) {
			logger.Debug("scanning", "fraction", fmt.Sprintf("%.2f", fraction), "folder", label)
		})

		rep := reporter.New(os.Stdout, reporter.OutputFormat(outputFmt))
		return rep.ScanResult(args[0], result)
	},
}

var cleanCmd = &cobra.Command{
	Use:   "clean <tool>",
	Short: "Delete everything flagged safe for one tool",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tool := args[0]
		coordinator, err := buildCoordinator()
		if err != nil {
			return err
		}

		// A fresh full scan so the report reflects the disk as it is now.
		coordinator.ScanAll(cmd.Context(), nil)

		result := coordinator.DeleteSafeArtifacts(tool)
		for _, e := range result.Errors {
			logger.Warn("deletion failed", "err", e)
		}
		fmt.Printf("Deleted %d artifacts, reclaimed about %s (%d errors)\n",
			result.Deleted, utils.FormatBytes(result.ReclaimedBytes), len(result.Errors))
		return nil
	},
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Interactive scan with live progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		coordinator, err := buildCoordinator()
		if err != nil {
			return err
		}
		_, err = tea.NewProgram(ui.NewScanModel(coordinator)).Run()
		return err
	},
}

func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if dryRun {
		cfg.DryRun = true
	}
	return cfg, nil
}

func buildCoordinator() (*detect.Coordinator, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	info, err := platform.GetInfo()
	if err != nil {
		return nil, fmt.Errorf("failed to get platform info: %w", err)
	}

	detectors := detect.Tools(cfg, info.HomeDir)
	cl := cleaner.New(cfg.ProtectedPaths, cfg.DryRun)
	return detect.NewCoordinator(detectors, cl, logger), nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "report deletions without removing anything")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "table", "output format (table, json, summary)")
	duCmd.Flags().BoolVar(&showHidden, "hidden", false, "include hidden entries")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(duCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(tuiCmd)
}
