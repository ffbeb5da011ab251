// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the microsim-engine CLI.
// Each pipeline stage is a subcommand: extract, scaffold, validate, nav,
// embed, todo, and catalog.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/microsim-engine/internal/project"
	"github.com/pdiddy/microsim-engine/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// projectRoot is resolved once before any command runs. Commands that
// operate on a book project call requireProject; commands like version
// work anywhere.
var (
	projectRoot    string
	projectRootErr error
)

// rootCmd is the base command for the microsim-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "microsim-engine",
	Short: "Lifecycle manager for MicroSims in intelligent textbooks",
	Long: `microsim-engine manages interactive simulations (MicroSims) embedded in an
mkdocs book project. Chapter markdown declares sims under Diagram/Drawing
headings; the CLI extracts those specifications, scaffolds sim directories,
scores implementations against a quality rubric, and keeps the site nav and
chapter embeds in sync.

Each pipeline stage is a subcommand: extract, scaffold, validate, nav,
embed, todo, and catalog.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		projectDir, _ := cmd.Flags().GetString("project-dir")
		projectRoot, projectRootErr = project.FindRoot(projectDir)
		return nil
	},
}

// requireProject returns the resolved project root or the resolution error.
func requireProject() (string, error) {
	if projectRootErr != nil {
		return "", fmt.Errorf("locating project root: %w", projectRootErr)
	}
	return projectRoot, nil
}

// pipelineConfig merges file and environment configuration over the
// defaults. All paths are relative to the project root.
func pipelineConfig() types.PipelineConfig {
	cfg := types.DefaultPipelineConfig()

	setDefaults := map[string]any{
		"scan.chapters_dir":        cfg.Scan.ChaptersDir,
		"scan.sims_dir":            cfg.Scan.SimsDir,
		"scaffold.sims_dir":        cfg.Scaffold.SimsDir,
		"scaffold.default_library": cfg.Scaffold.DefaultLibrary,
		"scaffold.creator":         cfg.Scaffold.Creator,
		"scaffold.subject":         cfg.Scaffold.Subject,
		"validate.sims_dir":        cfg.Validate.SimsDir,
		"validate.min_score":       cfg.Validate.MinScore,
		"nav.sims_dir":             cfg.Nav.SimsDir,
		"nav.section_name":         cfg.Nav.SectionName,
		"catalog.db_path":          cfg.Catalog.DBPath,
		"catalog.max_results":      cfg.Catalog.MaxResults,
	}
	for key, val := range setDefaults {
		viper.SetDefault(key, val)
	}

	cfg.Scan.ChaptersDir = viper.GetString("scan.chapters_dir")
	cfg.Scan.SimsDir = viper.GetString("scan.sims_dir")
	cfg.Scaffold.SimsDir = viper.GetString("scaffold.sims_dir")
	cfg.Scaffold.DefaultLibrary = viper.GetString("scaffold.default_library")
	cfg.Scaffold.Creator = viper.GetString("scaffold.creator")
	cfg.Scaffold.Subject = viper.GetString("scaffold.subject")
	cfg.Validate.SimsDir = viper.GetString("validate.sims_dir")
	cfg.Validate.MinScore = viper.GetInt("validate.min_score")
	cfg.Nav.SimsDir = viper.GetString("nav.sims_dir")
	cfg.Nav.SectionName = viper.GetString("nav.section_name")
	cfg.Catalog.DBPath = viper.GetString("catalog.db_path")
	cfg.Catalog.MaxResults = viper.GetInt("catalog.max_results")

	return cfg
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./microsim-engine.yaml or ~/.config/microsim-engine/config.yaml)")
	rootCmd.PersistentFlags().String("project-dir", "", "book project root (auto-detected from mkdocs.yml when omitted)")
	rootCmd.PersistentFlags().Bool("verbose", false, "verbose per-item output")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("microsim-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "microsim-engine"))
		}
	}

	viper.SetEnvPrefix("MICROSIM_ENGINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
