// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the curriculum-engine CLI.
// Pipeline: convert (optional page dumps), extract (PDF to records),
// then review, edit and overlay for the manual follow-up.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/curriculum-engine/internal/store"
	"github.com/pdiddy/curriculum-engine/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the curriculum-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "curriculum-engine",
	Short: "Extract structured CBC curriculum records from KICD PDFs",
	Long: `curriculum-engine turns Kenyan CBC curriculum design PDFs into one
structured record per subject and grade: strand, sub-strand, learning
outcomes, inquiry questions, learning experiences, competencies, values,
links to other subjects and pertinent contemporary issues.

Records live in a SQLite database. Each record carries a completeness
score; low scorers are flagged for review and can be corrected with
edit or a YAML overlay.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		if err := level.UnmarshalText([]byte(viper.GetString("log_level"))); err != nil {
			return fmt.Errorf("log_level: %w", err)
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./curriculum-engine.yaml or ~/.config/curriculum-engine/config.yaml)")
	rootCmd.PersistentFlags().String("db", store.DefaultDBPath, "curriculum database file")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn or error")

	_ = viper.BindPFlag("db_path", rootCmd.PersistentFlags().Lookup("db"))
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))

	viper.SetDefault("pdf_dir", types.DefaultPDFDir)
	viper.SetDefault("pages_dir", types.DefaultPagesDir)
	viper.SetDefault("backend", string(types.BackendNative))
	viper.SetDefault("review_threshold", types.DefaultReviewThreshold)
	viper.SetDefault("actor", "system")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("curriculum-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "curriculum-engine"))
		}
	}

	viper.SetEnvPrefix("CURRICULUM_ENGINE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig reads the merged configuration, fills defaults and
// validates it.
func loadConfig() (types.Config, error) {
	var cfg types.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("reading configuration: %w", err)
	}
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return types.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// openStore loads the configuration and opens the database it names.
func openStore() (*store.Store, types.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, types.Config{}, err
	}
	s, err := store.Open(cfg.Store)
	if err != nil {
		return nil, types.Config{}, err
	}
	return s, cfg, nil
}

// lockedRun opens the store, takes the writer lock and starts an audited
// run for the duration of fn.
func lockedRun(ctx context.Context, fn func(ctx context.Context, s *store.Store, cfg types.Config) error) error {
	s, cfg, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	unlock, err := s.LockWriter()
	if err != nil {
		return err
	}
	defer unlock()

	runID := s.BeginRun(cfg.Store.Actor)
	slog.Debug("writer run started", "run_id", runID, "db", s.Path(), "actor", cfg.Store.Actor)
	return fn(ctx, s, cfg)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
