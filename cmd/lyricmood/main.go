package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/chriscorrea/lyricmood/internal/app"
	"github.com/chriscorrea/lyricmood/internal/config"
	"github.com/chriscorrea/lyricmood/internal/mood"
	"github.com/chriscorrea/lyricmood/internal/query"
	"github.com/chriscorrea/lyricmood/internal/server"

	"github.com/spf13/cobra"
)

// loadConfig reads the config file named by --config and applies flag overrides.
func loadConfig(cmd *cobra.Command) (config.File, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.File{}, err
	}

	// flags win over the file only when set explicitly
	flags := cmd.Flags()
	if flags.Changed("corpus") {
		cfg.Corpus, _ = flags.GetString("corpus")
	}
	if flags.Changed("dataset") {
		cfg.Dataset, _ = flags.GetString("dataset")
	}
	if flags.Changed("index") {
		cfg.Index, _ = flags.GetString("index")
	}
	if flags.Changed("log-dir") {
		cfg.LogDir, _ = flags.GetString("log-dir")
	}
	if flags.Changed("stem") {
		cfg.Stem, _ = flags.GetBool("stem")
	}
	if flags.Changed("ranker") {
		cfg.Ranker, _ = flags.GetString("ranker")
	}

	return cfg, cfg.Validate()
}

// buildConfig constructs an app.Config from command flags and arguments
func buildConfig(cmd *cobra.Command, args []string) (app.Config, error) {
	file, err := loadConfig(cmd)
	if err != nil {
		return app.Config{}, err
	}

	// the scope argument overrides the configured scope
	if len(args) > 0 {
		file.Scope = args[0]
	}

	cfg, err := app.FromFile(file)
	if err != nil {
		return app.Config{}, err
	}

	cfg.Quiet, _ = cmd.Flags().GetBool("quiet")
	return cfg, nil
}

// setupLogger configures the default slog logger based on debug mode
func setupLogger(debug bool) {
	var level slog.Level
	if debug {
		level = slog.LevelDebug
	} else {
		level = slog.LevelError
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}

// loadEngine builds the query engine from the configured index and dataset.
func loadEngine(cfg config.File) (*query.Engine, error) {
	ranker, err := query.ParseRanker(cfg.Ranker)
	if err != nil {
		return nil, err
	}
	return query.Load(cfg.Index, cfg.Dataset, ranker)
}

var rootCmd = &cobra.Command{
	Use:   "lyricmood",
	Short: "Recommend songs by mood and keywords",
	Long: `Lyricmood categorizes a lyrics corpus into five moods with sentiment analysis,
indexes each mood for keyword search, and recommends songs for a mood and a few keywords.

Examples:
  lyricmood prepare verse
  lyricmood query --mood 4 blue skies
  lyricmood serve --addr :8080`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		debug, _ := cmd.Flags().GetBool("debug")
		setupLogger(debug)
	},
}

var prepareCmd = &cobra.Command{
	Use:   "prepare [full|verse|line]",
	Short: "Categorize the corpus and build the search indexes",
	Long: `Prepare walks the corpus (letter/artist/album/song), scores the sentiment of every
English song with enough lyrics, writes the dataset CSV and a run log, then builds
one search index per mood. The scope sets how sentiment is aggregated:
  full   score the whole lyrics at once
  verse  average the verses, ignoring neutral ones (default)
  line   average every line`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// an invalid scope halts here, before any file is scanned
		cfg, err := buildConfig(cmd, args)
		if err != nil {
			return fmt.Errorf("configuration error: %w", err)
		}

		// create context with signal handling for graceful shutdown
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		report, err := app.Run(ctx, cfg)
		if !cfg.Quiet && report.Processed() > 0 {
			fmt.Fprintln(os.Stderr)
			report.WriteSummary(os.Stderr)
		}
		if err != nil {
			return fmt.Errorf("prepare failed: %w", err)
		}
		return nil
	},
}

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Rebuild the search indexes from the dataset",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := buildConfig(cmd, nil)
		if err != nil {
			return fmt.Errorf("configuration error: %w", err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		if _, err := app.BuildIndexes(ctx, cfg); err != nil {
			return fmt.Errorf("index failed: %w", err)
		}
		if !cfg.Quiet {
			fmt.Fprintln(os.Stderr, "Indexes created successfully.")
		}
		return nil
	},
}

var queryCmd = &cobra.Command{
	Use:   "query --mood N keywords...",
	Short: "Recommend songs for a mood and keywords",
	Long: `Query ranks the songs of one mood by relevance to the keywords.
Moods: 1 very sad, 2 sad, 3 neutral, 4 happy, 5 very happy.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return fmt.Errorf("configuration error: %w", err)
		}

		moodArg, _ := cmd.Flags().GetInt("mood")
		n, _ := cmd.Flags().GetInt("results")
		if !cmd.Flags().Changed("results") {
			n = cfg.Results
		}

		engine, err := loadEngine(cfg)
		if err != nil {
			return fmt.Errorf("failed to load indexes: %w", err)
		}

		b := mood.Bucket(moodArg)
		recs, err := engine.Recommend(b, strings.Join(args, " "), n)
		if err != nil {
			return err
		}

		quiet, _ := cmd.Flags().GetBool("quiet")
		if !quiet {
			fmt.Fprintf(os.Stderr, "Top %d %s songs:\n", len(recs), b.Label())
		}
		for i, rec := range recs {
			fmt.Fprintf(cmd.OutOrStdout(), "%2d. %s - %s\n", i+1, rec.Title, rec.Artist)
		}
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve recommendations over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return fmt.Errorf("configuration error: %w", err)
		}
		if cmd.Flags().Changed("addr") {
			cfg.Server.Addr, _ = cmd.Flags().GetString("addr")
		}

		engine, err := loadEngine(cfg)
		if err != nil {
			return fmt.Errorf("failed to load indexes: %w", err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		srv := server.New(server.Config{Addr: cfg.Server.Addr, Results: cfg.Results}, engine)
		fmt.Fprintf(os.Stderr, "Listening on %s\n", cfg.Server.Addr)
		return srv.Run(ctx)
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Path to a YAML configuration file")
	flags.String("corpus", "", "Corpus root directory (default: database_source)")
	flags.String("dataset", "", "Dataset CSV file (default: music.csv)")
	flags.String("index", "", "Index store file (default: bm25.json)")
	flags.String("log-dir", "", "Directory for run logs (default: logs)")
	flags.Bool("stem", false, "Stem words when building and querying indexes")
	flags.String("ranker", "", "Query ranker: okapi or fielded (default: okapi)")
	flags.BoolP("quiet", "q", false, "Suppress output messages")
	flags.BoolP("debug", "D", false, "Enable debug logging")
	_ = flags.MarkHidden("debug")

	queryCmd.Flags().IntP("mood", "m", 0, "Mood from 1 (very sad) to 5 (very happy)")
	queryCmd.Flags().IntP("results", "n", 10, "Number of songs to recommend")
	_ = queryCmd.MarkFlagRequired("mood")

	serveCmd.Flags().String("addr", server.DefaultAddr, "Listen address")

	rootCmd.AddCommand(prepareCmd, indexCmd, queryCmd, serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
