package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pulseboard/pulseboard"
	"github.com/pulseboard/pulseboard/internal/config"
	"github.com/pulseboard/pulseboard/internal/news"
	"github.com/pulseboard/pulseboard/internal/output"
	"github.com/pulseboard/pulseboard/internal/stats"
)

var (
	configPath   string
	cfg          *config.Config
	outputFormat string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "pulseboard",
		Short: "Personal epidemic dashboard - statistics and headlines at a glance",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// init-config runs before a config exists.
			if cmd.Name() == "init-config" {
				return nil
			}
			return loadConfig()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file path (default: ./config/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "human", "output format: json, text, human")

	rootCmd.AddCommand(statsCmd())
	rootCmd.AddCommand(newsCmd())
	rootCmd.AddCommand(snapshotCmd())
	rootCmd.AddCommand(initConfigCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() error {
	if configPath == "" {
		configPath = "./config/config.yaml"
	}
	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}
	cfg = loaded
	return nil
}

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Fetch and print the current national and local figures",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			formatter := output.NewFormatter(output.Format(outputFormat), cfg.Stats.Commas)
			client := stats.NewClient()

			nationRecords, err := client.Latest(ctx, cfg.Stats.Nation, "nation")
			if err != nil {
				return fmt.Errorf("fetch national figures: %w", err)
			}
			localRecords, err := client.Latest(ctx, cfg.Stats.AreaName, cfg.Stats.AreaType)
			if err != nil {
				return fmt.Errorf("fetch local figures: %w", err)
			}

			return formatter.OutputStats(&output.StatsReport{
				National: stats.Summarize(nationRecords),
				Local:    stats.Summarize(localRecords),
			})
		},
	}
}

func newsCmd() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "news",
		Short: "Search and print the current headlines",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			formatter := output.NewFormatter(output.Format(outputFormat), cfg.Stats.Commas)
			client := news.NewClient(cfg.News.APIKey, cfg.News.DisplayedContent)

			articles, err := client.Search(ctx, cfg.News.Queries, cfg.News.Language, cfg.News.SortBy)
			if err != nil {
				return fmt.Errorf("fetch news: %w", err)
			}
			if !all {
				articles = news.Visible(articles, nil, cfg.News.MaxArticles, cfg.News.NoArticlesMessage)
			}
			return formatter.OutputArticleList(articles)
		},
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "print the full result set instead of the dashboard window")
	return cmd
}

func snapshotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot",
		Short: "Load the dashboard once and print it as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			d := pulseboard.NewDashboard(cfg)
			if err := d.Load(ctx); err != nil {
				return err
			}
			snap := d.Snapshot()

			formatter := output.NewFormatter(output.Format(outputFormat), cfg.Stats.Commas)
			if outputFormat != string(output.FormatJSON) {
				formatter.Warning("snapshot always prints JSON")
			}
			return printJSON(snap)
		},
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func initConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init-config",
		Short: "Create a default config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				configPath = "./config/config.yaml"
			}

			dir := filepath.Dir(configPath)
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("failed to create config directory: %w", err)
			}

			if _, err := os.Stat(configPath); err == nil {
				return fmt.Errorf("config file already exists: %s", configPath)
			}

			if err := config.Default().Write(configPath); err != nil {
				return err
			}

			fmt.Printf("Created default config at %s\n", configPath)
			fmt.Println("Add your news API key before starting the dashboard.")
			return nil
		},
	}
}
