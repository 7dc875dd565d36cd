package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	spritesort "github.com/anatolykoptev/go-spritesort"
	"github.com/anatolykoptev/go-spritesort/internal/config"
	"github.com/anatolykoptev/go-spritesort/internal/objstore"
)

type runOptions struct {
	concurrency int
	baseURL     string
	inspect     bool
	publish     bool
}

func newRunCmd(root *rootOptions) *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run [source] [dest]",
		Short: "Classify every sprite in source and copy it into dest/<category>",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.load()
			if err != nil {
				return err
			}
			if len(args) > 0 {
				cfg.SourceDir = args[0]
			}
			if len(args) > 1 {
				cfg.DestDir = args[1]
			}
			if cmd.Flags().Changed("concurrency") {
				cfg.API.Concurrency = opts.concurrency
			}
			if cmd.Flags().Changed("base-url") {
				cfg.API.BaseURL = opts.baseURL
			}
			if cmd.Flags().Changed("inspect") {
				cfg.Inspect = opts.inspect
			}
			if cmd.Flags().Changed("publish") {
				cfg.Publish.Enabled = opts.publish
			}
			if cfg.SourceDir == "" {
				return errors.New("source directory is required (argument or source_dir)")
			}
			return runSort(cmd, cfg)
		},
	}
	cmd.Flags().IntVar(&opts.concurrency, "concurrency", spritesort.DefaultConcurrency, "Maximum lookups in flight")
	cmd.Flags().StringVar(&opts.baseURL, "base-url", spritesort.DefaultBaseURL, "Lookup service base URL")
	cmd.Flags().BoolVar(&opts.inspect, "inspect", false, "Probe copied images and write manifest.json")
	cmd.Flags().BoolVar(&opts.publish, "publish", false, "Mirror the sorted tree to the configured bucket")
	return cmd
}

func runSort(cmd *cobra.Command, cfg *config.Config) error {
	ctx := cmd.Context()
	logger := newLogger(cfg.Log, os.Stderr)

	rules, err := toRules(cfg.Rules)
	if err != nil {
		return err
	}

	sorter := &spritesort.Config{
		Resolver: &spritesort.HTTPResolver{
			BaseURL:    cfg.API.BaseURL,
			HTTPClient: http.DefaultClient,
			UserAgent:  cfg.API.UserAgent,
			Timeout:    cfg.API.Timeout,
			MaxRetries: cfg.API.Retries,
			Limiter:    spritesort.NewRateLimiter(cfg.API.RateLimit, cfg.API.Burst),
		},
		Concurrency: cfg.API.Concurrency,
		Rules:       rules,
		Inspect:     cfg.Inspect,
		Logger:      logger,
	}

	report, err := sorter.Run(ctx, cfg.SourceDir, cfg.DestDir)
	if err != nil {
		return fmt.Errorf("sort sprites: %w", err)
	}
	if _, err := report.WriteTo(cmd.OutOrStdout()); err != nil {
		return err
	}
	logger.Info("run finished",
		"total", report.Total,
		"errors", report.Count(spritesort.Errored),
		"lookups", report.Lookups,
		"elapsed", report.Elapsed.String())

	if !cfg.Publish.Enabled {
		return nil
	}
	client, err := objstore.NewClient(cfg.Publish)
	if err != nil {
		return err
	}
	if err := client.EnsureBucket(ctx); err != nil {
		return err
	}
	n, err := objstore.Mirror(ctx, client, cfg.DestDir, cfg.Publish.Prefix, cfg.Publish.Parallelism)
	if err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	logger.Info("published sorted tree", "bucket", client.Bucket(), "objects", n)
	return nil
}

func toRules(rcs []config.RuleConfig) ([]spritesort.Rule, error) {
	if len(rcs) == 0 {
		return nil, nil
	}
	rules := make([]spritesort.Rule, 0, len(rcs))
	for _, rc := range rcs {
		rules = append(rules, spritesort.Rule{
			Category:   spritesort.Category(rc.Category),
			Attributes: rc.Attributes,
		})
	}
	if _, err := spritesort.NewClassifier(rules); err != nil {
		return nil, err
	}
	return rules, nil
}
