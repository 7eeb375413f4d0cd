package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"rijkslens/config"
	"rijkslens/providers/rijks"
	"rijkslens/services"
)

// lensctl ist das Entwickler-Werkzeug: einzelne Objektnummern auflösen und
// Bild-URLs prüfen, ohne den Server zu starten.
func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lensctl",
		Short: "Developer tool for inspecting Rijksmuseum collection records",
		Long: `lensctl resolves single object numbers against the Rijksmuseum Data
Services and probes image URLs, using the same mapping pipeline as the server.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(newResolveCmd())
	cmd.AddCommand(newProbeCmd())
	return cmd
}

func buildDeps() (*config.Config, *zap.Logger, *rijks.Client, error) {
	logger, err := zap.NewDevelopment()
	if err != nil {
		return nil, nil, nil, err
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, logger, rijks.NewClient(cfg, logger), nil
}

func newResolveCmd() *cobra.Command {
	var rawOnly bool

	cmd := &cobra.Command{
		Use:   "resolve <object-number>",
		Short: "Resolve an object number and print the raw and mapped record",
		Example: `  # Resolve the Night Watch
  lensctl resolve SK-C-5

  # Only print the raw Linked Art document
  lensctl resolve SK-C-5 --raw`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, client, err := buildDeps()
			if err != nil {
				return err
			}
			defer logger.Sync()

			heuristics := services.LoadHeuristics(cfg.HeuristicsFile)
			scraper := services.NewPageScraper(client, logger, heuristics)
			mapper := services.NewRecordMapper(logger, scraper, heuristics, cfg.CollectionBaseURL, cfg.ImageTargetWidth)
			artworks := services.NewArtworkService(client, mapper, nil, logger)

			ctx := context.Background()
			raw, err := artworks.FetchRawRecord(ctx, args[0])
			if err != nil {
				return fmt.Errorf("resolving %s: %w", args[0], err)
			}

			rawJSON, err := json.MarshalIndent(raw, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(rawJSON))
			if rawOnly {
				return nil
			}

			art := mapper.MapRecord(ctx, raw)
			mappedJSON, err := json.MarshalIndent(art, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println("---")
			fmt.Println(string(mappedJSON))
			return nil
		},
	}

	cmd.Flags().BoolVar(&rawOnly, "raw", false, "only print the raw Linked Art document")
	return cmd
}

func newProbeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "probe <url>",
		Short: "Check whether an image URL actually serves an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, client, err := buildDeps()
			if err != nil {
				return err
			}
			defer logger.Sync()

			prober := services.NewImageProber(client.ProbeClient(), logger, cfg.ProbeCacheTTL())
			result := prober.Probe(context.Background(), args[0])

			out, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
}
