package cmd

import (
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/blacktop/imagecraft/internal/store"
	"github.com/blacktop/imagecraft/internal/tui"
)

var generateCmd = &cobra.Command{
	Use:   "generate <prompt>",
	Short: "Generate one image and save it without the TUI",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		conf, err := newConfig()
		if err != nil {
			logger.Error("Invalid configuration", "err", err)
			os.Exit(1)
		}
		client, err := conf.client(logger)
		if err != nil {
			logger.Error("Invalid endpoint", "err", err, "endpoint", conf.Endpoint)
			os.Exit(1)
		}
		if err := runGenerate(cmd.Context(), client, conf, strings.Join(args, " ")); err != nil {
			logger.Error("Image generation failed", "err", err)
			os.Exit(1)
		}
	},
}

func runGenerate(ctx context.Context, gen store.Generator, conf *config, text string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	s := store.New(gen, store.WithSettings(conf.Settings), store.WithLogger(logger))

	logger.Info("Generating image", "prompt", text, "settings", conf.Settings)
	img, err := s.Generate(ctx, text)
	if err != nil {
		return err
	}
	data, err := tui.ImageBytes(ctx, conf.httpClient(), img.URL)
	if err != nil {
		return err
	}
	path, err := tui.SaveImage(conf.OutputFolder, *img, data)
	if err != nil {
		return err
	}
	logger.Info("Image saved", "path", path, "id", img.ID)
	return nil
}
