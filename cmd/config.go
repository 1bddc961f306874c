package cmd

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/blacktop/imagecraft/internal/gallery"
	"github.com/blacktop/imagecraft/internal/generate"
)

const endpointEnv = "IMAGECRAFT_ENDPOINT"

type config struct {
	Endpoint     string
	Settings     gallery.Settings
	OutputFolder string
	HTTPClient   *http.Client // shared by generation requests and image fetches
}

// newConfig resolves the flags and environment into a validated config.
func newConfig() (*config, error) {
	conf := &config{OutputFolder: outputFolder, HTTPClient: &http.Client{}}

	var err error
	if conf.Settings.Style, err = gallery.ParseStyle(style); err != nil {
		return nil, err
	}
	if conf.Settings.Dimensions, err = gallery.ParseDimensions(dimensions); err != nil {
		return nil, err
	}
	if conf.Settings.Quality, err = gallery.ParseQuality(quality); err != nil {
		return nil, err
	}

	conf.Endpoint = endpoint
	if conf.Endpoint == "" {
		conf.Endpoint = os.Getenv(endpointEnv)
	}
	if conf.Endpoint == "" {
		return nil, fmt.Errorf("no endpoint configured: use --endpoint or set %s", endpointEnv)
	}
	return conf, nil
}

func (c *config) client(l *log.Logger) (*generate.Client, error) {
	return generate.New(c.Endpoint,
		generate.WithHTTPClient(c.HTTPClient),
		generate.WithTimeout(timeout),
		generate.WithSettings(sendSettings),
		generate.WithLogger(l),
	)
}

func (c *config) httpClient() *http.Client {
	if c.HTTPClient == nil {
		return http.DefaultClient
	}
	return c.HTTPClient
}

// loadDotEnv loads .env from the working directory and then from
// ~/.config/imagecraft. Missing files are not an error and variables that are
// already set win.
func loadDotEnv() error {
	paths := []string{".env"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "imagecraft", ".env"))
	}
	for _, path := range paths {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			continue
		} else if err != nil {
			return fmt.Errorf("failed to check if %s exists: %w", path, err)
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("could not load %s: %w", path, err)
		}
		logger.Debug("Loaded environment", "path", path)
	}
	return nil
}
