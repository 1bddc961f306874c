/*
Copyright © 2024-2025 blacktop

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/blacktop/imagecraft/internal/gallery"
	"github.com/blacktop/imagecraft/internal/tui"
)

var (
	// flags
	logger       *log.Logger
	verbose      bool
	endpoint     string
	style        string
	dimensions   string
	quality      string
	outputFolder string
	protocol     string
	timeout      time.Duration
	sendSettings bool
	logFile      string
	prompt       string
	// choices
	validStyles     = choices(gallery.AllStyles)
	validDimensions = choices(gallery.AllDimensions)
	validQualities  = choices(gallery.AllQualities)
	validProtocols  = tui.ValidProtocols()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "imagecraft",
	Short: "AI image generator TUI",
	Args:  cobra.NoArgs,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			logger.SetLevel(log.DebugLevel)
		}
		return loadDotEnv()
	},
	Run: func(cmd *cobra.Command, args []string) {
		if !slices.Contains(validProtocols, protocol) {
			logger.Error(fmt.Sprintf("Invalid protocol (must be one of: %s)", strings.Join(validProtocols, ", ")), "protocol", protocol)
			os.Exit(1)
		}
		conf, err := newConfig()
		if err != nil {
			logger.Error("Invalid configuration", "err", err)
			os.Exit(1)
		}
		// the alternate screen owns the terminal, so logs go to a file or nowhere
		tuiLogger, closeLog, err := fileLogger(logFile)
		if err != nil {
			logger.Error("Unable to open log file", "err", err, "path", logFile)
			os.Exit(1)
		}
		defer closeLog()

		client, err := conf.client(tuiLogger)
		if err != nil {
			logger.Error("Invalid endpoint", "err", err, "endpoint", conf.Endpoint)
			os.Exit(1)
		}
		tuiLogger.Info("Starting imagecraft", "endpoint", client.Endpoint(), "settings", conf.Settings)

		p := tea.NewProgram(tui.New(tui.Config{
			Generator:    client,
			Settings:     conf.Settings,
			Prompt:       prompt,
			OutputFolder: conf.OutputFolder,
			Protocol:     protocol,
			Logger:       tuiLogger,
			HTTPClient:   conf.httpClient(),
		}), tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			logger.Error("Error running program", "err", err)
			os.Exit(1)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func choices[T ~string](all []T) []string {
	out := make([]string, len(all))
	for i, v := range all {
		out[i] = string(v)
	}
	return out
}

// fileLogger returns a logger writing to path, or a discarding one when path is empty.
func fileLogger(path string) (*log.Logger, func(), error) {
	if path == "" {
		return log.New(io.Discard), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, err
	}
	l := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Level:           logger.GetLevel(),
	})
	return l, func() { f.Close() }, nil
}

func init() {
	// Override the default error level style.
	styles := log.DefaultStyles()
	styles.Levels[log.ErrorLevel] = lipgloss.NewStyle().
		SetString("ERROR!!").
		Padding(0, 1, 0, 1).
		Background(lipgloss.Color("204")).
		Foreground(lipgloss.Color("0"))
	// Add a custom style for key `err`
	styles.Keys["err"] = lipgloss.NewStyle().Foreground(lipgloss.Color("204"))
	styles.Values["err"] = lipgloss.NewStyle().Bold(true)
	logger = log.New(os.Stderr)
	logger.SetStyles(styles)

	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&verbose, "verbose", "V", false, "Verbose output")
	pf.StringVar(&endpoint, "endpoint", "", "Image generation endpoint URL (overrides "+endpointEnv+" env_var)")
	pf.StringVarP(&style, "style", "s", string(gallery.StyleRealistic), "Image style ("+strings.Join(validStyles, ", ")+")")
	pf.StringVarP(&dimensions, "dimensions", "d", string(gallery.DimensionsSquare), "Image dimensions ("+strings.Join(validDimensions, ", ")+")")
	pf.StringVarP(&quality, "quality", "q", string(gallery.QualityHigh), "Image quality ("+strings.Join(validQualities, ", ")+")")
	pf.StringVarP(&outputFolder, "output", "o", "", "Output folder")
	pf.DurationVar(&timeout, "timeout", 0, "Request timeout (0 waits for the endpoint)")
	pf.BoolVar(&sendSettings, "send-settings", false, "Send style, dimensions and quality with the prompt")
	rootCmd.MarkPersistentFlagDirname("output")

	rootCmd.Flags().StringVarP(&prompt, "prompt", "p", "", "Prompt to prefill")
	rootCmd.Flags().StringVar(&protocol, "protocol", "auto", "Inline image protocol ("+strings.Join(validProtocols, ", ")+")")
	rootCmd.Flags().StringVar(&logFile, "log-file", "", "Write logs to this file while the TUI is running")

	rootCmd.AddCommand(generateCmd)
}
