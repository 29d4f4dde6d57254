package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/nurpe/contracts-panel/internal/client"
	"github.com/nurpe/contracts-panel/internal/config"
	"github.com/nurpe/contracts-panel/internal/consistency"
	"github.com/nurpe/contracts-panel/internal/logger"
	"github.com/nurpe/contracts-panel/internal/table"
	"github.com/nurpe/contracts-panel/internal/tui"
)

var errNotTerminal = errors.New("browse needs an interactive terminal")

type browseFlags struct {
	api      string
	token    string
	timeout  time.Duration
	pageSize int
	search   string
	logFile  string
}

func newBrowseCmd() *cobra.Command {
	var flags browseFlags

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse the contracts table in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !term.IsTerminal(int(os.Stdout.Fd())) {
				return errNotTerminal
			}

			cfg, err := config.LoadClient(config.APIConfig{
				BaseURL: flags.api,
				Token:   flags.token,
				Timeout: flags.timeout,
			})
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if flags.pageSize < 0 {
				return fmt.Errorf("page-size must be >= 0, got %d", flags.pageSize)
			}

			log, closeLog, err := browseLogger(cfg, flags.logFile)
			if err != nil {
				return err
			}
			defer closeLog()

			pageSize := flags.pageSize
			if pageSize == 0 {
				pageSize = cfg.Table.PageSize
			}

			model := tui.NewModel(cmd.Context(), client.New(cfg.API, log), table.Options{
				PageSize:    pageSize,
				MaxPageSize: cfg.Table.MaxPageSize,
				Search:      flags.search,
				Checker:     consistency.NewChecker(log),
			}, log)

			log.Info().Str("api", cfg.API.BaseURL).Int("page_size", pageSize).Msg("browsing contracts")
			if _, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run(); err != nil {
				return fmt.Errorf("failed to run interactive table: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.api, "api", "", "base URL of a running contracts-panel service (overrides API_BASE_URL)")
	cmd.Flags().StringVar(&flags.token, "token", "", "bearer token for the JSON API (overrides API_TOKEN)")
	cmd.Flags().DurationVar(&flags.timeout, "timeout", 0, "request timeout (0 = API_TIMEOUT)")
	cmd.Flags().IntVar(&flags.pageSize, "page-size", 0, "initial page size (0 = TABLE_PAGE_SIZE)")
	cmd.Flags().StringVar(&flags.search, "search", "", "initial search term")
	cmd.Flags().StringVar(&flags.logFile, "log-file", "", "write logs to this file")

	return cmd
}

// browseLogger writes to a file, if one was given, since stdout belongs to the
// terminal UI.
func browseLogger(cfg *config.Config, path string) (zerolog.Logger, func(), error) {
	if path == "" {
		return zerolog.Nop(), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("open log file: %w", err)
	}
	return logger.NewWithWriter(cfg.Environment, cfg.LogLevel, f), func() { _ = f.Close() }, nil
}
