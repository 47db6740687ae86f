package commands

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/BouramaNG/designfrontwaw-sub001/internal/backend"
	"github.com/BouramaNG/designfrontwaw-sub001/internal/config"
	"github.com/BouramaNG/designfrontwaw-sub001/internal/service"
	"github.com/BouramaNG/designfrontwaw-sub001/internal/session"
)

// app is what every subcommand works with once the root has run.
type app struct {
	session  *session.Session
	packages *service.PackageService
	orders   *service.OrderService
}

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	var (
		stateDir   string
		backendURL string
		timeout    time.Duration
		verbose    bool
	)
	a := &app{}

	root := &cobra.Command{
		Use:           "esimctl",
		Short:         "Browse eSIM destinations and check orders from the terminal",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if stateDir == "" {
				dir, err := os.UserHomeDir()
				if err != nil {
					return err
				}
				stateDir = filepath.Join(dir, ".esim")
			}
			if backendURL == "" || timeout == 0 {
				cfg, err := config.New()
				if err != nil {
					return err
				}
				if backendURL == "" {
					backendURL = cfg.Backend.BaseURL
				}
				if timeout == 0 {
					timeout = cfg.Backend.Timeout
				}
			}

			level := slog.LevelError
			if verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

			a.session = session.New(session.NewFileStore(stateDir))
			client := backend.New(backend.Config{BaseURL: backendURL, Timeout: timeout}, a.session, logger)
			a.packages = service.NewPackageService(client, logger)
			a.orders = service.NewOrderService(client, logger)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&stateDir, "state-dir", "", "session directory (default ~/.esim)")
	root.PersistentFlags().StringVar(&backendURL, "backend", "", "backend base URL (default BACKEND_BASE_URL)")
	root.PersistentFlags().DurationVar(&timeout, "timeout", 0, "request timeout (default BACKEND_TIMEOUT)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log backend calls to stderr")

	root.AddCommand(loginCmd(a), logoutCmd(a), destinationsCmd(a), packageCmd(a), statusCmd(a))
	return root
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
