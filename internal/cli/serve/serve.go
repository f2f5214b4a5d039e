package serve

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/GustavoCaso/spendwatch/internal/cli"
	"github.com/GustavoCaso/spendwatch/internal/router"
)

const (
	defaultTimeout  = 3 * time.Second
	shutdownTimeout = 10 * time.Second
)

func NewCommand(env *cli.Env) *cobra.Command {
	var address string
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if address == "" {
				address = env.Config.Server.Address
			}

			listener, err := net.Listen("tcp", address)
			if err != nil {
				return fmt.Errorf("failed to listen on %s: %w", address, err)
			}

			server := &http.Server{
				Handler:           router.New(env.Service, env.Config.Server, env.Logger),
				ReadHeaderTimeout: timeout,
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Listening on http://%s\n", listener.Addr())
			return run(cmd.Context(), server, listener)
		},
	}

	cmd.Flags().StringVarP(&address, "address", "a", "", "address to listen on, defaults to server.address")
	cmd.Flags().DurationVarP(&timeout, "timeout", "t", defaultTimeout, "read header timeout")
	return cmd
}

// run serves until ctx is cancelled and then drains in-flight requests.
func run(ctx context.Context, server *http.Server, listener net.Listener) error {
	errs := make(chan error, 1)
	go func() {
		errs <- server.Serve(listener)
	}()

	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	return nil
}
