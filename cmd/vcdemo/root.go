package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/pilacorp/go-credential-engine/credential/validator"
)

const (
	defaultAddr     = "127.0.0.1:8000"
	shutdownTimeout = 5 * time.Second
)

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "vcdemo",
		Short:         "Demo server for building and validating verifiable presentations",
		SilenceUsage:  true,
		SilenceErrors: true,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.HelpFunc()(cmd, args)
		},
	}

	var verbose bool
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentPreRun = func(_ *cobra.Command, _ []string) {
		logrus.SetFormatter(&logrus.JSONFormatter{})
		if verbose {
			logrus.SetLevel(logrus.DebugLevel)
		}
	}

	root.AddCommand(newServeCommand(), newKeygenCommand())
	return root
}

func newServeCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Starts the demo HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return serve(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "address to listen on")
	return cmd
}

func serve(ctx context.Context, addr string) error {
	log := logrus.WithField("addr", addr)
	h := newHandler(validator.SystemClock(), log)

	server := &http.Server{
		Addr:              addr,
		Handler:           otelhttp.NewHandler(h.routes(), "vcdemo"),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Starting demo server")
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down demo server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
