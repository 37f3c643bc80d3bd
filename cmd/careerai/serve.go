package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	httpadapter "github.com/PabloGalante/careerai/internal/adapters/http"
	"github.com/PabloGalante/careerai/internal/app/interview"
	"github.com/PabloGalante/careerai/internal/app/payment"
	"github.com/PabloGalante/careerai/internal/app/profile"
	"github.com/PabloGalante/careerai/internal/config"
	"github.com/PabloGalante/careerai/internal/observability"
	"github.com/PabloGalante/careerai/internal/resume"
)

func newServeCommand(cfg *config.Config) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if port != "" {
				cfg.Port = port
			}
			return runServe(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "listen port (overrides CAREERAI_PORT)")
	return cmd
}

func runServe(ctx context.Context, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := observability.Logger()

	d, err := buildDeps(ctx, cfg)
	if err != nil {
		return err
	}
	defer d.Close()

	opts := []interview.Option{
		interview.WithAuthorizer(interview.NewPlanAuthorizer(d.profiles, d.interviews, cfg.FreeInterviewsPerDay)),
	}
	if d.events != nil {
		opts = append(opts, interview.WithEvents(d.events))
	}

	profiles := profile.NewService(d.profiles)
	var payments *payment.Service
	if d.gateway != nil {
		payments = payment.NewService(d.gateway, cfg.RazorpayKeySecret, profiles)
	}

	handler := httpadapter.NewServer(httpadapter.Deps{
		Interviews:     interview.NewService(flowsResponder(d), d.interviews, opts...),
		Flows:          d.registry,
		Profiles:       profiles,
		Payments:       payments,
		Resumes:        resume.NewLibrary(d.objects),
		RequestTimeout: cfg.RequestTimeout,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("careerai API listening", "port", cfg.Port, "mode", cfg.Mode)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
