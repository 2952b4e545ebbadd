package cmd

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	apihttp "vineyard-planner/internal/api/http"
	"vineyard-planner/internal/audit"
	"vineyard-planner/internal/auth"
	"vineyard-planner/internal/config"
	"vineyard-planner/internal/fermentation/application"
	fermentationrepo "vineyard-planner/internal/fermentation/infrastructure/postgres"
	fermentationhttp "vineyard-planner/internal/fermentation/interfaces/http"
	"vineyard-planner/internal/fermentation/notify"
	"vineyard-planner/internal/observability/metrics"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the advisory HTTP API and run the sweep scheduler",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(viper.GetViper())
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx, cfg)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("listen", "", "HTTP listen address (overrides HTTP_ADDR)")
	serveCmd.Flags().Duration("sweep-interval", 0, "Interval between advisory sweeps (overrides ADVISORY_SWEEP_INTERVAL)")
	_ = viper.BindPFlag(config.KeyHTTPAddr, serveCmd.Flags().Lookup("listen"))
	_ = viper.BindPFlag(config.KeySweepInterval, serveCmd.Flags().Lookup("sweep-interval"))
}

func serve(ctx context.Context, cfg config.Config) error {
	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		return err
	}

	metrics.Init(db, logger)
	auditRepo := audit.NewRepository(db)

	var notifiers []application.AdvisoryNotifier
	notifiers = append(notifiers, notify.LogNotifier{Logger: logger})
	if cfg.WebhookURL != "" {
		channel, err := notify.NewWebhookChannel(cfg.WebhookURL)
		if err != nil {
			return err
		}
		tpl, err := notify.NewTemplate(cfg.NotifyTemplate)
		if err != nil {
			return err
		}
		opts := []notify.Option{
			notify.WithCooldown(cfg.NotifyCooldown),
			notify.WithDedupeWindow(cfg.NotifyDedupeWindow),
			notify.WithLogger(logger),
		}
		if cfg.LotBaseURL != "" {
			base := cfg.LotBaseURL
			opts = append(opts, notify.WithLotURLResolver(func(lotID string) string {
				return base + "/" + lotID
			}))
		}
		webhook, err := notify.NewNotifier(channel, tpl, opts...)
		if err != nil {
			return err
		}
		notifiers = append(notifiers, webhook)
	}

	service, err := application.NewService(
		fermentationrepo.NewLotRepository(db),
		fermentationrepo.NewLogRepository(db),
		fermentationrepo.NewEventRepository(db),
		application.WithNotifier(notify.NewMultiNotifier(notifiers...)),
		application.WithLogger(logger),
		application.WithConcurrency(cfg.SweepConcurrency),
	)
	if err != nil {
		return err
	}
	advisoryHandler, err := fermentationhttp.NewHandler(service, auditRepo, logger)
	if err != nil {
		return err
	}

	scheduler := application.NewScheduler(service, cfg.SweepInterval, logger)
	go scheduler.Start(ctx)

	policy := auth.NewDefaultPolicy([]string{"/healthz", "/metrics"}, nil)
	authMiddleware := auth.NewMiddleware([]byte(cfg.JWTSecret), policy, auth.WithRejectLogger(logger))

	mux := http.NewServeMux()
	advisoryHandler.Register(mux)
	mux.Handle("/api/v1/calculators/", apihttp.NewCalculatorsHandler())
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", apihttp.Healthz)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           apihttp.LoggingMiddleware(authMiddleware.Wrap(mux), logger),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Infof("http listening on %s", cfg.HTTPAddr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info("shutting down")
		return server.Shutdown(shutdownCtx)
	}
}
