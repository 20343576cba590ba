package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/reftrack/reftrack/internal/config"
	"github.com/reftrack/reftrack/internal/domain/activitylog"
	"github.com/reftrack/reftrack/internal/domain/hospital"
	"github.com/reftrack/reftrack/internal/domain/location"
	"github.com/reftrack/reftrack/internal/domain/masterdata"
	"github.com/reftrack/reftrack/internal/domain/referral"
	"github.com/reftrack/reftrack/internal/domain/staff"
	"github.com/reftrack/reftrack/internal/platform/auth"
	"github.com/reftrack/reftrack/internal/platform/blobstore"
	"github.com/reftrack/reftrack/internal/platform/db"
	"github.com/reftrack/reftrack/internal/platform/middleware"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "reftrack-server",
		Short: "Referral tracking API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

func runServer() error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// Blob storage backend
	var store blobstore.BlobStore
	switch cfg.BlobBackend {
	case "minio":
		store, err = blobstore.NewMinioBlobStore(ctx, cfg.MinioEndpoint, cfg.MinioAccess, cfg.MinioSecret, cfg.MinioBucket, cfg.MinioUseSSL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to minio")
		}
		logger.Info().Str("endpoint", cfg.MinioEndpoint).Msg("using minio blob storage")
	default:
		store = blobstore.NewInMemoryBlobStore()
		logger.Warn().Msg("using in-memory blob storage; uploads will not survive a restart")
	}

	issuer := auth.NewTokenIssuer(
		[]byte(cfg.JWTSecret), cfg.JWTIssuer, cfg.JWTAudience,
		time.Duration(cfg.JWTTTLMinutes)*time.Minute,
	)

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Activity log, wired into the audit middleware below.
	activityRepo := activitylog.NewRepo(pool)
	activitySvc := activitylog.NewService(activityRepo)
	recorder := activitylog.NewRecorder(activitySvc, logger)

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(middleware.RequestTimeout(30 * time.Second))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
	}))
	e.Use(auth.Middleware(auth.Config{
		Secret:     []byte(cfg.JWTSecret),
		Issuer:     cfg.JWTIssuer,
		Audience:   cfg.JWTAudience,
		CookieName: cfg.AuthCookie,
	}))
	e.Use(middleware.Audit(logger, recorder))

	// Health checks
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok", "version": "0.1.0"})
	})
	e.GET("/health/db", db.HealthHandler(pool))

	apiV1 := e.Group("/api/v1")

	inTx := func(ctx context.Context, fn func(ctx context.Context) error) error {
		return db.WithTx(ctx, pool, fn)
	}

	// Master data
	lookupRepo := masterdata.NewLookupRepo(pool)
	conditionRepo := masterdata.NewMedicalConditionRepo(pool)
	masterSvc := masterdata.NewService(lookupRepo, conditionRepo)
	masterdata.NewHandler(masterSvc).RegisterRoutes(apiV1)

	// Locations
	stateRepo := location.NewStateRepo(pool)
	districtRepo := location.NewDistrictRepo(pool)
	blockRepo := location.NewBlockRepo(pool)
	locationSvc := location.NewService(stateRepo, districtRepo, blockRepo)
	location.NewHandler(locationSvc).RegisterRoutes(apiV1)

	// Hospitals and medical service units
	hospitalRepo := hospital.NewHospitalRepo(pool)
	msuRepo := hospital.NewMSURepo(pool)
	inchargeRepo := hospital.NewInchargeRepo(pool)
	hospitalSvc := hospital.NewService(hospitalRepo, msuRepo, inchargeRepo, inTx)
	hospital.NewHandler(hospitalSvc).RegisterRoutes(apiV1)

	// Staff users and auth
	staffRepo := staff.NewStaffRepo(pool)
	assocRepo := staff.NewAssociationRepo(pool)
	eduRepo := staff.NewEducationRepo(pool)
	staffSvc := staff.NewService(staffRepo, assocRepo, eduRepo)
	staff.NewHandler(staffSvc, issuer, cfg.AuthCookie).RegisterRoutes(apiV1)

	// Referrals, case files, follow-ups
	caseFileRepo := referral.NewCaseFileRepo(pool)
	referralRepo := referral.NewReferralRepo(pool)
	statusRepo := referral.NewCaseStatusRepo(pool)
	followUpRepo := referral.NewFollowUpRepo(pool)
	fileRepo := referral.NewFileRepo(pool)
	referralSvc := referral.NewService(caseFileRepo, referralRepo, statusRepo, followUpRepo, fileRepo, inTx)
	referral.NewHandler(referralSvc).RegisterRoutes(apiV1)

	// Activity log (read endpoints; writes flow through the audit middleware)
	activitylog.NewHandler(activitySvc).RegisterRoutes(apiV1)

	// Blob upload/download
	blobstore.NewBlobHandler(store).RegisterRoutes(apiV1)

	// Serve with graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
