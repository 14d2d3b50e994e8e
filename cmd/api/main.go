package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/presensi-backend-go/internal/config"
	appHTTP "github.com/cmlabs-hris/presensi-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/presensi-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/presensi-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/presensi-backend-go/internal/pkg/geo"
	"github.com/cmlabs-hris/presensi-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/presensi-backend-go/internal/pkg/mqtt"
	"github.com/cmlabs-hris/presensi-backend-go/internal/pkg/oauth"
	"github.com/cmlabs-hris/presensi-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/presensi-backend-go/internal/repository/postgresql"
	serviceAttendance "github.com/cmlabs-hris/presensi-backend-go/internal/service/attendance"
	serviceAuth "github.com/cmlabs-hris/presensi-backend-go/internal/service/auth"
	serviceEmployee "github.com/cmlabs-hris/presensi-backend-go/internal/service/employee"
	serviceSession "github.com/cmlabs-hris/presensi-backend-go/internal/service/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	userRepo := postgresql.NewUserRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	siteRepo := postgresql.NewSiteRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	sampleRepo := postgresql.NewLocationRepository(db)
	sessionRepo := postgresql.NewSessionRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.DeviceExpiration)

	var googleService oauth.GoogleService
	if cfg.OAuth2Google.Enabled() {
		googleService = oauth.NewGoogleService(
			cfg.OAuth2Google.ClientID,
			cfg.OAuth2Google.ClientSecret,
			cfg.OAuth2Google.RedirectURL,
			cfg.OAuth2Google.Scopes,
		)
	}

	hub := sse.NewHub()
	evaluator := geo.NewEvaluator(cfg.Attendance.AccuracyBufferMeters)

	sessionService := serviceSession.NewSessionService(sessionRepo)
	authService := serviceAuth.NewAuthService(userRepo, employeeRepo, JWTService, sessionService, googleService)
	attendanceService := serviceAttendance.NewAttendanceService(
		db,
		attendanceRepo,
		employeeRepo,
		siteRepo,
		sampleRepo,
		hub,
		evaluator,
	)
	employeeService := serviceEmployee.NewEmployeeService(employeeRepo)

	authHandler := appHTTP.NewAuthHandler(authService, googleService, cfg.App.FrontendURL)
	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceService)
	employeeHandler := appHTTP.NewEmployeeHandler(employeeService)
	eventsHandler := appHTTP.NewEventsHandler(hub, JWTService)

	router := appHTTP.NewRouter(
		JWTService,
		sessionService,
		authHandler,
		attendanceHandler,
		employeeHandler,
		eventsHandler,
		cfg.App.AllowedOrigins,
	)

	scheduler := cron.NewScheduler()
	attendanceJobs := cron.NewAttendanceJobs(
		attendanceRepo,
		employeeRepo,
		siteRepo,
		sampleRepo,
		hub,
		cfg.Attendance.StaleOpenMaxAge,
	)
	attendanceJobs.RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	if cfg.MQTT.BrokerURL != "" {
		ingestor, err := mqtt.NewIngestor(cfg.MQTT.BrokerURL, cfg.MQTT.ClientID, cfg.MQTT.Topic, attendanceService)
		if err != nil {
			fmt.Println("Error connecting to MQTT broker:", err)
			return
		}
		if err := ingestor.Start(); err != nil {
			fmt.Println("Error subscribing to location topic:", err)
			return
		}
		defer ingestor.Stop()
	}

	port := fmt.Sprintf(":%d", cfg.App.Port)
	server := &http.Server{
		Addr:    port,
		Handler: router,
	}

	go func() {
		fmt.Printf("Server running at http://localhost%s\n", port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Println("Server error:", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	fmt.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		fmt.Println("Server shutdown error:", err)
	}
}
