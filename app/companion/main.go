package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/companionhealth/companion/app/companion/config"
	"github.com/companionhealth/companion/bridge/repositories/addressesrepobridge"
	"github.com/companionhealth/companion/bridge/repositories/caretakersrepobridge"
	"github.com/companionhealth/companion/bridge/repositories/commentsrepobridge"
	"github.com/companionhealth/companion/bridge/repositories/doctorsrepobridge"
	"github.com/companionhealth/companion/bridge/repositories/institutionsrepobridge"
	"github.com/companionhealth/companion/bridge/repositories/journalsrepobridge"
	"github.com/companionhealth/companion/bridge/repositories/medicalstaffrepobridge"
	"github.com/companionhealth/companion/bridge/repositories/patientsrepobridge"
	"github.com/companionhealth/companion/bridge/repositories/tasklistsrepobridge"
	"github.com/companionhealth/companion/bridge/repositories/tasksrepobridge"
	"github.com/companionhealth/companion/bridge/repositories/usersrepobridge"
	"github.com/companionhealth/companion/bridge/repositories/vitalsrepobridge"
	"github.com/companionhealth/companion/bridge/scaffolding/mid"
	"github.com/companionhealth/companion/bridge/services/authbridge"
	"github.com/companionhealth/companion/bridge/services/onboardingbridge"
	"github.com/companionhealth/companion/core/repositories/addressesrepo"
	"github.com/companionhealth/companion/core/repositories/addressesrepo/stores/addressespgxstore"
	"github.com/companionhealth/companion/core/repositories/caretakersrepo"
	"github.com/companionhealth/companion/core/repositories/caretakersrepo/stores/caretakerspgxstore"
	"github.com/companionhealth/companion/core/repositories/commentsrepo"
	"github.com/companionhealth/companion/core/repositories/commentsrepo/stores/commentspgxstore"
	"github.com/companionhealth/companion/core/repositories/doctorsrepo"
	"github.com/companionhealth/companion/core/repositories/doctorsrepo/stores/doctorspgxstore"
	"github.com/companionhealth/companion/core/repositories/institutionsrepo"
	"github.com/companionhealth/companion/core/repositories/institutionsrepo/stores/institutionspgxstore"
	"github.com/companionhealth/companion/core/repositories/journalsrepo"
	"github.com/companionhealth/companion/core/repositories/journalsrepo/stores/journalspgxstore"
	"github.com/companionhealth/companion/core/repositories/medicalstaffrepo"
	"github.com/companionhealth/companion/core/repositories/medicalstaffrepo/stores/medicalstaffpgxstore"
	"github.com/companionhealth/companion/core/repositories/patientsrepo"
	"github.com/companionhealth/companion/core/repositories/patientsrepo/stores/patientspgxstore"
	"github.com/companionhealth/companion/core/repositories/sessionsrepo"
	"github.com/companionhealth/companion/core/repositories/sessionsrepo/stores/sessionspgxstore"
	"github.com/companionhealth/companion/core/repositories/tasklistsrepo"
	"github.com/companionhealth/companion/core/repositories/tasklistsrepo/stores/tasklistspgxstore"
	"github.com/companionhealth/companion/core/repositories/tasksrepo"
	"github.com/companionhealth/companion/core/repositories/tasksrepo/stores/taskspgxstore"
	"github.com/companionhealth/companion/core/repositories/usersrepo"
	"github.com/companionhealth/companion/core/repositories/usersrepo/stores/userspgxstore"
	"github.com/companionhealth/companion/core/repositories/vitalsrepo"
	"github.com/companionhealth/companion/core/repositories/vitalsrepo/stores/vitalspgxstore"
	"github.com/companionhealth/companion/core/services/authservice"
	"github.com/companionhealth/companion/core/services/onboardingservice"
	"github.com/companionhealth/companion/core/services/reminderservice"
	"github.com/companionhealth/companion/core/services/taskservice"
	"github.com/companionhealth/companion/infrastructure/postgresdb"
	"github.com/companionhealth/companion/infrastructure/web"
	"github.com/companionhealth/companion/infrastructure/workers"
	"github.com/companionhealth/companion/sdk/environment"
	"github.com/companionhealth/companion/sdk/logger"
	"github.com/companionhealth/companion/sdk/telemetry"
)

var build = "develop"
var appName = "COMPANION"

func main() {
	godotenv.Load()
	ctx := context.Background()

	tel := telemetry.NewTelemetry()
	traceIDFn := func(ctx context.Context) string {
		return tel.GetTraceID(ctx)
	}

	log, err := logger.NewFromEnv(appName, traceIDFn)
	if err != nil {
		fmt.Fprintf(os.Stderr, "startup: %s\n", err)
		os.Exit(1)
	}

	if err := run(ctx, log, tel); err != nil {
		log.Error(ctx, "startup", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, log *logger.Logger, tel telemetry.Telemetry) error {
	log.Info(ctx, "startup", "GOMAXPROCS", runtime.GOMAXPROCS(0), "build", build)

	// DATABASE
	pool, err := postgresdb.NewFromEnv(appName, postgresdb.WithLogger(log.Logger))
	if err != nil {
		return fmt.Errorf("configuring postgres support: %w", err)
	}
	defer func() {
		log.Info(ctx, "shutdown", "status", "closing database connection")
		pool.Close()
	}()

	if environment.GetEnvOrDefault("COMPANION_MIGRATE_ON_START", "false") == "true" {
		log.Info(ctx, "startup", "status", "running migrations")
		if err := postgresdb.Migrate(ctx, pool); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	// REPOSITORIES
	log.Info(ctx, "startup", "status", "initializing repository support")
	repos := config.Repositories{
		Users:        usersrepo.NewRepository(log, userspgxstore.NewStore(log, pool)),
		Sessions:     sessionsrepo.NewRepository(log, sessionspgxstore.NewStore(log, pool)),
		Addresses:    addressesrepo.NewRepository(log, addressespgxstore.NewStore(log, pool)),
		Patients:     patientsrepo.NewRepository(log, patientspgxstore.NewStore(log, pool)),
		Doctors:      doctorsrepo.NewRepository(log, doctorspgxstore.NewStore(log, pool)),
		Caretakers:   caretakersrepo.NewRepository(log, caretakerspgxstore.NewStore(log, pool)),
		MedicalStaff: medicalstaffrepo.NewRepository(log, medicalstaffpgxstore.NewStore(log, pool)),
		Institutions: institutionsrepo.NewRepository(log, institutionspgxstore.NewStore(log, pool)),
		Vitals:       vitalsrepo.NewRepository(log, vitalspgxstore.NewStore(log, pool)),
		Journals:     journalsrepo.NewRepository(log, journalspgxstore.NewStore(log, pool)),
		TaskLists:    tasklistsrepo.NewRepository(log, tasklistspgxstore.NewStore(log, pool)),
		Tasks:        tasksrepo.NewRepository(log, taskspgxstore.NewStore(log, pool)),
		Comments:     commentsrepo.NewRepository(log, commentspgxstore.NewStore(log, pool)),
	}

	// SERVICES
	tran := taskservice.NewPoolTransactor(pool)
	services := config.Services{
		Auth: authservice.NewService(log, repos.Users, repos.Sessions, authservice.DefaultSessionTTL),
		Onboarding: onboardingservice.NewService(log, repos.Users, onboardingservice.ProfileStorers{
			Patients:   repos.Patients,
			Doctors:    repos.Doctors,
			Caretakers: repos.Caretakers,
			Staff:      repos.MedicalStaff,
		}, tran),
		Tasks: taskservice.NewService(log, repos.Tasks, repos.TaskLists, repos.Comments, tran),
	}

	cfg := config.Companion{
		Build:        build,
		Logger:       log,
		Telemetry:    tel,
		DB:           pool,
		Repositories: repos,
		Services:     services,
	}

	// REMINDER WORKERS
	if environment.GetEnvOrDefault("COMPANION_REMINDERS_ENABLED", "false") == "true" {
		processor := reminderservice.NewProcessor(log, repos.Tasks, nil)
		reminderPool, err := workers.NewFromEnv(appName, processor, workers.WithLogger(log.Logger))
		if err != nil {
			return fmt.Errorf("reminder workers: %w", err)
		}

		go func() {
			if err := reminderPool.Start(ctx); err != nil {
				log.Error(ctx, "reminder workers", "err", err)
			}
		}()
		defer reminderPool.Stop()
	}

	// WEB SERVER
	handler, err := webHandler(cfg)
	if err != nil {
		return fmt.Errorf("webhandler: %w", err)
	}

	server, err := web.NewServerFromEnv(appName,
		web.WithHandler(handler),
		web.WithErrorLog(logger.NewStdLogger(log, slog.LevelError)),
	)
	if err != nil {
		return fmt.Errorf("webserver: %w", err)
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info(ctx, "startup", "status", "api router started", "host", server.Addr)
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		log.Info(ctx, "shutdown", "status", "shutdown started", "signal", sig)
		defer log.Info(ctx, "shutdown", "status", "shutdown complete", "signal", sig)

		ctx, cancel := context.WithTimeout(ctx, server.Config.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			server.Close()
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}

	return nil
}

func webHandler(cfg config.Companion) (http.Handler, error) {
	log := cfg.Logger

	handler, err := web.NewWebHandlerFromEnv(appName,
		web.WithLogging(log.Logger),
		web.WithTelemetry(cfg.Telemetry),
		web.WithGlobalMiddleware(
			mid.Logger(log),
			mid.Errors(log),
			mid.Metrics(),
			mid.Panics(),
		),
	)
	if err != nil {
		return nil, err
	}

	auth := cfg.Services.Auth

	// Anonymous API surface.
	api := handler.Group("/api/v1")
	authbridge.AddHttpRoutes(api, authbridge.Config{Log: log, Service: auth})
	institutionsrepobridge.AddHttpRoutes(api, institutionsrepobridge.Config{Log: log, Repository: cfg.Repositories.Institutions})

	// Everything a signed-in user can reach regardless of role.
	authed := api.Group("", mid.Authenticate(auth))
	authbridge.AddSessionHttpRoutes(authed, authbridge.Config{Log: log, Service: auth})
	usersrepobridge.AddHttpRoutes(authed, usersrepobridge.Config{Log: log, Repository: cfg.Repositories.Users})
	addressesrepobridge.AddHttpRoutes(authed, addressesrepobridge.Config{Log: log, Repository: cfg.Repositories.Addresses})
	tasklistsrepobridge.AddHttpRoutes(authed, tasklistsrepobridge.Config{
		Log:        log,
		Repository: cfg.Repositories.TaskLists,
		Service:    cfg.Services.Tasks,
		Patients:   cfg.Repositories.Patients,
	})
	tasksrepobridge.AddHttpRoutes(authed, tasksrepobridge.Config{
		Log:        log,
		Repository: cfg.Repositories.Tasks,
		Comments:   cfg.Repositories.Comments,
		Service:    cfg.Services.Tasks,
	})
	commentsrepobridge.AddHttpRoutes(authed, commentsrepobridge.Config{Log: log, Repository: cfg.Repositories.Comments})

	// Onboarding is only open to accounts that have not picked a role yet.
	onboarding := api.Group("", mid.OnboardingRoute(auth))
	onboardingbridge.AddHttpRoutes(onboarding, onboardingbridge.Config{Log: log, Service: cfg.Services.Onboarding})

	// Role surfaces. The role router redirects anonymous sessions to
	// sign-in, fresh accounts to onboarding and everyone else to their own
	// section.
	patient := handler.Group("/patient", mid.RoleRoute(auth, usersrepo.TypePatient))
	patientsrepobridge.AddProfileHttpRoutes(patient, patientsrepobridge.Config{Log: log, Repository: cfg.Repositories.Patients})
	vitalsrepobridge.AddHttpRoutes(patient, vitalsrepobridge.Config{
		Log:        log,
		Repository: cfg.Repositories.Vitals,
		Patients:   cfg.Repositories.Patients,
	})
	journalsrepobridge.AddHttpRoutes(patient, journalsrepobridge.Config{
		Log:        log,
		Repository: cfg.Repositories.Journals,
		Patients:   cfg.Repositories.Patients,
	})

	doctor := handler.Group("/doctor", mid.RoleRoute(auth, usersrepo.TypeDoctor))
	doctorsrepobridge.AddProfileHttpRoutes(doctor, doctorsrepobridge.Config{Log: log, Repository: cfg.Repositories.Doctors})
	patientsrepobridge.AddHttpRoutes(doctor, patientsrepobridge.Config{Log: log, Repository: cfg.Repositories.Patients})
	vitalsrepobridge.AddCareHttpRoutes(doctor, vitalsrepobridge.Config{
		Log:        log,
		Repository: cfg.Repositories.Vitals,
		Patients:   cfg.Repositories.Patients,
	})
	doctorsrepobridge.AddHttpRoutes(doctor, doctorsrepobridge.Config{Log: log, Repository: cfg.Repositories.Doctors})
	medicalstaffrepobridge.AddHttpRoutes(doctor, medicalstaffrepobridge.Config{Log: log, Repository: cfg.Repositories.MedicalStaff})

	caretaker := handler.Group("/caretaker", mid.RoleRoute(auth, usersrepo.TypeCaretaker))
	caretakersrepobridge.AddProfileHttpRoutes(caretaker, caretakersrepobridge.Config{Log: log, Repository: cfg.Repositories.Caretakers})

	staff := handler.Group("/staff", mid.RoleRoute(auth, usersrepo.TypeMedicalStaff))
	medicalstaffrepobridge.AddProfileHttpRoutes(staff, medicalstaffrepobridge.Config{Log: log, Repository: cfg.Repositories.MedicalStaff})
	patientsrepobridge.AddHttpRoutes(staff, patientsrepobridge.Config{Log: log, Repository: cfg.Repositories.Patients})
	doctorsrepobridge.AddHttpRoutes(staff, doctorsrepobridge.Config{Log: log, Repository: cfg.Repositories.Doctors})

	admin := handler.Group("/admin", mid.RoleRoute(auth, usersrepo.TypeAdmin))
	usersrepobridge.AddAdminHttpRoutes(admin, usersrepobridge.Config{Log: log, Repository: cfg.Repositories.Users})
	institutionsrepobridge.AddAdminHttpRoutes(admin, institutionsrepobridge.Config{Log: log, Repository: cfg.Repositories.Institutions})
	caretakersrepobridge.AddHttpRoutes(admin, caretakersrepobridge.Config{Log: log, Repository: cfg.Repositories.Caretakers})

	return handler, nil
}
