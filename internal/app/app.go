package app

import (
	"context"

	"roomflow/config"
	"roomflow/internal/clock"
	"roomflow/internal/database"
	"roomflow/internal/events"
	"roomflow/internal/handlers/middleware"
	"roomflow/internal/jobs"
	"roomflow/internal/notifications"
	"roomflow/internal/repositories"
	"roomflow/internal/services"
	"roomflow/internal/websockets"

	logger "github.com/Bparsons0904/goLogger"
)

type App struct {
	Database   database.DB
	Middleware middleware.Middleware
	Websocket  *websockets.Manager
	EventBus   *events.EventBus
	Config     config.Config
	Clock      clock.Clock

	// Services
	TransactionService *services.TransactionService
	AuthService        *services.AuthService
	ChecklistService   *services.ChecklistService
	GeneratorService   *services.GeneratorService
	LifecycleService   *services.LifecycleService
	AssignmentService  *services.AssignmentService
	PushService        *services.PushService
	SchedulerService   *services.SchedulerService
	Dispatcher         *notifications.Dispatcher

	// Repositories
	Repos repositories.Repository
}

func New() (*App, error) {
	log := logger.New("app").Function("New")

	config, err := config.InitConfig()
	if err != nil {
		return &App{}, log.Err("failed to initialize config", err)
	}

	hotelClock, err := clock.New(config.HotelTimezone)
	if err != nil {
		return &App{}, log.Err("failed to load hotel timezone", err)
	}

	db, err := database.New(config)
	if err != nil {
		return &App{}, log.Err("failed to create database", err)
	}

	eventBus := events.New(db.Cache.Events, config)

	repos := repositories.New()

	transactionService := services.NewTransactionService(db)
	authService := services.NewAuthService(config)
	checklistService := services.NewChecklistService(repos.ChecklistTemplate, hotelClock)
	generatorService := services.NewGeneratorService(
		transactionService, repos, checklistService, hotelClock, config)
	lifecycleService := services.NewLifecycleService(
		transactionService, repos, checklistService, eventBus, hotelClock, config)
	assignmentService := services.NewAssignmentService(
		transactionService, repos, eventBus, hotelClock)
	pushService := services.NewPushService(config)
	schedulerService := services.NewSchedulerService(config.GenerationHourUTC)

	websocket := websockets.New(authService, config)

	dispatcher := notifications.New(db, repos, websocket, pushService)
	if err := dispatcher.Start(eventBus); err != nil {
		return &App{}, log.Err("failed to start notification dispatcher", err)
	}

	middleware := middleware.New(db, authService, config, repos)

	if config.SchedulerEnabled {
		generationJob := jobs.NewTaskGenerationJob(generatorService, hotelClock, services.Nightly)
		if err := schedulerService.AddJob(generationJob); err != nil {
			return &App{}, log.Err("failed to register task generation job", err)
		}
		log.Info("Registered nightly task generation job with scheduler")
	}

	app := &App{
		Database:           db,
		Config:             config,
		Clock:              hotelClock,
		Middleware:         middleware,
		TransactionService: transactionService,
		AuthService:        authService,
		ChecklistService:   checklistService,
		GeneratorService:   generatorService,
		LifecycleService:   lifecycleService,
		AssignmentService:  assignmentService,
		PushService:        pushService,
		SchedulerService:   schedulerService,
		Dispatcher:         dispatcher,
		Repos:              repos,
		Websocket:          websocket,
		EventBus:           eventBus,
	}

	if err := app.validate(); err != nil {
		return &App{}, log.Err("failed to validate app", err)
	}

	return app, nil
}

func (a *App) validate() error {
	log := logger.New("app").Function("validate")
	if a.Database.SQL == nil {
		return log.ErrMsg("database is nil")
	}

	nilChecks := []any{
		a.Websocket,
		a.EventBus,
		a.Clock,
		a.TransactionService,
		a.AuthService,
		a.ChecklistService,
		a.GeneratorService,
		a.LifecycleService,
		a.AssignmentService,
		a.PushService,
		a.SchedulerService,
		a.Dispatcher,
	}

	for _, check := range nilChecks {
		if check == nil {
			return log.ErrMsg("nil check failed")
		}
	}

	return nil
}

func (a *App) Close() (err error) {
	if a.EventBus != nil {
		if closeErr := a.EventBus.Close(); closeErr != nil {
			err = closeErr
		}
	}

	if a.SchedulerService != nil {
		if closeErr := a.SchedulerService.Stop(context.Background()); closeErr != nil {
			err = closeErr
		}
	}

	if dbErr := a.Database.Close(); dbErr != nil {
		err = dbErr
	}

	return err
}
