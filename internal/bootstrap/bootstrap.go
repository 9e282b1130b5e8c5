package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/jpvandijk/koopflow/internal/config"
	"github.com/jpvandijk/koopflow/internal/core/ports"
	"github.com/jpvandijk/koopflow/internal/core/usecase"
	"github.com/jpvandijk/koopflow/internal/infrastructure/auth"
	"github.com/jpvandijk/koopflow/internal/infrastructure/extraction"
	"github.com/jpvandijk/koopflow/internal/infrastructure/instructions"
	"github.com/jpvandijk/koopflow/internal/infrastructure/pdfinspect"
	"github.com/jpvandijk/koopflow/internal/infrastructure/queue/nats"
	"github.com/jpvandijk/koopflow/internal/infrastructure/repository/postgres"
	"github.com/jpvandijk/koopflow/internal/infrastructure/resilience"
	"github.com/jpvandijk/koopflow/internal/observability/metrics"
)

type App struct {
	Config config.Config

	Bus           *nats.Bus
	Workflow      ports.DocumentWorkflow
	Accounts      ports.AccountService
	Admin         ports.AdminDirectory
	Organizations ports.OrganizationService
	Instructions  ports.InstructionStore
	Tokens        *auth.TokenService
	ServerMetrics *metrics.HTTPServerMetrics

	closeFn func()
}

func New(ctx context.Context, cfg config.Config, serviceName string) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	docRepo := postgres.NewDocumentRepository(db)
	if err := docRepo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	userRepo := postgres.NewUserRepository(db)
	orgRepo := postgres.NewOrganizationRepository(db)

	executor := resilience.NewExecutor(resilience.DefaultConfig())

	bus, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: executor,
	})
	if err != nil {
		return nil, fmt.Errorf("init event bus: %w", err)
	}

	gateway := extraction.New(cfg.ExtractionURL, cfg.ExtractionAPIKey, extraction.Options{
		Timeout:  time.Duration(cfg.ExtractionTimeoutSeconds) * time.Second,
		Executor: executor,
	})

	tokens, err := auth.NewTokenService(cfg.JWTSecret, time.Duration(cfg.JWTTTLHours)*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("init token service: %w", err)
	}

	store, err := instructions.NewStore(cfg.InstructionsDir)
	if err != nil {
		return nil, fmt.Errorf("init instructions store: %w", err)
	}

	var inspector ports.PDFInspector
	if cfg.DeepPDFValidation {
		inspector = pdfinspect.New()
	}

	serverMetrics := metrics.NewHTTPServerMetrics(serviceName)

	tenancy := usecase.NewTenancyDirectory(userRepo, orgRepo)
	workflow := usecase.NewDocumentWorkflowUseCase(tenancy, docRepo, gateway, bus, inspector,
		serverMetrics.WorkflowObserver(serviceName), usecase.WorkflowConfig{
		UploadMinBytes:     cfg.UploadMinBytes,
		UploadMaxBytes:     cfg.UploadMaxBytes,
		CapacityLimitBytes: cfg.CapacityLimitBytes,
		ExtractTimeout:     time.Duration(cfg.ExtractionTimeoutSeconds) * time.Second,
		DeepPDFValidation:  cfg.DeepPDFValidation,
	})

	return &App{
		Config: cfg,

		Bus:           bus,
		Workflow:      workflow,
		Accounts:      usecase.NewAccountUseCase(userRepo, orgRepo, tokens),
		Admin:         usecase.NewAdminUsersUseCase(tenancy, userRepo),
		Organizations: usecase.NewOrganizationUseCase(tenancy, orgRepo),
		Instructions:  store,
		Tokens:        tokens,
		ServerMetrics: serverMetrics,

		closeFn: func() {
			bus.Close()
			_ = store.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
