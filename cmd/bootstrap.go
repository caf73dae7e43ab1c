package cmd

import (
	"context"
	"fmt"

	"session-sync/core/config"
	"session-sync/core/database"
	"session-sync/core/google"
	"session-sync/core/logger"
	"session-sync/core/mail"
	"session-sync/core/registry"
	"session-sync/core/storage"
	"session-sync/core/table"
	"session-sync/feature/payroll"
	"session-sync/feature/sessions"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	"gorm.io/gorm"
)

// runtime carries everything a command needs, built once from the configuration.
type runtime struct {
	cfg      *config.Config
	logger   *zap.Logger
	db       *gorm.DB
	tokens   *google.TokenStore
	registry *registry.Store
	table    table.Store
	storage  storage.Client
	sessions *sessions.Service
	payroll  *payroll.Service

	googleOpts []option.ClientOption
	googleErr  error
	googleDone bool
}

// loadBase loads the configuration, the logger and the database. Every command needs
// the database: it holds the registry and the OAuth token.
func loadBase() (*runtime, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, err
	}

	rt := &runtime{
		cfg:      cfg,
		logger:   logg,
		db:       db,
		tokens:   google.NewTokenStore(db),
		registry: registry.NewStore(db),
	}
	if err := rt.tokens.Migrate(); err != nil {
		return nil, err
	}
	if err := rt.registry.Migrate(); err != nil {
		return nil, err
	}
	return rt, nil
}

// bootstrap builds the full runtime: table backend, calendar, forms, mail, storage and
// both feature services.
func bootstrap(ctx context.Context) (*runtime, error) {
	rt, err := loadBase()
	if err != nil {
		return nil, err
	}
	cfg := rt.cfg

	if rt.table, err = rt.newTable(ctx); err != nil {
		return nil, err
	}

	calendar, err := rt.newCalendar(ctx)
	if err != nil {
		return nil, err
	}

	sender, err := rt.newSender(ctx)
	if err != nil {
		return nil, err
	}

	deps := sessions.Dependencies{
		Table:    rt.table,
		Calendar: calendar,
		Registry: rt.registry,
		Mail:     sender,
		Bucket:   cfg.Storage.Bucket,
	}

	// Forms only exist on Google; without Google credentials the form operations
	// report missing configuration instead of failing startup.
	if opts, err := rt.google(ctx); err == nil {
		forms, err := sessions.NewGoogleForms(ctx, google.ClassifyError, opts...)
		if err != nil {
			return nil, err
		}
		deps.Forms = forms
	} else {
		rt.logger.Warn("Registration form disabled", zap.Error(err))
	}

	if cfg.Storage.Enabled() {
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("failed to create storage client: %w", err)
		}
		rt.storage = client
		deps.Storage = client
	}

	rt.sessions, err = sessions.NewService(cfg.Sessions, cfg.Calendar, deps, rt.logger)
	if err != nil {
		return nil, err
	}
	rt.payroll = payroll.NewService(cfg.Payroll, rt.table, sender, rt.logger)
	return rt, nil
}

// google returns the Google client options, resolving them on first use.
func (rt *runtime) google(ctx context.Context) ([]option.ClientOption, error) {
	if !rt.googleDone {
		rt.googleOpts, rt.googleErr = google.ClientOptions(ctx, rt.cfg.Google, rt.tokens)
		rt.googleDone = true
	}
	return rt.googleOpts, rt.googleErr
}

func (rt *runtime) newTable(ctx context.Context) (table.Store, error) {
	switch rt.cfg.Table.Backend {
	case table.BackendDatabase:
		store := table.NewDBStore(rt.db)
		if err := store.Migrate(); err != nil {
			return nil, err
		}
		return store, nil
	default:
		if rt.cfg.Table.SpreadsheetID == "" {
			return nil, fmt.Errorf("TABLE_SPREADSHEET_ID is required for the sheets backend")
		}
		opts, err := rt.google(ctx)
		if err != nil {
			return nil, err
		}
		return table.NewSheetsStore(ctx, rt.cfg.Table.SpreadsheetID, google.ClassifyError, opts...)
	}
}

func (rt *runtime) newCalendar(ctx context.Context) (sessions.Calendar, error) {
	switch rt.cfg.Calendar.Provider {
	case sessions.ProviderCalDAV:
		loc, err := rt.cfg.Sessions.Location()
		if err != nil {
			return nil, err
		}
		return sessions.NewCalDAVCalendar(rt.cfg.Calendar, loc)
	default:
		opts, err := rt.google(ctx)
		if err != nil {
			return nil, err
		}
		return sessions.NewGoogleCalendar(ctx, google.ClassifyError, opts...)
	}
}

func (rt *runtime) newSender(ctx context.Context) (mail.Sender, error) {
	switch rt.cfg.Mail.Driver {
	case mail.DriverGmail:
		opts, err := rt.google(ctx)
		if err != nil {
			return nil, err
		}
		return mail.NewGmailSender(ctx, rt.cfg.Mail, google.ClassifyError, opts...)
	default:
		return mail.NewLogSender(rt.logger), nil
	}
}
