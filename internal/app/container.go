// Package app provides the dependency injection container for the application.
package app

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dailyquest/dq/internal/domain"
	"github.com/dailyquest/dq/internal/infra/api"
	"github.com/dailyquest/dq/internal/infra/auth"
	"github.com/dailyquest/dq/internal/infra/config"
	"github.com/dailyquest/dq/internal/infra/jsonstore"
	"github.com/dailyquest/dq/internal/infra/logging"
	"github.com/dailyquest/dq/internal/infra/sqlitestore"
	"github.com/dailyquest/dq/internal/usecase"
)

// Config holds the application paths.
type Config struct {
	Dir           string // dq directory, e.g. ~/.config/dq
	ConfigPath    string // Path to config.toml
	TokenPath     string // Path to token.json
	OverridesPath string // Path to the completion override cache
	LogPath       string // Path to dq.log
}

// newConfig derives the paths from the dq directory and the loaded settings.
func newConfig(dir string, appConfig *domain.Config) Config {
	cfg := Config{
		Dir:        dir,
		ConfigPath: filepath.Join(dir, domain.ConfigFileName),
		TokenPath:  filepath.Join(dir, domain.TokenFileName),
		LogPath:    domain.LogPath(dir),
	}
	switch {
	case appConfig.Cache.Path != "":
		cfg.OverridesPath = appConfig.Cache.Path
	case appConfig.Cache.Store == domain.CacheStoreSQLite:
		cfg.OverridesPath = filepath.Join(dir, domain.OverridesSQLiteName)
	default:
		cfg.OverridesPath = filepath.Join(dir, domain.OverridesJSONName)
	}
	return cfg
}

// Container provides dependency injection for the application.
// It holds all port implementations and provides factory methods for use cases.
type Container struct {
	// Ports (interfaces bound to implementations)
	Tasks         domain.TaskBackend
	Users         domain.UserBackend
	Auth          domain.Authenticator
	Tags          domain.TagBackend
	Stats         domain.StatsBackend
	Overrides     domain.CompletionOverrides
	Tokens        domain.TokenStore
	Clock         domain.Clock
	ConfigLoader  domain.ConfigLoader
	ConfigManager domain.ConfigManager
	Logger        domain.Logger

	// Session state
	Store      *domain.TaskStore
	Reconciler *domain.Reconciler

	// Pointer fields
	AppConfig *domain.Config
	Slog      *slog.Logger

	closers []io.Closer

	// Configuration
	Config Config
}

// New creates a new Container rooted at dir. An empty dir uses
// $XDG_CONFIG_HOME/dq or ~/.config/dq.
func New(dir string) (*Container, error) {
	if dir == "" {
		dir = config.DefaultGlobalConfigDir()
	}
	if dir == "" {
		return nil, errors.New("cannot determine config directory (set XDG_CONFIG_HOME)")
	}

	configLoader := config.NewLoaderWithGlobalDir(dir, os.Getenv)
	appConfig, err := configLoader.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	cfg := newConfig(dir, appConfig)

	// Create logger
	logger := logging.New(cfg.LogPath, logging.ParseLevel(appConfig.Log.Level))
	for _, w := range appConfig.Warnings {
		logger.Warn("", "config", w)
	}

	// Create override cache based on config
	// Default is "json"; use "sqlite" only if explicitly specified
	var overrides domain.CompletionOverrides
	closers := []io.Closer{logger}
	if appConfig.Cache.Store == domain.CacheStoreSQLite {
		sqlStore, err := sqlitestore.Open(cfg.OverridesPath)
		if err != nil {
			_ = logger.Close()
			return nil, err
		}
		overrides = sqlStore
		closers = append(closers, sqlStore)
	} else {
		overrides = jsonstore.New(cfg.OverridesPath)
	}

	clock := domain.ZonedClock{Location: appConfig.API.LocalLocation()}
	tokens := auth.NewFileStore(cfg.TokenPath)
	client := api.New(api.Options{
		BaseURL:       appConfig.API.BaseURL,
		AuthURL:       appConfig.API.AuthURL,
		Timeout:       appConfig.API.RequestTimeout(),
		NaiveLocation: appConfig.API.NaiveLocation(),
		Logger:        logger,
		Now:           clock.Now,
	}, tokens)

	return &Container{
		Tasks:         client,
		Users:         client,
		Auth:          client,
		Tags:          client,
		Stats:         client,
		Overrides:     overrides,
		Tokens:        tokens,
		Clock:         clock,
		ConfigLoader:  configLoader,
		ConfigManager: config.NewManagerWithGlobalDir(dir),
		Logger:        logger,
		Store:         domain.NewTaskStore(),
		Reconciler:    domain.NewReconciler(overrides),
		AppConfig:     appConfig,
		Slog:          slog.New(logger.SlogHandler()),
		closers:       closers,
		Config:        cfg,
	}, nil
}

// Deps are the ports a test container is built from. Nil fields fall back
// to no-op or default implementations where one exists.
type Deps struct {
	Backend interface {
		domain.TaskBackend
		domain.UserBackend
		domain.Authenticator
		domain.TagBackend
		domain.StatsBackend
	}
	Overrides     domain.CompletionOverrides
	Tokens        domain.TokenStore
	Clock         domain.Clock
	ConfigLoader  domain.ConfigLoader
	ConfigManager domain.ConfigManager
	Logger        domain.Logger
	AppConfig     *domain.Config
}

// NewWithDeps creates a new Container with custom dependencies for testing.
func NewWithDeps(cfg Config, deps Deps) *Container {
	logger := deps.Logger
	if logger == nil {
		logger = domain.NopLogger{}
	}
	clock := deps.Clock
	if clock == nil {
		clock = domain.RealClock{}
	}
	appConfig := deps.AppConfig
	if appConfig == nil {
		appConfig = domain.NewDefaultConfig()
	}
	return &Container{
		Tasks:         deps.Backend,
		Users:         deps.Backend,
		Auth:          deps.Backend,
		Tags:          deps.Backend,
		Stats:         deps.Backend,
		Overrides:     deps.Overrides,
		Tokens:        deps.Tokens,
		Clock:         clock,
		ConfigLoader:  deps.ConfigLoader,
		ConfigManager: deps.ConfigManager,
		Logger:        logger,
		Store:         domain.NewTaskStore(),
		Reconciler:    domain.NewReconciler(deps.Overrides),
		AppConfig:     appConfig,
		Slog:          slog.New(slog.DiscardHandler),
		Config:        cfg,
	}
}

// Close releases the log file and the cache database.
func (c *Container) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// UseCase factory methods

// SyncTasksUseCase returns a new SyncTasks use case.
func (c *Container) SyncTasksUseCase() *usecase.SyncTasks {
	return usecase.NewSyncTasks(c.Tasks, c.Store, c.Logger)
}

// ListTasksUseCase returns a new ListTasks use case.
func (c *Container) ListTasksUseCase() *usecase.ListTasks {
	return usecase.NewListTasks(c.Tasks, c.Store, c.Reconciler, c.Clock, c.Logger)
}

// ShowTaskUseCase returns a new ShowTask use case.
func (c *Container) ShowTaskUseCase() *usecase.ShowTask {
	return usecase.NewShowTask(c.Tasks, c.Store, c.Reconciler, c.Clock, c.Logger)
}

// CreateHabitUseCase returns a new CreateHabit use case.
func (c *Container) CreateHabitUseCase() *usecase.CreateHabit {
	return usecase.NewCreateHabit(c.Tasks, c.Store, c.Logger)
}

// CreateTodoUseCase returns a new CreateTodo use case.
func (c *Container) CreateTodoUseCase() *usecase.CreateTodo {
	return usecase.NewCreateTodo(c.Tasks, c.Store, c.Clock, c.Logger)
}

// UpdateHabitUseCase returns a new UpdateHabit use case.
func (c *Container) UpdateHabitUseCase() *usecase.UpdateHabit {
	return usecase.NewUpdateHabit(c.Tasks, c.Store, c.Logger)
}

// UpdateTodoUseCase returns a new UpdateTodo use case.
func (c *Container) UpdateTodoUseCase() *usecase.UpdateTodo {
	return usecase.NewUpdateTodo(c.Tasks, c.Store, c.Clock, c.Logger)
}

// DeleteTaskUseCase returns a new DeleteTask use case.
func (c *Container) DeleteTaskUseCase() *usecase.DeleteTask {
	return usecase.NewDeleteTask(c.Tasks, c.Store, c.Reconciler, c.Clock, c.Logger)
}

// ImportTasksUseCase returns a new ImportTasks use case.
func (c *Container) ImportTasksUseCase() *usecase.ImportTasks {
	return usecase.NewImportTasks(c.Tasks, c.Store, c.Clock, c.Logger)
}

// CompleteTaskUseCase returns a new CompleteTask use case.
func (c *Container) CompleteTaskUseCase() *usecase.CompleteTask {
	return usecase.NewCompleteTask(c.Tasks, c.Users, c.Store, c.Reconciler, c.Clock, c.Logger)
}

// UncompleteTaskUseCase returns a new UncompleteTask use case.
func (c *Container) UncompleteTaskUseCase() *usecase.UncompleteTask {
	return usecase.NewUncompleteTask(c.Tasks, c.Users, c.Store, c.Reconciler, c.Clock, c.Logger)
}

// LoginUseCase returns a new Login use case.
func (c *Container) LoginUseCase() *usecase.Login {
	return usecase.NewLogin(c.Auth, c.Users, c.Tokens, c.Logger)
}

// LogoutUseCase returns a new Logout use case.
func (c *Container) LogoutUseCase() *usecase.Logout {
	return usecase.NewLogout(c.Tokens, c.Logger)
}

// RegisterUseCase returns a new Register use case.
func (c *Container) RegisterUseCase() *usecase.Register {
	return usecase.NewRegister(c.Users, c.Logger)
}

// ShowProfileUseCase returns a new ShowProfile use case.
func (c *Container) ShowProfileUseCase() *usecase.ShowProfile {
	return usecase.NewShowProfile(c.Users, c.Stats, c.Logger)
}

// ListHistoryUseCase returns a new ListHistory use case.
func (c *Container) ListHistoryUseCase() *usecase.ListHistory {
	return usecase.NewListHistory(c.Stats)
}

// ListAchievementsUseCase returns a new ListAchievements use case.
func (c *Container) ListAchievementsUseCase() *usecase.ListAchievements {
	return usecase.NewListAchievements(c.Stats)
}

// ListTagsUseCase returns a new ListTags use case.
func (c *Container) ListTagsUseCase() *usecase.ListTags {
	return usecase.NewListTags(c.Tags)
}

// CreateTagUseCase returns a new CreateTag use case.
func (c *Container) CreateTagUseCase() *usecase.CreateTag {
	return usecase.NewCreateTag(c.Tags)
}

// UpdateTagUseCase returns a new UpdateTag use case.
func (c *Container) UpdateTagUseCase() *usecase.UpdateTag {
	return usecase.NewUpdateTag(c.Tags, c.Store)
}

// DeleteTagUseCase returns a new DeleteTag use case.
func (c *Container) DeleteTagUseCase() *usecase.DeleteTag {
	return usecase.NewDeleteTag(c.Tags, c.Store)
}

// TagTaskUseCase returns a new TagTask use case.
func (c *Container) TagTaskUseCase() *usecase.TagTask {
	return usecase.NewTagTask(c.Tasks, c.Tags, c.Store)
}

// TasksByTagUseCase returns a new TasksByTag use case.
func (c *Container) TasksByTagUseCase() *usecase.TasksByTag {
	return usecase.NewTasksByTag(c.Tags)
}

// PruneCacheUseCase returns a new PruneCache use case.
func (c *Container) PruneCacheUseCase() *usecase.PruneCache {
	return usecase.NewPruneCache(c.Overrides, c.Clock, c.Logger)
}

// ShowConfigUseCase returns a new ShowConfig use case.
func (c *Container) ShowConfigUseCase() *usecase.ShowConfig {
	return usecase.NewShowConfig(c.ConfigManager, c.ConfigLoader)
}

// InitConfigUseCase returns a new InitConfig use case.
func (c *Container) InitConfigUseCase() *usecase.InitConfig {
	return usecase.NewInitConfig(c.ConfigManager)
}
