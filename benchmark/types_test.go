package benchmark

import (
	"context"

	"github.com/samber/do/v2"
	"go.uber.org/dig"
	"go.uber.org/fx"

	"github.com/danpasecinic/hilt"
)

type Config struct {
	Host string
	Port int
}

type Logger struct {
	Level string
}

type Database struct {
	Config *Config
	Logger *Logger
}

type Cache struct {
	Logger *Logger
}

type Repository struct {
	DB    *Database
	Cache *Cache
}

type Service struct {
	Repo   *Repository
	Logger *Logger
}

func newConfig() *Config { return &Config{Host: "localhost", Port: 8080} }

func newLogger() *Logger { return &Logger{Level: "info"} }

func newDatabase(cfg *Config, log *Logger) *Database { return &Database{Config: cfg, Logger: log} }

func newCache(log *Logger) *Cache { return &Cache{Logger: log} }

func newRepository(db *Database, cache *Cache) *Repository { return &Repository{DB: db, Cache: cache} }

func newService(repo *Repository, log *Logger) *Service { return &Service{Repo: repo, Logger: log} }

// newHiltChain registers Config <- Database <- Repository <- Service with explicit factories.
func newHiltChain() *hilt.Container {
	c := hilt.New()
	_ = hilt.RegisterValue(c, newConfig())
	_ = hilt.RegisterValue(c, newLogger())
	_ = hilt.Register(c, func(ctx context.Context, r hilt.Resolver) (*Database, error) {
		return newDatabase(hilt.MustResolve[*Config](ctx, r), hilt.MustResolve[*Logger](ctx, r)), nil
	})
	_ = hilt.Register(c, func(ctx context.Context, r hilt.Resolver) (*Cache, error) {
		return newCache(hilt.MustResolve[*Logger](ctx, r)), nil
	})
	_ = hilt.Register(c, func(ctx context.Context, r hilt.Resolver) (*Repository, error) {
		return newRepository(hilt.MustResolve[*Database](ctx, r), hilt.MustResolve[*Cache](ctx, r)), nil
	})
	_ = hilt.Register(c, func(ctx context.Context, r hilt.Resolver) (*Service, error) {
		return newService(hilt.MustResolve[*Repository](ctx, r), hilt.MustResolve[*Logger](ctx, r)), nil
	})
	return c
}

// newHiltAutowiredChain is the same graph wired from plain constructors.
func newHiltAutowiredChain() *hilt.Container {
	c := hilt.New()
	_ = hilt.RegisterFunc[*Config](c, newConfig)
	_ = hilt.RegisterFunc[*Logger](c, newLogger)
	_ = hilt.RegisterFunc[*Database](c, newDatabase)
	_ = hilt.RegisterFunc[*Cache](c, newCache)
	_ = hilt.RegisterFunc[*Repository](c, newRepository)
	_ = hilt.RegisterFunc[*Service](c, newService)
	return c
}

func newDoChain() do.Injector {
	injector := do.New()
	do.ProvideValue(injector, newConfig())
	do.ProvideValue(injector, newLogger())
	do.Provide(injector, func(i do.Injector) (*Database, error) {
		return newDatabase(do.MustInvoke[*Config](i), do.MustInvoke[*Logger](i)), nil
	})
	do.Provide(injector, func(i do.Injector) (*Cache, error) {
		return newCache(do.MustInvoke[*Logger](i)), nil
	})
	do.Provide(injector, func(i do.Injector) (*Repository, error) {
		return newRepository(do.MustInvoke[*Database](i), do.MustInvoke[*Cache](i)), nil
	})
	do.Provide(injector, func(i do.Injector) (*Service, error) {
		return newService(do.MustInvoke[*Repository](i), do.MustInvoke[*Logger](i)), nil
	})
	return injector
}

func newDigChain() *dig.Container {
	c := dig.New()
	for _, ctor := range []any{newConfig, newLogger, newDatabase, newCache, newRepository, newService} {
		_ = c.Provide(ctor)
	}
	return c
}

func fxChain() fx.Option {
	return fx.Provide(newConfig, newLogger, newDatabase, newCache, newRepository, newService)
}
