// Package hilt provides a type-safe, hierarchical dependency injection container
// for Go 1.25+.
//
// Containers form a tree. A lookup that misses in a child falls through to its
// ancestors, and a child can shadow any ancestor binding by registering the
// same key. Every binding has a lifetime that decides where its instance is
// cached.
//
// # Quick Start
//
//	c := hilt.New()
//
//	hilt.RegisterValue(c, &Config{Port: 8080})
//
//	hilt.Register(c, func(ctx context.Context, r hilt.Resolver) (*Server, error) {
//	    cfg, err := hilt.Resolve[*Config](ctx, r)
//	    if err != nil {
//	        return nil, err
//	    }
//	    return &Server{config: cfg}, nil
//	})
//
//	srv := hilt.MustResolve[*Server](ctx, c)
//
// Factories should resolve their dependencies through the ctx and Resolver they
// are given. That is how hilt detects cycles and records the graph, including
// when a factory fans work out to other goroutines under the same ctx. A
// factory that resolves its own type through an unrelated context blocks
// forever.
//
// # Keys and Qualifiers
//
// A binding is identified by its type and an optional comparable qualifier:
//
//	hilt.Register(c, newPrimaryDB, hilt.WithName("primary"))
//	hilt.Register(c, newReplicaDB, hilt.WithQualifier(Replica{}))
//
//	db, err := hilt.Resolve[*sql.DB](ctx, c, hilt.WithName("primary"))
//
// # Lifetimes
//
//	hilt.Register(c, newPool)                                    // Singleton (default)
//	hilt.Register(c, newSession, hilt.WithLifetime(hilt.Scoped))
//	hilt.Register(c, newRequestID, hilt.WithLifetime(hilt.Transient))
//
// A singleton is built once and cached in the container that registered it,
// even when a child resolves it first. A scoped binding gets one instance per
// resolving container. A transient binding is built on every resolution.
//
// Registering a key again replaces its binding and evicts the instance cached
// for it in that container.
//
// # Child Containers
//
//	root := hilt.New()
//	request := root.Child()
//
//	hilt.RegisterValue(request, &User{ID: id})
//	handler := hilt.MustResolve[*Handler](ctx, request)
//
// A child does not keep its parent alive. Hold the root for as long as its
// children are in use.
//
// # Optional and Multi-bindings
//
//	opt, err := hilt.ResolveOptional[*Cache](ctx, c)
//	cache := opt.OrElse(defaultCache)
//
// Only a missing binding for the requested type yields an empty Optional. A
// failure while building it is still returned.
//
//	hilt.RegisterMany(c, newAuthMiddleware)
//	hilt.RegisterMany(c, newLoggingMiddleware)
//	mws, err := hilt.ResolveMany[Middleware](ctx, c)
//
// Contributions are returned root first, then in registration order.
//
// # Auto-Wiring
//
//	func NewUserService(db *Database, log *slog.Logger) *UserService
//	hilt.RegisterFunc[*UserService](c, NewUserService)
//
// # Interface Binding
//
//	hilt.Bind[UserRepository, *PostgresUserRepo](c)
//	hilt.BindNamed[Cache, *RedisCache](c, "session")
//
// # Modules
//
//	var Storage = hilt.NewModule("storage").Add(
//	    hilt.Provide(newDatabase),
//	    hilt.Alias[UserRepository, *PostgresUserRepo](),
//	)
//
//	var App = hilt.NewModule("app").Include(Storage)
//
//	err := c.Apply(App)
//
// # Lazy Resolution
//
//	users := hilt.NewLazy[*UserService](c)
//	svc, err := users.Get(ctx)
//
// # Recording and Planning
//
//	c.StartRecording()
//	_ = c.PrewarmSingletons(ctx)
//	plan, err := c.BuildPlan()    // dependencies first
//	dot, ok := c.ExportDOT()      // Graphviz
//	doc, ok := c.ExportYAML()     // input for hiltplan
//
// A cycle in the recorded graph makes BuildPlan fail with CYCLE_IN_PLAN.
//
// # Health Checks
//
//	func (d *Database) HealthCheck(ctx context.Context) error { return d.Ping(ctx) }
//
//	err := c.Live(ctx)
//	reports := c.Health(ctx)
//
// Only instances already cached in the container are checked.
//
// # Observers
//
//	c := hilt.New(
//	    hilt.WithResolveObserver(func(key string, d time.Duration, err error) {
//	        metrics.RecordResolve(key, d, err)
//	    }),
//	    hilt.WithRegisterObserver(func(key string) {
//	        metrics.RecordRegister(key)
//	    }),
//	)
//
// # Environment
//
//	cfg, err := hilt.LoadConfig()  // .env, HILT_LOG_LEVEL, HILT_RECORD
//	c := hilt.New(cfg.Options()...)
package hilt
