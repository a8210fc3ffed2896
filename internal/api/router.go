package api

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jackc/pgx/v5/pgxpool"

	swagger "github.com/go-swagno/swagno-fiber/swagger"
	"github.com/rodrigozago/sietch-faces/internal/api/docs"
	"github.com/rodrigozago/sietch-faces/internal/api/handler"
	"github.com/rodrigozago/sietch-faces/internal/api/middleware"
	"github.com/rodrigozago/sietch-faces/internal/clustering"
	"github.com/rodrigozago/sietch-faces/internal/config"
	"github.com/rodrigozago/sietch-faces/internal/provider"
	"github.com/rodrigozago/sietch-faces/internal/repository"
	"github.com/rodrigozago/sietch-faces/internal/service"
)

type Dependencies struct {
	DB       *pgxpool.Pool
	Detector provider.FaceDetector
	Config   *config.Config
}

type Router struct {
	app    *fiber.App
	logger *slog.Logger
	deps   *Dependencies
	engine *service.AssociationEngine
}

func NewRouter(logger *slog.Logger, deps *Dependencies) *Router {
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(logger),
		AppName:      "Sietch Faces API",
	})

	return &Router{
		app:    app,
		logger: logger,
		deps:   deps,
	}
}

func (r *Router) Setup() {
	// Global middlewares
	r.app.Use(requestid.New())
	r.app.Use(middleware.Recover(r.logger))
	r.app.Use(middleware.Logger(r.logger))
	r.app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	// Swagger documentation
	sw := docs.NewSwagger()
	swagger.SwaggerHandler(r.app, sw.MustToJson())

	// Health check endpoints
	var db handler.Pinger
	if r.deps != nil && r.deps.DB != nil {
		db = r.deps.DB
	}
	healthHandler := handler.NewHealthHandler(db)
	r.app.Get("/health", healthHandler.Health)
	r.app.Get("/ready", healthHandler.Ready)

	// Only configure the API routes when dependencies were provided
	if r.deps == nil {
		return
	}

	cfg := r.deps.Config
	v1 := r.app.Group("/v1")

	// Pool-level repositories
	personRepo := repository.NewPersonRepository(r.deps.DB)
	faceRepo := repository.NewFaceRepository(r.deps.DB)
	collectionRepo := repository.NewCollectionRepository(r.deps.DB)

	// Association engine owns the claimed-face index and reacts to merges
	index := service.NewClaimedIndex()
	r.engine = service.NewAssociationEngine(
		r.deps.DB,
		r.deps.Detector,
		index,
		cfg.MatchThreshold,
		cfg.EmbeddingDim,
		r.logger,
	)

	mergeService := service.NewMergeService(r.deps.DB, r.logger, r.engine)
	clusterService := service.NewClusterService(r.deps.DB, clustering.Params{
		Eps:        cfg.ClusterEps,
		MinSamples: cfg.ClusterMinSamples,
	}, r.logger)
	searchService := service.NewSearchService(
		faceRepo,
		personRepo,
		cfg.EmbeddingDim,
		cfg.SuggestThreshold,
		cfg.SearchLimit,
	)
	identityService := service.NewIdentityService(
		personRepo,
		faceRepo,
		collectionRepo,
		r.engine,
		index,
		r.logger,
	)

	// Photo routes
	photoHandler := handler.NewPhotoHandler(r.engine, r.logger)
	v1.Post("/photos", photoHandler.Upload)
	v1.Post("/photos/detected", photoHandler.UploadDetected)
	v1.Post("/photos/propagate", photoHandler.Propagate)

	// Search route
	searchHandler := handler.NewSearchHandler(searchService, cfg.MatchThreshold, r.logger)
	v1.Post("/search", searchHandler.Search)

	// Cluster route
	clusterHandler := handler.NewClusterHandler(clusterService, r.logger)
	v1.Post("/cluster", clusterHandler.Cluster)

	// Person routes
	personHandler := handler.NewPersonHandler(identityService, mergeService, searchService, r.logger)
	v1.Get("/persons", personHandler.List)
	v1.Post("/persons", personHandler.Create)
	v1.Post("/persons/merge", personHandler.Merge)
	v1.Get("/persons/:id", personHandler.Get)
	v1.Put("/persons/:id", personHandler.Rename)
	v1.Delete("/persons/:id", personHandler.Delete)
	v1.Post("/persons/:id/claim", personHandler.Claim)
	v1.Get("/persons/:id/faces", personHandler.Faces)
	v1.Get("/persons/:id/merge-suggestions", personHandler.MergeSuggestions)

	// Face routes
	faceHandler := handler.NewFaceHandler(identityService, r.logger)
	v1.Get("/faces", faceHandler.List)
	v1.Get("/faces/:id", faceHandler.Get)
	v1.Delete("/faces/:id", faceHandler.Delete)

	// Stats route
	statsHandler := handler.NewStatsHandler(identityService, r.logger)
	v1.Get("/stats", statsHandler.Get)
}

// WarmIndex loads the claimed-face index from storage. Called once at
// startup; searches work without it, just slower.
func (r *Router) WarmIndex(ctx context.Context) error {
	if r.engine == nil {
		return nil
	}
	return r.engine.RebuildIndex(ctx)
}

func (r *Router) App() *fiber.App {
	return r.app
}

func (r *Router) Listen(addr string) error {
	return r.app.Listen(addr)
}

func (r *Router) Shutdown() error {
	return r.app.Shutdown()
}
