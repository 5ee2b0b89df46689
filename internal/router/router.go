package router

import (
	"context"
	"database/sql"
	"net/http"
	"os"

	mem "condo-facility-management/internal/adapters/storage/memory"
	pg "condo-facility-management/internal/adapters/storage/postgres"
	"condo-facility-management/internal/domain/assets"
	"condo-facility-management/internal/domain/condos"
	"condo-facility-management/internal/domain/maintenance"
	"condo-facility-management/internal/domain/memberships"
	"condo-facility-management/internal/domain/workorders"
	"condo-facility-management/internal/middleware"
	"condo-facility-management/internal/platform/logger"
	"condo-facility-management/internal/ports/auth"
	"condo-facility-management/internal/ports/capabilities"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "condo-facility-management/docs" // swagger docs generados
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	// Opcional: resolver de features por plan. Si es nil, los handlers
	// que lo consultan permiten todo (modo dev).
	Capabilities capabilities.CapabilitiesResolver

	Logger logger.Logger
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.NewFromEnv()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/swagger/*", httpSwagger.Handler())

	var (
		condoRepo  condos.Repository
		assetRepo  assets.Repository
		maintRepo  maintenance.Repository
		woRepo     workorders.Repository
		memberRepo memberships.Repository
	)

	// Si no te pasan DB explícita, intenta por env (para dev/handoff)
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err == nil {
				db = opened
			} else {
				log.Warn("db open failed, falling back to memory", map[string]any{"err": err.Error()})
			}
		}
	}

	if db != nil {
		condoRepo = pg.NewCondosRepo(db)
		assetRepo = pg.NewAssetsRepo(db)
		maintRepo = pg.NewMaintenanceRepo(db)
		woRepo = pg.NewWorkOrdersRepo(db)
		memberRepo = pg.NewMembershipsRepo(db)
		log.Info("storage ready", map[string]any{"driver": "postgres"})
	} else {
		condoRepo = mem.NewCondoRepo()
		assetRepo = mem.NewAssetRepo()
		maintRepo = mem.NewMaintenanceRepo()
		woRepo = mem.NewWorkOrderRepo()
		memberRepo = mem.NewMembershipRepo()
		log.Info("storage ready", map[string]any{"driver": "memory"})
	}

	// Services por módulo
	condosSvc := condos.NewService(condoRepo)
	assetsSvc := assets.NewService(assetRepo)
	maintSvc := maintenance.NewService(maintRepo)
	woSvc := workorders.NewService(woRepo)
	membersSvc := memberships.NewService(memberRepo)

	// Rutas por módulo
	condos.RegisterRoutes(r, condosSvc, membersSvc)
	assets.RegisterRoutes(r, assetsSvc, condosSvc, membersSvc, provisionAdapter{maintSvc})
	maintenance.RegisterRoutes(r, maintSvc, assetsSvc, condosSvc, membersSvc, woSvc, opts.Capabilities)
	workorders.RegisterRoutes(r, woSvc, condosSvc, membersSvc)
	memberships.RegisterRoutes(r, membersSvc, condosSvc)

	return r
}

// provisionAdapter adapta maintenance.Service a assets.Provisioner
// (la interfaz vive en assets para romper el ciclo de imports).
type provisionAdapter struct {
	svc *maintenance.Service
}

func (p provisionAdapter) ProvisionAsset(ctx context.Context, condoID, assetID string, category assets.Category) (int, error) {
	items, err := p.svc.ProvisionForAsset(ctx, condoID, assetID, category)
	if err != nil {
		return 0, err
	}
	return len(items), nil
}
