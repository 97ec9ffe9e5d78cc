package router

import (
	"database/sql"
	"net/http"
	"os"
	"strings"

	mem "pet-nutrition-platform/internal/adapters/storage/memory"
	pg "pet-nutrition-platform/internal/adapters/storage/postgres"
	"pet-nutrition-platform/internal/domain/accounts"
	"pet-nutrition-platform/internal/domain/addresses"
	"pet-nutrition-platform/internal/domain/catalog"
	"pet-nutrition-platform/internal/domain/favorites"
	"pet-nutrition-platform/internal/domain/memberships"
	"pet-nutrition-platform/internal/domain/nutrition"
	"pet-nutrition-platform/internal/domain/orders"
	"pet-nutrition-platform/internal/domain/pets"
	"pet-nutrition-platform/internal/middleware"
	"pet-nutrition-platform/internal/platform/token"
	"pet-nutrition-platform/internal/platform/uploads"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type Options struct {
	Tokens *token.Manager // puede ser nil (modo dev: X-Debug-User-ID)
	Files  *uploads.Store // si es nil se crea sobre STATIC_DIR

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB
}

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	// Sin manager explícito se entra en modo dev: los tokens se firman
	// con un secreto fijo y la identidad puede venir por X-Debug-User-ID.
	var verifier middleware.Verifier
	if opts.Tokens != nil {
		verifier = opts.Tokens
	} else {
		opts.Tokens = token.NewManager("dev-secret", token.DefaultTTL)
	}
	r.Use(middleware.AuthContext(verifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	files := opts.Files
	if files == nil {
		files = uploads.NewStore(os.Getenv("STATIC_DIR"))
	}
	// Comprobantes, fotos y recetas se sirven como archivos planos.
	r.Handle("/static/*", http.StripPrefix("/static/",
		http.FileServer(http.Dir(strings.TrimSuffix(files.Root(), "/")))))

	var (
		accountsRepo  accounts.Repository
		petsRepo      pets.Repository
		addressesRepo addresses.Repository
		ordersRepo    orders.Repository
		nutritionRepo nutrition.Repository
	)

	// Si no te pasan DB explícita, intenta por env (para dev/handoff)
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err == nil {
				db = opened
			}
		}
	}

	if db != nil {
		accountsRepo = pg.NewAccountsRepo(db)
		petsRepo = pg.NewPetsRepo(db)
		addressesRepo = pg.NewAddressesRepo(db)
		ordersRepo = pg.NewOrdersRepo(db)
		nutritionRepo = pg.NewNutritionRepo(db)
	} else {
		accountsRepo = mem.NewAccountsRepo()
		petsRepo = mem.NewPetsRepo()
		addressesRepo = mem.NewAddressesRepo()
		ordersRepo = mem.NewOrdersRepo()
		nutritionRepo = mem.NewNutritionRepo()
	}

	// El catálogo vive en memoria con su sembrado inicial; las especies
	// y platos base no dependen de la base de datos. Favoritos y
	// membresías referencian ese catálogo y viven con él.
	catalogRepo := mem.NewCatalogRepo()
	catalogRepo.Seed()
	favoritesRepo := mem.NewFavoritesRepo()
	membershipsRepo := mem.NewMembershipsRepo()
	membershipsRepo.Seed()

	// Services por módulo
	accountsSvc := accounts.NewService(accountsRepo, opts.Tokens)
	catalogSvc := catalog.NewService(catalogRepo)
	petsSvc := pets.NewService(petsRepo)
	addressesSvc := addresses.NewService(addressesRepo)
	ordersSvc := orders.NewService(ordersRepo, catalogSvc)
	nutritionSvc := nutrition.NewService(nutritionRepo, petsSvc, catalogSvc)
	favoritesSvc := favorites.NewService(favoritesRepo, catalogSvc)
	membershipsSvc := memberships.NewService(membershipsRepo)

	// El borrado de mascotas consulta al módulo de nutrición sin que
	// los paquetes se importen entre sí.
	petsSvc.SetActiveRequestsChecker(nutritionSvc.HasActiveRequests)

	// Rutas por módulo
	accounts.RegisterRoutes(r, accountsSvc)
	catalog.RegisterRoutes(r, catalogSvc)
	pets.RegisterRoutes(r, petsSvc, files)
	addresses.RegisterRoutes(r, addressesSvc)
	orders.RegisterRoutes(r, ordersSvc, files)
	nutrition.RegisterRoutes(r, nutritionSvc, files)
	favorites.RegisterRoutes(r, favoritesSvc)
	memberships.RegisterRoutes(r, membershipsSvc)

	return r
}
