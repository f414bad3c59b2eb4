package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/artemvolkov/furnistock-backend/api/controllers"
	"github.com/artemvolkov/furnistock-backend/api/middleware"
	"github.com/artemvolkov/furnistock-backend/internal/access"
	"github.com/artemvolkov/furnistock-backend/internal/auditlog"
	"github.com/artemvolkov/furnistock-backend/internal/barcodes"
	"github.com/artemvolkov/furnistock-backend/internal/furniture"
	"github.com/artemvolkov/furnistock-backend/internal/users"
	"github.com/artemvolkov/furnistock-backend/internal/warehouse"
	"github.com/artemvolkov/furnistock-backend/pkg/config"
	"github.com/artemvolkov/furnistock-backend/pkg/db"
	"github.com/artemvolkov/furnistock-backend/pkg/enums"
	"github.com/artemvolkov/furnistock-backend/pkg/logger"
	"github.com/artemvolkov/furnistock-backend/pkg/metrics"
	"github.com/artemvolkov/furnistock-backend/pkg/redis"
)

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          *db.Client
	Redis       *redis.Client
	HTTPMetrics *metrics.HTTPMetrics
	Registry    *prometheus.Registry
	Recorder    *auditlog.Recorder

	Users     users.Service
	Furniture furniture.Service
	Warehouse warehouse.Service
	Barcodes  barcodes.Service
	Logs      auditlog.Service
}

func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	logg := d.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)
	if d.HTTPMetrics != nil {
		r.Use(middleware.Metrics(d.HTTPMetrics))
	}

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, d.DB, logg))
	})

	if d.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{}))
	}

	// Rendered barcode PNGs are served straight off disk.
	fileServer := http.StripPrefix("/barcodes/", http.FileServer(http.Dir(cfg.Barcode.ImageDir)))
	r.Get("/barcodes/*", fileServer.ServeHTTP)

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.With(
				middleware.AuthRateLimit(registerPolicy, d.Redis, logg),
				middleware.Audit(d.Recorder, enums.LogActionUserCreated, enums.TargetModelUser),
			).Post("/users/register", controllers.Register(d.Users, logg))
			r.With(
				middleware.AuthRateLimit(loginPolicy, d.Redis, logg),
				middleware.Audit(d.Recorder, enums.LogActionUserLogin, enums.TargetModelUser),
			).Post("/users/login", controllers.Login(d.Users, logg))
		})

		r.Get("/barcodes/types", controllers.BarcodeTypes())

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))

			r.Route("/users", func(r chi.Router) {
				r.With(middleware.Audit(d.Recorder, enums.LogActionUserLogout, enums.TargetModelUser)).
					Post("/logout", controllers.Logout())
				r.Get("/profile", controllers.Profile(d.Users, logg))
				r.With(middleware.Audit(d.Recorder, enums.LogActionUserUpdated, enums.TargetModelUser)).
					Patch("/profile", controllers.UpdateProfile(d.Users, logg))

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(access.OpUsersManage, logg))
					r.Get("/", controllers.UsersList(d.Users, logg))
					r.Get("/{id}", controllers.UserGet(d.Users, logg))
					r.With(middleware.Audit(d.Recorder, enums.LogActionUserDeleted, enums.TargetModelUser)).
						Patch("/{id}/deactivate", controllers.DeactivateUser(d.Users, logg))
					r.With(middleware.Audit(d.Recorder, enums.LogActionUserUpdated, enums.TargetModelUser)).
						Patch("/{id}/activate", controllers.ActivateUser(d.Users, logg))
				})
				r.With(
					middleware.RequirePermission(access.OpUsersAssignRole, logg),
					middleware.Audit(d.Recorder, enums.LogActionRoleAssigned, enums.TargetModelUser),
				).Patch("/{id}/role", controllers.AssignRole(d.Users, logg))
			})

			r.Route("/furniture", func(r chi.Router) {
				r.Get("/", controllers.FurnitureList(d.Furniture, logg))
				r.Get("/{id}", controllers.FurnitureGet(d.Furniture, logg))
				r.With(middleware.RequirePermission(access.OpWarehouseView, logg)).
					Get("/{id}/availability", controllers.FurnitureAvailability(d.Warehouse, logg))

				r.With(
					middleware.RequirePermission(access.OpFurnitureCreate, logg),
					middleware.Audit(d.Recorder, enums.LogActionFurnitureAdded, enums.TargetModelFurniture),
				).Post("/", controllers.FurnitureCreate(d.Furniture, logg))
				r.With(
					middleware.RequirePermission(access.OpFurnitureUpdate, logg),
					middleware.Audit(d.Recorder, enums.LogActionFurnitureUpdated, enums.TargetModelFurniture),
				).Put("/{id}", controllers.FurnitureUpdate(d.Furniture, logg))
				r.With(
					middleware.RequirePermission(access.OpFurnitureDelete, logg),
					middleware.Audit(d.Recorder, enums.LogActionFurnitureDeleted, enums.TargetModelFurniture),
				).Delete("/{id}", controllers.FurnitureDelete(d.Furniture, logg))
				r.With(
					middleware.RequirePermission(access.OpFurnitureSell, logg),
					middleware.Audit(d.Recorder, enums.LogActionFurnitureSold, enums.TargetModelFurniture),
				).Post("/{id}/sell", controllers.FurnitureSell(d.Warehouse, logg))
				r.With(
					middleware.RequirePermission(access.OpFurnitureArrival, logg),
					middleware.Audit(d.Recorder, enums.LogActionFurnitureArrival, enums.TargetModelFurniture),
				).Post("/{id}/arrival", controllers.FurnitureArrival(d.Warehouse, logg))
			})

			r.Route("/warehouses", func(r chi.Router) {
				r.Use(middleware.RequirePermission(access.OpWarehouseView, logg))

				r.Get("/", controllers.WarehousesList(d.Warehouse, logg))
				r.Get("/{id}", controllers.WarehouseGet(d.Warehouse, logg))
				r.With(middleware.RequirePermission(access.OpStockReport, logg)).
					Get("/{id}/report", controllers.WarehouseReport(d.Warehouse, logg))

				r.With(
					middleware.RequirePermission(access.OpWarehouseCreate, logg),
					middleware.Audit(d.Recorder, enums.LogActionWarehouseCreated, enums.TargetModelWarehouse),
				).Post("/", controllers.WarehouseCreate(d.Warehouse, logg))
				r.With(
					middleware.RequirePermission(access.OpWarehouseUpdate, logg),
					middleware.Audit(d.Recorder, enums.LogActionWarehouseUpdated, enums.TargetModelWarehouse),
				).Patch("/{id}", controllers.WarehouseUpdate(d.Warehouse, logg))
				r.With(
					middleware.RequirePermission(access.OpWarehouseDelete, logg),
					middleware.Audit(d.Recorder, enums.LogActionWarehouseDeleted, enums.TargetModelWarehouse),
				).Delete("/{id}", controllers.WarehouseDelete(d.Warehouse, logg))

				r.With(
					middleware.RequirePermission(access.OpStockAdd, logg),
					middleware.Audit(d.Recorder, enums.LogActionFurnitureArrival, enums.TargetModelWarehouse),
				).Post("/{id}/furniture", controllers.WarehouseAddStock(d.Warehouse, logg))
				r.With(
					middleware.RequirePermission(access.OpStockRemove, logg),
					middleware.Audit(d.Recorder, enums.LogActionFurnitureSold, enums.TargetModelWarehouse),
				).Delete("/{id}/furniture", controllers.WarehouseRemoveStock(d.Warehouse, logg))
				r.With(
					middleware.RequirePermission(access.OpStockTransfer, logg),
					middleware.Audit(d.Recorder, enums.LogActionStockTransfer, enums.TargetModelWarehouse),
				).Post("/transfer", controllers.WarehouseTransfer(d.Warehouse, logg))
			})

			r.Route("/barcodes", func(r chi.Router) {
				// Reads and scanning need authentication only.
				r.Get("/", controllers.BarcodesList(d.Barcodes, logg))
				r.Get("/{id}", controllers.BarcodeGet(d.Barcodes, logg))
				r.Post("/scan", controllers.BarcodeScan(d.Barcodes, cfg.Barcode, logg))

				r.With(
					middleware.RequirePermission(access.OpBarcodesManage, logg),
					middleware.Audit(d.Recorder, enums.LogActionBarcodeGenerated, enums.TargetModelBarcode),
				).Post("/", controllers.BarcodeGenerate(d.Barcodes, logg))
				r.With(
					middleware.RequirePermission(access.OpBarcodesManage, logg),
					middleware.Audit(d.Recorder, enums.LogActionBarcodeDeleted, enums.TargetModelBarcode),
				).Delete("/{id}", controllers.BarcodeDelete(d.Barcodes, logg))
			})

			r.Route("/logs", func(r chi.Router) {
				r.Use(middleware.RequirePermission(access.OpLogsView, logg))
				r.Get("/users/{id}", controllers.LogsUserActivity(d.Logs, logg))
				r.Get("/actions/{action}", controllers.LogsRecentActions(d.Logs, logg))
			})
		})
	})

	return r
}
