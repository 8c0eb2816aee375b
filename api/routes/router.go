package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mesalivre/pos-backend/api/controllers"
	"github.com/mesalivre/pos-backend/api/middleware"
	"github.com/mesalivre/pos-backend/internal/catalog"
	"github.com/mesalivre/pos-backend/internal/customers"
	"github.com/mesalivre/pos-backend/internal/orders"
	"github.com/mesalivre/pos-backend/internal/session"
	"github.com/mesalivre/pos-backend/internal/staff"
	"github.com/mesalivre/pos-backend/pkg/config"
	"github.com/mesalivre/pos-backend/pkg/logger"
)

// Deps carries everything the HTTP layer serves from.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	Registry *prometheus.Registry

	Sessions     *session.Manager
	StaffService staff.Service
	OrderService orders.Service
	Customers    customers.Service
	Catalog      catalog.Repository

	// health checks; nil entries are reported as skipped
	Pingers map[string]controllers.Pinger
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger
	manager := deps.Sessions

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.Pingers))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/login", controllers.AuthLogin(deps.StaffService, manager, cfg.JWT, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, manager, logg))

		r.Post("/auth/logout", controllers.AuthLogout(manager, logg))

		r.Route("/session", func(r chi.Router) {
			r.Get("/", controllers.SessionState(manager, logg))
			r.Post("/order-builder", controllers.OpenOrderBuilder(manager, logg))
			r.Post("/delivery-intake", controllers.OpenDeliveryIntake(manager, logg))
			r.Post("/delivery-intake/confirm", controllers.ConfirmDeliveryIntake(manager, deps.Customers, logg))
			r.Post("/order-review", controllers.OpenOrderReview(manager, logg))
			r.Post("/back", controllers.BackToFloor(manager, logg))
		})

		r.Get("/floor", controllers.FloorSnapshot(manager, logg))

		r.Route("/catalog", func(r chi.Router) {
			r.Get("/categories", controllers.CatalogCategories(manager, deps.Catalog, logg))
			r.Get("/products", controllers.CatalogProducts(manager, deps.Catalog, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartGet(manager, logg))
			r.Post("/items", controllers.CartAddItem(manager, deps.Catalog, logg))
			r.Patch("/items/quantity", controllers.CartUpdateQuantity(manager, logg))
			r.Post("/items/remove", controllers.CartRemoveItem(manager, logg))
			r.Put("/items/notes", controllers.CartSetItemNotes(manager, logg))
			r.Put("/notes", controllers.CartSetOrderNotes(manager, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", controllers.OrderSubmit(manager, deps.OrderService, logg))
			r.Get("/bill", controllers.OrderReviewBill(manager, deps.OrderService, logg))
			r.Post("/{orderID}/status", controllers.OrderAdvanceStatus(manager, deps.OrderService, logg))
		})

		r.Route("/settlement", func(r chi.Router) {
			r.Post("/", controllers.SettlementStart(manager, deps.OrderService, logg))
			r.Get("/", controllers.SettlementState(manager, logg))
			r.Put("/mode", controllers.SettlementSetMode(manager, logg))
			r.Put("/method", controllers.SettlementSetMethod(manager, logg))
			r.Put("/cash", controllers.SettlementSetCash(manager, logg))
			r.Put("/split", controllers.SettlementSetSplit(manager, logg))
			r.Post("/entries", controllers.SettlementAddEntry(manager, logg))
			r.Delete("/entries/{entryID}", controllers.SettlementRemoveEntry(manager, logg))
			r.Post("/close", controllers.BillClose(manager, deps.OrderService, logg))
		})

		r.Route("/customers", func(r chi.Router) {
			r.Get("/search", controllers.CustomerSearch(manager, deps.Customers, logg))
			r.Get("/delivery-fees", controllers.DeliveryFees(manager, deps.Customers, logg))
		})
	})

	return r
}
