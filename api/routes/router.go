package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bakehouse-hq/bakehouse-backend/api/controllers"
	"github.com/bakehouse-hq/bakehouse-backend/api/middleware"
	"github.com/bakehouse-hq/bakehouse-backend/internal/auth"
	"github.com/bakehouse-hq/bakehouse-backend/internal/discounts"
	"github.com/bakehouse-hq/bakehouse-backend/internal/loyalty"
	"github.com/bakehouse-hq/bakehouse-backend/internal/orders"
	"github.com/bakehouse-hq/bakehouse-backend/pkg/config"
	"github.com/bakehouse-hq/bakehouse-backend/pkg/enums"
	"github.com/bakehouse-hq/bakehouse-backend/pkg/logger"
	"github.com/bakehouse-hq/bakehouse-backend/pkg/metrics"
)

// RouterParams bundles everything the router wires together.
type RouterParams struct {
	Config       *config.Config
	Logger       *logger.Logger
	DB           controllers.Pinger
	HTTPMetrics  *metrics.HTTPMetrics
	AuthService  auth.Service
	OrdersSvc    orders.Service
	DiscountsSvc discounts.Service
	LoyaltySvc   loyalty.Service
}

func NewRouter(params RouterParams) http.Handler {
	cfg := params.Config
	logg := params.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)
	if params.HTTPMetrics != nil {
		r.Use(middleware.Metrics(params.HTTPMetrics))
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, params.DB, logg))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/register", controllers.Register(params.AuthService, logg))
		r.Post("/login", controllers.Login(params.AuthService, logg))
	})

	customer := string(enums.UserRoleCustomer)
	cashier := string(enums.UserRoleCashier)
	manager := string(enums.UserRoleManager)

	r.Route("/api/v1/orders", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.With(middleware.RequireRoles(logg, customer, cashier)).
			Post("/", controllers.CreateOrder(params.OrdersSvc, logg))
		r.With(middleware.RequireRoles(logg, customer)).
			Get("/my", controllers.ListMyOrders(params.OrdersSvc, logg))
		r.With(middleware.RequireRoles(logg, cashier, manager)).
			Get("/", controllers.ListAllOrders(params.OrdersSvc, logg))
		r.With(middleware.RequireRoles(logg, cashier)).
			Patch("/{orderId}/status", controllers.UpdateOrderStatus(params.OrdersSvc, logg))
		r.With(middleware.RequireRoles(logg, customer)).
			Post("/{orderId}/redeem-points", controllers.RedeemPoints(params.LoyaltySvc, logg))
		r.With(middleware.RequireRoles(logg, customer, cashier)).
			Post("/{orderId}/discount", controllers.ApplyDiscount(params.DiscountsSvc, logg))
	})

	r.Route("/api/v1/loyalty", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.With(middleware.RequireRoles(logg, customer)).
			Get("/history", controllers.LoyaltyHistory(params.LoyaltySvc, logg))
	})

	return r
}
