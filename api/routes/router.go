package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Sanjay-2k-5/FarmToHome/api/controllers"
	"github.com/Sanjay-2k-5/FarmToHome/api/middleware"
	"github.com/Sanjay-2k-5/FarmToHome/internal/auth"
	"github.com/Sanjay-2k-5/FarmToHome/internal/cart"
	checkoutsvc "github.com/Sanjay-2k-5/FarmToHome/internal/checkout"
	"github.com/Sanjay-2k-5/FarmToHome/internal/orders"
	"github.com/Sanjay-2k-5/FarmToHome/internal/products"
	"github.com/Sanjay-2k-5/FarmToHome/internal/revenue"
	"github.com/Sanjay-2k-5/FarmToHome/pkg/auth/session"
	"github.com/Sanjay-2k-5/FarmToHome/pkg/config"
	"github.com/Sanjay-2k-5/FarmToHome/pkg/db"
	"github.com/Sanjay-2k-5/FarmToHome/pkg/enums"
	"github.com/Sanjay-2k-5/FarmToHome/pkg/logger"
	"github.com/Sanjay-2k-5/FarmToHome/pkg/metrics"
	"github.com/Sanjay-2k-5/FarmToHome/pkg/redis"
)

type sessionManager interface {
	session.AccessSessionChecker
	Rotate(context.Context, string, string) (string, string, error)
	Revoke(context.Context, string) error
}

// Deps bundles everything the HTTP surface needs.
type Deps struct {
	Config         *config.Config
	Logger         *logger.Logger
	DB             db.Pinger
	Redis          *redis.Client
	SessionManager sessionManager
	APIMetrics     *metrics.APIMetrics
	Registry       *prometheus.Registry

	AuthService     auth.Service
	ProductService  products.Service
	CartService     cart.Service
	CheckoutService checkoutsvc.Service
	OrdersService   orders.Service
	RevenueService  revenue.Service
}

func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	logg := d.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.CORS(cfg.App.AllowedOrigins()),
		middleware.Logging(logg, d.APIMetrics),
	)

	r.Get("/healthz", controllers.HealthLive(cfg))
	r.Get("/readyz", controllers.HealthReady(cfg, logg, d.DB, d.Redis))
	if d.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{}))
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

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(
				middleware.AuthRateLimit(registerPolicy, d.Redis, logg),
				middleware.Idempotency(d.Redis, logg),
			).Post("/register", controllers.AuthRegister(d.AuthService, logg))
			r.With(middleware.AuthRateLimit(loginPolicy, d.Redis, logg)).Post("/login", controllers.AuthLogin(d.AuthService, logg))
			r.Post("/refresh", controllers.AuthRefresh(d.AuthService, logg))
			r.With(middleware.Auth(cfg.JWT, d.SessionManager, logg)).Post("/logout", controllers.AuthLogout(d.AuthService, logg))
		})

		r.Get("/products", controllers.ListProducts(d.ProductService, logg))
		r.Get("/products/{productID}", controllers.GetProduct(d.ProductService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, d.SessionManager, logg))
			r.Use(middleware.Idempotency(d.Redis, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Use(middleware.RequireRole(logg, enums.UserRoleConsumer))
				r.Get("/", controllers.CartFetch(d.CartService, logg))
				r.Delete("/", controllers.CartClear(d.CartService, logg))
				r.Put("/items", controllers.CartUpsert(d.CartService, logg))
				r.Delete("/items/{productID}", controllers.CartRemoveItem(d.CartService, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireRole(logg, enums.UserRoleConsumer))
					r.Post("/", controllers.PlaceOrder(d.CheckoutService, logg))
					r.Get("/", controllers.ListMyOrders(d.OrdersService, logg))
					r.Post("/{orderID}/cancel", controllers.CancelOrder(d.OrdersService, logg))
				})
				r.Get("/{orderID}", controllers.OrderDetail(d.OrdersService, logg))
			})

			r.Route("/farmer", func(r chi.Router) {
				r.Use(middleware.RequireRole(logg, enums.UserRoleFarmer, enums.UserRoleAdmin))
				r.Get("/products", controllers.FarmerListProducts(d.ProductService, logg))
				r.Post("/products", controllers.FarmerCreateProduct(d.ProductService, logg))
				r.Patch("/products/{productID}", controllers.FarmerUpdateProduct(d.ProductService, logg))
				r.Delete("/products/{productID}", controllers.FarmerDeactivateProduct(d.ProductService, logg))
				r.Get("/orders", controllers.FarmerListOrders(d.OrdersService, logg))
				r.Post("/orders/{orderID}/status", controllers.TransitionOrderStatus(d.OrdersService, logg))
			})

			r.Route("/delivery", func(r chi.Router) {
				r.Use(middleware.RequireRole(logg, enums.UserRoleDelivery, enums.UserRoleAdmin))
				r.Get("/orders", controllers.DeliveryQueue(d.OrdersService, logg))
				r.Post("/orders/{orderID}/status", controllers.TransitionOrderStatus(d.OrdersService, logg))
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireRole(logg, enums.UserRoleAdmin))
				r.Get("/revenue", controllers.AdminListPendingRevenue(d.RevenueService, logg))
				r.Get("/revenue/stats", controllers.AdminRevenueStats(d.RevenueService, logg))
				r.Post("/revenue/{recordID}/process", controllers.AdminProcessRevenue(d.RevenueService, logg))
			})
		})
	})

	return r
}
