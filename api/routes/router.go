package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/diwinters/tradewind-backend/api/controllers"
	"github.com/diwinters/tradewind-backend/api/middleware"
	"github.com/diwinters/tradewind-backend/internal/notifications"
	"github.com/diwinters/tradewind-backend/internal/orders"
	"github.com/diwinters/tradewind-backend/internal/tracking"
	"github.com/diwinters/tradewind-backend/internal/wallet"
	"github.com/diwinters/tradewind-backend/pkg/config"
	"github.com/diwinters/tradewind-backend/pkg/logger"
	pkgredis "github.com/diwinters/tradewind-backend/pkg/redis"
)

// Deps carries everything the HTTP surface needs. The router stays a pure
// wiring layer; services own all domain behavior.
type Deps struct {
	Config        *config.Config
	Logger        *logger.Logger
	Redis         pkgredis.IdempotencyStore
	Registry      *prometheus.Registry
	ReadyProbes   map[string]func() error
	Wallet        wallet.Service
	Orders        orders.Service
	Notifications notifications.Service
	Tracking      tracking.Service
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

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, d.ReadyProbes))
	})

	if d.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(d.Redis, logg))

		r.Route("/wallet", func(r chi.Router) {
			r.Get("/balance", controllers.WalletBalance(d.Wallet, logg))
			r.Post("/deposit", controllers.WalletDeposit(d.Wallet, logg))
			r.Post("/withdraw", controllers.WalletWithdraw(d.Wallet, logg))
			r.Get("/transactions", controllers.WalletTransactions(d.Wallet, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.ListOrders(d.Orders, logg))
			r.Post("/", controllers.CreateOrder(d.Orders, cfg.Platform, logg))
			r.Route("/{orderId}", func(r chi.Router) {
				r.Get("/", controllers.OrderDetail(d.Orders, logg))
				r.Post("/pay", controllers.PayOrder(d.Orders, logg))
				r.Post("/accept", controllers.AcceptOrder(d.Orders, logg))
				r.Post("/reject", controllers.RejectOrder(d.Orders, logg))
				r.Post("/start", controllers.StartOrderProgress(d.Orders, logg))
				r.Post("/ship", controllers.ShipOrder(d.Orders, logg))
				r.Post("/deliver", controllers.DeliverOrder(d.Orders, logg))
				r.Post("/complete", controllers.CompleteOrder(d.Orders, logg))
				r.Post("/cancel", controllers.CancelOrder(d.Orders, logg))
				r.Post("/dispute", controllers.OpenOrderDispute(d.Orders, logg))
				r.Post("/tracking", controllers.PublishTracking(d.Tracking, logg))
				r.Get("/tracking/channel", controllers.TrackingChannel(d.Tracking, logg))
			})
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", controllers.ListNotifications(d.Notifications, logg))
			r.Post("/{notificationId}/read", controllers.MarkNotificationRead(d.Notifications, logg))
			r.Post("/read-all", controllers.MarkAllNotificationsRead(d.Notifications, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireRole("admin", logg))
		r.Use(middleware.Idempotency(d.Redis, logg))

		r.Post("/disputes/{orderId}/resolve", controllers.ResolveDispute(d.Orders, logg))
	})

	return r
}
