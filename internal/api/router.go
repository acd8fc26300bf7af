package api

import (
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"repairshop-backend/config"
	"repairshop-backend/internal/metrics"
	"repairshop-backend/internal/mw"
	"repairshop-backend/internal/repair"
	"repairshop-backend/internal/store"
)

// Options carries what the router needs beyond the store.
type Options struct {
	Server   config.ServerConfig
	Tracking config.TrackingConfig
	// Notifier receives repair status changes. Nil disables notifications.
	Notifier repair.Notifier
	WebPush  *webpush.Options
}

// NewRouter creates and configures a new Gin router.
func NewRouter(s store.Store, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(mw.RequestLog(), mw.Metrics(), gin.Recovery())

	handler := NewHandler(s, opts.Tracking, opts.Notifier, opts.WebPush)

	r.GET("/healthz", handler.Health)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	rateLimiter := mw.RateLimiter(rate.Limit(opts.Server.RateLimitPerSec), opts.Server.RateLimitBurst)

	ttl := opts.Server.CacheTTL()
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	caching := mw.Cache(cache.New(ttl, 2*ttl), ttl)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		// subscriptions and the key are per browser; keep them out of the cache
		api.GET("/subscriptions", handler.GetSubscription)
		api.PUT("/subscriptions", handler.PutSubscription)
		api.DELETE("/subscriptions", handler.DeleteSubscription)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)
	}

	data := api.Group("")
	data.Use(caching)
	{
		data.POST("/clients", handler.CreateClient)
		data.GET("/clients", handler.ListClients)
		data.GET("/clients/:id", handler.GetClient)
		data.PUT("/clients/:id", handler.UpdateClient)
		data.DELETE("/clients/:id", handler.DeleteClient)
		data.POST("/clients/:id/devices", handler.AddDevice)

		data.GET("/devices/:id", handler.GetDevice)
		data.PUT("/devices/:id", handler.UpdateDevice)
		data.DELETE("/devices/:id", handler.DeleteDevice)

		data.POST("/repairs", handler.CreateRepair)
		data.GET("/repairs", handler.ListRepairs)
		data.GET("/repairs/:id", handler.GetRepair)
		data.PUT("/repairs/:id", handler.UpdateRepair)
		data.PATCH("/repairs/:id/status", handler.UpdateRepairStatus)
		data.DELETE("/repairs/:id", handler.DeleteRepair)

		data.POST("/invoices", handler.CreateInvoice)
		data.GET("/invoices", handler.ListInvoices)
		data.GET("/invoices/:id", handler.GetInvoice)
		data.GET("/invoices/:id/text", handler.GetInvoiceText)
		data.PUT("/invoices/:id", handler.UpdateInvoice)
		data.DELETE("/invoices/:id", handler.DeleteInvoice)

		data.GET("/track/:token", handler.Track)
		data.GET("/track/:token/qr", handler.TrackQR)

		data.GET("/stats", handler.GetStats)
	}

	return r
}
