package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"

	"repairshop-backend/config"
	"repairshop-backend/internal/apperr"
	"repairshop-backend/internal/client"
	"repairshop-backend/internal/invoice"
	"repairshop-backend/internal/repair"
	"repairshop-backend/internal/store"
	"repairshop-backend/internal/tracking"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store    store.Store
	clients  *client.Service
	repairs  *repair.Service
	invoices *invoice.Service
	tracking *tracking.Service
	webpush  *webpush.Options
}

// NewHandler creates a new API handler. notifier and webpushOptions may be
// nil when push notifications are not configured.
func NewHandler(s store.Store, tc config.TrackingConfig, notifier repair.Notifier, webpushOptions *webpush.Options) *Handler {
	return &Handler{
		store:    s,
		clients:  client.NewService(s),
		repairs:  repair.NewService(s, notifier),
		invoices: invoice.NewService(s),
		tracking: tracking.NewService(s, tc.BaseURL, tc.QRSize),
		webpush:  webpushOptions,
	}
}

// respondError writes the JSON error matching the kind of err. Storage and
// unknown failures are logged through the gin context and reported as an
// opaque 500.
func respondError(c *gin.Context, err error) {
	var (
		ve *apperr.ValidationError
		nf *apperr.NotFoundError
		ce *apperr.ConflictError
	)
	switch {
	case errors.As(err, &ve):
		body := gin.H{"error": ve.Message}
		if len(ve.Fields) > 0 {
			body["details"] = ve.Fields
		}
		c.JSON(http.StatusBadRequest, body)
	case errors.As(err, &nf):
		c.JSON(http.StatusNotFound, gin.H{"error": nf.Error()})
	case errors.As(err, &ce):
		c.JSON(http.StatusBadRequest, gin.H{"error": ce.Message})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// badRequest reports an unreadable request body.
func badRequest(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
}

// pathID parses the :name path parameter as a positive id. On failure it
// writes the 400 and returns false.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}
