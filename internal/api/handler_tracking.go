package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Track handles GET /api/track/:token.
func (h *Handler) Track(c *gin.Context) {
	res, err := h.tracking.Resolve(c.Request.Context(), c.Param("token"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// TrackQR handles GET /api/track/:token/qr.
func (h *Handler) TrackQR(c *gin.Context) {
	png, err := h.tracking.QRCode(c.Request.Context(), c.Param("token"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// GetStats handles GET /api/stats.
func (h *Handler) GetStats(c *gin.Context) {
	st, err := h.store.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// Health handles GET /healthz.
func (h *Handler) Health(c *gin.Context) {
	if err := h.store.Ping(c.Request.Context()); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
