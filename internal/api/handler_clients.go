package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"repairshop-backend/internal/apperr"
	"repairshop-backend/internal/client"
	"repairshop-backend/internal/store"
)

// CreateClient handles POST /api/clients: a client together with its device.
func (h *Handler) CreateClient(c *gin.Context) {
	var req client.CreateParams
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	cl, dev, err := h.clients.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"client": cl, "appareil": dev})
}

// ListClients handles GET /api/clients?q=&periode=.
func (h *Handler) ListClients(c *gin.Context) {
	since, err := periodParam(c)
	if err != nil {
		respondError(c, err)
		return
	}
	clients, err := h.clients.List(c.Request.Context(), store.ClientFilter{Query: c.Query("q"), Since: since})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, clients)
}

func (h *Handler) GetClient(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	cl, err := h.clients.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cl)
}

func (h *Handler) UpdateClient(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req client.ClientInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	cl, err := h.clients.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cl)
}

func (h *Handler) DeleteClient(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.clients.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AddDevice handles POST /api/clients/:id/devices.
func (h *Handler) AddDevice(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req client.DeviceInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	dev, err := h.clients.AddDevice(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dev)
}

func (h *Handler) GetDevice(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	dev, err := h.clients.GetDevice(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dev)
}

func (h *Handler) UpdateDevice(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req client.DeviceInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	dev, err := h.clients.UpdateDevice(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dev)
}

func (h *Handler) DeleteDevice(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.clients.DeleteDevice(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// periodParam reads the periode query parameter.
func periodParam(c *gin.Context) (*time.Time, error) {
	p := store.Period(c.Query("periode"))
	if !p.Valid() {
		return nil, apperr.Validation("periode must be today, week or month", "periode")
	}
	return p.Since(time.Now()), nil
}
