package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"repairshop-backend/internal/apperr"
	"repairshop-backend/internal/model"
	"repairshop-backend/internal/repair"
	"repairshop-backend/internal/store"
)

func (h *Handler) CreateRepair(c *gin.Context) {
	var req repair.Proposal
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	r, err := h.repairs.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, r)
}

// ListRepairs handles GET /api/repairs?q=&statut=&categorie=&clientId=&periode=.
func (h *Handler) ListRepairs(c *gin.Context) {
	f, err := repairFilter(c)
	if err != nil {
		respondError(c, err)
		return
	}
	repairs, err := h.repairs.List(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, repairs)
}

func (h *Handler) GetRepair(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	r, err := h.repairs.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// UpdateRepair handles PUT /api/repairs/:id with the full ticket.
func (h *Handler) UpdateRepair(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req repair.Proposal
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	r, err := h.repairs.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

type statusRequest struct {
	Status string `json:"statut"`
}

// UpdateRepairStatus handles PATCH /api/repairs/:id/status.
func (h *Handler) UpdateRepairStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	r, err := h.repairs.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (h *Handler) DeleteRepair(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.repairs.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func repairFilter(c *gin.Context) (store.RepairFilter, error) {
	f := store.RepairFilter{
		Query:    c.Query("q"),
		Status:   model.RepairStatus(c.Query("statut")),
		Category: model.Category(c.Query("categorie")),
	}
	if f.Status != "" && !f.Status.Valid() {
		return f, apperr.Validation("invalid status", "statut")
	}
	if f.Category != "" && !f.Category.Valid() {
		return f, apperr.Validation("invalid category", "categorie")
	}
	if raw := c.Query("clientId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return f, apperr.Validation("invalid client id", "clientId")
		}
		f.ClientID = id
	}
	since, err := periodParam(c)
	if err != nil {
		return f, err
	}
	f.Since = since
	return f, nil
}
