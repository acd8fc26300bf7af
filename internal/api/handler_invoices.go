package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"repairshop-backend/internal/apperr"
	"repairshop-backend/internal/invoice"
	"repairshop-backend/internal/model"
	"repairshop-backend/internal/store"
)

func (h *Handler) CreateInvoice(c *gin.Context) {
	var req invoice.IssueParams
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	inv, err := h.invoices.Issue(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, inv)
}

// ListInvoices handles GET /api/invoices?statut=&periode=.
func (h *Handler) ListInvoices(c *gin.Context) {
	f := store.InvoiceFilter{PaymentStatus: model.PaymentStatus(c.Query("statut"))}
	if f.PaymentStatus != "" && !f.PaymentStatus.Valid() {
		respondError(c, apperr.Validation("invalid payment status", "statut"))
		return
	}
	since, err := periodParam(c)
	if err != nil {
		respondError(c, err)
		return
	}
	f.Since = since

	invoices, err := h.invoices.List(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoices)
}

func (h *Handler) GetInvoice(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	inv, err := h.invoices.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

// GetInvoiceText handles GET /api/invoices/:id/text, the downloadable
// plain-text invoice.
func (h *Handler) GetInvoiceText(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	inv, err := h.invoices.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	text, err := invoice.Text(inv)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+invoice.TextFilename(inv)+`"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(text))
}

func (h *Handler) UpdateInvoice(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req invoice.UpdateParams
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	inv, err := h.invoices.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

func (h *Handler) DeleteInvoice(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.invoices.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
