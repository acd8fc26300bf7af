package invoice

import (
	"context"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"repairshop-backend/internal/apperr"
	"repairshop-backend/internal/metrics"
	"repairshop-backend/internal/model"
	"repairshop-backend/internal/store"
)

// IssueParams is an invoice creation request. A nil Amount bills the final
// cost of the repair, or its estimate when no final cost is set.
type IssueParams struct {
	RepairID      int64    `json:"reparationId"`
	Amount        *float64 `json:"montantHT"`
	PaymentStatus string   `json:"statutPaiement"`
	PaymentMethod *string  `json:"methodePaiement"`
	Notes         *string  `json:"notes"`
}

// UpdateParams changes the mutable fields of an invoice. Nil fields are left
// as they are. RepairID may be sent back but must match.
type UpdateParams struct {
	RepairID      *int64   `json:"reparationId"`
	Amount        *float64 `json:"montantHT"`
	PaymentStatus *string  `json:"statutPaiement"`
	PaymentMethod *string  `json:"methodePaiement"`
	Notes         *string  `json:"notes"`
}

// Service issues and updates invoices.
type Service struct {
	store store.Store
	now   func() time.Time
}

func NewService(s store.Store) *Service {
	return &Service{store: s, now: time.Now}
}

// Issue creates the invoice of a repair. The repair must exist, must not be
// billed yet and must be Done or Delivered, checked in that order.
func (s *Service) Issue(ctx context.Context, p IssueParams) (*model.Invoice, error) {
	if p.RepairID <= 0 {
		return nil, apperr.Validation("missing required fields", "reparationId")
	}
	if p.Amount != nil && *p.Amount < 0 {
		return nil, apperr.Validation("amount must not be negative", "montantHT")
	}
	status := model.PaymentPending
	if p.PaymentStatus != "" {
		status = model.PaymentStatus(p.PaymentStatus)
		if !status.Valid() {
			return nil, apperr.Validation(fmt.Sprintf("invalid payment status %q", p.PaymentStatus), "statutPaiement")
		}
	}

	repair, err := s.store.GetRepair(ctx, p.RepairID)
	if err != nil {
		return nil, err
	}
	existing, err := s.store.GetInvoiceByRepair(ctx, p.RepairID)
	switch {
	case err == nil:
		return nil, apperr.Conflict("an invoice already exists for repair %d (%s)", p.RepairID, existing.Number)
	case !apperr.IsNotFound(err):
		return nil, err
	}
	if !repair.Status.Invoiceable() {
		return nil, apperr.Conflict("repair %d is %s; only finished or delivered repairs can be invoiced", repair.ID, repair.Status)
	}

	amount := repair.FinalCost
	if amount <= 0 {
		amount = repair.EstimatedCost
	}
	if p.Amount != nil {
		amount = *p.Amount
	}

	now := s.now()
	inv := &model.Invoice{
		RepairID:      repair.ID,
		Number:        Number(now.Year(), repair.ID),
		IssuedAt:      now,
		PaymentStatus: status,
		PaymentMethod: optional(p.PaymentMethod),
		Notes:         optional(p.Notes),
	}
	setAmount(inv, amount)
	if status == model.PaymentPaid {
		inv.PaidAt = &now
	}

	// a concurrent Issue for the same repair loses on the unique index
	if err := s.store.CreateInvoice(ctx, inv); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"invoice":   inv.Number,
		"repair_id": repair.ID,
		"total":     inv.Total,
	}).Info("invoice issued")
	metrics.RecordInvoiceIssued(string(inv.PaymentStatus))
	return s.store.GetInvoice(ctx, inv.ID)
}

// Update applies p to the invoice. The payment date is stamped the first
// time the invoice is marked paid and never cleared afterwards.
func (s *Service) Update(ctx context.Context, id int64, p UpdateParams) (*model.Invoice, error) {
	inv, err := s.store.GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.RepairID != nil && *p.RepairID != inv.RepairID {
		return nil, apperr.Validation("the repair of an invoice cannot be changed", "reparationId")
	}
	if p.Amount != nil && *p.Amount < 0 {
		return nil, apperr.Validation("amount must not be negative", "montantHT")
	}
	if p.PaymentStatus != nil {
		status := model.PaymentStatus(*p.PaymentStatus)
		if !status.Valid() {
			return nil, apperr.Validation(fmt.Sprintf("invalid payment status %q", *p.PaymentStatus), "statutPaiement")
		}
		inv.PaymentStatus = status
	}

	if p.Amount != nil {
		setAmount(inv, *p.Amount)
	}
	if p.PaymentMethod != nil {
		inv.PaymentMethod = optional(p.PaymentMethod)
	}
	if p.Notes != nil {
		inv.Notes = optional(p.Notes)
	}
	if inv.PaymentStatus == model.PaymentPaid && inv.PaidAt == nil {
		now := s.now()
		inv.PaidAt = &now
	}

	inv.Repair = nil
	if err := s.store.UpdateInvoice(ctx, inv); err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{"invoice": inv.Number, "status": inv.PaymentStatus}).Info("invoice updated")
	return s.store.GetInvoice(ctx, id)
}

func (s *Service) Get(ctx context.Context, id int64) (*model.Invoice, error) {
	return s.store.GetInvoice(ctx, id)
}

func (s *Service) List(ctx context.Context, f store.InvoiceFilter) ([]model.Invoice, error) {
	return s.store.ListInvoices(ctx, f)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.store.DeleteInvoice(ctx, id); err != nil {
		return err
	}
	log.WithField("invoice_id", id).Info("invoice deleted")
	return nil
}

func setAmount(inv *model.Invoice, amount float64) {
	inv.Amount, inv.Tax, inv.Total = Totals(amount)
}

func optional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
