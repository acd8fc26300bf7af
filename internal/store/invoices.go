package store

import (
	"context"
	"fmt"

	"gorm.io/gorm/clause"

	"repairshop-backend/internal/apperr"
	"repairshop-backend/internal/model"
)

func (s *gormStore) CreateInvoice(ctx context.Context, inv *model.Invoice) error {
	err := s.db.WithContext(ctx).Omit(clause.Associations).Create(inv).Error
	return translate("create invoice", err, "repair", inv.RepairID,
		fmt.Sprintf("an invoice already exists for repair %d", inv.RepairID))
}

func (s *gormStore) GetInvoice(ctx context.Context, id int64) (*model.Invoice, error) {
	return s.findInvoice(ctx, "get invoice", "id = ?", id)
}

func (s *gormStore) GetInvoiceByNumber(ctx context.Context, number string) (*model.Invoice, error) {
	return s.findInvoice(ctx, "get invoice by number", "number = ?", number)
}

func (s *gormStore) GetInvoiceByRepair(ctx context.Context, repairID int64) (*model.Invoice, error) {
	return s.findInvoice(ctx, "get invoice by repair", "repair_id = ?", repairID)
}

func (s *gormStore) findInvoice(ctx context.Context, op, cond string, arg any) (*model.Invoice, error) {
	var inv model.Invoice
	err := s.db.WithContext(ctx).
		Preload("Repair").Preload("Repair.Client").Preload("Repair.Device").
		Where(cond, arg).First(&inv).Error
	if err != nil {
		return nil, translate(op, err, "invoice", arg, "")
	}
	return &inv, nil
}

func (s *gormStore) ListInvoices(ctx context.Context, f InvoiceFilter) ([]model.Invoice, error) {
	q := s.db.WithContext(ctx).Preload("Repair").Preload("Repair.Client").Order("issued_at DESC, id DESC")
	if f.PaymentStatus != "" {
		q = q.Where("payment_status = ?", f.PaymentStatus)
	}
	if f.Since != nil {
		q = q.Where("issued_at >= ?", *f.Since)
	}

	invoices := []model.Invoice{}
	if err := q.Find(&invoices).Error; err != nil {
		return nil, apperr.Storage("list invoices", err)
	}
	return invoices, nil
}

func (s *gormStore) UpdateInvoice(ctx context.Context, inv *model.Invoice) error {
	err := s.db.WithContext(ctx).Omit(clause.Associations).Save(inv).Error
	return translate("update invoice", err, "invoice", inv.ID, "invoice number already in use")
}

func (s *gormStore) DeleteInvoice(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(&model.Invoice{}, id)
	if res.Error != nil {
		return apperr.Storage("delete invoice", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("invoice", id)
	}
	return nil
}
