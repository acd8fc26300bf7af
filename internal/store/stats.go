package store

import (
	"context"

	"repairshop-backend/internal/apperr"
	"repairshop-backend/internal/model"
)

// Stats computes the dashboard counters. Revenue sums the totals of paid
// invoices.
func (s *gormStore) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	db := s.db.WithContext(ctx)

	if err := db.Model(&model.Client{}).Count(&st.Clients).Error; err != nil {
		return st, apperr.Storage("stats clients", err)
	}
	if err := db.Model(&model.Repair{}).
		Where("status IN ?", []model.RepairStatus{model.StatusPending, model.StatusInProgress}).
		Count(&st.ActiveRepairs).Error; err != nil {
		return st, apperr.Storage("stats repairs", err)
	}
	if err := db.Model(&model.Invoice{}).
		Where("payment_status = ?", model.PaymentPending).
		Count(&st.UnpaidInvoices).Error; err != nil {
		return st, apperr.Storage("stats invoices", err)
	}
	if err := db.Model(&model.Invoice{}).
		Where("payment_status = ?", model.PaymentPaid).
		Select("COALESCE(SUM(total), 0)").
		Scan(&st.Revenue).Error; err != nil {
		return st, apperr.Storage("stats revenue", err)
	}
	return st, nil
}
