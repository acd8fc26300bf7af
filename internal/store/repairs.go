package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"repairshop-backend/internal/apperr"
	"repairshop-backend/internal/model"
)

func (s *gormStore) CreateRepair(ctx context.Context, r *model.Repair) error {
	err := s.db.WithContext(ctx).Omit(clause.Associations).Create(r).Error
	return translate("create repair", err, "repair", r.ID, "repair references an unknown client or device")
}

// GetRepair loads a repair with its client and device.
func (s *gormStore) GetRepair(ctx context.Context, id int64) (*model.Repair, error) {
	var r model.Repair
	if err := s.db.WithContext(ctx).Preload("Client").Preload("Device").First(&r, id).Error; err != nil {
		return nil, translate("get repair", err, "repair", id, "")
	}
	return &r, nil
}

func (s *gormStore) ListRepairs(ctx context.Context, f RepairFilter) ([]model.Repair, error) {
	q := s.db.WithContext(ctx).Preload("Client").Preload("Device").Order("created_at DESC, id DESC")
	if f.Query != "" {
		p := likePattern(f.Query)
		q = q.Where(
			"LOWER(category) LIKE ? OR LOWER(description) LIKE ? OR LOWER(technician) LIKE ? OR client_id IN (?)",
			p, p, p,
			s.db.Model(&model.Client{}).Select("id").Where("LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?", p, p),
		)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.ClientID != 0 {
		q = q.Where("client_id = ?", f.ClientID)
	}
	if f.Since != nil {
		q = q.Where("created_at >= ?", *f.Since)
	}

	repairs := []model.Repair{}
	if err := q.Find(&repairs).Error; err != nil {
		return nil, apperr.Storage("list repairs", err)
	}
	return repairs, nil
}

// UpdateRepair writes every column of r. Associations are never touched.
func (s *gormStore) UpdateRepair(ctx context.Context, r *model.Repair) error {
	err := s.db.WithContext(ctx).Omit(clause.Associations).Save(r).Error
	return translate("update repair", err, "repair", r.ID, "repair references an unknown client or device")
}

// DeleteRepair removes a repair that has no invoice. The invoice foreign key
// restricts deletion, which surfaces as a conflict.
func (s *gormStore) DeleteRepair(ctx context.Context, id int64) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM "+model.SubscriptionRepairTable+" WHERE repair_id = ?", id).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Repair{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	return translate("delete repair", err, "repair", id, fmt.Sprintf("repair %d has an invoice and cannot be deleted", id))
}
