package store

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"repairshop-backend/internal/apperr"
	"repairshop-backend/internal/model"
)

const clientConflict = "a client with this phone number or email already exists"

// CreateClient inserts a client together with its first device.
func (s *gormStore) CreateClient(ctx context.Context, c *model.Client, d *model.Device) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(c).Error; err != nil {
			return err
		}
		if d == nil {
			return nil
		}
		d.ClientID = c.ID
		if err := tx.Create(d).Error; err != nil {
			return err
		}
		c.Devices = []model.Device{*d}
		return nil
	})
	return translate("create client", err, "client", c.ID, clientConflict)
}

func (s *gormStore) GetClient(ctx context.Context, id int64) (*model.Client, error) {
	var c model.Client
	err := s.db.WithContext(ctx).
		Preload("Devices", func(tx *gorm.DB) *gorm.DB { return tx.Order("id") }).
		First(&c, id).Error
	if err != nil {
		return nil, translate("get client", err, "client", id, clientConflict)
	}
	return &c, nil
}

func (s *gormStore) ListClients(ctx context.Context, f ClientFilter) ([]model.Client, error) {
	q := s.db.WithContext(ctx).
		Preload("Devices", func(tx *gorm.DB) *gorm.DB { return tx.Order("id") }).
		Order("created_at DESC, id DESC")
	if f.Query != "" {
		p := likePattern(f.Query)
		q = q.Where("LOWER(last_name) LIKE ? OR LOWER(first_name) LIKE ? OR phone LIKE ? OR LOWER(email) LIKE ?", p, p, p, p)
	}
	if f.Since != nil {
		q = q.Where("created_at >= ?", *f.Since)
	}

	clients := []model.Client{}
	if err := q.Find(&clients).Error; err != nil {
		return nil, apperr.Storage("list clients", err)
	}
	return clients, nil
}

func (s *gormStore) UpdateClient(ctx context.Context, c *model.Client) error {
	err := s.db.WithContext(ctx).Omit(clause.Associations).Save(c).Error
	return translate("update client", err, "client", c.ID, clientConflict)
}

// DeleteClient removes the client and everything hanging off it: devices,
// repairs, their invoices and push subscriptions to them.
func (s *gormStore) DeleteClient(ctx context.Context, id int64) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var repairIDs []int64
		if err := tx.Model(&model.Repair{}).Where("client_id = ?", id).Pluck("id", &repairIDs).Error; err != nil {
			return err
		}
		if err := purgeRepairs(tx, repairIDs); err != nil {
			return err
		}
		if err := tx.Where("client_id = ?", id).Delete(&model.Device{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Client{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	return translate("delete client", err, "client", id, clientConflict)
}

func (s *gormStore) CreateDevice(ctx context.Context, d *model.Device) error {
	err := s.db.WithContext(ctx).Omit(clause.Associations).Create(d).Error
	return translate("create device", err, "client", d.ClientID, "device references an unknown client")
}

func (s *gormStore) GetDevice(ctx context.Context, id int64) (*model.Device, error) {
	var d model.Device
	if err := s.db.WithContext(ctx).First(&d, id).Error; err != nil {
		return nil, translate("get device", err, "device", id, "")
	}
	return &d, nil
}

func (s *gormStore) UpdateDevice(ctx context.Context, d *model.Device) error {
	err := s.db.WithContext(ctx).Omit(clause.Associations).Save(d).Error
	return translate("update device", err, "device", d.ID, "device references an unknown client")
}

// DeleteDevice removes the device with its repairs and their invoices.
func (s *gormStore) DeleteDevice(ctx context.Context, id int64) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var repairIDs []int64
		if err := tx.Model(&model.Repair{}).Where("device_id = ?", id).Pluck("id", &repairIDs).Error; err != nil {
			return err
		}
		if err := purgeRepairs(tx, repairIDs); err != nil {
			return err
		}
		res := tx.Delete(&model.Device{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	return translate("delete device", err, "device", id, "")
}

// purgeRepairs deletes the given repairs and every row referencing them.
// Invoices restrict repair deletion, so they go first.
func purgeRepairs(tx *gorm.DB, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	if err := tx.Where("repair_id IN ?", ids).Delete(&model.Invoice{}).Error; err != nil {
		return err
	}
	if err := tx.Exec("DELETE FROM "+model.SubscriptionRepairTable+" WHERE repair_id IN ?", ids).Error; err != nil {
		return err
	}
	return tx.Where("id IN ?", ids).Delete(&model.Repair{}).Error
}
