package store

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"repairshop-backend/internal/apperr"
	"repairshop-backend/internal/model"
)

// ReplaceSubscription upserts the subscription keys and replaces the set of
// followed repairs. Unknown repair ids are ignored.
func (s *gormStore) ReplaceSubscription(ctx context.Context, sub *model.PushSubscription, repairIDs []int64) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "endpoint"}},
			DoUpdates: clause.AssignmentColumns([]string{"p256dh", "auth"}),
		}).Create(sub).Error; err != nil {
			return err
		}

		repairs := []*model.Repair{}
		if len(repairIDs) > 0 {
			if err := tx.Find(&repairs, repairIDs).Error; err != nil {
				return err
			}
		}
		return tx.Model(sub).Association("Repairs").Replace(&repairs)
	})
	return apperr.Storage("replace subscription", err)
}

func (s *gormStore) GetSubscription(ctx context.Context, endpoint string) (*model.PushSubscription, error) {
	var sub model.PushSubscription
	err := s.db.WithContext(ctx).
		Preload("Repairs", func(tx *gorm.DB) *gorm.DB { return tx.Order("id") }).
		First(&sub, "endpoint = ?", endpoint).Error
	if err != nil {
		return nil, translate("get subscription", err, "subscription", nil, "")
	}
	return &sub, nil
}

// DeleteSubscription removes the subscription and its repair mappings.
// Deleting an unknown endpoint is not an error.
func (s *gormStore) DeleteSubscription(ctx context.Context, endpoint string) error {
	err := s.db.WithContext(ctx).Select("Repairs").Delete(&model.PushSubscription{Endpoint: endpoint}).Error
	return apperr.Storage("delete subscription", err)
}

// SubscriptionsForRepair returns the subscriptions following a repair.
func (s *gormStore) SubscriptionsForRepair(ctx context.Context, repairID int64) ([]model.PushSubscription, error) {
	var subs []model.PushSubscription
	err := s.db.WithContext(ctx).
		Joins("JOIN "+model.SubscriptionRepairTable+" srm ON srm.push_subscription_endpoint = push_subscriptions.endpoint").
		Where("srm.repair_id = ?", repairID).
		Find(&subs).Error
	if err != nil {
		return nil, apperr.Storage("subscriptions for repair", err)
	}
	return subs, nil
}
