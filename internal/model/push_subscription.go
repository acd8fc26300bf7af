package model

import "time"

// SubscriptionRepairTable is the join table between subscriptions and repairs.
const SubscriptionRepairTable = "subscription_repair_mapping"

// PushSubscription holds the information for a browser push subscription
// following one or more repair tickets from the tracking page.
type PushSubscription struct {
	Endpoint  string    `gorm:"primaryKey"`
	P256DH    string    `gorm:"column:p256dh;not null"`
	Auth      string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`

	// Associations
	Repairs []*Repair `gorm:"many2many:subscription_repair_mapping;constraint:OnDelete:CASCADE"`
}
