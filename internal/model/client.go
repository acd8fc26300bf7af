package model

import "time"

// Client is a shop customer.
type Client struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	LastName  string    `gorm:"size:128;not null" json:"nom"`
	FirstName string    `gorm:"size:128;not null" json:"prenom"`
	Phone     string    `gorm:"size:32;uniqueIndex;not null" json:"telephone"`
	Email     string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Address   string    `gorm:"size:512" json:"adresse"`
	CreatedAt time.Time `gorm:"not null;index" json:"dateCreation"`
	UpdatedAt time.Time `json:"-"`

	// Associations
	Devices []Device `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE" json:"appareils"`
}

// FullName is the display name used on tickets and invoices.
func (c *Client) FullName() string {
	return c.FirstName + " " + c.LastName
}

// Device is a phone or tablet left at the shop by a client.
type Device struct {
	ID          int64      `gorm:"primaryKey" json:"id"`
	ClientID    int64      `gorm:"index;not null" json:"clientId"`
	Brand       string     `gorm:"size:64" json:"marque"`
	Model       string     `gorm:"size:128" json:"modele"`
	IMEI        string     `gorm:"size:64" json:"imei"`
	Color       string     `gorm:"size:64" json:"couleur"`
	ScreenLock  *string    `gorm:"size:64" json:"motDePasseEcran,omitempty"`
	Accessories StringList `json:"accessoires"`
	CreatedAt   time.Time  `json:"-"`
	UpdatedAt   time.Time  `json:"-"`
}

// Label is "Brand Model", e.g. "Apple iPhone 13".
func (d *Device) Label() string {
	return d.Brand + " " + d.Model
}
