package model

import "time"

// Repair is a repair ticket. The three milestone timestamps are written once,
// the first time the ticket enters the matching status.
type Repair struct {
	ID            int64        `gorm:"primaryKey" json:"id"`
	ClientID      int64        `gorm:"index;not null" json:"clientId"`
	DeviceID      int64        `gorm:"index;not null" json:"appareilId"`
	Category      Category     `gorm:"size:64;not null;index" json:"categorieProbleme"`
	Description   string       `gorm:"type:text;not null" json:"descriptionProbleme"`
	Diagnosis     *string      `gorm:"type:text" json:"diagnosticTechnicien"`
	Parts         StringList   `json:"piecesNecessaires"`
	EstimatedCost float64      `gorm:"not null" json:"coutEstime"`
	FinalCost     float64      `gorm:"not null" json:"coutFinal"`
	Status        RepairStatus `gorm:"size:32;not null;index" json:"statut"`
	Priority      Priority     `gorm:"size:32;not null" json:"priorite"`
	Technician    string       `gorm:"size:128;not null" json:"technicien"`
	Notes         StringList   `json:"notes"`
	CreatedAt     time.Time    `gorm:"not null;index" json:"dateCreation"`
	StartedAt     *time.Time   `json:"dateDebutReparation"`
	FinishedAt    *time.Time   `json:"dateFinReparation"`
	DeliveredAt   *time.Time   `json:"dateLivraison"`
	UpdatedAt     time.Time    `json:"-"`

	// Associations
	Client *Client `gorm:"constraint:OnDelete:CASCADE" json:"client,omitempty"`
	Device *Device `gorm:"constraint:OnDelete:CASCADE" json:"appareil,omitempty"`
}
