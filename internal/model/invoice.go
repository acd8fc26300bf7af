package model

import "time"

// Invoice bills one repair ticket. RepairID is unique: a ticket has at most
// one invoice, and the reference never changes after issuance.
type Invoice struct {
	ID            int64         `gorm:"primaryKey" json:"id"`
	RepairID      int64         `gorm:"uniqueIndex;not null" json:"reparationId"`
	Number        string        `gorm:"size:32;uniqueIndex;not null" json:"numeroFacture"`
	Amount        float64       `gorm:"not null" json:"montantHT"`
	Tax           float64       `gorm:"not null" json:"tva"`
	Total         float64       `gorm:"not null" json:"montantTTC"`
	IssuedAt      time.Time     `gorm:"not null;index" json:"dateEmission"`
	PaidAt        *time.Time    `json:"datePaiement,omitempty"`
	PaymentStatus PaymentStatus `gorm:"size:32;not null;index" json:"statutPaiement"`
	PaymentMethod *string       `gorm:"size:64" json:"methodePaiement,omitempty"`
	Notes         *string       `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt     time.Time     `json:"-"`
	UpdatedAt     time.Time     `json:"-"`

	// Associations. The foreign key keeps the default NO ACTION rule: an
	// explicit RESTRICT is reported by sqlite as a trigger failure, which
	// gorm does not translate to ErrForeignKeyViolated.
	Repair *Repair `gorm:"foreignKey:RepairID" json:"reparation,omitempty"`
}
