package store

import (
	"time"

	"repairshop-backend/internal/model"
)

// Period is a relative creation-date window used by list filters.
type Period string

const (
	PeriodAll   Period = ""
	PeriodToday Period = "today"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// Valid reports whether p is a known period.
func (p Period) Valid() bool {
	switch p {
	case PeriodAll, PeriodToday, PeriodWeek, PeriodMonth:
		return true
	}
	return false
}

// Since returns the lower bound of the window relative to now, or nil for
// PeriodAll.
func (p Period) Since(now time.Time) *time.Time {
	var t time.Time
	switch p {
	case PeriodToday:
		y, m, d := now.Date()
		t = time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	case PeriodWeek:
		t = now.Add(-7 * 24 * time.Hour)
	case PeriodMonth:
		t = now.Add(-30 * 24 * time.Hour)
	default:
		return nil
	}
	return &t
}

// ClientFilter narrows ListClients.
type ClientFilter struct {
	Query string // substring of name, phone or email, case-insensitive
	Since *time.Time
}

// RepairFilter narrows ListRepairs.
type RepairFilter struct {
	Query    string // substring of category, description, technician or client name
	Status   model.RepairStatus
	Category model.Category
	ClientID int64
	Since    *time.Time
}

// InvoiceFilter narrows ListInvoices.
type InvoiceFilter struct {
	PaymentStatus model.PaymentStatus
	Since         *time.Time
}

// Stats is the dashboard summary.
type Stats struct {
	Clients        int64   `json:"clients"`
	ActiveRepairs  int64   `json:"reparationsEnCours"`
	UnpaidInvoices int64   `json:"facturesEnAttente"`
	Revenue        float64 `json:"chiffreAffaires"`
}
