package model

// RepairStatus is the lifecycle state of a repair ticket. Wire values are the
// labels the shop front desk uses.
type RepairStatus string

const (
	StatusPending    RepairStatus = "En attente"
	StatusInProgress RepairStatus = "En cours"
	StatusDone       RepairStatus = "Terminé"
	StatusDelivered  RepairStatus = "Livré"
	StatusCancelled  RepairStatus = "Annulé"
)

// RepairStatuses lists every status in workflow order.
var RepairStatuses = []RepairStatus{StatusPending, StatusInProgress, StatusDone, StatusDelivered, StatusCancelled}

// Valid reports whether s is one of RepairStatuses.
func (s RepairStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusDone, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Invoiceable reports whether a ticket in this status can be billed.
func (s RepairStatus) Invoiceable() bool {
	switch s {
	case StatusDone, StatusDelivered:
		return true
	case StatusPending, StatusInProgress, StatusCancelled:
		return false
	}
	return false
}

// Active reports whether work on the ticket is still open.
func (s RepairStatus) Active() bool {
	return s == StatusPending || s == StatusInProgress
}

// Priority orders the repair queue.
type Priority string

const (
	PriorityLow    Priority = "Basse"
	PriorityNormal Priority = "Normale"
	PriorityHigh   Priority = "Haute"
	PriorityUrgent Priority = "Urgente"
)

var Priorities = []Priority{PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent}

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// PaymentStatus is the settlement state of an invoice.
type PaymentStatus string

const (
	PaymentPending       PaymentStatus = "En attente"
	PaymentPaid          PaymentStatus = "Payé"
	PaymentPartiallyPaid PaymentStatus = "Partiellement payé"
	PaymentCancelled     PaymentStatus = "Annulé"
)

var PaymentStatuses = []PaymentStatus{PaymentPending, PaymentPaid, PaymentPartiallyPaid, PaymentCancelled}

func (p PaymentStatus) Valid() bool {
	switch p {
	case PaymentPending, PaymentPaid, PaymentPartiallyPaid, PaymentCancelled:
		return true
	}
	return false
}

// Category is the kind of fault reported at the counter.
type Category string

const (
	CategoryScreen   Category = "Écran cassé/fissuré"
	CategoryBattery  Category = "Problème de batterie"
	CategoryCharging Category = "Problème de charge"
	CategoryAudio    Category = "Problème audio/micro"
	CategoryCamera   Category = "Problème caméra"
	CategoryButtons  Category = "Problème boutons"
	CategorySoftware Category = "Problème logiciel/OS"
	CategoryNetwork  Category = "Problème réseau/WiFi"
	CategoryWater    Category = "Dégât des eaux"
	CategoryOther    Category = "Autre"
)

var Categories = []Category{
	CategoryScreen, CategoryBattery, CategoryCharging, CategoryAudio, CategoryCamera,
	CategoryButtons, CategorySoftware, CategoryNetwork, CategoryWater, CategoryOther,
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}
