// Package repair implements the repair ticket lifecycle: validation,
// defaulting and milestone stamping, shared by create and update.
package repair

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"repairshop-backend/internal/apperr"
	"repairshop-backend/internal/model"
	"repairshop-backend/internal/parse"
)

// Proposal is an incoming create or update of a repair ticket. Every
// required field must be present on update too; there is no partial patch.
type Proposal struct {
	ClientID      int64    `json:"clientId"`
	DeviceID      int64    `json:"appareilId"`
	Category      string   `json:"categorieProbleme"`
	Description   string   `json:"descriptionProbleme"`
	Diagnosis     *string  `json:"diagnosticTechnicien"`
	Parts         []string `json:"piecesNecessaires"`
	EstimatedCost any      `json:"coutEstime"`
	FinalCost     any      `json:"coutFinal"`
	Status        string   `json:"statut"`
	Priority      string   `json:"priorite"`
	Technician    string   `json:"technicien"`
	Notes         []string `json:"notes"`
}

// ProposalFrom rebuilds the proposal that would reproduce r.
func ProposalFrom(r *model.Repair) Proposal {
	return Proposal{
		ClientID:      r.ClientID,
		DeviceID:      r.DeviceID,
		Category:      string(r.Category),
		Description:   r.Description,
		Diagnosis:     r.Diagnosis,
		Parts:         r.Parts,
		EstimatedCost: r.EstimatedCost,
		FinalCost:     r.FinalCost,
		Status:        string(r.Status),
		Priority:      string(r.Priority),
		Technician:    r.Technician,
		Notes:         r.Notes,
	}
}

// Apply validates p against the stored ticket current (nil on create) and
// returns the record to persist. It does not check that the client and
// device exist; that needs the store.
//
// Omitted status and priority default to Pending and Normal on create and
// keep the stored values on update. Milestones are stamped with now the first
// time the ticket is in the matching status and are never overwritten.
func Apply(current *model.Repair, p Proposal, now time.Time) (*model.Repair, error) {
	var missing []string
	if p.ClientID <= 0 {
		missing = append(missing, "clientId")
	}
	if p.DeviceID <= 0 {
		missing = append(missing, "appareilId")
	}
	if strings.TrimSpace(p.Category) == "" {
		missing = append(missing, "categorieProbleme")
	}
	if strings.TrimSpace(p.Description) == "" {
		missing = append(missing, "descriptionProbleme")
	}
	if strings.TrimSpace(p.Technician) == "" {
		missing = append(missing, "technicien")
	}
	if len(missing) > 0 {
		return nil, apperr.Validation("missing required fields", missing...)
	}

	status := model.StatusPending
	priority := model.PriorityNormal
	if current != nil {
		status, priority = current.Status, current.Priority
	}
	if p.Status != "" {
		status = model.RepairStatus(p.Status)
		if !status.Valid() {
			return nil, apperr.Validation(fmt.Sprintf("invalid status %q", p.Status), "statut")
		}
	}
	if p.Priority != "" {
		priority = model.Priority(p.Priority)
		if !priority.Valid() {
			return nil, apperr.Validation(fmt.Sprintf("invalid priority %q", p.Priority), "priorite")
		}
	}
	category := model.Category(strings.TrimSpace(p.Category))
	if !category.Valid() {
		return nil, apperr.Validation(fmt.Sprintf("invalid category %q", p.Category), "categorieProbleme")
	}

	next := &model.Repair{CreatedAt: now}
	if current != nil {
		// keeps ID, CreatedAt and the milestones already stamped
		*next = *current
		next.Client, next.Device = nil, nil
	}
	next.ClientID = p.ClientID
	next.DeviceID = p.DeviceID
	next.Category = category
	next.Description = strings.TrimSpace(p.Description)
	next.Diagnosis = optional(p.Diagnosis)
	next.Parts = parse.CleanList(p.Parts)
	next.EstimatedCost = Cost(p.EstimatedCost)
	next.FinalCost = Cost(p.FinalCost)
	next.Status = status
	next.Priority = priority
	next.Technician = strings.TrimSpace(p.Technician)
	next.Notes = parse.CleanList(p.Notes)

	stampMilestone(next, now)
	return next, nil
}

func stampMilestone(r *model.Repair, now time.Time) {
	t := now
	switch r.Status {
	case model.StatusInProgress:
		if r.StartedAt == nil {
			r.StartedAt = &t
		}
	case model.StatusDone:
		if r.FinishedAt == nil {
			r.FinishedAt = &t
		}
	case model.StatusDelivered:
		if r.DeliveredAt == nil {
			r.DeliveredAt = &t
		}
	case model.StatusPending, model.StatusCancelled:
		// no milestone
	default:
		panic(fmt.Sprintf("repair: unhandled status %q", r.Status))
	}
}

// Cost coerces a decoded JSON value to a non-negative amount. Anything that
// is not a finite non-negative number, or a string holding one, becomes 0.
func Cost(v any) float64 {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case json.Number:
		d, err := decimal.NewFromString(x.String())
		if err != nil {
			return 0
		}
		f = d.InexactFloat64()
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(x))
		if err != nil {
			return 0
		}
		f = d.InexactFloat64()
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return f
}

func optional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
