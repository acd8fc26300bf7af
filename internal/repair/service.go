package repair

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"repairshop-backend/internal/apperr"
	"repairshop-backend/internal/metrics"
	"repairshop-backend/internal/model"
	"repairshop-backend/internal/store"
)

// Notifier is told about every status change of a ticket.
type Notifier interface {
	Dispatch(repairID int64, status model.RepairStatus)
}

// Service persists repair tickets through Apply.
type Service struct {
	store    store.Store
	notifier Notifier
	now      func() time.Time
}

// NewService creates a repair service. notifier may be nil.
func NewService(s store.Store, notifier Notifier) *Service {
	return &Service{store: s, notifier: notifier, now: time.Now}
}

// Create validates and stores a new ticket.
func (s *Service) Create(ctx context.Context, p Proposal) (*model.Repair, error) {
	r, err := Apply(nil, p, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.checkOwnership(ctx, r.ClientID, r.DeviceID); err != nil {
		return nil, err
	}
	if err := s.store.CreateRepair(ctx, r); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{"repair_id": r.ID, "status": r.Status}).Info("repair created")
	metrics.RecordRepairStatus(string(r.Status))
	return s.store.GetRepair(ctx, r.ID)
}

// Update replaces the ticket with a full resubmission.
func (s *Service) Update(ctx context.Context, id int64, p Proposal) (*model.Repair, error) {
	current, err := s.store.GetRepair(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.update(ctx, current, p)
}

func (s *Service) update(ctx context.Context, current *model.Repair, p Proposal) (*model.Repair, error) {
	id := current.ID
	next, err := Apply(current, p, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.checkOwnership(ctx, next.ClientID, next.DeviceID); err != nil {
		return nil, err
	}
	if err := s.store.UpdateRepair(ctx, next); err != nil {
		return nil, err
	}

	if next.Status != current.Status {
		log.WithFields(log.Fields{
			"repair_id": id,
			"from":      current.Status,
			"to":        next.Status,
		}).Info("repair status changed")
		metrics.RecordRepairStatus(string(next.Status))
		if s.notifier != nil {
			s.notifier.Dispatch(id, next.Status)
		}
	}
	return s.store.GetRepair(ctx, id)
}

// UpdateStatus changes only the status, replaying the stored ticket through
// the same rules as Update.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status string) (*model.Repair, error) {
	if status == "" {
		return nil, apperr.Validation("missing required fields", "statut")
	}
	current, err := s.store.GetRepair(ctx, id)
	if err != nil {
		return nil, err
	}
	p := ProposalFrom(current)
	p.Status = status
	return s.update(ctx, current, p)
}

func (s *Service) Get(ctx context.Context, id int64) (*model.Repair, error) {
	return s.store.GetRepair(ctx, id)
}

func (s *Service) List(ctx context.Context, f store.RepairFilter) ([]model.Repair, error) {
	return s.store.ListRepairs(ctx, f)
}

// Delete removes a ticket. A ticket with an invoice cannot be deleted until
// the invoice is.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.store.GetRepair(ctx, id); err != nil {
		return err
	}
	inv, err := s.store.GetInvoiceByRepair(ctx, id)
	switch {
	case err == nil:
		return apperr.Conflict("repair %d has invoice %s; delete the invoice first", id, inv.Number)
	case !apperr.IsNotFound(err):
		return err
	}
	if err := s.store.DeleteRepair(ctx, id); err != nil {
		return err
	}
	log.WithField("repair_id", id).Info("repair deleted")
	return nil
}

// checkOwnership verifies the client and device exist and belong together.
func (s *Service) checkOwnership(ctx context.Context, clientID, deviceID int64) error {
	if _, err := s.store.GetClient(ctx, clientID); err != nil {
		return err
	}
	device, err := s.store.GetDevice(ctx, deviceID)
	if err != nil {
		return err
	}
	if device.ClientID != clientID {
		return apperr.Conflict("device %d does not belong to client %d", deviceID, clientID)
	}
	return nil
}
