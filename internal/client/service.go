// Package client manages the client and device registry.
package client

import (
	"context"
	"strings"

	log "github.com/sirupsen/logrus"

	"repairshop-backend/internal/model"
	"repairshop-backend/internal/parse"
	"repairshop-backend/internal/store"
)

// ClientInput is the editable part of a client.
type ClientInput struct {
	LastName  string `json:"nom" validate:"required"`
	FirstName string `json:"prenom" validate:"required"`
	Phone     string `json:"telephone" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Address   string `json:"adresse"`
}

// DeviceInput is the editable part of a device.
type DeviceInput struct {
	Brand       string   `json:"marque" validate:"required"`
	Model       string   `json:"modele" validate:"required"`
	IMEI        string   `json:"imei"`
	Color       string   `json:"couleur"`
	ScreenLock  *string  `json:"motDePasseEcran"`
	Accessories []string `json:"accessoires"`
}

// CreateParams registers a client with the device brought in.
type CreateParams struct {
	Client ClientInput `json:"client"`
	Device DeviceInput `json:"appareil"`
}

// Service is the client and device registry.
type Service struct {
	store store.Store
}

func NewService(s store.Store) *Service {
	return &Service{store: s}
}

// Create stores the client and its first device as one unit.
func (s *Service) Create(ctx context.Context, p CreateParams) (*model.Client, *model.Device, error) {
	in, din := normalizeClient(p.Client), normalizeDevice(p.Device)
	if err := check(&in); err != nil {
		return nil, nil, err
	}
	if err := check(&din); err != nil {
		return nil, nil, err
	}

	c := &model.Client{}
	applyClient(c, in)
	d := &model.Device{}
	applyDevice(d, din)
	if err := s.store.CreateClient(ctx, c, d); err != nil {
		return nil, nil, err
	}

	log.WithFields(log.Fields{"client_id": c.ID, "device_id": d.ID}).Info("client registered")
	return c, d, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*model.Client, error) {
	return s.store.GetClient(ctx, id)
}

func (s *Service) List(ctx context.Context, f store.ClientFilter) ([]model.Client, error) {
	return s.store.ListClients(ctx, f)
}

// Update replaces the contact details of a client.
func (s *Service) Update(ctx context.Context, id int64, in ClientInput) (*model.Client, error) {
	in = normalizeClient(in)
	if err := check(&in); err != nil {
		return nil, err
	}
	c, err := s.store.GetClient(ctx, id)
	if err != nil {
		return nil, err
	}
	applyClient(c, in)
	if err := s.store.UpdateClient(ctx, c); err != nil {
		return nil, err
	}
	return s.store.GetClient(ctx, id)
}

// Delete removes the client, its devices and their repairs.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.store.DeleteClient(ctx, id); err != nil {
		return err
	}
	log.WithField("client_id", id).Info("client deleted")
	return nil
}

// AddDevice registers another device for an existing client.
func (s *Service) AddDevice(ctx context.Context, clientID int64, in DeviceInput) (*model.Device, error) {
	in = normalizeDevice(in)
	if err := check(&in); err != nil {
		return nil, err
	}
	if _, err := s.store.GetClient(ctx, clientID); err != nil {
		return nil, err
	}
	d := &model.Device{ClientID: clientID}
	applyDevice(d, in)
	if err := s.store.CreateDevice(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Service) GetDevice(ctx context.Context, id int64) (*model.Device, error) {
	return s.store.GetDevice(ctx, id)
}

// UpdateDevice replaces the details of a device. The owner never changes.
func (s *Service) UpdateDevice(ctx context.Context, id int64, in DeviceInput) (*model.Device, error) {
	in = normalizeDevice(in)
	if err := check(&in); err != nil {
		return nil, err
	}
	d, err := s.store.GetDevice(ctx, id)
	if err != nil {
		return nil, err
	}
	applyDevice(d, in)
	if err := s.store.UpdateDevice(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// DeleteDevice removes the device and its repairs.
func (s *Service) DeleteDevice(ctx context.Context, id int64) error {
	if err := s.store.DeleteDevice(ctx, id); err != nil {
		return err
	}
	log.WithField("device_id", id).Info("device deleted")
	return nil
}

func normalizeClient(in ClientInput) ClientInput {
	in.LastName = strings.TrimSpace(in.LastName)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.Phone = parse.NormalizePhone(in.Phone)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Address = strings.TrimSpace(in.Address)
	return in
}

func normalizeDevice(in DeviceInput) DeviceInput {
	in.Brand = strings.TrimSpace(in.Brand)
	in.Model = strings.TrimSpace(in.Model)
	in.IMEI = strings.TrimSpace(in.IMEI)
	in.Color = strings.TrimSpace(in.Color)
	if in.ScreenLock != nil && strings.TrimSpace(*in.ScreenLock) == "" {
		in.ScreenLock = nil
	}
	in.Accessories = parse.CleanList(in.Accessories)
	return in
}

func applyClient(c *model.Client, in ClientInput) {
	c.LastName = in.LastName
	c.FirstName = in.FirstName
	c.Phone = in.Phone
	c.Email = in.Email
	c.Address = in.Address
}

func applyDevice(d *model.Device, in DeviceInput) {
	d.Brand = in.Brand
	d.Model = in.Model
	d.IMEI = in.IMEI
	d.Color = in.Color
	d.ScreenLock = in.ScreenLock
	d.Accessories = in.Accessories
}
