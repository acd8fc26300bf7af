// Package tracking resolves the identifiers printed on tickets and invoices
// for the public tracking page.
package tracking

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"strconv"
	"strings"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"

	"repairshop-backend/internal/apperr"
	"repairshop-backend/internal/model"
	"repairshop-backend/internal/store"
)

// Kind tags what a token resolved to.
type Kind string

const (
	KindRepair  Kind = "reparation"
	KindInvoice Kind = "facture"
)

// Result is a resolved token. Exactly one of Repair and Invoice is set.
type Result struct {
	Kind    Kind           `json:"type"`
	Repair  *model.Repair  `json:"reparation,omitempty"`
	Invoice *model.Invoice `json:"facture,omitempty"`
}

// Service resolves tracking tokens.
type Service struct {
	store   store.Store
	baseURL string
	qrSize  int
}

// NewService creates a tracking service. QR codes encode baseURL followed by
// the token; with an empty baseURL they encode the bare token.
func NewService(s store.Store, baseURL string, qrSize int) *Service {
	if qrSize <= 0 {
		qrSize = 256
	}
	return &Service{store: s, baseURL: baseURL, qrSize: qrSize}
}

// Resolve matches token exactly against repair ids first, then invoice ids,
// then invoice numbers. The first kind that matches wins. Surrounding blanks
// are part of the token, so " 1 " matches nothing.
func (s *Service) Resolve(ctx context.Context, token string) (*Result, error) {
	if strings.TrimSpace(token) == "" {
		return nil, apperr.Validation("missing required fields", "token")
	}

	id, numeric := parseID(token)
	if numeric {
		r, err := s.store.GetRepair(ctx, id)
		if err == nil {
			return &Result{Kind: KindRepair, Repair: r}, nil
		}
		if !apperr.IsNotFound(err) {
			return nil, err
		}

		inv, err := s.store.GetInvoice(ctx, id)
		if err == nil {
			return &Result{Kind: KindInvoice, Invoice: inv}, nil
		}
		if !apperr.IsNotFound(err) {
			return nil, err
		}
	}

	inv, err := s.store.GetInvoiceByNumber(ctx, token)
	if err == nil {
		return &Result{Kind: KindInvoice, Invoice: inv}, nil
	}
	if apperr.IsNotFound(err) {
		return nil, apperr.NotFound("repair or invoice", token)
	}
	return nil, err
}

// QRCode renders the tracking QR code of a token that resolves to something.
func (s *Service) QRCode(ctx context.Context, token string) ([]byte, error) {
	if _, err := s.Resolve(ctx, token); err != nil {
		return nil, err
	}
	return EncodeQR(s.URL(token), s.qrSize)
}

// URL is the content encoded in the QR code of token.
func (s *Service) URL(token string) string {
	return s.baseURL + token
}

// EncodeQR renders content as a size x size PNG QR code.
func EncodeQR(content string, size int) ([]byte, error) {
	code, err := qr.Encode(content, qr.M, qr.Auto)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	code, err = barcode.Scale(code, size, size)
	if err != nil {
		return nil, fmt.Errorf("scale qr: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, code); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// parseID accepts only the canonical base-10 form of a positive id, so "007"
// or "+7" never match repair 7.
func parseID(token string) (int64, bool) {
	id, err := strconv.ParseInt(token, 10, 64)
	if err != nil || id <= 0 || strconv.FormatInt(id, 10) != token {
		return 0, false
	}
	return id, true
}
