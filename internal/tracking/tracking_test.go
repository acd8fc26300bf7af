package tracking

import (
	"bytes"
	"context"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"repairshop-backend/internal/apperr"
	"repairshop-backend/internal/model"
	"repairshop-backend/internal/store"
	"repairshop-backend/internal/testutil"
)

func seedInvoice(t *testing.T, gormDB *gorm.DB, inv *model.Invoice) *model.Invoice {
	t.Helper()
	inv.IssuedAt = time.Now()
	inv.PaymentStatus = model.PaymentPending
	require.NoError(t, gormDB.Omit("Repair").Create(inv).Error)
	return inv
}

func TestService_Resolve(t *testing.T) {
	gormDB := testutil.NewDB(t)
	svc := NewService(store.NewGormStore(gormDB), "", 0)
	ctx := context.Background()

	f := testutil.SeedClient(t, gormDB, "")
	r1 := testutil.SeedRepair(t, gormDB, f, model.StatusDone)
	r2 := testutil.SeedRepair(t, gormDB, f, model.StatusDone)
	r3 := testutil.SeedRepair(t, gormDB, f, model.StatusDone)
	require.NoError(t, gormDB.Delete(&model.Repair{}, r3.ID).Error)

	// invoice 1 shares its id with repair 1
	invA := seedInvoice(t, gormDB, &model.Invoice{RepairID: r2.ID, Number: "F-2026-000002"})
	require.Equal(t, r1.ID, invA.ID)
	// invoice 3 has the id of a deleted repair
	invB := seedInvoice(t, gormDB, &model.Invoice{ID: r3.ID, RepairID: r1.ID, Number: "F-2026-000001"})

	testCases := []struct {
		name      string
		token     string
		kind      Kind
		id        int64
		checkKind func(error) bool
	}{
		{name: "repair id wins over invoice id", token: "1", kind: KindRepair, id: r1.ID},
		{name: "repair id", token: "2", kind: KindRepair, id: r2.ID},
		{name: "invoice id when no repair has it", token: "3", kind: KindInvoice, id: invB.ID},
		{name: "invoice number", token: "F-2026-000002", kind: KindInvoice, id: invA.ID},
		{name: "invoice number of the colliding invoice", token: "F-2026-000001", kind: KindInvoice, id: invB.ID},
		{name: "surrounding blanks do not match", token: " 1 ", checkKind: apperr.IsNotFound},
		{name: "trailing blank on a number", token: "F-2026-000002 ", checkKind: apperr.IsNotFound},
		{name: "number is case sensitive", token: "f-2026-000002", checkKind: apperr.IsNotFound},
		{name: "non canonical id", token: "01", checkKind: apperr.IsNotFound},
		{name: "substring does not match", token: "2026", checkKind: apperr.IsNotFound},
		{name: "blank", token: "  ", checkKind: apperr.IsValidation},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := svc.Resolve(ctx, tc.token)
			if tc.checkKind != nil {
				require.Error(t, err)
				assert.True(t, tc.checkKind(err), "unexpected error kind: %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.kind, res.Kind)
			switch res.Kind {
			case KindRepair:
				require.NotNil(t, res.Repair)
				assert.Nil(t, res.Invoice)
				assert.Equal(t, tc.id, res.Repair.ID)
			case KindInvoice:
				require.NotNil(t, res.Invoice)
				assert.Nil(t, res.Repair)
				assert.Equal(t, tc.id, res.Invoice.ID)
			}
		})
	}
}

func TestService_QRCode(t *testing.T) {
	gormDB := testutil.NewDB(t)
	svc := NewService(store.NewGormStore(gormDB), "https://atelier.example/suivi/", 200)
	ctx := context.Background()

	r := testutil.SeedRepair(t, gormDB, testutil.SeedClient(t, gormDB, ""), model.StatusPending)
	token := "1"
	require.Equal(t, int64(1), r.ID)

	data, err := svc.QRCode(ctx, token)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 200, img.Bounds().Dx())
	assert.Equal(t, 200, img.Bounds().Dy())
	assert.Equal(t, "https://atelier.example/suivi/1", svc.URL(token))

	_, err = svc.QRCode(ctx, "404")
	assert.True(t, apperr.IsNotFound(err))
}

func TestParseID(t *testing.T) {
	testCases := []struct {
		token string
		id    int64
		ok    bool
	}{
		{"7", 7, true},
		{"007", 0, false},
		{"+7", 0, false},
		{"-7", 0, false},
		{"0", 0, false},
		{"7a", 0, false},
		{"99999999999999999999", 0, false},
	}
	for _, tc := range testCases {
		id, ok := parseID(tc.token)
		assert.Equal(t, tc.ok, ok, tc.token)
		assert.Equal(t, tc.id, id, tc.token)
	}
}
