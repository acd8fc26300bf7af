package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"repairshop-backend/internal/apperr"
	"repairshop-backend/internal/model"
	"repairshop-backend/internal/testutil"
)

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, s)
	require.NoError(t, err)
	return ts
}

func TestGormStore_CreateClient_WithDevice(t *testing.T) {
	s := NewGormStore(testutil.NewDB(t))
	ctx := context.Background()

	lock := "1234"
	c := &model.Client{LastName: "Durand", FirstName: "Léa", Phone: "0611223344", Email: "lea@example.com"}
	d := &model.Device{Brand: "Samsung", Model: "Galaxy S21", ScreenLock: &lock, Accessories: model.StringList{"chargeur;USB-C", "écouteurs"}}
	require.NoError(t, s.CreateClient(ctx, c, d))
	assert.NotZero(t, c.ID)
	assert.Equal(t, c.ID, d.ClientID)

	got, err := s.GetClient(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, got.Devices, 1)
	assert.Equal(t, model.StringList{"chargeur;USB-C", "écouteurs"}, got.Devices[0].Accessories)
	assert.Equal(t, "1234", *got.Devices[0].ScreenLock)

	dup := &model.Client{LastName: "Autre", FirstName: "Personne", Phone: "0611223344", Email: "autre@example.com"}
	err = s.CreateClient(ctx, dup, &model.Device{Brand: "Nokia", Model: "3310"})
	assert.True(t, apperr.IsConflict(err), "got %v", err)

	var devices int64
	s.DB().Model(&model.Device{}).Count(&devices)
	assert.Equal(t, int64(1), devices, "failed client insert must not leave a device behind")
}

func TestGormStore_DeleteClient_Cascades(t *testing.T) {
	gormDB := testutil.NewDB(t)
	s := NewGormStore(gormDB)
	ctx := context.Background()

	f := testutil.SeedClient(t, gormDB, "")
	other := testutil.SeedClient(t, gormDB, "2")
	r := testutil.SeedRepair(t, gormDB, f, model.StatusDone)
	keep := testutil.SeedRepair(t, gormDB, other, model.StatusPending)
	require.NoError(t, s.CreateInvoice(ctx, &model.Invoice{
		RepairID: r.ID, Number: "F-2026-000001", Amount: 100, Tax: 20, Total: 120,
		IssuedAt: time.Now(), PaymentStatus: model.PaymentPending,
	}))
	require.NoError(t, s.ReplaceSubscription(ctx,
		&model.PushSubscription{Endpoint: "https://push.example/abc", P256DH: "p", Auth: "a"},
		[]int64{r.ID, keep.ID}))

	require.NoError(t, s.DeleteClient(ctx, f.Client.ID))

	count := func(m any) int64 {
		var n int64
		require.NoError(t, gormDB.Model(m).Count(&n).Error)
		return n
	}
	assert.Equal(t, int64(1), count(&model.Client{}))
	assert.Equal(t, int64(1), count(&model.Device{}))
	assert.Equal(t, int64(1), count(&model.Repair{}))
	assert.Equal(t, int64(0), count(&model.Invoice{}))

	sub, err := s.GetSubscription(ctx, "https://push.example/abc")
	require.NoError(t, err)
	require.Len(t, sub.Repairs, 1)
	assert.Equal(t, keep.ID, sub.Repairs[0].ID)

	assert.True(t, apperr.IsNotFound(s.DeleteClient(ctx, f.Client.ID)))
}

func TestGormStore_DeleteDevice_Cascades(t *testing.T) {
	gormDB := testutil.NewDB(t)
	s := NewGormStore(gormDB)
	ctx := context.Background()

	f := testutil.SeedClient(t, gormDB, "")
	testutil.SeedRepair(t, gormDB, f, model.StatusPending)

	require.NoError(t, s.DeleteDevice(ctx, f.Device.ID))

	var repairs int64
	gormDB.Model(&model.Repair{}).Count(&repairs)
	assert.Zero(t, repairs)
	_, err := s.GetDevice(ctx, f.Device.ID)
	assert.True(t, apperr.IsNotFound(err))

	client, err := s.GetClient(ctx, f.Client.ID)
	require.NoError(t, err)
	assert.Empty(t, client.Devices)
}

func TestGormStore_DeleteRepair_WithInvoiceIsConflict(t *testing.T) {
	gormDB := testutil.NewDB(t)
	s := NewGormStore(gormDB)
	ctx := context.Background()

	f := testutil.SeedClient(t, gormDB, "")
	r := testutil.SeedRepair(t, gormDB, f, model.StatusDone)
	require.NoError(t, s.CreateInvoice(ctx, &model.Invoice{
		RepairID: r.ID, Number: "F-2026-000001", IssuedAt: time.Now(), PaymentStatus: model.PaymentPending,
	}))

	err := s.DeleteRepair(ctx, r.ID)
	assert.True(t, apperr.IsConflict(err), "got %v", err)

	_, err = s.GetRepair(ctx, r.ID)
	assert.NoError(t, err)
}

// The invoice reference must fail as a plain foreign key violation on sqlite,
// the only shape gorm translates.
func TestInvoiceForeignKey_IsTranslated(t *testing.T) {
	gormDB := testutil.NewDB(t)
	f := testutil.SeedClient(t, gormDB, "")
	r := testutil.SeedRepair(t, gormDB, f, model.StatusDone)
	require.NoError(t, gormDB.Create(&model.Invoice{
		RepairID: r.ID, Number: "F-2026-000001", IssuedAt: time.Now(), PaymentStatus: model.PaymentPending,
	}).Error)

	err := gormDB.Delete(&model.Repair{}, r.ID).Error
	assert.ErrorIs(t, err, gorm.ErrForeignKeyViolated)
}

func TestGormStore_ListRepairs_Search(t *testing.T) {
	gormDB := testutil.NewDB(t)
	s := NewGormStore(gormDB)
	ctx := context.Background()

	claire := testutil.SeedClient(t, gormDB, "")
	r1 := testutil.SeedRepair(t, gormDB, claire, model.StatusInProgress)
	r2 := testutil.SeedRepair(t, gormDB, claire, model.StatusPending)

	old := testutil.SeedRepair(t, gormDB, testutil.SeedClient(t, gormDB, "2"), model.StatusPending)
	require.NoError(t, gormDB.Model(old).UpdateColumn("created_at", time.Now().AddDate(0, -2, 0)).Error)

	testCases := []struct {
		name     string
		filter   RepairFilter
		expected []int64
	}{
		{"all newest first", RepairFilter{}, []int64{r2.ID, r1.ID, old.ID}},
		{"by status", RepairFilter{Status: model.StatusInProgress}, []int64{r1.ID}},
		{"by client name", RepairFilter{Query: "claire2"}, []int64{old.ID}},
		{"by technician, any case", RepairFilter{Query: "KARIM", ClientID: claire.Client.ID}, []int64{r2.ID, r1.ID}},
		{"by period", RepairFilter{Since: PeriodMonth.Since(time.Now())}, []int64{r2.ID, r1.ID}},
		{"no match", RepairFilter{Category: model.CategoryWater}, []int64{}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repairs, err := s.ListRepairs(ctx, tc.filter)
			require.NoError(t, err)
			ids := make([]int64, 0, len(repairs))
			for _, r := range repairs {
				ids = append(ids, r.ID)
				assert.NotNil(t, r.Client)
				assert.NotNil(t, r.Device)
			}
			assert.Equal(t, tc.expected, ids)
		})
	}
}

func TestGormStore_InvoiceLookups(t *testing.T) {
	gormDB := testutil.NewDB(t)
	s := NewGormStore(gormDB)
	ctx := context.Background()

	f := testutil.SeedClient(t, gormDB, "")
	r := testutil.SeedRepair(t, gormDB, f, model.StatusDone)
	inv := &model.Invoice{RepairID: r.ID, Number: "F-2026-000001", Amount: 50, Tax: 10, Total: 60,
		IssuedAt: time.Now(), PaymentStatus: model.PaymentPaid}
	require.NoError(t, s.CreateInvoice(ctx, inv))

	byNumber, err := s.GetInvoiceByNumber(ctx, "F-2026-000001")
	require.NoError(t, err)
	assert.Equal(t, inv.ID, byNumber.ID)
	require.NotNil(t, byNumber.Repair)
	assert.Equal(t, "Martin", byNumber.Repair.Client.LastName)

	byRepair, err := s.GetInvoiceByRepair(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, inv.ID, byRepair.ID)

	_, err = s.GetInvoiceByNumber(ctx, "F-2026-999999")
	assert.True(t, apperr.IsNotFound(err))

	paid, err := s.ListInvoices(ctx, InvoiceFilter{PaymentStatus: model.PaymentPaid})
	require.NoError(t, err)
	assert.Len(t, paid, 1)
	pending, err := s.ListInvoices(ctx, InvoiceFilter{PaymentStatus: model.PaymentPending})
	require.NoError(t, err)
	assert.Empty(t, pending)

	require.NoError(t, s.DeleteInvoice(ctx, inv.ID))
	assert.True(t, apperr.IsNotFound(s.DeleteInvoice(ctx, inv.ID)))
}

func TestGormStore_Stats(t *testing.T) {
	gormDB := testutil.NewDB(t)
	s := NewGormStore(gormDB)
	ctx := context.Background()

	f := testutil.SeedClient(t, gormDB, "")
	testutil.SeedRepair(t, gormDB, f, model.StatusPending)
	testutil.SeedRepair(t, gormDB, f, model.StatusInProgress)
	done := testutil.SeedRepair(t, gormDB, f, model.StatusDone)
	delivered := testutil.SeedRepair(t, gormDB, f, model.StatusDelivered)
	require.NoError(t, s.CreateInvoice(ctx, &model.Invoice{RepairID: done.ID, Number: "F-2026-000003",
		Amount: 100, Tax: 20, Total: 120, IssuedAt: time.Now(), PaymentStatus: model.PaymentPending}))
	require.NoError(t, s.CreateInvoice(ctx, &model.Invoice{RepairID: delivered.ID, Number: "F-2026-000004",
		Amount: 62.5, Tax: 12.5, Total: 75, IssuedAt: time.Now(), PaymentStatus: model.PaymentPaid}))

	st, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, Stats{Clients: 1, ActiveRepairs: 2, UnpaidInvoices: 1, Revenue: 75}, st)
}

func TestGormStore_Subscriptions(t *testing.T) {
	gormDB := testutil.NewDB(t)
	s := NewGormStore(gormDB)
	ctx := context.Background()

	f := testutil.SeedClient(t, gormDB, "")
	r1 := testutil.SeedRepair(t, gormDB, f, model.StatusPending)
	r2 := testutil.SeedRepair(t, gormDB, f, model.StatusPending)

	sub := &model.PushSubscription{Endpoint: "https://push.example/xyz", P256DH: "p1", Auth: "a1"}
	require.NoError(t, s.ReplaceSubscription(ctx, sub, []int64{r1.ID, r2.ID, 999}))

	subs, err := s.SubscriptionsForRepair(ctx, r2.ID)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "p1", subs[0].P256DH)

	// Re-subscribing updates keys and replaces the followed set.
	require.NoError(t, s.ReplaceSubscription(ctx,
		&model.PushSubscription{Endpoint: "https://push.example/xyz", P256DH: "p2", Auth: "a2"},
		[]int64{r1.ID}))
	got, err := s.GetSubscription(ctx, "https://push.example/xyz")
	require.NoError(t, err)
	assert.Equal(t, "p2", got.P256DH)
	require.Len(t, got.Repairs, 1)
	assert.Equal(t, r1.ID, got.Repairs[0].ID)

	subs, err = s.SubscriptionsForRepair(ctx, r2.ID)
	require.NoError(t, err)
	assert.Empty(t, subs)

	require.NoError(t, s.DeleteSubscription(ctx, "https://push.example/xyz"))
	_, err = s.GetSubscription(ctx, "https://push.example/xyz")
	assert.True(t, apperr.IsNotFound(err))
}
