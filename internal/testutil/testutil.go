// Package testutil provides an in-memory database and fixtures for tests.
package testutil

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"repairshop-backend/config"
	"repairshop-backend/internal/db"
	"repairshop-backend/internal/model"
)

// NewDB opens a private migrated sqlite database that lives as long as t.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	gormDB, err := db.Init(&config.DatabaseConfig{
		Driver:       "sqlite",
		DSN:          "file:" + uuid.NewString() + "?mode=memory&cache=shared",
		MaxOpenConns: 1,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := gormDB.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return gormDB
}

// Fixture is a client with one device.
type Fixture struct {
	Client *model.Client
	Device *model.Device
}

// SeedClient inserts a client and a device. suffix keeps phone and email
// unique when a test needs several clients.
func SeedClient(t testing.TB, gormDB *gorm.DB, suffix string) Fixture {
	t.Helper()
	c := &model.Client{
		LastName:  "Martin",
		FirstName: "Claire" + suffix,
		Phone:     "0601020304" + suffix,
		Email:     "claire" + suffix + "@example.com",
		Address:   "12 rue des Lilas, Lyon",
	}
	require.NoError(t, gormDB.Create(c).Error)
	d := &model.Device{
		ClientID:    c.ID,
		Brand:       "Apple",
		Model:       "iPhone 13",
		IMEI:        "356789104563210",
		Color:       "bleu",
		Accessories: model.StringList{"chargeur", "coque"},
	}
	require.NoError(t, gormDB.Create(d).Error)
	return Fixture{Client: c, Device: d}
}

// SeedRepair inserts a repair for f in the given status.
func SeedRepair(t testing.TB, gormDB *gorm.DB, f Fixture, status model.RepairStatus) *model.Repair {
	t.Helper()
	r := &model.Repair{
		ClientID:      f.Client.ID,
		DeviceID:      f.Device.ID,
		Category:      model.CategoryScreen,
		Description:   "Écran fissuré après une chute",
		EstimatedCost: 120,
		Status:        status,
		Priority:      model.PriorityNormal,
		Technician:    "Karim",
		CreatedAt:     time.Now(),
	}
	require.NoError(t, gormDB.Omit("Client", "Device").Create(r).Error)
	return r
}
