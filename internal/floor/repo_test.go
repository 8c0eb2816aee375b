package floor

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mesalivre/pos-backend/pkg/db/models"
	"github.com/mesalivre/pos-backend/pkg/enums"
)

func setupFloorTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	tables := `
CREATE TABLE IF NOT EXISTS tables (
  id TEXT PRIMARY KEY,
  restaurant_id TEXT NOT NULL,
  number INTEGER NOT NULL,
  status TEXT NOT NULL DEFAULT 'available',
  capacity INTEGER,
  created_at DATETIME,
  updated_at DATETIME
);`
	tabs := `
CREATE TABLE IF NOT EXISTS tabs (
  id TEXT PRIMARY KEY,
  restaurant_id TEXT NOT NULL,
  number INTEGER NOT NULL,
  status TEXT NOT NULL DEFAULT 'available',
  customer_name TEXT,
  customer_phone TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(tables).Error)
	require.NoError(t, db.Exec(tabs).Error)
	return db
}

func TestListTablesScopedAndOrdered(t *testing.T) {
	db := setupFloorTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	restaurantID := uuid.New()
	otherRestaurant := uuid.New()
	require.NoError(t, db.Create(&models.Table{ID: uuid.New(), RestaurantID: restaurantID, Number: 7, Status: enums.UnitStatusAvailable}).Error)
	require.NoError(t, db.Create(&models.Table{ID: uuid.New(), RestaurantID: restaurantID, Number: 2, Status: enums.UnitStatusOccupied}).Error)
	require.NoError(t, db.Create(&models.Table{ID: uuid.New(), RestaurantID: otherRestaurant, Number: 1, Status: enums.UnitStatusAvailable}).Error)

	tables, err := repo.ListTables(ctx, restaurantID)
	require.NoError(t, err)
	require.Len(t, tables, 2)
	assert.Equal(t, 2, tables[0].Number)
	assert.Equal(t, 7, tables[1].Number)
}

func TestUpdateTableStatus(t *testing.T) {
	db := setupFloorTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	table := models.Table{ID: uuid.New(), RestaurantID: uuid.New(), Number: 3, Status: enums.UnitStatusAvailable}
	require.NoError(t, db.Create(&table).Error)

	require.NoError(t, repo.UpdateTableStatus(ctx, table.ID, enums.UnitStatusOccupied))

	got, err := repo.FindTable(ctx, table.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.UnitStatusOccupied, got.Status)
}

func TestBindAndClearTabCustomer(t *testing.T) {
	db := setupFloorTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	tab := models.Tab{ID: uuid.New(), RestaurantID: uuid.New(), Number: 15, Status: enums.UnitStatusAvailable}
	require.NoError(t, db.Create(&tab).Error)

	require.NoError(t, repo.BindTabCustomer(ctx, tab.ID, "Carla", "11 98888-7777"))
	got, err := repo.FindTab(ctx, tab.ID)
	require.NoError(t, err)
	require.NotNil(t, got.CustomerName)
	assert.Equal(t, "Carla", *got.CustomerName)
	require.NotNil(t, got.CustomerPhone)
	assert.Equal(t, "11 98888-7777", *got.CustomerPhone)

	require.NoError(t, repo.ClearTabCustomer(ctx, tab.ID))
	got, err = repo.FindTab(ctx, tab.ID)
	require.NoError(t, err)
	assert.Nil(t, got.CustomerName)
	assert.Nil(t, got.CustomerPhone)
}

func TestBindTabCustomerEmptyFieldsStayNull(t *testing.T) {
	db := setupFloorTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	tab := models.Tab{ID: uuid.New(), RestaurantID: uuid.New(), Number: 8, Status: enums.UnitStatusAvailable}
	require.NoError(t, db.Create(&tab).Error)

	require.NoError(t, repo.BindTabCustomer(ctx, tab.ID, "Daniel", ""))
	got, err := repo.FindTab(ctx, tab.ID)
	require.NoError(t, err)
	require.NotNil(t, got.CustomerName)
	assert.Nil(t, got.CustomerPhone)
}

func TestFindTableNotFound(t *testing.T) {
	db := setupFloorTestDB(t)
	repo := NewRepository(db)

	_, err := repo.FindTable(context.Background(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
