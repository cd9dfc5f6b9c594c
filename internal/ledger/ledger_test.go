package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/ajitzz/ENCHO-CABS-sub001/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Driver{},
		&models.Vehicle{},
		&models.Trip{},
		&models.DriverRentLog{},
	))
	return db
}

func seedDriver(t *testing.T, db *gorm.DB, accommodation bool) *models.Driver {
	t.Helper()
	driver := &models.Driver{Name: "Ravi", HasAccommodation: accommodation}
	require.NoError(t, db.Create(driver).Error)
	return driver
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestUpsertIfAbsent_IdempotentForSameKey(t *testing.T) {
	db := newTestDB(t)
	store := NewStore(db)
	date := day(2024, time.March, 6)

	first, err := store.UpsertIfAbsent(1, date, models.ShiftMorning, 7, 500)
	require.NoError(t, err)
	require.NotZero(t, first.ID)

	second, err := store.UpsertIfAbsent(1, date, models.ShiftMorning, 7, 600)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	// First writer wins; the later amount is not absorbed
	assert.Equal(t, 500, second.Rent)

	var count int64
	require.NoError(t, db.Model(&models.DriverRentLog{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestUpsertIfAbsent_DistinctShiftsAreDistinctRows(t *testing.T) {
	db := newTestDB(t)
	store := NewStore(db)
	date := day(2024, time.March, 6)

	_, err := store.UpsertIfAbsent(1, date, models.ShiftMorning, 7, 500)
	require.NoError(t, err)
	_, err = store.UpsertIfAbsent(1, date, models.ShiftEvening, 7, 500)
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.DriverRentLog{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestUpsertIfAbsent_SetsWeekBounds(t *testing.T) {
	db := newTestDB(t)
	store := NewStore(db)

	// Wednesday 2024-03-06 falls in the Monday 2024-03-04 week
	entry, err := store.UpsertIfAbsent(1, day(2024, time.March, 6), models.ShiftMorning, 7, 500)
	require.NoError(t, err)
	assert.Equal(t, day(2024, time.March, 4), entry.WeekStart)
	assert.Equal(t, day(2024, time.March, 10), entry.WeekEnd)
}

func TestSetPaid_IdempotentToggle(t *testing.T) {
	db := newTestDB(t)
	store := NewStore(db)

	entry, err := store.UpsertIfAbsent(1, day(2024, time.March, 6), models.ShiftMorning, 7, 500)
	require.NoError(t, err)

	paid, err := store.SetPaid(entry.ID, true)
	require.NoError(t, err)
	assert.True(t, paid.Paid)

	// Setting the same state again succeeds and changes nothing
	again, err := store.SetPaid(entry.ID, true)
	require.NoError(t, err)
	assert.True(t, again.Paid)

	var count int64
	require.NoError(t, db.Model(&models.DriverRentLog{}).Where("paid = ?", true).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestSetPaid_UnknownID(t *testing.T) {
	db := newTestDB(t)
	store := NewStore(db)

	_, err := store.SetPaid(9999, true)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteForDriverDate_RemovesBothShifts(t *testing.T) {
	db := newTestDB(t)
	store := NewStore(db)
	date := day(2024, time.March, 6)

	_, err := store.UpsertIfAbsent(1, date, models.ShiftMorning, 7, 500)
	require.NoError(t, err)
	evening, err := store.UpsertIfAbsent(1, date, models.ShiftEvening, 7, 500)
	require.NoError(t, err)

	// A paid row is deleted all the same
	_, err = store.SetPaid(evening.ID, true)
	require.NoError(t, err)

	require.NoError(t, store.DeleteForDriverDate(1, date))

	var count int64
	require.NoError(t, db.Model(&models.DriverRentLog{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestListUnpaid(t *testing.T) {
	db := newTestDB(t)
	store := NewStore(db)
	date := day(2024, time.March, 6)

	_, err := store.UpsertIfAbsent(1, date, models.ShiftMorning, 7, 500)
	require.NoError(t, err)
	evening, err := store.UpsertIfAbsent(1, date, models.ShiftEvening, 7, 500)
	require.NoError(t, err)
	_, err = store.SetPaid(evening.ID, true)
	require.NoError(t, err)

	unpaid, err := store.ListUnpaid()
	require.NoError(t, err)
	require.Len(t, unpaid, 1)
	assert.Equal(t, models.ShiftMorning, unpaid[0].Shift)

	all, err := store.ListAll()
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestOnTripCreated_UsesAccommodationRate(t *testing.T) {
	db := newTestDB(t)
	store := NewStore(db)
	rec := NewReconciler(db, store)

	withAccom := seedDriver(t, db, true)
	withoutAccom := seedDriver(t, db, false)
	date := day(2024, time.March, 6)

	trip1 := &models.Trip{DriverID: withAccom.ID, VehicleID: 7, Shift: models.ShiftMorning, Date: date, TripCount: 20}
	require.NoError(t, db.Create(trip1).Error)
	entry1, err := rec.OnTripCreated(trip1)
	require.NoError(t, err)
	assert.Equal(t, models.DailyRentWithAccommodation, entry1.Rent)

	trip2 := &models.Trip{DriverID: withoutAccom.ID, VehicleID: 7, Shift: models.ShiftEvening, Date: date, TripCount: 18}
	require.NoError(t, db.Create(trip2).Error)
	entry2, err := rec.OnTripCreated(trip2)
	require.NoError(t, err)
	assert.Equal(t, models.DailyRentWithoutAccommodation, entry2.Rent)
}

func TestOnTripCreated_UnknownDriver(t *testing.T) {
	db := newTestDB(t)
	rec := NewReconciler(db, NewStore(db))

	trip := &models.Trip{DriverID: 424242, VehicleID: 7, Shift: models.ShiftMorning, Date: day(2024, time.March, 6)}
	_, err := rec.OnTripCreated(trip)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepairAll_CreatesMissingRowsExactlyOnce(t *testing.T) {
	db := newTestDB(t)
	store := NewStore(db)
	rec := NewReconciler(db, store)

	driver := seedDriver(t, db, true)
	date := day(2024, time.March, 6)

	// Simulated drift: trips exist with no ledger rows at all
	trips := []models.Trip{
		{DriverID: driver.ID, VehicleID: 7, Shift: models.ShiftMorning, Date: date, TripCount: 15},
		{DriverID: driver.ID, VehicleID: 7, Shift: models.ShiftEvening, Date: date, TripCount: 12},
	}
	for i := range trips {
		require.NoError(t, db.Create(&trips[i]).Error)
	}

	report, err := rec.RepairAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, report.Scanned)
	assert.Equal(t, 2, report.Created)
	assert.Empty(t, report.Failures)

	var entries []models.DriverRentLog
	require.NoError(t, db.Find(&entries).Error)
	require.Len(t, entries, 2)
	for _, entry := range entries {
		assert.Equal(t, models.DailyRentWithAccommodation, entry.Rent)
	}

	// A second sweep finds nothing to do
	report, err = rec.RepairAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, report.Scanned)
	assert.Equal(t, 0, report.Created)
}

func TestRepairAll_IsolatesPerTripFailures(t *testing.T) {
	db := newTestDB(t)
	store := NewStore(db)
	rec := NewReconciler(db, store)

	driver := seedDriver(t, db, false)
	date := day(2024, time.March, 6)

	good := models.Trip{DriverID: driver.ID, VehicleID: 7, Shift: models.ShiftMorning, Date: date, TripCount: 10}
	orphan := models.Trip{DriverID: 424242, VehicleID: 7, Shift: models.ShiftEvening, Date: date, TripCount: 10}
	require.NoError(t, db.Create(&good).Error)
	require.NoError(t, db.Create(&orphan).Error)

	report, err := rec.RepairAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, report.Scanned)
	assert.Equal(t, 1, report.Created)
	assert.Len(t, report.Failures, 1)
}

func TestRepairAll_Cancellation(t *testing.T) {
	db := newTestDB(t)
	rec := NewReconciler(db, NewStore(db))

	driver := seedDriver(t, db, false)
	trip := models.Trip{DriverID: driver.ID, VehicleID: 7, Shift: models.ShiftMorning, Date: day(2024, time.March, 6), TripCount: 10}
	require.NoError(t, db.Create(&trip).Error)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := rec.RepairAll(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRentStatus_ThreeWayClassification(t *testing.T) {
	db := newTestDB(t)
	store := NewStore(db)
	rec := NewReconciler(db, store)

	driver := seedDriver(t, db, true)
	date := day(2024, time.March, 6)

	trip := models.Trip{DriverID: driver.ID, VehicleID: 7, Shift: models.ShiftMorning, Date: date, TripCount: 9}
	require.NoError(t, db.Create(&trip).Error)

	// No ledger row yet: drift is repaired inline and reported
	status, entry, err := rec.RentStatus(trip.ID)
	require.NoError(t, err)
	assert.Equal(t, RentStatusAutoCreated, status)
	require.NotNil(t, entry)
	assert.Equal(t, models.DailyRentWithAccommodation, entry.Rent)

	status, _, err = rec.RentStatus(trip.ID)
	require.NoError(t, err)
	assert.Equal(t, RentStatusUnpaid, status)

	_, err = store.SetPaid(entry.ID, true)
	require.NoError(t, err)

	status, _, err = rec.RentStatus(trip.ID)
	require.NoError(t, err)
	assert.Equal(t, RentStatusPaid, status)
}

func TestRentStatus_UnknownTrip(t *testing.T) {
	db := newTestDB(t)
	rec := NewReconciler(db, NewStore(db))

	_, _, err := rec.RentStatus(987654)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOnTripDeleted_Cascade(t *testing.T) {
	db := newTestDB(t)
	store := NewStore(db)
	rec := NewReconciler(db, store)

	driver := seedDriver(t, db, false)
	date := day(2024, time.March, 6)

	trip := models.Trip{DriverID: driver.ID, VehicleID: 7, Shift: models.ShiftMorning, Date: date, TripCount: 11}
	require.NoError(t, db.Create(&trip).Error)
	entry, err := rec.OnTripCreated(&trip)
	require.NoError(t, err)

	// Even a paid row goes when its trip is reversed
	_, err = store.SetPaid(entry.ID, true)
	require.NoError(t, err)

	require.NoError(t, rec.OnTripDeleted(&trip))

	var count int64
	require.NoError(t, db.Model(&models.DriverRentLog{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}
