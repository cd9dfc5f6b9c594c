package ledger

import (
	"errors"
	"time"

	"github.com/ajitzz/ENCHO-CABS-sub001/internal/models"
	"github.com/ajitzz/ENCHO-CABS-sub001/internal/settlement"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a ledger entry id does not exist.
var ErrNotFound = errors.New("ledger entry not found")

// Store owns the driver rent ledger. Writes go through UpsertIfAbsent so the
// same driver-day-shift can never be charged twice, no matter how many
// callers race.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// UpsertIfAbsent creates a ledger entry for (driverID, date, shift) unless
// one already exists, in which case the existing entry is returned
// unchanged. First writer wins; a concurrent duplicate create resolves by
// re-reading the row that beat us to the unique index.
func (s *Store) UpsertIfAbsent(driverID uint, date time.Time, shift models.Shift, vehicleID uint, amount int) (*models.DriverRentLog, error) {
	date = models.DateOnly(date)

	var existing models.DriverRentLog
	err := s.db.Where("driver_id = ? AND date = ? AND shift = ?", driverID, date, shift).
		First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	weekStart, weekEnd := settlement.WeekBounds(date)
	entry := models.DriverRentLog{
		DriverID:  driverID,
		Date:      date,
		Shift:     shift,
		VehicleID: vehicleID,
		Rent:      amount,
		WeekStart: weekStart,
		WeekEnd:   weekEnd,
	}

	if err := s.db.Create(&entry).Error; err != nil {
		// Lost the race: the unique index rejected us, so the row exists now
		var winner models.DriverRentLog
		if ferr := s.db.Where("driver_id = ? AND date = ? AND shift = ?", driverID, date, shift).
			First(&winner).Error; ferr == nil {
			return &winner, nil
		}
		return nil, err
	}

	return &entry, nil
}

// SetPaid toggles the paid flag on a ledger entry. Setting a state the entry
// is already in is a no-op that still succeeds.
func (s *Store) SetPaid(id uint, paid bool) (*models.DriverRentLog, error) {
	var entry models.DriverRentLog
	if err := s.db.First(&entry, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if entry.Paid == paid {
		return &entry, nil
	}

	if err := s.db.Model(&entry).Update("paid", paid).Error; err != nil {
		return nil, err
	}
	entry.Paid = paid
	return &entry, nil
}

// DeleteForDriverDate removes every ledger entry for a driver on a date,
// both shifts, paid or not. Used by the trip deletion cascade.
func (s *Store) DeleteForDriverDate(driverID uint, date time.Time) error {
	date = models.DateOnly(date)
	return s.db.Unscoped().
		Where("driver_id = ? AND date = ?", driverID, date).
		Delete(&models.DriverRentLog{}).Error
}

// ListUnpaid returns all ledger entries still awaiting collection
func (s *Store) ListUnpaid() ([]models.DriverRentLog, error) {
	var entries []models.DriverRentLog
	err := s.db.Preload("Driver").
		Where("paid = ?", false).
		Order("date DESC").
		Find(&entries).Error
	return entries, err
}

// ListAll returns the full ledger, newest first
func (s *Store) ListAll() ([]models.DriverRentLog, error) {
	var entries []models.DriverRentLog
	err := s.db.Preload("Driver").
		Order("date DESC").
		Find(&entries).Error
	return entries, err
}
