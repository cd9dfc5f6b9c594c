package handlers

import (
	"context"
	"errors"
	"log"
	"strconv"
	"time"

	"github.com/ajitzz/ENCHO-CABS-sub001/internal/ledger"
	"github.com/ajitzz/ENCHO-CABS-sub001/internal/models"
	"github.com/ajitzz/ENCHO-CABS-sub001/internal/services"
	"github.com/ajitzz/ENCHO-CABS-sub001/internal/settlement"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CreateTrip logs a trip for a driver's shift and keeps the rent ledger in
// step: every new trip gets its driver-day-shift a ledger row if one does not
// exist yet. A trip back-entered into an already-settled week invalidates
// that settlement, same as deletion does.
func CreateTrip(db *gorm.DB, reconciler *ledger.Reconciler, processor *settlement.Processor, notifier *services.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			DriverID  uint      `json:"driverId" binding:"required"`
			VehicleID uint      `json:"vehicleId" binding:"required"`
			Shift     string    `json:"shift" binding:"required,oneof=morning evening"`
			Date      time.Time `json:"date" binding:"required"`
			TripCount *int      `json:"tripCount" binding:"required"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		if *input.TripCount < 0 {
			c.JSON(400, gin.H{"error": "Trip count must be non-negative"})
			return
		}

		var driver models.Driver
		if err := db.First(&driver, input.DriverID).Error; err != nil {
			c.JSON(404, gin.H{"error": "Driver not found"})
			return
		}
		var vehicle models.Vehicle
		if err := db.First(&vehicle, input.VehicleID).Error; err != nil {
			c.JSON(404, gin.H{"error": "Vehicle not found"})
			return
		}

		trip := models.Trip{
			DriverID:  input.DriverID,
			VehicleID: input.VehicleID,
			Shift:     models.Shift(input.Shift),
			Date:      models.DateOnly(input.Date),
			TripCount: *input.TripCount,
		}

		if err := db.Create(&trip).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to create trip"})
			return
		}

		if _, err := reconciler.OnTripCreated(&trip); err != nil {
			// The trip is in; the sweep will pick the ledger row up
			log.Printf("Failed to reconcile ledger for trip %d: %v", trip.ID, err)
		}
		if err := processor.Invalidate(trip.VehicleID, trip.Date); err != nil {
			log.Printf("Failed to invalidate settlement for vehicle %d: %v", trip.VehicleID, err)
		}

		go func() {
			ctx := context.Background()
			notifier.Publish(ctx, services.EventTripsChanged)
			notifier.Publish(ctx, services.EventLedgerChanged)
			notifier.Publish(ctx, services.EventSettlementsChanged)
		}()

		c.JSON(201, trip)
	}
}

// GetTrips retrieves trips, optionally filtered by vehicle and week
func GetTrips(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Preload("Driver").Preload("Vehicle").Order("date DESC")

		if raw := c.Query("vehicleId"); raw != "" {
			vehicleID, err := strconv.ParseUint(raw, 10, 32)
			if err != nil {
				c.JSON(400, gin.H{"error": "Invalid vehicle id"})
				return
			}
			query = query.Where("vehicle_id = ?", vehicleID)
		}

		if raw := c.Query("week"); raw != "" {
			date, err := time.Parse("2006-01-02", raw)
			if err != nil {
				c.JSON(400, gin.H{"error": "Invalid week, expected YYYY-MM-DD"})
				return
			}
			weekStart, weekEnd := settlement.WeekBounds(date)
			query = query.Where("date BETWEEN ? AND ?", weekStart, weekEnd)
		}

		var trips []models.Trip
		if err := query.Find(&trips).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch trips"})
			return
		}

		c.JSON(200, trips)
	}
}

// DeleteTrip removes a trip and cascades: the driver's ledger rows for that
// date go with it, and the week's settlement (if any) is invalidated since
// its inputs changed.
func DeleteTrip(db *gorm.DB, reconciler *ledger.Reconciler, processor *settlement.Processor, notifier *services.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid trip id"})
			return
		}

		var trip models.Trip
		if err := db.First(&trip, id).Error; err != nil {
			c.JSON(404, gin.H{"error": "Trip not found"})
			return
		}

		if err := db.Unscoped().Delete(&trip).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to delete trip"})
			return
		}

		if err := reconciler.OnTripDeleted(&trip); err != nil {
			log.Printf("Failed to cascade trip %d deletion into ledger: %v", trip.ID, err)
		}
		if err := processor.Invalidate(trip.VehicleID, trip.Date); err != nil {
			log.Printf("Failed to invalidate settlement for vehicle %d: %v", trip.VehicleID, err)
		}

		go func() {
			ctx := context.Background()
			notifier.Publish(ctx, services.EventTripsChanged)
			notifier.Publish(ctx, services.EventLedgerChanged)
			notifier.Publish(ctx, services.EventSettlementsChanged)
		}()

		c.JSON(200, gin.H{"message": "Trip deleted"})
	}
}

// GetRentStatus classifies a trip's rent as paid, unpaid, or auto_created
// when the ledger row was missing and had to be repaired on read
func GetRentStatus(reconciler *ledger.Reconciler, notifier *services.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid trip id"})
			return
		}

		status, entry, err := reconciler.RentStatus(uint(id))
		if err != nil {
			if errors.Is(err, ledger.ErrNotFound) {
				c.JSON(404, gin.H{"error": "Trip not found"})
				return
			}
			c.JSON(500, gin.H{"error": "Failed to derive rent status"})
			return
		}

		if status == ledger.RentStatusAutoCreated {
			go notifier.Publish(context.Background(), services.EventLedgerChanged)
		}

		c.JSON(200, gin.H{"status": status, "entry": entry})
	}
}
