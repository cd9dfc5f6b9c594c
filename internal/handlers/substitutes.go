package handlers

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/ajitzz/ENCHO-CABS-sub001/internal/models"
	"github.com/ajitzz/ENCHO-CABS-sub001/internal/services"
	"github.com/ajitzz/ENCHO-CABS-sub001/internal/settlement"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CreateSubstituteDriver logs a substitute shift. The charge is fixed by the
// shift length; the trips count toward the vehicle's weekly slab. A shift
// back-entered into an already-settled week invalidates that settlement.
func CreateSubstituteDriver(db *gorm.DB, processor *settlement.Processor, notifier *services.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			VehicleID uint      `json:"vehicleId" binding:"required"`
			Name      string    `json:"name" binding:"required"`
			Date      time.Time `json:"date" binding:"required"`
			Shift     string    `json:"shift" binding:"required,oneof=morning evening"`
			Hours     int       `json:"hours" binding:"required"`
			TripCount *int      `json:"tripCount"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		charge, ok := models.SubstituteCharge(input.Hours)
		if !ok {
			c.JSON(400, gin.H{"error": "Hours must be 6, 8 or 12"})
			return
		}

		tripCount := 1
		if input.TripCount != nil {
			if *input.TripCount < 0 {
				c.JSON(400, gin.H{"error": "Trip count must be non-negative"})
				return
			}
			tripCount = *input.TripCount
		}

		var vehicle models.Vehicle
		if err := db.First(&vehicle, input.VehicleID).Error; err != nil {
			c.JSON(404, gin.H{"error": "Vehicle not found"})
			return
		}

		substitute := models.SubstituteDriver{
			VehicleID: input.VehicleID,
			Name:      input.Name,
			Date:      models.DateOnly(input.Date),
			Shift:     models.Shift(input.Shift),
			Hours:     input.Hours,
			Charge:    charge,
			TripCount: tripCount,
		}

		if err := db.Create(&substitute).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to create substitute driver"})
			return
		}

		if err := processor.Invalidate(substitute.VehicleID, substitute.Date); err != nil {
			log.Printf("Failed to invalidate settlement for vehicle %d: %v", substitute.VehicleID, err)
		}

		go func() {
			ctx := context.Background()
			notifier.Publish(ctx, services.EventTripsChanged)
			notifier.Publish(ctx, services.EventSettlementsChanged)
		}()

		c.JSON(201, substitute)
	}
}

// GetSubstituteDrivers retrieves substitute shifts, optionally by vehicle
func GetSubstituteDrivers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Preload("Vehicle").Order("date DESC")

		if raw := c.Query("vehicleId"); raw != "" {
			vehicleID, err := strconv.ParseUint(raw, 10, 32)
			if err != nil {
				c.JSON(400, gin.H{"error": "Invalid vehicle id"})
				return
			}
			query = query.Where("vehicle_id = ?", vehicleID)
		}

		var substitutes []models.SubstituteDriver
		if err := query.Find(&substitutes).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch substitute drivers"})
			return
		}

		c.JSON(200, substitutes)
	}
}

// DeleteSubstituteDriver removes a substitute shift and invalidates the
// week's settlement, since both revenue and the slab total changed
func DeleteSubstituteDriver(db *gorm.DB, processor *settlement.Processor, notifier *services.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid substitute id"})
			return
		}

		var substitute models.SubstituteDriver
		if err := db.First(&substitute, id).Error; err != nil {
			c.JSON(404, gin.H{"error": "Substitute driver not found"})
			return
		}

		if err := db.Unscoped().Delete(&substitute).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to delete substitute driver"})
			return
		}

		if err := processor.Invalidate(substitute.VehicleID, substitute.Date); err != nil {
			log.Printf("Failed to invalidate settlement for vehicle %d: %v", substitute.VehicleID, err)
		}

		go func() {
			ctx := context.Background()
			notifier.Publish(ctx, services.EventTripsChanged)
			notifier.Publish(ctx, services.EventSettlementsChanged)
		}()

		c.JSON(200, gin.H{"message": "Substitute driver deleted"})
	}
}
