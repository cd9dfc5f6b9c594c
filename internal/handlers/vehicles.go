package handlers

import (
	"log"
	"strconv"
	"time"

	"github.com/ajitzz/ENCHO-CABS-sub001/internal/models"
	"github.com/ajitzz/ENCHO-CABS-sub001/internal/services"
	"github.com/ajitzz/ENCHO-CABS-sub001/internal/settlement"
	"github.com/ajitzz/ENCHO-CABS-sub001/pkg/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CreateVehicle registers a leased vehicle
func CreateVehicle(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Number      string     `json:"number" binding:"required"`
			Provider    string     `json:"provider" binding:"required,oneof=provider_a provider_b"`
			OnboardedAt *time.Time `json:"onboardedAt"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		vehicle := models.Vehicle{
			Number:      input.Number,
			Provider:    models.VehicleProvider(input.Provider),
			OnboardedAt: input.OnboardedAt,
		}

		if err := db.Create(&vehicle).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to create vehicle"})
			return
		}

		c.JSON(201, vehicle)
	}
}

// GetVehicles retrieves all vehicles
func GetVehicles(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var vehicles []models.Vehicle
		if err := db.Order("number").Find(&vehicles).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch vehicles"})
			return
		}

		c.JSON(200, vehicles)
	}
}

// GetVehicle retrieves a single vehicle by id
func GetVehicle(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid vehicle id"})
			return
		}

		var vehicle models.Vehicle
		if err := db.First(&vehicle, id).Error; err != nil {
			c.JSON(404, gin.H{"error": "Vehicle not found"})
			return
		}

		c.JSON(200, vehicle)
	}
}

// GetVehicleSlab reports the vehicle's current weekly trip total, the rate
// it resolves to, and how many more trips reach the next cheaper slab
func GetVehicleSlab(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid vehicle id"})
			return
		}

		var vehicle models.Vehicle
		if err := db.First(&vehicle, id).Error; err != nil {
			c.JSON(404, gin.H{"error": "Vehicle not found"})
			return
		}

		date := time.Now()
		if raw := c.Query("date"); raw != "" {
			date, err = time.Parse("2006-01-02", raw)
			if err != nil {
				c.JSON(400, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
				return
			}
		}

		summary, err := settlement.CalculateWeek(db, &vehicle, date)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to calculate week"})
			return
		}

		c.JSON(200, gin.H{
			"vehicleId":   vehicle.ID,
			"weekStart":   summary.WeekStart,
			"weekEnd":     summary.WeekEnd,
			"totalTrips":  summary.TotalTrips,
			"rate":        summary.Rate,
			"companyRent": summary.CompanyRent,
			"profit":      summary.Profit,
			"nextTarget":  summary.NextTarget,
		})
	}
}

// GetSlabTable returns a provider's full slab table
func GetSlabTable() gin.HandlerFunc {
	return func(c *gin.Context) {
		provider := models.VehicleProvider(c.Query("provider"))
		slabs, err := utils.ProviderSlabs(provider)
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		c.JSON(200, gin.H{"provider": provider, "slabs": slabs})
	}
}

// UploadVehicleDocument stores vehicle paperwork (lease agreement, permit)
// and records its URL on the vehicle
func UploadVehicleDocument(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid vehicle id"})
			return
		}

		var vehicle models.Vehicle
		if err := db.First(&vehicle, id).Error; err != nil {
			c.JSON(404, gin.H{"error": "Vehicle not found"})
			return
		}

		file, err := c.FormFile("document")
		if err != nil {
			c.JSON(400, gin.H{"error": "Document file required"})
			return
		}

		path, err := services.UploadDocument(file, "vehicles")
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to store document"})
			return
		}

		// Replacing paperwork drops the old copy
		if vehicle.DocumentURL != "" {
			if err := services.DeleteDocument(vehicle.DocumentURL); err != nil {
				log.Printf("Failed to delete old document for vehicle %d: %v", vehicle.ID, err)
			}
		}

		url := services.GetDocumentURL(path)
		if err := db.Model(&vehicle).Update("document_url", url).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to save document URL"})
			return
		}

		c.JSON(200, gin.H{"documentUrl": url})
	}
}
