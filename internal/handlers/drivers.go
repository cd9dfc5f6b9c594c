package handlers

import (
	"strconv"

	"github.com/ajitzz/ENCHO-CABS-sub001/internal/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CreateDriver registers a shift driver
func CreateDriver(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Name             string `json:"name" binding:"required"`
			PhoneNumber      string `json:"phoneNumber"`
			HasAccommodation bool   `json:"hasAccommodation"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		driver := models.Driver{
			Name:             input.Name,
			PhoneNumber:      input.PhoneNumber,
			HasAccommodation: input.HasAccommodation,
		}

		if err := db.Create(&driver).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to create driver"})
			return
		}

		c.JSON(201, driver)
	}
}

// GetDrivers retrieves all drivers
func GetDrivers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var drivers []models.Driver
		if err := db.Order("name").Find(&drivers).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch drivers"})
			return
		}

		c.JSON(200, drivers)
	}
}

// UpdateDriver edits driver master data. Changing the accommodation flag only
// affects ledger rows created from then on; existing rows keep the amount
// they were charged at.
func UpdateDriver(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid driver id"})
			return
		}

		var driver models.Driver
		if err := db.First(&driver, id).Error; err != nil {
			c.JSON(404, gin.H{"error": "Driver not found"})
			return
		}

		var input struct {
			Name             *string `json:"name"`
			PhoneNumber      *string `json:"phoneNumber"`
			HasAccommodation *bool   `json:"hasAccommodation"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		if input.Name != nil {
			driver.Name = *input.Name
		}
		if input.PhoneNumber != nil {
			driver.PhoneNumber = *input.PhoneNumber
		}
		if input.HasAccommodation != nil {
			driver.HasAccommodation = *input.HasAccommodation
		}

		if err := db.Save(&driver).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to update driver"})
			return
		}

		c.JSON(200, driver)
	}
}
