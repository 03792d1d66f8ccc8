package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/np-nandanpatil/vehicle-breakdown-assistance/internal/models"
)

type ServiceInput struct {
	Name          string                  `json:"name" binding:"required"`
	VehicleType   string                  `json:"vehicleType" binding:"required,oneof=2-wheeler 3-wheeler 4-wheeler"`
	Description   string                  `json:"description" binding:"required"`
	Problems      []models.ServiceProblem `json:"problems"`
	BasePrice     float64                 `json:"basePrice" binding:"required"`
	EstimatedTime int                     `json:"estimatedTime" binding:"required"`
	Available247  *bool                   `json:"available24_7"`
	OperatingFrom string                  `json:"operatingFrom"`
	OperatingTo   string                  `json:"operatingTo"`
}

// GetServices lists active catalog services, optionally by vehicle type
func GetServices(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Where("is_active = ?", true).Preload("Problems")

		if vehicleType := c.Query("vehicleType"); vehicleType != "" {
			query = query.Where("vehicle_type = ?", vehicleType)
		}

		var svcs []models.Service
		if err := query.Find(&svcs).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch services"})
			return
		}

		c.JSON(200, svcs)
	}
}

// GetService retrieves a single catalog service
func GetService(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var service models.Service
		if err := db.Preload("Problems").First(&service, c.Param("id")).Error; err != nil {
			c.JSON(404, gin.H{"error": "Service not found"})
			return
		}

		c.JSON(200, service)
	}
}

// CreateService adds a catalog entry (admin only)
func CreateService(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input ServiceInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		available247 := true
		if input.Available247 != nil {
			available247 = *input.Available247
		}

		service := models.Service{
			Name:          input.Name,
			VehicleType:   models.VehicleType(input.VehicleType),
			Description:   input.Description,
			Problems:      input.Problems,
			BasePrice:     input.BasePrice,
			EstimatedTime: input.EstimatedTime,
			Available247:  available247,
			OperatingFrom: input.OperatingFrom,
			OperatingTo:   input.OperatingTo,
			IsActive:      true,
		}

		if err := db.Create(&service).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to create service"})
			return
		}

		c.JSON(201, gin.H{"message": "Service created successfully", "service": service})
	}
}

// UpdateService partially updates a catalog entry (admin only)
func UpdateService(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var service models.Service
		if err := db.First(&service, c.Param("id")).Error; err != nil {
			c.JSON(404, gin.H{"error": "Service not found"})
			return
		}

		var input struct {
			Name          *string                 `json:"name"`
			VehicleType   *string                 `json:"vehicleType" binding:"omitempty,oneof=2-wheeler 3-wheeler 4-wheeler"`
			Description   *string                 `json:"description"`
			Problems      []models.ServiceProblem `json:"problems"`
			BasePrice     *float64                `json:"basePrice"`
			EstimatedTime *int                    `json:"estimatedTime"`
			Available247  *bool                   `json:"available24_7"`
			OperatingFrom *string                 `json:"operatingFrom"`
			OperatingTo   *string                 `json:"operatingTo"`
			IsActive      *bool                   `json:"isActive"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		if input.Name != nil {
			service.Name = *input.Name
		}
		if input.VehicleType != nil {
			service.VehicleType = models.VehicleType(*input.VehicleType)
		}
		if input.Description != nil {
			service.Description = *input.Description
		}
		if input.BasePrice != nil {
			service.BasePrice = *input.BasePrice
		}
		if input.EstimatedTime != nil {
			service.EstimatedTime = *input.EstimatedTime
		}
		if input.Available247 != nil {
			service.Available247 = *input.Available247
		}
		if input.OperatingFrom != nil {
			service.OperatingFrom = *input.OperatingFrom
		}
		if input.OperatingTo != nil {
			service.OperatingTo = *input.OperatingTo
		}
		if input.IsActive != nil {
			service.IsActive = *input.IsActive
		}

		if err := db.Save(&service).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to update service"})
			return
		}

		if input.Problems != nil {
			if err := db.Model(&service).Association("Problems").Replace(input.Problems); err != nil {
				c.JSON(500, gin.H{"error": "Failed to update service problems"})
				return
			}
			service.Problems = input.Problems
		}

		c.JSON(200, gin.H{"message": "Service updated successfully", "service": service})
	}
}

// DeleteService removes a catalog entry (admin only)
func DeleteService(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var service models.Service
		if err := db.First(&service, c.Param("id")).Error; err != nil {
			c.JSON(404, gin.H{"error": "Service not found"})
			return
		}

		if err := db.Delete(&service).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to delete service"})
			return
		}

		c.JSON(200, gin.H{"message": "Service deleted successfully"})
	}
}
