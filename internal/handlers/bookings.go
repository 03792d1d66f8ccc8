package handlers

import (
	"errors"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/np-nandanpatil/vehicle-breakdown-assistance/internal/models"
	"github.com/np-nandanpatil/vehicle-breakdown-assistance/internal/services"
	"github.com/np-nandanpatil/vehicle-breakdown-assistance/pkg/utils"
)

// referenceRetries bounds how often a colliding booking reference is
// regenerated before the request fails.
const referenceRetries = 3

type CreateBookingInput struct {
	ServiceID      uint            `json:"serviceId" binding:"required"`
	VehicleDetails string          `json:"vehicleDetails" binding:"required"`
	Problem        string          `json:"problem" binding:"required"`
	Location       models.Location `json:"location"`
}

// CreateBooking handles the creation of a new booking
func CreateBooking(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var input CreateBookingInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var service models.Service
		if err := db.First(&service, input.ServiceID).Error; err != nil {
			c.JSON(404, gin.H{"error": "Service not found"})
			return
		}

		booking := models.Booking{
			UserID:         userId,
			ServiceID:      input.ServiceID,
			VehicleDetails: input.VehicleDetails,
			Problem:        input.Problem,
			Location:       input.Location,
			Status:         models.BookingStatusPending,
		}

		// The reference is derived from the creation instant, so two
		// creations in the same millisecond window collide. The unique index
		// rejects the duplicate and we regenerate from a fresh instant.
		var err error
		for attempt := 0; attempt < referenceRetries; attempt++ {
			booking.BookingReference = utils.GenerateBookingReference()
			err = db.Create(&booking).Error
			if err == nil || !errors.Is(err, gorm.ErrDuplicatedKey) {
				break
			}
			time.Sleep(time.Millisecond)
		}
		if err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				c.JSON(500, gin.H{"error": "Failed to generate booking reference"})
				return
			}
			c.JSON(500, gin.H{"error": "Failed to create booking"})
			return
		}

		c.JSON(201, gin.H{
			"message": "Booking created successfully",
			"booking": booking,
		})
	}
}

// GetUserBookings retrieves all bookings owned by the authenticated user
func GetUserBookings(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var bookings []models.Booking
		if err := db.Where("user_id = ?", userId).
			Preload("Service").
			Preload("AssignedOperator").
			Find(&bookings).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch bookings"})
			return
		}

		c.JSON(200, bookings)
	}
}

// GetBookingByReference looks a booking up by its human-facing reference.
// Public: the reference itself is the capability, so customers can track a
// booking from an SMS or receipt without logging in.
func GetBookingByReference(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		reference := strings.ToUpper(c.Param("reference"))

		var booking models.Booking
		if err := db.Where("booking_reference = ?", reference).
			Preload("Service").
			Preload("User").
			Preload("AssignedOperator").
			First(&booking).Error; err != nil {
			c.JSON(404, gin.H{"error": "Booking not found"})
			return
		}

		c.JSON(200, booking)
	}
}

// UpdateBookingStatus moves a booking along its lifecycle. Only admins and
// operators reach this handler; illegal edges are rejected.
func UpdateBookingStatus(db *gorm.DB, hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookingId := c.Param("id")

		var input struct {
			Status string `json:"status" binding:"required"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		newStatus := models.BookingStatus(input.Status)
		if !newStatus.Valid() {
			c.JSON(400, gin.H{"error": "Invalid status value"})
			return
		}

		var booking models.Booking
		if err := db.First(&booking, bookingId).Error; err != nil {
			c.JSON(404, gin.H{"error": "Booking not found"})
			return
		}

		if !models.CanTransition(booking.Status, newStatus) {
			c.JSON(400, gin.H{"error": "Invalid status transition"})
			return
		}

		booking.Status = newStatus
		if err := db.Save(&booking).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to update booking status"})
			return
		}

		publishBookingUpdate(c, hub, &booking, nil)

		c.JSON(200, gin.H{
			"message": "Booking status updated",
			"booking": booking,
		})
	}
}

// RateBooking records the owner's rating for a booking
func RateBooking(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookingId := c.Param("id")
		userId := c.GetUint("userId")

		var input struct {
			Score   int    `json:"score" binding:"required"`
			Comment string `json:"comment"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		if input.Score < 1 || input.Score > 5 {
			c.JSON(400, gin.H{"error": "Rating must be between 1 and 5"})
			return
		}

		var booking models.Booking
		if err := db.First(&booking, bookingId).Error; err != nil {
			c.JSON(404, gin.H{"error": "Booking not found"})
			return
		}

		if booking.UserID != userId {
			c.JSON(403, gin.H{"error": "Unauthorized"})
			return
		}

		if booking.Rated() && !allowRerate() {
			c.JSON(409, gin.H{"error": "Booking already rated"})
			return
		}

		now := time.Now()
		booking.Rating = models.Rating{
			Score:   &input.Score,
			Comment: input.Comment,
			RatedAt: &now,
		}

		if err := db.Save(&booking).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to save rating"})
			return
		}

		c.JSON(200, gin.H{
			"message": "Rating submitted successfully",
			"booking": booking,
		})
	}
}

// allowRerate lets deployments opt into overwriting a prior rating
func allowRerate() bool {
	return os.Getenv("ALLOW_RERATE") == "true"
}

func publishBookingUpdate(c *gin.Context, hub *services.Hub, booking *models.Booking, data map[string]interface{}) {
	update := services.BookingUpdate{
		BookingID:  booking.ID,
		Reference:  booking.BookingReference,
		Status:     string(booking.Status),
		UserID:     booking.UserID,
		OperatorID: booking.AssignedOperatorID,
		Data:       data,
	}

	// Redis pub/sub is the delivery path so updates reach every instance;
	// the local hub is only used directly when Redis is not configured.
	if services.RedisClient != nil {
		ctx := c.Request.Context()
		if err := services.PublishBookingUpdate(ctx, update); err != nil {
			log.Printf("Failed to publish booking update: %v", err)
		}
		services.InvalidateAdminStats(ctx)
	} else if hub != nil {
		hub.BroadcastBookingUpdate(update)
	}
}
