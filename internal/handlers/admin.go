package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/np-nandanpatil/vehicle-breakdown-assistance/internal/models"
	"github.com/np-nandanpatil/vehicle-breakdown-assistance/internal/services"
)

// GetStats serves the admin dashboard counters and total revenue.
// The payload only changes on booking/user mutations, so it is cached in
// Redis for a minute.
func GetStats(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		if services.RedisClient != nil {
			if cached, err := services.GetCachedAdminStats(ctx); err == nil {
				c.JSON(200, cached)
				return
			}
		}

		var totalUsers, totalBookings, totalServices, completedBookings int64
		db.Model(&models.User{}).Where("role = ?", models.RoleCustomer).Count(&totalUsers)
		db.Model(&models.Booking{}).Count(&totalBookings)
		db.Model(&models.Service{}).Count(&totalServices)
		db.Model(&models.Booking{}).Where("status = ?", models.BookingStatusCompleted).Count(&completedBookings)

		var totalRevenue float64
		if err := db.Model(&models.Booking{}).
			Where("status = ?", models.BookingStatusCompleted).
			Select("COALESCE(SUM(cost_total_amount), 0)").
			Scan(&totalRevenue).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to compute revenue"})
			return
		}

		stats := map[string]interface{}{
			"totalUsers":        totalUsers,
			"totalBookings":     totalBookings,
			"totalServices":     totalServices,
			"completedBookings": completedBookings,
			"totalRevenue":      totalRevenue,
		}

		if services.RedisClient != nil {
			services.CacheAdminStats(ctx, stats)
		}

		c.JSON(200, stats)
	}
}

// GetAllBookings lists bookings for the admin console with optional
// status, vehicle-type and creation-date filters, newest first.
func GetAllBookings(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Model(&models.Booking{}).
			Preload("User").
			Preload("Service").
			Preload("AssignedOperator").
			Order("bookings.created_at DESC")

		if status := c.Query("status"); status != "" {
			query = query.Where("bookings.status = ?", status)
		}

		if vehicleType := c.Query("vehicleType"); vehicleType != "" {
			query = query.Joins("JOIN services ON services.id = bookings.service_id").
				Where("services.vehicle_type = ?", vehicleType)
		}

		if startDate := c.Query("startDate"); startDate != "" {
			start, err := time.Parse("2006-01-02", startDate)
			if err != nil {
				c.JSON(400, gin.H{"error": "Invalid startDate, expected YYYY-MM-DD"})
				return
			}
			query = query.Where("bookings.created_at >= ?", start)
		}

		if endDate := c.Query("endDate"); endDate != "" {
			end, err := time.Parse("2006-01-02", endDate)
			if err != nil {
				c.JSON(400, gin.H{"error": "Invalid endDate, expected YYYY-MM-DD"})
				return
			}
			// Inclusive of the whole end day
			query = query.Where("bookings.created_at < ?", end.AddDate(0, 0, 1))
		}

		var bookings []models.Booking
		if err := query.Find(&bookings).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch bookings"})
			return
		}

		c.JSON(200, bookings)
	}
}

// AssignOperator attaches an operator to a booking and moves it to
// assigned. Terminal bookings cannot be assigned.
func AssignOperator(db *gorm.DB, hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookingId := c.Param("id")

		var input struct {
			OperatorID uint `json:"operatorId" binding:"required"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var booking models.Booking
		if err := db.First(&booking, bookingId).Error; err != nil {
			c.JSON(404, gin.H{"error": "Booking not found"})
			return
		}

		if booking.Status.IsTerminal() {
			c.JSON(400, gin.H{"error": "Cannot assign operator to a completed or cancelled booking"})
			return
		}

		var operator models.User
		if err := db.Where("id = ? AND role = ?", input.OperatorID, models.RoleOperator).
			First(&operator).Error; err != nil {
			c.JSON(404, gin.H{"error": "Operator not found"})
			return
		}

		booking.AssignedOperatorID = &operator.ID
		booking.Status = models.BookingStatusAssigned
		if err := db.Save(&booking).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to assign operator"})
			return
		}
		booking.AssignedOperator = &operator

		publishBookingUpdate(c, hub, &booking, map[string]interface{}{
			"operatorName":  operator.FirstName + " " + operator.LastName,
			"operatorPhone": operator.Phone,
		})

		c.JSON(200, gin.H{
			"message": "Operator assigned",
			"booking": booking,
		})
	}
}

// GetUsers lists users for the admin console, optionally filtered by role
func GetUsers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Model(&models.User{})
		if role := c.Query("role"); role != "" {
			query = query.Where("role = ?", role)
		}

		var users []models.User
		if err := query.Find(&users).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch users"})
			return
		}

		c.JSON(200, users)
	}
}

// ToggleUserStatus flips a user's active flag
func ToggleUserStatus(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.Param("id")

		var user models.User
		if err := db.First(&user, userId).Error; err != nil {
			c.JSON(404, gin.H{"error": "User not found"})
			return
		}

		user.IsActive = !user.IsActive
		if err := db.Save(&user).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to update user status"})
			return
		}

		c.JSON(200, gin.H{"message": "User status updated", "user": user})
	}
}

type serviceRevenueRow struct {
	ServiceID    uint    `json:"serviceId"`
	Name         string  `json:"name"`
	VehicleType  string  `json:"vehicleType"`
	TotalRevenue float64 `json:"totalRevenue"`
	Count        int64   `json:"count"`
}

type periodRevenueRow struct {
	Period       time.Time `json:"period"`
	TotalRevenue float64   `json:"totalRevenue"`
	Count        int64     `json:"count"`
}

// GetRevenueAnalytics aggregates revenue of completed bookings, grouped by
// service and by the requested period granularity.
func GetRevenueAnalytics(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		period := c.DefaultQuery("period", "monthly")

		granularity, ok := map[string]string{
			"daily":   "day",
			"weekly":  "week",
			"monthly": "month",
		}[period]
		if !ok {
			c.JSON(400, gin.H{"error": "period must be daily, weekly or monthly"})
			return
		}

		var byService []serviceRevenueRow
		if err := db.Model(&models.Booking{}).
			Select("bookings.service_id, services.name, services.vehicle_type, COALESCE(SUM(bookings.cost_total_amount), 0) AS total_revenue, COUNT(*) AS count").
			Joins("JOIN services ON services.id = bookings.service_id").
			Where("bookings.status = ?", models.BookingStatusCompleted).
			Group("bookings.service_id, services.name, services.vehicle_type").
			Scan(&byService).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to aggregate revenue"})
			return
		}

		var byPeriod []periodRevenueRow
		if err := db.Model(&models.Booking{}).
			Select("date_trunc('"+granularity+"', bookings.created_at) AS period, COALESCE(SUM(bookings.cost_total_amount), 0) AS total_revenue, COUNT(*) AS count").
			Where("bookings.status = ?", models.BookingStatusCompleted).
			Group("period").
			Order("period").
			Scan(&byPeriod).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to aggregate revenue"})
			return
		}

		c.JSON(200, gin.H{
			"period":           period,
			"revenueByService": byService,
			"revenueByPeriod":  byPeriod,
		})
	}
}
