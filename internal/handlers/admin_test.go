package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestAssignOperatorForcesAssignedStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db, mock := setupTestDB(t)

	mock.ExpectQuery(`SELECT \* FROM "bookings"`).
		WillReturnRows(bookingRows(5, "VBA123456", 7, "pending"))
	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "first_name", "last_name", "phone", "role"}).
			AddRow(3, "Ravi", "Kumar", "9811122233", "operator"))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "bookings"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	r := gin.New()
	r.PATCH("/admin/bookings/:id/assign", asUser(1, "admin"), AssignOperator(db, nil))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PATCH", "/admin/bookings/5/assign", bytes.NewBufferString(`{"operatorId":3}`))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"assigned"`)
	assert.Contains(t, w.Body.String(), `"assignedOperatorId":3`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignOperatorRejectsTerminalBooking(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db, mock := setupTestDB(t)

	mock.ExpectQuery(`SELECT \* FROM "bookings"`).
		WillReturnRows(bookingRows(5, "VBA123456", 7, "cancelled"))

	r := gin.New()
	r.PATCH("/admin/bookings/:id/assign", asUser(1, "admin"), AssignOperator(db, nil))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PATCH", "/admin/bookings/5/assign", bytes.NewBufferString(`{"operatorId":3}`))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAssignOperatorUnknownOperator(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db, mock := setupTestDB(t)

	mock.ExpectQuery(`SELECT \* FROM "bookings"`).
		WillReturnRows(bookingRows(5, "VBA123456", 7, "pending"))
	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	r := gin.New()
	r.PATCH("/admin/bookings/:id/assign", asUser(1, "admin"), AssignOperator(db, nil))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PATCH", "/admin/bookings/5/assign", bytes.NewBufferString(`{"operatorId":99}`))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetAllBookingsAppliesAllFilters(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db, mock := setupTestDB(t)

	mock.ExpectQuery(`SELECT .* FROM "bookings" JOIN services`).
		WithArgs("completed", "4-wheeler", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	r := gin.New()
	r.GET("/admin/bookings", asUser(1, "admin"), GetAllBookings(db))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/admin/bookings?status=completed&vehicleType=4-wheeler&startDate=2024-01-01&endDate=2024-01-31", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAllBookingsRejectsBadDate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db, _ := setupTestDB(t)

	r := gin.New()
	r.GET("/admin/bookings", asUser(1, "admin"), GetAllBookings(db))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/admin/bookings?startDate=January", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetStats(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db, mock := setupTestDB(t)
	mock.MatchExpectationsInOrder(false)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "users"`).
		WithArgs("customer").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "bookings"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(30))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "services"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "bookings" WHERE status`).
		WithArgs("completed").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(9))
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(cost_total_amount\), 0\) FROM "bookings"`).
		WithArgs("completed").
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(15250.0))

	r := gin.New()
	r.GET("/admin/stats", asUser(1, "admin"), GetStats(db))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/admin/stats", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"totalBookings":30`)
	assert.Contains(t, w.Body.String(), `"completedBookings":9`)
	assert.Contains(t, w.Body.String(), `"totalRevenue":15250`)
}

func TestGetRevenueAnalyticsOnlyCountsCompleted(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db, mock := setupTestDB(t)
	mock.MatchExpectationsInOrder(false)

	mock.ExpectQuery(`SUM\(bookings\.cost_total_amount\).* JOIN services`).
		WithArgs("completed").
		WillReturnRows(sqlmock.NewRows([]string{"service_id", "name", "vehicle_type", "total_revenue", "count"}).
			AddRow(2, "Towing", "4-wheeler", 9800.0, 7))
	mock.ExpectQuery(`date_trunc\('month', bookings\.created_at\)`).
		WithArgs("completed").
		WillReturnRows(sqlmock.NewRows([]string{"period", "total_revenue", "count"}).
			AddRow(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 9800.0, 7))

	r := gin.New()
	r.GET("/admin/analytics/revenue", asUser(1, "admin"), GetRevenueAnalytics(db))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/admin/analytics/revenue?period=monthly", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"totalRevenue":9800`)
	assert.Contains(t, w.Body.String(), `"vehicleType":"4-wheeler"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetRevenueAnalyticsBadPeriod(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db, _ := setupTestDB(t)

	r := gin.New()
	r.GET("/admin/analytics/revenue", asUser(1, "admin"), GetRevenueAnalytics(db))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/admin/analytics/revenue?period=hourly", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestToggleUserStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db, mock := setupTestDB(t)

	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "first_name", "last_name", "role", "is_active"}).
			AddRow(9, "Asha", "Rao", "customer", true))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "users"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	r := gin.New()
	r.PATCH("/admin/users/:id/toggle", asUser(1, "admin"), ToggleUserStatus(db))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PATCH", "/admin/users/9/toggle", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"isActive":false`)
}
