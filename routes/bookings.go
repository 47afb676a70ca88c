package routes

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"photo-booking-server/models"
	"photo-booking-server/services"
	ws "photo-booking-server/websocket"
)

// RegisterBookingRoutes registers the customer-facing booking lifecycle
// endpoints. The confirm endpoint is the client redirect callback; it races
// the Stripe webhook and relies on ConfirmPayment being idempotent.
func RegisterBookingRoutes(rg *gin.RouterGroup, bookings *services.BookingService, jobs *services.JobService, hub *ws.Hub) {
	rg.POST("", func(c *gin.Context) {
		customerID := c.GetUint("user_id")

		var req models.BookingCreate
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}

		booking, err := bookings.CreateBooking(c.Request.Context(), customerID, &req)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{"success": true, "data": booking})
	})

	rg.GET("/my", func(c *gin.Context) {
		customerID := c.GetUint("user_id")

		list, err := bookings.ListForCustomer(customerID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to load bookings"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": list})
	})

	// Redirect callback after Stripe Checkout. May arrive before or after
	// the webhook; both paths confirm idempotently.
	rg.GET("/confirm", func(c *gin.Context) {
		sessionID := c.Query("session_id")
		if sessionID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "session_id is required"})
			return
		}

		booking, err := bookings.ConfirmPayment(c.Request.Context(), sessionID)
		if err != nil {
			respondError(c, err)
			return
		}

		notifyConfirmed(hub, jobs, booking)
		c.JSON(http.StatusOK, gin.H{"success": true, "data": booking})
	})

	rg.GET("/:id", func(c *gin.Context) {
		userID := c.GetUint("user_id")
		bookingID, ok := parseID(c)
		if !ok {
			return
		}

		booking, err := bookings.GetBooking(c.Request.Context(), bookingID, userID)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": booking})
	})

	rg.POST("/:id/checkout", func(c *gin.Context) {
		customerID := c.GetUint("user_id")
		bookingID, ok := parseID(c)
		if !ok {
			return
		}

		session, err := bookings.StartCheckout(c.Request.Context(), bookingID, customerID)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": session})
	})

	rg.POST("/:id/cancel", func(c *gin.Context) {
		userID := c.GetUint("user_id")
		bookingID, ok := parseID(c)
		if !ok {
			return
		}

		var req models.BookingCancel
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}

		booking, err := bookings.Cancel(c.Request.Context(), bookingID, userID, req.Reason)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": booking})
	})
}

// notifyConfirmed pushes the confirmation to the photographer's dashboard.
// Best-effort: the email alert is the durable channel.
func notifyConfirmed(hub *ws.Hub, jobs *services.JobService, booking *models.Booking) {
	entry, err := jobs.GetByBookingID(booking.ID)
	if err != nil {
		return
	}
	ws.NotifyBookingConfirmed(hub, booking, entry.DeliveryDeadline)
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid id"})
		return 0, false
	}
	return uint(id), true
}
