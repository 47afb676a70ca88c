package routes

import (
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/webhook"

	"photo-booking-server/services"
	"photo-booking-server/types"
	ws "photo-booking-server/websocket"
)

const maxWebhookBodyBytes = int64(65536)

// RegisterWebhookRoutes registers the Stripe webhook endpoint. The webhook
// races the client redirect callback; ConfirmPayment tolerates both firing.
func RegisterWebhookRoutes(rg *gin.RouterGroup, bookings *services.BookingService, jobs *services.JobService, hub *ws.Hub, webhookSecret string) {
	rg.POST("/stripe", func(c *gin.Context) {
		payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBodyBytes))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Failed to read payload"})
			return
		}

		event, err := webhook.ConstructEvent(payload, c.GetHeader("Stripe-Signature"), webhookSecret)
		if err != nil {
			log.Printf("🚫 Webhook signature verification failed: %v", err)
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid signature"})
			return
		}

		if event.Type != stripe.EventTypeCheckoutSessionCompleted {
			c.JSON(http.StatusOK, gin.H{"success": true, "ignored": string(event.Type)})
			return
		}

		var sessionID string
		if obj, ok := event.Data.Object["id"].(string); ok {
			sessionID = obj
		}
		if sessionID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Event carries no session id"})
			return
		}

		booking, err := bookings.ConfirmPayment(c.Request.Context(), sessionID)
		if err != nil {
			// A 5xx asks Stripe to redeliver; only transient failures
			// deserve that.
			if types.IsTransient(err) {
				c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": err.Error()})
				return
			}
			log.Printf("🚫 Webhook confirm rejected for session %s: %v", sessionID, err)
			c.JSON(http.StatusOK, gin.H{"success": false, "error": err.Error()})
			return
		}

		notifyConfirmed(hub, jobs, booking)
		c.JSON(http.StatusOK, gin.H{"success": true, "booking_id": booking.ID})
	})
}
