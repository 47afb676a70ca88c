package websocket

import (
	"time"

	"photo-booking-server/models"
)

// NotifyBookingConfirmed pushes a confirmed booking to the photographer's
// dashboard. Best-effort: the email alert is the durable channel.
func NotifyBookingConfirmed(hub *Hub, booking *models.Booking, deliveryDeadline time.Time) {
	if hub == nil {
		return
	}

	hub.SendToUser(booking.PhotographerID, &Message{
		Type:      "booking_confirmed",
		BookingID: booking.ID,
		Data: map[string]interface{}{
			"customer_name":     booking.Customer.FullName,
			"package_title":     booking.Package.Title,
			"event_date":        booking.EventDate.Format("2006-01-02"),
			"venue_name":        booking.VenueName,
			"total_amount":      booking.TotalAmount,
			"delivery_deadline": deliveryDeadline.Format("2006-01-02"),
		},
		Timestamp: time.Now(),
	})
}

// NotifyDeliveryCompleted confirms to the photographer's dashboard that a
// job finished delivering.
func NotifyDeliveryCompleted(hub *Hub, entry *models.JobQueueEntry) {
	if hub == nil {
		return
	}

	hub.SendToUser(entry.Booking.PhotographerID, &Message{
		Type:      "delivery_completed",
		BookingID: entry.BookingID,
		Data: map[string]interface{}{
			"job_id":       entry.ID,
			"delivered_at": entry.DeliveredAt,
		},
		Timestamp: time.Now(),
	})
}
