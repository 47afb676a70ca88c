package jobs

import (
	"context"
	"log"
	"time"

	"gorm.io/gorm"

	"photo-booking-server/models"
	"photo-booking-server/services"
)

// EmailRetryJob drains the durable email queue. Entries exist only for
// messages that failed synchronous dispatch; the job resends them,
// deleting on success and parking permanently failed entries after the
// attempt budget runs out. Delivery stays at-least-once: a crash between
// send and delete produces a duplicate, never a loss.
type EmailRetryJob struct {
	db          *gorm.DB
	mailer      services.EmailGateway
	interval    time.Duration
	maxAttempts int
	stopChan    chan bool
}

// NewEmailRetryJob creates a new email retry job
func NewEmailRetryJob(db *gorm.DB, mailer services.EmailGateway, interval time.Duration, maxAttempts int) *EmailRetryJob {
	return &EmailRetryJob{
		db:          db,
		mailer:      mailer,
		interval:    interval,
		maxAttempts: maxAttempts,
		stopChan:    make(chan bool),
	}
}

// Start begins the email retry job
func (j *EmailRetryJob) Start() {
	go j.run()
	log.Println("🚀 Email retry job started")
}

// Stop stops the email retry job
func (j *EmailRetryJob) Stop() {
	j.stopChan <- true
	log.Println("🛑 Email retry job stopped")
}

func (j *EmailRetryJob) run() {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			j.DrainQueue(context.Background())
		case <-j.stopChan:
			return
		}
	}
}

// DrainQueue attempts every pending entry once.
func (j *EmailRetryJob) DrainQueue(ctx context.Context) {
	var entries []models.EmailQueueEntry
	err := j.db.Where("status = ?", models.EmailStatusPending).
		Order("created_at ASC").
		Limit(100).
		Find(&entries).Error
	if err != nil {
		log.Printf("❌ Error loading email queue: %v", err)
		return
	}

	if len(entries) == 0 {
		return
	}
	log.Printf("📬 Retrying %d queued emails", len(entries))

	for i := range entries {
		j.retryEntry(ctx, &entries[i])
	}
}

func (j *EmailRetryJob) retryEntry(ctx context.Context, entry *models.EmailQueueEntry) {
	sendCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	err := j.mailer.Send(sendCtx, entry.RecipientEmail, entry.Subject, entry.HTMLBody, entry.TextBody)
	if err == nil {
		if delErr := j.db.Delete(entry).Error; delErr != nil {
			log.Printf("⚠️ Sent queued email %d but failed to delete it: %v", entry.ID, delErr)
		}
		return
	}

	entry.Attempts++
	errText := err.Error()
	entry.LastError = &errText
	if entry.Attempts >= j.maxAttempts {
		entry.Status = models.EmailStatusFailed
		log.Printf("❌ Email %d to %s failed permanently after %d attempts", entry.ID, entry.RecipientEmail, entry.Attempts)
	}

	if saveErr := j.db.Save(entry).Error; saveErr != nil {
		log.Printf("❌ Failed to update email queue entry %d: %v", entry.ID, saveErr)
	}
}
