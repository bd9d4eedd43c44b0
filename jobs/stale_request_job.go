package jobs

import (
	"fmt"
	"log"
	"time"

	"github.com/localhive/local_hive/database"
	"github.com/localhive/local_hive/models"
	"github.com/localhive/local_hive/notifications"
)

// NotifyStalePendingRequests nudges teachers who have left a booking request
// pending for more than a day. NudgedAt keeps it to one nudge per request.
func NotifyStalePendingRequests() {
	log.Println("Running job: NotifyStalePendingRequests...")

	cutoff := time.Now().Add(-24 * time.Hour)

	var staleRequests []models.BookingRequest
	err := database.DB.
		Where("status = ? AND requested_at < ? AND nudged_at IS NULL", models.BookingStatusPending, cutoff).
		Find(&staleRequests).Error
	if err != nil {
		log.Printf("Error checking for stale booking requests: %v", err)
		return
	}
	if len(staleRequests) == 0 {
		return
	}

	for i := range staleRequests {
		request := &staleRequests[i]

		var teacher models.User
		if err := database.DB.First(&teacher, "id = ?", request.TeacherID).Error; err != nil {
			continue
		}

		notifications.SendEmail(
			teacher.FullName,
			teacher.Email,
			"A booking request is waiting for you",
			fmt.Sprintf("<h1>Pending Request</h1><p>%s asked to join \"%s\" over a day ago and is still waiting for your response.</p>",
				request.LearnerName, request.SessionTitle),
		)

		now := time.Now()
		request.NudgedAt = &now
		database.DB.Model(request).Update("nudged_at", now)
	}

	log.Printf("Nudged teachers for %d stale request(s).", len(staleRequests))
}
