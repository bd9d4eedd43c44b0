package jobs

import (
	"fmt"
	"log"
	"time"

	"github.com/localhive/local_hive/database"
	"github.com/localhive/local_hive/models"
	"github.com/localhive/local_hive/notifications"
)

// SendSessionReminders emails both parties of confirmed bookings whose
// session starts in roughly an hour. The window matches the 5-minute cron
// cadence so each booking is picked up exactly once.
func SendSessionReminders() {
	log.Println("Running job: SendSessionReminders...")

	now := time.Now()
	lowerBound := now.Add(60 * time.Minute)
	upperBound := now.Add(65 * time.Minute)

	var upcomingBookings []models.BookingRequest
	err := database.DB.
		Where("status = ? AND session_date_time BETWEEN ? AND ?", models.BookingStatusConfirmed, lowerBound, upperBound).
		Find(&upcomingBookings).Error
	if err != nil {
		log.Printf("Error checking for upcoming sessions: %v", err)
		return
	}
	if len(upcomingBookings) == 0 {
		return
	}

	for _, booking := range upcomingBookings {
		var learner, teacher models.User
		if err := database.DB.First(&learner, "id = ?", booking.LearnerID).Error; err == nil {
			notifications.SendEmail(
				learner.FullName,
				learner.Email,
				"Your session starts in an hour",
				fmt.Sprintf("<h1>Session Reminder</h1><p>\"%s\" at %s starts at %s.</p>",
					booking.SessionTitle, booking.SessionLocation, booking.SessionDateTime.Format("15:04")),
			)
		}
		if err := database.DB.First(&teacher, "id = ?", booking.TeacherID).Error; err == nil {
			notifications.SendEmail(
				teacher.FullName,
				teacher.Email,
				"Your session starts in an hour",
				fmt.Sprintf("<h1>Session Reminder</h1><p>You are hosting \"%s\" at %s, starting at %s. %s is confirmed to attend.</p>",
					booking.SessionTitle, booking.SessionLocation, booking.SessionDateTime.Format("15:04"), booking.LearnerName),
			)
		}
	}

	log.Printf("Sent reminders for %d booking(s).", len(upcomingBookings))
}
