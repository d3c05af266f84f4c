package scheduler

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/example/smartreview/internal/database"
)

// Константы для настроек уведомлений по умолчанию
const (
	DefaultNotificationStartHour = 4  // Время начала уведомлений
	DefaultNotificationEndHour   = 18 // Время окончания уведомлений
)

// Scheduler manages scheduled tasks for the application: the daily day-boundary
// sweep that re-arms each section's advancement guard, and the hourly reminder
// check for users with due work.
type Scheduler struct {
	scheduler *gocron.Scheduler
	notifier  Notifier
}

// Notifier interface for sending notifications. Delivery (email, chat, push)
// lives outside this module.
type Notifier interface {
	SendDueReminder(userID string, dueCount int) error
}

// New creates a new scheduler instance
func New(notifier Notifier) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		notifier:  notifier,
	}
}

// Start begins running all scheduled tasks
func (s *Scheduler) Start() {
	// Re-arm the once-per-session advancement guards shortly after midnight.
	// GetTodaysQuestions also does this opportunistically per request; the
	// sweep covers sections nobody opens that day.
	s.scheduler.Every(1).Day().At("00:05").Do(s.resetDayFlags)

	// Schedule hourly check for users who have due questions
	s.scheduler.Every(1).Hour().Do(s.checkAndSendReminders)

	// Start the scheduler in a non-blocking manner
	s.scheduler.StartAsync()
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// resetDayFlags clears alreadyAdvancedThisSession for every section whose last
// session predates today
func (s *Scheduler) resetDayFlags() {
	progressRepo := database.NewProgressRepository()

	now := time.Now().UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	count, err := progressRepo.ResetDayFlagsAll(dayStart, now)
	if err != nil {
		log.Printf("Error resetting day flags: %v", err)
		return
	}
	if count > 0 {
		log.Printf("Reset advancement flags for %d sections", count)
	}
}

// checkAndSendReminders checks for users with due questions and notifies them
func (s *Scheduler) checkAndSendReminders() {
	currentHour := time.Now().Hour()

	// Используем значения по умолчанию
	startHour := DefaultNotificationStartHour
	endHour := DefaultNotificationEndHour

	// Проверяем, задано ли время в переменных окружения
	if startHourStr := os.Getenv("NOTIFICATION_START_HOUR"); startHourStr != "" {
		if h, err := strconv.Atoi(startHourStr); err == nil && h >= 0 && h <= 23 {
			startHour = h
		}
	}

	if endHourStr := os.Getenv("NOTIFICATION_END_HOUR"); endHourStr != "" {
		if h, err := strconv.Atoi(endHourStr); err == nil && h >= 0 && h <= 23 {
			endHour = h
		}
	}

	// Проверяем, находится ли текущий час в диапазоне времени для отправки уведомлений
	if currentHour < startHour || currentHour > endHour {
		log.Printf("Current hour %d is outside notification hours (%d-%d), skipping reminders",
			currentHour, startHour, endHour)
		return
	}

	userRepo := database.NewUserRepository()
	questionRepo := database.NewQuestionRepository()

	users, err := userRepo.GetAll()
	if err != nil {
		log.Printf("Error getting users for notification: %v", err)
		return
	}

	for _, user := range users {
		// Count work that is due against each section's own clock
		dueCount, err := questionRepo.CountDueForUser(user.ID)
		if err != nil {
			log.Printf("Error counting due questions for user %s: %v", user.ID, err)
			continue
		}

		if dueCount > 0 {
			// Send the reminder through the notifier
			if err := s.notifier.SendDueReminder(user.ID, dueCount); err != nil {
				log.Printf("Error sending reminder to user %s: %v", user.ID, err)
			}
		}
	}
}

// RunManualCheck forces a reminder check for a specific user
func (s *Scheduler) RunManualCheck(userID string) error {
	questionRepo := database.NewQuestionRepository()

	dueCount, err := questionRepo.CountDueForUser(userID)
	if err != nil {
		return err
	}

	if dueCount > 0 {
		return s.notifier.SendDueReminder(userID, dueCount)
	}

	return nil
}
