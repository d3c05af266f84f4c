package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/example/smartreview/internal/database"
	"github.com/example/smartreview/internal/scheduler"
)

// logNotifier is the default reminder sink. Real delivery (email, push) is an
// external collaborator plugged in through the scheduler.Notifier interface.
type logNotifier struct{}

func (logNotifier) SendDueReminder(userID string, dueCount int) error {
	log.Printf("User %s has %d questions due for review", userID, dueCount)
	return nil
}

func main() {
	// Загружаем переменные окружения из .env, если он есть
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Создаем канал для сигналов
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Подключаемся к базе данных
	if err := database.Connect(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	// Запускаем фоновые задачи: сброс флагов продвижения и напоминания
	s := scheduler.New(logNotifier{})
	s.Start()
	defer s.Stop()

	log.Println("Smart review maintenance scheduler started. Press Ctrl+C to stop.")

	// Ждем сигнала завершения
	sig := <-sigChan
	log.Printf("Received signal: %v, shutting down", sig)
}
