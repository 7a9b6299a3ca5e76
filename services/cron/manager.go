package cron

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/studyplanner/api/model"
	"gorm.io/gorm"
)

// CronManager manages all scheduled cron jobs
type CronManager struct {
	cron *cron.Cron
	db   *gorm.DB
}

// NewCronManager creates a new cron manager
func NewCronManager(db *gorm.DB) *CronManager {
	// Create cron with seconds precision
	c := cron.New(cron.WithSeconds())

	return &CronManager{
		cron: c,
		db:   db,
	}
}

// Start starts all cron jobs
func (m *CronManager) Start() error {
	log.Println("Starting cron jobs...")

	if err := m.registerJobs(); err != nil {
		return err
	}

	m.cron.Start()

	log.Println("Cron jobs started successfully")
	return nil
}

// Stop stops all cron jobs
func (m *CronManager) Stop() {
	log.Println("Stopping cron jobs...")
	ctx := m.cron.Stop()
	<-ctx.Done()
	log.Println("Cron jobs stopped")
}

// registerJobs registers all cron jobs with their schedules
func (m *CronManager) registerJobs() error {
	// 1. Every hour: purge expired blacklisted tokens
	_, err := m.cron.AddFunc("0 0 * * * *", func() {
		m.logJobStart("cleanup_token_blacklist")
		m.CleanupTokenBlacklist()
	})
	if err != nil {
		return err
	}

	// 2. Every 30 minutes: due-soon task digest
	_, err = m.cron.AddFunc("0 */30 * * * *", func() {
		m.logJobStart("due_task_digest")
		m.DueTaskDigest()
	})
	if err != nil {
		return err
	}

	// 3. Daily at 03:00: trim old cron job logs
	_, err = m.cron.AddFunc("0 0 3 * * *", func() {
		m.logJobStart("trim_cron_logs")
		m.TrimCronLogs()
	})
	if err != nil {
		return err
	}

	return nil
}

func (m *CronManager) logJobStart(jobName string) {
	entry := model.CronJobLog{
		JobName:   jobName,
		Status:    "started",
		StartedAt: time.Now(),
	}
	if err := m.db.Create(&entry).Error; err != nil {
		log.Printf("[CRON] Failed to log start of %s: %v", jobName, err)
	}
}

func (m *CronManager) logJobComplete(jobName, message string) {
	now := time.Now()
	entry := model.CronJobLog{
		JobName:     jobName,
		Status:      "completed",
		StartedAt:   now,
		CompletedAt: &now,
		Message:     message,
	}
	if err := m.db.Create(&entry).Error; err != nil {
		log.Printf("[CRON] Failed to log completion of %s: %v", jobName, err)
	}
	log.Printf("[CRON] %s: %s", jobName, message)
}

func (m *CronManager) logJobError(jobName string, jobErr error) {
	now := time.Now()
	entry := model.CronJobLog{
		JobName:     jobName,
		Status:      "failed",
		StartedAt:   now,
		CompletedAt: &now,
		ErrorMsg:    jobErr.Error(),
	}
	if err := m.db.Create(&entry).Error; err != nil {
		log.Printf("[CRON] Failed to log error of %s: %v", jobName, err)
	}
	log.Printf("[CRON] %s failed: %v", jobName, jobErr)
}
