package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/studyplanner/api/model"
	"github.com/studyplanner/api/utils/auth"
)

// cronLogRetention is how long cron job log rows are kept
const cronLogRetention = 30 * 24 * time.Hour

// CleanupTokenBlacklist removes blacklist rows whose tokens have expired
// anyway. Runs hourly.
func (m *CronManager) CleanupTokenBlacklist() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	jobName := "cleanup_token_blacklist"

	blacklist := auth.NewBlacklistService(m.db)
	if err := blacklist.CleanupExpiredTokens(ctx); err != nil {
		m.logJobError(jobName, fmt.Errorf("failed to cleanup blacklist: %w", err))
		return
	}

	m.logJobComplete(jobName, "Expired blacklist entries removed")
}

// DueTaskDigest counts pending tasks due within the next 24 hours. The count
// is only logged for operational visibility. Runs every 30 minutes.
func (m *CronManager) DueTaskDigest() {
	jobName := "due_task_digest"

	now := time.Now()
	var count int64
	err := m.db.Model(&model.Task{}).
		Where("status = ? AND due_date BETWEEN ? AND ?", model.TaskPending, now, now.Add(24*time.Hour)).
		Count(&count).Error
	if err != nil {
		m.logJobError(jobName, fmt.Errorf("failed to count due tasks: %w", err))
		return
	}

	m.logJobComplete(jobName, fmt.Sprintf("%d pending tasks due within 24h", count))
}

// TrimCronLogs deletes cron job log rows older than the retention window.
// Runs daily.
func (m *CronManager) TrimCronLogs() {
	jobName := "trim_cron_logs"

	cutoff := time.Now().Add(-cronLogRetention)
	result := m.db.Where("created_at < ?", cutoff).Delete(&model.CronJobLog{})
	if result.Error != nil {
		m.logJobError(jobName, fmt.Errorf("failed to trim cron logs: %w", result.Error))
		return
	}

	m.logJobComplete(jobName, fmt.Sprintf("Removed %d log rows older than 30 days", result.RowsAffected))
}
