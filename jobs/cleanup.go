package jobs

import (
	"fmt"
	"time"

	"moneyticket-demo/logger"
	"moneyticket-demo/services/session"
)

// CleanupJob periodically deactivates expired demo sessions. Expiry is
// otherwise handled lazily by query filters; the job just keeps the table
// tidy.
type CleanupJob struct {
	sessions *session.Service
	interval time.Duration
	stop     chan struct{}
}

// NewCleanupJob creates a cleanup job with the configured interval.
func NewCleanupJob(sessions *session.Service, interval time.Duration) *CleanupJob {
	return &CleanupJob{
		sessions: sessions,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

// Start begins the cleanup loop in its own goroutine.
func (j *CleanupJob) Start() {
	logger.Info("Starting demo session cleanup job...")
	go j.run()
}

// Stop halts the cleanup loop.
func (j *CleanupJob) Stop() {
	close(j.stop)
}

func (j *CleanupJob) run() {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			affected, err := j.sessions.Cleanup()
			if err != nil {
				logger.Error("Demo session cleanup failed", err)
				continue
			}
			if affected > 0 {
				logger.Info(fmt.Sprintf("Deactivated %d expired demo sessions", affected))
			}
		case <-j.stop:
			logger.Info("Demo session cleanup job stopped")
			return
		}
	}
}
