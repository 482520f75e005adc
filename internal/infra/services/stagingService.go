package services

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"emotional-analysis/internal/infra/logger"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// RetentionWindow is how long a staged payload may linger before the sweep
// removes it. Attempts finish in seconds, so nothing mid-use is ever this old.
const RetentionWindow = 24 * time.Hour

// StagingService writes inbound audio payloads to a spool directory for the
// duration of one classification attempt. Every staged file is removed by the
// coordinator when its attempt finishes; the hourly sweep is a safety net for
// files orphaned by a crash.
type StagingService struct {
	Logger *logger.Logger
	Dir    string
	cron   *cron.Cron
}

func NewStagingService(logger *logger.Logger, dir string) (*StagingService, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create audio dir %s: %w", dir, err)
	}
	return &StagingService{Logger: logger, Dir: dir}, nil
}

// Stage writes the payload to a uniquely named file and returns its path.
// The name embeds the caller id and arrival time; the uuid suffix keeps two
// payloads from the same caller in the same millisecond from colliding.
func (s *StagingService) Stage(payload []byte, callerID int64) (string, error) {
	if len(payload) == 0 {
		return "", fmt.Errorf("empty audio payload")
	}

	name := fmt.Sprintf("call_%d_%d_%s.wav", callerID, time.Now().UnixMilli(), uuid.NewString()[:8])
	path := filepath.Join(s.Dir, name)

	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return "", fmt.Errorf("stage audio payload: %w", err)
	}
	return path, nil
}

// Release deletes a staged file. Releasing a handle twice, or a handle the
// sweep already removed, is a no-op.
func (s *StagingService) Release(handle string) {
	if handle == "" {
		return
	}
	if err := os.Remove(handle); err != nil && !os.IsNotExist(err) {
		s.Logger.Error("failed to release staged audio", logrus.Fields{
			"path":  handle,
			"error": err.Error(),
		})
	}
}

// Sweep removes staged files whose last-modified time is older than the
// retention window and returns how many were removed. Files younger than the
// window are left alone, which by construction excludes anything still open
// in an active attempt.
func (s *StagingService) Sweep() (int, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return 0, fmt.Errorf("read audio dir: %w", err)
	}

	cutoff := time.Now().Add(-RetentionWindow)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(s.Dir, entry.Name())
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			s.Logger.Error("failed to sweep staged audio", logrus.Fields{
				"path":  path,
				"error": err.Error(),
			})
			continue
		}
		removed++
	}
	return removed, nil
}

// StartSweeper schedules the retention sweep on its own hourly timer.
func (s *StagingService) StartSweeper() {
	s.cron = cron.New()
	s.cron.AddFunc("@hourly", func() {
		removed, err := s.Sweep()
		if err != nil {
			s.Logger.Error("retention sweep failed", logrus.Fields{"error": err.Error()})
			return
		}
		if removed > 0 {
			s.Logger.Info("retention sweep removed stale audio", logrus.Fields{"removed": removed})
		}
	})
	s.cron.Start()
}

// StopSweeper stops the sweep timer. Safe to call when the sweeper never started.
func (s *StagingService) StopSweeper() {
	if s.cron != nil {
		s.cron.Stop()
	}
}
