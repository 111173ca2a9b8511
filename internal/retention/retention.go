// Package retention removes conversations that have gone quiet past a
// configured age. Disabled unless switched on in config.
package retention

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/zulandar/switchboard/internal/config"
	"github.com/zulandar/switchboard/internal/models"
	"gorm.io/gorm"
)

// Sweep deletes every conversation whose newest message is older than
// cutoff, along with its messages. Returns the number of conversations
// removed. Messages and conversations go in one transaction so a partial
// sweep never leaves orphaned messages.
func Sweep(db *gorm.DB, cutoff time.Time) (int64, error) {
	var removed int64
	err := db.Transaction(func(tx *gorm.DB) error {
		active := tx.Model(&models.Message{}).
			Select("conversation_id").
			Where("timestamp >= ?", cutoff)

		var stale []uint
		if err := tx.Model(&models.Conversation{}).
			Where("id NOT IN (?)", active).
			Pluck("id", &stale).Error; err != nil {
			return fmt.Errorf("retention: find stale conversations: %w", err)
		}
		if len(stale) == 0 {
			return nil
		}

		if err := tx.Where("conversation_id IN ?", stale).
			Delete(&models.Message{}).Error; err != nil {
			return fmt.Errorf("retention: delete messages: %w", err)
		}
		result := tx.Where("id IN ?", stale).Delete(&models.Conversation{})
		if result.Error != nil {
			return fmt.Errorf("retention: delete conversations: %w", result.Error)
		}
		removed = result.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

// StartScheduler runs Sweep on the configured cron schedule. The caller
// owns the returned cron and must Stop it on shutdown.
func StartScheduler(db *gorm.DB, cfg config.RetentionConfig, log *logrus.Logger) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(cfg.Schedule, func() {
		cutoff := time.Now().AddDate(0, 0, -cfg.Days)
		removed, err := Sweep(db, cutoff)
		if err != nil {
			log.WithError(err).Error("retention sweep failed")
			return
		}
		if removed > 0 {
			log.WithFields(logrus.Fields{
				"removed": removed,
				"cutoff":  cutoff.Format(time.RFC3339),
			}).Info("retention sweep removed conversations")
		}
	})
	if err != nil {
		return nil, fmt.Errorf("retention: schedule %q: %w", cfg.Schedule, err)
	}
	c.Start()
	return c, nil
}
