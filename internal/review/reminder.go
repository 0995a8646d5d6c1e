// Package review scans document columns with a passed review deadline
// and mails each owning team a weekly digest.
package review

import (
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"go_mes/internal/model"
	"go_mes/internal/notify"
)

// Config holds the reminder worker configuration
type Config struct {
	Enabled      bool
	IntervalHour int
	DesignTeam   []string
	CITeam       []string
}

// Worker is the periodic review-reminder scanner
type Worker struct {
	db     *gorm.DB
	mailer notify.Enqueuer
	config Config
	logger *logrus.Entry
	stopCh chan struct{}
}

// NewWorker creates a reminder worker
func NewWorker(db *gorm.DB, mailer notify.Enqueuer, config Config, logger *logrus.Entry) *Worker {
	return &Worker{
		db:     db,
		mailer: mailer,
		config: config,
		logger: logger.WithField("component", "review-reminder"),
		stopCh: make(chan struct{}),
	}
}

// Start launches the periodic scan. Runs once immediately, then on the
// configured interval.
func (w *Worker) Start() {
	if !w.config.Enabled {
		w.logger.Info("Disabled, not starting")
		return
	}

	w.logger.Infof("Starting with interval %d hours", w.config.IntervalHour)

	go func() {
		if err := w.Scan(); err != nil {
			w.logger.Warnf("Initial scan failed: %v", err)
		}

		ticker := time.NewTicker(time.Duration(w.config.IntervalHour) * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := w.Scan(); err != nil {
					w.logger.Warnf("Scan failed: %v", err)
				}
			case <-w.stopCh:
				w.logger.Info("Stopped")
				return
			}
		}
	}()
}

// Stop stops the worker
func (w *Worker) Stop() {
	close(w.stopCh)
}

// Scan finds overdue non-deleted columns, partitions them per team and
// enqueues one digest per non-empty partition.
func (w *Worker) Scan() error {
	var columns []model.DocumentColumn
	err := w.db.
		Where("is_deleted = ? AND review_deadline IS NOT NULL AND review_deadline < ?", false, time.Now()).
		Order("review_deadline").
		Find(&columns).Error
	if err != nil {
		return fmt.Errorf("failed to load overdue columns: %w", err)
	}

	design, ci := Partition(columns)
	w.logger.Infof("Scan found %d overdue column(s): %d design, %d ci", len(columns), len(design), len(ci))

	if len(design) > 0 {
		w.mailer.Enqueue(notify.Message{
			To:       w.config.DesignTeam,
			Subject:  fmt.Sprintf("[MES] %d document column(s) awaiting design review", len(design)),
			HTMLBody: digestBody("Design review overdue", design),
		})
	}
	if len(ci) > 0 {
		w.mailer.Enqueue(notify.Message{
			To:       w.config.CITeam,
			Subject:  fmt.Sprintf("[MES] %d document column(s) awaiting CI review", len(ci)),
			HTMLBody: digestBody("CI review overdue", ci),
		})
	}
	return nil
}

// Partition splits overdue columns into design-team and CI-team
// concerns. A column needs design review while its warpage measurement
// is missing and design has not signed off; it needs CI review while CI
// has not signed off. A column can appear in both partitions.
func Partition(columns []model.DocumentColumn) (design, ci []model.DocumentColumn) {
	for _, c := range columns {
		if c.Warpage == nil && !c.DesignReviewed {
			design = append(design, c)
		}
		if !c.CIReviewed {
			ci = append(ci, c)
		}
	}
	return design, ci
}

func digestBody(title string, columns []model.DocumentColumn) string {
	var rows strings.Builder
	for _, c := range columns {
		deadline := ""
		if c.ReviewDeadline != nil {
			deadline = c.ReviewDeadline.Format("2006-01-02")
		}
		rows.WriteString(fmt.Sprintf(
			"<tr><td>%s</td><td>%s</td><td>%s</td></tr>", c.DocCode, c.PartName, deadline))
	}
	return fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
			<h2 style="color: #2c3e50;">%s</h2>
			<table border="1" cellpadding="6" cellspacing="0" style="border-collapse: collapse;">
				<tr><th>Document</th><th>Part</th><th>Deadline</th></tr>
				%s
			</table>
		</div>`, title, rows.String())
}
