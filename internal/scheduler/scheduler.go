// Package scheduler implements the deadline reminder loop: a fixed-interval
// scan of the task store for soon-due, unnotified tasks, each of which gets
// a real-time notification, a best-effort email, and a persisted
// notification flag so it is reminded at most once per deadline.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/smarttasker/api/internal/domain"
	"github.com/smarttasker/api/internal/notify"
	"github.com/smarttasker/api/internal/platform/mail"
	"github.com/smarttasker/api/internal/store"
)

// Config holds scheduler timing parameters.
type Config struct {
	// Interval is the pause between scans.
	Interval time.Duration

	// Lookahead is the reminder window: tasks due within
	// [now, now+Lookahead] are notified.
	Lookahead time.Duration
}

// DefaultConfig returns the standard 60-second scan with a 15-minute window.
func DefaultConfig() Config {
	return Config{
		Interval:  time.Minute,
		Lookahead: 15 * time.Minute,
	}
}

// ReminderScheduler periodically scans for tasks nearing their deadline and
// triggers notification side effects. A single instance is assumed; running
// several would duplicate reminders.
type ReminderScheduler struct {
	tasks    store.TaskStore
	users    store.UserStore
	notifier notify.Notifier
	mailer   mail.ReminderMailer
	config   Config
	now      func() time.Time // Injectable for testing
	logger   *slog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a ReminderScheduler with the given dependencies.
// If logger is nil, a default logger will be used.
func New(
	tasks store.TaskStore,
	users store.UserStore,
	notifier notify.Notifier,
	mailer mail.ReminderMailer,
	cfg Config,
	log *slog.Logger,
) *ReminderScheduler {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}
	if cfg.Lookahead <= 0 {
		cfg.Lookahead = 15 * time.Minute
	}
	if log == nil {
		log = slog.Default()
	}

	return &ReminderScheduler{
		tasks:    tasks,
		users:    users,
		notifier: notifier,
		mailer:   mailer,
		config:   cfg,
		now:      time.Now,
		logger:   log.With(slog.String("component", "reminder_scheduler")),
	}
}

// SetNowFunc overrides the scheduler's clock. Tests use this to control
// the reminder window without depending on wall time.
func (s *ReminderScheduler) SetNowFunc(now func() time.Time) {
	s.now = now
}

// Start launches the scan loop in a background goroutine.
func (s *ReminderScheduler) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.wg.Add(1)
	go s.run(ctx)

	s.logger.Info("reminder scheduler started",
		slog.Duration("interval", s.config.Interval),
		slog.Duration("lookahead", s.config.Lookahead))
}

// Stop cancels the scan loop and waits for an in-flight tick to finish.
func (s *ReminderScheduler) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	s.wg.Wait()
	s.logger.Info("reminder scheduler stopped")
}

// run drives the ticker until the context is cancelled.
func (s *ReminderScheduler) run(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// Tick performs one scan. Exported so tests can drive the scheduler with a
// controlled clock instead of waiting on the ticker.
//
// Each task's handling is isolated: one failure is logged and skipped, the
// rest of the batch proceeds. A tick-level query failure is logged and the
// loop simply tries again next interval.
func (s *ReminderScheduler) Tick(ctx context.Context) {
	now := s.now().UTC()
	windowEnd := now.Add(s.config.Lookahead)

	due, err := s.tasks.FindDueUnnotified(ctx, now, windowEnd)
	if err != nil {
		s.logger.Error("failed to scan for due tasks",
			slog.String("error", err.Error()))
		return
	}

	if len(due) == 0 {
		return
	}

	s.logger.Info("found tasks nearing deadline",
		slog.Int("count", len(due)))

	for _, task := range due {
		s.remind(ctx, task)
	}
}

// remind handles a single due task: publish, email, persist the flag.
// The notification flag is written after the side effects; a crash in
// between can replay the reminder on the next tick, an accepted window.
func (s *ReminderScheduler) remind(ctx context.Context, task *domain.Task) {
	log := s.logger.With(
		slog.String("task_id", task.ID.String()),
		slog.String("user_id", task.UserID.String()))

	log.Info("sending deadline reminder",
		slog.String("title", task.Title))

	s.notifier.Publish(ctx, task.UserID, notify.EventTaskReminder, reminderPayload(task))

	// Email is best-effort: failures are logged by the mailer and dropped.
	owner, err := s.users.GetByID(ctx, task.UserID)
	if err != nil {
		log.Warn("could not load task owner for reminder email",
			slog.String("error", err.Error()))
	} else if owner.Email != "" && task.Deadline != nil {
		if err := s.mailer.SendTaskReminder(ctx, owner.Email, task.Title, *task.Deadline); err != nil {
			log.Warn("reminder email failed",
				slog.String("error", err.Error()))
		}
	}

	if task.Deadline == nil {
		return
	}
	if err := s.tasks.MarkNotified(ctx, task.ID, *task.Deadline); err != nil {
		// Next tick will pick the task up again; accepted duplicate risk.
		log.Error("failed to persist notification flag",
			slog.String("error", err.Error()))
	}
}

// reminderPayload builds the task-reminder event body.
func reminderPayload(task *domain.Task) map[string]any {
	return map[string]any{
		"taskId":   task.ID,
		"title":    task.Title,
		"deadline": task.Deadline,
		"message":  "Reminder: Task \"" + task.Title + "\" is due in less than 15 minutes!",
	}
}
