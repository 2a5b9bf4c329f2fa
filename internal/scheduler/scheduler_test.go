package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smarttasker/api/internal/domain"
	"github.com/smarttasker/api/internal/store"
)

// fakeTaskStore is an in-memory task store covering the scheduler's reads
// and writes; the CRUD methods are unused here.
type fakeTaskStore struct {
	mu          sync.Mutex
	tasks       map[uuid.UUID]*domain.Task
	findErr     error
	markErrFor  map[uuid.UUID]error
	markedOrder []uuid.UUID
	beforeMark  func()
}

func newFakeTaskStore() *fakeTaskStore {
	return &fakeTaskStore{
		tasks:      make(map[uuid.UUID]*domain.Task),
		markErrFor: make(map[uuid.UUID]error),
	}
}

func (f *fakeTaskStore) add(task *domain.Task) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks[task.ID] = task
}

func (f *fakeTaskStore) Create(ctx context.Context, task *domain.Task) error {
	f.add(task)
	return nil
}

func (f *fakeTaskStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeTaskStore) GetForUser(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error) {
	return nil, store.ErrTaskNotFound
}

func (f *fakeTaskStore) UpdateForUser(ctx context.Context, task *domain.Task) error {
	return errors.New("not implemented")
}

func (f *fakeTaskStore) DeleteForUser(ctx context.Context, userID, taskID uuid.UUID) error {
	return errors.New("not implemented")
}

func (f *fakeTaskStore) FindDueUnnotified(ctx context.Context, from, to time.Time) ([]*domain.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}

	var due []*domain.Task
	for _, t := range f.tasks {
		if t.Status != domain.TaskStatusPending || t.NotificationSent || t.Deadline == nil {
			continue
		}
		if t.Deadline.After(from) && !t.Deadline.After(to) {
			due = append(due, t)
		}
	}
	return due, nil
}

func (f *fakeTaskStore) MarkNotified(ctx context.Context, taskID uuid.UUID, deadline time.Time) error {
	if f.beforeMark != nil {
		f.beforeMark()
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.markErrFor[taskID]; err != nil {
		return err
	}
	task, ok := f.tasks[taskID]
	if !ok || task.Deadline == nil || !task.Deadline.Equal(deadline) {
		// Deleted or re-armed since the scan; the flag stays untouched.
		return nil
	}
	task.NotificationSent = true
	f.markedOrder = append(f.markedOrder, taskID)
	return nil
}

var _ store.TaskStore = (*fakeTaskStore)(nil)

type fakeUserStore struct {
	users map[uuid.UUID]*domain.User
}

func (f *fakeUserStore) Create(ctx context.Context, user *domain.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, store.ErrUserNotFound
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, store.ErrUserNotFound
}

var _ store.UserStore = (*fakeUserStore)(nil)

// publishedEvent records one Notifier.Publish call.
type publishedEvent struct {
	userID uuid.UUID
	event  string
	data   any
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (f *fakeNotifier) Publish(ctx context.Context, userID uuid.UUID, event string, data any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, publishedEvent{userID: userID, event: event, data: data})
}

func (f *fakeNotifier) published() []publishedEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]publishedEvent, len(f.events))
	copy(out, f.events)
	return out
}

type sentMail struct {
	to    string
	title string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	fail bool
}

func (f *fakeMailer) SendTaskReminder(ctx context.Context, to, taskTitle string, deadline time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("smtp down")
	}
	f.sent = append(f.sent, sentMail{to: to, title: taskTitle})
	return nil
}

// fixture wires a scheduler against the fakes with a frozen clock.
type fixture struct {
	tasks     *fakeTaskStore
	users     *fakeUserStore
	notifier  *fakeNotifier
	mailer    *fakeMailer
	scheduler *ReminderScheduler
	now       time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		tasks:    newFakeTaskStore(),
		users:    &fakeUserStore{users: make(map[uuid.UUID]*domain.User)},
		notifier: &fakeNotifier{},
		mailer:   &fakeMailer{},
		now:      time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
	}
	f.scheduler = New(f.tasks, f.users, f.notifier, f.mailer, Config{
		Interval:  time.Minute,
		Lookahead: 15 * time.Minute,
	}, nil)
	f.scheduler.SetNowFunc(func() time.Time { return f.now })
	return f
}

func (f *fixture) addUser(t *testing.T) *domain.User {
	t.Helper()
	user := &domain.User{
		ID:             uuid.New(),
		Email:          "ada@example.com",
		HashedPassword: "hash",
	}
	f.users.users[user.ID] = user
	return user
}

func (f *fixture) addTask(t *testing.T, userID uuid.UUID, deadline time.Time) *domain.Task {
	t.Helper()
	task, err := domain.NewTask(userID, "Submit report", "", &deadline)
	require.NoError(t, err)
	f.tasks.add(task)
	return task
}

func TestTickRemindsDueTasks(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	user := f.addUser(t)
	task := f.addTask(t, user.ID, f.now.Add(10*time.Minute))

	f.scheduler.Tick(context.Background())

	events := f.notifier.published()
	require.Len(t, events, 1)
	assert.Equal(t, user.ID, events[0].userID)
	assert.Equal(t, "task-reminder", events[0].event)

	payload, ok := events[0].data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, task.ID, payload["taskId"])
	assert.Equal(t, "Submit report", payload["title"])
	assert.Equal(t, `Reminder: Task "Submit report" is due in less than 15 minutes!`, payload["message"])

	require.Len(t, f.mailer.sent, 1)
	assert.Equal(t, "ada@example.com", f.mailer.sent[0].to)
	assert.Equal(t, "Submit report", f.mailer.sent[0].title)

	assert.True(t, task.NotificationSent)
	assert.Equal(t, []uuid.UUID{task.ID}, f.tasks.markedOrder)
}

func TestTickFiresAtMostOnce(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	user := f.addUser(t)
	f.addTask(t, user.ID, f.now.Add(10*time.Minute))

	f.scheduler.Tick(context.Background())
	require.Len(t, f.notifier.published(), 1)

	// Next tick, one minute later: the flag keeps the task silent.
	f.now = f.now.Add(time.Minute)
	f.scheduler.Tick(context.Background())
	assert.Len(t, f.notifier.published(), 1)
	assert.Len(t, f.mailer.sent, 1)
}

func TestTickWindowBoundaries(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	user := f.addUser(t)

	// Already past due, exactly now: excluded (window is exclusive at the
	// start, overdue tasks are not reminded).
	f.addTask(t, user.ID, f.now)
	// Inside the window.
	inside := f.addTask(t, user.ID, f.now.Add(14*time.Minute))
	// Exactly at the window end: included.
	edge := f.addTask(t, user.ID, f.now.Add(15*time.Minute))
	// Beyond the window.
	f.addTask(t, user.ID, f.now.Add(16*time.Minute))

	f.scheduler.Tick(context.Background())

	events := f.notifier.published()
	require.Len(t, events, 2)

	notified := map[uuid.UUID]bool{}
	for _, e := range events {
		payload := e.data.(map[string]any)
		notified[payload["taskId"].(uuid.UUID)] = true
	}
	assert.True(t, notified[inside.ID])
	assert.True(t, notified[edge.ID])
}

func TestTickSkipsCompletedAndNoDeadline(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	user := f.addUser(t)

	done := f.addTask(t, user.ID, f.now.Add(5*time.Minute))
	done.Status = domain.TaskStatusCompleted

	noDeadline, err := domain.NewTask(user.ID, "Someday", "", nil)
	require.NoError(t, err)
	f.tasks.add(noDeadline)

	f.scheduler.Tick(context.Background())

	assert.Empty(t, f.notifier.published())
}

func TestDeadlineEditRearmsReminder(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	user := f.addUser(t)
	task := f.addTask(t, user.ID, f.now.Add(10*time.Minute))

	f.scheduler.Tick(context.Background())
	require.Len(t, f.notifier.published(), 1)
	require.True(t, task.NotificationSent)

	// Moving the deadline re-arms the reminder.
	newDeadline := f.now.Add(25 * time.Minute)
	task.SetDeadline(&newDeadline)
	require.False(t, task.NotificationSent)

	// Not yet in the window.
	f.scheduler.Tick(context.Background())
	assert.Len(t, f.notifier.published(), 1)

	// Advance until the new deadline is within the lookahead.
	f.now = f.now.Add(11 * time.Minute)
	f.scheduler.Tick(context.Background())
	assert.Len(t, f.notifier.published(), 2)
}

// A deadline edit that lands between the scan and the flag write must keep
// its re-armed reminder: the guarded write is skipped and the task fires
// again for the new deadline.
func TestDeadlineEditDuringTickStaysArmed(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	user := f.addUser(t)
	task := f.addTask(t, user.ID, f.now.Add(10*time.Minute))

	newDeadline := f.now.Add(25 * time.Minute)
	f.tasks.beforeMark = func() {
		task.SetDeadline(&newDeadline)
	}

	f.scheduler.Tick(context.Background())

	// The reminder for the old deadline went out, but the edit wins the
	// flag: it stays false for the new window.
	require.Len(t, f.notifier.published(), 1)
	assert.False(t, task.NotificationSent)
	assert.Empty(t, f.tasks.markedOrder)

	// Once the new deadline enters the lookahead, the reminder fires again.
	f.tasks.beforeMark = nil
	f.now = f.now.Add(11 * time.Minute)
	f.scheduler.Tick(context.Background())
	assert.Len(t, f.notifier.published(), 2)
	assert.True(t, task.NotificationSent)
}

func TestTickIsolatesPerTaskFailures(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	user := f.addUser(t)
	failing := f.addTask(t, user.ID, f.now.Add(5*time.Minute))
	healthy := f.addTask(t, user.ID, f.now.Add(6*time.Minute))

	f.tasks.markErrFor[failing.ID] = errors.New("write failed")

	f.scheduler.Tick(context.Background())

	// Both reminders were still published.
	assert.Len(t, f.notifier.published(), 2)
	assert.True(t, healthy.NotificationSent)
	assert.False(t, failing.NotificationSent)
}

func TestTickEmailIsBestEffort(t *testing.T) {
	t.Parallel()

	t.Run("mailer failure does not block the flag", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		user := f.addUser(t)
		task := f.addTask(t, user.ID, f.now.Add(5*time.Minute))
		f.mailer.fail = true

		f.scheduler.Tick(context.Background())

		assert.Len(t, f.notifier.published(), 1)
		assert.True(t, task.NotificationSent)
	})

	t.Run("unknown owner still gets the websocket event", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		orphanOwner := uuid.New() // Not present in the user store.
		task := f.addTask(t, orphanOwner, f.now.Add(5*time.Minute))

		f.scheduler.Tick(context.Background())

		assert.Len(t, f.notifier.published(), 1)
		assert.Empty(t, f.mailer.sent)
		assert.True(t, task.NotificationSent)
	})
}

func TestTickScanFailure(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	user := f.addUser(t)
	f.addTask(t, user.ID, f.now.Add(5*time.Minute))
	f.tasks.findErr = errors.New("db gone")

	// Must not panic; nothing is sent.
	f.scheduler.Tick(context.Background())
	assert.Empty(t, f.notifier.published())
}

func TestStartStop(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.scheduler.Start()
	f.scheduler.Stop()

	// Stop without Start is a no-op.
	idle := New(f.tasks, f.users, f.notifier, f.mailer, DefaultConfig(), nil)
	idle.Stop()
}
