package notify

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"sync"
	"time"

	appLog "wildtrack/internal/log"
	"wildtrack/internal/model"
)

// Scheduler is the one-shot local notification primitive the planner's
// output is applied against. Implementations must tolerate delivery failure
// (missing desktop environment, denied permission) by logging and moving on;
// a failed job never aborts the rest of a plan.
type Scheduler interface {
	ScheduleOneShot(ctx context.Context, job model.NotificationJob) error
	CancelAll(ctx context.Context) error
}

// DesktopScheduler delivers reminders through the platform notification
// command (notify-send on Linux, osascript on macOS, PowerShell on Windows),
// holding one time.AfterFunc timer per pending job.
type DesktopScheduler struct {
	mu     sync.Mutex
	timers []*time.Timer
}

// NewDesktopScheduler returns a Scheduler backed by OS notification tooling.
func NewDesktopScheduler() *DesktopScheduler {
	return &DesktopScheduler{}
}

// ScheduleOneShot arms a timer that posts the notification at job.FireAt.
// Jobs already due are a caller error (the planner filters them); they are
// refused rather than fired immediately.
func (d *DesktopScheduler) ScheduleOneShot(_ context.Context, job model.NotificationJob) error {
	delay := time.Until(job.FireAt)
	if delay <= 0 {
		return fmt.Errorf("notify: job for %q is already due", job.Source.Name)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	timer := time.AfterFunc(delay, func() {
		deliver(job.Title, job.Body)
	})
	d.timers = append(d.timers, timer)

	appLog.Debug("notify: reminder armed",
		"event", job.Source.Name,
		"fire_at", job.FireAt.Format(time.RFC3339),
	)
	return nil
}

// CancelAll stops every pending timer. Already-fired timers are no-ops.
func (d *DesktopScheduler) CancelAll(_ context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, t := range d.timers {
		t.Stop()
	}
	count := len(d.timers)
	d.timers = nil

	appLog.Debug("notify: cancelled pending reminders", "count", count)
	return nil
}

// deliver posts a desktop notification. Failures are logged, never fatal:
// on a headless host the reminder is simply lost.
func deliver(title, body string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		script := fmt.Sprintf(`display notification %q with title %q`, body, title)
		cmd = exec.Command("osascript", "-e", script)
	case "windows":
		script := fmt.Sprintf(
			`[System.Reflection.Assembly]::LoadWithPartialName('System.Windows.Forms'); [System.Windows.Forms.MessageBox]::Show(%q, %q)`,
			body, title)
		cmd = exec.Command("powershell", "-Command", script)
	default:
		cmd = exec.Command("notify-send", title, body)
	}

	if err := cmd.Run(); err != nil {
		appLog.Error("notify: delivery failed", err, "title", title)
	}
}
