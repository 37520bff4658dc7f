package command

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DriveTick is the cadence at which the actuator's drive call is re-issued
// during a drive task. One skid call only moves the robot briefly, so the
// loop must keep feeding it until the motion window closes.
const DriveTick = 50 * time.Millisecond

// resourceDrive keys the drive actuator resource in the task registry.
// Only one task may hold a resource at a time.
const resourceDrive = "drive"

// TaskInfo is a read-only snapshot of a background task.
type TaskInfo struct {
	ID         string
	StartedAt  time.Time
	DurationMs int
}

// driveTask is one background drive execution. It owns its loop and timer
// and shares nothing with the request path beyond the validated command.
type driveTask struct {
	id        string
	cmd       DriveCommand
	startedAt time.Time
	cancel    context.CancelFunc
	done      chan struct{}
}

// taskRegistry tracks the task holding each actuator resource, so a new
// command can supersede the previous one instead of silently overlapping.
type taskRegistry struct {
	mu    sync.Mutex
	tasks map[string]*driveTask
}

func newTaskRegistry() *taskRegistry {
	return &taskRegistry{tasks: make(map[string]*driveTask)}
}

// replace installs task as the holder of resource, cancelling and waiting
// out any previous holder. Last wins.
func (r *taskRegistry) replace(resource string, task *driveTask) {
	r.mu.Lock()
	prev := r.tasks[resource]
	r.tasks[resource] = task
	r.mu.Unlock()

	if prev != nil {
		prev.cancel()
		<-prev.done
	}
}

// release removes task from the registry if it still holds resource.
// A superseded task must not evict its replacement.
func (r *taskRegistry) release(resource string, task *driveTask) {
	r.mu.Lock()
	if r.tasks[resource] == task {
		delete(r.tasks, resource)
	}
	r.mu.Unlock()
}

// active returns the task currently holding resource.
func (r *taskRegistry) active(resource string) (*driveTask, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[resource]
	return t, ok
}

// cancelAll stops every registered task and waits for their loops to exit.
func (r *taskRegistry) cancelAll() {
	r.mu.Lock()
	tasks := make([]*driveTask, 0, len(r.tasks))
	for _, t := range r.tasks {
		tasks = append(tasks, t)
	}
	r.mu.Unlock()

	for _, t := range tasks {
		t.cancel()
		<-t.done
	}
}

// startDrive registers and launches the background task for cmd.
// The task context is detached from the HTTP request: the loop must outlive
// the response and stop only on duration expiry, supersession or Close.
func (d *Dispatcher) startDrive(ctx context.Context, cmd DriveCommand) *driveTask {
	taskCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	task := &driveTask{
		id:        uuid.NewString(),
		cmd:       cmd,
		startedAt: time.Now(),
		cancel:    cancel,
		done:      make(chan struct{}),
	}

	d.registry.replace(resourceDrive, task)
	go d.runDrive(taskCtx, task)
	return task
}

// runDrive executes the drive loop: issue one actuator call immediately,
// then one per tick until the duration elapses or the context is cancelled.
// Actuator failures are logged but never surfaced; the HTTP response has
// already returned.
func (d *Dispatcher) runDrive(ctx context.Context, task *driveTask) {
	defer func() {
		d.registry.release(resourceDrive, task)
		close(task.done)
	}()

	duration := time.Duration(task.cmd.DurationMs) * time.Millisecond
	deadline := time.NewTimer(duration)
	defer deadline.Stop()

	ticker := time.NewTicker(DriveTick)
	defer ticker.Stop()

	var calls, errCount uint64
	issue := func() {
		calls++
		if err := d.actuator.Drive(task.cmd.SpeedX, task.cmd.SpeedY, task.cmd.Smart); err != nil {
			errCount++
			// Log the first failure, then sample to avoid spam at 20Hz
			if errCount == 1 || errCount%20 == 0 {
				d.logger.Warn("drive call failed", "task", task.id, "errors", errCount, "err", err)
			}
		}
	}

	issue()

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("drive superseded or cancelled", "task", task.id, "calls", calls)
			return
		case <-deadline.C:
			d.logger.Info("drive completed", "task", task.id, "calls", calls, "errors", errCount)
			return
		case <-ticker.C:
			issue()
		}
	}
}
