package command

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"

	"github.com/temihq/go-temi-rest/internal/log"
	"github.com/temihq/go-temi-rest/pkg/robot"
)

// ServerInfo describes the gateway itself, reported on every status read.
type ServerInfo struct {
	Name          string `json:"name"`
	Version       string `json:"version"`
	UptimeSeconds int64  `json:"uptimeSeconds"`
	ActiveDrive   string `json:"activeDrive,omitempty"`
}

// StatusData is the payload returned by Status.
type StatusData struct {
	Position   robot.Position `json:"position"`
	Battery    robot.Battery  `json:"battery"`
	ServerInfo ServerInfo     `json:"serverInfo"`
}

// Dispatcher validates commands and maps them to actuator operations.
// The actuator is injected at construction so tests can substitute a mock.
//
// Turn and Tilt block the caller for the actuator's own (near-immediate)
// call latency. Drive never blocks: it starts a tracked background task
// and returns. Overlapping drives follow a last-wins policy: starting a
// new drive cancels the task currently holding the drive resource.
type Dispatcher struct {
	actuator robot.Actuator
	logger   *slog.Logger

	name    string
	version string
	started time.Time

	registry *taskRegistry
}

// NewDispatcher creates a dispatcher for the given actuator.
func NewDispatcher(actuator robot.Actuator, name, version string) *Dispatcher {
	return &Dispatcher{
		actuator: actuator,
		logger:   log.With("component", "dispatcher"),
		name:     name,
		version:  version,
		started:  time.Now(),
		registry: newTaskRegistry(),
	}
}

// Turn validates and executes an in-place rotation.
func (d *Dispatcher) Turn(cmd TurnCommand) Result {
	if verr := cmd.Validate(); verr != nil {
		return Failure(verr)
	}

	degrees := int(math.Round(cmd.Degrees))
	if err := d.actuator.Turn(degrees, cmd.Speed); err != nil {
		d.logger.Error("turn failed", "degrees", degrees, "err", err)
		return Failure(ActuatorFailure(err))
	}

	d.logger.Info("turn executed", "degrees", degrees, "speed", cmd.Speed)
	return Success("Turn command executed successfully", cmd)
}

// Tilt validates and executes a head tilt.
func (d *Dispatcher) Tilt(cmd TiltCommand) Result {
	if verr := cmd.Validate(); verr != nil {
		return Failure(verr)
	}

	angle := int(math.Round(cmd.Angle))
	if err := d.actuator.Tilt(angle, cmd.Speed); err != nil {
		d.logger.Error("tilt failed", "angle", angle, "err", err)
		return Failure(ActuatorFailure(err))
	}

	d.logger.Info("tilt executed", "angle", angle, "speed", cmd.Speed)
	return Success("Tilt command executed successfully", cmd)
}

// driveStarted echoes a started drive command plus its task handle.
type driveStarted struct {
	SpeedX     float64 `json:"speedX"`
	SpeedY     float64 `json:"speedY"`
	DurationMs int     `json:"durationMs"`
	Smart      bool    `json:"smart"`
	TaskID     string  `json:"taskId"`
}

// Drive validates the command, starts its background motion task and
// returns immediately. The response reports the command as started, not
// completed; the task keeps issuing actuator calls until DurationMs has
// elapsed or the task is superseded or the context is cancelled.
func (d *Dispatcher) Drive(ctx context.Context, cmd DriveCommand) Result {
	if verr := cmd.Validate(); verr != nil {
		return Failure(verr)
	}

	task := d.startDrive(ctx, cmd)
	d.logger.Info("drive started",
		"task", task.id, "speedX", cmd.SpeedX, "speedY", cmd.SpeedY,
		"durationMs", cmd.DurationMs, "smart", cmd.Smart)

	return Success("Drive command started", driveStarted{
		SpeedX:     cmd.SpeedX,
		SpeedY:     cmd.SpeedY,
		DurationMs: cmd.DurationMs,
		Smart:      cmd.Smart,
		TaskID:     task.id,
	})
}

// Status reads position and battery. Battery reads are best-effort: when
// unavailable the response carries level -1 and isCharging false instead
// of failing the whole request.
func (d *Dispatcher) Status() Result {
	pos, err := d.actuator.Position()
	if err != nil {
		d.logger.Error("position read failed", "err", err)
		return Failure(ActuatorFailure(err))
	}

	bat, err := d.actuator.Battery()
	if err != nil {
		if !errors.Is(err, robot.ErrBatteryUnavailable) {
			d.logger.Warn("battery read failed", "err", err)
		}
		bat = robot.Battery{Level: -1, IsCharging: false}
	}

	info := ServerInfo{
		Name:          d.name,
		Version:       d.version,
		UptimeSeconds: int64(time.Since(d.started).Seconds()),
	}
	if t, ok := d.registry.active(resourceDrive); ok {
		info.ActiveDrive = t.id
	}

	return Success("Status retrieved successfully", StatusData{
		Position:   pos,
		Battery:    bat,
		ServerInfo: info,
	})
}

// ActiveDrive reports the in-flight drive task, if any.
func (d *Dispatcher) ActiveDrive() (TaskInfo, bool) {
	t, ok := d.registry.active(resourceDrive)
	if !ok {
		return TaskInfo{}, false
	}
	return TaskInfo{ID: t.id, StartedAt: t.startedAt, DurationMs: t.cmd.DurationMs}, true
}

// Close cancels all in-flight background tasks and waits for them to stop.
// Called on shutdown.
func (d *Dispatcher) Close() {
	d.registry.cancelAll()
}
