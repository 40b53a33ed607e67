package ptz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jasonsjt/ptz-controller/internal/client"
	"github.com/jasonsjt/ptz-controller/pkg/models"
	"github.com/shimmeringbee/logwrap"
	"github.com/tidwall/gjson"
)

// GracePeriod is how long the camera is given to start tracking before the first poll.
const GracePeriod = 3 * time.Second

// StartPosition is where the camera is sent before tracking is armed.
type StartPosition struct {
	Home        bool
	PresetIndex int
}

func FromHome() StartPosition {
	return StartPosition{Home: true}
}

func FromPreset(index int) StartPosition {
	return StartPosition{PresetIndex: index}
}

func (s StartPosition) String() string {
	if s.Home {
		return "home"
	}
	return fmt.Sprintf("preset %d", s.PresetIndex)
}

// TrackingSupervisor arms the camera's smart tracking and watches its status. The
// tracking states are owned by the camera; the supervisor only observes them.
type TrackingSupervisor struct {
	channel Channel
	motion  *MotionController
	presets *PresetDirectory
	logger  logwrap.Logger
	sleep   SleepFunc
}

func NewTrackingSupervisor(ch Channel, motion *MotionController, presets *PresetDirectory, l logwrap.Logger) *TrackingSupervisor {
	return &TrackingSupervisor{
		channel: ch,
		motion:  motion,
		presets: presets,
		logger:  l,
		sleep:   Sleep,
	}
}

// MoveToHome sends the camera to the firmware home position, which is unrelated to the
// VCA tracking home.
func (s *TrackingSupervisor) MoveToHome(ctx context.Context) error {
	return s.motion.MoveHome(ctx)
}

func (s *TrackingSupervisor) MoveToPreset(ctx context.Context, name string) error {
	return s.motion.Recall(ctx, name)
}

func (s *TrackingSupervisor) MoveToPresetIndex(ctx context.Context, index int) error {
	name, err := s.presets.ResolveIndex(ctx, index)
	if err != nil {
		return err
	}
	return s.motion.Recall(ctx, name)
}

// ArmTracking moves to start and installs a fresh full screen detection rule with the
// start position as tracking home, then enables smart tracking.
//
// Steps after the move run even if the camera reports a failure for an earlier one;
// those failures are returned together at the end. A connection or authentication
// failure stops the sequence. Nothing is rolled back.
func (s *TrackingSupervisor) ArmTracking(ctx context.Context, start StartPosition) error {
	s.logger.LogInfo(ctx, "Arming smart tracking.", logwrap.Datum("start", start.String()))

	var err error
	if start.Home {
		err = s.MoveToHome(ctx)
	} else {
		err = s.MoveToPresetIndex(ctx, start.PresetIndex)
	}

	var reported []error
	if err != nil {
		if !client.IsDeviceReported(err) {
			return err
		}
		reported = append(reported, err)
	}

	rule, err := json.Marshal(models.FullScreenRule())
	if err != nil {
		return fmt.Errorf("failed to encode detection rule: %w", err)
	}

	steps := []struct {
		name string
		call func() (string, error)
	}{
		{"delete detection rule", func() (string, error) { return s.channel.Delete(ctx, vcaDetectionPath) }},
		{"set tracking home", func() (string, error) { return s.channel.Put(ctx, vcaHomeViewPath) }},
		{"set detection rule", func() (string, error) { return s.channel.Post(ctx, vcaDetectionPath, string(rule)) }},
		{"start smart tracking", func() (string, error) { return s.channel.Get(ctx, autoRequest("objtrack").String()) }},
		{"reload vca configuration", func() (string, error) { return s.channel.Get(ctx, vcaReloadPath) }},
	}

	for i, step := range steps {
		s.logger.LogDebug(ctx, "Arming step.", logwrap.Datum("step", step.name))

		_, err := step.call()
		if err == nil {
			continue
		}

		// Nothing to delete is fine.
		if i == 0 && client.StatusCode(err) == http.StatusNotFound {
			continue
		}

		if !client.IsDeviceReported(err) {
			return fmt.Errorf("failed to %s: %w", step.name, err)
		}

		s.logger.LogWarn(ctx, "Camera reported failure, continuing.", logwrap.Datum("step", step.name), logwrap.Err(err))
		reported = append(reported, fmt.Errorf("failed to %s: %w", step.name, err))
	}

	return errors.Join(reported...)
}

// SuperviseTracking waits GracePeriod, then polls the tracking status every pollInterval
// for as long as the camera reports Tracking. The first other status is returned. ctx is
// checked before every sleep and every poll.
func (s *TrackingSupervisor) SuperviseTracking(ctx context.Context, pollInterval time.Duration) (models.TrackingStatus, error) {
	if err := s.sleep(ctx, GracePeriod); err != nil {
		return "", err
	}

	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		tracking, status, err := s.isTracking(ctx)
		if err != nil {
			return "", err
		}

		if !tracking {
			return status, nil
		}

		if err := ctx.Err(); err != nil {
			return status, err
		}

		if err := s.sleep(ctx, pollInterval); err != nil {
			return status, err
		}
	}
}

// Track arms tracking from start and, when pollInterval is positive, supervises it until
// the subject is lost. With a non-positive pollInterval it returns once armed.
func (s *TrackingSupervisor) Track(ctx context.Context, start StartPosition, pollInterval time.Duration) (models.TrackingStatus, error) {
	if err := s.ArmTracking(ctx, start); err != nil {
		return "", err
	}

	if pollInterval <= 0 {
		return "", nil
	}

	return s.SuperviseTracking(ctx, pollInterval)
}

// StopTracking disables smart tracking whatever its current state.
func (s *TrackingSupervisor) StopTracking(ctx context.Context) error {
	path := autoRequest("stop").String()
	s.logger.LogInfo(ctx, "Stop tracking.", logwrap.Datum("url", path))

	if _, err := s.channel.Get(ctx, path); err != nil {
		return fmt.Errorf("failed to stop tracking: %w", err)
	}
	return nil
}

// TrackingStatus polls the camera's current smart tracking status.
func (s *TrackingSupervisor) TrackingStatus(ctx context.Context) (models.TrackingStatus, error) {
	body, err := s.channel.Get(ctx, vcaStatusPath)
	if err != nil {
		return "", fmt.Errorf("failed to check tracking status: %w", err)
	}

	if !gjson.Valid(body) {
		return "", &ProtocolError{Op: "tracking status", Body: body, Err: errors.New("invalid json")}
	}

	result := gjson.Get(body, "PTZInfo.Status")
	if !result.Exists() {
		return "", &ProtocolError{Op: "tracking status", Body: body, Err: errors.New("missing PTZInfo.Status")}
	}

	status, err := models.ParseTrackingStatus(result.String())
	if err != nil {
		return "", &ProtocolError{Op: "tracking status", Body: body, Err: err}
	}

	s.logger.LogDebug(ctx, "Current tracking status.", logwrap.Datum("status", string(status)))
	return status, nil
}

// IsTracking reports whether the camera is following a subject right now.
func (s *TrackingSupervisor) IsTracking(ctx context.Context) (bool, error) {
	tracking, _, err := s.isTracking(ctx)
	return tracking, err
}

func (s *TrackingSupervisor) isTracking(ctx context.Context) (bool, models.TrackingStatus, error) {
	status, err := s.TrackingStatus(ctx)
	if err != nil {
		return false, "", err
	}

	if status == models.Tracking {
		s.logger.LogInfo(ctx, "The camera is now tracking someone.")
		return true, status, nil
	}

	s.logger.LogInfo(ctx, "The camera is not tracking anyone.", logwrap.Datum("status", string(status)))
	return false, status, nil
}

// MoveToHomeAndStop sends the camera home and stops tracking. A home command the camera
// refused does not prevent the stop.
func (s *TrackingSupervisor) MoveToHomeAndStop(ctx context.Context) error {
	homeErr := s.MoveToHome(ctx)
	if homeErr != nil && !client.IsDeviceReported(homeErr) {
		return homeErr
	}
	if homeErr != nil {
		s.logger.LogWarn(ctx, "Camera refused to move home, stopping tracking anyway.", logwrap.Err(homeErr))
	}
	return errors.Join(homeErr, s.StopTracking(ctx))
}

func (s *TrackingSupervisor) MoveToHomeAndTrack(ctx context.Context, pollInterval time.Duration) (models.TrackingStatus, error) {
	return s.Track(ctx, FromHome(), pollInterval)
}
