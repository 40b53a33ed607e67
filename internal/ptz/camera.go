package ptz

import (
	"context"
	"sync"
	"time"

	"github.com/jasonsjt/ptz-controller/pkg/models"
	"github.com/shimmeringbee/logwrap"
)

// Camera bundles the motion controller, preset directory and tracking supervisor of one
// camera. Every method holds a single lock for its whole duration, so interleaved
// callers cannot desynchronize the cached position or preset directory. That includes
// Track, which keeps the lock for as long as it supervises.
type Camera struct {
	mu sync.Mutex

	Motion   *MotionController
	Presets  *PresetDirectory
	Tracking *TrackingSupervisor
}

type Option func(*Camera)

// WithSleep replaces the sleep used for the settle delay and supervision waits.
func WithSleep(sleep SleepFunc) Option {
	return func(c *Camera) {
		c.Motion.sleep = sleep
		c.Tracking.sleep = sleep
	}
}

// WithSymmetricClamp also clamps negative vector speeds at -MaxVectorSpeed.
func WithSymmetricClamp(symmetric bool) Option {
	return func(c *Camera) {
		c.Motion.SymmetricClamp = symmetric
	}
}

// Connect reads the motion limits and the current position, then assembles a Camera.
func Connect(ctx context.Context, ch Channel, l logwrap.Logger, opts ...Option) (*Camera, error) {
	limits, err := FetchLimits(ctx, ch)
	if err != nil {
		return nil, err
	}

	l.LogInfo(ctx, "Fetched motion limits.", logwrap.Datum("minPan", limits.MinPan), logwrap.Datum("maxPan", limits.MaxPan),
		logwrap.Datum("minTilt", limits.MinTilt), logwrap.Datum("maxTilt", limits.MaxTilt))

	c := New(ch, limits, l, opts...)

	if _, err := c.Motion.CurrentPosition(ctx); err != nil {
		return nil, err
	}

	return c, nil
}

// New assembles a Camera from already known limits without contacting the camera.
func New(ch Channel, limits models.MotionLimits, l logwrap.Logger, opts ...Option) *Camera {
	motion := NewMotionController(ch, limits, l)
	presets := NewPresetDirectory(ch, l)

	c := &Camera{
		Motion:   motion,
		Presets:  presets,
		Tracking: NewTrackingSupervisor(ch, motion, presets, l),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *Camera) Limits() models.MotionLimits {
	return c.Motion.Limits()
}

func (c *Camera) CurrentPosition(ctx context.Context) (models.Position, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Motion.CurrentPosition(ctx)
}

func (c *Camera) VectorMove(ctx context.Context, vx, vy int, zoom Zoom) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Motion.VectorMove(ctx, vx, vy, zoom)
}

func (c *Camera) PositionMove(ctx context.Context, px, py int, speed Speed) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Motion.PositionMove(ctx, px, py, speed)
}

func (c *Camera) PresetNames(ctx context.Context) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Presets.GetPresetNames(ctx)
}

func (c *Camera) MoveToHome(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Tracking.MoveToHome(ctx)
}

func (c *Camera) MoveToPreset(ctx context.Context, name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Tracking.MoveToPreset(ctx, name)
}

func (c *Camera) MoveToPresetIndex(ctx context.Context, index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Tracking.MoveToPresetIndex(ctx, index)
}

func (c *Camera) ArmTracking(ctx context.Context, start StartPosition) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Tracking.ArmTracking(ctx, start)
}

func (c *Camera) Track(ctx context.Context, start StartPosition, pollInterval time.Duration) (models.TrackingStatus, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Tracking.Track(ctx, start, pollInterval)
}

func (c *Camera) StopTracking(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Tracking.StopTracking(ctx)
}

func (c *Camera) TrackingStatus(ctx context.Context) (models.TrackingStatus, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Tracking.TrackingStatus(ctx)
}

func (c *Camera) MoveToHomeAndStop(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Tracking.MoveToHomeAndStop(ctx)
}

func (c *Camera) MoveToHomeAndTrack(ctx context.Context, pollInterval time.Duration) (models.TrackingStatus, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Tracking.MoveToHomeAndTrack(ctx, pollInterval)
}
