package ptz

import (
	"context"
	"fmt"
	"time"

	"github.com/jasonsjt/ptz-controller/pkg/models"
	"github.com/shimmeringbee/logwrap"
)

// settleDelay gives the camera time to start moving before the position is re-read.
const settleDelay = 100 * time.Millisecond

// FetchLimits reads the pan/tilt bounds from the camera.
func FetchLimits(ctx context.Context, ch Channel) (models.MotionLimits, error) {
	path := getParamsRequest("minpan", "maxpan", "mintilt", "maxtilt").String()

	body, err := ch.Get(ctx, path)
	if err != nil {
		return models.MotionLimits{}, fmt.Errorf("failed to fetch motion limits: %w", err)
	}

	v, err := intParams("motion limits", body, "minpan", "maxpan", "mintilt", "maxtilt")
	if err != nil {
		return models.MotionLimits{}, err
	}

	limits := models.MotionLimits{
		MinPan:  v["minpan"],
		MaxPan:  v["maxpan"],
		MinTilt: v["mintilt"],
		MaxTilt: v["maxtilt"],
	}

	if limits.MinPan > limits.MaxPan || limits.MinTilt > limits.MaxTilt {
		return models.MotionLimits{}, &ProtocolError{Op: "motion limits", Body: body, Err: fmt.Errorf("minimum above maximum")}
	}

	return limits, nil
}

// MotionController issues pan/tilt/zoom commands and remembers the last polled position.
type MotionController struct {
	channel Channel
	logger  logwrap.Logger
	limits  models.MotionLimits
	sleep   SleepFunc

	// SymmetricClamp also clamps vector speeds below -MaxVectorSpeed.
	SymmetricClamp bool

	position models.Position
}

func NewMotionController(ch Channel, limits models.MotionLimits, l logwrap.Logger) *MotionController {
	return &MotionController{
		channel: ch,
		logger:  l,
		limits:  limits,
		sleep:   Sleep,
	}
}

func (m *MotionController) Limits() models.MotionLimits {
	return m.limits
}

// Position returns the last polled position without contacting the camera.
func (m *MotionController) Position() models.Position {
	return m.position
}

// CurrentPosition reads pan and tilt from the camera and updates the cached position.
func (m *MotionController) CurrentPosition(ctx context.Context) (models.Position, error) {
	path := getParamsRequest("pan", "tilt").String()

	body, err := m.channel.Get(ctx, path)
	if err != nil {
		return m.position, fmt.Errorf("failed to read position: %w", err)
	}

	v, err := intParams("position", body, "pan", "tilt")
	if err != nil {
		return m.position, err
	}

	m.position = models.Position{Pan: v["pan"], Tilt: v["tilt"]}
	m.logger.LogDebug(ctx, "Polled position.", logwrap.Datum("pan", m.position.Pan), logwrap.Datum("tilt", m.position.Tilt))

	return m.position, nil
}

// VectorMove drives the camera at speed (vx, vy), optionally zooming, then re-reads the
// position. The raw camera response is returned.
func (m *MotionController) VectorMove(ctx context.Context, vx, vy int, zoom Zoom) (string, error) {
	path := vectorMoveRequest(vx, vy, zoom, m.SymmetricClamp).String()
	m.logger.LogDebug(ctx, "Vector move.", logwrap.Datum("url", path))

	body, err := m.channel.Get(ctx, path)
	if err != nil {
		return body, fmt.Errorf("failed to vector move: %w", err)
	}

	if _, err := m.CurrentPosition(ctx); err != nil {
		return body, err
	}

	return body, nil
}

// PositionMove starts a non-blocking move to (px, py). It returns once the camera has
// accepted the command and the position was polled once; it does not wait for arrival.
func (m *MotionController) PositionMove(ctx context.Context, px, py int, speed Speed) (string, error) {
	if !m.limits.PanInRange(px) {
		err := &ValidationError{Field: "pan", Value: px, Min: m.limits.MinPan, Max: m.limits.MaxPan}
		m.logger.LogWarn(ctx, "Rejected position move.", logwrap.Err(err))
		return "", err
	}

	if !m.limits.TiltInRange(py) {
		err := &ValidationError{Field: "tilt", Value: py, Min: m.limits.MinTilt, Max: m.limits.MaxTilt}
		m.logger.LogWarn(ctx, "Rejected position move.", logwrap.Err(err))
		return "", err
	}

	path := positionMoveRequest(px, py, speed).String()
	m.logger.LogDebug(ctx, "Position move.", logwrap.Datum("url", path))

	body, err := m.channel.Get(ctx, path)
	if err != nil {
		return body, fmt.Errorf("failed to position move: %w", err)
	}

	if err := m.sleep(ctx, settleDelay); err != nil {
		return body, err
	}

	if _, err := m.CurrentPosition(ctx); err != nil {
		return body, err
	}

	return body, nil
}

// MoveHome sends the camera to its firmware home position.
func (m *MotionController) MoveHome(ctx context.Context) error {
	path := homeRequest().String()
	m.logger.LogInfo(ctx, "Move to home position.", logwrap.Datum("url", path))

	if _, err := m.channel.Get(ctx, path); err != nil {
		return fmt.Errorf("failed to move home: %w", err)
	}
	return nil
}

// Recall sends the camera to the named preset.
func (m *MotionController) Recall(ctx context.Context, name string) error {
	path := recallRequest(name).String()
	m.logger.LogInfo(ctx, "Move to preset point by name.", logwrap.Datum("preset", name), logwrap.Datum("url", path))

	if _, err := m.channel.Get(ctx, path); err != nil {
		return fmt.Errorf("failed to recall preset '%s': %w", name, err)
	}
	return nil
}
