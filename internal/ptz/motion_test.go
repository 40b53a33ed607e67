package ptz

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jasonsjt/ptz-controller/internal/client"
	"github.com/jasonsjt/ptz-controller/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testLimits = models.MotionLimits{MinPan: -170, MaxPan: 170, MinTilt: -20, MaxTilt: 90}

func TestFetchLimits(t *testing.T) {
	t.Run("requests all four bounds", func(t *testing.T) {
		mc := &MockChannel{}
		defer mc.AssertExpectations(t)

		mc.On("Get", mock.Anything, "/cgi-bin/camctrl/camctrl.cgi?getminpan&getmaxpan&getmintilt&getmaxtilt").
			Return("minpan=-170&maxpan=170&mintilt=-20&maxtilt=90\r\n", nil)

		limits, err := FetchLimits(context.Background(), mc)
		require.NoError(t, err)
		assert.Equal(t, testLimits, limits)
	})

	t.Run("malformed response is a protocol error", func(t *testing.T) {
		mc := &MockChannel{}
		mc.On("Get", mock.Anything, mock.Anything).Return("minpan=-170&maxpan", nil)

		_, err := FetchLimits(context.Background(), mc)

		var perr *ProtocolError
		assert.True(t, errors.As(err, &perr))
	})

	t.Run("minimum above maximum is a protocol error", func(t *testing.T) {
		mc := &MockChannel{}
		mc.On("Get", mock.Anything, mock.Anything).Return("minpan=10&maxpan=-10&mintilt=0&maxtilt=90", nil)

		_, err := FetchLimits(context.Background(), mc)

		var perr *ProtocolError
		assert.True(t, errors.As(err, &perr))
	})

	t.Run("transport errors propagate", func(t *testing.T) {
		mc := &MockChannel{}
		terr := &client.TransportError{Method: "GET", Err: errors.New("connection refused")}
		mc.On("Get", mock.Anything, mock.Anything).Return("", terr)

		_, err := FetchLimits(context.Background(), mc)
		assert.ErrorIs(t, err, terr)
	})
}

func TestMotionController_PositionMove(t *testing.T) {
	t.Run("out of range targets issue no request", func(t *testing.T) {
		targets := []models.Position{
			{Pan: 171, Tilt: 0},
			{Pan: -171, Tilt: 0},
			{Pan: 0, Tilt: 91},
			{Pan: 0, Tilt: -21},
		}

		for _, target := range targets {
			mc := &MockChannel{}
			m := NewMotionController(mc, testLimits, discardLogger())

			_, err := m.PositionMove(context.Background(), target.Pan, target.Tilt, Speed{})

			var verr *ValidationError
			assert.True(t, errors.As(err, &verr), "%+v", target)
			mc.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
		}
	})

	t.Run("bounds are inclusive", func(t *testing.T) {
		sim := newSimulated(t)
		c := sim.connect(t)

		_, err := c.PositionMove(context.Background(), 170, -20, Speed{})
		require.NoError(t, err)
		assert.Equal(t, models.Position{Pan: 170, Tilt: -20}, c.Motion.Position())
	})

	t.Run("scenario: move beyond max pan issues nothing after the bounds fetch", func(t *testing.T) {
		sim := newSimulated(t)

		limits, err := FetchLimits(context.Background(), sim.channel)
		require.NoError(t, err)
		c := New(sim.channel, limits, discardLogger(), WithSleep(sim.sleeps.sleep))

		_, err = c.PositionMove(context.Background(), 200, 0, Speed{})

		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "pan", verr.Field)
		assert.Equal(t, []string{"GET /cgi-bin/camctrl/camctrl.cgi?getminpan&getmaxpan&getmintilt&getmaxtilt"}, sim.calls())
	})

	t.Run("moves, waits for the camera to start, then polls once", func(t *testing.T) {
		sim := newSimulated(t)
		c := sim.connect(t)

		_, err := c.PositionMove(context.Background(), 45, 30, Speed{Pan: 50, Tilt: 60})
		require.NoError(t, err)

		assert.Equal(t, []string{
			"GET /cgi-bin/camctrl/camctrl.cgi?setpan=45&settilt=30&speedx=50&speedy=60&setptmode=nonblock",
			"GET /cgi-bin/camctrl/camctrl.cgi?getpan&gettilt",
		}, sim.calls())
		assert.Equal(t, []time.Duration{100 * time.Millisecond}, sim.sleeps.slept)
		assert.Equal(t, models.Position{Pan: 45, Tilt: 30}, c.Motion.Position())
	})
}

func TestMotionController_VectorMove(t *testing.T) {
	t.Run("sends clamped speeds and re-polls the position", func(t *testing.T) {
		sim := newSimulated(t)
		c := sim.connect(t)

		body, err := c.VectorMove(context.Background(), 500, 100, Zoom{})
		require.NoError(t, err)
		assert.Equal(t, "OK\r\n", body)

		assert.Equal(t, []string{
			"GET /cgi-bin/camctrl/camctrl.cgi?stream=3&channel=0&vx=150&vy=100&vs=10",
			"GET /cgi-bin/camctrl/camctrl.cgi?getpan&gettilt",
		}, sim.calls())
		assert.Equal(t, models.Position{Pan: 15, Tilt: 10}, c.Motion.Position())
	})

	t.Run("symmetric clamp option bounds negative speeds", func(t *testing.T) {
		sim := newSimulated(t)
		c := sim.connect(t, WithSymmetricClamp(true))

		_, err := c.VectorMove(context.Background(), -500, 0, Zoom{})
		require.NoError(t, err)
		assert.Equal(t, "GET /cgi-bin/camctrl/camctrl.cgi?stream=3&channel=0&vx=-150&vy=0&vs=10", sim.calls()[0])
	})

	t.Run("transport failure is returned without polling", func(t *testing.T) {
		mc := &MockChannel{}
		defer mc.AssertExpectations(t)

		terr := &client.TransportError{Method: "GET", Err: errors.New("timeout")}
		mc.On("Get", mock.Anything, "/cgi-bin/camctrl/camctrl.cgi?stream=3&channel=0&vx=1&vy=1&vs=10").Return("", terr).Once()

		m := NewMotionController(mc, testLimits, discardLogger())

		_, err := m.VectorMove(context.Background(), 1, 1, Zoom{})
		assert.ErrorIs(t, err, terr)
	})
}

func TestMotionController_CurrentPosition(t *testing.T) {
	t.Run("every call round trips", func(t *testing.T) {
		sim := newSimulated(t)
		c := sim.connect(t)

		sim.device.SetPosition(models.Position{Pan: -3, Tilt: 7})

		p, err := c.CurrentPosition(context.Background())
		require.NoError(t, err)
		assert.Equal(t, models.Position{Pan: -3, Tilt: 7}, p)

		_, err = c.CurrentPosition(context.Background())
		require.NoError(t, err)
		assert.Len(t, sim.calls(), 2)
	})

	t.Run("non integer value is a protocol error and keeps the cached position", func(t *testing.T) {
		mc := &MockChannel{}
		mc.On("Get", mock.Anything, mock.Anything).Return("pan=1&tilt=x", nil)

		m := NewMotionController(mc, testLimits, discardLogger())

		p, err := m.CurrentPosition(context.Background())

		var perr *ProtocolError
		assert.True(t, errors.As(err, &perr))
		assert.Equal(t, models.Position{}, p)
	})
}
