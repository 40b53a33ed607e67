package ptz

import (
	"context"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/jasonsjt/ptz-controller/internal/client"
	"github.com/jasonsjt/ptz-controller/internal/simulator"
	"github.com/shimmeringbee/logwrap"
	"github.com/shimmeringbee/logwrap/impl/discard"
	"github.com/stretchr/testify/require"
)

func discardLogger() logwrap.Logger {
	return logwrap.New(discard.Discard())
}

type sleepRecorder struct {
	mu    sync.Mutex
	slept []time.Duration
}

func (s *sleepRecorder) sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.slept = append(s.slept, d)
	return nil
}

func (s *sleepRecorder) total() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	var t time.Duration
	for _, d := range s.slept {
		t += d
	}
	return t
}

type simulated struct {
	device  *simulator.Device
	channel *client.DeviceClient
	sleeps  *sleepRecorder
}

// newSimulated starts a simulated camera. The returned device can be configured before
// the first request.
func newSimulated(t *testing.T) *simulated {
	t.Helper()

	device := simulator.New(discardLogger())
	srv := httptest.NewServer(device.Router())
	t.Cleanup(srv.Close)

	return &simulated{
		device:  device,
		channel: client.New(client.ClientConfig{Host: srv.URL}),
		sleeps:  &sleepRecorder{},
	}
}

func (s *simulated) connect(t *testing.T, opts ...Option) *Camera {
	t.Helper()

	opts = append(opts, WithSleep(s.sleeps.sleep))
	c, err := Connect(context.Background(), s.channel, discardLogger(), opts...)
	require.NoError(t, err)

	s.device.ResetCalls()
	return c
}

func (s *simulated) calls() []string {
	var out []string
	for _, c := range s.device.Calls() {
		out = append(out, c.String())
	}
	return out
}
