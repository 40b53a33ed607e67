// Package ptz keeps the client side view of a PTZ camera: its motion limits, last known
// position, preset directory and smart tracking state.
package ptz

import (
	"context"
	"time"
)

// Channel is the request/response primitive used to talk to the camera. It is satisfied
// by *client.DeviceClient.
type Channel interface {
	Get(ctx context.Context, path string) (string, error)
	Put(ctx context.Context, path string) (string, error)
	Delete(ctx context.Context, path string) (string, error)
	Post(ctx context.Context, path string, body string) (string, error)
}

// SleepFunc suspends for d or until ctx is done, whichever comes first.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep is the default SleepFunc.
func Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d <= 0 {
		return nil
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
