package client

import (
	"errors"
	"fmt"
)

var ErrUnauthorized = errors.New("camera rejected credentials")

// TransportError reports a request that did not complete successfully: the connection
// failed, the camera refused the credentials, or it answered with a non-2xx status.
type TransportError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		if e.Err != nil {
			return fmt.Sprintf("%s %s: status %d: %v", e.Method, e.Path, e.StatusCode, e.Err)
		}
		return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// DeviceReported is true when the camera answered, with a failure status other than an
// authentication rejection.
func (e *TransportError) DeviceReported() bool {
	return e.StatusCode != 0 && !errors.Is(e.Err, ErrUnauthorized)
}

// IsDeviceReported reports whether err is, or wraps, a TransportError carrying a
// device-reported failure.
func IsDeviceReported(err error) bool {
	var terr *TransportError
	return errors.As(err, &terr) && terr.DeviceReported()
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var terr *TransportError
	if errors.As(err, &terr) {
		return terr.StatusCode
	}
	return 0
}
