package models

// Position is the pan/tilt reading last polled from the camera.
type Position struct {
	Pan  int `json:"pan"`
	Tilt int `json:"tilt"`
}

// MotionLimits are the pan/tilt bounds reported by the camera at startup.
type MotionLimits struct {
	MinPan  int `json:"minPan"`
	MaxPan  int `json:"maxPan"`
	MinTilt int `json:"minTilt"`
	MaxTilt int `json:"maxTilt"`
}

func (l MotionLimits) PanInRange(pan int) bool {
	return pan >= l.MinPan && pan <= l.MaxPan
}

func (l MotionLimits) TiltInRange(tilt int) bool {
	return tilt >= l.MinTilt && tilt <= l.MaxTilt
}
