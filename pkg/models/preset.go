package models

// Preset is a named stored position. Index is only a client side ordering; the camera
// recalls presets by name.
type Preset struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
}
