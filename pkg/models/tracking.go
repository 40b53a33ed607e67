package models

import "fmt"

// TrackingStatus is the smart tracking state reported by the camera's VCA.
type TrackingStatus string

const (
	// Waiting: tracking is armed but nobody is in view.
	Waiting TrackingStatus = "Waiting"
	// Tracking: the camera is following a subject.
	Tracking TrackingStatus = "Tracking"
	// Missing: the subject was lost and the camera is returning to its tracking home.
	Missing TrackingStatus = "Missing"
	// Sleep: smart tracking is off.
	Sleep TrackingStatus = "Sleep"
)

var trackingStatuses = []TrackingStatus{Waiting, Tracking, Missing, Sleep}

func TrackingStatuses() []TrackingStatus {
	return append([]TrackingStatus(nil), trackingStatuses...)
}

func ParseTrackingStatus(s string) (TrackingStatus, error) {
	for _, st := range trackingStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown tracking status '%s'", s)
}

// TrackingStatusResponse is the body of GET /VCA/Camera/Status.
type TrackingStatusResponse struct {
	PTZInfo struct {
		Status string `json:"Status"`
	} `json:"PTZInfo"`
}

// FullScreenRuleName is the only detection rule the tracker ever installs.
const FullScreenRuleName = "Full Screen"

// DetectionRule is one entry of the SmartTrackingDetection configuration. The camera
// expects the rules keyed by name.
type DetectionRule struct {
	EventName string   `json:"EventName"`
	Field     []string `json:"Field"`
	RuleName  string   `json:"RuleName"`
	Type      string   `json:"Type"`
}

type DetectionRules map[string]DetectionRule

// FullScreenRule covers the whole frame.
func FullScreenRule() DetectionRules {
	return DetectionRules{
		FullScreenRuleName: {
			EventName: FullScreenRuleName,
			Field:     []string{},
			RuleName:  FullScreenRuleName,
			Type:      "full",
		},
	}
}
