package ptz

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	camctrlPath  = "/cgi-bin/camctrl/camctrl.cgi"
	getparamPath = "/cgi-bin/admin/getparam.cgi"

	vcaDetectionPath = "/VCA/Config/RE/SmartTrackingDetection"
	vcaHomeViewPath  = "/VCA/PTZ/HomeView"
	vcaReloadPath    = "/VCA/Config/Reload"
	vcaStatusPath    = "/VCA/Camera/Status"
)

const (
	MaxVectorSpeed = 150
	vectorStep     = 10

	DefaultMoveSpeed = 100
)

type param struct {
	key   string
	value string
	flag  bool
}

// request builds a cgi URL. The camera accepts valueless keys ("getpan&gettilt"), which
// url.Values cannot express, so parameters are kept in order and encoded by hand.
type request struct {
	path   string
	params []param
}

func newRequest(path string) *request {
	return &request{path: path}
}

func (r *request) set(key string, value any) *request {
	r.params = append(r.params, param{key: key, value: fmt.Sprint(value)})
	return r
}

func (r *request) flag(key string) *request {
	r.params = append(r.params, param{key: key, flag: true})
	return r
}

func (r *request) String() string {
	if len(r.params) == 0 {
		return r.path
	}

	parts := make([]string, 0, len(r.params))
	for _, p := range r.params {
		if p.flag {
			parts = append(parts, url.QueryEscape(p.key))
		} else {
			parts = append(parts, url.QueryEscape(p.key)+"="+url.QueryEscape(p.value))
		}
	}

	return r.path + "?" + strings.Join(parts, "&")
}

func getParamsRequest(names ...string) *request {
	r := newRequest(camctrlPath)
	for _, n := range names {
		r.flag("get" + n)
	}
	return r
}

// clampVector limits a vector speed to MaxVectorSpeed. Only the upper bound is enforced
// unless symmetric is set; the firmware the client was tuned against accepted large
// negative speeds.
func clampVector(v int, symmetric bool) int {
	if v > MaxVectorSpeed {
		return MaxVectorSpeed
	}
	if symmetric && v < -MaxVectorSpeed {
		return -MaxVectorSpeed
	}
	return v
}

// Zoom is an optional zoom change sent along with a vector move. Speed is passed through
// verbatim.
type Zoom struct {
	Direction string
	Speed     string
}

// direction returns "tele" or "wide", or "" when no zoom change was asked for.
func (z Zoom) direction() string {
	d := strings.ToLower(strings.TrimSpace(z.Direction))
	if d == "tele" || d == "wide" {
		return d
	}
	return ""
}

func vectorMoveRequest(vx, vy int, zoom Zoom, symmetric bool) *request {
	r := newRequest(camctrlPath).
		set("stream", 3).
		set("channel", 0).
		set("vx", clampVector(vx, symmetric)).
		set("vy", clampVector(vy, symmetric)).
		set("vs", vectorStep)

	if d := zoom.direction(); d != "" || zoom.Speed != "" {
		r.set("zooming", d).set("zs", zoom.Speed)
	}

	return r
}

// Speed is the pan and tilt speed of an absolute move. Zero values mean DefaultMoveSpeed.
type Speed struct {
	Pan  int
	Tilt int
}

func (s Speed) withDefaults() Speed {
	if s.Pan == 0 {
		s.Pan = DefaultMoveSpeed
	}
	if s.Tilt == 0 {
		s.Tilt = DefaultMoveSpeed
	}
	return s
}

func positionMoveRequest(px, py int, speed Speed) *request {
	speed = speed.withDefaults()
	return newRequest(camctrlPath).
		set("setpan", px).
		set("settilt", py).
		set("speedx", speed.Pan).
		set("speedy", speed.Tilt).
		set("setptmode", "nonblock")
}

func homeRequest() *request {
	return newRequest(camctrlPath).set("move", "home")
}

func recallRequest(name string) *request {
	return newRequest(camctrlPath).set("recall", name)
}

func autoRequest(mode string) *request {
	return newRequest(camctrlPath).set("auto", mode)
}

// presetSlotRequest asks for the next free preset slot.
func presetSlotRequest() *request {
	return newRequest(camctrlPath).set("cam", "getsetpreset")
}

func presetNameRequest(index int) *request {
	return newRequest(getparamPath).flag("camctrl_c0_preset_i" + strconv.Itoa(index) + "_name")
}
