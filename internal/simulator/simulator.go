// Package simulator serves an in-memory PTZ camera speaking the camctrl.cgi, getparam.cgi
// and VCA wire formats. Every request is journaled.
package simulator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/gorilla/mux"
	"github.com/jasonsjt/ptz-controller/pkg/models"
	"github.com/shimmeringbee/logwrap"
)

type Preset struct {
	Name string
	Pan  int
	Tilt int
}

// Call is one journaled request.
type Call struct {
	Method string
	URI    string
	Body   string
}

func (c Call) String() string {
	if c.Body == "" {
		return c.Method + " " + c.URI
	}
	return c.Method + " " + c.URI + " " + c.Body
}

type Device struct {
	mu     sync.Mutex
	logger logwrap.Logger

	Limits   models.MotionLimits
	Position models.Position
	Presets  []Preset
	Status   models.TrackingStatus
	Rules    models.DetectionRules
	HomeView *models.Position

	// PresetSlot overrides the reported next free slot when not nil.
	PresetSlot *int

	script []models.TrackingStatus
	calls  []Call
}

func New(l logwrap.Logger) *Device {
	return &Device{
		logger: l,
		Limits: models.MotionLimits{MinPan: -170, MaxPan: 170, MinTilt: -20, MaxTilt: 90},
		Status: models.Sleep,
	}
}

// ScriptStatuses queues statuses answered by the next status polls, in order. Once the
// queue is drained Status is answered.
func (d *Device) ScriptStatuses(statuses ...models.TrackingStatus) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.script = append(d.script, statuses...)
}

func (d *Device) SetPosition(p models.Position) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Position = p
}

func (d *Device) SetPresets(presets ...Preset) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Presets = presets
}

func (d *Device) Calls() []Call {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Call(nil), d.calls...)
}

func (d *Device) ResetCalls() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = nil
}

func (d *Device) Router() http.Handler {
	r := mux.NewRouter()
	r.Use(d.journal)

	r.HandleFunc("/cgi-bin/camctrl/camctrl.cgi", d.camctrl).Methods("GET")
	r.HandleFunc("/cgi-bin/admin/getparam.cgi", d.getparam).Methods("GET")
	r.HandleFunc("/VCA/Config/RE/SmartTrackingDetection", d.deleteRules).Methods("DELETE")
	r.HandleFunc("/VCA/Config/RE/SmartTrackingDetection", d.setRules).Methods("POST")
	r.HandleFunc("/VCA/PTZ/HomeView", d.setHomeView).Methods("PUT")
	r.HandleFunc("/VCA/Config/Reload", d.reload).Methods("GET")
	r.HandleFunc("/VCA/Camera/Status", d.status).Methods("GET")

	return r
}

func (d *Device) journal(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))

		d.mu.Lock()
		d.calls = append(d.calls, Call{Method: r.Method, URI: r.URL.RequestURI(), Body: string(body)})
		d.mu.Unlock()

		d.logger.LogDebug(context.Background(), "Simulated request.", logwrap.Datum("method", r.Method), logwrap.Datum("uri", r.URL.RequestURI()))
		next.ServeHTTP(w, r)
	})
}

type queryParam struct {
	key      string
	value    string
	hasValue bool
}

// orderedQuery keeps parameter order and valueless keys, both of which matter to camctrl.
func orderedQuery(raw string) ([]queryParam, error) {
	var params []queryParam

	for _, item := range strings.Split(raw, "&") {
		if item == "" {
			continue
		}

		k, v, hasValue := strings.Cut(item, "=")

		key, err := url.QueryUnescape(k)
		if err != nil {
			return nil, err
		}
		value, err := url.QueryUnescape(v)
		if err != nil {
			return nil, err
		}

		params = append(params, queryParam{key: key, value: value, hasValue: hasValue})
	}

	return params, nil
}

func (d *Device) camctrl(w http.ResponseWriter, r *http.Request) {
	params, err := orderedQuery(r.URL.RawQuery)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	var values []string
	set := map[string]string{}

	for _, p := range params {
		if !p.hasValue && strings.HasPrefix(p.key, "get") {
			name := strings.TrimPrefix(p.key, "get")
			v, ok := d.parameter(name)
			if !ok {
				http.Error(w, fmt.Sprintf("unknown parameter '%s'", name), http.StatusBadRequest)
				return
			}
			values = append(values, fmt.Sprintf("%s=%d", name, v))
			continue
		}
		set[p.key] = p.value
	}

	if len(values) > 0 {
		_, _ = io.WriteString(w, strings.Join(values, "&")+"\r\n")
		return
	}

	switch {
	case set["cam"] == "getsetpreset":
		slot := len(d.Presets)
		if d.PresetSlot != nil {
			slot = *d.PresetSlot
		}
		_, _ = fmt.Fprintf(w, "getsetpreset=%d\r\n", slot)
		return

	case set["move"] == "home":
		d.Position = models.Position{}

	case set["recall"] != "":
		p, found := d.preset(set["recall"])
		if !found {
			http.Error(w, "no such preset", http.StatusNotFound)
			return
		}
		d.Position = models.Position{Pan: p.Pan, Tilt: p.Tilt}

	case set["auto"] == "objtrack":
		d.Status = models.Waiting

	case set["auto"] == "stop":
		d.Status = models.Sleep

	case set["setpan"] != "" || set["settilt"] != "":
		pan, perr := strconv.Atoi(set["setpan"])
		tilt, terr := strconv.Atoi(set["settilt"])
		if perr != nil || terr != nil || !d.Limits.PanInRange(pan) || !d.Limits.TiltInRange(tilt) {
			http.Error(w, "bad position", http.StatusBadRequest)
			return
		}
		d.Position = models.Position{Pan: pan, Tilt: tilt}

	case set["vx"] != "" || set["vy"] != "":
		vx, _ := strconv.Atoi(set["vx"])
		vy, _ := strconv.Atoi(set["vy"])
		d.Position.Pan = clamp(d.Position.Pan+vx/10, d.Limits.MinPan, d.Limits.MaxPan)
		d.Position.Tilt = clamp(d.Position.Tilt+vy/10, d.Limits.MinTilt, d.Limits.MaxTilt)

	default:
		http.Error(w, "unknown command", http.StatusBadRequest)
		return
	}

	_, _ = io.WriteString(w, "OK\r\n")
}

func (d *Device) parameter(name string) (int, bool) {
	switch name {
	case "minpan":
		return d.Limits.MinPan, true
	case "maxpan":
		return d.Limits.MaxPan, true
	case "mintilt":
		return d.Limits.MinTilt, true
	case "maxtilt":
		return d.Limits.MaxTilt, true
	case "pan":
		return d.Position.Pan, true
	case "tilt":
		return d.Position.Tilt, true
	}
	return 0, false
}

func (d *Device) preset(name string) (Preset, bool) {
	for _, p := range d.Presets {
		if p.Name == name {
			return p, true
		}
	}
	return Preset{}, false
}

func (d *Device) getparam(w http.ResponseWriter, r *http.Request) {
	key := r.URL.RawQuery

	var index int
	if _, err := fmt.Sscanf(key, "camctrl_c0_preset_i%d_name", &index); err != nil {
		http.Error(w, "unknown parameter", http.StatusBadRequest)
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	name := ""
	if index >= 0 && index < len(d.Presets) {
		name = d.Presets[index].Name
	}

	_, _ = fmt.Fprintf(w, "%s='%s'\r\n", key, name)
}

func (d *Device) deleteRules(w http.ResponseWriter, r *http.Request) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.Rules) == 0 {
		http.Error(w, "no rule", http.StatusNotFound)
		return
	}

	d.Rules = nil
}

func (d *Device) setRules(w http.ResponseWriter, r *http.Request) {
	var rules models.DetectionRules
	if err := json.NewDecoder(r.Body).Decode(&rules); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.Rules == nil {
		d.Rules = models.DetectionRules{}
	}
	for name, rule := range rules {
		d.Rules[name] = rule
	}
}

func (d *Device) setHomeView(w http.ResponseWriter, r *http.Request) {
	d.mu.Lock()
	defer d.mu.Unlock()

	pos := d.Position
	d.HomeView = &pos
}

func (d *Device) reload(w http.ResponseWriter, r *http.Request) {
	_, _ = io.WriteString(w, "OK\r\n")
}

func (d *Device) status(w http.ResponseWriter, r *http.Request) {
	d.mu.Lock()
	status := d.Status
	if len(d.script) > 0 {
		status = d.script[0]
		d.script = d.script[1:]
	}
	d.mu.Unlock()

	var resp models.TrackingStatusResponse
	resp.PTZInfo.Status = string(status)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func clamp(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
