package simulator

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jasonsjt/ptz-controller/pkg/models"
	"github.com/shimmeringbee/logwrap"
	"github.com/shimmeringbee/logwrap/impl/discard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func do(t *testing.T, h http.Handler, method, uri, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, uri, strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestDevice_camctrl(t *testing.T) {
	t.Run("answers get parameters in request order", func(t *testing.T) {
		d := New(logwrap.New(discard.Discard()))
		d.Position = models.Position{Pan: 12, Tilt: -3}

		rr := do(t, d.Router(), "GET", "/cgi-bin/camctrl/camctrl.cgi?gettilt&getpan&getminpan", "")

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "tilt=-3&pan=12&minpan=-170\r\n", rr.Body.String())
	})

	t.Run("absolute move updates the position", func(t *testing.T) {
		d := New(logwrap.New(discard.Discard()))

		rr := do(t, d.Router(), "GET", "/cgi-bin/camctrl/camctrl.cgi?setpan=40&settilt=10&speedx=100&speedy=100&setptmode=nonblock", "")

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, models.Position{Pan: 40, Tilt: 10}, d.Position)
	})

	t.Run("recall decodes preset names", func(t *testing.T) {
		d := New(logwrap.New(discard.Discard()))
		d.Presets = []Preset{{Name: "Front Door", Pan: 5, Tilt: 6}}

		rr := do(t, d.Router(), "GET", "/cgi-bin/camctrl/camctrl.cgi?recall=Front+Door", "")

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, models.Position{Pan: 5, Tilt: 6}, d.Position)
	})

	t.Run("auto toggles tracking status", func(t *testing.T) {
		d := New(logwrap.New(discard.Discard()))

		do(t, d.Router(), "GET", "/cgi-bin/camctrl/camctrl.cgi?auto=objtrack", "")
		assert.Equal(t, models.Waiting, d.Status)

		do(t, d.Router(), "GET", "/cgi-bin/camctrl/camctrl.cgi?auto=stop", "")
		assert.Equal(t, models.Sleep, d.Status)
	})
}

func TestDevice_presets(t *testing.T) {
	d := New(logwrap.New(discard.Discard()))
	d.Presets = []Preset{{Name: "Gate"}}

	rr := do(t, d.Router(), "GET", "/cgi-bin/camctrl/camctrl.cgi?cam=getsetpreset", "")
	assert.Equal(t, "getsetpreset=1\r\n", rr.Body.String())

	rr = do(t, d.Router(), "GET", "/cgi-bin/admin/getparam.cgi?camctrl_c0_preset_i0_name", "")
	assert.Equal(t, "camctrl_c0_preset_i0_name='Gate'\r\n", rr.Body.String())
}

func TestDevice_vca(t *testing.T) {
	d := New(logwrap.New(discard.Discard()))
	h := d.Router()

	rr := do(t, h, "DELETE", "/VCA/Config/RE/SmartTrackingDetection", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = do(t, h, "POST", "/VCA/Config/RE/SmartTrackingDetection", `{"Full Screen":{"EventName":"Full Screen","Field":[],"RuleName":"Full Screen","Type":"full"}}`)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, models.FullScreenRule(), d.Rules)

	rr = do(t, h, "DELETE", "/VCA/Config/RE/SmartTrackingDetection", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, d.Rules)

	d.ScriptStatuses(models.Tracking)
	rr = do(t, h, "GET", "/VCA/Camera/Status", "")
	body, _ := io.ReadAll(rr.Body)
	assert.JSONEq(t, `{"PTZInfo":{"Status":"Tracking"}}`, string(body))

	rr = do(t, h, "GET", "/VCA/Camera/Status", "")
	assert.JSONEq(t, `{"PTZInfo":{"Status":"Sleep"}}`, rr.Body.String())

	calls := d.Calls()
	require.Len(t, calls, 5)
	assert.Equal(t, "DELETE /VCA/Config/RE/SmartTrackingDetection", calls[0].String())
}
