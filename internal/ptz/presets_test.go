package ptz

import (
	"context"
	"errors"
	"testing"

	"github.com/jasonsjt/ptz-controller/internal/simulator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestPresetDirectory_GetPresetNames(t *testing.T) {
	t.Run("reads the slot count then each name", func(t *testing.T) {
		sim := newSimulated(t)
		sim.device.SetPresets(simulator.Preset{Name: "Door"}, simulator.Preset{Name: "Front Gate"})
		c := sim.connect(t)

		names, err := c.PresetNames(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"Door", "Front Gate"}, names)

		assert.Equal(t, []string{
			"GET /cgi-bin/camctrl/camctrl.cgi?cam=getsetpreset",
			"GET /cgi-bin/admin/getparam.cgi?camctrl_c0_preset_i0_name",
			"GET /cgi-bin/admin/getparam.cgi?camctrl_c0_preset_i1_name",
		}, sim.calls())
	})

	t.Run("strips carriage return fragments and quotes", func(t *testing.T) {
		mc := &MockChannel{}
		defer mc.AssertExpectations(t)

		mc.On("Get", mock.Anything, "/cgi-bin/camctrl/camctrl.cgi?cam=getsetpreset").Return("getsetpreset=2\r\n", nil)
		mc.On("Get", mock.Anything, "/cgi-bin/admin/getparam.cgi?camctrl_c0_preset_i0_name").Return("camctrl_c0_preset_i0_name='Car''Park'\r\ngarbage", nil)
		mc.On("Get", mock.Anything, "/cgi-bin/admin/getparam.cgi?camctrl_c0_preset_i1_name").Return("camctrl_c0_preset_i1_name='Lobby'\r", nil)

		d := NewPresetDirectory(mc, discardLogger())

		names, err := d.GetPresetNames(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"CarPark", "Lobby"}, names)
	})

	t.Run("rebuilds from scratch each call", func(t *testing.T) {
		sim := newSimulated(t)
		sim.device.SetPresets(simulator.Preset{Name: "A"}, simulator.Preset{Name: "B"})
		c := sim.connect(t)

		_, err := c.PresetNames(context.Background())
		require.NoError(t, err)

		sim.device.SetPresets(simulator.Preset{Name: "C"})

		names, err := c.PresetNames(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"C"}, names)
		assert.Equal(t, []string{"C"}, c.Presets.Names())
	})

	t.Run("a failed rebuild keeps the previous directory", func(t *testing.T) {
		mc := &MockChannel{}
		mc.On("Get", mock.Anything, "/cgi-bin/camctrl/camctrl.cgi?cam=getsetpreset").Return("bogus", nil)

		d := NewPresetDirectory(mc, discardLogger())
		d.names = []string{"Door"}

		_, err := d.GetPresetNames(context.Background())

		var perr *ProtocolError
		assert.True(t, errors.As(err, &perr))
		assert.Equal(t, []string{"Door"}, d.Names())
	})
}

func TestPresetDirectory_ResolveIndex(t *testing.T) {
	t.Run("an empty directory triggers exactly one rebuild", func(t *testing.T) {
		sim := newSimulated(t)
		sim.device.SetPresets(simulator.Preset{Name: "A"}, simulator.Preset{Name: "B"})
		c := sim.connect(t)

		name, err := c.Presets.ResolveIndex(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, "B", name)
		assert.Len(t, sim.calls(), 3)

		sim.device.ResetCalls()

		name, err = c.Presets.ResolveIndex(context.Background(), 0)
		require.NoError(t, err)
		assert.Equal(t, "A", name)
		assert.Empty(t, sim.calls())
	})

	t.Run("an index beyond the cache triggers a rebuild", func(t *testing.T) {
		sim := newSimulated(t)
		sim.device.SetPresets(simulator.Preset{Name: "A"})
		c := sim.connect(t)

		_, err := c.Presets.ResolveIndex(context.Background(), 0)
		require.NoError(t, err)

		sim.device.SetPresets(simulator.Preset{Name: "A"}, simulator.Preset{Name: "B"})
		sim.device.ResetCalls()

		name, err := c.Presets.ResolveIndex(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, "B", name)
		assert.Equal(t, "GET /cgi-bin/camctrl/camctrl.cgi?cam=getsetpreset", sim.calls()[0])
	})

	t.Run("still unresolved after the rebuild is not found", func(t *testing.T) {
		sim := newSimulated(t)
		sim.device.SetPresets(simulator.Preset{Name: "A"})
		c := sim.connect(t)

		_, err := c.Presets.ResolveIndex(context.Background(), 1)

		var nerr *NotFoundError
		require.True(t, errors.As(err, &nerr))
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Equal(t, 1, nerr.Index)
		assert.Equal(t, 1, nerr.Known)
		assert.Equal(t, []string{
			"GET /cgi-bin/camctrl/camctrl.cgi?cam=getsetpreset",
			"GET /cgi-bin/admin/getparam.cgi?camctrl_c0_preset_i0_name",
		}, sim.calls())
	})

	t.Run("negative index is a validation error", func(t *testing.T) {
		mc := &MockChannel{}
		d := NewPresetDirectory(mc, discardLogger())

		_, err := d.ResolveIndex(context.Background(), -1)

		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "preset index -1 must be >= 0", err.Error())
		mc.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	})
}
