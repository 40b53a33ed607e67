package ptz

import (
	"context"
	"fmt"

	"github.com/shimmeringbee/logwrap"
)

// PresetDirectory caches the camera's preset names in slot order. The camera only knows
// presets by name; the index is a client side convention.
type PresetDirectory struct {
	channel Channel
	logger  logwrap.Logger
	names   []string
}

func NewPresetDirectory(ch Channel, l logwrap.Logger) *PresetDirectory {
	return &PresetDirectory{channel: ch, logger: l}
}

// Names returns the cached names without contacting the camera.
func (d *PresetDirectory) Names() []string {
	return append([]string(nil), d.names...)
}

// GetPresetNames rebuilds the directory from the camera.
//
// The camera has no count endpoint; the next free preset slot is used as the count,
// which assumes slots are allocated contiguously from zero.
func (d *PresetDirectory) GetPresetNames(ctx context.Context) ([]string, error) {
	path := presetSlotRequest().String()
	d.logger.LogDebug(ctx, "Get how many preset points are set.", logwrap.Datum("url", path))

	body, err := d.channel.Get(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read preset count: %w", err)
	}

	count, err := parsePresetCount(body)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, count)
	for i := 0; i < count; i++ {
		path := presetNameRequest(i).String()

		body, err := d.channel.Get(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("failed to read name of preset %d: %w", i, err)
		}

		name, err := parsePresetName(body)
		if err != nil {
			return nil, err
		}

		d.logger.LogDebug(ctx, "Got preset point name.", logwrap.Datum("index", i), logwrap.Datum("preset", name))
		names = append(names, name)
	}

	d.names = names
	d.logger.LogInfo(ctx, "Rebuilt preset directory.", logwrap.Datum("presets", names))

	return d.Names(), nil
}

// ResolveIndex returns the name of preset i, rebuilding the directory once if i is
// beyond the cached names.
func (d *PresetDirectory) ResolveIndex(ctx context.Context, i int) (string, error) {
	if i < 0 {
		return "", &ValidationError{Field: "preset index", Value: i, Min: 0, Max: NoMax}
	}

	if i >= len(d.names) {
		if _, err := d.GetPresetNames(ctx); err != nil {
			return "", err
		}
	}

	if i >= len(d.names) {
		err := &NotFoundError{Index: i, Known: len(d.names)}
		d.logger.LogWarn(ctx, "Preset index not found.", logwrap.Err(err))
		return "", err
	}

	return d.names[i], nil
}
