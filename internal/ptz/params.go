package ptz

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// parseParams splits a "name=value&name=value" body.
func parseParams(body string) (map[string]string, error) {
	text := strings.TrimRightFunc(body, func(r rune) bool {
		return r == '\r' || r == '\n' || r == ' ' || r == '\t'
	})
	if text == "" {
		return nil, errors.New("empty parameter list")
	}

	result := map[string]string{}
	for _, item := range strings.Split(text, "&") {
		pair := strings.Split(item, "=")
		if len(pair) != 2 || pair[0] == "" {
			return nil, fmt.Errorf("malformed pair '%s'", item)
		}
		result[pair[0]] = pair[1]
	}

	return result, nil
}

// intParams parses body and returns the named parameters as integers. Every name must be
// present.
func intParams(op string, body string, names ...string) (map[string]int, error) {
	raw, err := parseParams(body)
	if err != nil {
		return nil, &ProtocolError{Op: op, Body: body, Err: err}
	}

	result := make(map[string]int, len(names))
	for _, n := range names {
		v, found := raw[n]
		if !found {
			return nil, &ProtocolError{Op: op, Body: body, Err: fmt.Errorf("missing parameter '%s'", n)}
		}

		i, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return nil, &ProtocolError{Op: op, Body: body, Err: fmt.Errorf("parameter '%s': %w", n, err)}
		}

		result[n] = i
	}

	return result, nil
}

// valueField returns the text between the first and second '=' of body.
func valueField(body string) (string, bool) {
	parts := strings.Split(body, "=")
	if len(parts) < 2 {
		return "", false
	}
	return parts[1], true
}

// parsePresetCount reads the next free preset slot, which stands in for the preset count.
func parsePresetCount(body string) (int, error) {
	v, ok := valueField(body)
	if !ok {
		return 0, &ProtocolError{Op: "preset count", Body: body, Err: errors.New("missing '='")}
	}

	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, &ProtocolError{Op: "preset count", Body: body, Err: err}
	}
	if n < 0 {
		return 0, &ProtocolError{Op: "preset count", Body: body, Err: fmt.Errorf("negative count %d", n)}
	}

	return n, nil
}

// parsePresetName extracts a name from "camctrl_c0_preset_i0_name='Door'\r\n": everything
// before the first carriage return, with single quotes removed.
func parsePresetName(body string) (string, error) {
	v, ok := valueField(body)
	if !ok {
		return "", &ProtocolError{Op: "preset name", Body: body, Err: errors.New("missing '='")}
	}

	v, _, _ = strings.Cut(v, "\r")
	return strings.ReplaceAll(v, "'", ""), nil
}
