// Package config loads motor parameters from YAML, built-in defaults and
// command-line overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/OpenTraceLab/lincoil/internal/phasespec"
	"github.com/OpenTraceLab/lincoil/pkg/coil"
)

// DefaultPath is read when no --config flag is given. A missing default
// file is not an error.
const DefaultPath = "lincoil.yaml"

// Motor holds the physical parameters. Lengths are millimetres in the file.
type Motor struct {
	Length        coil.Length `mapstructure:"length"`
	Height        coil.Length `mapstructure:"height"`
	Poles         int         `mapstructure:"poles"`
	Periods       int         `mapstructure:"periods"`
	TracksPerPole int         `mapstructure:"tracks_per_pole"`
	Clearance     coil.Length `mapstructure:"clearance"`
	ViaDiameter   coil.Length `mapstructure:"via_diameter"`
	ViaDrill      coil.Length `mapstructure:"via_drill"`
	OriginX       coil.Length `mapstructure:"origin_x"`
	OriginY       coil.Length `mapstructure:"origin_y"`
	TopLayer      string      `mapstructure:"top_layer"`
}

// Config is the fully merged configuration.
type Config struct {
	Motor    Motor            `mapstructure:"motor"`
	Phases   []coil.PhaseSpec `mapstructure:"phases"`
	Parallel bool             `mapstructure:"parallel"`
	Clear    bool             `mapstructure:"clear"`
}

// Defaults returns the built-in configuration: a three-phase winding on
// six copper layers fed from connector J1.
func Defaults() map[string]any {
	return map[string]any{
		"motor": map[string]any{
			"length":          80.0,
			"height":          20.0,
			"poles":           8,
			"periods":         4,
			"tracks_per_pole": 10,
			"clearance":       0.25,
			"via_diameter":    0.8,
			"via_drill":       0.4,
			"origin_x":        100.0,
			"origin_y":        50.0,
			"top_layer":       string(coil.FrontCopper),
		},
		"phases": []any{
			`A: B.Cu -> In1.Cu shift -1 net "PHASE_A" pads J1.1 -> J1.2`,
			`B: In2.Cu -> In3.Cu shift 0 net "PHASE_B" pads J1.3 -> J1.4`,
			`C: In4.Cu -> In5.Cu shift 1 net "PHASE_C" pads J1.5 -> J1.6`,
		},
		"parallel": false,
		"clear":    false,
	}
}

// Load builds a Config from the defaults, the file at path and the
// key=value overrides, in that order. An empty path means DefaultPath.
func Load(path string, overrides []string) (*Config, error) {
	values := Defaults()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}
	file, err := readFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist) && !explicit:
	case err != nil:
		return nil, err
	default:
		merge(values, file)
	}

	for _, o := range overrides {
		if err := Set(values, o); err != nil {
			return nil, err
		}
	}

	return Decode(values)
}

// Decode converts a generic value tree into a Config.
func Decode(values map[string]any) (*Config, error) {
	var cfg Config
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			lengthHook,
			phaseHook,
		),
		ErrorUnused: true,
		Result:      &cfg,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(values); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

func readFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	values := map[string]any{}
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return values, nil
}

// merge copies src into dst. Nested maps merge key by key; everything
// else, lists included, replaces.
func merge(dst, src map[string]any) {
	for k, v := range src {
		sm, ok := v.(map[string]any)
		if dm, dok := dst[k].(map[string]any); ok && dok {
			merge(dm, sm)
			continue
		}
		dst[k] = v
	}
}

// Set applies a single "dotted.key=value" override. The value is parsed as
// YAML, so numbers, booleans and flow lists keep their type.
func Set(values map[string]any, kv string) error {
	key, raw, ok := strings.Cut(kv, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return fmt.Errorf("invalid override %q (want key=value)", kv)
	}

	var v any
	if err := yaml.Unmarshal([]byte(raw), &v); err != nil || v == nil {
		v = raw
	}

	parts := strings.Split(key, ".")
	m := values
	for _, p := range parts[:len(parts)-1] {
		next, ok := m[p]
		if !ok {
			nm := map[string]any{}
			m[p] = nm
			m = nm
			continue
		}
		nm, ok := next.(map[string]any)
		if !ok {
			return fmt.Errorf("override %q: %s is not a section", kv, p)
		}
		m = nm
	}
	m[parts[len(parts)-1]] = v
	return nil
}

var (
	lengthType = reflect.TypeOf(coil.Length(0))
	phaseType  = reflect.TypeOf(coil.PhaseSpec{})
)

// lengthHook reads millimetre values: 0.25, 2 or "0.25mm".
func lengthHook(from, to reflect.Type, data any) (any, error) {
	if to != lengthType {
		return data, nil
	}
	switch v := data.(type) {
	case int:
		return coil.MM(float64(v)), nil
	case float64:
		return coil.MM(v), nil
	case string:
		s := strings.TrimSuffix(strings.TrimSpace(v), "mm")
		mm, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid length %q", v)
		}
		return coil.MM(mm), nil
	}
	return data, nil
}

func phaseHook(from, to reflect.Type, data any) (any, error) {
	if to != phaseType {
		return data, nil
	}
	s, ok := data.(string)
	if !ok {
		return data, nil
	}
	return phasespec.Parse(s)
}

// Params converts the motor section to generator inputs.
func (c *Config) Params() coil.Params {
	m := c.Motor
	return coil.Params{
		Length:        m.Length,
		Height:        m.Height,
		PoleCount:     m.Poles,
		PeriodCount:   m.Periods,
		TracksPerPole: m.TracksPerPole,
		PhaseCount:    len(c.Phases),
		Clearance:     m.Clearance,
		ViaDiameter:   m.ViaDiameter,
		ViaDrill:      m.ViaDrill,
		Origin:        coil.Pt(m.OriginX, m.OriginY),
		TopLayer:      coil.LayerID(m.TopLayer),
	}
}

// Geometry resolves Params and checks every phase.
func (c *Config) Geometry() (*coil.Geometry, error) {
	for _, p := range c.Phases {
		if err := p.Validate(); err != nil {
			return nil, err
		}
	}
	return coil.Resolve(c.Params())
}

// Nets lists the phase nets in declaration order.
func (c *Config) Nets() []string {
	nets := make([]string, len(c.Phases))
	for i, p := range c.Phases {
		nets[i] = p.Net
	}
	return nets
}
