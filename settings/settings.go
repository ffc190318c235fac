/*
Package settings reads animation settings files.

Settings files are written in JSON or YAML and use the property names of
the jQuery keyframe animation plugin:

    animationDuration: 5000          # milliseconds, or a duration like "5s"
    animationIterationCount: 2       # or "infinite"
    animationTimingFunction: easeInOut
    delays: [0, 1000, 2000]          # milliseconds per element
    keyframes:
      0:    { font-size: 200% }
      0.25: { font-size: 500% }
      1:    { font-size: 50% }

Unknown settings are rejected. Numeric style values are read as CSS text,
i.e. `opacity: 0` is the property value "0".

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package settings

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/npillmayer/keyframes"
	"github.com/npillmayer/keyframes/dom/style"
	"github.com/npillmayer/keyframes/timing"
	"github.com/npillmayer/schuko/tracing"
	"gopkg.in/yaml.v3"
)

// tracer traces with key 'keyframes.settings'.
func tracer() tracing.Trace {
	return tracing.Select("keyframes.settings")
}

// Format is the syntax of a settings file.
type Format int

const (
	JSON Format = iota
	YAML
)

func (f Format) String() string {
	if f == YAML {
		return "yaml"
	}
	return "json"
}

// FormatOf selects the format by file extension; everything but .yaml and
// .yml is read as JSON.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML
	}
	return JSON
}

// Load reads a settings file and converts it to an animation config.
// The config is validated, including its keyframes and timing function.
func Load(path string) (keyframes.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return keyframes.Config{}, err
	}
	cfg, err := Decode(data, FormatOf(path))
	if err != nil {
		return keyframes.Config{}, fmt.Errorf("settings %s: %w", path, err)
	}
	tracer().Infof("loaded settings from %s", path)
	return cfg, nil
}

// Decode converts the content of a settings file to an animation config.
func Decode(data []byte, format Format) (keyframes.Config, error) {
	if format == YAML {
		var err error
		if data, err = yamlToJSON(data); err != nil {
			return keyframes.Config{}, err
		}
	}
	var f file
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	dec.UseNumber()
	if err := dec.Decode(&f); err != nil {
		return keyframes.Config{}, err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return keyframes.Config{}, errors.New("trailing data")
		}
		return keyframes.Config{}, err
	}
	cfg, err := f.config()
	if err != nil {
		return keyframes.Config{}, err
	}
	if err = Validate(cfg); err != nil {
		return keyframes.Config{}, err
	}
	return cfg, nil
}

// Validate checks everything an animation start would check.
func Validate(cfg keyframes.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if _, err := timing.Lookup(cfg.Timing()); err != nil {
		return err
	}
	_, err := keyframes.NewPlan(cfg.Keyframes, cfg.Duration)
	return err
}

// file is the JSON shape of a settings file.
type file struct {
	AnimationDuration       millis                                `json:"animationDuration"`
	AnimationIterationCount json.RawMessage                       `json:"animationIterationCount"`
	AnimationTimingFunction string                                `json:"animationTimingFunction"`
	Delays                  []millis                              `json:"delays"`
	Keyframes               map[string]map[string]json.RawMessage `json:"keyframes"`
}

func (f *file) config() (keyframes.Config, error) {
	cfg := keyframes.Config{
		Duration:       time.Duration(f.AnimationDuration),
		TimingFunction: f.AnimationTimingFunction,
		Keyframes:      make(keyframes.KeyframeSet, len(f.Keyframes)),
	}
	for _, d := range f.Delays {
		cfg.Delays = append(cfg.Delays, time.Duration(d))
	}
	n, err := iterationCount(f.AnimationIterationCount)
	if err != nil {
		return cfg, err
	}
	cfg.IterationCount = n
	for key, props := range f.Keyframes {
		s := make(keyframes.Snapshot, len(props))
		for name, raw := range props {
			v, err := propertyValue(raw)
			if err != nil {
				return cfg, fmt.Errorf("keyframe %s, property %s: %w", key, name, err)
			}
			s[strings.ToLower(strings.TrimSpace(name))] = v
		}
		cfg.Keyframes[key] = s
	}
	return cfg, nil
}

// iterationCount reads a number or the string "infinite". A missing count
// is 0, i.e. the default.
func iterationCount(raw json.RawMessage) (keyframes.IterationCount, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		s = string(raw) // a number
	}
	return keyframes.ParseIterationCount(s)
}

// propertyValue reads a style value, either a string or a number.
func propertyValue(raw json.RawMessage) (style.Property, error) {
	var v any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return style.NullStyle, err
	}
	switch x := v.(type) {
	case string:
		return style.Property(x), nil
	case json.Number:
		return style.Property(x.String()), nil
	}
	return style.NullStyle, fmt.Errorf("not a style value: %s", raw)
}

// millis is a duration given either as a number of milliseconds or as a
// duration string, e.g. "1.5s".
type millis time.Duration

func (m *millis) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		d, err := time.ParseDuration(strings.TrimSpace(s))
		if err != nil {
			return err
		}
		*m = millis(d)
		return nil
	}
	ms, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return fmt.Errorf("not a duration: %s", b)
	}
	*m = millis(time.Duration(ms * float64(time.Millisecond)))
	return nil
}

// yamlToJSON converts YAML to JSON, so both formats share the strict JSON
// decoder.
func yamlToJSON(data []byte) ([]byte, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("yaml unmarshal: %w", err)
	}
	if v == nil {
		return []byte("{}"), nil
	}
	j, err := json.Marshal(normalizeYAML(v))
	if err != nil {
		return nil, fmt.Errorf("yaml->json marshal: %w", err)
	}
	return j, nil
}

// normalizeYAML ensures all map keys are strings so the result can be
// marshalled to JSON.
func normalizeYAML(in any) any {
	switch x := in.(type) {
	case map[any]any:
		m := make(map[string]any, len(x))
		for k, v := range x {
			m[fmt.Sprint(k)] = normalizeYAML(v)
		}
		return m
	case map[string]any:
		m := make(map[string]any, len(x))
		for k, v := range x {
			m[k] = normalizeYAML(v)
		}
		return m
	case []any:
		for i := range x {
			x[i] = normalizeYAML(x[i])
		}
		return x
	}
	return in
}
