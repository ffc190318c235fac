package settings

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/npillmayer/keyframes"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAllSettings(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "keyframes.settings")
	defer teardown()
	//
	fromYAML, err := Load("testdata/all-settings.yaml")
	require.NoError(t, err)
	fromJSON, err := Load("testdata/all-settings.json")
	require.NoError(t, err)
	assert.Equal(t, fromJSON, fromYAML)

	cfg := fromYAML
	assert.Equal(t, 5*time.Second, cfg.Duration)
	assert.Equal(t, keyframes.IterationCount(2), cfg.IterationCount)
	assert.Equal(t, "easeInOut", cfg.TimingFunction)
	assert.Equal(t, []time.Duration{0, time.Second, 2 * time.Second}, cfg.Delays)
	assert.Equal(t, keyframes.KeyframeSet{
		"0":    {"font-size": "200%"},
		"0.25": {"font-size": "500%"},
		"1":    {"font-size": "50%"},
	}, cfg.Keyframes)
}

func TestLoadExamples(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "keyframes.settings")
	defer teardown()
	//
	mdn, err := Load("testdata/mdn-example.yaml")
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, mdn.Duration)
	assert.Equal(t, keyframes.IterationCount(1), mdn.Iterations())
	assert.Equal(t, "ease", mdn.Timing())
	assert.Len(t, mdn.Keyframes["0.75"], 3)

	slides, err := Load("testdata/slideshow.yml")
	require.NoError(t, err)
	assert.True(t, slides.Iterations().IsInfinite())
	assert.Equal(t, keyframes.Snapshot{"opacity": "0"}, slides.Keyframes["0"])
	assert.Equal(t, 24*time.Second, slides.Delay(3))

	pong, err := Load("testdata/pong.json")
	require.NoError(t, err)
	plan, err := keyframes.NewPlan(pong.Keyframes, pong.Duration)
	require.NoError(t, err)
	assert.Equal(t, 12, plan.Len())
	assert.Equal(t, 2*time.Second, plan.Segment(2).Offset+plan.Segment(2).Duration, "0.10 ends at 2s")

	missing, err := Load("testdata/missing-styles.yaml")
	require.NoError(t, err)
	assert.Equal(t, "linear", missing.TimingFunction)
	assert.Equal(t, keyframes.Snapshot{"width": "200px"}, missing.Keyframes["0.5"])
}

func TestDecodeErrors(t *testing.T) {
	_, err := Load("testdata/unknown-field.yaml")
	assert.ErrorContains(t, err, "animationDirection")
	_, err = Load("testdata/does-not-exist.yaml")
	assert.Error(t, err)

	for name, text := range map[string]string{
		"no end keyframe":  `{"animationDuration": 100, "keyframes": {"0": {"opacity": 0}}}`,
		"bad key":          `{"animationDuration": 100, "keyframes": {"0": {}, "half": {}, "1": {}}}`,
		"bad iterations":   `{"animationIterationCount": "often", "keyframes": {"0": {}, "1": {}}}`,
		"zero iterations":  `{"animationIterationCount": 0, "keyframes": {"0": {}, "1": {}}}`,
		"bad timing":       `{"animationTimingFunction": "bouncy", "keyframes": {"0": {}, "1": {}}}`,
		"negative delay":   `{"delays": [-5], "keyframes": {"0": {}, "1": {}}}`,
		"bad duration":     `{"animationDuration": "soon", "keyframes": {"0": {}, "1": {}}}`,
		"object value":     `{"keyframes": {"0": {"opacity": {"x": 1}}, "1": {}}}`,
		"trailing data":    `{"keyframes": {"0": {}, "1": {}}} {}`,
		"infinite instant": `{"animationIterationCount": "infinite", "keyframes": {"0": {}, "1": {}}}`,
	} {
		_, err := Decode([]byte(text), JSON)
		assert.Error(t, err, name)
	}
	_, err = Decode([]byte("keyframes: [1, 2"), YAML)
	assert.Error(t, err)
}

func TestDecodeValues(t *testing.T) {
	cfg, err := Decode([]byte(`
animationDuration: 1.5s
animationIterationCount: "3"
delays: [250, 0.5]
keyframes:
  0%:   { Opacity: 0, left: 0 }
  100%: { opacity: 0.75, left: 12.5 }
`), YAML)
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, cfg.Duration)
	assert.Equal(t, keyframes.IterationCount(3), cfg.IterationCount)
	assert.Equal(t, []time.Duration{250 * time.Millisecond, 500 * time.Microsecond}, cfg.Delays)
	assert.Equal(t, keyframes.Snapshot{"opacity": "0", "left": "0"}, cfg.Keyframes["0%"])
	assert.Equal(t, keyframes.Snapshot{"opacity": "0.75", "left": "12.5"}, cfg.Keyframes["100%"])

	cfg, err = Decode([]byte(""), YAML)
	assert.Error(t, err, "no keyframes")
	assert.Empty(t, cfg.Keyframes)
}

func TestFormatOf(t *testing.T) {
	assert.Equal(t, YAML, FormatOf("a/b.yml"))
	assert.Equal(t, YAML, FormatOf("B.YAML"))
	assert.Equal(t, JSON, FormatOf("b.json"))
	assert.Equal(t, JSON, FormatOf("settings"))
	assert.Equal(t, "yaml", YAML.String())
}

func TestWatch(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "keyframes.settings")
	defer teardown()
	//
	Debounce = 20 * time.Millisecond
	path := filepath.Join(t.TempDir(), "anim.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
animationDuration: 1000
keyframes: { 0: { opacity: 0 }, 1: { opacity: 1 } }
`), 0o644))

	changes := make(chan keyframes.Config, 4)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, func(cfg keyframes.Config) { changes <- cfg })
	}()
	// give the watcher time to register
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(path, []byte(`
animationDuration: 1000
keyframes: { 0: { opacity: 0 }, 1: { opacity: 1 }
`), 0o644)) // broken YAML is skipped
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte(`
animationDuration: 2000
keyframes: { 0: { opacity: 0 }, 1: { opacity: 1 } }
`), 0o644))

	select {
	case cfg := <-changes:
		assert.Equal(t, 2*time.Second, cfg.Duration)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload within 5s")
	}
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
	assert.Empty(t, changes)
}
