package settings

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/npillmayer/keyframes"
)

// Debounce is the time a settings file has to be quiet after a change
// before it is reloaded. Editors often write a file in several steps.
var Debounce = 200 * time.Millisecond

// Watch calls onChange with the new config whenever the settings file at
// path changes. Files which cannot be read or do not validate are reported
// to the trace and skipped; so are writes which leave the content as it was.
// onChange is called from a timer goroutine, never concurrently with
// itself.
//
// Watch blocks until ctx is cancelled.
func Watch(ctx context.Context, path string, onChange func(keyframes.Config)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	dir, name := filepath.Dir(path), filepath.Base(path)
	if err = w.Add(dir); err != nil {
		return err
	}
	last, _ := os.ReadFile(path)
	var (
		mx    sync.Mutex
		timer *time.Timer
	)
	reload := func() {
		mx.Lock()
		defer mx.Unlock()
		if ctx.Err() != nil {
			return
		}
		data, err := os.ReadFile(path)
		if err != nil {
			tracer().Errorf("settings %s: %v", path, err)
			return
		}
		if bytes.Equal(data, last) {
			tracer().Debugf("settings %s unchanged", path)
			return
		}
		cfg, err := Decode(data, FormatOf(path))
		if err != nil {
			tracer().Errorf("settings %s: %v", path, err)
			return
		}
		last = data
		tracer().Infof("reloaded settings from %s", path)
		onChange(cfg)
	}
	debounce := func() {
		mx.Lock()
		defer mx.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(Debounce, reload)
	}
	tracer().Debugf("watching %s", path)
	for {
		select {
		case <-ctx.Done():
			mx.Lock()
			if timer != nil {
				timer.Stop()
			}
			mx.Unlock()
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Base(ev.Name) != name {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				debounce()
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			tracer().Errorf("watching %s: %v", path, err)
		}
	}
}
