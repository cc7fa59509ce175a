package params

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/achilleasa/stereocam/log"
	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

var logger = log.New("params")

// Decode reads a YAML parameter document. Keys missing from the document
// keep their default values so older, reduced presets stay loadable.
func Decode(r io.Reader) (ParameterSet, error) {
	p := Defaults()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil && err != io.EOF {
		return Defaults(), fmt.Errorf("params: decode failed: %w", err)
	}
	return p, nil
}

// Encode writes p as a YAML document.
func Encode(w io.Writer, p ParameterSet) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(p); err != nil {
		return err
	}
	return enc.Close()
}

// Load reads a parameter file from disk.
func Load(path string) (ParameterSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Defaults(), err
	}
	return Decode(bytes.NewReader(data))
}

// Watch reloads the parameter file into live whenever it is written until
// ctx is cancelled. Files that fail to parse are reported and ignored; the
// last good snapshot stays active. onReload, when not nil, is called from
// the watcher goroutine with every set that was stored.
func Watch(ctx context.Context, path string, live *Live, onReload func(ParameterSet)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	// Editors often replace files instead of writing them in place so
	// watch the parent directory and filter by name.
	absPath, err := filepath.Abs(path)
	if err != nil {
		watcher.Close()
		return err
	}
	if err = watcher.Add(filepath.Dir(absPath)); err != nil {
		watcher.Close()
		return err
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != absPath {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				data, err := os.ReadFile(absPath)
				if err == nil && len(bytes.TrimSpace(data)) == 0 {
					// Truncated by a writer that has not finished yet.
					continue
				}
				var p ParameterSet
				if err == nil {
					p, err = Decode(bytes.NewReader(data))
				}
				if err != nil {
					logger.Warningf("ignoring %s: %v", path, err)
					continue
				}
				live.Store(p)
				logger.Infof("reloaded parameters from %s", path)
				if onReload != nil {
					onReload(p)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warningf("watcher error: %v", err)
			}
		}
	}()

	return nil
}
