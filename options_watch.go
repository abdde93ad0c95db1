// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gfx

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// OptionsWatcher reloads an options file whenever it changes.
//
// The watcher runs on its own goroutine and only delivers; apply the
// options from the render loop:
//
//	w, err := gfx.WatchOptions("gfx.toml")
//	...
//	select {
//	case opts := <-w.C:
//		err = r.ChangeOptions(opts, false)
//	default:
//	}
type OptionsWatcher struct {
	// C receives the latest valid options. Older undelivered options are
	// replaced.
	C <-chan Options

	// Errors receives read and parse failures. Errors are dropped when
	// nobody receives them.
	Errors <-chan error

	path  string
	w     *fsnotify.Watcher
	opts  chan Options
	errs  chan error
	done  chan struct{}
	ended chan struct{}
}

// WatchOptions starts watching path. The directory is watched rather than
// the file so editors that replace the file are followed.
func WatchOptions(path string) (*OptionsWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if _, err := formatOf(abs); err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("gfx: watch options: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("gfx: watch options: %w", err)
	}
	w := &OptionsWatcher{
		path:  abs,
		w:     fw,
		opts:  make(chan Options, 1),
		errs:  make(chan error, 1),
		done:  make(chan struct{}),
		ended: make(chan struct{}),
	}
	w.C, w.Errors = w.opts, w.errs
	go w.run()
	return w, nil
}

func (w *OptionsWatcher) run() {
	defer close(w.ended)
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.w.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			opts, err := LoadOptions(w.path)
			if err != nil {
				w.report(err)
				continue
			}
			slogger().Debug("gfx: options file changed", "path", w.path)
			w.deliver(opts)
		case err, ok := <-w.w.Errors:
			if !ok {
				return
			}
			w.report(err)
		}
	}
}

func (w *OptionsWatcher) deliver(opts Options) {
	for {
		select {
		case w.opts <- opts:
			return
		default:
		}
		select {
		case <-w.opts:
		default:
		}
	}
}

func (w *OptionsWatcher) report(err error) {
	slogger().Warn("gfx: options reload failed", "path", w.path, "error", err)
	select {
	case w.errs <- err:
	default:
	}
}

// Close stops the watcher and waits for its goroutine.
func (w *OptionsWatcher) Close() error {
	select {
	case <-w.done:
		return nil
	default:
	}
	close(w.done)
	err := w.w.Close()
	<-w.ended
	return err
}
