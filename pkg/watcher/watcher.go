// Songdex
// Copyright (c) 2026 The Songdex Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Songdex.
//
// Songdex is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Songdex is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Songdex.  If not, see <http://www.gnu.org/licenses/>.

// Package watcher keeps the index in sync with live filesystem changes.
// A notifier goroutine filters raw fsnotify events down to eligible sheet
// paths, and a single worker goroutine applies them in arrival order.
package watcher

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"

	"github.com/songdex/songdex-core/pkg/scanner"
)

const queueSize = 128

// Watcher watches a music tree recursively and forwards changed sheet
// paths, one at a time, to the apply callback.
type Watcher struct {
	fsw   *fsnotify.Watcher
	root  string
	queue chan string
	wg    sync.WaitGroup
}

// Start begins watching root and every subdirectory beneath it. For each
// created or removed sheet file, apply is called with the absolute path.
// The callback runs on a single goroutine so calls never overlap.
func Start(root string, apply func(path string)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	w := &Watcher{
		fsw:   fsw,
		root:  root,
		queue: make(chan string, queueSize),
	}

	if err := w.addDirsRecursive(root); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("failed to watch music dir: %w", err)
	}

	w.wg.Add(2)
	go w.notify()
	go w.work(apply)

	log.Info().Msgf("watching music dir: %s", root)
	return w, nil
}

// Close stops watching and waits for in-flight events to be applied.
func (w *Watcher) Close() error {
	err := w.fsw.Close()
	w.wg.Wait()
	return err
}

// addDirsRecursive registers dir and all subdirectories with fsnotify,
// skipping the same directories the scanner prunes.
func (w *Watcher) addDirsRecursive(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Debug().Err(err).Msgf("skipping unreadable entry: %s", path)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.root {
			name := filepath.Base(path)
			if strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			if name == scanner.MetaDirName && filepath.Dir(path) == w.root {
				return filepath.SkipDir
			}
		}
		if addErr := w.fsw.Add(path); addErr != nil {
			log.Warn().Err(addErr).Msgf("failed to watch dir: %s", path)
		}
		return nil
	})
}

// notify is the filter stage: it consumes raw fsnotify events and queues
// eligible sheet paths for the worker. It exits when the fsnotify watcher
// is closed.
func (w *Watcher) notify() {
	defer w.wg.Done()
	defer close(w.queue)
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Warn().Err(err).Msg("watch error")
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	switch {
	case ev.Op.Has(fsnotify.Create):
		info, err := os.Stat(ev.Name)
		if err != nil {
			// Gone already, treat as a removal.
			w.forward(ev.Name)
			return
		}
		if info.IsDir() {
			w.watchNewDir(ev.Name)
			return
		}
		w.forward(ev.Name)
	case ev.Op.Has(fsnotify.Write):
		// Content writes no-op at the worker (the row already exists),
		// but forwarding them keeps editors that replace files in place
		// covered.
		w.forward(ev.Name)
	case ev.Op.Has(fsnotify.Remove), ev.Op.Has(fsnotify.Rename):
		// Eligibility is decided from the path alone, so removed files
		// can still be classified.
		w.forward(ev.Name)
	}
	// Chmod events never change index contents.
}

// watchNewDir registers a directory created after Start, then forwards any
// sheet files already inside it. Editors and sync tools often create a
// directory and populate it before the watch takes effect.
func (w *Watcher) watchNewDir(dir string) {
	if err := w.addDirsRecursive(dir); err != nil {
		log.Warn().Err(err).Msgf("failed to watch new dir: %s", dir)
		return
	}
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		w.forward(path)
		return nil
	})
	if err != nil {
		log.Warn().Err(err).Msgf("failed to walk new dir: %s", dir)
	}
}

func (w *Watcher) forward(path string) {
	if !scanner.EligibleFile(w.root, path) {
		return
	}
	w.queue <- path
}

// work is the single consumer: events are applied strictly in the order
// they arrived.
func (w *Watcher) work(apply func(path string)) {
	defer w.wg.Done()
	for path := range w.queue {
		apply(path)
	}
}
