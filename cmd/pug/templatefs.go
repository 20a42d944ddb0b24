// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// templateFS implements a file system that reads the files in a directory
// and reports, on the Changed channel, the names of the read files that
// have been changed or removed.
type templateFS struct {
	root    string
	fsys    fs.FS
	watcher *fsnotify.Watcher
	changed chan string
	errors  chan error

	sync.Mutex
	watched map[string]string // watched path -> file name
}

func newTemplateFS(root string) (*templateFS, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &templateFS{
		root:    root,
		fsys:    os.DirFS(root),
		watcher: watcher,
		watched: map[string]string{},
		changed: make(chan string),
		errors:  make(chan error),
	}, nil
}

// watch forwards the events of the watcher until ctx is done.
func (t *templateFS) watch(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-t.watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			t.Lock()
			name, ok := t.watched[event.Name]
			if ok && !event.Has(fsnotify.Write) {
				// The watch has been removed with the file.
				delete(t.watched, event.Name)
			}
			t.Unlock()
			if !ok {
				continue
			}
			select {
			case t.changed <- name:
			case <-ctx.Done():
				return nil
			}
		case err, ok := <-t.watcher.Errors:
			if !ok {
				return nil
			}
			select {
			case t.errors <- err:
			case <-ctx.Done():
				return nil
			}
		}
	}
}

// Changed returns the channel of the changed file names.
func (t *templateFS) Changed() <-chan string {
	return t.changed
}

// Errors returns the channel of the watcher errors.
func (t *templateFS) Errors() <-chan error {
	return t.errors
}

func (t *templateFS) Close() error {
	return t.watcher.Close()
}

func (t *templateFS) Open(name string) (fs.File, error) {
	f, err := t.fsys.Open(name)
	if err != nil {
		return nil, err
	}
	if err = t.add(name); err != nil {
		_ = f.Close()
		return nil, err
	}
	return f, nil
}

func (t *templateFS) ReadFile(name string) ([]byte, error) {
	data, err := fs.ReadFile(t.fsys, name)
	if err != nil {
		return nil, err
	}
	if err = t.add(name); err != nil {
		return nil, err
	}
	return data, nil
}

// add adds the file name to the watched files.
func (t *templateFS) add(name string) error {
	path := filepath.Join(t.root, filepath.FromSlash(name))
	t.Lock()
	defer t.Unlock()
	if _, ok := t.watched[path]; ok {
		return nil
	}
	if err := t.watcher.Add(path); err != nil {
		return err
	}
	t.watched[path] = name
	return nil
}
