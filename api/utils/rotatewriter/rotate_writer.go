// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package rotatewriter writes API request logs to size capped files.
package rotatewriter

import (
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// Writer appends to the newest log file in a directory and opens a new one
// once the size cap would be exceeded. Only the newest maxNumFiles files are
// kept.
//
// It's thread-safe.
type Writer struct {
	dir         string
	baseName    string
	maxFileSize int64
	maxNumFiles int

	mu      sync.Mutex
	current *os.File
	size    int64
}

// Option configures a Writer.
type Option func(*Writer)

func WithDir(dir string) Option           { return func(w *Writer) { w.dir = dir } }
func WithFileBaseName(name string) Option { return func(w *Writer) { w.baseName = name } }
func WithFileMaxSize(size int64) Option   { return func(w *Writer) { w.maxFileSize = size } }
func WithMaxNumberFiles(n int) Option     { return func(w *Writer) { w.maxNumFiles = n } }

// New creates a writer. Start must be called before writing.
func New(opts ...Option) (*Writer, error) {
	w := &Writer{
		baseName:    "api",
		maxFileSize: 100 * 1024 * 1024,
		maxNumFiles: 10,
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.dir == "" {
		return nil, errors.New("log dir required")
	}
	if w.maxFileSize <= 0 {
		return nil, errors.New("max file size must be positive")
	}
	return w, nil
}

// Start creates the log dir and opens the first file.
func (w *Writer) Start() error {
	if err := os.MkdirAll(w.dir, 0o700); err != nil {
		return errors.Wrap(err, "create log dir")
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.rotate()
}

func (w *Writer) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.current == nil {
		return 0, io.ErrClosedPipe
	}
	if w.size > 0 && w.size+int64(len(p)) > w.maxFileSize {
		if err := w.rotate(); err != nil {
			return 0, err
		}
	}
	n, err := w.current.Write(p)
	w.size += int64(n)
	return n, err
}

// Close closes the current file.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.current == nil {
		return nil
	}
	err := w.current.Close()
	w.current = nil
	return err
}

// CurrentFile returns the path of the file being written.
func (w *Writer) CurrentFile() string {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.current == nil {
		return ""
	}
	return w.current.Name()
}

func (w *Writer) rotate() error {
	if w.current != nil {
		if err := w.current.Close(); err != nil {
			return errors.Wrap(err, "close log file")
		}
		w.current = nil
	}

	// names sort by creation time
	path := filepath.Join(w.dir, w.baseName+"-"+time.Now().UTC().Format("2006-01-02T15-04-05.000000")+".log")
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return errors.Wrap(err, "create log file")
	}
	w.current = file
	w.size = 0
	return w.prune()
}

func (w *Writer) prune() error {
	if w.maxNumFiles <= 0 {
		return nil
	}
	files, err := filepath.Glob(filepath.Join(w.dir, w.baseName+"-*.log"))
	if err != nil {
		return err
	}
	sort.Strings(files)
	for i := 0; i < len(files)-w.maxNumFiles; i++ {
		if err := os.Remove(files[i]); err != nil {
			return errors.Wrap(err, "remove old log file")
		}
	}
	return nil
}
