// Package fs writes records and run summaries to the local filesystem.
package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/rexcrawl"
)

// Ensure RecordWriter implements rexcrawl.RecordWriter at compile time.
var _ rexcrawl.RecordWriter = (*RecordWriter)(nil)

// RecordWriter writes one text file per record into a directory.
//
// Two different URLs never share a file: when a filename is already held by
// another URL, either earlier in the run or by a file left from a previous
// run, the later record gets a suffix derived from its URL hash. Rewriting
// the same URL replaces its file.
type RecordWriter struct {
	dir string

	mu     sync.Mutex
	owners map[string]string // filename -> URL
}

// NewRecordWriter creates a RecordWriter that writes into dir.
func NewRecordWriter(dir string) *RecordWriter {
	return &RecordWriter{
		dir:    dir,
		owners: make(map[string]string),
	}
}

// WriteRecord writes the record and returns the path of the file.
// The file appears complete or not at all.
func (w *RecordWriter) WriteRecord(ctx context.Context, r *rexcrawl.Record) (string, error) {
	if err := r.Validate(); err != nil {
		return "", err
	}

	content, err := FormatRecord(r)
	if err != nil {
		return "", rexcrawl.WrapError(rexcrawl.EWRITE, err, "format %s", r.URL)
	}

	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return "", rexcrawl.WrapError(rexcrawl.EWRITE, err, "create output directory")
	}

	filename, release := w.claim(r.Name, r.URL)
	path := filepath.Join(w.dir, filename)
	if err := writeFileAtomic(path, []byte(content)); err != nil {
		release()
		return "", rexcrawl.WrapError(rexcrawl.EWRITE, err, "write %s", path)
	}
	return path, nil
}

// claim picks the filename for url and reserves it. The returned func drops
// a fresh reservation again and must be called when the write fails.
func (w *RecordWriter) claim(name, url string) (string, func()) {
	w.mu.Lock()
	defer w.mu.Unlock()

	filename := rexcrawl.Filename(name)
	if owner := w.owner(filename); owner != "" && owner != url {
		filename = fmt.Sprintf("%s_%08x.txt", rexcrawl.FilenameStem(name), uint32(xxhash.Sum64String(url)))
	}
	if _, held := w.owners[filename]; held {
		return filename, func() {}
	}
	w.owners[filename] = url
	return filename, func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		delete(w.owners, filename)
	}
}

// owner returns the URL that holds filename, consulting the file on disk
// when the name has not been used in this run.
func (w *RecordWriter) owner(filename string) string {
	if url, ok := w.owners[filename]; ok {
		return url
	}
	data, err := os.ReadFile(filepath.Join(w.dir, filename))
	if err != nil {
		return ""
	}
	meta, err := ParseMetadata(data)
	if err != nil {
		return ""
	}
	return meta.URL
}

// writeFileAtomic writes data to a temporary file in the target directory
// and renames it into place.
func writeFileAtomic(path string, data []byte) error {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer os.Remove(tmp)

	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
