package arff

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// streamSink is the exclusively-owned live output resource of a
// streaming dataset. The header is flushed synchronously at open, and
// every appended row is flushed immediately so a consumer tailing the
// file sees rows promptly.
type streamSink struct {
	f      *os.File
	w      *bufio.Writer
	path   string
	frozen string // schema fingerprint captured at open
}

// tempStreamPath allocates a fresh file location in the OS temp
// directory. UUIDv7 names are time-sortable, which keeps concurrent
// exports from colliding and easy to correlate.
func tempStreamPath() string {
	return filepath.Join(os.TempDir(), "arff-"+uuid.Must(uuid.NewV7()).String()+".arff")
}

// OpenStream switches the dataset to the streaming regime. The header
// is serialized and flushed immediately, freezing the schema; any rows
// already retained in memory are written out and released. When path
// is empty a temporary file is allocated.
//
// classAttr, when non-empty, designates the class attribute before the
// header is written.
func (d *Dataset) OpenStream(classAttr, path string) error {
	if d.sink != nil {
		return fmt.Errorf("stream already open on %s", d.sink.path)
	}
	if classAttr != "" {
		if err := d.Schema.SetClass(classAttr); err != nil {
			return err
		}
	}
	if path == "" {
		path = tempStreamPath()
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("open stream %s: %w", path, err)
	}
	w := bufio.NewWriter(f)
	if err := d.writeHeader(w); err != nil {
		f.Close()
		return err
	}
	fmt.Fprintln(w, "@data")

	sink := &streamSink{f: f, w: w, path: path, frozen: d.Schema.Fingerprint()}
	d.sink = sink

	// Rows buffered before the stream opened are flushed through the
	// sink and not retained: the streaming regime holds no rows.
	for _, row := range d.rows {
		if err := d.streamRow(row); err != nil {
			return err
		}
	}
	d.rows = nil
	return d.Flush()
}

// streamRow serializes one row through the sparse writer and flushes.
// Rows that serialize to nothing are dropped, never written as empty
// records.
func (d *Dataset) streamRow(row Row) error {
	line, ok, err := d.sparseLine(row)
	if err != nil {
		return err
	}
	if ok {
		fmt.Fprintln(d.sink.w, line)
	}
	return d.Flush()
}

// Flush forces buffered bytes to the sink. A no-op for in-memory
// datasets.
func (d *Dataset) Flush() error {
	if d.sink == nil {
		return nil
	}
	return d.sink.w.Flush()
}

// CloseStream flushes and releases the sink, returning the location
// of the streamed file. Closing is the only way to guarantee all
// buffered bytes are durable. Closing a dataset with no open stream
// is a no-op.
func (d *Dataset) CloseStream() (string, error) {
	if d.sink == nil {
		return "", nil
	}
	sink := d.sink
	d.sink = nil

	var err error
	if sink.frozen != d.Schema.Fingerprint() {
		err = errorf(ErrCodeFrozenSchema, 0, "",
			"schema mutated after the header was flushed to %s", sink.path)
	}
	if ferr := sink.w.Flush(); err == nil && ferr != nil {
		err = ferr
	}
	if cerr := sink.f.Close(); err == nil && cerr != nil {
		err = cerr
	}
	return sink.path, err
}
