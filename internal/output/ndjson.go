package output

import (
	"encoding/json"
	"io"
)

// Record is one NDJSON output object.
type Record struct {
	Path  string `json:"path"`
	Match int    `json:"match"`
	Text  string `json:"text"`
}

// NDJSONWriter emits each written line as a Record on its own line.
type NDJSONWriter struct {
	lineSink
	enc   *json.Encoder
	path  string
	count int
}

func NewNDJSONWriter(w io.Writer, path string) *NDJSONWriter {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	n := &NDJSONWriter{enc: enc, path: path}
	n.emit = n.writeRecord
	return n
}

func (n *NDJSONWriter) writeRecord(line []byte) error {
	n.count++
	return n.enc.Encode(Record{Path: n.path, Match: n.count, Text: string(line)})
}

// Count returns the number of records written.
func (n *NDJSONWriter) Count() int {
	return n.count
}
