package user

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
)

// Document is the whole users mapping: user ID -> record list. It keeps the
// IDs in insertion order, since the export format and suggestion lists depend
// on that order surviving a save/load round trip.
type Document struct {
	ids     []string
	records map[string][]Record
}

func NewDocument() Document {
	return Document{
		ids:     make([]string, 0),
		records: make(map[string][]Record),
	}
}

// Get returns the record list for id. The second value reports whether the
// user exists; an existing user may own an empty list.
func (d Document) Get(id string) ([]Record, bool) {
	recs, ok := d.records[id]
	return recs, ok
}

// Set stores the record list for id, registering the id as last in iteration
// order when it is new.
func (d *Document) Set(id string, recs []Record) {
	if d.records == nil {
		d.records = make(map[string][]Record)
	}
	if _, ok := d.records[id]; !ok {
		d.ids = append(d.ids, id)
	}
	if recs == nil {
		recs = make([]Record, 0)
	}
	d.records[id] = recs
}

// IDs returns the user IDs in insertion order.
func (d Document) IDs() []string {
	res := make([]string, len(d.ids))
	copy(res, d.ids)
	return res
}

func (d Document) Len() int {
	return len(d.ids)
}

// Clone deep-copies the document so that callers cannot alias the stored
// record lists.
func (d Document) Clone() Document {
	res := NewDocument()
	for _, id := range d.ids {
		recs := make([]Record, len(d.records[id]))
		copy(recs, d.records[id])
		res.Set(id, recs)
	}
	return res
}

// MarshalJSON encodes the document as a plain JSON object, emitting keys in
// insertion order.
func (d Document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, id := range d.ids {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(id)
		if err != nil {
			return nil, errors.Wrap(err, "marshal document")
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(d.records[id])
		if err != nil {
			return nil, errors.Wrap(err, "marshal document")
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, preserving the key order of the input.
// encoding/json loses object order when decoding into a map, so the keys are
// walked with a token decoder instead.
func (d *Document) UnmarshalJSON(data []byte) error {
	*d = NewDocument()

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return errors.Wrap(err, "unmarshal document")
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("unmarshal document: expected object")
	}

	for dec.More() {
		tok, err = dec.Token()
		if err != nil {
			return errors.Wrap(err, "unmarshal document")
		}
		id, ok := tok.(string)
		if !ok {
			return errors.New("unmarshal document: expected string key")
		}
		var recs []Record
		if err = dec.Decode(&recs); err != nil {
			return errors.Wrap(err, "unmarshal document")
		}
		d.Set(id, recs)
	}

	_, err = dec.Token()
	return errors.Wrap(err, "unmarshal document")
}
