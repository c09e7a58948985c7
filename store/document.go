package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/vinayprograms/resumekit/errors"
	"github.com/vinayprograms/resumekit/resume"
)

// Entry is one resume in the document, keyed by its id.
type Entry struct {
	ID     string
	Resume resume.PlainResume
}

// Encode renders entries as an indented JSON object in the given order.
// HTML characters and non-ASCII text are written literally.
func Encode(entries []Entry) ([]byte, error) {
	if len(entries) == 0 {
		return []byte("{}\n"), nil
	}

	var buf bytes.Buffer
	buf.WriteString("{\n")
	for i, e := range entries {
		key, err := encodeValue(e.ID, "")
		if err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrCodeInternal, "encode key", errors.WithResumeID(e.ID))
		}
		val, err := encodeValue(e.Resume, "  ")
		if err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrCodeInternal, "encode resume", errors.WithResumeID(e.ID))
		}
		buf.WriteString("  ")
		buf.Write(key)
		buf.WriteString(": ")
		buf.Write(val)
		if i < len(entries)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	buf.WriteString("}\n")
	return buf.Bytes(), nil
}

func encodeValue(v interface{}, prefix string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent(prefix, "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Decode parses a document, keeping the key order of the file. A key that
// appears twice keeps its first position and its last value.
//
// Malformed JSON yields a CORRUPTION error; a resume without a required key
// yields a MISSING_FIELD error carrying the resume id.
func Decode(data []byte) ([]Entry, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrCodeCorruption, "read document")
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errors.Corruption("document is not a JSON object")
	}

	var entries []Entry
	index := make(map[string]int)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrCodeCorruption, "read key")
		}
		id, ok := tok.(string)
		if !ok {
			return nil, errors.Corruption(fmt.Sprintf("unexpected token %v", tok))
		}

		var p resume.PlainResume
		if err := dec.Decode(&p); err != nil {
			if errors.Is(err, errors.ErrCodeMissingField) {
				return nil, errors.Wrap(err, fmt.Sprintf("decode resume %q", id), errors.WithResumeID(id))
			}
			return nil, errors.WrapWithCode(err, errors.ErrCodeCorruption,
				fmt.Sprintf("decode resume %q", id), errors.WithResumeID(id))
		}

		if i, dup := index[id]; dup {
			entries[i].Resume = p
			continue
		}
		index[id] = len(entries)
		entries = append(entries, Entry{ID: id, Resume: p})
	}

	if _, err := dec.Token(); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrCodeCorruption, "read document end")
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.Corruption("trailing data after document")
	}
	return entries, nil
}
