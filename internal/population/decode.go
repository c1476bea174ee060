// Package population decodes registry snapshots and wraps population sources
// with the caller-side bounds every search applies.
package population

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"dnamatch/internal/domain"
)

// Envelope key holding the record list.
const Key = "population"

var errShape = errors.New("API response is not in the expected format")

// Decode reads a registry document: a JSON object whose "population" key holds
// an array of record objects. Any other shape is an upstream failure, never a
// matching error. Scalar fields that are not strings (numeric national IDs,
// for instance) are rendered to text; a null or non-string DNA_sequence
// counts as absent.
func Decode(r io.Reader) ([]domain.PopulationRecord, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var doc map[string]json.RawMessage
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w (%v)", errShape, err)
	}
	raw, ok := doc[Key]
	if !ok {
		return nil, errShape
	}
	var entries []map[string]any
	inner := json.NewDecoder(bytes.NewReader(raw))
	inner.UseNumber()
	if err := inner.Decode(&entries); err != nil {
		return nil, fmt.Errorf("%w (%v)", errShape, err)
	}
	out := make([]domain.PopulationRecord, 0, len(entries))
	for _, e := range entries {
		out = append(out, recordFromMap(e))
	}
	return out, nil
}

func recordFromMap(m map[string]any) domain.PopulationRecord {
	rec := domain.PopulationRecord{
		Name:        text(m["name"]),
		Status:      domain.Status(text(m["status"])),
		Description: text(m["description"]),
		CreatedAt:   text(m["createdAt"]),
		UpdatedAt:   text(m["updatedAt"]),
		Address:     text(m["address"]),
		NationalID:  text(m["national_id"]),
		Phone:       text(m["phone"]),
		Gender:      text(m["gender"]),
		Birthdate:   text(m["birthdate"]),
		BloodType:   text(m["bloodType"]),
	}
	if s, ok := m["DNA_sequence"].(string); ok {
		rec.Sequence = &s
	}
	return rec
}

func text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	}
}
