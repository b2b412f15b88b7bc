package catalog

import (
	"bytes"
	"encoding/json"
	"maps"
	"slices"
)

// The document is shared with other tools, so members this package does not
// model are kept in Extra and written back. Extra also holds modelled members
// whose empty value the struct would omit (an empty "genres" list, a blank
// "studio"), so they survive a round trip as well.

func (d Document) MarshalJSON() ([]byte, error) {
	type plain Document
	return encodeWithExtra(plain(d), d.Extra)
}

func (d *Document) UnmarshalJSON(data []byte) error {
	type plain Document
	var p plain
	extra, err := decodeWithExtra(data, &p)
	if err != nil {
		return err
	}
	*d = Document(p)
	d.Extra = extra
	return nil
}

func (s Series) MarshalJSON() ([]byte, error) {
	type plain Series
	return encodeWithExtra(plain(s), s.Extra)
}

func (s *Series) UnmarshalJSON(data []byte) error {
	type plain Series
	var p plain
	extra, err := decodeWithExtra(data, &p)
	if err != nil {
		return err
	}
	*s = Series(p)
	s.Extra = extra
	return nil
}

func (i Images) MarshalJSON() ([]byte, error) {
	type plain Images
	return encodeWithExtra(plain(i), i.Extra)
}

func (i *Images) UnmarshalJSON(data []byte) error {
	type plain Images
	var p plain
	extra, err := decodeWithExtra(data, &p)
	if err != nil {
		return err
	}
	*i = Images(p)
	i.Extra = extra
	return nil
}

func (s Season) MarshalJSON() ([]byte, error) {
	type plain Season
	return encodeWithExtra(plain(s), s.Extra)
}

func (s *Season) UnmarshalJSON(data []byte) error {
	type plain Season
	var p plain
	extra, err := decodeWithExtra(data, &p)
	if err != nil {
		return err
	}
	*s = Season(p)
	s.Extra = extra
	return nil
}

func (e Episode) MarshalJSON() ([]byte, error) {
	type plain Episode
	return encodeWithExtra(plain(e), e.Extra)
}

func (e *Episode) UnmarshalJSON(data []byte) error {
	type plain Episode
	var p plain
	extra, err := decodeWithExtra(data, &p)
	if err != nil {
		return err
	}
	*e = Episode(p)
	e.Extra = extra
	return nil
}

func (s Source) MarshalJSON() ([]byte, error) {
	type plain Source
	return encodeWithExtra(plain(s), s.Extra)
}

func (s *Source) UnmarshalJSON(data []byte) error {
	type plain Source
	var p plain
	extra, err := decodeWithExtra(data, &p)
	if err != nil {
		return err
	}
	*s = Source(p)
	s.Extra = extra
	return nil
}

// decodeWithExtra decodes data into v and returns the members of data that
// encoding v does not reproduce.
func decodeWithExtra[T any](data []byte, v *T) (map[string]json.RawMessage, error) {
	if err := json.Unmarshal(data, v); err != nil {
		return nil, err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil || len(raw) == 0 {
		return nil, err
	}
	encoded, err := encodeCompact(*v)
	if err != nil {
		return nil, err
	}
	written, err := memberNames(encoded)
	if err != nil {
		return nil, err
	}

	var extra map[string]json.RawMessage
	for k, val := range raw {
		if _, ok := written[k]; ok {
			continue
		}
		if extra == nil {
			extra = make(map[string]json.RawMessage)
		}
		extra[k] = val
	}
	return extra, nil
}

// encodeWithExtra encodes v and appends the Extra members it did not write,
// in key order.
func encodeWithExtra(v any, extra map[string]json.RawMessage) ([]byte, error) {
	obj, err := encodeCompact(v)
	if err != nil || len(extra) == 0 {
		return obj, err
	}
	written, err := memberNames(obj)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.Write(obj[:len(obj)-1])
	n := len(written)
	for _, k := range slices.Sorted(maps.Keys(extra)) {
		if _, ok := written[k]; ok {
			continue
		}
		key, err := encodeCompact(k)
		if err != nil {
			return nil, err
		}
		if n > 0 {
			buf.WriteByte(',')
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(extra[k])
		n++
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// encodeCompact marshals v without escaping HTML characters.
func encodeCompact(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte{'\n'}), nil
}

func memberNames(obj []byte) (map[string]json.RawMessage, error) {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(obj, &m); err != nil {
		return nil, err
	}
	return m, nil
}
