package headers

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"
)

// ErrRecordType is returned when a record's value does not match its kind.
var ErrRecordType = errors.New("headers: record value does not match its type")

// Kind tags the value held by a Record.
type Kind uint8

const (
	KindString Kind = iota + 1
	KindNumber
	KindBool
	KindDate
	KindJSON
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "boolean"
	case KindDate:
		return "date"
	case KindJSON:
		return "json"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// ParseKind resolves a kind by its wire name.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "string":
		return KindString, nil
	case "number":
		return KindNumber, nil
	case "boolean":
		return KindBool, nil
	case "date":
		return KindDate, nil
	case "json":
		return KindJSON, nil
	default:
		return 0, fmt.Errorf("%w: unknown type %q", ErrRecordType, s)
	}
}

// Record is one keyed, typed piece of metadata. Build it with String,
// Number, Bool, Date or JSON so the value always matches the kind.
type Record struct {
	Key   string
	kind  Kind
	value any
}

// String returns a string record.
func String(key, v string) Record { return Record{Key: key, kind: KindString, value: v} }

// Number returns a numeric record.
func Number(key string, v float64) Record { return Record{Key: key, kind: KindNumber, value: v} }

// Bool returns a boolean record.
func Bool(key string, v bool) Record { return Record{Key: key, kind: KindBool, value: v} }

// Date returns a timestamp record.
func Date(key string, v time.Time) Record { return Record{Key: key, kind: KindDate, value: v} }

// JSON returns a record holding arbitrary JSON-compatible data.
func JSON(key string, v any) Record { return Record{Key: key, kind: KindJSON, value: v} }

// Kind returns the record's type tag.
func (r Record) Kind() Kind { return r.kind }

// Value returns the untyped value.
func (r Record) Value() any { return r.value }

// AsString returns the value of a string record.
func (r Record) AsString() (string, bool) {
	s, ok := r.value.(string)
	return s, ok && r.kind == KindString
}

// AsNumber returns the value of a numeric record.
func (r Record) AsNumber() (float64, bool) {
	f, ok := r.value.(float64)
	return f, ok && r.kind == KindNumber
}

// AsBool returns the value of a boolean record.
func (r Record) AsBool() (bool, bool) {
	b, ok := r.value.(bool)
	return b, ok && r.kind == KindBool
}

// AsDate returns the value of a date record.
func (r Record) AsDate() (time.Time, bool) {
	t, ok := r.value.(time.Time)
	return t, ok && r.kind == KindDate
}

// Validate reports whether the value's dynamic type matches the kind.
func (r Record) Validate() error {
	var ok bool
	switch r.kind {
	case KindString:
		_, ok = r.value.(string)
	case KindNumber:
		_, ok = r.value.(float64)
	case KindBool:
		_, ok = r.value.(bool)
	case KindDate:
		_, ok = r.value.(time.Time)
	case KindJSON:
		ok = true
	}
	if !ok {
		return fmt.Errorf("%w: key %q has %s with value %T", ErrRecordType, r.Key, r.kind, r.value)
	}
	return nil
}

// String renders the value for display.
func (r Record) String() string {
	switch v := r.value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case time.Time:
		return v.Format(time.RFC3339)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(b)
	}
}

// RecordDoc is the serialized form of a Record: {"key", "type", "value"}.
// Dates are RFC 3339 strings.
type RecordDoc struct {
	Key   string `json:"key" msgpack:"key"`
	Type  string `json:"type" msgpack:"type"`
	Value any    `json:"value" msgpack:"value"`
}

// Doc converts r to its serialized form.
func (r Record) Doc() RecordDoc {
	v := r.value
	if t, ok := v.(time.Time); ok {
		v = t.Format(time.RFC3339Nano)
	}
	return RecordDoc{Key: r.Key, Type: r.kind.String(), Value: v}
}

// FromDoc rebuilds a Record, normalising decoder-specific number types.
func FromDoc(d RecordDoc) (Record, error) {
	kind, err := ParseKind(d.Type)
	if err != nil {
		return Record{}, err
	}
	switch kind {
	case KindString:
		s, ok := d.Value.(string)
		if !ok {
			return Record{}, fmt.Errorf("%w: key %q: string value is %T", ErrRecordType, d.Key, d.Value)
		}
		return String(d.Key, s), nil
	case KindNumber:
		f, ok := toFloat(d.Value)
		if !ok {
			return Record{}, fmt.Errorf("%w: key %q: number value is %T", ErrRecordType, d.Key, d.Value)
		}
		return Number(d.Key, f), nil
	case KindBool:
		b, ok := d.Value.(bool)
		if !ok {
			return Record{}, fmt.Errorf("%w: key %q: boolean value is %T", ErrRecordType, d.Key, d.Value)
		}
		return Bool(d.Key, b), nil
	case KindDate:
		s, ok := d.Value.(string)
		if !ok {
			return Record{}, fmt.Errorf("%w: key %q: date value is %T", ErrRecordType, d.Key, d.Value)
		}
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return Record{}, fmt.Errorf("%w: key %q: %w", ErrRecordType, d.Key, err)
		}
		return Date(d.Key, t), nil
	default:
		return JSON(d.Key, d.Value), nil
	}
}

// MarshalJSON implements json.Marshaler.
func (r Record) MarshalJSON() ([]byte, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(r.Doc())
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Record) UnmarshalJSON(b []byte) error {
	var d RecordDoc
	if err := json.Unmarshal(b, &d); err != nil {
		return err
	}
	rec, err := FromDoc(d)
	if err != nil {
		return err
	}
	*r = rec
	return nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
