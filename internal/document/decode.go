package document

import (
	"encoding/json"
	"reflect"
	"strings"

	"github.com/spf13/cast"
)

// decodeFields decodes the JSON object data into the struct pointed to by
// dst one field at a time. A field whose value cannot be coerced to its Go
// type is left at its zero value, so one bad optional field never rejects
// the whole request. data must be a JSON object (or null).
func decodeFields(data []byte, dst any) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	rv := reflect.ValueOf(dst).Elem()
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		name, _, _ := strings.Cut(rt.Field(i).Tag.Get("json"), ",")
		if name == "" || name == "-" {
			continue
		}
		msg, ok := raw[name]
		if !ok {
			continue
		}
		if v, ok := decodeLoose(msg, rt.Field(i).Type); ok {
			rv.Field(i).Set(v)
		}
	}
	return nil
}

// decodeLoose decodes msg as type t, coercing where the strict decode
// fails: scalars become strings or bools via cast, a lone value where a
// list is expected becomes a one-element list, and list elements that do
// not decode are dropped.
func decodeLoose(msg json.RawMessage, t reflect.Type) (reflect.Value, bool) {
	ptr := reflect.New(t)
	if err := json.Unmarshal(msg, ptr.Interface()); err == nil {
		return ptr.Elem(), true
	}

	switch t.Kind() {
	case reflect.Ptr:
		v, ok := decodeLoose(msg, t.Elem())
		if !ok {
			return reflect.Value{}, false
		}
		p := reflect.New(t.Elem())
		p.Elem().Set(v)
		return p, true

	case reflect.Slice:
		var elems []json.RawMessage
		isList := json.Unmarshal(msg, &elems) == nil
		if !isList {
			elems = []json.RawMessage{msg}
		}
		out := reflect.MakeSlice(t, 0, len(elems))
		for _, e := range elems {
			if v, ok := decodeLoose(e, t.Elem()); ok {
				out = reflect.Append(out, v)
			}
		}
		if out.Len() == 0 && !isList {
			return reflect.Value{}, false
		}
		return out, true

	case reflect.String:
		var raw any
		if err := json.Unmarshal(msg, &raw); err != nil {
			return reflect.Value{}, false
		}
		s, err := cast.ToStringE(raw)
		if err != nil {
			return reflect.Value{}, false
		}
		return reflect.ValueOf(s).Convert(t), true

	case reflect.Bool:
		var raw any
		if err := json.Unmarshal(msg, &raw); err != nil {
			return reflect.Value{}, false
		}
		b, ok := looseBool(raw)
		if !ok {
			return reflect.Value{}, false
		}
		return reflect.ValueOf(b).Convert(t), true
	}
	return reflect.Value{}, false
}

// looseBool accepts JSON booleans, numbers and yes/no style strings.
func looseBool(v any) (bool, bool) {
	if s, ok := v.(string); ok {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "yes", "y", "on":
			return true, true
		case "no", "n", "off", "":
			return false, true
		}
	}
	b, err := cast.ToBoolE(v)
	return b, err == nil
}

// UnmarshalJSON decodes a note request, skipping fields of the wrong type.
func (r *NoteRequest) UnmarshalJSON(data []byte) error {
	type plain NoteRequest
	return decodeFields(data, (*plain)(r))
}

// UnmarshalJSON decodes an agenda request, skipping fields of the wrong type.
func (r *AgendaRequest) UnmarshalJSON(data []byte) error {
	type plain AgendaRequest
	return decodeFields(data, (*plain)(r))
}

func (m *MeetingInfo) UnmarshalJSON(data []byte) error {
	type plain MeetingInfo
	return decodeFields(data, (*plain)(m))
}

func (t *TodoReview) UnmarshalJSON(data []byte) error {
	type plain TodoReview
	return decodeFields(data, (*plain)(t))
}

func (h *Headline) UnmarshalJSON(data []byte) error {
	type plain Headline
	return decodeFields(data, (*plain)(h))
}

func (i *Issue) UnmarshalJSON(data []byte) error {
	type plain Issue
	return decodeFields(data, (*plain)(i))
}

func (n *NextMeeting) UnmarshalJSON(data []byte) error {
	type plain NextMeeting
	return decodeFields(data, (*plain)(n))
}

func (m *MeetingRating) UnmarshalJSON(data []byte) error {
	type plain MeetingRating
	return decodeFields(data, (*plain)(m))
}
