package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// StringList is an ordered list of strings persisted as JSON text.
// Decoding accepts either a JSON array or a string; a string that itself
// holds a JSON array is unpacked, any other string becomes a one-element list.
type StringList []string

// ParseStringList applies the same rules as UnmarshalJSON to raw text.
func ParseStringList(s string) StringList {
	s = strings.TrimSpace(s)
	if s == "" {
		return StringList{}
	}
	if strings.HasPrefix(s, "[") {
		var out []string
		if err := json.Unmarshal([]byte(s), &out); err == nil {
			return StringList(out)
		}
	}
	return StringList{s}
}

func (l *StringList) UnmarshalJSON(data []byte) error {
	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		*l = arr
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*l = ParseStringList(s)
		return nil
	}
	if string(data) == "null" {
		*l = nil
		return nil
	}
	return fmt.Errorf("string list: unsupported JSON %s", string(data))
}

func (l StringList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(l))
}

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*l = StringList{}
	case []byte:
		*l = ParseStringList(string(v))
	case string:
		*l = ParseStringList(v)
	default:
		return fmt.Errorf("string list: cannot scan %T", src)
	}
	return nil
}

// First returns the first element or "".
func (l StringList) First() string {
	if len(l) == 0 {
		return ""
	}
	return l[0]
}
