package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// JSONMap is a freeform jsonb column (activity metadata, draft forms).
type JSONMap map[string]interface{}

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = JSONMap{}
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		s, ok := value.(string)
		if !ok {
			return errors.New("unsupported type for JSONMap")
		}
		b = []byte(s)
	}
	return json.Unmarshal(b, m)
}
