package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// JSONMap stores loosely-typed record fields as a JSON column.
type JSONMap map[string]interface{}

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for JSONMap: %T", value)
	}
	return json.Unmarshal(data, m)
}

// Record is one document in a named collection. IDs are generated by the
// store; CreatedAt/UpdatedAt are server-assigned.
// swagger:model Record
type Record struct {
	ID         string    `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Collection string    `gorm:"index;size:64;not null" json:"collection"`
	Fields     JSONMap   `gorm:"type:json" json:"fields"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (Record) TableName() string {
	return "records"
}

// Decode unmarshals the record fields into a typed value.
func (r *Record) Decode(v interface{}) error {
	if r == nil {
		return errors.New("cannot decode nil record")
	}
	data, err := json.Marshal(r.Fields)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// Fields flattens a typed value into a record field map. Identity and
// creation-time keys are owned by the store and stripped here so a write can
// never smuggle them in.
func Fields(v interface{}) (map[string]interface{}, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	delete(m, "id")
	delete(m, "createdAt")
	return m, nil
}
