package model

import (
	"database/sql/driver"
	"errors"
	"fmt"
)

// JSON maps an opaque JSON document onto a jsonb column. Payloads are
// stored verbatim; the API never inspects them outside of SQL.
type JSON []byte

// Value implements driver.Valuer so gorm binds the column as jsonb text
func (j JSON) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return string(j), nil
}

// Scan implements sql.Scanner
func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		*j = append((*j)[0:0], v...)
	case string:
		*j = JSON(v)
	default:
		return errors.New("unsupported type for jsonb column")
	}
	return nil
}

// GormDataType tells AutoMigrate which column type to create
func (JSON) GormDataType() string {
	return "jsonb"
}

// MarshalJSON returns the raw document
func (j JSON) MarshalJSON() ([]byte, error) {
	if len(j) == 0 {
		return []byte("null"), nil
	}
	return j, nil
}

// UnmarshalJSON stores the raw document
func (j *JSON) UnmarshalJSON(data []byte) error {
	if j == nil {
		return fmt.Errorf("model.JSON: UnmarshalJSON on nil pointer")
	}
	*j = append((*j)[0:0], data...)
	return nil
}
