package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"repairshop-backend/internal/parse"
)

// StringList is an ordered list of non-blank strings persisted as a single
// delimited TEXT column (see parse.JoinList).
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	return parse.JoinList(l), nil
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*l = StringList{}
	case string:
		*l = parse.SplitList(v)
	case []byte:
		*l = parse.SplitList(string(v))
	default:
		return fmt.Errorf("cannot scan %T into StringList", src)
	}
	return nil
}

// GormDataType pins the column type on every dialect.
func (StringList) GormDataType() string {
	return "text"
}

// MarshalJSON renders a nil list as [] rather than null.
func (l StringList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(l))
}
