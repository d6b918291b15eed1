package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Genres is an ordered list of genre tags. It is stored as a JSON array inside a single text column so the order
// submitted by the user survives a round trip through the database.
type Genres []string

// Value implements driver.Valuer
func (g Genres) Value() (driver.Value, error) {
	if g == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(g))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (g *Genres) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*g = Genres{}
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("Scan: cannot convert %T to Genres", src)
	}
	if len(raw) == 0 {
		*g = Genres{}
		return nil
	}
	var lst []string
	if err := json.Unmarshal(raw, &lst); err != nil {
		return fmt.Errorf("Scan: stored genres are no valid JSON list: %v", err)
	}
	if lst == nil {
		lst = []string{}
	}
	*g = Genres(lst)
	return nil
}
