package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// User represents a user in the system
type User struct {
	ID        string    `db:"id" json:"id" bson:"_id"`
	Email     string    `db:"email" json:"email" bson:"email"`
	Name      string    `db:"name" json:"name" bson:"name"`
	Password  string    `db:"password" json:"-" bson:"password"` // Password hash, not returned in JSON
	CreatedAt time.Time `db:"created_at" json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt" bson:"updatedAt"`
}

// SourceReference pairs the provider id of a spreadsheet with the URL it was
// registered from. SourceID is derived once at creation and never recomputed.
type SourceReference struct {
	SourceID  string `db:"source_id" json:"sourceId" bson:"sourceId"`
	SourceURL string `db:"source_url" json:"sourceUrl" bson:"sourceUrl"`
}

// Table is a spreadsheet registered by a user together with its last
// normalized contents.
type Table struct {
	ID          string          `db:"id" json:"id" bson:"_id"`
	Name        string          `db:"name" json:"name" bson:"name"`
	Source      SourceReference `db:"-" json:"source" bson:"source"`
	Columns     Columns         `db:"columns" json:"columns" bson:"columns"`
	Data        Records         `db:"data" json:"data" bson:"data"`
	Owner       string          `db:"owner" json:"owner" bson:"owner"`
	CreatedAt   time.Time       `db:"created_at" json:"createdAt" bson:"createdAt"`
	LastUpdated time.Time       `db:"last_updated" json:"lastUpdated" bson:"lastUpdated"`
}

// Clone returns a deep copy of the table
func (t *Table) Clone() *Table {
	c := *t
	c.Columns = t.Columns.Clone()
	c.Data = t.Data.Clone()
	return &c
}

// Columns is the ordered list of column labels of a table
type Columns []string

// Clone returns a copy that shares no memory with c
func (c Columns) Clone() Columns {
	out := make(Columns, len(c))
	copy(out, c)
	return out
}

// Value implements driver.Valuer, storing the columns as a JSON array
func (c Columns) Value() (driver.Value, error) {
	if c == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(c))
}

// Scan implements sql.Scanner
func (c *Columns) Scan(src interface{}) error {
	return scanJSON(src, c)
}

// Record maps a column label to a non-blank cell value. Blank cells are
// absent from the map rather than stored as "".
type Record map[string]string

// Records is the ordered data of a table, one Record per kept source row
type Records []Record

// Clone returns a deep copy of the records
func (r Records) Clone() Records {
	out := make(Records, len(r))
	for i, rec := range r {
		cp := make(Record, len(rec))
		for k, v := range rec {
			cp[k] = v
		}
		out[i] = cp
	}
	return out
}

// Value implements driver.Valuer, storing the records as a JSON array of objects
func (r Records) Value() (driver.Value, error) {
	if r == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]Record(r))
}

// Scan implements sql.Scanner
func (r *Records) Scan(src interface{}) error {
	return scanJSON(src, r)
}

func scanJSON(src interface{}, dst interface{}) error {
	var b []byte
	switch v := src.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	case nil:
		b = []byte("[]")
	default:
		return fmt.Errorf("unsupported type %T for JSON column", src)
	}
	return json.Unmarshal(b, dst)
}
