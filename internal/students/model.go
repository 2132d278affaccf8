package students

import "database/sql"

// Student is one row of the students table. The id is admin-assigned, not
// auto-generated. PasswordHash and RegCode stay NULL until/after activation
// respectively: a fresh row carries a code and no hash, an activated row the
// opposite.
type Student struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash sql.NullString
	RegCode      sql.NullString
	Active       bool
}
