package auth

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind distinguishes the two principal variants. Authorization gates switch
// on this constant, never on raw strings taken from the wire.
type Kind string

const (
	KindAdmin   Kind = "admin"
	KindStudent Kind = "student"
)

// Principal is an authenticated actor: an administrator or a student.
type Principal struct {
	Kind Kind
	ID   int64
}

// Subject renders the session identity as "<kind>:<id>".
func (p Principal) Subject() string {
	return fmt.Sprintf("%s:%d", p.Kind, p.ID)
}

// ParseSubject inverts Subject. Any malformed input fails closed: bad shape,
// unknown kind, non-numeric or non-positive id all yield an error.
func ParseSubject(sub string) (Principal, error) {
	kindStr, idStr, ok := strings.Cut(sub, ":")
	if !ok {
		return Principal{}, fmt.Errorf("malformed subject")
	}
	kind := Kind(kindStr)
	if kind != KindAdmin && kind != KindStudent {
		return Principal{}, fmt.Errorf("unknown principal kind")
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		return Principal{}, fmt.Errorf("invalid principal id")
	}
	return Principal{Kind: kind, ID: id}, nil
}
