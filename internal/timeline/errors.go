package timeline

import (
	"fmt"

	"github.com/dmitrijs2005/microblog/internal/common"
)

// IntegrityError reports a reference to a record that does not exist, such
// as a post id in a timeline without its post hash. It matches
// common.ErrIntegrity under errors.Is.
type IntegrityError struct {
	Kind string // "post" or "user"
	ID   string // the missing record
	Ref  string // where the dangling reference was found
	Err  error  // optional cause
}

func (e *IntegrityError) Error() string {
	msg := fmt.Sprintf("integrity fault: %s %s referenced by %s has no record", e.Kind, e.ID, e.Ref)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *IntegrityError) Unwrap() []error {
	if e.Err != nil {
		return []error{common.ErrIntegrity, e.Err}
	}
	return []error{common.ErrIntegrity}
}
