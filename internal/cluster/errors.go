package cluster

import (
	"errors"
	"fmt"
)

// NotFoundError reports that a named entity is absent from the
// collaborator. During a build it means "skip this entity"; outside a
// build it surfaces to the caller.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// AmbiguousError reports that a name-based lookup matched more than one
// entity. Lookups fall back from id to name listing only on NotFound
// and must never pick an arbitrary match.
type AmbiguousError struct {
	Resource string
	Name     string
	Matches  int
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("%s name seems ambiguous: %s (%d matches)", e.Resource, e.Name, e.Matches)
}

// TransportError reports that the collaborator was unreachable or
// responded malformed. It aborts the surrounding rebuild.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsAmbiguous reports whether err is an AmbiguousError.
func IsAmbiguous(err error) bool {
	var amb *AmbiguousError
	return errors.As(err, &amb)
}
