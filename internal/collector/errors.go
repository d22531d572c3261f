package collector

import (
	"errors"
	"fmt"
)

// UnavailableError reports that no model exists at all: the first-ever
// build failed before anything could be published. It is distinct from
// a refresh failure, after which the previous model remains the
// last-known-good snapshot.
type UnavailableError struct {
	Err error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("cluster model unavailable: %v", e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// IsUnavailable reports whether err means no model has ever been
// built.
func IsUnavailable(err error) bool {
	var ue *UnavailableError
	return errors.As(err, &ue)
}
