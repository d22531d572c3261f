package model

import (
	"errors"
	"fmt"
)

// HostNotFoundError reports a referential-integrity break: an entity
// referenced a host that is not part of the model.
type HostNotFoundError struct {
	UUID string
}

func (e *HostNotFoundError) Error() string {
	return fmt.Sprintf("host not found in model: %s", e.UUID)
}

// InstanceNotFoundError reports that an instance is not part of the
// model.
type InstanceNotFoundError struct {
	UUID string
}

func (e *InstanceNotFoundError) Error() string {
	return fmt.Sprintf("instance not found in model: %s", e.UUID)
}

// IsHostNotFound reports whether err is a HostNotFoundError.
func IsHostNotFound(err error) bool {
	var hnf *HostNotFoundError
	return errors.As(err, &hnf)
}

// IsInstanceNotFound reports whether err is an InstanceNotFoundError.
func IsInstanceNotFound(err error) bool {
	var inf *InstanceNotFoundError
	return errors.As(err, &inf)
}
