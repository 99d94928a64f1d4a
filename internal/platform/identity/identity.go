// Package identity provides the service identity stamped on every invocation.
package identity

import (
	"errors"

	"github.com/google/uuid"
)

// ErrMissingName is returned when the service name is empty.
var ErrMissingName = errors.New("service name is required")

// Identity is a stable service name plus an instance ID unique to the process.
type Identity struct {
	name       string
	instanceID string
}

// New creates an Identity for name. An empty instanceID is replaced with a
// random UUID.
func New(name, instanceID string) (*Identity, error) {
	if name == "" {
		return nil, ErrMissingName
	}

	if instanceID == "" {
		instanceID = uuid.NewString()
	}

	return &Identity{name: name, instanceID: instanceID}, nil
}

// Name returns the service name.
func (i *Identity) Name() string {
	return i.name
}

// InstanceID returns the process instance ID.
func (i *Identity) InstanceID() string {
	return i.instanceID
}
