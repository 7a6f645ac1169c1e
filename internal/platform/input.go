package platform

import (
	"errors"
	"time"
)

// ErrInputUnsupported indicates input-idle detection is not available on this system.
var ErrInputUnsupported = errors.New("input idle detection unsupported")

// InputProvider returns the duration since the last user input.
type InputProvider interface {
	InputIdle() (time.Duration, error)
}

// NewInputProvider returns a platform-specific input provider.
func NewInputProvider() InputProvider {
	return newInputProvider()
}
