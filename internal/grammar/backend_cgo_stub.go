//go:build !cgo

package grammar

import "fmt"

// ErrCGODisabled is returned when the CGO backend is requested but the
// binary was built with CGO_ENABLED=0.
var ErrCGODisabled = fmt.Errorf("CGO backend is not available: build with CGO_ENABLED=1 or set %s=wazero", EnvVarBackend)

// NewCGOBackend always fails without CGO.
func NewCGOBackend() (Backend, error) {
	return nil, ErrCGODisabled
}
