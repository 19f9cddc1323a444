//go:build !linux && !darwin

package device

// List is not implemented on this platform; it returns an empty list so
// callers degrade gracefully.
func List() ([]Device, error) {
	return nil, nil
}
