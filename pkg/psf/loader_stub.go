//go:build !(cgo && lazyusf)

package psf

// Loader is the psflib-backed container parser. This build has no psflib,
// so every load fails with ErrUnavailable.
type Loader struct{}

// NewLoader returns a Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load always fails in builds without psflib.
func (l *Loader) Load(path string, opts LoadOptions) (*File, error) {
	return nil, ErrUnavailable
}
