//go:build !(cgo && lazyusf)

package usf

// State is the emulator handle. This build has no lazyusf2.
type State struct{}

// New fails with ErrUnavailable in builds without lazyusf2.
func New() (*State, error) {
	return nil, ErrUnavailable
}

// Upload is unavailable in this build.
func (s *State) Upload(section []byte) error { return ErrUnavailable }

// SetCompare is a no-op in this build.
func (s *State) SetCompare(enable bool) {}

// SetFIFOFull is a no-op in this build.
func (s *State) SetFIFOFull(enable bool) {}

// Render is unavailable in this build.
func (s *State) Render(buf []int16, frames int) (int, error) { return 0, ErrUnavailable }

// Restart is a no-op in this build.
func (s *State) Restart() {}

// Close is a no-op in this build.
func (s *State) Close() error { return nil }
