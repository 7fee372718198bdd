//go:build !(cgo && lazyusf)

package psf

import (
	"errors"
	"testing"
)

func TestStubLoaderUnavailable(t *testing.T) {
	_, err := NewLoader().Load("song.miniusf", LoadOptions{Version: VersionUSF, Payload: true})
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}
