package decoder

import (
	"fmt"

	"github.com/olivierh59500/usf-player/pkg/psf"
)

// uploadProgram forwards the reserved section of one program chunk to the
// emulator. USF files never carry a bare executable.
func uploadProgram(emu Emulator, chunk psf.Chunk) error {
	if len(chunk.Exe) > 0 {
		return fmt.Errorf("%w (%d bytes)", ErrUnexpectedExecutable, len(chunk.Exe))
	}
	return emu.Upload(chunk.Reserved)
}
