package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

const wavHeaderSize = 44

// WAVOutput writes audio to a 16-bit PCM WAV file
type WAVOutput struct {
	file       *os.File
	filename   string
	sampleRate int
	channels   int
	written    int64
}

func NewWAVOutput(filename string) (*WAVOutput, error) {
	return &WAVOutput{
		filename: filename,
	}, nil
}

func (w *WAVOutput) Open(sampleRate, channels, bufferSize int) error {
	w.sampleRate = sampleRate
	w.channels = channels
	w.written = 0

	file, err := os.Create(w.filename)
	if err != nil {
		return fmt.Errorf("failed to create wav file: %w", err)
	}
	w.file = file

	// Sizes are patched on Close
	_, err = w.file.Write(wavHeader(sampleRate, channels, 0))
	return err
}

func (w *WAVOutput) Close() error {
	if w.file == nil {
		return nil
	}
	file := w.file
	w.file = nil

	err := patchWAVSizes(file, w.written)
	return errors.Join(err, file.Close())
}

// patchWAVSizes writes the RIFF and data chunk sizes once the length is
// known.
func patchWAVSizes(file io.WriteSeeker, written int64) error {
	if _, err := file.Seek(4, io.SeekStart); err != nil {
		return err
	}
	if err := binary.Write(file, binary.LittleEndian, uint32(written+wavHeaderSize-8)); err != nil {
		return err
	}
	if _, err := file.Seek(40, io.SeekStart); err != nil {
		return err
	}
	return binary.Write(file, binary.LittleEndian, uint32(written))
}

func (w *WAVOutput) Write(samples []int16) error {
	if w.file == nil {
		return ErrNotOpen
	}

	n, err := w.file.Write(encodeS16LE(samples))
	w.written += int64(n)
	return err
}

func (w *WAVOutput) IsPlaying() bool {
	return w.file != nil
}

// Filename returns the path being written
func (w *WAVOutput) Filename() string {
	return w.filename
}

func wavHeader(sampleRate, channels int, dataSize uint32) []byte {
	header := make([]byte, wavHeaderSize)
	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], dataSize+wavHeaderSize-8)
	copy(header[8:12], "WAVE")
	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], 16)
	// PCM
	binary.LittleEndian.PutUint16(header[20:22], 1)
	binary.LittleEndian.PutUint16(header[22:24], uint16(channels))
	binary.LittleEndian.PutUint32(header[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(header[28:32], uint32(sampleRate*channels*2))
	binary.LittleEndian.PutUint16(header[32:34], uint16(channels*2))
	binary.LittleEndian.PutUint16(header[34:36], 16)
	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], dataSize)
	return header
}
