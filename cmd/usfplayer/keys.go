package main

import (
	"os"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

type key int

const (
	keyQuit key = iota
	keyPause
	keyForward
	keyBack
	keyVolumeUp
	keyVolumeDown
)

// readKeys puts the terminal in raw mode and decodes player keys from
// stdin. The returned function restores the terminal and is safe to call
// more than once.
func readKeys(log zerolog.Logger) (<-chan key, func()) {
	keys := make(chan key, 8)

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return keys, func() {}
	}
	state, err := term.MakeRaw(fd)
	if err != nil {
		log.Warn().Err(err).Msg("Keyboard control unavailable")
		return keys, func() {}
	}

	restored := false
	restore := func() {
		if !restored {
			restored = true
			term.Restore(fd, state)
		}
	}

	go func() {
		buf := make([]byte, 8)
		for {
			n, err := os.Stdin.Read(buf)
			if err != nil {
				return
			}
			for _, k := range parseKeys(buf[:n]) {
				keys <- k
			}
		}
	}()

	return keys, restore
}

// parseKeys decodes one read from a raw terminal.
func parseKeys(b []byte) []key {
	var out []key
	for i := 0; i < len(b); i++ {
		switch b[i] {
		case 'q', 'Q', 3: // Ctrl+C in raw mode
			out = append(out, keyQuit)
		case ' ', 'p':
			out = append(out, keyPause)
		case '+', '=':
			out = append(out, keyVolumeUp)
		case '-':
			out = append(out, keyVolumeDown)
		case 0x1b:
			if i+2 < len(b) && b[i+1] == '[' {
				switch b[i+2] {
				case 'C':
					out = append(out, keyForward)
				case 'D':
					out = append(out, keyBack)
				case 'A':
					out = append(out, keyVolumeUp)
				case 'B':
					out = append(out, keyVolumeDown)
				}
				i += 2
			}
		}
	}
	return out
}
