//go:build gui

package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		With().Timestamp().Logger()

	player := NewUSFPlayerGUI(log)

	// Files passed as arguments go to the playlist, the first one plays
	for _, path := range os.Args[1:] {
		player.addFileToPlaylist(path)
	}
	if player.playlist.Size() > 0 {
		player.playFromIndex(0)
	}

	player.Run()
}
