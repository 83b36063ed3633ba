// Package sound plays short wav chimes for the loop's lifecycle events.
// Playback is best-effort: if the speaker can't be opened or a file is
// missing, the event is logged and dropped.
package sound

import (
	"os"
	"path/filepath"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"

	"github.com/racecar-edu/go-racecar/internal/log"
)

// Event names one of the chime-worthy moments.
type Event int

const (
	EventStartup Event = iota
	EventDefaultMode
	EventUserMode
	EventExit
)

var eventFiles = map[Event]string{
	EventStartup:     "startup.wav",
	EventDefaultMode: "default-mode.wav",
	EventUserMode:    "user-mode.wav",
	EventExit:        "exit.wav",
}

// Player feeds a single background playback goroutine. A new chime cuts
// off the previous one.
type Player struct {
	toPlay chan string
}

// NewPlayer starts the playback goroutine looking for wav files under dir.
// If enabled is false, Play is a no-op.
func NewPlayer(dir string, enabled bool) *Player {
	p := &Player{}
	if !enabled {
		return p
	}
	p.toPlay = make(chan string)
	go p.loop(dir)
	return p
}

// Play queues the chime for ev. Never blocks the control loop: if the
// player is busy or disabled the chime is dropped.
func (p *Player) Play(ev Event) {
	if p.toPlay == nil {
		return
	}
	file, ok := eventFiles[ev]
	if !ok {
		return
	}
	select {
	case p.toPlay <- file:
	case <-time.After(10 * time.Millisecond):
		log.Debug("sound player busy, dropping chime", "file", file)
	}
}

// Close stops the playback goroutine.
func (p *Player) Close() {
	if p.toPlay != nil {
		close(p.toPlay)
		p.toPlay = nil
	}
}

func (p *Player) loop(dir string) {
	sampleRate := beep.SampleRate(44100)
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/5)); err != nil {
		log.Warn("failed to open speaker, sounds disabled", "err", err)
		for range p.toPlay {
		}
		return
	}

	var ctrl *beep.Ctrl
	var current beep.StreamSeekCloser
	for file := range p.toPlay {
		if ctrl != nil {
			// Cut off the previous chime.
			speaker.Lock()
			ctrl.Paused = true
			ctrl.Streamer = nil
			speaker.Unlock()
			ctrl = nil
		}
		if current != nil {
			current.Close()
			current = nil
		}

		f, err := os.Open(filepath.Join(dir, file))
		if err != nil {
			log.Warn("failed to open sound", "file", file, "err", err)
			continue
		}
		stream, _, err := wav.Decode(f)
		if err != nil {
			log.Warn("failed to decode sound", "file", file, "err", err)
			f.Close()
			continue
		}
		current = stream
		ctrl = &beep.Ctrl{Streamer: stream}
		speaker.Play(ctrl)
	}
}
