package game

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"log"
	"path"
	"strings"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
)

const audioSampleRate = 44100

// Cue names a one-shot sound.
type Cue string

const (
	CueShot   Cue = "shot"
	CueReload Cue = "reload"
)

// CuePlayer plays a cue without blocking. Failures are the player's problem.
type CuePlayer interface {
	PlayCue(c Cue)
}

type nopCues struct{}

func (nopCues) PlayCue(Cue) {}

// SoundBank keeps each cue as decoded PCM and starts a fresh player per play,
// so rapid cues overlap instead of cutting each other off.
type SoundBank struct {
	ctx     *audio.Context
	pcm     map[Cue][]byte
	playing []*audio.Player
	warned  map[Cue]bool
}

// NewSoundBank wraps cues already decoded by the asset loader. A cue missing
// from pcm stays silent.
func NewSoundBank(ctx *audio.Context, pcm map[Cue][]byte) *SoundBank {
	return &SoundBank{
		ctx:    ctx,
		pcm:    pcm,
		warned: make(map[Cue]bool),
	}
}

func decodeCue(sampleRate int, fsys fs.FS, name string) ([]byte, error) {
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, err
	}
	var stream io.Reader
	switch strings.ToLower(path.Ext(name)) {
	case ".mp3":
		stream, err = mp3.DecodeWithSampleRate(sampleRate, bytes.NewReader(raw))
	case ".wav":
		stream, err = wav.DecodeWithSampleRate(sampleRate, bytes.NewReader(raw))
	default:
		return nil, fmt.Errorf("unsupported audio format %q", name)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return io.ReadAll(stream)
}

// PlayCue starts the cue and returns immediately.
func (sb *SoundBank) PlayCue(c Cue) {
	sb.reap()
	data, ok := sb.pcm[c]
	if !ok {
		if !sb.warned[c] {
			log.Printf("Warning: no audio for cue %s", c)
			sb.warned[c] = true
		}
		return
	}
	p := sb.ctx.NewPlayerFromBytes(data)
	p.Play()
	sb.playing = append(sb.playing, p)
}

// reap closes players that have finished.
func (sb *SoundBank) reap() {
	kept := sb.playing[:0]
	for _, p := range sb.playing {
		if p.IsPlaying() {
			kept = append(kept, p)
			continue
		}
		_ = p.Close()
	}
	sb.playing = kept
}

// Close stops every cue still playing.
func (sb *SoundBank) Close() {
	for _, p := range sb.playing {
		_ = p.Close()
	}
	sb.playing = nil
}
