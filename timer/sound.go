package timer

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/generators"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
)

const (
	// SoundOff disables a sound.
	SoundOff = "off"
	// SoundChime is a short synthesized two-tone chime.
	SoundChime = "chime"

	speakerRate beep.SampleRate = 44100
)

// Player plays completion sounds. A Player is an explicitly owned handle: it
// is created by the caller and passed to whatever needs to play audio.
type Player interface {
	// Play blocks until sound has finished playing.
	Play(sound string) error
	Close() error
}

// Speaker plays sounds through the system audio device. Sound files are
// resampled to a fixed rate so that the device is initialised only once.
type Speaker struct {
	// Volume is relative to the source, in powers of two. 0 is unchanged.
	Volume float64
	mu     sync.Mutex
	ready  bool
}

// NewSpeaker returns a speaker handle. The audio device is opened lazily on
// the first call to Play.
func NewSpeaker(volume float64) *Speaker {
	return &Speaker{Volume: volume}
}

func (s *Speaker) init() error {
	if s.ready {
		return nil
	}

	bufferSize := 10

	err := speaker.Init(speakerRate, speakerRate.N(time.Second/time.Duration(bufferSize)))
	if err != nil {
		return err
	}

	s.ready = true

	return nil
}

// Play plays sound, which is either SoundChime or the path to an mp3, ogg,
// flac or wav file. An empty sound or SoundOff plays nothing.
func (s *Speaker) Play(sound string) error {
	if sound == "" || sound == SoundOff {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.init(); err != nil {
		return err
	}

	stream, closer, err := s.open(sound)
	if err != nil {
		return err
	}

	if closer != nil {
		defer closer.Close()
	}

	vol := &effects.Volume{
		Streamer: stream,
		Base:     2,
		Volume:   s.Volume,
	}

	done := make(chan struct{})

	speaker.Play(beep.Seq(vol, beep.Callback(func() {
		close(done)
	})))

	<-done

	return nil
}

// open returns a streamer at the speaker's sample rate.
func (s *Speaker) open(sound string) (beep.Streamer, io.Closer, error) {
	if sound == SoundChime {
		stream, err := chime(speakerRate)
		return stream, nil, err
	}

	stream, format, err := decodeFile(sound)
	if err != nil {
		return nil, nil, err
	}

	if format.SampleRate == speakerRate {
		return stream, stream, nil
	}

	return beep.Resample(4, format.SampleRate, speakerRate, stream), stream, nil
}

// Close releases the audio device.
func (s *Speaker) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready {
		return nil
	}

	speaker.Clear()
	speaker.Close()

	s.ready = false

	return nil
}

// chime returns two short sine tones.
func chime(sr beep.SampleRate) (beep.Streamer, error) {
	high, err := generators.SineTone(sr, 880)
	if err != nil {
		return nil, err
	}

	low, err := generators.SineTone(sr, 660)
	if err != nil {
		return nil, err
	}

	n := sr.N(250 * time.Millisecond)

	return beep.Seq(
		beep.Take(n, high),
		generators.Silence(sr.N(80*time.Millisecond)),
		beep.Take(n, low),
	), nil
}

// decodeFile decodes an audio file based on its extension.
func decodeFile(path string) (beep.StreamSeekCloser, beep.Format, error) {
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".ogg", ".mp3", ".flac", ".wav":
	default:
		return nil, beep.Format{}, errInvalidSoundFormat.Fmt(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, beep.Format{}, err
	}

	var (
		stream beep.StreamSeekCloser
		format beep.Format
	)

	switch ext {
	case ".ogg":
		stream, format, err = vorbis.Decode(f)
	case ".mp3":
		stream, format, err = mp3.Decode(f)
	case ".flac":
		stream, format, err = flac.Decode(f)
	case ".wav":
		stream, format, err = wav.Decode(f)
	}

	if err != nil {
		_ = f.Close()
		return nil, beep.Format{}, err
	}

	return stream, format, nil
}

// nopPlayer plays nothing.
type nopPlayer struct{}

func (nopPlayer) Play(string) error { return nil }

func (nopPlayer) Close() error { return nil }

// NopPlayer returns a Player that plays nothing.
func NopPlayer() Player {
	return nopPlayer{}
}

var _ Player = (*Speaker)(nil)
