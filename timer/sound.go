package timer

import (
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/generators"
	"github.com/gopxl/beep/v2/speaker"

	"github.com/lifeinfocus/focus/internal/config"
)

const sampleRate = beep.SampleRate(44100)

// note is a single tone in an alert sound. A zero frequency is a rest.
type note struct {
	freq float64
	dur  time.Duration
}

var sounds = map[string][]note{
	config.SoundBell: {
		{freq: 880, dur: 150 * time.Millisecond},
		{dur: 80 * time.Millisecond},
		{freq: 880, dur: 150 * time.Millisecond},
	},
	config.SoundChime: {
		{freq: 660, dur: 200 * time.Millisecond},
		{freq: 990, dur: 300 * time.Millisecond},
	},
}

var (
	speakerOnce sync.Once
	speakerErr  error
)

func initSpeaker() error {
	speakerOnce.Do(func() {
		speakerErr = speaker.Init(sampleRate, sampleRate.N(time.Second/10))
	})

	return speakerErr
}

// soundStream builds the streamer for a named alert sound.
func soundStream(name string) (beep.Streamer, error) {
	notes, ok := sounds[name]
	if !ok {
		return nil, errUnknownSound.Fmt(name)
	}

	streams := make([]beep.Streamer, 0, len(notes))

	for _, n := range notes {
		if n.freq == 0 {
			streams = append(streams, beep.Silence(sampleRate.N(n.dur)))
			continue
		}

		tone, err := generators.SineTone(sampleRate, n.freq)
		if err != nil {
			return nil, err
		}

		streams = append(streams, &effects.Volume{
			Streamer: beep.Take(sampleRate.N(n.dur), tone),
			Base:     2,
			Volume:   -2,
		})
	}

	return beep.Seq(streams...), nil
}

// playSound plays an alert sound and blocks until it has finished.
func playSound(name string) error {
	if name == "" || name == config.SoundOff {
		return nil
	}

	stream, err := soundStream(name)
	if err != nil {
		return err
	}

	if err := initSpeaker(); err != nil {
		return err
	}

	done := make(chan struct{})

	speaker.Play(beep.Seq(stream, beep.Callback(func() {
		close(done)
	})))

	<-done

	return nil
}
