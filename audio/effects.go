// Package audio synthesises the flap, score and hit sound effects.
package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"

	"github.com/pthm-cable/flappy/game"
)

// Effect durations.
const (
	flapDuration  = 90 * time.Millisecond
	scoreNote1    = 70 * time.Millisecond
	scoreNote2    = 160 * time.Millisecond
	hitDuration   = 280 * time.Millisecond
	attackTime    = 5 * time.Millisecond
	shortRelease  = 40 * time.Millisecond
	longRelease   = 200 * time.Millisecond
	hitRumbleFreq = 90.0
)

// WaveType defines oscillator wave shapes
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveNoise
)

// oscillator produces a fixed-length wave whose frequency glides linearly
// from freq to endFreq.
type oscillator struct {
	freq     float64
	endFreq  float64
	phase    float64
	duration int
	position int
	wave     WaveType
	rate     beep.SampleRate
	rng      *rand.Rand
}

// NewOscillator creates a constant-pitch oscillator.
func NewOscillator(freq float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return NewSweep(freq, freq, duration, wave, rate)
}

// NewSweep creates an oscillator gliding from freq to endFreq.
func NewSweep(freq, endFreq float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq:     freq,
		endFreq:  endFreq,
		duration: rate.N(duration),
		wave:     wave,
		rate:     rate,
		rng:      rand.New(rand.NewSource(1)),
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			if o.phase < 0.5 {
				val = 1.0
			} else {
				val = -1.0
			}
		case WaveNoise:
			val = o.rng.Float64()*2 - 1
		}

		samples[i][0] = val
		samples[i][1] = val

		progress := float64(o.position) / float64(o.duration)
		freq := o.freq + (o.endFreq-o.freq)*progress
		o.phase += freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope applies a linear attack and release to a stream.
type envelope struct {
	streamer       beep.Streamer
	position       int
	attackSamples  int
	releaseSamples int
	totalSamples   int
}

// NewEnvelope shapes s over duration.
func NewEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	return &envelope{
		streamer:       s,
		attackSamples:  rate.N(attack),
		releaseSamples: rate.N(release),
		totalSamples:   rate.N(duration),
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)

	releaseStart := e.totalSamples - e.releaseSamples
	for i := 0; i < n; i++ {
		if e.position >= e.totalSamples {
			return i, i > 0
		}

		vol := 1.0
		if e.position < e.attackSamples {
			vol = float64(e.position) / float64(e.attackSamples)
		}
		if e.position >= releaseStart && e.releaseSamples > 0 {
			vol = math.Max(0, float64(e.totalSamples-e.position)/float64(e.releaseSamples))
		}

		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume scales a stream linearly. Zero volume is silent.
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// FlapSound is a short upward chirp.
func FlapSound(rate beep.SampleRate, volume float64) beep.Streamer {
	chirp := NewSweep(420, 840, flapDuration, WaveSine, rate)
	return newVolume(NewEnvelope(chirp, flapDuration, attackTime, shortRelease, rate), volume)
}

// ScoreSound is a two-note chime.
func ScoreSound(rate beep.SampleRate, volume float64) beep.Streamer {
	n1 := NewEnvelope(NewOscillator(987.77, scoreNote1, WaveSquare, rate), scoreNote1, attackTime, shortRelease, rate)
	n2 := NewEnvelope(NewOscillator(1318.51, scoreNote2, WaveSquare, rate), scoreNote2, attackTime, longRelease/2, rate)
	return newVolume(beep.Seq(n1, n2), volume*0.5)
}

// HitSound is a noise burst over a low rumble.
func HitSound(rate beep.SampleRate, volume float64) beep.Streamer {
	noise := NewEnvelope(NewOscillator(0, hitDuration, WaveNoise, rate), hitDuration, attackTime, longRelease, rate)
	rumble := NewEnvelope(NewSweep(hitRumbleFreq*2, hitRumbleFreq, hitDuration, WaveSine, rate), hitDuration, attackTime, longRelease, rate)
	return newVolume(beep.Mix(newVolume(noise, 0.4), newVolume(rumble, 0.6)), volume)
}

// Effect returns the sound for a simulation event, or nil if it has none.
func Effect(kind game.EventKind, rate beep.SampleRate, volume float64) beep.Streamer {
	switch kind {
	case game.EventJump:
		return FlapSound(rate, volume)
	case game.EventPass:
		return ScoreSound(rate, volume)
	case game.EventDeath:
		return HitSound(rate, volume)
	default:
		return nil
	}
}
