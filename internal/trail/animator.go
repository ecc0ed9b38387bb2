package trail

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Config tunes trail emission and fade-out. Loaded from the [trail] config
// section or a named preset.
type Config struct {
	Capacity      int     // samples per trail, allocated once
	EmitThreshold float64 // tip travel below which the live slot is rewritten in place
	MaxAge        float64 // age at which a sample is fully transparent, in 60 Hz frames
	SpawnAlpha    float64 // alpha of a freshly retired sample
	FadeMin       float64 // fade rate clamp, lower bound
	FadeMax       float64 // fade rate clamp, upper bound
	Sensitivity   float64 // acceleration-to-fade-rate coupling
}

func (c Config) Validate() error {
	switch {
	case c.Capacity < 2:
		return fmt.Errorf("trail: capacity %d, need at least 2", c.Capacity)
	case c.EmitThreshold <= 0:
		return errors.New("trail: emit threshold must be positive")
	case c.MaxAge <= 0:
		return errors.New("trail: max age must be positive")
	case c.SpawnAlpha <= 0 || c.SpawnAlpha > 1:
		return fmt.Errorf("trail: spawn alpha %v outside (0, 1]", c.SpawnAlpha)
	case c.FadeMin <= 0 || c.FadeMax < c.FadeMin:
		return fmt.Errorf("trail: fade clamp [%v, %v] invalid", c.FadeMin, c.FadeMax)
	case c.Sensitivity < 0:
		return errors.New("trail: sensitivity must not be negative")
	}
	return nil
}

// Animator advances trail buffers. One animator serves every blade; the
// per-blade state lives entirely in the Buffer it is invoked with.
type Animator struct {
	cfg Config
}

func NewAnimator(cfg Config) (*Animator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Animator{cfg: cfg}, nil
}

// NewBuffer allocates a buffer sized for this animator's configuration.
func (a *Animator) NewBuffer() *Buffer {
	return NewBuffer(a.cfg.Capacity)
}

// Step advances one blade's trail by dt seconds given the current world-space
// base and tip. No-op until the buffer has been started.
//
// When the tip has moved past the emit threshold since the last retained
// sample, the buffer shifts and the previous live pose is retained as
// history; below the threshold the live slot is rewritten in place, so a
// nearly still blade holds a single sample while a fast swing lays down one
// per tick. Sample ages advance by fadeRate*dt*60, pinning the visual decay
// to a 60 Hz baseline regardless of the actual tick rate.
func (a *Animator) Step(b *Buffer, base, tip mgl64.Vec3, dt float64) {
	if !b.active {
		return
	}

	_, liveTip := b.Live()
	travel := tip.Sub(liveTip).Len()

	// Acceleration proxy: change in per-tick travel. Faster-accelerating
	// swings fade quicker so the trail length stays visually bounded.
	accel := travel - b.lastTravel
	b.lastTravel = travel

	fade := 1 + accel*a.cfg.Sensitivity
	if fade < a.cfg.FadeMin {
		fade = a.cfg.FadeMin
	} else if fade > a.cfg.FadeMax {
		fade = a.cfg.FadeMax
	}

	if travel > a.cfg.EmitThreshold {
		b.shift()
	}
	b.writeSample(0, base, tip)

	step := fade * dt * 60
	for i := 1; i < b.capacity; i++ {
		if b.ages[i] < 0 {
			continue
		}
		b.ages[i] += step
		if b.ages[i] >= a.cfg.MaxAge {
			b.ages[i] = -1
		}
	}

	// Live slot stays transparent: it anchors the newest quad, it is not a
	// rendered segment of its own.
	b.alphas[0] = 0
	b.alphas[1] = 0
	for i := 1; i < b.capacity; i++ {
		alpha := 0.0
		if b.ages[i] >= 0 {
			alpha = a.cfg.SpawnAlpha * (1 - b.ages[i]/a.cfg.MaxAge)
		}
		b.alphas[i*2] = alpha
		b.alphas[i*2+1] = alpha
	}
}
