// Package particlefilter implements Monte Carlo localization of an agent in a
// rectangular arena. Each particle is scored by ray casting four virtual
// rangefinders against the arena walls and comparing the ranges with the same
// beams cast from the reference (ground-truth) pose.
//
// A filter is not safe for concurrent use. A tick is
// Predict, Reweight, Resample, then EstimatedState.
package particlefilter

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

type ParticleFilter struct {
	cfg       Config
	field     *FieldModel
	noise     *noise
	particles []Particle
	weights   []float64 // scratch, len == NumParticles
	reference Pose
}

// CreatePF creates a particle filter with a uniform random population over the
// arena. Headings start at 0. src drives every random draw; nil picks a
// time-seeded source.
func CreatePF(cfg Config, reference Pose, src rand.Source) (*ParticleFilter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !reference.finite() {
		return nil, fmt.Errorf("%w: reference pose %+v is not finite", ErrInvalidInput, reference)
	}

	pf := &ParticleFilter{
		cfg:       cfg,
		field:     NewFieldModel(cfg.BoxWidth, cfg.BoxHeight),
		noise:     newNoise(src),
		reference: reference,
	}

	// creating initial random samples
	pf.createSampleList()

	return pf, nil
}

// WithParticleCount returns a new filter of n particles seeded from the current
// reference pose. It shares the config, noise factor, and random source.
func (pf *ParticleFilter) WithParticleCount(n int) (*ParticleFilter, error) {
	cfg := pf.cfg
	cfg.NumParticles = n
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	next := &ParticleFilter{
		cfg:       cfg,
		field:     pf.field,
		noise:     pf.noise,
		reference: pf.reference,
	}
	next.createSampleList()
	return next, nil
}

func (pf *ParticleFilter) createSampleList() {
	n := pf.cfg.NumParticles
	pf.particles = make([]Particle, n)
	pf.weights = make([]float64, n)
	for i := range pf.particles {
		pf.particles[i] = Particle{
			Pose: Pose{
				X: pf.noise.uniform(0, pf.cfg.BoxWidth),
				Y: pf.noise.uniform(0, pf.cfg.BoxHeight),
			},
			Weight: 1 / float64(n),
		}
	}
}

// Field returns the arena the filter localizes in.
func (pf *ParticleFilter) Field() *FieldModel {
	return pf.field
}

// Config returns the filter parameters, including the current noise factor.
func (pf *ParticleFilter) Config() Config {
	return pf.cfg
}

// SetNoise changes the predict noise factor. Particles are left untouched.
func (pf *ParticleFilter) SetNoise(factor float64) error {
	if !nonNegative(factor) {
		return fmt.Errorf("%w: noise factor must be finite and >= 0, got %v", ErrInvalidInput, factor)
	}
	pf.cfg.NoiseFactor = factor
	return nil
}

// SetReferencePose sets the ground truth the next Reweight compares against.
// It may lie outside the arena.
func (pf *ParticleFilter) SetReferencePose(p Pose) error {
	if !p.finite() {
		return fmt.Errorf("%w: reference pose %+v is not finite", ErrInvalidInput, p)
	}
	pf.reference = p
	return nil
}

// ReferencePose returns the current ground truth.
func (pf *ParticleFilter) ReferencePose() Pose {
	return pf.reference
}

// Predict moves every particle by delta plus Gaussian noise proportional to
// the delta, then clips it to the arena and normalizes its heading. A delta
// large enough to overflow the noise or a moved pose is rejected and the
// population is left unchanged.
func (pf *ParticleFilter) Predict(delta Pose) error {
	if !delta.finite() {
		return fmt.Errorf("%w: delta %+v is not finite", ErrInvalidInput, delta)
	}

	f := pf.cfg.NoiseFactor
	sx := math.Max(math.Abs(delta.X)*f, f)
	sy := math.Max(math.Abs(delta.Y)*f, f)
	sh := math.Max(math.Abs(delta.Heading)*f, pf.cfg.HeadingNoiseFloor)
	if !isFinite(sx) || !isFinite(sy) || !isFinite(sh) {
		return fmt.Errorf("%w: delta %+v overflows the noise scale", ErrInvalidInput, delta)
	}

	moved := make([]Pose, len(pf.particles))
	for i := range pf.particles {
		p := pf.particles[i].Pose
		p.X += delta.X + pf.noise.gaussian(sx)
		p.Y += delta.Y + pf.noise.gaussian(sy)
		p.Heading += delta.Heading + pf.noise.gaussian(sh)
		if !p.finite() {
			return fmt.Errorf("%w: delta %+v moves particle %d out of range", ErrInvalidInput, delta, i)
		}
		moved[i] = p
	}
	for i, p := range moved {
		pf.particles[i].Pose = pf.confine(p)
	}
	return nil
}

// confine clips a pose to the arena and normalizes its heading.
func (pf *ParticleFilter) confine(p Pose) Pose {
	return Pose{
		X:       clamp(p.X, 0, pf.cfg.BoxWidth),
		Y:       clamp(p.Y, 0, pf.cfg.BoxHeight),
		Heading: NormalizeAngle(p.Heading),
	}
}

// Reweight scores each particle against the reference pose and normalizes
// the weights. If every likelihood underflowed to zero the weights are reset
// to uniform.
func (pf *ParticleFilter) Reweight() {
	actual := pf.field.ReadingFrom(pf.reference)
	sigma := pf.cfg.SensorSigma

	for i := range pf.particles {
		predicted := pf.field.ReadingFrom(pf.particles[i].Pose)
		pf.weights[i] = predicted.Likelihood(actual, sigma)
	}

	total := floats.Sum(pf.weights)
	if total > 0 {
		floats.Scale(1/total, pf.weights)
	} else {
		Logf("particlefilter: all %d likelihoods are zero, resetting to uniform weights", len(pf.weights))
		pf.uniformWeights()
	}
	pf.storeWeights()
}

func (pf *ParticleFilter) uniformWeights() {
	u := 1 / float64(len(pf.weights))
	for i := range pf.weights {
		pf.weights[i] = u
	}
}

func (pf *ParticleFilter) loadWeights() {
	for i := range pf.particles {
		pf.weights[i] = pf.particles[i].Weight
	}
}

func (pf *ParticleFilter) storeWeights() {
	for i := range pf.particles {
		pf.particles[i].Weight = pf.weights[i]
	}
}

// EffectiveSampleSize returns 1 / Σ w², the number of particles that
// meaningfully contribute. It is 0 when every weight is 0.
func (pf *ParticleFilter) EffectiveSampleSize() float64 {
	pf.loadWeights()
	sq := floats.Dot(pf.weights, pf.weights)
	if sq == 0 {
		return 0
	}
	return 1 / sq
}

// Resample draws a new generation with low-variance (systematic) resampling
// when the effective sample size is below the population size. Each copy is
// jittered and gets weight 1/N.
func (pf *ParticleFilter) Resample() {
	n := len(pf.particles)
	neff := pf.EffectiveSampleSize()

	if neff == 0 || neff >= float64(n) {
		total := floats.Sum(pf.weights)
		if total > 0 {
			floats.Scale(1/total, pf.weights)
		} else {
			pf.uniformWeights()
		}
		pf.storeWeights()
		return
	}

	step := 1 / float64(n)
	r := pf.noise.uniform(0, step)
	c := pf.weights[0]
	i := 0
	clamped := false

	next := make([]Particle, n)
	for m := 0; m < n; m++ {
		u := r + float64(m)*step
		for u > c {
			if i == n-1 {
				// cumulative weight fell short of u from rounding
				clamped = true
				break
			}
			i++
			c += pf.weights[i]
		}

		p := pf.particles[i].Pose
		p.X += pf.noise.gaussian(pf.cfg.JitterXY)
		p.Y += pf.noise.gaussian(pf.cfg.JitterXY)
		p.Heading += pf.noise.gaussian(pf.cfg.JitterHeading)
		next[m] = Particle{Pose: pf.confine(p), Weight: step}
	}
	if clamped {
		Logf("particlefilter: resample index clamped to %d, cumulative weight %v", n-1, c)
	}

	pf.particles = next
}

// Step runs one full tick against a new reference pose.
func (pf *ParticleFilter) Step(delta, reference Pose) error {
	if err := pf.SetReferencePose(reference); err != nil {
		return err
	}
	if err := pf.Predict(delta); err != nil {
		return err
	}
	pf.Reweight()
	pf.Resample()
	return nil
}

// Particles returns a snapshot of the current generation.
func (pf *ParticleFilter) Particles() []Particle {
	out := make([]Particle, len(pf.particles))
	copy(out, pf.particles)
	return out
}

// EstimatedState returns the unweighted mean pose of the population. The
// heading is averaged arithmetically unless Config.CircularHeadingMean is set,
// so headings straddling ±π average towards 0.
func (pf *ParticleFilter) EstimatedState() Pose {
	xs, ys, hs := pf.columns()

	est := Pose{
		X:       stat.Mean(xs, nil),
		Y:       stat.Mean(ys, nil),
		Heading: stat.Mean(hs, nil),
	}
	if pf.cfg.CircularHeadingMean {
		est.Heading = stat.CircularMean(hs, nil)
	}
	return est
}

// Spread returns the standard deviation of particle x and y.
func (pf *ParticleFilter) Spread() (sx, sy float64) {
	xs, ys, _ := pf.columns()
	return stat.PopStdDev(xs, nil), stat.PopStdDev(ys, nil)
}

func (pf *ParticleFilter) columns() (xs, ys, hs []float64) {
	n := len(pf.particles)
	xs = make([]float64, n)
	ys = make([]float64, n)
	hs = make([]float64, n)
	for i, p := range pf.particles {
		xs[i] = p.Pose.X
		ys[i] = p.Pose.Y
		hs[i] = p.Pose.Heading
	}
	return xs, ys, hs
}
