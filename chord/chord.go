package chord

import (
	"fmt"
	"strings"
)

// Inversion picks which chord tone sits in the bass.
type Inversion int

const (
	RootPosition    Inversion = 0
	FirstInversion  Inversion = 1 // third in the bass
	SecondInversion Inversion = 2 // fifth in the bass
)

func (inv Inversion) valid() bool {
	return inv >= RootPosition && inv <= SecondInversion
}

// bassOffset is the number of scale positions from the root to the bass.
func (inv Inversion) bassOffset() int {
	return 2 * int(inv)
}

var romanNumerals = [8]string{"", "I", "II", "III", "IV", "V", "VI", "VII"}

// Chord is a keyless harmonic function: a scale degree, a quality and an
// inversion. The quality is always canonical, so Chords compare with ==.
type Chord struct {
	degree    int
	quality   Quality
	inversion Inversion
}

// NewChord validates and canonicalizes its arguments.
func NewChord(degree int, quality Quality, inversion Inversion) (Chord, error) {
	if degree < 1 || degree > 7 {
		return Chord{}, invalidArgument("degree %d outside 1-7", degree)
	}
	q, err := ParseQuality(string(quality))
	if err != nil {
		return Chord{}, invalidArgument("unknown quality %q", quality)
	}
	if !inversion.valid() {
		return Chord{}, invalidArgument("inversion %d not supported", inversion)
	}
	return Chord{degree: degree, quality: q, inversion: inversion}, nil
}

// MustChord is NewChord for static tables; it panics on error.
func MustChord(degree int, quality Quality, inversion Inversion) Chord {
	c, err := NewChord(degree, quality, inversion)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Chord) Degree() int          { return c.degree }
func (c Chord) Quality() Quality     { return c.quality }
func (c Chord) Inversion() Inversion { return c.inversion }

// IsZero reports whether c was never constructed.
func (c Chord) IsZero() bool {
	return c.degree == 0
}

// Equal compares degree and inversion exactly and quality through aliases.
func (c Chord) Equal(other Chord) bool {
	return c.degree == other.degree &&
		c.inversion == other.inversion &&
		c.quality.Equivalent(other.quality)
}

// BassDegree is the scale degree voiced lowest.
func (c Chord) BassDegree() int {
	return mod(c.degree-1+c.inversion.bassOffset(), 7) + 1
}

// WithInversion returns a copy of c with a different inversion.
func (c Chord) WithInversion(inv Inversion) (Chord, error) {
	return NewChord(c.degree, c.quality, inv)
}

// Numeral is the roman numeral of the degree, upper case when the quality
// carries a major third.
func (c Chord) Numeral() string {
	roman := romanNumerals[c.degree]
	if c.quality.HasMajorThird() {
		return roman
	}
	return strings.ToLower(roman)
}

// Name prints roman-numeral notation, e.g. "IVmaj/1" or "iimin".
func (c Chord) Name() string {
	name := c.Numeral() + string(c.quality)
	if c.inversion != RootPosition {
		name += fmt.Sprintf("/%d", c.BassDegree())
	}
	return name
}

func (c Chord) String() string {
	return c.Name()
}
