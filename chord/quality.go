package chord

// Quality is a canonical chord quality symbol such as "maj" or "min7".
// Use ParseQuality to resolve aliases.
type Quality string

const (
	Major             Quality = "maj"
	Minor             Quality = "min"
	Diminished        Quality = "dim"
	Augmented         Quality = "aug"
	Sus2              Quality = "sus2"
	Sus4              Quality = "sus4"
	MajorSeventh      Quality = "maj7"
	MinorSeventh      Quality = "min7"
	DominantSeventh   Quality = "7"
	DiminishedSeventh Quality = "dim7"
	HalfDiminished    Quality = "m7b5"
)

var recipes = map[Quality][]Interval{
	Major:             {unison, majorThird, perfectFifth},
	Minor:             {unison, minorThird, perfectFifth},
	Diminished:        {unison, minorThird, diminishedFifth},
	Augmented:         {unison, majorThird, augmentedFifth},
	Sus2:              {unison, majorSecond, perfectFifth},
	Sus4:              {unison, perfectFourth, perfectFifth},
	MajorSeventh:      {unison, majorThird, perfectFifth, majorSeventh},
	MinorSeventh:      {unison, minorThird, perfectFifth, minorSeventh},
	DominantSeventh:   {unison, majorThird, perfectFifth, minorSeventh},
	DiminishedSeventh: {unison, minorThird, diminishedFifth, diminishedSeventh},
	HalfDiminished:    {unison, minorThird, diminishedFifth, minorSeventh},
}

// alternate spellings, keyed by alias
var aliases = map[string]Quality{
	"M":          Major,
	"major":      Major,
	"m":          Minor,
	"minor":      Minor,
	"diminished": Diminished,
	"augmented":  Augmented,
	"+":          Augmented,
	"sus":        Sus4,
	"M7":         MajorSeventh,
	"m7":         MinorSeventh,
	"dom7":       DominantSeventh,
	"hdim7":      HalfDiminished,
}

// ParseQuality resolves a quality symbol or one of its aliases.
func ParseQuality(s string) (Quality, error) {
	if _, ok := recipes[Quality(s)]; ok {
		return Quality(s), nil
	}
	if q, ok := aliases[s]; ok {
		return q, nil
	}
	return "", &ParseError{Input: s, Reason: "unknown chord quality"}
}

// Qualities returns every canonical quality.
func Qualities() []Quality {
	return []Quality{
		Major, Minor, Diminished, Augmented, Sus2, Sus4,
		MajorSeventh, MinorSeventh, DominantSeventh, DiminishedSeventh, HalfDiminished,
	}
}

// Aliases returns the alternate spellings of q, not including q itself.
func (q Quality) Aliases() []string {
	canonical := q.canonical()
	var res []string
	for alias, target := range aliases {
		if target == canonical {
			res = append(res, alias)
		}
	}
	return res
}

// Equivalent reports whether both spellings name the same quality.
func (q Quality) Equivalent(other Quality) bool {
	a, b := q.canonical(), other.canonical()
	return a != "" && a == b
}

func (q Quality) canonical() Quality {
	c, err := ParseQuality(string(q))
	if err != nil {
		return ""
	}
	return c
}

// Recipe is the interval stack above the root.
func (q Quality) Recipe() []Interval {
	r := recipes[q.canonical()]
	res := make([]Interval, len(r))
	copy(res, r)
	return res
}

// HasMajorThird decides the case of the roman numeral.
func (q Quality) HasMajorThird() bool {
	for _, iv := range recipes[q.canonical()] {
		if iv == majorThird {
			return true
		}
	}
	return false
}

func (q Quality) IsSeventh() bool {
	return len(recipes[q.canonical()]) == 4
}

func (q Quality) String() string {
	return string(q)
}
