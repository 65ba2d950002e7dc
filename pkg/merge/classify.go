package merge

import "bytes"

// State describes which dumps still contribute at a sector index.
type State int

const (
	// StatePreAlignment covers A's sectors before the alignment offset.
	StatePreAlignment State = iota
	// StateBothActive compares A against B.
	StateBothActive
	// StateAExhausted appends the rest of B.
	StateAExhausted
	// StateBExhausted copies the rest of A.
	StateBExhausted
	// StateBothExhausted ends the run.
	StateBothExhausted
)

func (s State) String() string {
	switch s {
	case StatePreAlignment:
		return "pre-alignment"
	case StateBothActive:
		return "both-active"
	case StateAExhausted:
		return "a-exhausted"
	case StateBExhausted:
		return "b-exhausted"
	case StateBothExhausted:
		return "both-exhausted"
	}
	return "unknown"
}

// Outcome records where the bytes of an emitted sector came from.
type Outcome int

const (
	OutcomeNone Outcome = iota
	CopiedFromA
	CopiedFromB
	FixedFromB
	BothBad
	PassThrough
	numOutcomes
)

func (o Outcome) String() string {
	switch o {
	case CopiedFromA:
		return "copied-from-a"
	case CopiedFromB:
		return "copied-from-b"
	case FixedFromB:
		return "fixed-from-b"
	case BothBad:
		return "both-bad"
	case PassThrough:
		return "pass-through"
	}
	return "none"
}

// Tally counts bad sector sightings and repairs over a run.
//
// ABad counts every marked sector seen in A, including those that end up
// BothBad, so ABad and BBad both rise for a sector bad in both dumps.
type Tally struct {
	ABad    int64
	BBad    int64
	BothBad int64
	Fixed   int64
}

func (t *Tally) add(d Tally) {
	t.ABad += d.ABad
	t.BBad += d.BBad
	t.BothBad += d.BothBad
	t.Fixed += d.Fixed
}

// Decision is the result of classifying one sector index.
type Decision struct {
	Outcome Outcome
	// Data is the sector to emit. It aliases a or b as passed to Classify.
	Data  []byte
	Delta Tally
	Event EventKind
}

// Classify decides what to emit for one sector index. a and b are the
// sectors read from each dump at that index; nil means the dump had nothing
// left. In StateBothActive a nil b means B ran out at this very index.
//
// It returns ErrUnresolvableConflict when both sectors are readable and
// differ.
func Classify(state State, a, b, marker []byte) (Decision, error) {
	switch state {
	case StatePreAlignment, StateBExhausted:
		return passThrough(a, marker), nil

	case StateBothActive:
		aBad := IsMarked(a, marker)
		if b == nil {
			if !aBad {
				return Decision{Outcome: PassThrough, Data: a}, nil
			}
			return Decision{
				Outcome: BothBad,
				Data:    a,
				Delta:   Tally{ABad: 1, BBad: 1, BothBad: 1},
				Event:   EventBadBeyondB,
			}, nil
		}
		bBad := IsMarked(b, marker)
		switch {
		case aBad && bBad:
			return Decision{
				Outcome: BothBad,
				Data:    a,
				Delta:   Tally{ABad: 1, BBad: 1, BothBad: 1},
				Event:   EventBothBad,
			}, nil
		case aBad:
			return Decision{
				Outcome: FixedFromB,
				Data:    b,
				Delta:   Tally{ABad: 1, Fixed: 1},
				Event:   EventFixed,
			}, nil
		case bBad:
			return Decision{
				Outcome: CopiedFromA,
				Data:    a,
				Delta:   Tally{BBad: 1},
				Event:   EventBadOnlyInB,
			}, nil
		case bytes.Equal(a, b):
			return Decision{Outcome: CopiedFromA, Data: a}, nil
		}
		return Decision{}, ErrUnresolvableConflict

	case StateAExhausted:
		if b == nil {
			return Decision{}, nil
		}
		d := Decision{Outcome: CopiedFromB, Data: b}
		if IsMarked(b, marker) {
			d.Delta.BBad = 1
			d.Event = EventTailBadInB
		}
		return d, nil
	}
	return Decision{}, nil
}

func passThrough(a, marker []byte) Decision {
	if a == nil {
		return Decision{}
	}
	d := Decision{Outcome: PassThrough, Data: a}
	if IsMarked(a, marker) {
		d.Delta.ABad = 1
		d.Event = EventAlreadyBadInA
	}
	return d
}
