package call

// Stats aggregates transition/transversion counts over the substitution
// variants of a call. Indels count in neither bucket.
type Stats struct {
	Transitions   int
	Transversions int
	// Ratio is Transitions/Transversions, or 0 when no transversions
	// were observed.
	Ratio float64
}

// ComputeStats tallies transitions and transversions over the given
// variants. A transition swaps two purines (A<->G) or two pyrimidines
// (C<->T); every other substitution is a transversion.
func ComputeStats(variants []Variant) Stats {
	var s Stats
	for _, v := range variants {
		if v.Kind != Substitution {
			continue
		}
		if isTransition(v.Ref, v.Alt) {
			s.Transitions++
		} else {
			s.Transversions++
		}
	}
	if s.Transversions > 0 {
		s.Ratio = float64(s.Transitions) / float64(s.Transversions)
	}
	return s
}

func isTransition(ref, alt byte) bool {
	return (isPurine(ref) && isPurine(alt)) || (isPyrimidine(ref) && isPyrimidine(alt))
}

func isPurine(b byte) bool {
	return b == 'A' || b == 'G'
}

func isPyrimidine(b byte) bool {
	return b == 'C' || b == 'T'
}
