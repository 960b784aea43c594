package hibp

import "crypto/subtle"

// MatchCount returns the breach count recorded for suffix in candidates,
// or 0 when no candidate matches. Zero is a normal outcome, not an error.
//
// The scan visits every candidate exactly once and never exits early. Each
// comparison covers the full fixed-length suffix, and the matched count is
// folded in with mask arithmetic instead of a branch, so wall-clock time is
// a function of the candidate set size only, never of suffix content or
// match position.
func MatchCount(suffix Suffix, candidates []Candidate) uint64 {
	var count uint64
	for i := range candidates {
		eq := subtle.ConstantTimeCompare(suffix[:], candidates[i].Suffix[:])
		mask := -uint64(eq) // all ones on match, zero otherwise
		count |= mask & candidates[i].Count
	}
	return count
}

// ConstantTimeEqual reports whether two suffixes match without leaking
// where they differ through timing.
func ConstantTimeEqual(a, b Suffix) bool {
	return subtle.ConstantTimeCompare(a[:], b[:]) == 1
}
