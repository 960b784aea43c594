package hibp

// MinPadding is the smallest candidate set a padded range response may
// contain. The range service keeps padded responses in the 800-1000 entry
// band, so anything below 800 means the padding guarantee was not honored.
const MinPadding = 800

// EnforcePadding validates the padding floor on a candidate set.
//
// Without this check a misbehaving or compromised server could return an
// unpadded response, letting a size-observing party distinguish small real
// responses from padded ones. The check fails closed: a short response is
// ErrInsufficientPadding, regardless of whether it contains a match.
func EnforcePadding(candidates []Candidate) error {
	if len(candidates) < MinPadding {
		return ErrInsufficientPadding
	}
	return nil
}
