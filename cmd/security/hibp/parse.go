package hibp

import (
	"bytes"
	"strconv"
)

// Candidate is one SUFFIX:COUNT record from a range response. All
// candidates of a response implicitly share the queried prefix.
type Candidate struct {
	Suffix Suffix
	Count  uint64
}

// ParseRange parses a raw range response body into candidates. Records are
// newline-separated SUFFIX:COUNT lines, optionally CR-terminated; suffixLen
// is the expected suffix hex length for the queried mode.
//
// Parsing is strict: any malformed line fails the whole response with a
// DecodeError. Silently skipping bad lines would shrink the candidate set
// and corrupt the padding-floor check.
func ParseRange(body []byte, suffixLen int) ([]Candidate, error) {
	candidates := make([]Candidate, 0, 1024)

	lineNo := 0
	for start := 0; start < len(body); {
		lineNo++

		var line []byte
		if nl := bytes.IndexByte(body[start:], '\n'); nl >= 0 {
			line = body[start : start+nl]
			start += nl + 1
		} else {
			line = body[start:]
			start = len(body)
		}
		line = bytes.TrimSuffix(line, []byte("\r"))

		c, ok := parseRangeLine(line, suffixLen)
		if !ok {
			return nil, &DecodeError{Line: lineNo}
		}
		candidates = append(candidates, c)
	}

	return candidates, nil
}

// parseRangeLine parses a single SUFFIX:COUNT record. The suffix must be
// exactly suffixLen uppercase hex characters, the separator a single colon,
// the count a non-negative decimal.
func parseRangeLine(line []byte, suffixLen int) (Candidate, bool) {
	// Shortest valid record is SUFFIX, colon, one digit.
	if len(line) < suffixLen+2 || line[suffixLen] != ':' {
		return Candidate{}, false
	}
	for _, b := range line[:suffixLen] {
		if !isUpperHex(b) {
			return Candidate{}, false
		}
	}

	count, err := strconv.ParseUint(string(line[suffixLen+1:]), 10, 64)
	if err != nil {
		return Candidate{}, false
	}

	var c Candidate
	copy(c.Suffix[:], line[:suffixLen])
	c.Count = count
	return c, true
}

func isUpperHex(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'A' && b <= 'F')
}
