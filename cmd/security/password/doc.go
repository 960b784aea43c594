// Package password provides the local password policy applied before a
// breach lookup.
//
// It bounds candidate length (the upper bound is an anti-DoS limit on
// digest input, the lower bound filters noise requests) and can reject a
// small set of trivially weak patterns without any network round trip.
// Policy checks never retain or log the candidate password.
package password
