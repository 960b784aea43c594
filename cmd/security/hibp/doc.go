// Package hibp checks secrets against the Pwned Passwords breach corpus
// using the k-anonymity range protocol.
//
// Only the first PrefixLen hex characters of the secret's digest ever leave
// the process; the remote service answers with every known suffix sharing
// that prefix and the client resolves the match locally. The package
// includes:
// - SHA-1 and NTLM digest modes with wiped intermediate buffers
// - Padding-floor enforcement on range responses (fail closed)
// - Constant-time, full-scan suffix matching
// - A narrow RangeFetcher seam so tests never touch the network
//
// Security notes:
// - Range responses are untrusted input and are parsed strictly; a single
//   malformed line rejects the whole response so the padding floor cannot
//   be undercounted.
// - The matcher's running time depends only on the candidate set size,
//   never on suffix content or match position.
package hibp
