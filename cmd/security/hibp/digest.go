package hibp

import (
	"crypto/sha1" // #nosec G505 -- the range protocol is defined over SHA-1; not used for integrity.
	"unicode/utf8"

	"golang.org/x/crypto/md4" // #nosec G501 -- NTLM mode is MD4 by protocol definition.
)

// Sizes are in hex characters (twice the size in bytes).
const (
	// SHA1HexLen is the hex length of a SHA-1 digest, the default mode.
	SHA1HexLen = 40
	// NTLMHexLen is the hex length of an NTLM (MD4) digest.
	NTLMHexLen = 32

	// PrefixLen is the number of hex characters transmitted to the range
	// endpoint. Shared by request construction and digest splitting;
	// changing it is a breaking protocol change.
	PrefixLen = 5

	// SuffixLen is the retained remainder for the widest mode (SHA-1).
	// Narrower modes zero-pad into the same array so comparisons always
	// cover the full length.
	SuffixLen = SHA1HexLen - PrefixLen
)

// Mode selects the digest algorithm the range endpoint is queried for.
type Mode int

const (
	// ModeSHA1 is the default password digest mode.
	ModeSHA1 Mode = iota
	// ModeNTLM queries the NTLM corpus (MD4 over the UTF-16LE secret).
	ModeNTLM
)

func (m Mode) String() string {
	if m == ModeNTLM {
		return "ntlm"
	}
	return "sha1"
}

// HexLen returns the full digest hex length for the mode.
func (m Mode) HexLen() int {
	if m == ModeNTLM {
		return NTLMHexLen
	}
	return SHA1HexLen
}

// SuffixHexLen returns the retained suffix hex length for the mode.
func (m Mode) SuffixHexLen() int {
	return m.HexLen() - PrefixLen
}

// Prefix is the transmitted first PrefixLen hex characters of a digest.
// Comparing Prefix values is not a constant-time operation; a prefix is
// already shared with the network and needs no timing protection.
type Prefix [PrefixLen]byte

func (p Prefix) String() string { return string(p[:]) }

// Suffix is the retained remainder of a digest. It is never transmitted.
// Compare suffixes with Candidate matching or ConstantTimeEqual, never
// with ==.
type Suffix [SuffixLen]byte

// DigestSecret hashes secret, renders the digest as uppercase hex and
// splits it at the protocol offset. Intermediate buffers holding
// secret-derived bytes are wiped before returning on every path. The
// caller owns secret and wipes it itself if required.
func DigestSecret(secret []byte, mode Mode) (Prefix, Suffix) {
	var sum []byte
	if mode == ModeNTLM {
		u16 := utf16LE(secret)
		h := md4.New()
		_, _ = h.Write(u16)
		sum = h.Sum(nil)
		wipe(u16)
	} else {
		s := sha1.Sum(secret)
		sum = s[:]
	}

	hexBuf := make([]byte, len(sum)*2)
	encodeUpperHex(hexBuf, sum)
	wipe(sum)

	prefix, suffix := splitHex(hexBuf, mode)
	wipe(hexBuf)
	return prefix, suffix
}

// Split splits an uppercase hex digest at the protocol offset. It fails
// with ErrBadDigestLength when the digest does not match the mode's length.
func Split(digestHex string, mode Mode) (Prefix, Suffix, error) {
	if len(digestHex) != mode.HexLen() {
		return Prefix{}, Suffix{}, ErrBadDigestLength
	}
	prefix, suffix := splitHex([]byte(digestHex), mode)
	return prefix, suffix, nil
}

func splitHex(digestHex []byte, mode Mode) (Prefix, Suffix) {
	var p Prefix
	var s Suffix
	copy(p[:], digestHex[:PrefixLen])
	copy(s[:], digestHex[PrefixLen:mode.HexLen()])
	return p, s
}

const upperHexDigits = "0123456789ABCDEF"

func encodeUpperHex(dst, src []byte) {
	for i, b := range src {
		dst[i*2] = upperHexDigits[b>>4]
		dst[i*2+1] = upperHexDigits[b&0x0f]
	}
}

// utf16LE encodes a UTF-8 secret as UTF-16 little-endian, the input NTLM
// hashes are defined over. The returned buffer holds secret material and
// must be wiped by the caller.
func utf16LE(secret []byte) []byte {
	// Each UTF-8 rune of n bytes needs at most 2n bytes in UTF-16LE,
	// so the buffer never reallocates and a single wipe covers it all.
	buf := make([]byte, 0, len(secret)*2)
	for i := 0; i < len(secret); {
		r, size := utf8.DecodeRune(secret[i:])
		i += size
		if r > 0xFFFF {
			r -= 0x10000
			hi := 0xD800 + (r >> 10)
			lo := 0xDC00 + (r & 0x3FF)
			buf = append(buf, byte(hi), byte(hi>>8), byte(lo), byte(lo>>8))
			continue
		}
		buf = append(buf, byte(r), byte(r>>8))
	}
	return buf
}

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
