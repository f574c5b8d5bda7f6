// hashalgo.go - uniform interface over the five supported digest algorithms
//
// (c) 2024- Sudhi Herle <sudhi@herle.net>
//
// Licensing Terms: GPLv2
//
// If you need a commercial license for this work, please contact
// the author.
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

// Package hashalgo is the digest adapter: it maps the closed set of
// supported algorithm tokens to concrete hash.Hash constructors and
// renders digests as lowercase hex with no separators.
package hashalgo

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"strings"

	"github.com/cxmcc/tiger"
	"github.com/jzelinskie/whirlpool"
)

// Algorithm is the closed set of digest algorithms hashgoblin understands.
type Algorithm int

const (
	MD5 Algorithm = iota
	SHA1
	SHA256
	TIGER
	WHIRLPOOL
)

// All lists every known algorithm in a stable order, used to render the
// "possible options" portion of an InvalidHash error message.
var All = []Algorithm{MD5, SHA1, SHA256, TIGER, WHIRLPOOL}

var tokens = map[Algorithm]string{
	MD5:       "md5",
	SHA1:      "sha1",
	SHA256:    "sha256",
	TIGER:     "tiger",
	WHIRLPOOL: "whirlpool",
}

// String returns the lowercase token for a, e.g. "sha256".
func (a Algorithm) String() string {
	if s, ok := tokens[a]; ok {
		return s
	}
	return fmt.Sprintf("Algorithm(%d)", int(a))
}

// Parse maps a case-insensitive token to an Algorithm. Unknown tokens
// return an error listing every valid token, as required by spec.md §4.1.
func Parse(tok string) (Algorithm, error) {
	lower := strings.ToLower(strings.TrimSpace(tok))
	for a, s := range tokens {
		if s == lower {
			return a, nil
		}
	}
	return 0, fmt.Errorf("invalid hash: %s, possible options are: %s", tok, validTokens())
}

// ParseList splits a comma-separated token list (as found on the manifest
// "algo" header line) into an ordered slice of Algorithm.
func ParseList(csv string) ([]Algorithm, error) {
	parts := strings.Split(csv, ",")
	out := make([]Algorithm, 0, len(parts))
	for _, p := range parts {
		a, err := Parse(p)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

// JoinList renders an ordered algorithm list back to its comma-separated
// token form, the inverse of ParseList.
func JoinList(algos []Algorithm) string {
	toks := make([]string, len(algos))
	for i, a := range algos {
		toks[i] = a.String()
	}
	return strings.Join(toks, ",")
}

func validTokens() string {
	toks := make([]string, len(All))
	for i, a := range All {
		toks[i] = a.String()
	}
	return strings.Join(toks, ", ")
}

// New constructs a fresh hash.Hash for a. Algorithm identity never leaks
// past this point: every caller deals in hash.Hash from here on, per
// spec.md §9's "do not expose algorithm identity inside the hashing loop".
func (a Algorithm) New() hash.Hash {
	switch a {
	case MD5:
		return md5.New()
	case SHA1:
		return sha1.New()
	case SHA256:
		return sha256.New()
	case TIGER:
		return tiger.New()
	case WHIRLPOOL:
		return whirlpool.New()
	default:
		panic(fmt.Sprintf("hashalgo: unknown algorithm %d", int(a)))
	}
}

// MultiHasher drives N independent hash.Hash instances over the same
// byte stream, in the order their algorithms were configured. It is the
// concrete "Hasher" of spec.md §4.1: Update feeds every configured
// algorithm, FinalizeReset returns one lowercase hex digest per
// algorithm (in configured order) and resets every underlying hasher so
// the MultiHasher can be reused for the next file.
type MultiHasher struct {
	algos   []Algorithm
	hashers []hash.Hash
}

// New creates a MultiHasher driving one hash.Hash per algorithm in algos,
// in order.
func New(algos []Algorithm) *MultiHasher {
	m := &MultiHasher{
		algos:   algos,
		hashers: make([]hash.Hash, len(algos)),
	}
	for i, a := range algos {
		m.hashers[i] = a.New()
	}
	return m
}

// Update feeds buf to every configured hasher.
func (m *MultiHasher) Update(buf []byte) {
	for _, h := range m.hashers {
		h.Write(buf)
	}
}

// FinalizeReset returns one lowercase hex digest per configured
// algorithm, in configured order, and resets every underlying hasher.
func (m *MultiHasher) FinalizeReset() []string {
	out := make([]string, len(m.hashers))
	for i, h := range m.hashers {
		out[i] = hex.EncodeToString(h.Sum(nil))
		h.Reset()
	}
	return out
}

// Len returns the number of configured algorithms.
func (m *MultiHasher) Len() int {
	return len(m.algos)
}
