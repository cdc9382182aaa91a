// Package entropy seeds the editor's random source. Generation draws from a
// single math/rand source per session; only its seed comes from here.
package entropy

import (
	"crypto/rand"
	"encoding/binary"
	"log/slog"
	mrand "math/rand"
	"time"
)

// Seed returns a random non-zero seed from crypto/rand, falling back to the
// clock if the system source fails.
func Seed() int64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		slog.Warn("crypto/rand unavailable, seeding from clock", "error", err)
		return time.Now().UnixNano() | 1
	}
	// Clear the sign bit so seeds print as positive numbers.
	n := int64(binary.LittleEndian.Uint64(buf[:]) >> 1)
	if n == 0 {
		n = 1
	}
	return n
}

// NewRand returns a source for seed, drawing a fresh seed when it is 0.
// The seed actually used is returned so a run can be reproduced.
func NewRand(seed int64) (*mrand.Rand, int64) {
	if seed == 0 {
		seed = Seed()
	}
	return mrand.New(mrand.NewSource(seed)), seed
}
