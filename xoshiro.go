// Copyright 2014 Google Inc. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package oncode

import "math/bits"

// xoshiro256ss is an implementation of the xoshiro256** PRNG of Blackman and
// Vigna. See https://prng.di.unimi.it/xoshiro256starstar.c
//
// This is the one part of the codec where the exact algorithm, not just "a
// good enough" substitute, is load-bearing: sender and receiver must derive
// byte-identical adjacency structures from nothing but shared integers, so
// any PRNG family swap is a wire-protocol break (see the determinism
// contract in the package documentation). Satisfies math/rand.Source64.
type xoshiro256ss struct {
	s [4]uint64
}

// newXoshiro256ss seeds a new generator from a single 64-bit integer, using
// splitmix64 to expand it into the 256 bits of internal state. This is the
// standard seeding strategy for xoshiro generators (the reference C
// implementation's companion splitmix64.c), and matches the seeding used by
// the rand_xoshiro crate's Xoshiro256StarStar::seed_from_u64.
func newXoshiro256ss(seed uint64) *xoshiro256ss {
	var sm splitmix64
	sm.state = seed

	var t xoshiro256ss
	for i := range t.s {
		t.s[i] = sm.next()
	}
	return &t
}

// Uint64 returns the next pseudo-random value from the generator.
func (t *xoshiro256ss) Uint64() uint64 {
	s0, s1, s2, s3 := t.s[0], t.s[1], t.s[2], t.s[3]

	result := bits.RotateLeft64(s1*5, 7) * 9

	tmp := s1 << 17

	s2 ^= s0
	s3 ^= s1
	s1 ^= s2
	s0 ^= s3
	s2 ^= tmp
	s3 = bits.RotateLeft64(s3, 45)

	t.s[0], t.s[1], t.s[2], t.s[3] = s0, s1, s2, s3

	return result
}

// Int63 returns the next value from the generator as the low 63 bits of a
// Uint64 draw, so that xoshiro256ss satisfies math/rand.Source.
func (t *xoshiro256ss) Int63() int64 {
	return int64(t.Uint64() >> 1)
}

// Seed reseeds the generator, discarding all prior state.
func (t *xoshiro256ss) Seed(seed int64) {
	*t = *newXoshiro256ss(uint64(seed))
}

// splitmix64 is the small, fast generator conventionally used to expand a
// single 64-bit seed into the larger state vector a xoshiro-family
// generator needs. See https://prng.di.unimi.it/splitmix64.c
type splitmix64 struct {
	state uint64
}

func (s *splitmix64) next() uint64 {
	s.state += 0x9e3779b97f4a7c15
	z := s.state
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

// seedForStream derives the seed used for the stream-level PRNG that builds
// the auxiliary-block adjacency once per stream: stream_id plus a check
// block id of 0.
func seedForStream(streamID uint64) uint64 {
	return streamID
}

// seedForCheckBlock derives the seed used for the per-check-block PRNG.
// Uses wrapping (mod 2^64) addition, which loses entropy for adjacent check
// block ids; changing the combination now would break every deployed
// stream, so it stays.
func seedForCheckBlock(streamID, checkBlockID uint64) uint64 {
	return streamID + checkBlockID
}

// sampleDistinct draws up to min(num, highExclusive - (exclude present ? 1 : 0))
// distinct integers from [0, highExclusive), none equal to exclude if given.
// It draws uniformly from rng, discarding any hit of exclude, until the cap
// is reached. The order of the returned values is unspecified but
// deterministic given rng's starting state.
func sampleDistinct(rng *xoshiro256ss, highExclusive, num int, exclude int, hasExclude bool) []int {
	if highExclusive <= 0 || num <= 0 {
		return nil
	}

	limit := num
	if hasExclude && exclude >= 0 && exclude < highExclusive {
		if limit > highExclusive-1 {
			limit = highExclusive - 1
		}
	} else if limit > highExclusive {
		limit = highExclusive
	}

	seen := make(map[int]bool, limit)
	picks := make([]int, 0, limit)
	for len(picks) < limit {
		p := int(rng.Uint64() % uint64(highExclusive))
		if hasExclude && p == exclude {
			continue
		}
		if seen[p] {
			continue
		}
		seen[p] = true
		picks = append(picks, p)
	}
	return picks
}
