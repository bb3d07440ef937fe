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

import "math"

// DefaultEpsilon and DefaultQuality are the recommended parameters from the
// Maymounkov-Mazieres paper.
const (
	DefaultEpsilon = 0.01
	DefaultQuality = 3
)

// Params holds the coder parameters both sender and receiver must agree on
// out of band, along with stream_id, N, and pad.
type Params struct {
	// BlockSize is the size in bytes of every source, auxiliary, and check
	// block. Must be >= 1.
	BlockSize int

	// Epsilon is the suboptimality parameter controlling check-block
	// overhead. Must be in (0, 1). NewOnlineCoder sets it to DefaultEpsilon;
	// NewOnlineCoderWithParams rejects a zero value rather than defaulting it.
	Epsilon float64

	// Q is the number of auxiliary blocks each source block contributes to.
	// Must be >= 1. NewOnlineCoder sets it to DefaultQuality;
	// NewOnlineCoderWithParams rejects a zero value rather than defaulting it.
	Q int
}

func (p Params) validate() error {
	if p.BlockSize < 1 {
		return newConfigError("BlockSize", "must be >= 1, got %d", p.BlockSize)
	}
	if !(p.Epsilon > 0 && p.Epsilon < 1) {
		return newConfigError("Epsilon", "must be in (0,1), got %v", p.Epsilon)
	}
	if p.Q < 1 {
		return newConfigError("Q", "must be >= 1, got %d", p.Q)
	}
	return nil
}

// numAuxBlocks returns M = ceil(0.55 * q * epsilon * n), the number of
// auxiliary blocks for a message of n source blocks.
func (p Params) numAuxBlocks(n int) int {
	return int(math.Ceil(0.55 * float64(p.Q) * p.Epsilon * float64(n)))
}

// OnlineCoder is a reusable Online Codes encoder/decoder factory bound to a
// fixed set of parameters. Distinct streams (distinguished by stream_id) may
// share the same OnlineCoder value; it holds no per-stream state itself.
type OnlineCoder struct {
	params Params
	dist   *degreeDistribution
}

// NewOnlineCoder constructs a coder with the given block size and the
// package defaults for epsilon and q.
func NewOnlineCoder(blockSize int) (*OnlineCoder, error) {
	return NewOnlineCoderWithParams(Params{BlockSize: blockSize, Epsilon: DefaultEpsilon, Q: DefaultQuality})
}

// NewOnlineCoderWithParams constructs a coder with explicit parameters,
// returning a ConfigError if they are out of range.
func NewOnlineCoderWithParams(params Params) (*OnlineCoder, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}
	dist, err := buildDegreeDistribution(params.Epsilon)
	if err != nil {
		return nil, err
	}
	return &OnlineCoder{params: params, dist: dist}, nil
}

// Params returns the coder's configured parameters.
func (c *OnlineCoder) Params() Params {
	return c.params
}

func (c *OnlineCoder) checkAugmentedSize(n, m int) error {
	if n+m <= 1 {
		return newConfigError("N", "N+M must be > 1 for decoding (got N=%d, M=%d); too few source blocks for these parameters", n, m)
	}
	if n+m > math.MaxInt/c.params.BlockSize {
		return newConfigError("N", "augmented buffer size (N+M)*block_size overflows (N=%d, M=%d, block_size=%d)", n, m, c.params.BlockSize)
	}
	return nil
}
