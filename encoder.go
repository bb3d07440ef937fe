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

// Encoder holds the augmented data (source blocks followed by auxiliary
// blocks) for one message on one stream, and produces an unbounded,
// restartable sequence of check blocks from it. Once constructed, its
// augmented buffer is never mutated again, so CheckBlock is safe to call
// concurrently from multiple goroutines sharing one Encoder; Next is not,
// since it mutates its own counter.
type Encoder struct {
	coder     *OnlineCoder
	streamID  uint64
	n, m      int
	augmented []byte
	nextID    uint64
}

// Encode prepares an Encoder for data on the given stream: it computes
// N = ceil(len(data)/block_size), the pad needed to round data up to a
// multiple of block_size, builds the augmented buffer (source blocks, zero
// padding, then auxiliary blocks), and returns the pad the caller must
// transmit side-band along with stream_id and N.
func (c *OnlineCoder) Encode(data []byte, streamID uint64) (*Encoder, int, error) {
	if len(data) == 0 {
		return nil, 0, newLengthError("data must not be empty")
	}

	blockSize := c.params.BlockSize
	n := (len(data) + blockSize - 1) / blockSize
	pad := n*blockSize - len(data)
	m := c.params.numAuxBlocks(n)

	if err := c.checkAugmentedSize(n, m); err != nil {
		return nil, 0, err
	}

	augmented := make([]byte, (n+m)*blockSize)
	copy(augmented, data)

	auxAdjacency := buildAuxAdjacency(streamID, n, m, c.params.Q)
	for auxIndex, sources := range auxAdjacency {
		dst := augmented[auxIndex*blockSize : auxIndex*blockSize+blockSize]
		for _, src := range sources {
			xorBlock(dst, augmented[src*blockSize:src*blockSize+blockSize])
		}
	}

	return &Encoder{
		coder:     c,
		streamID:  streamID,
		n:         n,
		m:         m,
		augmented: augmented,
	}, pad, nil
}

// SourceBlocks returns N, the number of source blocks.
func (e *Encoder) SourceBlocks() int {
	return e.n
}

// AuxBlocks returns M, the number of auxiliary blocks.
func (e *Encoder) AuxBlocks() int {
	return e.m
}

// CheckBlock produces the check block for checkBlockID: a fresh, zero-filled
// block_size buffer XORed with every augmented block its adjacency names.
// Pure with respect to Encoder state; producing check block k is
// O(d*block_size) independent of any other id.
func (e *Encoder) CheckBlock(checkBlockID uint64) []byte {
	blockSize := e.coder.params.BlockSize
	adjacency := checkAdjacency(e.streamID, checkBlockID, e.coder.dist, e.n+e.m)

	out := make([]byte, blockSize)
	for _, idx := range adjacency {
		xorBlock(out, e.augmented[idx*blockSize:idx*blockSize+blockSize])
	}
	return out
}

// Next returns the next (check_block_id, block) pair in the infinite
// sequence starting at id 0, advancing Encoder's internal counter. Use
// CheckBlock directly for a stateless, restartable-from-any-id producer.
func (e *Encoder) Next() (uint64, []byte) {
	id := e.nextID
	e.nextID++
	return id, e.CheckBlock(id)
}

// xorBlock XORs src into dst in place; both must be the same length.
func xorBlock(dst, src []byte) {
	for i := range src {
		dst[i] ^= src[i]
	}
}
