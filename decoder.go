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

// checkEntry is a buffered check block whose degree relative to undecoded
// neighbors is currently >= 2: not yet useful, but its payload is already
// the XOR of only its undecoded neighbors' true values, so it can be peeled
// the moment its degree drops to 1.
type checkEntry struct {
	remainingDegree int
	payload         []byte
}

// auxEntry is an auxiliary block's reverse adjacency: its constituent source
// blocks, and a remaining degree that starts at their count and is
// decremented once, when the auxiliary block itself is decoded. Decoding one
// of its source blocks does not change the count, so the entry reaches the
// aux decode stack only for an auxiliary block with exactly two sources.
type auxEntry struct {
	remainingDegree int
	sources         []int
}

type decodeStackEntry struct {
	checkBlockID uint64
	payload      []byte
}

type auxStackEntry struct {
	auxIndex int
	sources  []int
}

// Decoder incrementally peels the bipartite graph of check blocks versus
// augmented (source + auxiliary) blocks as check blocks arrive, in any
// order, with any duplication. It owns its augmented buffer and bookkeeping
// maps exclusively for the duration of each DecodeBlock call; between
// calls, both work stacks are empty.
//
// Peeling is naturally recursive (decoding one block can cascade through
// every check block buffered against it), but the cascade is reified as two
// explicit LIFO stacks so the depth stays bounded for messages of millions
// of blocks.
type Decoder struct {
	coder    *OnlineCoder
	streamID uint64
	n, m     int
	pad      int

	augmented     []byte
	blocksDecoded []bool

	numUndecodedDataBlocks int

	unusedCheckBlocks   map[uint64]*checkEntry
	adjacentCheckBlocks map[int][]uint64
	unusedAuxAdjacency  map[int]*auxEntry

	decodeStack    []decodeStackEntry
	auxDecodeStack []auxStackEntry

	done bool
}

// Decode constructs a decoder for a message of n source blocks on the given
// stream, with the pad the matching encoder reported. It precomputes the
// auxiliary adjacency and allocates the augmented buffer and bookkeeping
// structures; no check blocks have been consumed yet.
func (c *OnlineCoder) Decode(n int, streamID uint64, pad int) (*Decoder, error) {
	if n < 1 {
		return nil, newConfigError("N", "must be >= 1, got %d", n)
	}
	blockSize := c.params.BlockSize
	if pad < 0 || pad >= blockSize {
		return nil, newConfigError("pad", "must be in [0, block_size), got %d (block_size=%d)", pad, blockSize)
	}

	m := c.params.numAuxBlocks(n)
	if err := c.checkAugmentedSize(n, m); err != nil {
		return nil, err
	}

	auxAdjacency := buildAuxAdjacency(streamID, n, m, c.params.Q)
	unusedAuxAdjacency := make(map[int]*auxEntry, len(auxAdjacency))
	for auxIndex, sources := range auxAdjacency {
		unusedAuxAdjacency[auxIndex] = &auxEntry{remainingDegree: len(sources), sources: sources}
	}

	return &Decoder{
		coder:                  c,
		streamID:               streamID,
		n:                      n,
		m:                      m,
		pad:                    pad,
		augmented:              make([]byte, (n+m)*blockSize),
		blocksDecoded:          make([]bool, n+m),
		numUndecodedDataBlocks: n,
		unusedCheckBlocks:      make(map[uint64]*checkEntry),
		adjacentCheckBlocks:    make(map[int][]uint64),
		unusedAuxAdjacency:     unusedAuxAdjacency,
	}, nil
}

// DecodeBlock feeds one check block to the decoder. It is idempotent:
// feeding the same (checkBlockID, payload) twice never corrupts state or
// changes the eventual output, since the second copy is discarded as
// degree-0 once the first has been absorbed. It returns the decoded message
// and true exactly when this call completes decoding; otherwise nil, false.
// Once complete, the decoder is considered consumed and further calls are
// no-ops.
func (d *Decoder) DecodeBlock(checkBlockID uint64, payload []byte) ([]byte, bool, error) {
	blockSize := d.coder.params.BlockSize
	if len(payload) != blockSize {
		return nil, false, newUsageError("check block payload length %d != block_size %d", len(payload), blockSize)
	}

	if d.done {
		return nil, false, nil
	}

	owned := make([]byte, blockSize)
	copy(owned, payload)
	d.decodeStack = append(d.decodeStack, decodeStackEntry{checkBlockID, owned})

	d.drainDecodeStack(blockSize)
	d.drainAuxDecodeStack(blockSize)

	if d.numUndecodedDataBlocks == 0 {
		d.done = true
		message := make([]byte, d.n*blockSize-d.pad)
		copy(message, d.augmented[:d.n*blockSize-d.pad])
		return message, true, nil
	}
	return nil, false, nil
}

func (d *Decoder) drainDecodeStack(blockSize int) {
	for len(d.decodeStack) > 0 {
		top := d.decodeStack[len(d.decodeStack)-1]
		d.decodeStack = d.decodeStack[:len(d.decodeStack)-1]

		adjacency := checkAdjacency(d.streamID, top.checkBlockID, d.coder.dist, d.n+d.m)
		target, undecodedCount := undecodedDegree(adjacency, d.blocksDecoded)

		switch {
		case undecodedCount == 0:
			// No new information; discard.
		case undecodedCount == 1:
			d.decodeOneFromCheckBlock(target, top.payload, adjacency, blockSize)
		default:
			d.unusedCheckBlocks[top.checkBlockID] = &checkEntry{remainingDegree: undecodedCount, payload: top.payload}
			for _, idx := range adjacency {
				d.adjacentCheckBlocks[idx] = append(d.adjacentCheckBlocks[idx], top.checkBlockID)
			}
		}
	}
}

func (d *Decoder) decodeOneFromCheckBlock(target int, payload []byte, adjacency []int, blockSize int) {
	dst := d.augmented[target*blockSize : target*blockSize+blockSize]
	xorBlock(dst, payload)
	xorOtherAdjacent(dst, target, adjacency, d.augmented, blockSize)

	d.blocksDecoded[target] = true
	if target < d.n {
		d.numUndecodedDataBlocks--
	} else if entry, ok := d.unusedAuxAdjacency[target]; ok {
		entry.remainingDegree--
		if entry.remainingDegree == 1 {
			delete(d.unusedAuxAdjacency, target)
			d.auxDecodeStack = append(d.auxDecodeStack, auxStackEntry{target, entry.sources})
		}
	}

	if ids, ok := d.adjacentCheckBlocks[target]; ok {
		delete(d.adjacentCheckBlocks, target)
		for _, cid := range ids {
			entry, ok := d.unusedCheckBlocks[cid]
			if !ok {
				continue
			}
			entry.remainingDegree--
			if entry.remainingDegree == 1 {
				delete(d.unusedCheckBlocks, cid)
				d.decodeStack = append(d.decodeStack, decodeStackEntry{cid, entry.payload})
			}
		}
	}
}

func (d *Decoder) drainAuxDecodeStack(blockSize int) {
	for len(d.auxDecodeStack) > 0 {
		top := d.auxDecodeStack[len(d.auxDecodeStack)-1]
		d.auxDecodeStack = d.auxDecodeStack[:len(d.auxDecodeStack)-1]

		target, ok := blockToDecode(top.sources, d.blocksDecoded)
		if !ok {
			// Not exactly one source is undecoded (both still unknown, or
			// both already decoded). The entry was removed from
			// unusedAuxAdjacency when it was pushed, so it is dropped here
			// and never revisited.
			continue
		}

		dst := d.augmented[target*blockSize : target*blockSize+blockSize]
		xorBlock(dst, d.augmented[top.auxIndex*blockSize:top.auxIndex*blockSize+blockSize])
		xorOtherAdjacent(dst, target, top.sources, d.augmented, blockSize)

		d.blocksDecoded[target] = true
		d.numUndecodedDataBlocks--

		// Note: unlike the check-block decode path, a source block decoded
		// via its aux block does not consult adjacentCheckBlocks here. Any
		// check block still waiting on this source block is resolved once
		// the decoder observes enough further check blocks for the fixpoint
		// to reach it by another route.
	}
}

// xorOtherAdjacent XORs every block in adjacency except target itself into
// dst. Those neighbors are already decoded by the time this runs, so this
// cancels their contribution out of the payload that was XORed into dst,
// leaving only target's true value.
func xorOtherAdjacent(dst []byte, target int, adjacency []int, augmented []byte, blockSize int) {
	for _, idx := range adjacency {
		if idx != target {
			xorBlock(dst, augmented[idx*blockSize:idx*blockSize+blockSize])
		}
	}
}

// undecodedDegree reports how many of adjacency's members are not yet
// decoded, and (when exactly one is undecoded) which one.
func undecodedDegree(adjacency []int, blocksDecoded []bool) (target int, count int) {
	for _, idx := range adjacency {
		if !blocksDecoded[idx] {
			count++
			target = idx
		}
	}
	return target, count
}

// blockToDecode returns the single undecoded member of sources, if there is
// exactly one.
func blockToDecode(sources []int, blocksDecoded []bool) (int, bool) {
	target := -1
	for _, idx := range sources {
		if !blocksDecoded[idx] {
			if target != -1 {
				return 0, false
			}
			target = idx
		}
	}
	if target == -1 {
		return 0, false
	}
	return target, true
}

// IncompleteResult inspects partial decoder state without consuming it:
// per-source-block decoded flags and the current (possibly still-zero)
// prefix of the augmented buffer covering the source blocks. The returned
// slices alias live decoder state and must not be retained across a further
// DecodeBlock call.
func (d *Decoder) IncompleteResult() ([]bool, []byte) {
	blockSize := d.coder.params.BlockSize
	return d.blocksDecoded[:d.n], d.augmented[:d.n*blockSize]
}

// IntoIncompleteResult extracts owned copies of the partial decode state and
// marks the decoder consumed; it must not be used afterward.
func (d *Decoder) IntoIncompleteResult() ([]bool, []byte) {
	flags, prefix := d.IncompleteResult()
	flagsCopy := make([]bool, len(flags))
	copy(flagsCopy, flags)
	prefixCopy := make([]byte, len(prefix))
	copy(prefixCopy, prefix)
	d.done = true
	return flagsCopy, prefixCopy
}

// DecodeAll feeds check blocks from next (which returns ok=false once
// exhausted) until the message is fully decoded or next is exhausted.
func (d *Decoder) DecodeAll(next func() (checkBlockID uint64, payload []byte, ok bool)) ([]byte, bool) {
	for {
		id, payload, ok := next()
		if !ok {
			return nil, false
		}
		message, done, err := d.DecodeBlock(id, payload)
		if err != nil {
			return nil, false
		}
		if done {
			return message, true
		}
	}
}
