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

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// decodeWithin feeds check blocks from enc to dec until the message is
// recovered or maxBlocks have been tried, whichever comes first.
func decodeWithin(t require.TestingT, enc *Encoder, dec *Decoder, maxBlocks int) []byte {
	for i := 0; i < maxBlocks; i++ {
		id, block := enc.Next()
		msg, done, err := dec.DecodeBlock(id, block)
		require.NoError(t, err)
		if done {
			return msg
		}
	}
	return nil
}

// TestRoundTripTinyIdentity round-trips a 2-byte message at block_size=1,
// which should decode well within 500 check blocks.
func TestRoundTripTinyIdentity(t *testing.T) {
	c, err := NewOnlineCoder(1)
	require.NoError(t, err)

	data := []byte("01")
	enc, pad, err := c.Encode(data, 0xDEADBEEF)
	require.NoError(t, err)

	dec, err := c.Decode(enc.SourceBlocks(), 0xDEADBEEF, pad)
	require.NoError(t, err)

	msg := decodeWithin(t, enc, dec, 500)
	require.NotNil(t, msg, "should have decoded within 500 check blocks")
	require.Equal(t, data, msg)
}

// gormenghastParagraph is a 1024-byte paragraph of prose, handy as a
// realistic non-random payload.
const gormenghastParagraph = "Gormenghast, that is the main massing of the original stone, taken by itself " +
	"would have displayed a certain ponderous architectural quality were it not " +
	"for the circumfusion of mean dwellings that swarmed like an epidemic around " +
	"its outer walls. They sprawled over the sloping earth, each one have way " +
	"over its neighbor until, held back by the castle ramparts, the innermost of " +
	"these hovels laid hold on the great walls, clamping themselves thereto like " +
	"limpets to a rock. These dwellings, by ancient law, were granted this chill " +
	"intimacy with the stronghold that loomed above them. Over their irregular " +
	"roofs would fall, thoughout the seasons, the shadows of time-eaten buttresses, " +
	"of broken and lofty turrets, and-most enormous of all-the shadow of the Tower of " +
	"Flints. This tower, patched uneavenly with black ivy, arose like a mutilated " +
	"finger from among the fists of knuckled masonry and pointed blasphemously at heaven. " +
	"At night the owls made of it an echoing throat; by day it stood voiceless and cast " +
	"its long shadow."

// TestRoundTripGormenghastParagraph round-trips a prose paragraph at
// block_size=1, feeding up to N+500 check blocks.
func TestRoundTripGormenghastParagraph(t *testing.T) {
	data := []byte(gormenghastParagraph)
	c, err := NewOnlineCoder(1)
	require.NoError(t, err)

	enc, pad, err := c.Encode(data, 0xDEADBEEF)
	require.NoError(t, err)

	dec, err := c.Decode(enc.SourceBlocks(), 0xDEADBEEF, pad)
	require.NoError(t, err)

	msg := decodeWithin(t, enc, dec, enc.SourceBlocks()+500)
	require.NotNil(t, msg, "should have decoded within N+500 check blocks")
	require.Equal(t, data, msg)
}

// TestRoundTripRandom4KiB round-trips a random 4KiB message at
// block_size=1024, which should recover within a modest number of check
// blocks (4 source blocks, each 1024 bytes, yielding at most 64KiB of
// check-block traffic).
func TestRoundTripRandom4KiB(t *testing.T) {
	random := rand.New(rand.NewSource(12345))
	data := make([]byte, 4096)
	random.Read(data)

	c, err := NewOnlineCoder(1024)
	require.NoError(t, err)

	enc, pad, err := c.Encode(data, 42)
	require.NoError(t, err)

	dec, err := c.Decode(enc.SourceBlocks(), 42, pad)
	require.NoError(t, err)

	const maxCheckBlocks = 64 // 64 * 1024 bytes = 64KiB of check-block traffic
	msg := decodeWithin(t, enc, dec, maxCheckBlocks)
	require.NotNil(t, msg, "should have decoded within %d KiB of check blocks", maxCheckBlocks)
	require.Equal(t, data, msg)
}

// TestRoundTripNonMultipleBlockSize checks padding is stripped correctly
// when len(data) is not a multiple of block_size.
func TestRoundTripNonMultipleBlockSize(t *testing.T) {
	c, err := NewOnlineCoder(8)
	require.NoError(t, err)

	data := []byte("this message is not a multiple of eight bytes long")
	enc, pad, err := c.Encode(data, 1)
	require.NoError(t, err)
	require.Greater(t, pad, 0)

	dec, err := c.Decode(enc.SourceBlocks(), 1, pad)
	require.NoError(t, err)

	msg := decodeWithin(t, enc, dec, enc.SourceBlocks()+500)
	require.NotNil(t, msg)
	require.Equal(t, data, msg)
}
