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

// Command oncodedemo encodes a message with Online Codes, streams the check
// blocks over a simulated lossy channel, and decodes on the other side,
// reporting how many check blocks the receiver needed.
package main

import (
	"math/rand"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	oncode "github.com/google/go-online-codes"
)

// The default message is a paragraph from Mervyn Peake's Titus Groan,
// 1024 bytes of ASCII.
const gormenghast = "Gormenghast, that is the main massing of the original stone, taken by itself " +
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

func main() {
	var message = pflag.StringP("message", "m", gormenghast, "Message to round-trip through the codec.")
	var blockSize = pflag.IntP("block-size", "b", 1, "Size in bytes of every source, auxiliary, and check block.")
	var epsilon = pflag.Float64P("epsilon", "e", oncode.DefaultEpsilon, "Suboptimality parameter controlling check-block overhead, in (0,1).")
	var quality = pflag.IntP("quality", "q", oncode.DefaultQuality, "Number of auxiliary blocks each source block contributes to.")
	var streamID = pflag.Uint64P("stream-id", "s", 0xDEADBEEF, "Stream id shared by sender and receiver.")
	var lossRate = pflag.Float64P("loss-rate", "l", 0.0, "Probability that the channel drops any given check block.")
	var lossSeed = pflag.Int64P("loss-seed", "S", 1, "Seed for the simulated channel's drop decisions.")
	var maxBlocks = pflag.IntP("max-blocks", "k", 0, "Give up after this many check blocks leave the sender. 0 means N + 500.")
	var verbose = pflag.BoolP("verbose", "v", false, "Log every decoded-block milestone.")
	pflag.Parse()

	if *verbose {
		log.SetLevel(log.DebugLevel)
	}

	if *lossRate < 0 || *lossRate >= 1 {
		log.Fatal("loss-rate must be in [0, 1)", "loss-rate", *lossRate)
	}

	coder, err := oncode.NewOnlineCoderWithParams(oncode.Params{
		BlockSize: *blockSize,
		Epsilon:   *epsilon,
		Q:         *quality,
	})
	if err != nil {
		log.Fatal("invalid parameters", "err", err)
	}

	data := []byte(*message)
	encoder, pad, err := coder.Encode(data, *streamID)
	if err != nil {
		log.Fatal("encoding failed", "err", err)
	}

	n := encoder.SourceBlocks()
	log.Info("encoded message",
		"bytes", len(data),
		"source-blocks", n,
		"aux-blocks", encoder.AuxBlocks(),
		"pad", pad)

	decoder, err := coder.Decode(n, *streamID, pad)
	if err != nil {
		log.Fatal("decoder construction failed", "err", err)
	}

	limit := *maxBlocks
	if limit == 0 {
		limit = n + 500
	}

	channel := rand.New(rand.NewSource(*lossSeed))
	sent, dropped, received := 0, 0, 0
	start := time.Now()
	var decoded []byte
	for sent < limit {
		id, block := encoder.Next()
		sent++
		if channel.Float64() < *lossRate {
			dropped++
			continue
		}
		received++
		msg, done, err := decoder.DecodeBlock(id, block)
		if err != nil {
			log.Fatal("decoder rejected check block", "id", id, "err", err)
		}
		if *verbose {
			flags, _ := decoder.IncompleteResult()
			known := 0
			for _, f := range flags {
				if f {
					known++
				}
			}
			log.Debug("check block absorbed", "id", id, "decoded-sources", known, "total-sources", n)
		}
		if done {
			decoded = msg
			break
		}
	}
	elapsed := time.Since(start)

	if decoded == nil {
		flags, _ := decoder.IncompleteResult()
		known := 0
		for _, f := range flags {
			if f {
				known++
			}
		}
		log.Error("decoding did not complete",
			"sent", sent,
			"dropped", dropped,
			"received", received,
			"decoded-sources", known,
			"total-sources", n)
		os.Exit(1)
	}

	if string(decoded) != *message {
		log.Fatal("decoded output does not match input", "decoded-bytes", len(decoded))
	}

	log.Info("decoding complete",
		"sent", sent,
		"dropped", dropped,
		"received", received,
		"overhead", float64(received)/float64(n),
		"elapsed", elapsed)
	log.Debug("decoded message", "text", string(decoded))
}
