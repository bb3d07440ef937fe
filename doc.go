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

/*
Package oncode implements Online Codes, a rateless forward-error-correction
scheme due to Maymounkov and Mazieres. A sender splits a message into N
equal-sized source blocks and streams an effectively unbounded sequence of
check blocks, each the XOR of a small pseudo-randomly chosen subset of an
augmented block set (the source blocks plus a handful of derived auxiliary
blocks). A receiver that collects any sufficiently large subset of check
blocks -- a little more than N of them, in practice -- can reconstruct the
original message by peeling the bipartite graph of check blocks and
augmented blocks to a fixpoint.

There is no systematic mode: source blocks are never transmitted verbatim,
only recovered through decoding. There is no acknowledgement or
retransmission protocol; the same unbounded stream of check blocks serves
any number of receivers regardless of which blocks they happen to observe.

Both ends must agree out of band on block_size, epsilon, q, stream_id, N,
and the encoder's reported pad. Given agreement on those six values, and
because the only randomness used is a seeded, deterministic PRNG
(xoshiro256**), sender and receiver compute byte-identical adjacency
structures without exchanging any further metadata.
*/
package oncode
