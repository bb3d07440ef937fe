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

// buildAuxAdjacency computes, once per stream, the mapping from each
// auxiliary block's augmented index (in [n, n+m)) to the list of source
// block indices (in [0, n)) that are XORed into it. Seeded from streamID
// alone (seedForStream), iterating i = 0..n in order -- order matters for
// determinism between sender and receiver -- sampling q distinct aux
// indices per source block.
func buildAuxAdjacency(streamID uint64, n, m, q int) map[int][]int {
	adjacency := make(map[int][]int)
	if m == 0 {
		return adjacency
	}

	rng := newXoshiro256ss(seedForStream(streamID))
	for i := 0; i < n; i++ {
		touched := sampleDistinct(rng, m, q, 0, false)
		for _, j := range touched {
			auxIndex := n + j
			adjacency[auxIndex] = append(adjacency[auxIndex], i)
		}
	}
	return adjacency
}

// checkAdjacency computes the adjacency list for a single check block:
// augmented indices in [0, n+m) that the check block XORs together. Seeded
// from streamID (+) checkBlockID (wrapping), draws a degree from dist, and
// samples that many distinct indices, excluding checkBlockID mod (n+m).
// The exclusion avoids a trivial self-loop for ids below n+m; it applies to
// every id regardless, and both ends must keep it for the adjacencies to
// agree.
func checkAdjacency(streamID, checkBlockID uint64, dist *degreeDistribution, augmentedSize int) []int {
	rng := newXoshiro256ss(seedForCheckBlock(streamID, checkBlockID))
	degree := 1 + dist.sample(rng)

	exclude := int(checkBlockID % uint64(augmentedSize))
	return sampleDistinct(rng, augmentedSize, degree, exclude, true)
}
