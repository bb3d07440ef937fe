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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOnlineCoderDefaults(t *testing.T) {
	c, err := NewOnlineCoder(64)
	require.NoError(t, err)
	assert.Equal(t, Params{BlockSize: 64, Epsilon: DefaultEpsilon, Q: DefaultQuality}, c.Params())
}

func TestNewOnlineCoderWithParamsValidatesBlockSize(t *testing.T) {
	_, err := NewOnlineCoderWithParams(Params{BlockSize: 0, Epsilon: 0.01, Q: 3})
	require.Error(t, err)
	var cfgErr *ConfigError
	assert.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "BlockSize", cfgErr.Field)
}

func TestNewOnlineCoderWithParamsValidatesEpsilon(t *testing.T) {
	for _, eps := range []float64{0, 1, -0.5, 2} {
		_, err := NewOnlineCoderWithParams(Params{BlockSize: 8, Epsilon: eps, Q: 3})
		require.Errorf(t, err, "epsilon=%v should be rejected", eps)
	}
}

func TestNewOnlineCoderWithParamsValidatesQ(t *testing.T) {
	_, err := NewOnlineCoderWithParams(Params{BlockSize: 8, Epsilon: 0.01, Q: 0})
	require.Error(t, err)
}

func TestNumAuxBlocksFormula(t *testing.T) {
	p := Params{BlockSize: 1, Epsilon: 0.01, Q: 3}
	cases := []struct {
		n    int
		want int
	}{
		{n: 1000, want: 17},
		{n: 4, want: 1},
		{n: 2, want: 1},
		{n: 100000, want: 1650},
	}
	for _, c := range cases {
		assert.Equalf(t, c.want, p.numAuxBlocks(c.n), "numAuxBlocks(%d)", c.n)
	}
}

func TestCheckAugmentedSizeRejectsTrivialSet(t *testing.T) {
	c, err := NewOnlineCoder(1)
	require.NoError(t, err)
	err = c.checkAugmentedSize(1, 0)
	require.Error(t, err)
	var cfgErr *ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}
