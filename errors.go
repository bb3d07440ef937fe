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

import "fmt"

// ConfigError reports an invalid combination of coder parameters: epsilon
// outside (0,1), a zero block size, an augmented buffer size (N+M)*block_size
// that overflows int, or an augmented block set too small for the sampler's
// exclusion to have any slack (N+M <= 1). The product N*M itself is not
// checked.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("oncode: invalid config: %s: %s", e.Field, e.Message)
}

func newConfigError(field, format string, args ...any) *ConfigError {
	return &ConfigError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// LengthError reports a problem with input or computed lengths at encoding
// time: an empty message, or (in principle; ceil division makes this
// unreachable in practice) a negative pad.
type LengthError struct {
	Message string
}

func (e *LengthError) Error() string {
	return fmt.Sprintf("oncode: length error: %s", e.Message)
}

func newLengthError(format string, args ...any) *LengthError {
	return &LengthError{Message: fmt.Sprintf(format, args...)}
}

// UsageError reports a caller-side misuse of the decoder: a check block
// payload whose length does not match the coder's block size.
type UsageError struct {
	Message string
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("oncode: usage error: %s", e.Message)
}

func newUsageError(format string, args ...any) *UsageError {
	return &UsageError{Message: fmt.Sprintf(format, args...)}
}
