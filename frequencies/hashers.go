/*
 * Licensed to the Apache Software Foundation (ASF) under one or more
 * contributor license agreements.  See the NOTICE file distributed with
 * this work for additional information regarding copyright ownership.
 * The ASF licenses this file to You under the Apache License, Version 2.0
 * (the "License"); you may not use this file except in compliance with
 * the License.  You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package frequencies

import (
	"encoding/binary"

	"github.com/sketchkit/core/internal"
)

// StringHasher and the other built-in hashers in this file back frequent-
// items sketches over common key types. Unlike theta/tuple, frequent-items
// has no cross-library wire format tying it to MurmurHash3, so these use
// the faster xxhash-based internal.Hash64 instead.
type StringHasher struct{}

func (StringHasher) Hash(item string) uint64 {
	return internal.Hash64String(item)
}

type Int64Hasher struct{}

func (Int64Hasher) Hash(item int64) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(item))
	return internal.Hash64(buf[:])
}

type Uint64Hasher struct{}

func (Uint64Hasher) Hash(item uint64) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], item)
	return internal.Hash64(buf[:])
}

type BytesHasher struct{}

func (BytesHasher) Hash(item []byte) uint64 {
	return internal.Hash64(item)
}
