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

package internal

import "github.com/cespare/xxhash/v2"

// Hash64 is the generic, non-wire-compatible hash used where no cross-
// library serialized format constrains the choice of hash function (unlike
// theta/tuple, which must stay on MurmurHash3 for Java interop). Built-in
// key-type hashers for frequent-items sketches are the primary caller.
func Hash64(b []byte) uint64 {
	return xxhash.Sum64(b)
}

// Hash64String hashes a string without the extra allocation/copy of
// converting it to a []byte first.
func Hash64String(s string) uint64 {
	return xxhash.Sum64String(s)
}
