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

package tuple

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/sketchkit/core/internal"
	"github.com/sketchkit/core/theta"
)

// ArrayOfDoublesSketchDecoder decodes a compact ArrayOfDoublesSketch from the given reader.
type ArrayOfDoublesSketchDecoder[V Number] struct {
	seed uint64
	read func(r io.Reader, numberOfValuesInSummary uint8) (*ArrayOfDoublesSummary[V], error)
}

// NewArrayOfDoublesSketchDecoderDecoder creates a new decoder.
func NewArrayOfDoublesSketchDecoderDecoder[V Number](seed uint64) ArrayOfDoublesSketchDecoder[V] {
	return ArrayOfDoublesSketchDecoder[V]{
		seed: seed,
		read: func(r io.Reader, numberOfValuesInSummary uint8) (*ArrayOfDoublesSummary[V], error) {
			values := make([]V, 0, numberOfValuesInSummary)
			for i := 0; i < int(numberOfValuesInSummary); i++ {
				var value V
				if err := binary.Read(r, binary.LittleEndian, &value); err != nil {
					return nil, err
				}

				values = append(values, value)
			}

			return newArrayOfDoublesSummaryFromValues[V](values, numberOfValuesInSummary), nil
		},
	}
}

// Decode decodes a compact sketch from the given reader.
func (dec *ArrayOfDoublesSketchDecoder[V]) Decode(r io.Reader) (*ArrayOfDoublesCompactSketch[V], error) {
	var preambleLongs uint8
	if err := binary.Read(r, binary.LittleEndian, &preambleLongs); err != nil {
		return nil, err
	}

	var serialVersion uint8
	if err := binary.Read(r, binary.LittleEndian, &serialVersion); err != nil {
		return nil, err
	}

	var family uint8
	if err := binary.Read(r, binary.LittleEndian, &family); err != nil {
		return nil, err
	}

	var sketchType uint8
	if err := binary.Read(r, binary.LittleEndian, &sketchType); err != nil {
		return nil, err
	}

	var flags uint8
	if err := binary.Read(r, binary.LittleEndian, &flags); err != nil {
		return nil, err
	}

	var numberOfValuesInSummary uint8
	if err := binary.Read(r, binary.LittleEndian, &numberOfValuesInSummary); err != nil {
		return nil, err
	}

	var seedHash uint16
	if err := binary.Read(r, binary.LittleEndian, &seedHash); err != nil {
		return nil, err
	}

	if err := theta.CheckSerialVersionEqual(serialVersion, ArrayOfDoublesSketchSerialVersion); err != nil {
		return nil, err
	}

	if err := theta.CheckSketchFamilyEqual(family, ArrayOfDoublesSketchFamily); err != nil {
		return nil, err
	}

	if err := theta.CheckSketchTypeEqual(sketchType, ArrayOfDoublesSketchType); err != nil {
		return nil, err
	}

	hasEntries := (flags & (1 << arrayOfDoublesSketchFlagHasEntries)) != 0
	if hasEntries {
		expectedSeedHash, err := internal.ComputeSeedHash(int64(dec.seed))
		if err != nil {
			return nil, err
		}
		if err := theta.CheckSeedHashEqual(seedHash, uint16(expectedSeedHash)); err != nil {
			return nil, err
		}
	}

	var thetaVal uint64
	if err := binary.Read(r, binary.LittleEndian, &thetaVal); err != nil {
		return nil, err
	}

	var entries []entry[*ArrayOfDoublesSummary[V]]
	if hasEntries {
		var numEntries uint32
		if err := binary.Read(r, binary.LittleEndian, &numEntries); err != nil {
			return nil, err
		}

		var unused uint32
		if err := binary.Read(r, binary.LittleEndian, &unused); err != nil {
			return nil, err
		}

		hashes := make([]uint64, 0, numEntries)
		for i := uint32(0); i < numEntries; i++ {
			var hash uint64
			if err := binary.Read(r, binary.LittleEndian, &hash); err != nil {
				return nil, err
			}

			hashes = append(hashes, hash)
		}

		entries = make([]entry[*ArrayOfDoublesSummary[V]], 0, numEntries)
		for i := uint32(0); i < numEntries; i++ {
			summary, err := dec.read(r, numberOfValuesInSummary)
			if err != nil {
				return nil, err
			}

			entries = append(entries, entry[*ArrayOfDoublesSummary[V]]{
				Hash:    hashes[i],
				Summary: summary,
			})
		}
	}

	isEmpty := (flags & (1 << arrayOfDoublesSketchFlagIsEmpty)) != 0
	isOrdered := (flags & (1 << arrayOfDoublesSketchFlagIsOrdered)) != 0

	return newArrayOfDoublesCompactSketch[V](
		isEmpty, isOrdered, seedHash, thetaVal, entries, numberOfValuesInSummary,
	), nil
}

// DecodeArrayOfDoublesCompactSketch reconstructs an ArrayOfDoublesCompactSketch from a byte slice using a specified seed.
func DecodeArrayOfDoublesCompactSketch[V Number](b []byte, seed uint64) (*ArrayOfDoublesCompactSketch[V], error) {
	decoder := NewArrayOfDoublesSketchDecoderDecoder[V](seed)
	return decoder.Decode(bytes.NewReader(b))
}
