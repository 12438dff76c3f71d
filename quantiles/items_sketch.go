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

// Package quantiles implements the classic (pre-KLL) leveled quantiles
// sketch: a base buffer of capacity 2k that, once full, is sorted and
// folded into a stack of levels using binary-arithmetic ripple-carry
// propagation, exactly mirroring how binary addition carries a 1 into the
// next bit position.
package quantiles

import (
	"errors"
	"math"
	"math/rand"
	"sort"

	"github.com/sketchkit/core/common"
)

var (
	ErrInvalidArgument    = errors.New("quantiles: invalid argument")
	ErrEmpty              = errors.New("quantiles: sketch is empty")
	ErrIncompatibleSketch = errors.New("quantiles: sketches are not mergeable")
	ErrCorruptInput       = errors.New("quantiles: corrupt serialized input")
)

const defaultK = 128

// ItemsSketch is a generic classic quantiles sketch over an ordered type C,
// using compareFn(a, b) to mean "a comes before b".
type ItemsSketch[C comparable] struct {
	k          uint16
	n          uint64
	bitPattern uint64
	baseBuffer []C
	isSorted   bool
	levels     [][]C // levels[i] has capacity k, possibly empty
	minValue   *C
	maxValue   *C
	compareFn  common.CompareFn[C]
	serde      common.ItemSketchSerde[C]
}

// NewItemsSketch builds an empty sketch with the given k (accuracy knob;
// larger k means smaller error and more memory) and ordering function.
func NewItemsSketch[C comparable](k uint16, compareFn common.CompareFn[C], serde common.ItemSketchSerde[C]) (*ItemsSketch[C], error) {
	if k < 1 {
		return nil, ErrInvalidArgument
	}
	return &ItemsSketch[C]{
		k:         k,
		compareFn: compareFn,
		serde:     serde,
	}, nil
}

// NewItemsSketchWithDefaultK builds an empty sketch with the library's
// default k of 128 (~1.7% normalized rank error).
func NewItemsSketchWithDefaultK[C comparable](compareFn common.CompareFn[C], serde common.ItemSketchSerde[C]) (*ItemsSketch[C], error) {
	return NewItemsSketch[C](defaultK, compareFn, serde)
}

func (s *ItemsSketch[C]) K() uint16   { return s.k }
func (s *ItemsSketch[C]) N() uint64   { return s.n }
func (s *ItemsSketch[C]) IsEmpty() bool { return s.bitPattern == 0 && len(s.baseBuffer) == 0 }

// NormalizedRankError returns the sketch's empirically derived rank error
// bound, separate published constants for PMF and CDF/quantile queries.
func (s *ItemsSketch[C]) NormalizedRankError(isPMF bool) float64 {
	return NormalizedRankError(s.k, isPMF)
}

// NormalizedRankError returns the published rank-error constants for a
// classic quantiles sketch of width k, derived empirically in the original
// implementation.
func NormalizedRankError(k uint16, isPMF bool) float64 {
	if isPMF {
		return 1.854 / math.Pow(float64(k), 0.9657)
	}
	return 1.576 / math.Pow(float64(k), 0.9726)
}

func (s *ItemsSketch[C]) NumRetained() uint32 {
	total := uint32(len(s.baseBuffer))
	for _, lvl := range s.levels {
		total += uint32(len(lvl))
	}
	return total
}

// Update adds item to the sketch.
func (s *ItemsSketch[C]) Update(item C) {
	s.updateMinMax(item)

	s.baseBuffer = append(s.baseBuffer, item)
	s.n++
	if len(s.baseBuffer) > 1 {
		s.isSorted = false
	}

	if len(s.baseBuffer) == 2*int(s.k) {
		s.processFullBaseBuffer()
	}
}

func (s *ItemsSketch[C]) growLevelsIfNeeded() {
	levelsNeeded := computeLevelsNeeded(s.k, s.n)
	if levelsNeeded == 0 || int(levelsNeeded) <= len(s.levels) {
		return
	}
	s.levels = append(s.levels, make([]C, 0, s.k))
}

func computeLevelsNeeded(k uint16, n uint64) uint8 {
	denom := uint64(2 * k)
	if n < denom {
		return 0
	}
	levels := uint8(0)
	for v := n / denom; v > 0; v >>= 1 {
		levels++
	}
	return levels
}

func (s *ItemsSketch[C]) processFullBaseBuffer() {
	s.growLevelsIfNeeded()
	sort.Slice(s.baseBuffer, func(i, j int) bool { return s.compareFn(s.baseBuffer[i], s.baseBuffer[j]) })
	s.isSorted = true
	s.inPlacePropagateCarry(0, s.baseBuffer)
	s.baseBuffer = s.baseBuffer[:0]
}

// inPlacePropagateCarry zips buf (size 2k) into the first level with a zero
// bit in bitPattern starting at startingLevel, merging every lower level
// along the way exactly as binary addition carries a 1 upward.
func (s *ItemsSketch[C]) inPlacePropagateCarry(startingLevel uint8, buf []C) {
	endingLevel := lowestZeroBitStartingAt(s.bitPattern, startingLevel)
	for int(endingLevel) >= len(s.levels) {
		s.levels = append(s.levels, make([]C, 0, s.k))
	}

	s.levels[endingLevel] = s.zipBuffer(buf)

	for lvl := startingLevel; lvl < endingLevel; lvl++ {
		merged := s.mergeTwoSizeKBuffers(s.levels[lvl], s.levels[endingLevel])
		s.levels[lvl] = s.levels[lvl][:0]
		s.levels[endingLevel] = s.zipBuffer(merged)
	}

	s.bitPattern += uint64(1) << startingLevel
}

// zipBuffer downsamples a sorted buffer of size 2k to size k, keeping every
// other item starting from a random offset of 0 or 1.
func (s *ItemsSketch[C]) zipBuffer(buf []C) []C {
	out := make([]C, 0, s.k)
	offset := rand.Intn(2)
	for i := offset; len(out) < int(s.k) && i < len(buf); i += 2 {
		out = append(out, buf[i])
	}
	return out
}

// mergeTwoSizeKBuffers merges two sorted size-k levels into one sorted
// 2k-length buffer.
func (s *ItemsSketch[C]) mergeTwoSizeKBuffers(a, b []C) []C {
	dst := make([]C, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if s.compareFn(a[i], b[j]) {
			dst = append(dst, a[i])
			i++
		} else {
			dst = append(dst, b[j])
			j++
		}
	}
	dst = append(dst, a[i:]...)
	dst = append(dst, b[j:]...)
	return dst
}

func lowestZeroBitStartingAt(bitPattern uint64, startingLevel uint8) uint8 {
	lvl := startingLevel
	for (bitPattern>>lvl)&1 == 1 {
		lvl++
	}
	return lvl
}

// Merge folds other into s. Both sketches must share the same k.
func (s *ItemsSketch[C]) Merge(other *ItemsSketch[C]) error {
	if other.k != s.k {
		return ErrIncompatibleSketch
	}
	if other.IsEmpty() {
		return nil
	}
	s.updateMinMax(*other.minValue)
	s.updateMinMax(*other.maxValue)
	for _, item := range other.baseBuffer {
		s.Update(item)
	}
	for lvl := 0; lvl < len(other.levels); lvl++ {
		if len(other.levels[lvl]) == 0 {
			continue
		}
		s.mergeLevel(uint8(lvl), other.levels[lvl])
		s.n += uint64(len(other.levels[lvl])) * (uint64(1) << (lvl + 1))
	}
	return nil
}

func (s *ItemsSketch[C]) updateMinMax(item C) {
	if s.minValue == nil {
		v, w := item, item
		s.minValue, s.maxValue = &v, &w
		return
	}
	if s.compareFn(item, *s.minValue) {
		v := item
		s.minValue = &v
	}
	if s.compareFn(*s.maxValue, item) {
		w := item
		s.maxValue = &w
	}
}

// mergeLevel merges a size-k buffer belonging to level lvl of another
// sketch into s by carry-propagating starting at lvl, matching the "merge"
// (non-update) branch of in_place_propagate_carry in the source algorithm.
func (s *ItemsSketch[C]) mergeLevel(lvl uint8, buf []C) {
	endingLevel := lowestZeroBitStartingAt(s.bitPattern, lvl)
	for int(endingLevel) >= len(s.levels) {
		s.levels = append(s.levels, make([]C, 0, s.k))
	}
	cur := append([]C(nil), buf...)
	for l := lvl; l < endingLevel; l++ {
		merged := s.mergeTwoSizeKBuffers(s.levels[l], cur)
		s.levels[l] = s.levels[l][:0]
		cur = s.zipBuffer(merged)
	}
	s.levels[endingLevel] = cur
	s.bitPattern += uint64(1) << lvl
}

// Rank returns the fraction of the stream at or below value.
func (s *ItemsSketch[C]) Rank(value C) (float64, error) {
	if s.IsEmpty() {
		return 0, ErrEmpty
	}
	weight := uint64(1)
	total := uint64(0)
	for _, item := range s.baseBuffer {
		if !s.compareFn(value, item) {
			total += weight
		}
	}
	weight *= 2
	for _, lvl := range s.levels {
		if len(lvl) == 0 {
			weight *= 2
			continue
		}
		for _, item := range lvl {
			if !s.compareFn(value, item) {
				total += weight
			} else {
				break
			}
		}
		weight *= 2
	}
	return float64(total) / float64(s.n), nil
}

// Quantile returns the item at the given rank in [0, 1].
func (s *ItemsSketch[C]) Quantile(rank float64) (C, error) {
	var zero C
	if s.IsEmpty() {
		return zero, ErrEmpty
	}
	if rank < 0 || rank > 1 {
		return zero, ErrInvalidArgument
	}
	if rank == 0 {
		return *s.minValue, nil
	}
	if rank == 1 {
		return *s.maxValue, nil
	}

	calc := s.buildQuantileCalculator()
	return calc.quantile(rank), nil
}

// quantileCalculator accumulates weighted items and converts them to a
// cumulative-weight table for answering Quantile queries.
type quantileCalculator[C comparable] struct {
	items     []C
	weights   []uint64
	total     uint64
	compareFn common.CompareFn[C]
}

func (s *ItemsSketch[C]) buildQuantileCalculator() *quantileCalculator[C] {
	if !s.isSorted {
		sort.Slice(s.baseBuffer, func(i, j int) bool { return s.compareFn(s.baseBuffer[i], s.baseBuffer[j]) })
		s.isSorted = true
	}

	calc := &quantileCalculator[C]{compareFn: s.compareFn}
	lgWeight := uint64(0)
	calc.add(s.baseBuffer, uint64(1)<<lgWeight)
	for _, lvl := range s.levels {
		lgWeight++
		if len(lvl) == 0 {
			continue
		}
		calc.add(lvl, uint64(1)<<lgWeight)
	}
	calc.finalize()
	return calc
}

func (c *quantileCalculator[C]) add(items []C, weight uint64) {
	for _, item := range items {
		c.items = append(c.items, item)
		c.weights = append(c.weights, weight)
	}
}

func (c *quantileCalculator[C]) finalize() {
	type pair struct {
		item   C
		weight uint64
	}
	pairs := make([]pair, len(c.items))
	for i := range c.items {
		pairs[i] = pair{c.items[i], c.weights[i]}
	}
	sort.Slice(pairs, func(i, j int) bool { return c.compareFn(pairs[i].item, pairs[j].item) })
	c.items = c.items[:0]
	c.weights = c.weights[:0]
	cumulative := uint64(0)
	for _, p := range pairs {
		cumulative += p.weight
		c.items = append(c.items, p.item)
		c.weights = append(c.weights, cumulative)
	}
	c.total = cumulative
}

func (c *quantileCalculator[C]) quantile(rank float64) C {
	target := uint64(rank * float64(c.total))
	idx := sort.Search(len(c.weights), func(i int) bool { return c.weights[i] > target })
	if idx >= len(c.items) {
		idx = len(c.items) - 1
	}
	return c.items[idx]
}

// PMF returns the estimated probability mass in each bucket implied by
// splitPoints (which must be sorted and distinct): PMF[0] is the mass
// at or below splitPoints[0], PMF[i] is the mass in (splitPoints[i-1],
// splitPoints[i]], and PMF[len(splitPoints)] is the mass above the last
// split point.
func (s *ItemsSketch[C]) PMF(splitPoints []C) ([]float64, error) {
	cdf, err := s.CDF(splitPoints)
	if err != nil {
		return nil, err
	}
	pmf := make([]float64, len(cdf))
	prev := 0.0
	for i, c := range cdf {
		pmf[i] = c - prev
		prev = c
	}
	return pmf, nil
}

// CDF returns the cumulative probability at and below each split point,
// plus a trailing 1.0 for the whole distribution.
func (s *ItemsSketch[C]) CDF(splitPoints []C) ([]float64, error) {
	if s.IsEmpty() {
		return nil, ErrEmpty
	}
	out := make([]float64, len(splitPoints)+1)
	for i, sp := range splitPoints {
		r, err := s.Rank(sp)
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	out[len(splitPoints)] = 1.0
	return out, nil
}
