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

// Package ddsketch implements a relative-error quantile sketch: DDSketch
// buckets tracked values on a logarithmic scale so that the ratio between
// the true value and the value reported for any quantile is bounded by a
// fixed relative accuracy, independent of the value's magnitude.
package ddsketch

import (
	"encoding/binary"
	"errors"
	"math"
)

var (
	ErrOutOfRange          = errors.New("ddsketch: value is outside the range tracked by the sketch")
	ErrNegativeWeight      = errors.New("ddsketch: count cannot be negative")
	ErrIncompatibleMapping = errors.New("ddsketch: sketches are not mergeable because they do not use the same index mapping")
	ErrEmpty               = errors.New("ddsketch: sketch is empty")
	ErrCorruptInput        = errors.New("ddsketch: corrupt serialized input")
)

// StoreKind selects which Store implementation backs a new DDSketch's
// positive and negative halves.
type StoreKind int

const (
	// StoreUnbounded never discards precision; memory grows with the index
	// range the sketch has seen.
	StoreUnbounded StoreKind = iota
	// StoreCollapsingLowest bounds memory to a fixed bin count, losing
	// precision on the smallest tracked magnitudes first.
	StoreCollapsingLowest
	// StoreCollapsingHighest bounds memory to a fixed bin count, losing
	// precision on the largest tracked magnitudes first.
	StoreCollapsingHighest
)

// Option configures a DDSketch constructed by New.
type Option func(*config)

type config struct {
	layout    Layout
	storeKind StoreKind
	maxBins   int
}

// WithLayout selects the index-mapping interpolation scheme. The default is
// LayoutLog (exact, no interpolation error beyond the log-bucket itself).
func WithLayout(layout Layout) Option {
	return func(c *config) { c.layout = layout }
}

// WithBoundedStore bounds each half of the sketch to maxBins bins, folding
// overflow mass toward the end named by kind (StoreCollapsingLowest or
// StoreCollapsingHighest). The default is an unbounded store.
func WithBoundedStore(kind StoreKind, maxBins int) Option {
	return func(c *config) {
		c.storeKind = kind
		c.maxBins = maxBins
	}
}

func newStore(c config) Store {
	switch c.storeKind {
	case StoreCollapsingLowest:
		return NewCollapsingLowestDenseStore(c.maxBins)
	case StoreCollapsingHighest:
		return NewCollapsingHighestDenseStore(c.maxBins)
	default:
		return NewUnboundedSizeStore()
	}
}

// DDSketch tracks the distribution of a stream of float64 values and
// answers approximate rank and quantile queries within a fixed relative
// error, using two Stores (one per sign) plus an exact count of values
// close enough to zero to fall below the mapping's resolution.
type DDSketch struct {
	positiveStore   Store
	negativeStore   Store
	mapping         IndexMapping
	zeroCount       float64
	minIndexedValue float64
	maxIndexedValue float64
}

// New builds a DDSketch guaranteeing relativeAccuracy for every tracked
// value, using the given options to pick the mapping interpolation and bin
// store.
func New(relativeAccuracy float64, opts ...Option) (*DDSketch, error) {
	c := config{layout: LayoutLog, storeKind: StoreUnbounded}
	for _, opt := range opts {
		opt(&c)
	}
	mapping, err := NewMapping(c.layout, relativeAccuracy)
	if err != nil {
		return nil, err
	}
	return newFromMapping(mapping, newStore(c), newStore(c))
}

func newFromMapping(mapping IndexMapping, positive, negative Store) (*DDSketch, error) {
	return &DDSketch{
		positiveStore:   positive,
		negativeStore:   negative,
		mapping:         mapping,
		minIndexedValue: mapping.MinIndexableValue(),
		maxIndexedValue: mapping.MaxIndexableValue(),
	}, nil
}

func (s *DDSketch) checkValueTrackable(value float64) error {
	if value < -s.maxIndexedValue || value > s.maxIndexedValue {
		return ErrOutOfRange
	}
	return nil
}

func (s *DDSketch) checkMergeable(other *DDSketch) error {
	if !s.mapping.Equal(other.mapping) {
		return ErrIncompatibleMapping
	}
	return nil
}

// Update adds value to the sketch with the given non-negative weight.
func (s *DDSketch) Update(value float64, count float64) error {
	if err := s.checkValueTrackable(value); err != nil {
		return err
	}
	if count < 0 {
		return ErrNegativeWeight
	}
	switch {
	case value > s.minIndexedValue:
		s.positiveStore.Add(s.mapping.Index(value), count)
	case value < -s.minIndexedValue:
		s.negativeStore.Add(s.mapping.Index(-value), count)
	default:
		s.zeroCount += count
	}
	return nil
}

// Merge folds other into s, which must share the same index mapping.
func (s *DDSketch) Merge(other *DDSketch) error {
	if err := s.checkMergeable(other); err != nil {
		return err
	}
	s.negativeStore.Merge(other.negativeStore)
	s.positiveStore.Merge(other.positiveStore)
	s.zeroCount += other.zeroCount
	return nil
}

// IsEmpty reports whether the sketch has never been updated.
func (s *DDSketch) IsEmpty() bool {
	return s.zeroCount == 0 && s.positiveStore.IsEmpty() && s.negativeStore.IsEmpty()
}

// Clear resets the sketch to its initial empty state.
func (s *DDSketch) Clear() {
	s.positiveStore.Clear()
	s.negativeStore.Clear()
	s.zeroCount = 0
}

// Count returns the total weight of every value added to the sketch.
func (s *DDSketch) Count() float64 {
	return s.zeroCount + s.negativeStore.TotalCount() + s.positiveStore.TotalCount()
}

// Sum returns the approximate sum of every value added to the sketch,
// reconstructed from each bin's representative value.
func (s *DDSketch) Sum() float64 {
	sum := 0.0
	for _, b := range s.negativeStore.Bins() {
		sum -= s.mapping.Value(b.Index) * b.Count
	}
	for _, b := range s.positiveStore.Bins() {
		sum += s.mapping.Value(b.Index) * b.Count
	}
	return sum
}

// Min returns the approximate minimum tracked value.
func (s *DDSketch) Min() (float64, error) {
	if idx, err := s.negativeStore.MaxIndex(); err == nil {
		return -s.mapping.Value(idx), nil
	}
	if s.zeroCount > 0 {
		return 0, nil
	}
	idx, err := s.positiveStore.MinIndex()
	if err != nil {
		return 0, ErrEmpty
	}
	return s.mapping.Value(idx), nil
}

// Max returns the approximate maximum tracked value.
func (s *DDSketch) Max() (float64, error) {
	if idx, err := s.positiveStore.MaxIndex(); err == nil {
		return s.mapping.Value(idx), nil
	}
	if s.zeroCount > 0 {
		return 0, nil
	}
	idx, err := s.negativeStore.MinIndex()
	if err != nil {
		return 0, ErrEmpty
	}
	return -s.mapping.Value(idx), nil
}

// Rank returns the fraction of tracked weight at or below item.
func (s *DDSketch) Rank(item float64) float64 {
	count := s.Count()
	if count == 0 {
		return 0
	}
	rank := 0.0
	negBins := s.negativeStore.Bins()
	for i := len(negBins) - 1; i >= 0; i-- {
		b := negBins[i]
		if -s.mapping.Value(b.Index) > item {
			break
		}
		rank += b.Count
	}
	if item >= 0 {
		rank += s.zeroCount
	}
	for _, b := range s.positiveStore.Bins() {
		if s.mapping.Value(b.Index) > item {
			break
		}
		rank += b.Count
	}
	return rank / count
}

// Quantile returns the approximate value at the given rank in [0, 1].
func (s *DDSketch) Quantile(rank float64) (float64, error) {
	return s.quantileOfCount(rank, s.Count())
}

func (s *DDSketch) quantileOfCount(rank, count float64) (float64, error) {
	if rank < 0 || rank > 1 {
		return 0, ErrInvalidArgument
	}
	if count == 0 {
		return 0, ErrEmpty
	}
	targetRank := rank * (count - 1)
	n := 0.0

	negBins := s.negativeStore.Bins()
	for i := len(negBins) - 1; i >= 0; i-- {
		b := negBins[i]
		if n += b.Count; n > targetRank {
			return -s.mapping.Value(b.Index), nil
		}
	}
	if n += s.zeroCount; n > targetRank {
		return 0, nil
	}
	for _, b := range s.positiveStore.Bins() {
		if n += b.Count; n > targetRank {
			return s.mapping.Value(b.Index), nil
		}
	}
	return 0, ErrEmpty
}

// Equal reports whether s and other track the same distribution: same
// mapping, same zero count, and identical bins in both stores.
func (s *DDSketch) Equal(other *DDSketch) bool {
	if !s.mapping.Equal(other.mapping) || s.zeroCount != other.zeroCount {
		return false
	}
	return binsEqual(s.positiveStore.Bins(), other.positiveStore.Bins()) &&
		binsEqual(s.negativeStore.Bins(), other.negativeStore.Bins())
}

func binsEqual(a, b []Bin) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Serialize encodes the sketch as: mapping layout (1 byte), relative
// accuracy (8 bytes), zero count (8 bytes), then each store's bins as a
// uint32 bin count followed by (index int32, count float64) pairs, all
// little-endian.
func (s *DDSketch) Serialize() []byte {
	buf := make([]byte, 0, 64)
	buf = append(buf, byte(s.mapping.Layout()))
	buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(s.mapping.RelativeAccuracy()))
	buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(s.zeroCount))
	buf = appendStore(buf, s.positiveStore)
	buf = appendStore(buf, s.negativeStore)
	return buf
}

func appendStore(buf []byte, store Store) []byte {
	bins := store.Bins()
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(bins)))
	for _, b := range bins {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(int32(b.Index)))
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(b.Count))
	}
	return buf
}

// Deserialize reconstructs a DDSketch from bytes written by Serialize. The
// returned sketch always uses an UnboundedSizeStore regardless of the store
// kind used when it was serialized, since bin occupancy alone cannot
// recover the original maxBins bound.
func Deserialize(data []byte) (*DDSketch, error) {
	if len(data) < 17 {
		return nil, ErrCorruptInput
	}
	layout := Layout(data[0])
	relativeAccuracy := math.Float64frombits(binary.LittleEndian.Uint64(data[1:9]))
	zeroCount := math.Float64frombits(binary.LittleEndian.Uint64(data[9:17]))
	mapping, err := NewMapping(layout, relativeAccuracy)
	if err != nil {
		return nil, ErrCorruptInput
	}
	offset := 17
	positive := NewUnboundedSizeStore()
	offset, err = readStore(data, offset, positive)
	if err != nil {
		return nil, err
	}
	negative := NewUnboundedSizeStore()
	if _, err = readStore(data, offset, negative); err != nil {
		return nil, err
	}
	sketch, err := newFromMapping(mapping, positive, negative)
	if err != nil {
		return nil, err
	}
	sketch.zeroCount = zeroCount
	return sketch, nil
}

func readStore(data []byte, offset int, store *UnboundedSizeStore) (int, error) {
	if offset+4 > len(data) {
		return 0, ErrCorruptInput
	}
	n := int(binary.LittleEndian.Uint32(data[offset : offset+4]))
	offset += 4
	for i := 0; i < n; i++ {
		if offset+12 > len(data) {
			return 0, ErrCorruptInput
		}
		idx := int(int32(binary.LittleEndian.Uint32(data[offset : offset+4])))
		count := math.Float64frombits(binary.LittleEndian.Uint64(data[offset+4 : offset+12]))
		store.Add(idx, count)
		offset += 12
	}
	return offset, nil
}
