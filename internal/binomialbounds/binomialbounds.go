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

// Package binomialbounds computes confidence bounds on the unknown true
// count N of a theta-sketch, given the observed number of retained samples
// and the known sampling probability theta.
//
// This is the mirror image of binomialproportionsbounds: there, n and theta
// are known and we bound the unknown success probability p. Here, theta (the
// known sampling probability) and the observed numSamples are given and we
// bound the unknown number of trials N, using the delta method applied to
// the estimator N_hat = numSamples / theta, whose variance is
// numSamples*(1-theta)/theta^2.
package binomialbounds

import (
	"errors"
	"math"
)

func validate(theta float64, numStdDevs uint) error {
	if theta < 0.0 || theta > 1.0 {
		return errors.New("theta must be in [0, 1]")
	}
	if numStdDevs < 1 || numStdDevs > 3 {
		return errors.New("numStdDevs must be 1, 2 or 3")
	}
	return nil
}

// estimateAndStdErr returns the unbiased estimate of N and its standard
// error, derived from Var(numSamples/theta) = numSamples*(1-theta)/theta^2.
func estimateAndStdErr(numSamples uint64, theta float64) (estimate, stdErr float64) {
	n := float64(numSamples)
	estimate = n / theta
	variance := n * (1.0 - theta) / (theta * theta)
	stdErr = math.Sqrt(variance)
	return estimate, stdErr
}

// LowerBound returns a lower confidence bound on the true count, numStdDevs
// standard deviations below the estimate numSamples/theta.
func LowerBound(numSamples uint64, theta float64, numStdDevs uint) (float64, error) {
	if err := validate(theta, numStdDevs); err != nil {
		return 0, err
	}
	if numSamples == 0 {
		return 0.0, nil
	}
	if theta == 1.0 {
		return float64(numSamples), nil
	}
	estimate, stdErr := estimateAndStdErr(numSamples, theta)
	lb := estimate - float64(numStdDevs)*stdErr
	if lb < 0 {
		lb = 0
	}
	if lb > estimate {
		lb = estimate
	}
	return lb, nil
}

// UpperBound returns an upper confidence bound on the true count, numStdDevs
// standard deviations above the estimate numSamples/theta. A continuity
// correction of at least one pseudo-count is applied so the bound stays
// strictly above the estimate even when the variance term vanishes (theta
// near 1, or numSamples == 0).
func UpperBound(numSamples uint64, theta float64, numStdDevs uint) (float64, error) {
	if err := validate(theta, numStdDevs); err != nil {
		return 0, err
	}
	if theta == 1.0 {
		return float64(numSamples), nil
	}
	if numSamples == 0 {
		// Nothing passed the sampling filter, but a true count might still
		// exist just beyond the threshold; scale the pseudo-count band by
		// the requested number of standard deviations.
		return float64(numStdDevs*numStdDevs) / theta, nil
	}
	estimate, stdErr := estimateAndStdErr(numSamples, theta)
	ub := estimate + float64(numStdDevs)*stdErr
	if ub < estimate+1.0 {
		ub = estimate + 1.0
	}
	return ub, nil
}
