// Copyright (C) 2025 Josh Simonot
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package decision builds and evaluates the weighted decision matrix that
// turns a handful of temperature/cost ratings into a candidate HVAC state.
package decision

import (
	"thermocore/internal/decimal"
	"thermocore/internal/model"
)

// Parameter names accepted into the decision matrix.
const (
	InternalTemperature = "internal_temperature"
	ExternalTemperature = "external_temperature"
	HistoryTemperature  = "history_temperature"
	EnergyCost          = "energy_cost"
)

// ScoreModifier amplifies the normalized score so it clears the heat/cool
// thresholds.
var ScoreModifier = decimal.MustFromString("1.5")

// HeatThreshold and CoolThreshold bound the Idle band.
var (
	HeatThreshold = decimal.MustFromString("0.45")
	CoolThreshold = decimal.MustFromString("-0.45")
)

// weightings must sum to 1.
var weightings = map[string]decimal.D9{
	InternalTemperature: decimal.MustFromString("0.40"),
	ExternalTemperature: decimal.MustFromString("0.20"),
	HistoryTemperature:  decimal.MustFromString("0.20"),
	EnergyCost:          decimal.MustFromString("0.20"),
}

// Parameter is one (name, rating) input to the matrix.
type Parameter struct {
	Name   string
	Rating decimal.D9
}

// matrixEntry is the (weight, rating) pair retained once a parameter is
// recognized.
type matrixEntry struct {
	weight decimal.D9
	rating decimal.D9
}

// Matrix is the transient parameter -> (weight, rating) mapping built each
// tick.
type Matrix map[string]matrixEntry

// Build drops unrecognized parameter names and, if any of the four known
// parameters is missing, renormalizes the present weights so they re-sum
// to 1.
func Build(params []Parameter) Matrix {
	matrix := make(Matrix)
	totalWeight := decimal.Zero

	for _, p := range params {
		weight, known := weightings[p.Name]
		if !known {
			continue
		}
		matrix[p.Name] = matrixEntry{weight: weight, rating: p.Rating}
		totalWeight = totalWeight.Add(weight)
	}

	if len(matrix) != len(weightings) && len(matrix) > 0 {
		for name, entry := range matrix {
			matrix[name] = matrixEntry{
				weight: entry.weight.Div(totalWeight),
				rating: entry.rating,
			}
		}
	}

	return matrix
}

// Evaluate computes the aggregate score and maps it to a State. If the total
// rating across present parameters is zero (including the empty-matrix
// case), it returns Idle without dividing.
func Evaluate(matrix Matrix) model.State {
	if len(matrix) == 0 {
		return model.StateIdle
	}

	totalRating := decimal.Zero
	for _, entry := range matrix {
		totalRating = totalRating.Add(entry.rating)
	}
	if totalRating.IsZero() {
		return model.StateIdle
	}

	totalScore := decimal.Zero
	for _, entry := range matrix {
		contribution := entry.weight.Mul(entry.rating.Div(totalRating))
		totalScore = totalScore.Add(contribution)
	}
	totalScore = totalScore.Mul(ScoreModifier)

	switch {
	case totalScore.GreaterThan(HeatThreshold):
		return model.StateHeat
	case totalScore.LessThan(CoolThreshold):
		return model.StateCool
	default:
		return model.StateIdle
	}
}

// Recommend is the convenience entry point: build then evaluate.
func Recommend(params []Parameter) model.State {
	return Evaluate(Build(params))
}
