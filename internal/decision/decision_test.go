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

package decision

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"thermocore/internal/decimal"
	"thermocore/internal/model"
)

func rating(s string) decimal.D9 {
	return decimal.MustFromString(s)
}

func TestEvaluate_EmptyMatrixIsIdle(t *testing.T) {
	assert.Equal(t, model.StateIdle, Evaluate(Build(nil)))
}

func TestEvaluate_ZeroTotalRatingIsIdle(t *testing.T) {
	params := []Parameter{
		{Name: InternalTemperature, Rating: rating("0")},
		{Name: ExternalTemperature, Rating: rating("0")},
	}
	assert.Equal(t, model.StateIdle, Evaluate(Build(params)))
}

func TestEvaluate_UnknownParameterIgnored(t *testing.T) {
	params := []Parameter{
		{Name: "bogus", Rating: rating("99")},
		{Name: InternalTemperature, Rating: rating("1")},
	}
	m := Build(params)
	assert.Len(t, m, 1)
}

func TestEvaluate_SingleParameterSaturates(t *testing.T) {
	params := []Parameter{{Name: InternalTemperature, Rating: rating("1")}}
	m := Build(params)
	assert.Equal(t, model.StateHeat, Evaluate(m))
}

// Within-band, internal-only rating.
func TestEvaluate_WithinBandInternalOnly(t *testing.T) {
	// equilibrium 21.5, current 21.0 -> rating 0.5
	params := []Parameter{{Name: InternalTemperature, Rating: rating("0.5")}}
	assert.Equal(t, model.StateHeat, Recommend(params))
}

func TestEvaluate_RenormalizesMissingWeights(t *testing.T) {
	params := []Parameter{
		{Name: InternalTemperature, Rating: rating("1")},
		{Name: HistoryTemperature, Rating: rating("1")},
	}
	m := Build(params)
	sum := decimal.Zero
	for _, entry := range m {
		sum = sum.Add(entry.weight)
	}
	assert.Equal(t, "1", sum.String())
}

// With a single parameter r/R is 1 whatever the rating's sign, so the score
// saturates at +ScoreModifier even for a negative rating.
func TestEvaluate_SingleNegativeRatingStillSaturatesToHeat(t *testing.T) {
	params := []Parameter{{Name: InternalTemperature, Rating: rating("-1")}}
	assert.Equal(t, model.StateHeat, Recommend(params))
}
