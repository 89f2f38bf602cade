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

package relay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"thermocore/internal/config"
	"thermocore/internal/model"
)

func TestApply_TracksLatestStateOffTarget(t *testing.T) {
	a, err := New(config.RelayConfig{FanBCMPin: 13, HeatBCMPin: 12, CoolBCMPin: 16})
	require.NoError(t, err)

	for _, s := range []model.State{model.StateHeat, model.StateCool, model.StateIdle} {
		require.NoError(t, a.Apply(s))
		assert.Equal(t, s, a.Latest())
	}
}

func TestApply_IsIdempotentAcrossRepeatedCalls(t *testing.T) {
	a, err := New(config.RelayConfig{FanBCMPin: 13, HeatBCMPin: 12, CoolBCMPin: 16})
	require.NoError(t, err)

	require.NoError(t, a.Apply(model.StateHeat))
	require.NoError(t, a.Apply(model.StateHeat))
	assert.Equal(t, model.StateHeat, a.Latest())
}
