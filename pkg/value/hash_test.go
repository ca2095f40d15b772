// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package value

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashIsStableAndOrderIndependent(t *testing.T) {
	a := Object(map[string]Value{"x": Unsigned(1), "y": String("z")})
	b := Object(map[string]Value{"y": String("z"), "x": Unsigned(1)})
	assert.Equal(t, a.Hash(), b.Hash())
}

func TestHashDistinguishesShapeNotJustContent(t *testing.T) {
	// Unsigned(1) and Signed(1) carry the same bit pattern but different
	// kinds, so they must not collide.
	assert.NotEqual(t, Unsigned(1).Hash(), Signed(1).Hash())
	assert.NotEqual(t, Array(Unsigned(1)).Hash(), Object(map[string]Value{"0": Unsigned(1)}).Hash())
}

func TestHashPanicsOnNonFiniteFloat(t *testing.T) {
	assert.Panics(t, func() { Float(math.NaN()).Hash() })
	assert.Panics(t, func() { Array(Float(math.Inf(-1))).Hash() })
}

func TestHashIsDeterministicAcrossCalls(t *testing.T) {
	v := Object(map[string]Value{
		"name":  String("executor"),
		"tags":  Array(String("a"), String("b")),
		"count": Unsigned(3),
	})
	first := v.Hash()
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, v.Hash())
	}
}
