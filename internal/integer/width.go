package integer

import "math/bits"

// Width selects the limb width of the static storage. The static capacity
// is two limbs, that is 2*W bits of magnitude.
type Width interface {
	limbBits() uint
}

// Native uses the machine word size.
type Native struct{}

// W8 uses 8-bit limbs (16-bit static capacity).
type W8 struct{}

// W16 uses 16-bit limbs.
type W16 struct{}

// W32 uses 32-bit limbs.
type W32 struct{}

// W64 uses 64-bit limbs (128-bit static capacity).
type W64 struct{}

func (Native) limbBits() uint { return bits.UintSize }
func (W8) limbBits() uint     { return 8 }
func (W16) limbBits() uint    { return 16 }
func (W32) limbBits() uint    { return 32 }
func (W64) limbBits() uint    { return 64 }

// Integer is the hybrid integer with native-width limbs, the type used by
// the rest of the module.
type Integer = Int[Native]

// LimbBits reports the limb width in bits selected by W.
func LimbBits[W Width]() uint {
	var w W
	return w.limbBits()
}

// StaticBits reports the static capacity, in bits of magnitude, of Int[W].
func StaticBits[W Width]() uint {
	return 2 * LimbBits[W]()
}
