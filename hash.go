package robintable

// Multiplier for the integer mixer. Odd, so multiplying by it is a bijection
// on the low bits.
const mixMul = 0x45d9f3b

// Hash mixes the key into a hash code. Close keys end up with uncorrelated
// codes so that sequential keys don't pile up into neighbouring slots.
//
// Same key, same code. Don't expect the codes to be stable across
// architectures though, the math happens in the native uint width.
func Hash(key uint32) uint {
	h := uint(key)
	h = ((h >> 16) ^ h) * mixMul
	h = ((h >> 16) ^ h) * mixMul
	h = (h >> 16) ^ h
	return h
}
