// Package conv provides allocation-free formatting helpers usable on MCU
// builds where fmt/strconv are too heavy.
package conv

// Utoa writes the base-10 representation of n into buf and returns the used
// slice. buf should be length >= 20 for uint64.
func Utoa(buf []byte, n uint64) []byte {
	if len(buf) == 0 {
		return buf[:0]
	}
	i := len(buf)
	if n == 0 {
		i--
		buf[i] = '0'
	} else {
		for n > 0 && i > 0 {
			i--
			buf[i] = byte('0' + (n % 10))
			n /= 10
		}
	}
	return buf[i:]
}

// U8Hex writes a 2-digit uppercase hex byte without 0x, zero-padded.
// Handy for printing 7-bit bus addresses.
func U8Hex(buf []byte, n uint8) []byte {
	if len(buf) < 2 {
		return buf[:0]
	}
	const hexd = "0123456789ABCDEF"
	i := len(buf)
	i--
	buf[i] = hexd[n&0xF]
	i--
	buf[i] = hexd[n>>4]
	return buf[i:]
}
