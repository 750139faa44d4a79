package binary

// Lookup3Checksum computes Jenkins' lookup3 hashlittle over data with an
// initial value of 0. It identifies buffer contents, e.g. to check that two
// runs with the same seed produced the same bytes.
func Lookup3Checksum(data []byte) uint32 {
	length := len(data)
	initval := uint32(0xdeadbeef) + uint32(length)
	a, b, c := initval, initval, initval
	k := data

	// Strictly more than 12: the last 1-12 bytes go through the final mix.
	for len(k) > 12 {
		a += uint32(k[0]) | uint32(k[1])<<8 |
			uint32(k[2])<<16 | uint32(k[3])<<24
		b += uint32(k[4]) | uint32(k[5])<<8 |
			uint32(k[6])<<16 | uint32(k[7])<<24
		c += uint32(k[8]) | uint32(k[9])<<8 |
			uint32(k[10])<<16 | uint32(k[11])<<24
		a, b, c = lookup3Mix(a, b, c)
		k = k[12:]
	}

	switch len(k) {
	case 12:
		c += uint32(k[11]) << 24
		fallthrough
	case 11:
		c += uint32(k[10]) << 16
		fallthrough
	case 10:
		c += uint32(k[9]) << 8
		fallthrough
	case 9:
		c += uint32(k[8])
		fallthrough
	case 8:
		b += uint32(k[7]) << 24
		fallthrough
	case 7:
		b += uint32(k[6]) << 16
		fallthrough
	case 6:
		b += uint32(k[5]) << 8
		fallthrough
	case 5:
		b += uint32(k[4])
		fallthrough
	case 4:
		a += uint32(k[3]) << 24
		fallthrough
	case 3:
		a += uint32(k[2]) << 16
		fallthrough
	case 2:
		a += uint32(k[1]) << 8
		fallthrough
	case 1:
		a += uint32(k[0])
	case 0:
		return c
	}

	_, _, c = lookup3Final(a, b, c)
	return c
}

// VerifyLookup3 verifies data against an expected lookup3 checksum.
func VerifyLookup3(data []byte, expected uint32) bool {
	return Lookup3Checksum(data) == expected
}

func lookup3Mix(a, b, c uint32) (uint32, uint32, uint32) {
	a -= c
	a ^= rotl32(c, 4)
	c += b
	b -= a
	b ^= rotl32(a, 6)
	a += c
	c -= b
	c ^= rotl32(b, 8)
	b += a
	a -= c
	a ^= rotl32(c, 16)
	c += b
	b -= a
	b ^= rotl32(a, 19)
	a += c
	c -= b
	c ^= rotl32(b, 4)
	b += a
	return a, b, c
}

func lookup3Final(a, b, c uint32) (uint32, uint32, uint32) {
	c ^= b
	c -= rotl32(b, 14)
	a ^= c
	a -= rotl32(c, 11)
	b ^= a
	b -= rotl32(a, 25)
	c ^= b
	c -= rotl32(b, 16)
	a ^= c
	a -= rotl32(c, 4)
	b ^= a
	b -= rotl32(a, 14)
	c ^= b
	c -= rotl32(b, 24)
	return a, b, c
}

func rotl32(x uint32, k uint) uint32 {
	return (x << k) | (x >> (32 - k))
}
