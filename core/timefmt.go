package core

import "time"

// formatTimestamp renders t plus a millisecond remainder as
// "YYYY-MM-DD HH:MM:SS.mmm" into buf without using fmt, which pulls in
// too much for embedded builds. Output is truncated when buf is short.
// Returns the number of bytes written.
func formatTimestamp(buf []byte, t time.Time, ms uint32) int {
	var tmp [TimestampLen]byte

	year, month, day := t.Date()
	hour, min, sec := t.Clock()

	putDigits(tmp[0:4], uint32(year))
	tmp[4] = '-'
	putDigits(tmp[5:7], uint32(month))
	tmp[7] = '-'
	putDigits(tmp[8:10], uint32(day))
	tmp[10] = ' '
	putDigits(tmp[11:13], uint32(hour))
	tmp[13] = ':'
	putDigits(tmp[14:16], uint32(min))
	tmp[16] = ':'
	putDigits(tmp[17:19], uint32(sec))
	tmp[19] = '.'
	putDigits(tmp[20:23], ms)

	return copy(buf, tmp[:])
}

// putDigits writes n right-aligned into dst, zero-padded to len(dst).
func putDigits(dst []byte, n uint32) {
	for i := len(dst) - 1; i >= 0; i-- {
		dst[i] = byte('0' + n%10)
		n /= 10
	}
}
