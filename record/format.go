package record

// AppendLine appends one measurement line (including the trailing
// newline) to dst and returns the extended slice. The electrical values
// are given in micro units as read from the power monitor; they are
// rendered as decimals with four fractional digits. Reusing dst across
// samples keeps the firmware sampling path allocation-free.
func AppendLine(dst []byte, timestamp []byte, microvolts, microamps, microwatts int32) []byte {
	dst = append(dst, timestamp...)
	dst = append(dst, ',')
	dst = appendMicro(dst, microvolts)
	dst = append(dst, ',')
	dst = appendMicro(dst, microamps)
	dst = append(dst, ',')
	dst = appendMicro(dst, microwatts)
	dst = append(dst, '\n')
	return dst
}

// appendMicro renders a micro-unit value as a decimal with four
// fractional digits: 12345678 -> "12.3456". Negation happens in int64
// so the minimum int32 value cannot overflow.
func appendMicro(dst []byte, micro int32) []byte {
	n := int64(micro)
	if n < 0 {
		dst = append(dst, '-')
		n = -n
	}

	whole := uint32(n / 1000000)
	frac := uint32(n%1000000) / 100 // 4 digits

	dst = appendUint(dst, whole)
	dst = append(dst, '.')

	// Zero-pad the fraction to exactly four digits.
	var f [4]byte
	for i := 3; i >= 0; i-- {
		f[i] = byte('0' + frac%10)
		frac /= 10
	}
	return append(dst, f[:]...)
}

// appendUint appends the decimal representation of n to dst.
func appendUint(dst []byte, n uint32) []byte {
	if n == 0 {
		return append(dst, '0')
	}

	var buf [10]byte
	pos := len(buf)
	for n > 0 {
		pos--
		buf[pos] = byte('0' + n%10)
		n /= 10
	}
	return append(dst, buf[pos:]...)
}
