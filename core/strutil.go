package core

// utoa formats n in decimal without pulling in fmt or strconv
func utoa(n uint32) string {
	var buf [10]byte // max uint32 has 10 digits
	pos := len(buf)
	for {
		pos--
		buf[pos] = byte('0' + n%10)
		n /= 10
		if n == 0 {
			break
		}
	}
	return string(buf[pos:])
}
