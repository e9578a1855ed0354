package legacydb

import (
	"net"
	"strconv"
	"strings"
)

// ParseIPv4 converts a dotted-decimal IPv4 address to its 32-bit value.
// Exactly four decimal octets in 0-255 are accepted; hostnames, IPv6 and
// shorthand forms such as "10.1" are rejected.
func ParseIPv4(s string) (uint32, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 4 {
		return 0, &InvalidAddressError{Input: s}
	}
	var ipnum uint32
	for _, p := range parts {
		if p == "" || len(p) > 3 {
			return 0, &InvalidAddressError{Input: s}
		}
		for i := 0; i < len(p); i++ {
			if p[i] < '0' || p[i] > '9' {
				return 0, &InvalidAddressError{Input: s}
			}
		}
		v, err := strconv.Atoi(p)
		if err != nil || v > 255 {
			return 0, &InvalidAddressError{Input: s}
		}
		ipnum = ipnum<<8 | uint32(v)
	}
	return ipnum, nil
}

// FormatIPv4 is the inverse of ParseIPv4.
func FormatIPv4(ipnum uint32) string {
	return net.IPv4(byte(ipnum>>24), byte(ipnum>>16), byte(ipnum>>8), byte(ipnum)).String()
}

func ipToUint32(ip net.IP) (uint32, bool) {
	v4 := ip.To4()
	if v4 == nil {
		return 0, false
	}
	return uint32(v4[0])<<24 | uint32(v4[1])<<16 | uint32(v4[2])<<8 | uint32(v4[3]), true
}
