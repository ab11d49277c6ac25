package rrdata

import (
	"fmt"
	"net"
	"strings"

	"github.com/student-dns/rr-iterator/internal/dns/common/utils"
)

// encodeDomainName encodes a domain name into wire format (length-prefixed
// labels ending in a zero octet). Used by every record type whose rdata
// contains a name (NS, CNAME, SOA).
func encodeDomainName(name string) ([]byte, error) {
	name = utils.CanonicalDNSName(name)
	labels := strings.Split(name, ".")
	var encoded []byte
	for _, label := range labels {
		if len(label) == 0 {
			continue
		}
		if len(label) > 63 {
			return nil, fmt.Errorf("label too long: %s", label)
		}
		encoded = append(encoded, byte(len(label)))
		encoded = append(encoded, label...)
	}
	encoded = append(encoded, 0)
	return encoded, nil
}

// decodeDomainName decodes a length-prefixed label sequence with no
// compression pointer support — rdata names in this package are always
// stored fully expanded, so pointers never appear here.
func decodeDomainName(data []byte) (string, error) {
	var labels []string
	i := 0
	for i < len(data) {
		l := int(data[i])
		if l == 0 {
			return strings.Join(labels, "."), nil
		}
		if l&0xC0 != 0 {
			return "", fmt.Errorf("compressed name not supported in rdata")
		}
		i++
		if i+l > len(data) {
			return "", fmt.Errorf("label length %d exceeds remaining data", l)
		}
		labels = append(labels, string(data[i:i+l]))
		i += l
	}
	return "", fmt.Errorf("domain name missing terminating zero octet")
}

// isIPv4 checks whether the provided net.IP address is an IPv4 address.
func isIPv4(ip net.IP) bool {
	return ip != nil && ip.To4() != nil
}

// isIPv6 checks whether the provided net.IP is a valid IPv6 address.
func isIPv6(ip net.IP) bool {
	return ip != nil && ip.To16() != nil && ip.To4() == nil
}
