package rrdata

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
)

// EncodeSOAData encodes an SOA record string into its binary representation.
func EncodeSOAData(data string) ([]byte, error) {
	// data = "mname rname serial refresh retry expire minimum"
	parts := strings.Fields(data)
	if len(parts) != 7 {
		return nil, fmt.Errorf("invalid SOA record format (expected 7 fields): %s", data)
	}

	mname, err := encodeDomainName(parts[0])
	if err != nil {
		return nil, fmt.Errorf("invalid SOA mname: %v", err)
	}

	rname, err := encodeDomainName(parts[1])
	if err != nil {
		return nil, fmt.Errorf("invalid SOA rname: %v", err)
	}

	// serial, refresh, retry, expire, minimum
	u32 := make([]byte, 20)
	for i := 0; i < 5; i++ {
		val, err := strconv.ParseUint(parts[i+2], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid SOA field %d: %v", i+2, err)
		}
		binary.BigEndian.PutUint32(u32[i*4:], uint32(val))
	}

	var encoded []byte
	encoded = append(encoded, mname...)
	encoded = append(encoded, rname...)
	encoded = append(encoded, u32...)

	return encoded, nil
}

// decodeSOAData decodes an SOA record's binary representation into its
// space-separated text form. SOAMinimum reads the minimum field (the last
// uint32) on its own; the iterator copies SOA records without reading it.
func decodeSOAData(data []byte) (string, error) {
	mname, rest, err := decodeSOAName(data)
	if err != nil {
		return "", fmt.Errorf("invalid SOA mname: %w", err)
	}
	rname, rest, err := decodeSOAName(rest)
	if err != nil {
		return "", fmt.Errorf("invalid SOA rname: %w", err)
	}
	if len(rest) != 20 {
		return "", fmt.Errorf("invalid SOA fixed fields length: %d", len(rest))
	}
	serial := binary.BigEndian.Uint32(rest[0:4])
	refresh := binary.BigEndian.Uint32(rest[4:8])
	retry := binary.BigEndian.Uint32(rest[8:12])
	expire := binary.BigEndian.Uint32(rest[12:16])
	minimum := binary.BigEndian.Uint32(rest[16:20])
	return fmt.Sprintf("%s %s %d %d %d %d %d", mname, rname, serial, refresh, retry, expire, minimum), nil
}

// SOAMinimum extracts just the minimum (negative-caching TTL) field from
// an encoded SOA rdata, without building the full text form.
func SOAMinimum(data []byte) (uint32, error) {
	_, rest, err := decodeSOAName(data)
	if err != nil {
		return 0, err
	}
	_, rest, err = decodeSOAName(rest)
	if err != nil {
		return 0, err
	}
	if len(rest) != 20 {
		return 0, fmt.Errorf("invalid SOA fixed fields length: %d", len(rest))
	}
	return binary.BigEndian.Uint32(rest[16:20]), nil
}

// decodeSOAName decodes one name out of the front of data and returns the
// decoded name plus whatever bytes follow it.
func decodeSOAName(data []byte) (string, []byte, error) {
	i := 0
	var labels []string
	for i < len(data) {
		l := int(data[i])
		if l == 0 {
			i++
			return strings.Join(labels, "."), data[i:], nil
		}
		if l&0xC0 != 0 {
			return "", nil, fmt.Errorf("compressed name not supported in rdata")
		}
		i++
		if i+l > len(data) {
			return "", nil, fmt.Errorf("label length %d exceeds remaining data", l)
		}
		labels = append(labels, string(data[i:i+l]))
		i += l
	}
	return "", nil, fmt.Errorf("name missing terminating zero octet")
}
