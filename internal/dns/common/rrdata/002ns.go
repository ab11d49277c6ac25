package rrdata

// EncodeNSData encodes an NS record string into its binary representation.
func EncodeNSData(data string) ([]byte, error) {
	// data = "ns.example.com"
	return encodeDomainName(data)
}

// decodeNSData decodes an NS record's binary representation into its target name.
func decodeNSData(data []byte) (string, error) {
	return decodeDomainName(data)
}
