package rrdata

// EncodeCNAMEData encodes a CNAME record string into its binary representation.
func EncodeCNAMEData(data string) ([]byte, error) {
	// data = "cname.example.com"
	return encodeDomainName(data)
}

// decodeCNAMEData decodes a CNAME record's binary representation into its target name.
func decodeCNAMEData(data []byte) (string, error) {
	return decodeDomainName(data)
}
