package rrdata

import "testing"

func TestEncodeCNAMEData_Valid(t *testing.T) {
	cname := "alias.example.com"
	want, _ := encodeDomainName(cname)
	got, err := EncodeCNAMEData(cname)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !equalBytes(got, want) {
		t.Errorf("EncodeCNAMEData(%q) = %v, want %v", cname, got, want)
	}
}

func TestEncodeCNAMEData_Empty(t *testing.T) {
	got, err := EncodeCNAMEData("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want, _ := encodeDomainName("")
	if !equalBytes(got, want) {
		t.Errorf("EncodeCNAMEData(\"\") = %v, want %v", got, want)
	}
}

func TestDecodeCNAMEData(t *testing.T) {
	wire := []byte{5, 'a', 'l', 'i', 'a', 's', 7, 'e', 'x', 'a', 'm', 'p', 'l', 'e', 3, 'c', 'o', 'm', 0}
	got, err := decodeCNAMEData(wire)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "alias.example.com" {
		t.Errorf("decodeCNAMEData() = %q, want %q", got, "alias.example.com")
	}
}
