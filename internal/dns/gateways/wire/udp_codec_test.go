package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/student-dns/rr-iterator/internal/dns/common/log"
	"github.com/student-dns/rr-iterator/internal/dns/domain"
)

func testCodec() DNSCodec {
	return NewUDPCodec(log.NewNoopLogger())
}

func aRecord(t *testing.T, name domain.Name, ip [4]byte, ttl uint32) domain.ResourceRecord {
	t.Helper()
	rr, err := domain.NewStaticResourceRecord(name, domain.RRTypeA, domain.RRClassIN, ttl, ip[:])
	require.NoError(t, err)
	return rr
}

func TestEncodeDecodePacket_RoundTrip(t *testing.T) {
	codec := testCodec()
	pkt := domain.Packet{
		Header: domain.Header{ID: 0xABCD, RD: true},
		Question: domain.Question{
			ID:    0xABCD,
			Name:  domain.NewName("example.com."),
			Type:  domain.RRTypeA,
			Class: domain.RRClassIN,
		},
	}

	data, err := codec.EncodePacket(pkt)
	require.NoError(t, err)

	decoded, err := codec.DecodePacket(data)
	require.NoError(t, err)
	assert.True(t, decoded.IsWellFormed())
	assert.Equal(t, pkt.Header.ID, decoded.Header.ID)
	assert.True(t, decoded.Header.RD)
	assert.Equal(t, domain.NewName("example.com."), decoded.Question.Name)
	assert.Equal(t, domain.RRTypeA, decoded.Question.Type)
}

func TestEncodeDecodePacket_WithAnswer(t *testing.T) {
	codec := testCodec()
	rr := aRecord(t, domain.NewName("example.com."), [4]byte{93, 184, 216, 34}, 300)
	pkt := domain.Packet{
		Header: domain.Header{ID: 1, QR: true, AA: true, RCode: domain.RCodeNoError},
		Question: domain.Question{
			ID: 1, Name: domain.NewName("example.com."), Type: domain.RRTypeA, Class: domain.RRClassIN,
		},
		Answer: []domain.ResourceRecord{rr},
	}

	data, err := codec.EncodePacket(pkt)
	require.NoError(t, err)

	decoded, err := codec.DecodePacket(data)
	require.NoError(t, err)
	require.Len(t, decoded.Answer, 1)
	assert.Equal(t, domain.NewName("example.com."), decoded.Answer[0].Name)
	assert.Equal(t, []byte{93, 184, 216, 34}, decoded.Answer[0].Data)
	assert.True(t, decoded.Header.QR)
	assert.True(t, decoded.Header.AA)
}

func TestEncodeDecodePacket_EDNS(t *testing.T) {
	codec := testCodec()
	pkt := domain.Packet{
		Header: domain.Header{ID: 7, RD: true},
		Question: domain.Question{
			ID: 7, Name: domain.NewName("example.com."), Type: domain.RRTypeA, Class: domain.RRClassIN,
		},
		EDNS: &domain.EDNS{UDPPayloadSize: 4096, Version: 0, DNSSECOK: true},
	}

	data, err := codec.EncodePacket(pkt)
	require.NoError(t, err)

	decoded, err := codec.DecodePacket(data)
	require.NoError(t, err)
	require.NotNil(t, decoded.EDNS)
	assert.EqualValues(t, 4096, decoded.EDNS.UDPPayloadSize)
	assert.True(t, decoded.EDNS.DNSSECOK)
	assert.Empty(t, decoded.Additional)
}

func TestDecodePacket_TooShort(t *testing.T) {
	codec := testCodec()
	_, err := codec.DecodePacket([]byte{1, 2, 3})
	assert.Error(t, err)
}

func TestEncodeDecodeTCP_RoundTrip(t *testing.T) {
	codec := testCodec()
	pkt := domain.Packet{
		Header: domain.Header{ID: 99, RD: true},
		Question: domain.Question{
			ID: 99, Name: domain.NewName("www.example.com."), Type: domain.RRTypeAAAA, Class: domain.RRClassIN,
		},
	}

	data, err := codec.EncodeTCP(pkt)
	require.NoError(t, err)

	decoded, err := codec.DecodeTCP(data)
	require.NoError(t, err)
	assert.Equal(t, pkt.Header.ID, decoded.Header.ID)
	assert.Equal(t, domain.NewName("www.example.com."), decoded.Question.Name)
}

func TestDecodeTCP_LengthMismatch(t *testing.T) {
	codec := testCodec()
	data := []byte{0, 100, 1, 2, 3}
	_, err := codec.DecodeTCP(data)
	assert.Error(t, err)
}

func TestDecodeName_CompressionPointer(t *testing.T) {
	// "example.com." at offset 12, then a record name at offset N that's
	// just a pointer back to offset 12.
	qname, err := encodeDomainName("example.com.")
	require.NoError(t, err)

	data := make([]byte, 12)
	data = append(data, qname...)
	pointerOffset := len(data)
	data = append(data, 0xC0, 0x0C) // pointer to offset 12

	name, newOffset, err := decodeName(data, pointerOffset)
	require.NoError(t, err)
	assert.Equal(t, domain.NewName("example.com."), name)
	assert.Equal(t, pointerOffset+2, newOffset)
}

func TestDecodeName_OutOfBounds(t *testing.T) {
	_, _, err := decodeName([]byte{5, 'a'}, 0)
	assert.Error(t, err)
}

func TestEncodeDomainName_LabelTooLong(t *testing.T) {
	longLabel := make([]byte, 64)
	for i := range longLabel {
		longLabel[i] = 'a'
	}
	_, err := encodeDomainName(string(longLabel) + ".com.")
	assert.Error(t, err)
}
