package wire

import (
	"bytes"
	"encoding/binary"
	"strings"

	"github.com/netresolve/rvdns/internal/dns/domain"
)

// EncodeQuery serializes a single-question query message: header with
// RD set and QDCOUNT=1, followed by the question section. id is the
// wire transaction ID, distinct from the engine's internal query id.
func EncodeQuery(id uint16, q domain.Question) ([]byte, error) {
	var buf bytes.Buffer

	_ = binary.Write(&buf, binary.BigEndian, id)
	_ = binary.Write(&buf, binary.BigEndian, uint16(0x0100)) // standard query, RD=1
	_ = binary.Write(&buf, binary.BigEndian, uint16(1))      // QDCOUNT
	_ = binary.Write(&buf, binary.BigEndian, uint16(0))      // ANCOUNT
	_ = binary.Write(&buf, binary.BigEndian, uint16(0))      // NSCOUNT
	_ = binary.Write(&buf, binary.BigEndian, uint16(0))      // ARCOUNT

	encoded, err := encodeName(q.Name)
	if err != nil {
		return nil, err
	}
	buf.Write(encoded)
	_ = binary.Write(&buf, binary.BigEndian, uint16(q.Type))
	_ = binary.Write(&buf, binary.BigEndian, uint16(q.Class))

	return buf.Bytes(), nil
}

func encodeName(name string) ([]byte, error) {
	var buf bytes.Buffer
	name = strings.TrimSuffix(name, ".")
	if name == "" {
		buf.WriteByte(0)
		return buf.Bytes(), nil
	}
	for _, label := range strings.Split(name, ".") {
		if len(label) > 63 {
			return nil, ErrLabelTooLong
		}
		buf.WriteByte(byte(len(label)))
		buf.WriteString(label)
	}
	buf.WriteByte(0)
	return buf.Bytes(), nil
}
