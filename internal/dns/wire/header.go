// Package wire decodes and encodes the DNS wire format (RFC 1035):
// message headers, compressed names, per-type RDATA, and the response
// pipeline that turns a raw UDP/TCP payload into a stream of decoded
// records plus one terminal status.
package wire

import (
	"encoding/binary"

	"github.com/netresolve/rvdns/internal/dns/domain"
)

const headerSize = 12

// header is the fixed 12-byte DNS message header.
type header struct {
	ID      uint16
	RCode   domain.RCode
	TC      bool
	QDCount uint16
	ANCount uint16
	NSCount uint16
	ARCount uint16
}

func parseHeader(msg []byte) (header, error) {
	if len(msg) < headerSize {
		return header{}, ErrTruncated
	}
	flags := binary.BigEndian.Uint16(msg[2:4])
	return header{
		ID:      binary.BigEndian.Uint16(msg[0:2]),
		RCode:   domain.RCode(flags & 0x000F),
		TC:      flags&0x0200 != 0,
		QDCount: binary.BigEndian.Uint16(msg[4:6]),
		ANCount: binary.BigEndian.Uint16(msg[6:8]),
		NSCount: binary.BigEndian.Uint16(msg[8:10]),
		ARCount: binary.BigEndian.Uint16(msg[10:12]),
	}, nil
}

// skipQuestions walks the question section, returning the owner name
// and type of the last question (the resolver only ever issues
// single-question messages, but a response that somehow echoed more
// than one is still walked in full, mirroring rvDnsSkipQuestions).
func skipQuestions(msg []byte, cur int, qdCount int) (name string, qtype domain.RRType, next int, err error) {
	for i := 0; i < qdCount; i++ {
		name, cur, err = expandName(msg, cur)
		if err != nil {
			return "", 0, 0, err
		}
		if cur+4 > len(msg) {
			return "", 0, 0, ErrTruncated
		}
		qtype = domain.RRType(binary.BigEndian.Uint16(msg[cur : cur+2]))
		cur += 4 // QTYPE + QCLASS
	}
	return name, qtype, cur, nil
}
