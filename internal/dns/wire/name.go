package wire

import (
	"encoding/binary"
	"strings"

	"github.com/netresolve/rvdns/internal/dns/domain"
)

// maxPointerJumps bounds the number of compression-pointer hops a
// single name expansion may follow, defending against a response that
// chains pointers into a cycle.
const maxPointerJumps = 128

// expandName decodes a possibly-compressed domain name starting at
// offset and returns it plus the offset immediately following the
// encoded name as it appears at the call site (a compression pointer
// itself is only two octets wide regardless of how much data it
// dereferences).
func expandName(msg []byte, offset int) (string, int, error) {
	var labels []string
	jumps := 0
	cur := offset
	endOffset := -1 // offset to resume at once we follow the first pointer

	for {
		if cur >= len(msg) {
			return "", 0, ErrTruncated
		}
		length := int(msg[cur])

		switch {
		case length == 0:
			cur++
			if endOffset == -1 {
				endOffset = cur
			}
			// Always root-terminated, matching the canonical form
			// used everywhere else (domain.Question.Name, cache
			// keys): a bare root label decodes to ".", anything else
			// gets a trailing dot appended.
			name := strings.Join(labels, ".") + "."
			if len(name) > domain.MaxDomainSize {
				return "", 0, ErrNameTooLong
			}
			return name, endOffset, nil

		case length&0xC0 == 0xC0:
			if cur+1 >= len(msg) {
				return "", 0, ErrTruncated
			}
			if endOffset == -1 {
				endOffset = cur + 2
			}
			jumps++
			if jumps > maxPointerJumps {
				return "", 0, ErrNameCompression
			}
			ptr := int(binary.BigEndian.Uint16(msg[cur:cur+2]) & 0x3FFF)
			if ptr >= cur {
				// Only backward pointers are legal; this also rules
				// out a pointer pointing at itself.
				return "", 0, ErrNameCompression
			}
			cur = ptr

		case length&0xC0 != 0:
			return "", 0, ErrNameCompression

		default:
			cur++
			if length > 63 {
				return "", 0, ErrLabelTooLong
			}
			if cur+length > len(msg) {
				return "", 0, ErrTruncated
			}
			labels = append(labels, string(msg[cur:cur+length]))
			cur += length
		}
	}
}

// expandString decodes a single DNS character-string: a length octet
// followed by that many octets of data, as used by NAPTR's text
// fields.
func expandString(msg []byte, offset int) (string, int, error) {
	if offset >= len(msg) {
		return "", 0, ErrTruncated
	}
	length := int(msg[offset])
	offset++
	if offset+length > len(msg) {
		return "", 0, ErrTruncated
	}
	return string(msg[offset : offset+length]), offset + length, nil
}
