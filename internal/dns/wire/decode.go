package wire

import (
	"encoding/binary"
	"net"

	"github.com/netresolve/rvdns/internal/dns/domain"
)

// rrFixedSize is the length of the TYPE, CLASS, TTL and RDLENGTH fields
// that follow a record's owner name, before RDATA begins.
const rrFixedSize = 10

// decodeRecord decodes one resource record starting at offset: owner
// name, the fixed TYPE/CLASS/TTL/RDLENGTH header, and (for recognized
// types) the RDATA. Once the fixed header has been read, the returned
// offset points past this record's RDATA, even when the record's own
// type is unsupported or its RDATA is malformed and decoding failed, so
// the caller can keep walking subsequent records regardless of whether
// this one succeeded enough to be usable; if the owner name or fixed
// header cannot be read, the offset is 0. err is ErrNotSupported for a
// non-IN class or a type with no decoder; any other non-nil err
// (ErrMalformed, ErrTruncated or a name-expansion error) means the
// record failed to parse.
func decodeRecord(msg []byte, offset int) (domain.Record, int, error) {
	owner, cur, err := expandName(msg, offset)
	if err != nil {
		return domain.Record{}, 0, err
	}
	if cur+rrFixedSize > len(msg) {
		return domain.Record{}, 0, ErrTruncated
	}

	rtype := domain.RRType(binary.BigEndian.Uint16(msg[cur : cur+2]))
	rclass := domain.RRClass(binary.BigEndian.Uint16(msg[cur+2 : cur+4]))
	ttl := binary.BigEndian.Uint32(msg[cur+4 : cur+8])
	rdlen := int(binary.BigEndian.Uint16(msg[cur+8 : cur+10]))
	rdataStart := cur + rrFixedSize
	next := rdataStart + rdlen
	if next > len(msg) {
		return domain.Record{}, 0, ErrTruncated
	}
	rdata := msg[rdataStart:next]

	rec := domain.Record{Owner: owner, TTL: ttl}

	if rclass != domain.ClassIN {
		return rec, next, ErrNotSupported
	}

	switch rtype {
	case domain.TypeA:
		rec.Kind = domain.KindA
		if len(rdata) != 4 {
			return rec, next, ErrMalformed
		}
		rec.Addr = net.IP(append([]byte(nil), rdata...)).To4()
	case domain.TypeAAAA:
		rec.Kind = domain.KindAAAA
		if len(rdata) != 16 {
			return rec, next, ErrMalformed
		}
		rec.Addr = net.IP(append([]byte(nil), rdata...))
	case domain.TypeSRV:
		rec.Kind = domain.KindSRV
		srv, err := decodeSRV(msg, rdataStart, rdlen)
		if err != nil {
			return rec, next, err
		}
		rec.SRV = srv
	case domain.TypeNAPTR:
		rec.Kind = domain.KindNAPTR
		naptr, err := decodeNAPTR(msg, rdataStart, rdlen)
		if err != nil {
			return rec, next, err
		}
		rec.NAPTR = naptr
	case domain.TypeCNAME:
		rec.Kind = domain.KindCNAME
		alias, _, err := expandName(msg, rdataStart)
		if err != nil {
			return rec, next, err
		}
		rec.Alias = alias
	default:
		return rec, next, ErrNotSupported
	}

	return rec, next, nil
}

func decodeSRV(msg []byte, start, rdlen int) (domain.SRVData, error) {
	if rdlen < 6 {
		return domain.SRVData{}, ErrMalformed
	}
	target, _, err := expandName(msg, start+6)
	if err != nil {
		return domain.SRVData{}, ErrMalformed
	}
	return domain.SRVData{
		Priority: binary.BigEndian.Uint16(msg[start : start+2]),
		Weight:   binary.BigEndian.Uint16(msg[start+2 : start+4]),
		Port:     binary.BigEndian.Uint16(msg[start+4 : start+6]),
		Target:   target,
	}, nil
}

func decodeNAPTR(msg []byte, start, rdlen int) (domain.NAPTRData, error) {
	if rdlen < 4 {
		return domain.NAPTRData{}, ErrMalformed
	}
	end := start + rdlen
	order := binary.BigEndian.Uint16(msg[start : start+2])
	pref := binary.BigEndian.Uint16(msg[start+2 : start+4])

	cur := start + 4
	flags, cur, err := expandString(msg, cur)
	if err != nil || cur > end {
		return domain.NAPTRData{}, ErrMalformed
	}
	service, cur, err := expandString(msg, cur)
	if err != nil || cur > end {
		return domain.NAPTRData{}, ErrMalformed
	}
	regexp, cur, err := expandString(msg, cur)
	if err != nil || cur > end {
		return domain.NAPTRData{}, ErrMalformed
	}
	replacement, _, err := expandName(msg, cur)
	if err != nil {
		return domain.NAPTRData{}, ErrMalformed
	}

	return domain.NAPTRData{
		Order:       order,
		Preference:  pref,
		Flags:       flags,
		Service:     service,
		Regexp:      regexp,
		Replacement: replacement,
	}, nil
}
