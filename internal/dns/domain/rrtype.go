// Package domain defines the wire-agnostic value types shared by the
// wire, cache and resolve packages: record types, classes, statuses and
// the decoded record/question shapes the rest of the resolver operates on.
package domain

import "fmt"

// RRType is a DNS resource record type, as carried in the QTYPE/TYPE
// wire field.
type RRType uint16

const (
	TypeA     RRType = 1
	TypeCNAME RRType = 5
	TypeSOA   RRType = 6
	TypeAAAA  RRType = 28
	TypeSRV   RRType = 33
	TypeNAPTR RRType = 35
)

func (t RRType) String() string {
	switch t {
	case TypeA:
		return "A"
	case TypeAAAA:
		return "AAAA"
	case TypeCNAME:
		return "CNAME"
	case TypeSOA:
		return "SOA"
	case TypeSRV:
		return "SRV"
	case TypeNAPTR:
		return "NAPTR"
	default:
		return fmt.Sprintf("TYPE%d", uint16(t))
	}
}

// IsQueryable reports whether t is a type this resolver accepts as a
// query type. CNAME and SOA are answer-only types: they show up in
// responses (chased aliases, SOA negative-caching records) but callers
// never ask for them directly.
func (t RRType) IsQueryable() bool {
	switch t {
	case TypeA, TypeAAAA, TypeSRV, TypeNAPTR:
		return true
	default:
		return false
	}
}

// RRClass is a DNS resource record class, as carried in the QCLASS/CLASS
// wire field. Only IN is supported; the decoders reject anything else.
type RRClass uint16

const ClassIN RRClass = 1

func (c RRClass) String() string {
	if c == ClassIN {
		return "IN"
	}
	return fmt.Sprintf("CLASS%d", uint16(c))
}

// RCode is the 4-bit response code carried in the header's low nibble.
type RCode uint8

const (
	RCodeNoError  RCode = 0
	RCodeFormErr  RCode = 1
	RCodeServFail RCode = 2
	RCodeNXDomain RCode = 3
	RCodeNotImp   RCode = 4
	RCodeRefused  RCode = 5
)

func (r RCode) String() string {
	switch r {
	case RCodeNoError:
		return "NOERROR"
	case RCodeFormErr:
		return "FORMERR"
	case RCodeServFail:
		return "SERVFAIL"
	case RCodeNXDomain:
		return "NXDOMAIN"
	case RCodeNotImp:
		return "NOTIMP"
	case RCodeRefused:
		return "REFUSED"
	default:
		return fmt.Sprintf("RCODE%d", uint8(r))
	}
}
