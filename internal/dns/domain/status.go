package domain

// Status is the closed taxonomy of terminal outcomes a query can end in,
// grouped by kind rather than by numeric code, and satisfies the error
// interface so callers can use errors.Is against it directly.
type Status int

const (
	StatusOK Status = iota
	// StatusNoData means the server answered NOERROR but produced no
	// record of the queried type (synthesized after an answer section
	// with zero type-matching records).
	StatusNoData
	// StatusNotFound means the server answered NXDOMAIN.
	StatusNotFound
	StatusServFail
	StatusRefused
	// StatusEndOfServers means every configured server was tried and
	// none produced a usable response within the attempt budget.
	StatusEndOfServers
	StatusTimeout
	// StatusCancelled is delivered to a query callback when the query
	// was cancelled before it completed.
	StatusCancelled
	// StatusNameTooLong means a query name, or a name concatenated with
	// a search suffix, exceeds the 255-octet domain cap.
	StatusNameTooLong
	StatusNoMemory
	StatusBadParam
	// StatusNotSupported marks a decoded record type the resolver
	// recognizes but does not implement; such records are skipped
	// silently by the response pipeline.
	StatusNotSupported
	// StatusUnexpectedType marks a decoded record whose type does not
	// match the query type and is not a CNAME link in the chain.
	StatusUnexpectedType
	// StatusMalformed marks a record, or an entire response, that
	// failed to decode.
	StatusMalformed
	StatusNoServers
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusNoData:
		return "no data"
	case StatusNotFound:
		return "not found"
	case StatusServFail:
		return "server failure"
	case StatusRefused:
		return "refused"
	case StatusEndOfServers:
		return "end of servers"
	case StatusTimeout:
		return "timeout"
	case StatusCancelled:
		return "cancelled"
	case StatusNameTooLong:
		return "name too long"
	case StatusNoMemory:
		return "insufficient memory"
	case StatusBadParam:
		return "bad parameter"
	case StatusNotSupported:
		return "record type not supported"
	case StatusUnexpectedType:
		return "unexpected record type"
	case StatusMalformed:
		return "malformed record"
	case StatusNoServers:
		return "no servers configured"
	default:
		return "unknown status"
	}
}

// Error lets a Status value satisfy the error interface, so engine APIs
// can return it directly and callers can compare with errors.Is.
func (s Status) Error() string {
	return s.String()
}

// Terminal reports whether s represents a final, non-OK outcome that
// ends a query (as opposed to StatusOK, which just means "proceed").
func (s Status) Terminal() bool {
	return s != StatusOK
}
