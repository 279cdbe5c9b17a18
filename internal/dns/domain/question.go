package domain

import (
	"errors"
	"fmt"

	"github.com/netresolve/rvdns/internal/dns/common/utils"
)

// MaxDomainSize is the wire-format cap on a fully-qualified name,
// including the terminating root label, and is what StatusNameTooLong
// is checked against.
const MaxDomainSize = 255

var (
	ErrEmptyName    = errors.New("domain: name is empty")
	ErrNameTooLong  = errors.New("domain: name exceeds maximum domain size")
	ErrUnqueryable  = errors.New("domain: type is not a queryable record type")
	ErrUnsupported  = errors.New("domain: class is not supported")
)

// Question identifies a single outstanding or cached query: a name,
// type and class triple, canonicalized so it can serve as a cache key.
type Question struct {
	Name  string
	Type  RRType
	Class RRClass
}

// NewQuestion builds a Question, canonicalizing name and validating
// that it is a sane, queryable request.
func NewQuestion(name string, t RRType, class RRClass) (Question, error) {
	q := Question{Name: utils.CanonicalDNSName(name), Type: t, Class: class}
	if err := q.Validate(); err != nil {
		return Question{}, err
	}
	return q, nil
}

func (q Question) Validate() error {
	if q.Name == "" || q.Name == "." {
		return ErrEmptyName
	}
	// On the wire a canonical name takes one octet more than its text
	// form: each dot becomes a length octet, plus a leading one.
	if wireLen := len(q.Name) + 1; wireLen > MaxDomainSize {
		return fmt.Errorf("%w: %d octets", ErrNameTooLong, wireLen)
	}
	if !q.Type.IsQueryable() {
		return fmt.Errorf("%w: %s", ErrUnqueryable, q.Type)
	}
	if q.Class != ClassIN {
		return fmt.Errorf("%w: %s", ErrUnsupported, q.Class)
	}
	return nil
}

// Key returns the canonical cache key for this question.
func (q Question) Key() string {
	return q.Name + "|" + q.Type.String() + "|" + q.Class.String()
}
