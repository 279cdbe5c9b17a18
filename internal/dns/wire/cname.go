package wire

import "strings"

// cnameChainEntry records one name observed while walking a response's
// answer section: whether it ever appeared as the owner of a CNAME
// record (isOwner), or only ever appeared as an alias target.
type cnameChainEntry struct {
	name    string
	isOwner bool
}

// cnameChain tracks the CNAME links seen in a single response so the
// pipeline can report the terminal name of the chain — the alias that
// was never itself aliased further — when the answer section produced
// no type-matching record. A Go slice already grows by doubling on
// append, so no manual small-buffer-optimization is needed, but the
// starting capacity is sized so the common one- or two-hop chain never
// reallocates.
type cnameChain struct {
	entries []cnameChainEntry
}

func newCNAMEChain() *cnameChain {
	return &cnameChain{entries: make([]cnameChainEntry, 0, 16)}
}

func (c *cnameChain) find(name string) int {
	for i, e := range c.entries {
		if strings.EqualFold(e.name, name) {
			return i
		}
	}
	return -1
}

// add records owner -> alias, mirroring RvCnameChainAdd: owner is
// marked (or inserted) as having appeared as an owner; alias is
// inserted only if not already present, defaulting to "never an
// owner" until a later record proves otherwise.
func (c *cnameChain) add(owner, alias string) {
	if i := c.find(owner); i >= 0 {
		c.entries[i].isOwner = true
	} else {
		c.entries = append(c.entries, cnameChainEntry{name: owner, isOwner: true})
	}

	if c.find(alias) >= 0 {
		return
	}
	c.entries = append(c.entries, cnameChainEntry{name: alias, isOwner: false})
}

// findTerminal returns the first name that was never seen as an owner
// — the end of the alias chain — or "" if the chain is empty.
func (c *cnameChain) findTerminal() string {
	for _, e := range c.entries {
		if !e.isOwner {
			return e.name
		}
	}
	return ""
}
