package wire

import (
	"bytes"
	"encoding/binary"
	"net"
)

// responseBuilder assembles a synthetic wire-format DNS response for
// tests, since the resolver never round-trips through a real socket in
// unit tests.
type responseBuilder struct {
	buf     bytes.Buffer
	ancount uint16
	nscount uint16
	rcode   uint16
}

func newResponseBuilder(id uint16, qname string, qtype uint16) *responseBuilder {
	rb := &responseBuilder{}
	return rb.writeHeaderPlaceholder(id).writeQuestion(qname, qtype)
}

func (rb *responseBuilder) writeHeaderPlaceholder(id uint16) *responseBuilder {
	var hdr [12]byte
	binary.BigEndian.PutUint16(hdr[0:2], id)
	rb.buf.Write(hdr[:])
	return rb
}

func (rb *responseBuilder) writeQuestion(qname string, qtype uint16) *responseBuilder {
	rb.writeName(qname)
	var tc [4]byte
	binary.BigEndian.PutUint16(tc[0:2], qtype)
	binary.BigEndian.PutUint16(tc[2:4], 1) // IN
	rb.buf.Write(tc[:])
	return rb
}

func (rb *responseBuilder) writeName(name string) {
	encoded, err := encodeName(name)
	if err != nil {
		panic(err)
	}
	rb.buf.Write(encoded)
}

// answerA appends an A record answer pointing back at the question
// name via a compression pointer to offset 12.
func (rb *responseBuilder) answerA(ttl uint32, ip net.IP) *responseBuilder {
	rb.pointerToQuestion()
	rb.rrHeader(1, ttl, 4)
	rb.buf.Write(ip.To4())
	rb.ancount++
	return rb
}

func (rb *responseBuilder) answerCNAME(owner string, ttl uint32, target string) *responseBuilder {
	rb.writeName(owner)
	encodedTarget, _ := encodeName(target)
	rb.rrHeader(5, ttl, uint16(len(encodedTarget)))
	rb.buf.Write(encodedTarget)
	rb.ancount++
	return rb
}

func (rb *responseBuilder) authoritySOA(zone string, ttl, minimum uint32) *responseBuilder {
	rb.writeName(zone)
	rdata := soaRData(zone, ttl, minimum)
	rb.rrHeader(6, ttl, uint16(len(rdata)))
	rb.buf.Write(rdata)
	rb.nscount++
	return rb
}

func soaRData(zone string, ttl, minimum uint32) []byte {
	var buf bytes.Buffer
	mname, _ := encodeName("ns1." + zone)
	rname, _ := encodeName("hostmaster." + zone)
	buf.Write(mname)
	buf.Write(rname)
	var nums [20]byte
	binary.BigEndian.PutUint32(nums[0:4], 1)       // serial
	binary.BigEndian.PutUint32(nums[4:8], 7200)    // refresh
	binary.BigEndian.PutUint32(nums[8:12], 3600)   // retry
	binary.BigEndian.PutUint32(nums[12:16], 604800) // expire
	binary.BigEndian.PutUint32(nums[16:20], minimum)
	buf.Write(nums[:])
	return buf.Bytes()
}

func (rb *responseBuilder) pointerToQuestion() {
	rb.buf.Write([]byte{0xC0, 0x0C})
}

func (rb *responseBuilder) rrHeader(rtype uint16, ttl uint32, rdlen uint16) {
	var h [10]byte
	binary.BigEndian.PutUint16(h[0:2], rtype)
	binary.BigEndian.PutUint16(h[2:4], 1) // IN
	binary.BigEndian.PutUint32(h[4:8], ttl)
	binary.BigEndian.PutUint16(h[8:10], rdlen)
	rb.buf.Write(h[:])
}

func (rb *responseBuilder) rcodeNXDomain() *responseBuilder {
	rb.rcode = 3
	return rb
}

func (rb *responseBuilder) bytes() []byte {
	out := rb.buf.Bytes()
	flags := uint16(0x8180) | rb.rcode // QR=1, RD=1, RA=1 + rcode
	binary.BigEndian.PutUint16(out[2:4], flags)
	binary.BigEndian.PutUint16(out[4:6], 1) // QDCOUNT
	binary.BigEndian.PutUint16(out[6:8], rb.ancount)
	binary.BigEndian.PutUint16(out[8:10], rb.nscount)
	binary.BigEndian.PutUint16(out[10:12], 0)
	return out
}
