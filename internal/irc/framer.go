package irc

import "bytes"

var lineDelimiter = []byte("\r\n")

// LineFramer turns the raw chunked byte stream from the transport into an
// ordered sequence of complete, delimiter-stripped lines. An unterminated
// trailing fragment is carried over and prefixed onto the next chunk, so a
// delimiter split across a chunk boundary never loses data.
type LineFramer struct {
	carry []byte
}

// Feed appends a chunk to the carry-over buffer and returns every complete
// line it now contains, in the order the delimiters were encountered.
func (f *LineFramer) Feed(chunk []byte) []string {
	buf := append(f.carry, chunk...)

	var lines []string
	for {
		i := bytes.Index(buf, lineDelimiter)
		if i < 0 {
			break
		}
		lines = append(lines, string(buf[:i]))
		buf = buf[i+len(lineDelimiter):]
	}

	// Copy the fragment so the caller may reuse its chunk buffer.
	f.carry = append([]byte(nil), buf...)
	return lines
}

// Pending returns the number of buffered bytes awaiting a delimiter.
func (f *LineFramer) Pending() int { return len(f.carry) }
