// Package note packs an ordered list of byte blobs into one self describing
// payload small enough to travel in transaction notes.
//
// The payload layout is
//
//	<count>:<len1>:<len2>:...:<lenN>$<blob1><blob2>...<blobN>
//
// where the header is ASCII decimal and the body is raw bytes.
package note

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	headerDelimiter = '$'
	lengthSeparator = ":"
)

var ErrMalformedPayload = errors.New("malformed note payload")

func malformed(format string, a ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrMalformedPayload, fmt.Sprintf(format, a...))
}

// Encode concatenates blobs behind a length header. Zero length blobs and an
// empty list are both representable.
func Encode(blobs [][]byte) []byte {
	parts := make([]string, 0, len(blobs)+1)
	parts = append(parts, strconv.Itoa(len(blobs)))
	total := 0
	for _, b := range blobs {
		parts = append(parts, strconv.Itoa(len(b)))
		total += len(b)
	}
	header := strings.Join(parts, lengthSeparator)

	out := make([]byte, 0, len(header)+1+total)
	out = append(out, header...)
	out = append(out, headerDelimiter)
	for _, b := range blobs {
		out = append(out, b...)
	}
	return out
}

// Decode is the inverse of Encode. The body must be exactly as long as the
// sum of the declared lengths, so a corrupted length digit is always
// detected instead of yielding truncated blobs.
func Decode(payload []byte) ([][]byte, error) {
	idx := bytes.IndexByte(payload, headerDelimiter)
	if idx < 0 {
		return nil, malformed("missing header delimiter")
	}
	header := string(payload[:idx])
	body := payload[idx+1:]

	fields := strings.Split(header, lengthSeparator)
	// an empty list may also be written as "0:$"
	if len(fields) == 2 && fields[0] == "0" && fields[1] == "" {
		fields = fields[:1]
	}
	count, err := parseLength(fields[0])
	if err != nil {
		return nil, malformed("invalid count %q", fields[0])
	}
	lengths := fields[1:]
	if count != len(lengths) {
		return nil, malformed("count %d does not match %d lengths", count, len(lengths))
	}

	blobs := make([][]byte, 0, count)
	offset := 0
	for i, field := range lengths {
		n, err := parseLength(field)
		if err != nil {
			return nil, malformed("invalid length %q at position %d", field, i)
		}
		if n > len(body)-offset {
			return nil, malformed("blob %d needs %d bytes, only %d left", i, n, len(body)-offset)
		}
		blob := make([]byte, n)
		copy(blob, body[offset:offset+n])
		blobs = append(blobs, blob)
		offset += n
	}
	if offset != len(body) {
		return nil, malformed("%d trailing bytes after last blob", len(body)-offset)
	}
	return blobs, nil
}

// parseLength accepts plain decimal digits only, no sign and no spaces.
func parseLength(s string) (int, error) {
	if s == "" {
		return 0, fmt.Errorf("empty")
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("not a number")
		}
	}
	return strconv.Atoi(s)
}
