package wire

import "strconv"

// ChunkFrame wraps data in HTTP/1.1 chunked transfer-encoding framing:
// "HEX-SIZE\r\nDATA\r\n", per spec.md §6. An empty data slice still
// produces a (degenerate, zero-size) frame; callers that want the
// terminator should call ChunkTerminator instead.
func ChunkFrame(data []byte) []byte {
	if len(data) == 0 {
		return ChunkTerminator()
	}
	size := strconv.FormatInt(int64(len(data)), 16)
	out := make([]byte, 0, len(size)+2+len(data)+2)
	out = append(out, size...)
	out = append(out, '\r', '\n')
	out = append(out, data...)
	out = append(out, '\r', '\n')
	return out
}

// ChunkTerminator returns the final zero-length chunk "0\r\n\r\n" that
// ends a chunked transfer.
func ChunkTerminator() []byte {
	return []byte("0\r\n\r\n")
}
