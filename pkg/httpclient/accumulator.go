package httpclient

import "strings"

// writeChunkSize matches the largest chunk libcurl hands to a write callback.
const writeChunkSize = 16 * 1024

// accumulator is the write callback of a transfer: every chunk delivered by
// the engine is appended in arrival order, untouched. Chunks are staged in buf
// and reach out on flush, so a large body is copied once instead of per chunk.
type accumulator struct {
	out *string
	buf strings.Builder
}

func (a *accumulator) Write(chunk []byte) (int, error) {
	if len(chunk) == 0 {
		return 0, nil
	}
	if a == nil || a.out == nil {
		return 0, ErrNoOutputBuffer
	}
	a.buf.Write(chunk)
	return len(chunk), nil
}

// flush appends everything staged so far to out. It must run on every exit
// path of a transfer so partial bodies are kept too.
func (a *accumulator) flush() {
	if a == nil || a.out == nil || a.buf.Len() == 0 {
		return
	}
	if *a.out == "" {
		*a.out = a.buf.String()
	} else {
		*a.out += a.buf.String()
	}
	a.buf.Reset()
}
