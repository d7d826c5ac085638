package telnet

import (
	"bytes"
	"io"
)

// Writer escapes outgoing application data so that a literal 0xFF is never
// mistaken for an IAC by the client.
type Writer struct {
	w io.Writer
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

func (w *Writer) Write(p []byte) (n int, err error) {
	// If there are no IAC bytes, just write directly
	if bytes.IndexByte(p, IAC) == -1 {
		return w.w.Write(p)
	}

	// Otherwise, we need to escape IAC -> IAC IAC
	var buf bytes.Buffer
	buf.Grow(len(p) + len(p)/10)

	for _, b := range p {
		buf.WriteByte(b)
		if b == IAC {
			buf.WriteByte(IAC)
		}
	}

	// Note: the return value n should be the number of bytes from p
	// consumed. Since all of p goes into buf, a successful write reports
	// len(p).
	_, err = w.w.Write(buf.Bytes())
	if err != nil {
		return 0, err
	}

	return len(p), nil
}
