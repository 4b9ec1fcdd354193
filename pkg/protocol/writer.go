package protocol

import (
	"bufio"
	"io"
)

// FlushWriter wraps a writer so each encoded response can be pushed out
// immediately. MCP clients read stdio line by line and stall on buffering.
type FlushWriter struct {
	w *bufio.Writer
}

func NewFlushWriter(w io.Writer) *FlushWriter {
	return &FlushWriter{w: bufio.NewWriter(w)}
}

func (fw *FlushWriter) Write(p []byte) (int, error) {
	return fw.w.Write(p)
}

func (fw *FlushWriter) Flush() error {
	return fw.w.Flush()
}
