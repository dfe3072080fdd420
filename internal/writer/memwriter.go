package writer

// MemWriter captures buffer bytes in memory.
type MemWriter struct {
	Buf []byte
}

// WriteBuffer copies buf; later writes to the heap do not show through.
func (w *MemWriter) WriteBuffer(buf []byte) error {
	w.Buf = append(w.Buf[:0], buf...)
	return nil
}
