package protocol

// FifoBuffer is a circular buffer for serial I/O
type FifoBuffer struct {
	buf     []byte
	read    int
	write   int
	size    int
	dropped int
}

// NewFifoBuffer creates a new FifoBuffer with the specified capacity.
// One slot is reserved, so it holds capacity-1 bytes.
func NewFifoBuffer(capacity int) *FifoBuffer {
	return &FifoBuffer{
		buf:  make([]byte, capacity),
		size: capacity,
	}
}

// Write appends data to the FIFO buffer. Bytes that do not fit are dropped
// and counted, like a UART receive overrun.
func (f *FifoBuffer) Write(data []byte) int {
	written := 0
	for _, b := range data {
		nextWrite := (f.write + 1) % f.size
		if nextWrite == f.read {
			// Buffer full
			f.dropped += len(data) - written
			break
		}
		f.buf[f.write] = b
		f.write = nextWrite
		written++
	}
	return written
}

// Read reads up to len(data) bytes from the FIFO buffer
func (f *FifoBuffer) Read(data []byte) int {
	read := 0
	for i := range data {
		if f.read == f.write {
			// Buffer empty
			break
		}
		data[i] = f.buf[f.read]
		f.read = (f.read + 1) % f.size
		read++
	}
	return read
}

// Available returns the number of bytes available for reading
func (f *FifoBuffer) Available() int {
	if f.write >= f.read {
		return f.write - f.read
	}
	return f.size - f.read + f.write
}

// Dropped returns the number of bytes rejected because the buffer was full
func (f *FifoBuffer) Dropped() int {
	return f.dropped
}

// Reset discards buffered data and clears the overrun count
func (f *FifoBuffer) Reset() {
	f.read = 0
	f.write = 0
	f.dropped = 0
}
