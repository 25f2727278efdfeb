package protocol

import (
	"strings"
	"testing"
)

func TestFifoBuffer(t *testing.T) {
	fifo := NewFifoBuffer(10)

	if fifo.Available() != 0 {
		t.Errorf("Empty FIFO should have 0 available, got %d", fifo.Available())
	}

	// Write some data
	data := []byte{1, 2, 3, 4, 5}
	written := fifo.Write(data)

	if written != 5 {
		t.Errorf("Expected to write 5 bytes, wrote %d", written)
	}

	if fifo.Available() != 5 {
		t.Errorf("Expected 5 bytes available, got %d", fifo.Available())
	}

	// Read some data
	readBuf := make([]byte, 3)
	read := fifo.Read(readBuf)

	if read != 3 {
		t.Errorf("Expected to read 3 bytes, read %d", read)
	}

	if readBuf[0] != 1 || readBuf[1] != 2 || readBuf[2] != 3 {
		t.Errorf("Read data mismatch: got %v", readBuf)
	}

	if fifo.Available() != 2 {
		t.Errorf("After reading 3, expected 2 available, got %d", fifo.Available())
	}

	// Reset empties the buffer
	fifo.Reset()
	if fifo.Available() != 0 {
		t.Errorf("After Reset, expected 0 available, got %d", fifo.Available())
	}

	bigData := make([]byte, 12)
	for i := range bigData {
		bigData[i] = byte(i)
	}
	written = fifo.Write(bigData)
	if written != 9 { // Buffer size is 10, can only store 9 (one slot reserved)
		t.Errorf("Expected to write 9 bytes to size-10 FIFO, wrote %d", written)
	}
}

func TestFifoBufferWrapAround(t *testing.T) {
	fifo := NewFifoBuffer(5)

	// Fill buffer
	fifo.Write([]byte{1, 2, 3, 4})

	// Read some
	readBuf := make([]byte, 2)
	fifo.Read(readBuf)

	// Write more (will wrap around)
	written := fifo.Write([]byte{5, 6})
	if written != 2 {
		t.Errorf("Expected to write 2 bytes, wrote %d", written)
	}

	// Verify order
	allData := make([]byte, 4)
	read := fifo.Read(allData)
	if read != 4 {
		t.Errorf("Expected to read 4 bytes, read %d", read)
	}
	if allData[0] != 3 || allData[1] != 4 || allData[2] != 5 || allData[3] != 6 {
		t.Errorf("Wrap-around data mismatch: got %v", allData)
	}
}

func TestFifoBufferDropped(t *testing.T) {
	fifo := NewFifoBuffer(4)

	written := fifo.Write([]byte("lrpms"))
	if written != 3 {
		t.Errorf("Expected to write 3 bytes, wrote %d", written)
	}
	if fifo.Dropped() != 2 {
		t.Errorf("Expected 2 dropped bytes, got %d", fifo.Dropped())
	}

	fifo.Reset()
	if fifo.Dropped() != 0 {
		t.Errorf("Expected Reset to clear dropped count, got %d", fifo.Dropped())
	}
	if written := fifo.Write([]byte("lrp")); written != 3 {
		t.Errorf("Expected to write 3 bytes after Reset, wrote %d", written)
	}
}

func TestBanner(t *testing.T) {
	lines := strings.Split(strings.TrimSuffix(Banner, LineEnding), LineEnding)
	if len(lines) != BannerLines {
		t.Fatalf("Expected %d banner lines, got %d", BannerLines, len(lines))
	}
	if lines[0] != "VNH2SP30 controller:" {
		t.Errorf("Unexpected banner header %q", lines[0])
	}
	for _, line := range lines {
		if IsStatusLine(line) {
			t.Errorf("Banner line %q collides with a status line", line)
		}
	}
}

func TestIsStatusLine(t *testing.T) {
	for _, line := range []string{StatusLeft, StatusRight, StatusIncrease, StatusDecrease, StatusStop} {
		if !IsStatusLine(line) {
			t.Errorf("Expected %q to be a status line", line)
		}
	}
	if IsStatusLine("Going Up") {
		t.Error("Unexpected status line match")
	}
}
