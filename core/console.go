package core

import "sync/atomic"

// ConsoleWriter writes text to the serial console
type ConsoleWriter func(string)

// DebugWriter is a function type for writing debug messages
type DebugWriter func(string)

const consoleQueueSize = 16

var (
	// consoleWrite is the platform console output (UART TX)
	consoleWrite ConsoleWriter = func(s string) {}

	// Async console output channel
	consoleChan    chan string
	consoleDropped uint32 // atomic

	// debugPrintln is the global debug print function (can be set by platform code)
	debugPrintln DebugWriter = func(s string) {} // No-op by default

	// debugEnabled controls whether debug output is active
	debugEnabled bool = false
)

// SetConsoleWriter sets the platform-specific console output function
func SetConsoleWriter(writer ConsoleWriter) {
	consoleWrite = writer
}

// InitAsyncConsole starts the console output goroutine.
// Call this from main() after SetConsoleWriter.
func InitAsyncConsole() {
	if consoleChan != nil {
		return
	}
	consoleChan = make(chan string, consoleQueueSize)
	go consoleOutputWorker(consoleChan)
}

// consoleOutputWorker runs in background, drains the console channel
func consoleOutputWorker(ch <-chan string) {
	for msg := range ch {
		if consoleWrite != nil {
			consoleWrite(msg)
		}
	}
}

// ConsolePrint writes s and returns once the platform writer has taken it.
// Used for the boot banner, before the control loop starts.
func ConsolePrint(s string) {
	if consoleWrite != nil {
		consoleWrite(s)
	}
}

// ConsoleAsync queues s for output and returns immediately. When the queue
// is full the message is dropped and counted. Without InitAsyncConsole it
// falls back to ConsolePrint.
func ConsoleAsync(s string) {
	if consoleChan == nil {
		ConsolePrint(s)
		return
	}
	select {
	case consoleChan <- s:
	default:
		atomic.AddUint32(&consoleDropped, 1)
	}
}

// ConsoleDropped returns how many queued console messages were dropped
func ConsoleDropped() uint32 {
	return atomic.LoadUint32(&consoleDropped)
}

// SetDebugWriter sets the platform-specific debug output function
func SetDebugWriter(writer DebugWriter) {
	debugPrintln = writer
}

// SetDebugEnabled enables or disables debug output
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// DebugPrintln writes a debug message using the platform-specific writer
func DebugPrintln(msg string) {
	if debugEnabled && debugPrintln != nil {
		debugPrintln(msg)
	}
}
