package core

// DebugWriter is a function type for writing debug messages
type DebugWriter func(string)

// debugPrintln is the global debug print function (can be set by platform code)
var debugPrintln DebugWriter = func(s string) {} // No-op by default

// SetDebugWriter sets the platform-specific debug output function
// This allows platforms to redirect debug output to UART, USB, etc.
func SetDebugWriter(writer DebugWriter) {
	debugPrintln = writer
}

// debugPrint writes a debug message through the registered writer
func debugPrint(s string) {
	debugPrintln(s)
}
