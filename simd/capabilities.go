//go:build amd64 || 386

package simd

import "golang.org/x/sys/cpu"

// Capabilities reports the CPU features this process could have used for
// accelerated scanning. The scan routines in this package are pure Go SWAR
// (see memchr.go) and do not branch on these flags themselves; Capabilities
// exists so callers (notably the CLI's verbose/diagnostic mode) can report
// what the underlying hardware offers alongside the portable implementation
// actually in use.
type Capabilities struct {
	AVX2  bool
	SSE42 bool
}

// DetectCapabilities inspects the running CPU via golang.org/x/sys/cpu.
func DetectCapabilities() Capabilities {
	return Capabilities{
		AVX2:  cpu.X86.HasAVX2,
		SSE42: cpu.X86.HasSSE42,
	}
}
