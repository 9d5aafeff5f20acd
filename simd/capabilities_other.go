//go:build !amd64 && !386

package simd

// Capabilities reports the CPU features this process could have used for
// accelerated scanning. On non-x86 platforms there is nothing to probe.
type Capabilities struct {
	AVX2  bool
	SSE42 bool
}

// DetectCapabilities returns the zero value outside amd64/386.
func DetectCapabilities() Capabilities {
	return Capabilities{}
}
