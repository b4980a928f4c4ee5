// Package simdlevel performs a single feature probe at process start and
// records which bit-lane loop-unroll strategy internal/bitlane should
// use. This mirrors go-highway's DispatchLevel/
// currentLevel design in hwy/dispatch.go: detection runs once in init(),
// never per call, and callers read the result through Current().
//
// The reference C implementation (original_source/src/mrs/uint512_t.h)
// ships four code paths (scalar, AVX, AVX2, AVX-512) selected at compile
// time by preprocessor macros. Go has no equivalent of per-TU compile-time
// intrinsics without cgo or assembly, so all levels here execute the same
// portable uint64-limb bitplane code; Level only changes how many limbs are
// processed per unrolled iteration of the hot loops in internal/bitlane,
// which is where go-highway's own fallback path ends up too: see
// hwy/dispatch_amd64.go's detectCPUFeatures, which -- absent
// GOEXPERIMENT=simd -- always calls setScalarMode regardless of the
// CPU's real capabilities.
package simdlevel

import "golang.org/x/sys/cpu"

// Level identifies the detected SIMD capability class of the current CPU.
type Level int

const (
	// Scalar is the portable baseline: one uint64 limb at a time.
	Scalar Level = iota
	// AVX2 indicates 256-bit wide integer operations are available.
	AVX2
	// AVX512 indicates 512-bit wide integer operations are available.
	AVX512
)

func (l Level) String() string {
	switch l {
	case Scalar:
		return "scalar"
	case AVX2:
		return "avx2"
	case AVX512:
		return "avx512"
	default:
		return "unknown"
	}
}

// UnrollLimbs is the number of 64-bit limbs processed per unrolled inner
// loop iteration in internal/bitlane's hot paths, chosen from Level.
func (l Level) UnrollLimbs() int {
	switch l {
	case AVX512:
		return 8 // 512 bits
	case AVX2:
		return 4 // 256 bits
	default:
		return 1
	}
}

var current Level

func init() {
	current = detect()
}

func detect() Level {
	if cpu.X86.HasAVX512F {
		return AVX512
	}
	if cpu.X86.HasAVX2 {
		return AVX2
	}
	return Scalar
}

// Current returns the SIMD level detected for this process.
func Current() Level { return current }

// ForceForTest overrides the detected level; it exists only so tests can
// exercise every unroll strategy deterministically regardless of the host
// CPU. Production code never calls this.
func ForceForTest(l Level) (restore func()) {
	prev := current
	current = l
	return func() { current = prev }
}
