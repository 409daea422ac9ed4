package nav

import "fmt"

// Status is a bitmask describing the outcome of an operation. The high bits
// carry the coarse result (Failure/Success/InProgress), the low bits carry
// detail flags. Status implements the error interface so it can be returned
// and checked the same way a plain error would be.
type Status uint32

// High level status bits.
const (
	Failure    Status = 1 << 31
	Success    Status = 1 << 30
	InProgress Status = 1 << 29

	statusDetailMask = 0x0fffffff

	// InvalidParameter: null collaborator, index out of bounds, malformed
	// authored geometry (face with <3 corners, non-manifold edge, duplicate
	// vertex on a face, degenerate zero-normal face).
	InvalidParameter Status = 1 << 0

	// Unsupported: LineCollide on a non-mesh space, or a shape tessellation
	// that isn't implemented.
	Unsupported Status = 1 << 1

	// OutsideNavigation: start or goal is farther than the navigator's
	// MaxOutsideDistance from any enabled face/vertex. Not an error -
	// surfaced as an empty path result.
	OutsideNavigation Status = 1 << 2

	// PartialResult: the search did not reach the goal; the returned path
	// is the best guess towards it.
	PartialResult Status = 1 << 3

	// OutOfNodes: the search exhausted its node pool before converging.
	OutOfNodes Status = 1 << 4

	// NonManifold: non-manifold navigation geometry. No code in this package
	// sets it: Build reports a third face claiming an edge as
	// InvalidParameter, and a duplicate link is skipped without a Status.
	NonManifold Status = 1 << 5

	// InvariantViolation: VerifyInvariants found a broken SpaceMesh
	// invariant. An explicit VerifyInvariants call returns it whenever a
	// check fails; Layer.Prepare panics with it only when DebugVerify is set.
	InvariantViolation Status = 1 << 6
)

// Error implements the error interface.
func (s Status) Error() string {
	if s&Failure != 0 {
		switch s & statusDetailMask {
		case InvalidParameter:
			return "invalid parameter"
		case Unsupported:
			return "unsupported operation"
		case NonManifold:
			return "non-manifold navigation geometry"
		case InvariantViolation:
			return "navigation mesh invariant violation"
		default:
			return fmt.Sprintf("navigation failure 0x%x", uint32(s))
		}
	}
	if s&InProgress != 0 {
		return "in progress"
	}
	return "success"
}

// Succeeded reports whether s carries the Success bit.
func Succeeded(s Status) bool { return s&Success != 0 }

// Failed reports whether s carries the Failure bit.
func Failed(s Status) bool { return s&Failure != 0 }

// DebugVerify gates the (expensive) Layer.VerifyInvariants pass that
// Layer.Prepare runs at the end of every call. It mirrors assertgo's own
// debug/release split: turn it on in tests and
// development builds, leave it off for shipping game builds.
var DebugVerify = false
