package kmcluster

import (
	"context"
	"errors"
	"fmt"

	"github.com/tsechapman/kmcluster/dataset"
	"github.com/tsechapman/kmcluster/distance"
	"github.com/tsechapman/kmcluster/internal/kmeans"
)

// Kind classifies an Error by the recovery it calls for.
type Kind uint8

const (
	// KindUnknown is reported for errors this package did not produce.
	KindUnknown Kind = iota
	// KindConfiguration covers invalid parameters. The operation is aborted.
	KindConfiguration
	// KindIO covers storage failures other than a missing dataset.
	KindIO
	// KindParse covers a malformed persisted dataset. Open is aborted.
	KindParse
	// KindDimensionMismatch is returned when a vector's length differs from the centroids'.
	KindDimensionMismatch
	// KindDegenerateCluster is returned when a cluster empties under the fail policy.
	KindDegenerateCluster
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindIO:
		return "io"
	case KindParse:
		return "parse"
	case KindDimensionMismatch:
		return "dimension mismatch"
	case KindDegenerateCluster:
		return "degenerate cluster"
	default:
		return "unknown"
	}
}

var (
	// ErrInvalidK is returned when k is not positive.
	ErrInvalidK = kmeans.ErrInvalidK
	// ErrInvalidIterations is returned when the iteration count is negative.
	ErrInvalidIterations = kmeans.ErrInvalidIterations
	// ErrInvalidID is returned for identifiers the dataset file cannot hold.
	ErrInvalidID = dataset.ErrInvalidID
	// ErrNotTrained is returned by Assign when there are no centroids to compare against.
	ErrNotTrained = errors.New("model not trained: no centroids")
	// ErrClosed is returned by operations on a closed Engine.
	ErrClosed = errors.New("engine closed")
	// ErrNonFiniteCoordinate is returned by Assign for NaN or infinite coordinates,
	// which the dataset file cannot hold.
	ErrNonFiniteCoordinate = errors.New("coordinate is not finite")
)

// Error is the error type returned by Engine operations.
//
// The original underlying error can be accessed via errors.Unwrap.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("kmcluster: %s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the Kind of the first *Error in err's chain, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// translateError classifies err for op. Errors that match no known
// condition get the fallback kind; context errors pass through untouched.
func translateError(op string, fallback Kind, err error) error {
	if err == nil {
		return nil
	}

	var e *Error
	if errors.As(err, &e) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	kind := fallback
	var pe *dataset.ParseError
	var dm *distance.ErrDimensionMismatch
	switch {
	case errors.As(err, &pe):
		kind = KindParse
	case errors.As(err, &dm):
		kind = KindDimensionMismatch
	case errors.Is(err, kmeans.ErrEmptyCluster):
		kind = KindDegenerateCluster
	case errors.Is(err, ErrInvalidK),
		errors.Is(err, ErrInvalidIterations),
		errors.Is(err, ErrInvalidID),
		errors.Is(err, ErrNotTrained),
		errors.Is(err, ErrClosed),
		errors.Is(err, ErrNonFiniteCoordinate):
		kind = KindConfiguration
	}

	return &Error{Kind: kind, Op: op, Err: err}
}
