package binvec

import (
	"errors"
	"fmt"

	"github.com/hupe1980/binvec/dataset"
)

var (
	// ErrEmptyPath is returned when a stage is run without an input path.
	// It also matches fs.ErrNotExist.
	ErrEmptyPath = dataset.ErrEmptyPath

	// ErrInvalidConfig is returned by New for contradictory options.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Stage identifies the dump a step operates on.
type Stage string

const (
	StageBase        Stage = "base"
	StageQuery       Stage = "query"
	StageGroundTruth Stage = "groundtruth"
)

// Op identifies the step of a stage that failed.
type Op string

const (
	OpLoad   Op = "load"
	OpSave   Op = "save"
	OpExtend Op = "extend"
)

// StageError reports which stage and step of a run failed.
//
// The underlying error can be accessed via errors.Unwrap, so checks such as
// errors.Is(err, dataset.ErrTruncated) see through it.
type StageError struct {
	Stage Stage
	Op    Op
	Path  string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %s %q: %v", e.Stage, e.Op, e.Path, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// FailedStage returns the stage recorded in err, if any.
func FailedStage(err error) (Stage, bool) {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage, true
	}
	return "", false
}
