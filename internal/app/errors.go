package app

import (
	"fmt"

	"github.com/praetor-game/praetor/internal/crash"
)

// Process exit codes, one per setup stage.
const (
	ExitOK           = 0
	ExitDataDir      = 1
	ExitSimInit      = 2
	ExitCrash        = crash.ExitCode
	ExitUsage        = 64
	ExitWindow       = 254
	ExitPlatformInit = 255
)

// ExitError reports the stage that failed and the exit code it maps to.
type ExitError struct {
	Code  int
	Stage string
	Err   error
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func exitError(code int, stage string, err error) *ExitError {
	return &ExitError{Code: code, Stage: stage, Err: err}
}
