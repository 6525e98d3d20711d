package main

import (
	"fmt"

	"github.com/kingrea/wdl/internal/input"
)

// diagnosticsError reports that analysis found error diagnostics.
type diagnosticsError struct {
	count int
}

func (e *diagnosticsError) Error() string {
	if e.count == 1 {
		return "aborting due to previous error"
	}
	return fmt.Sprintf("aborting due to %d previous errors", e.count)
}

// Exit codes for input resolution failures. Everything else exits 1.
var inputExitCodes = map[input.ErrorKind]int{
	input.FileNotFound:      2,
	input.InvalidPair:       3,
	input.Deserialize:       4,
	input.Io:                5,
	input.NonMapRoot:        6,
	input.UnsupportedFormat: 7,
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	if code, ok := inputExitCodes[input.KindOf(err)]; ok {
		return code
	}
	return 1
}
