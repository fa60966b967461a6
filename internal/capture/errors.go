package capture

import (
	"errors"
	"fmt"
)

// ErrBufferClosed is returned when appending to a buffer whose stream ended.
var ErrBufferClosed = errors.New("capture: buffer closed")

// ErrIngestorClosed is returned by Push after Shutdown.
var ErrIngestorClosed = errors.New("capture: ingestor closed")

// DecodeFault is a malformed or undecodable frame. The chunk is dropped and
// the stream continues.
type DecodeFault struct {
	Source SourceID
	Err    error
}

func (e *DecodeFault) Error() string {
	return fmt.Sprintf("decode fault for source %s: %v", e.Source, e.Err)
}

func (e *DecodeFault) Unwrap() error { return e.Err }

// StreamFault is an unrecoverable decoder failure. The source pipeline is
// torn down; other sources are unaffected.
type StreamFault struct {
	Source SourceID
	Err    error
}

func (e *StreamFault) Error() string {
	return fmt.Sprintf("stream fault for source %s: %v", e.Source, e.Err)
}

func (e *StreamFault) Unwrap() error { return e.Err }
