package clip

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRequest is returned for malformed requests.
	ErrInvalidRequest = errors.New("clip: invalid request")
	// ErrRecordingActive is returned when a guild already records.
	ErrRecordingActive = errors.New("clip: a recording is already running")
	// ErrNoRecording is returned when stopping a guild that does not record.
	ErrNoRecording = errors.New("clip: no recording is running")
)

// SerializationFault means the clip could not be written. Nothing was
// delivered.
type SerializationFault struct {
	Op  string
	Err error
}

func (e *SerializationFault) Error() string {
	return fmt.Sprintf("serialization fault (%s): %v", e.Op, e.Err)
}

func (e *SerializationFault) Unwrap() error { return e.Err }

// DeliveryFault means the clip was produced but could not be handed over.
type DeliveryFault struct {
	Target string
	Err    error
}

func (e *DeliveryFault) Error() string {
	return fmt.Sprintf("delivery fault (%s): %v", e.Target, e.Err)
}

func (e *DeliveryFault) Unwrap() error { return e.Err }

// UserMessage renders err for the person who asked for the clip.
func UserMessage(err error) string {
	var (
		ser *SerializationFault
		del *DeliveryFault
	)
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrRecordingActive):
		return "A recording is already running in this server."
	case errors.Is(err, ErrNoRecording):
		return "There is no recording running in this server."
	case errors.Is(err, ErrInvalidRequest):
		return "That clip length is not allowed."
	case errors.As(err, &del):
		if del.Target == TargetDM {
			return "I couldn't send you a DM. Please check your privacy settings."
		}
		return "I couldn't post the clip in this channel."
	case errors.As(err, &ser):
		return "I couldn't write the clip audio."
	default:
		return "Something went wrong while creating the clip."
	}
}
