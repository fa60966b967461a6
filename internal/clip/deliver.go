package clip

import (
	"context"
	"io"
	"time"
)

// Delivery targets.
const (
	TargetDM      = "dm"
	TargetChannel = "channel"
)

// ArtifactName is the file name clips are delivered under.
const ArtifactName = "clip.wav"

// Artifact is a finished clip ready to hand over.
type Artifact struct {
	Filename string
	Size     int64
	Duration time.Duration
	Reader   io.Reader
}

// Deliverer hands an Artifact to its destination.
type Deliverer interface {
	// Target names the destination kind, TargetDM or TargetChannel.
	Target() string
	Deliver(ctx context.Context, req Request, a Artifact) error
}
