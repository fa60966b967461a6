// Package clip turns the retained audio of a voice session into a
// normalized WAV artifact and hands it to a Deliverer.
package clip

import (
	"fmt"
	"strings"
	"time"
)

// Kind is the operation a Request asks for.
type Kind string

const (
	KindClip           Kind = "clip"
	KindStartRecording Kind = "startRecording"
	KindStopRecording  Kind = "stopRecording"
	KindReplay         Kind = "replay"
)

// Origin records what produced a Request.
type Origin string

const (
	OriginCommand Origin = "command"
	OriginText    Origin = "text"
	OriginVoice   Origin = "voice"
)

// Request asks for a clip of the trailing Duration of a guild's audio.
type Request struct {
	Kind        Kind
	Duration    time.Duration
	GuildID     string
	RequesterID string
	// ChannelID is where channel deliveries go. Empty means the requester's DMs.
	ChannelID string
	Origin    Origin
}

// Validate checks the duration bounds for kinds that take one.
func (r Request) Validate(max time.Duration) error {
	switch r.Kind {
	case KindClip, KindStopRecording:
	case KindStartRecording, KindReplay:
		return nil
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidRequest, r.Kind)
	}
	if r.Duration < time.Second || r.Duration > max {
		return fmt.Errorf("%w: duration %s is out of range [1s, %s]", ErrInvalidRequest, r.Duration, max)
	}
	return nil
}

// Seconds is the requested duration in whole seconds.
func (r Request) Seconds() int {
	return int(r.Duration / time.Second)
}

// PhraseMatch is a trigger phrase detected in chat or speech.
type PhraseMatch struct {
	MatchedText string
	GuildID     string
	RequesterID string
	ChannelID   string
	Origin      Origin
}

// Request converts the match into a clip request of duration d.
func (m PhraseMatch) Request(d time.Duration) Request {
	return Request{
		Kind:        KindClip,
		Duration:    d,
		GuildID:     m.GuildID,
		RequesterID: m.RequesterID,
		ChannelID:   m.ChannelID,
		Origin:      m.Origin,
	}
}

func sanitizeID(s string) string {
	if s == "" {
		return "unknown"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '-':
			return r
		default:
			return '_'
		}
	}, s)
}
