package voice

import (
	"github.com/diamondburned/arikawa/v3/voice/udp"
)

// AudioPacket is one Opus frame received from the voice UDP connection. Opus
// may alias a buffer reused by the next read.
type AudioPacket struct {
	SSRC         uint32
	Opus         []byte
	RTPTimestamp uint32
	Sequence     uint16
}

// NewAudioPacket creates an AudioPacket from a UDP packet.
func NewAudioPacket(packet *udp.Packet) AudioPacket {
	return AudioPacket{
		SSRC:         packet.SSRC(),
		Opus:         packet.Opus,
		RTPTimestamp: packet.Timestamp(),
		Sequence:     packet.Sequence(),
	}
}
