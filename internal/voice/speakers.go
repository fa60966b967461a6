package voice

import (
	"sync"

	"github.com/diamondburned/arikawa/v3/discord"

	"github.com/Raikerian/go-discord-clipper/internal/capture"
)

// SourceFor is the capture source of a Discord user.
func SourceFor(userID discord.UserID) capture.SourceID {
	return capture.SourceID(userID.String())
}

// speakers maps RTP SSRCs to the users sending them. Discord announces the
// mapping with a speaking event before a user's first packet.
type speakers struct {
	mu     sync.RWMutex
	bySSRC map[uint32]discord.UserID
}

func newSpeakers() *speakers {
	return &speakers{bySSRC: make(map[uint32]discord.UserID)}
}

func (s *speakers) set(ssrc uint32, userID discord.UserID) {
	s.mu.Lock()
	s.bySSRC[ssrc] = userID
	s.mu.Unlock()
}

func (s *speakers) lookup(ssrc uint32) (discord.UserID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.bySSRC[ssrc]
	return id, ok
}

func (s *speakers) forget(userID discord.UserID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ssrc, id := range s.bySSRC {
		if id == userID {
			delete(s.bySSRC, ssrc)
		}
	}
}

func (s *speakers) len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.bySSRC)
}
