package scene

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// IDSource hands out entity ids.
type IDSource interface {
	NewID() (string, error)
}

// NanoIDs generates random nanoid ids with an optional prefix.
type NanoIDs struct {
	Prefix string
}

func (n NanoIDs) NewID() (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generating entity id: %w", err)
	}
	return n.Prefix + id, nil
}

// SequentialIDs yields prefix-1, prefix-2, ... Deterministic ids for tests
// and replays.
type SequentialIDs struct {
	Prefix string
	next   int
}

func (s *SequentialIDs) NewID() (string, error) {
	s.next++
	return fmt.Sprintf("%s%d", s.Prefix, s.next), nil
}
