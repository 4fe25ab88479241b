package store

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
	nanoid "github.com/matoous/go-nanoid/v2"
)

// Sequence hands out max(existing numeric ids) + 1. Non-numeric ids are
// ignored.
type Sequence struct{}

func (Sequence) NextID(existing []string) (string, error) {
	var highest int64
	for _, id := range existing {
		n, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			continue
		}
		highest = max(highest, n)
	}
	return strconv.FormatInt(highest+1, 10), nil
}

// NanoID generates short prefixed ids such as "ORD-4fQ2x9LkPa".
type NanoID struct {
	Prefix string
	Length int
}

const nanoAlphabet = "0123456789ABCDEFGHJKLMNPQRSTUVWXYZ"

func (g NanoID) NextID(existing []string) (string, error) {
	length := g.Length
	if length <= 0 {
		length = 10
	}
	used := make(map[string]struct{}, len(existing))
	for _, id := range existing {
		used[id] = struct{}{}
	}

	for range 5 {
		id, err := nanoid.Generate(nanoAlphabet, length)
		if err != nil {
			return "", fmt.Errorf("idgen: %w", err)
		}
		id = g.Prefix + id
		if _, taken := used[id]; !taken {
			return id, nil
		}
	}
	return "", fmt.Errorf("idgen: could not find a free id")
}

// UUID generates random v4 uuids.
type UUID struct{}

func (UUID) NextID([]string) (string, error) {
	return uuid.NewString(), nil
}
