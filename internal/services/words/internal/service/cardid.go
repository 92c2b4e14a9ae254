package service

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gamma-omg/lexi-cards/internal/pkg/serr"
)

// CardID addresses a single word of a vocabulary row.
type CardID struct {
	RowID     int64
	WordIndex int
}

// String renders the id as "{row}-{index}".
func (id CardID) String() string {
	return fmt.Sprintf("%d-%d", id.RowID, id.WordIndex)
}

// ParseCardID accepts exactly two hyphen separated unsigned integers.
func ParseCardID(s string) (CardID, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 2 {
		return CardID{}, malformedCardID(s)
	}

	row, err := parseUint(parts[0], 63)
	if err != nil {
		return CardID{}, malformedCardID(s)
	}

	idx, err := parseUint(parts[1], strconv.IntSize-1)
	if err != nil {
		return CardID{}, malformedCardID(s)
	}

	return CardID{RowID: int64(row), WordIndex: int(idx)}, nil
}

// parseUint rejects signs and spaces that strconv would otherwise let through.
func parseUint(s string, bits int) (uint64, error) {
	if s == "" {
		return 0, strconv.ErrSyntax
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, strconv.ErrSyntax
		}
	}

	return strconv.ParseUint(s, 10, bits)
}

func malformedCardID(s string) *serr.ServiceError {
	return serr.NewServiceError(nil, serr.MalformedIdentifier, "malformed card id %q", s).With("card_id", s)
}
