package entity

import (
	"errors"
	"fmt"
)

const (
	MinBoardSize = 3
	MaxBoardSize = 4

	MinSeats = 2
	MaxSeats = 3
)

var (
	ErrInvalidRules = errors.New("invalid game rules")

	// DefaultSymbols - symbols handed out in join order.
	DefaultSymbols = []string{"X", "O", "A"}
)

// Rules - the configured variant every room of this process is played with.
type Rules struct {
	BoardSize    int
	Seats        int
	Symbols      []string
	StartingSeat int
	Lines        []WinLine
}

// NewRules - validates the variant and builds its line catalogue.
// An empty symbol list falls back to DefaultSymbols.
func NewRules(boardSize, seats int, symbols []string, startingSeat int) (*Rules, error) {
	if boardSize < MinBoardSize || boardSize > MaxBoardSize {
		return nil, fmt.Errorf("%w: board size %d", ErrInvalidRules, boardSize)
	}

	if seats < MinSeats || seats > MaxSeats {
		return nil, fmt.Errorf("%w: %d seats", ErrInvalidRules, seats)
	}

	if len(symbols) == 0 {
		symbols = DefaultSymbols[:seats]
	}

	if len(symbols) != seats {
		return nil, fmt.Errorf("%w: %d symbols for %d seats", ErrInvalidRules, len(symbols), seats)
	}

	seen := make(map[string]struct{}, len(symbols))
	for _, symbol := range symbols {
		if symbol == EmptyCell {
			return nil, fmt.Errorf("%w: empty symbol", ErrInvalidRules)
		}

		if _, ok := seen[symbol]; ok {
			return nil, fmt.Errorf("%w: duplicate symbol %q", ErrInvalidRules, symbol)
		}

		seen[symbol] = struct{}{}
	}

	if startingSeat < 0 || startingSeat >= seats {
		return nil, fmt.Errorf("%w: starting seat %d", ErrInvalidRules, startingSeat)
	}

	return &Rules{
		BoardSize:    boardSize,
		Seats:        seats,
		Symbols:      append([]string(nil), symbols...),
		StartingSeat: startingSeat,
		Lines:        BuildLineCatalogue(boardSize),
	}, nil
}

func (that *Rules) Cells() int {
	return that.BoardSize * that.BoardSize
}
