package entity

// WinLength - number of equal symbols in a row that wins the game.
const WinLength = 3

// WinLine - cell indices that win when they all hold the same symbol.
type WinLine [WinLength]int

// BuildLineCatalogue - lists every horizontal, vertical and diagonal run of WinLength
// cells on a size x size board. The order is fixed: rows, then columns, then
// down-right diagonals, then down-left diagonals, each scanned top-left first.
func BuildLineCatalogue(size int) []WinLine {
	if size < WinLength {
		return nil
	}

	last := size - WinLength
	lines := make([]WinLine, 0, 2*size*(last+1)+2*(last+1)*(last+1))

	for row := 0; row < size; row++ {
		for col := 0; col <= last; col++ {
			lines = append(lines, run(size, row, col, 0, 1))
		}
	}

	for col := 0; col < size; col++ {
		for row := 0; row <= last; row++ {
			lines = append(lines, run(size, row, col, 1, 0))
		}
	}

	for row := 0; row <= last; row++ {
		for col := 0; col <= last; col++ {
			lines = append(lines, run(size, row, col, 1, 1))
		}
	}

	for row := 0; row <= last; row++ {
		for col := WinLength - 1; col < size; col++ {
			lines = append(lines, run(size, row, col, 1, -1))
		}
	}

	return lines
}

func run(size, row, col, rowStep, colStep int) WinLine {
	var line WinLine
	for i := range line {
		line[i] = (row+i*rowStep)*size + col + i*colStep
	}

	return line
}
