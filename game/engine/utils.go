package engine

import (
	"fmt"
	"strings"
)

// HighestTile returns the largest value in a grid
func HighestTile(grid [][]int) int {
	highest := 0
	for _, row := range grid {
		for _, v := range row {
			if v > highest {
				highest = v
			}
		}
	}
	return highest
}

// CountEmpty returns the number of zero cells in a grid
func CountEmpty(grid [][]int) int {
	count := 0
	for _, row := range grid {
		for _, v := range row {
			if v == 0 {
				count++
			}
		}
	}
	return count
}

// GridsEqual reports whether two grids have identical dimensions and values
func GridsEqual(a, b [][]int) bool {
	if len(a) != len(b) {
		return false
	}
	for r := range a {
		if len(a[r]) != len(b[r]) {
			return false
		}
		for c := range a[r] {
			if a[r][c] != b[r][c] {
				return false
			}
		}
	}
	return true
}

// RenderASCII formats a grid as a bordered text table, with empty cells
// left blank. Used by the terminal client and the MCP tool results.
func RenderASCII(grid [][]int) string {
	if len(grid) == 0 {
		return ""
	}

	cols := len(grid[0])
	border := "+" + strings.Repeat("------+", cols)

	var sb strings.Builder
	sb.WriteString(border)
	sb.WriteByte('\n')
	for _, row := range grid {
		sb.WriteByte('|')
		for _, v := range row {
			if v == 0 {
				sb.WriteString("      |")
			} else {
				sb.WriteString(fmt.Sprintf("%5d |", v))
			}
		}
		sb.WriteByte('\n')
		sb.WriteString(border)
		sb.WriteByte('\n')
	}
	return sb.String()
}
