package model

// Vec is an (x, y) pair of distances along two orthogonal axes.
// Interpreted as a position it is an offset from (0,0); interpreted as
// movement it is an offset from another position, so adding two Vecs
// yields a Vec. X indexes rows, Y indexes columns.
type Vec struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns the component-wise sum of v and other.
func (v Vec) Add(other Vec) Vec {
	return Vec{
		X: v.X + other.X,
		Y: v.Y + other.Y,
	}
}

// Equals reports whether v and other have the same components.
func (v Vec) Equals(other Vec) bool {
	return v.X == other.X && v.Y == other.Y
}
