package maze

// Cell is a single room of a walled maze before it is expanded to an
// occupancy grid.
type Cell struct {
	NorthWall bool // NorthWall indicates whether there is a wall on the north side of the cell.
	SouthWall bool // SouthWall indicates whether there is a wall on the south side of the cell.
	EastWall  bool // EastWall indicates whether there is a wall on the east side of the cell.
	WestWall  bool // WestWall indicates whether there is a wall on the west side of the cell.
}

// closedCell returns a cell with all four walls standing.
func closedCell() *Cell {
	return &Cell{NorthWall: true, SouthWall: true, EastWall: true, WestWall: true}
}

// CellPosition represents the position of a cell in the walled maze.
type CellPosition struct {
	Row int // Row index of the cell
	Col int // Column index of the cell
}

// Move represents a passage from one cell to an adjacent one.
type Move struct {
	From      CellPosition // Starting cell
	To        CellPosition // Destination cell
	Direction string       // Direction of the move (North, South, East, West)
}
