package rules

/*
ApplyConwayRules applies Conway's Game of Life rules to determine the next state of a cell.

Conway's Game of Life rules: (alive && neighbors == 2) || neighbors == 3
*/
func ApplyConwayRules(neighbors int, alive bool) bool {
	return (alive && neighbors == 2) || neighbors == 3
}

/*
ApplyTagRule reports whether a surviving cell carries its mark into the next generation.

Only meaningful for cells that are alive before and after the step; a marked
survivor becomes survivor-marked, every other survivor reverts to the default tag.
*/
func ApplyTagRule(neighbors int, marked bool) bool {
	return marked && (neighbors == 2 || neighbors == 3)
}
