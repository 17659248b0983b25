package main

// squareDisplay reads the link-time display shape. Anything other than
// "round" or "square" is treated as round.
func squareDisplay(shape string) (square, known bool) {
	switch shape {
	case "square":
		return true, true
	case "round":
		return false, true
	}
	return false, false
}
