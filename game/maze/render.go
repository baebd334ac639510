package maze

import (
	"fmt"
	"strings"

	"github.com/logrusorgru/aurora"

	"github.com/beka-birhanu/vinom-nav/game"
)

const pathSymbol = '*'

// Render draws the grid with path overlaid. Spawn and goal keep their own
// symbols. With a colorless au the output equals String() plus path marks.
func Render(g *Grid, path []game.Position, au aurora.Aurora) string {
	if au == nil {
		au = aurora.NewAurora(false)
	}

	onPath := make(map[game.Position]struct{}, len(path))
	for _, p := range path {
		onPath[p] = struct{}{}
	}

	var b strings.Builder
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			pos := game.Position{X: x, Y: y}
			symbol := g.symbolAt(pos)
			if _, ok := onPath[pos]; ok && symbol == SymbolFree {
				symbol = pathSymbol
			}
			b.WriteString(colorize(au, symbol))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func colorize(au aurora.Aurora, symbol rune) string {
	s := string(symbol)
	switch symbol {
	case SymbolGoal:
		return fmt.Sprint(au.Green(s))
	case SymbolSpawn:
		return fmt.Sprint(au.Red(s))
	case SymbolObstacle:
		return fmt.Sprint(au.White(s))
	case pathSymbol:
		return fmt.Sprint(au.Yellow(s))
	default:
		return fmt.Sprint(au.Blue(s))
	}
}
