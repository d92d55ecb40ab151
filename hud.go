package main

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/milk9111/ballblitz/common"
	"golang.org/x/image/font/basicfont"
)

var logFace ebtext.Face = ebtext.NewGoXFace(basicfont.Face7x13)

// drawLog prints recent events in the bottom left corner.
func drawLog(screen *ebiten.Image, lines []string) {
	const lineHeight = 15
	y := float64(common.BaseHeight - 10 - lineHeight*len(lines))
	for _, line := range lines {
		op := &ebtext.DrawOptions{}
		op.GeoM.Translate(10, y)
		op.ColorScale.ScaleWithColor(color.NRGBA{R: 0xee, G: 0xee, B: 0xaa, A: 0xff})
		ebtext.Draw(screen, line, logFace, op)
		y += lineHeight
	}
}
