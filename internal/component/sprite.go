package component

import "github.com/gdamore/tcell/v2"

// Sprite is what the render extension draws at an entity's Position.
type Sprite struct {
	Glyph string
	Style tcell.Style
	Layer int
}

// Name labels an entity for scripts and logs.
type Name struct {
	Value string
}
