package tui

import "image"

const (
	tabBarRows = 1
	statusRows = 2 // separator + bar
	searchRows = 4 // separator + find + replace + hints
)

// layout is the screen split into regions, top to bottom.
type layout struct {
	tabs   image.Rectangle
	editor image.Rectangle
	search image.Rectangle // empty when the search panel is closed
	status image.Rectangle
}

func generateLayout(width, height int, searchOpen bool) layout {
	var ly layout
	y := 0
	ly.tabs = image.Rect(0, y, width, y+tabBarRows)
	y += tabBarRows

	bottom := height - statusRows
	if searchOpen {
		bottom -= searchRows
	}
	if bottom < y {
		bottom = y
	}
	ly.editor = image.Rect(0, y, width, bottom)
	if searchOpen {
		ly.search = image.Rect(0, bottom, width, bottom+searchRows)
		bottom += searchRows
	}
	ly.status = image.Rect(0, bottom, width, height)
	return ly
}

func inRect(x, y int, r image.Rectangle) bool {
	return image.Pt(x, y).In(r)
}
