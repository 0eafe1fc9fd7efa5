package ui

import (
	"fyne.io/fyne/v2"

	fynetooltip "github.com/dweymouth/fyne-tooltip"
	ttwidget "github.com/dweymouth/fyne-tooltip/widget"
)

// newIconButtonWithTooltip creates an icon-only toolbar button whose label
// shows on hover.
func newIconButtonWithTooltip(icon fyne.Resource, tooltip string, tapped func()) *ttwidget.Button {
	btn := ttwidget.NewButtonWithIcon("", icon, tapped)
	btn.SetToolTip(tooltip)
	return btn
}

// withToolTipLayer stacks the window's tooltip layer over content. Tooltips
// only render on canvases that have one.
func withToolTipLayer(content fyne.CanvasObject, w fyne.Window) fyne.CanvasObject {
	w.SetOnClosed(func() {
		fynetooltip.DestroyWindowToolTipLayer(w.Canvas())
	})
	return fynetooltip.AddWindowToolTipLayer(content, w.Canvas())
}
