package ui

import (
	"uploadsim/internal/progress"
	"uploadsim/internal/simulator"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"
)

// fileListView renders list entries as labels in a box
type fileListView struct {
	box *fyne.Container
}

func (v fileListView) Reset() {
	v.box.RemoveAll()
	v.box.Refresh()
}

func (v fileListView) Append(label string) {
	v.box.Add(widget.NewLabel(label))
}

// progressBarsView renders one progress bar per file in a box
type progressBarsView struct {
	box *fyne.Container
}

func (v progressBarsView) Reset() {
	v.box.RemoveAll()
	v.box.Refresh()
}

func (v progressBarsView) Append(progress.File) simulator.Bar {
	pb := widget.NewProgressBar()
	v.box.Add(pb)
	return progressFill{pb: pb}
}

type progressFill struct {
	pb *widget.ProgressBar
}

func (f progressFill) SetWidth(percent float64) {
	f.pb.SetValue(percent / 100)
}
