package simulator

import "uploadsim/internal/progress"

// Picker is the file-input control. It hands every new selection to the
// registered callback, replacing whatever was selected before.
type Picker interface {
	OnSelected(func([]progress.File))
}

// List is the container holding one text entry per selected file
type List interface {
	Reset()
	Append(label string)
}

// Bars is the container holding one progress bar per selected file
type Bars interface {
	Reset()
	Append(file progress.File) Bar
}

// Bar is the fill element of one progress bar. Width is a percentage.
type Bar interface {
	SetWidth(percent float64)
}
