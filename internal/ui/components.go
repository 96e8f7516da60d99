package ui

import (
	"image/color"

	"uploadsim/internal/progress"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/validation"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// Components struct holds all the UI components for the application
type Components struct {
	// Local selection
	SelectFileButton   *widget.Button
	SelectFolderButton *widget.Button

	// S3 selection
	BucketEntry       *widget.Entry
	PrefixEntry       *widget.Entry
	AwsAccessKeyEntry *widget.Entry
	AwsSecretKeyEntry *widget.Entry
	AwsRegionEntry    *widget.Entry
	ShowSecretCheck   *widget.Check
	ListBucketButton  *widget.Button
	StopButton        *widget.Button

	// Rendering targets of the simulator
	FileList     *fyne.Container
	ProgressBars *fyne.Container

	StatusLabel *widget.Label

	// Validation indicators
	BucketValid *canvas.Rectangle
	RegionValid *canvas.Rectangle

	// Main container for the UI
	MainContainer *fyne.Container

	onSelected func([]progress.File)
}

// NewComponents initializes all the UI components
func NewComponents() *Components {
	c := &Components{
		SelectFileButton:   widget.NewButtonWithIcon("Select file", theme.FileIcon(), nil),
		SelectFolderButton: widget.NewButtonWithIcon("Select folder", theme.FolderOpenIcon(), nil),

		BucketEntry:       widget.NewEntry(),
		PrefixEntry:       widget.NewEntry(),
		AwsAccessKeyEntry: widget.NewEntry(),
		AwsSecretKeyEntry: widget.NewPasswordEntry(),
		AwsRegionEntry:    widget.NewEntry(),
		ShowSecretCheck:   widget.NewCheck("Show", nil),
		ListBucketButton:  widget.NewButtonWithIcon("List bucket", theme.StorageIcon(), nil),
		StopButton:        widget.NewButtonWithIcon("Stop", theme.CancelIcon(), nil),

		FileList:     container.NewVBox(),
		ProgressBars: container.NewVBox(),

		StatusLabel: widget.NewLabel("Select files to start"),

		BucketValid: canvas.NewRectangle(color.Transparent),
		RegionValid: canvas.NewRectangle(color.Transparent),
	}

	c.BucketEntry.SetPlaceHolder("Bucket Name")
	c.PrefixEntry.SetPlaceHolder("Prefix (optional)")
	c.AwsAccessKeyEntry.SetPlaceHolder("AWS Access Key (optional)")
	c.AwsSecretKeyEntry.SetPlaceHolder("AWS Secret Key (optional)")
	c.AwsRegionEntry.Text = "eu-west-1"

	c.BucketEntry.Validator = validation.NewRegexp(`^[a-z0-9.-]{3,63}$`, "Invalid bucket name format")
	c.AwsRegionEntry.Validator = validation.NewRegexp(`^[a-z]{2}-[a-z]+-\d$`, "Invalid AWS region format")

	c.StopButton.Hide()

	c.BucketValid.SetMinSize(fyne.NewSize(3, 25))
	c.RegionValid.SetMinSize(fyne.NewSize(3, 25))

	c.BucketEntry.OnChanged = c.updateBucketValidation
	c.AwsRegionEntry.OnChanged = c.updateRegionValidation
	c.updateBucketValidation(c.BucketEntry.Text)
	c.updateRegionValidation(c.AwsRegionEntry.Text)

	c.createMainContainer()

	return c
}

// OnSelected registers the callback receiving every new selection
func (c *Components) OnSelected(fn func([]progress.File)) {
	c.onSelected = fn
}

func (c *Components) emit(files []progress.File) {
	if c.onSelected != nil {
		c.onSelected(files)
	}
}

// updateBucketValidation validates the bucket name format
func (c *Components) updateBucketValidation(text string) {
	if c.BucketEntry.Validate() == nil && text != "" {
		c.BucketValid.FillColor = color.NRGBA{R: 0, G: 180, B: 0, A: 255}
	} else {
		c.BucketValid.FillColor = color.NRGBA{R: 180, G: 0, B: 0, A: 255}
	}
	c.BucketValid.Refresh()
}

// updateRegionValidation validates the AWS region format
func (c *Components) updateRegionValidation(text string) {
	if c.AwsRegionEntry.Validate() == nil {
		c.RegionValid.FillColor = color.NRGBA{R: 0, G: 180, B: 0, A: 255}
	} else {
		c.RegionValid.FillColor = color.NRGBA{R: 180, G: 0, B: 0, A: 255}
	}
	c.RegionValid.Refresh()
}

func (c *Components) createMainContainer() {
	localTab := container.NewCenter(container.NewHBox(c.SelectFileButton, c.SelectFolderButton))

	bucketRow := container.NewBorder(nil, nil, nil, c.BucketValid, c.BucketEntry)
	s3Form := widget.NewForm(
		widget.NewFormItem("Bucket:", bucketRow),
		widget.NewFormItem("Prefix:", c.PrefixEntry),
		widget.NewFormItem("Access Key:", c.AwsAccessKeyEntry),
		widget.NewFormItem("Secret Key:", container.NewBorder(nil, nil, nil, c.ShowSecretCheck, c.AwsSecretKeyEntry)),
		widget.NewFormItem("Region:", container.NewBorder(nil, nil, nil, c.RegionValid, c.AwsRegionEntry)),
	)
	s3Tab := container.NewVBox(s3Form, container.NewCenter(container.NewHBox(c.ListBucketButton, c.StopButton)))

	tabs := container.NewAppTabs(
		container.NewTabItemWithIcon("Local", theme.FolderIcon(), localTab),
		container.NewTabItemWithIcon("S3", theme.StorageIcon(), s3Tab),
	)
	tabs.SetTabLocation(container.TabLocationTop)

	results := container.NewGridWithColumns(2,
		widget.NewCard("Files", "", container.NewVScroll(c.FileList)),
		widget.NewCard("Progress", "", container.NewVScroll(c.ProgressBars)),
	)

	c.MainContainer = container.NewBorder(
		tabs,          // Top
		c.StatusLabel, // Bottom
		nil,
		nil,
		results,
	)
}

// GetMainContainer returns the main UI container
func (c *Components) GetMainContainer() fyne.CanvasObject {
	return c.MainContainer
}
