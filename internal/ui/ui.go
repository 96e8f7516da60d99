package ui

import (
	"context"
	"fmt"

	"uploadsim/internal/aws"
	"uploadsim/internal/config"
	"uploadsim/internal/progress"
	"uploadsim/internal/simulator"
	"uploadsim/pkg/fileutils"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"github.com/charmbracelet/log"
)

// UIManager struct handles the UI lifecycle and interactions
type UIManager struct {
	window     fyne.Window
	components *Components
	simulator  *simulator.Simulator
	logger     *log.Logger
	newLister  func(region, accessKey, secretKey string) (*aws.Lister, error)
	cancelFunc context.CancelFunc
}

// NewUIManager initializes a new UIManager. The simulator renders into the
// components' file list and progress bars and receives their selections.
func NewUIManager(window fyne.Window, s3 config.S3Config, logger *log.Logger, opts ...simulator.Option) *UIManager {
	u := &UIManager{
		window:     window,
		components: NewComponents(),
		logger:     logger,
		newLister:  aws.NewLister,
	}

	u.components.BucketEntry.SetText(s3.Bucket)
	u.components.PrefixEntry.SetText(s3.Prefix)
	u.components.AwsAccessKeyEntry.SetText(s3.AccessKey)
	u.components.AwsSecretKeyEntry.SetText(s3.SecretKey)
	if s3.Region != "" {
		u.components.AwsRegionEntry.SetText(s3.Region)
	}

	opts = append(opts, simulator.WithLogger(logger), simulator.WithObserver(u.updateProgress))
	u.simulator = simulator.New(
		u.components,
		fileListView{box: u.components.FileList},
		progressBarsView{box: u.components.ProgressBars},
		opts...,
	)
	return u
}

// SetupUI sets up the UI components and layout
func (u *UIManager) SetupUI() {
	u.components.SelectFileButton.OnTapped = u.chooseFile
	u.components.SelectFolderButton.OnTapped = u.chooseFolder
	u.components.ListBucketButton.OnTapped = u.StartListing
	u.components.StopButton.OnTapped = u.StopListing
	u.components.ShowSecretCheck.OnChanged = func(checked bool) {
		u.components.AwsSecretKeyEntry.Password = !checked
		u.components.AwsSecretKeyEntry.Refresh()
	}

	u.window.SetOnDropped(u.handleDrop)
	u.window.SetContent(u.components.GetMainContainer())
}

// Close stops any running listing and all simulated uploads
func (u *UIManager) Close() {
	u.StopListing()
	u.simulator.Close()
}

func (u *UIManager) chooseFile() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			u.showError(fmt.Errorf("failed to open file dialog: %w", err))
			return
		}
		if reader == nil {
			return
		}
		path := reader.URI().Path()
		// Only the path is needed; the content is never read.
		reader.Close()
		u.selectPaths(path)
	}, u.window)
	fd.SetConfirmText("Select")
	fd.SetDismissText("Cancel")
	fd.Resize(fyne.NewSize(700, 500))
	fd.Show()
}

func (u *UIManager) chooseFolder() {
	fd := dialog.NewFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil {
			u.showError(fmt.Errorf("failed to open folder dialog: %w", err))
			return
		}
		if uri == nil {
			return
		}
		u.selectPaths(uri.Path())
	}, u.window)
	fd.SetConfirmText("Select")
	fd.SetDismissText("Cancel")
	fd.Resize(fyne.NewSize(700, 500))
	fd.Show()
}

func (u *UIManager) handleDrop(_ fyne.Position, uris []fyne.URI) {
	paths := make([]string, 0, len(uris))
	for _, uri := range uris {
		paths = append(paths, uri.Path())
	}
	u.selectPaths(paths...)
}

// selectPaths describes the given paths and hands them over as one selection
func (u *UIManager) selectPaths(paths ...string) {
	files, err := progress.Describe(paths...)
	if err != nil {
		u.showError(err)
		return
	}
	u.components.emit(files)
}

// StartListing lists the configured bucket and uses its objects as the selection
func (u *UIManager) StartListing() {
	bucket := u.components.BucketEntry.Text
	if bucket == "" {
		dialog.ShowInformation("Missing Information", "Please fill in the bucket name", u.window)
		return
	}

	lister, err := u.newLister(u.components.AwsRegionEntry.Text, u.components.AwsAccessKeyEntry.Text, u.components.AwsSecretKeyEntry.Text)
	if err != nil {
		u.showError(fmt.Errorf("failed to create lister: %w", err))
		return
	}

	ctx, cancel := context.WithCancel(log.WithContext(context.Background(), u.logger))
	u.cancelFunc = cancel
	u.disableInputs()
	u.components.StatusLabel.SetText("Listing " + bucket + "...")

	go u.listBucket(ctx, lister, bucket, u.components.PrefixEntry.Text)
}

func (u *UIManager) listBucket(ctx context.Context, lister *aws.Lister, bucket, prefix string) {
	defer u.enableInputs()

	files, err := lister.ListFiles(ctx, bucket, prefix)
	if err != nil {
		if ctx.Err() != nil {
			u.components.StatusLabel.SetText("Listing stopped")
			return
		}
		u.showError(fmt.Errorf("failed to list objects: %w", err))
		u.components.StatusLabel.SetText("Failed")
		return
	}
	u.logger.Info("bucket listed", "bucket", bucket, "prefix", prefix, "objects", len(files))
	u.components.emit(files)
}

// StopListing cancels an ongoing bucket listing
func (u *UIManager) StopListing() {
	if u.cancelFunc != nil {
		u.cancelFunc()
	}
}

// updateProgress shows the selection summary in the status label
func (u *UIManager) updateProgress(s progress.Summary) {
	if s.Files == 0 {
		u.components.StatusLabel.SetText("No files selected")
		return
	}
	u.components.StatusLabel.SetText(fmt.Sprintf("Files: %d, Completed: %d, Uploaded: %s of %s",
		s.Files, s.Completed,
		fileutils.FormatFileSize(s.UploadedBytes),
		fileutils.FormatFileSize(s.TotalBytes),
	))
}

func (u *UIManager) showError(err error) {
	u.logger.Error("ui error", "error", err)
	dialog.ShowError(err, u.window)
}

func (u *UIManager) disableInputs() {
	for _, w := range u.inputs() {
		w.Disable()
	}
	u.components.StopButton.Show()
}

func (u *UIManager) enableInputs() {
	for _, w := range u.inputs() {
		w.Enable()
	}
	u.components.StopButton.Hide()
}

func (u *UIManager) inputs() []fyne.Disableable {
	c := u.components
	return []fyne.Disableable{
		c.BucketEntry, c.PrefixEntry, c.AwsAccessKeyEntry, c.AwsSecretKeyEntry, c.AwsRegionEntry,
		c.ShowSecretCheck, c.ListBucketButton, c.SelectFileButton, c.SelectFolderButton,
	}
}
