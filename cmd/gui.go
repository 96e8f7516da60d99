package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"uploadsim/internal/ui"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/dialog"
	"github.com/spf13/cobra"
)

func newGUICmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "gui",
		Short: "Open the desktop window (default)",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return runGUI(a)
		},
	}
}

// resourceIconPng reads and returns the content of the icon.png file
func resourceIconPng() []byte {
	data, err := os.ReadFile("icon.png")
	if err != nil {
		return []byte{}
	}
	return data
}

func runGUI(a *app) error {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("application panic", "panic", r, "stack", string(debug.Stack()))
			file, err := os.Create("uploadsim-crash.log")
			if err == nil {
				defer file.Close()
				fmt.Fprintf(file, "uploadsim crash report\n\nError: %v\n\nStack Trace:\n%s", r, debug.Stack())
			}
			os.Exit(1)
		}
	}()

	myApp := fyneapp.NewWithID("com.uploadsim.app")
	myApp.SetIcon(fyne.NewStaticResource("icon", resourceIconPng()))

	appTitle := "Upload Simulator"
	if version != "dev" {
		appTitle += " v" + version
	}

	myWindow := myApp.NewWindow(appTitle)
	myWindow.Resize(fyne.NewSize(720, 520))
	myWindow.SetMaster()
	myWindow.CenterOnScreen()

	myWindow.SetCloseIntercept(func() {
		confirmDialog := dialog.NewConfirm(
			"Exit Application",
			"Are you sure you want to exit? Running uploads will be cancelled.",
			func(ok bool) {
				if ok {
					myWindow.Close()
				}
			},
			myWindow,
		)
		confirmDialog.SetDismissText("Cancel")
		confirmDialog.SetConfirmText("Exit")
		confirmDialog.Show()
	})

	uiManager := ui.NewUIManager(myWindow, a.cfg.S3, a.logger, a.simulatorOptions()...)
	uiManager.SetupUI()
	defer uiManager.Close()

	a.logger.Info("window opened", "version", version, "commit", commit)
	myWindow.ShowAndRun()
	return nil
}
