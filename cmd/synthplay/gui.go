package main

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"synthgraph/internal/graph"
	"synthgraph/internal/runtime"
)

// runTransportWindow opens a minimal Fyne control panel for the running
// program: a note trigger, a volume slider, and a quit button. This is
// an external collaborator confined to the example program — no
// internal/graph, internal/config, or internal/runtime code imports
// Fyne; the window only ever talks to rt through rt.Send.
func runTransportWindow(rt *runtime.Runtime, closeStop func()) {
	fyneApp := app.New()
	window := fyneApp.NewWindow("synthgraph transport")

	const middleC uint8 = 60
	noteHeld := false

	noteButton := widget.NewButton("Hold note (C4)", nil)
	noteButton.OnTapped = func() {
		if !noteHeld {
			rt.Send(&graph.Message{Target: graph.BroadcastTarget, Data: graph.NoteOnEvent(middleC, 1.0)})
			noteHeld = true
			noteButton.SetText("Release note (C4)")
		} else {
			rt.Send(&graph.Message{Target: graph.BroadcastTarget, Data: graph.NoteOffEvent(middleC, 0)})
			noteHeld = false
			noteButton.SetText("Hold note (C4)")
		}
	}

	volumeLabel := widget.NewLabel("Volume: 1.00")
	volumeSlider := widget.NewSlider(0, 1)
	volumeSlider.Value = 1.0
	volumeSlider.OnChanged = func(v float64) {
		volumeLabel.SetText(fmt.Sprintf("Volume: %.2f", v))
		rt.Send(&graph.Message{Target: graph.BroadcastTarget, Data: graph.Event{Kind: graph.EventVolume, Volume: float32(v)}})
	}

	quitButton := widget.NewButton("Stop playback", func() {
		closeStop()
		window.Close()
	})

	window.SetContent(container.NewVBox(
		noteButton,
		volumeLabel,
		volumeSlider,
		quitButton,
	))
	window.Resize(fyne.NewSize(280, 160))
	window.ShowAndRun()
}
