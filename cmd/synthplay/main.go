// Command synthplay loads a configuration document, builds its node
// graph, and plays it through the default SDL2 audio output until
// interrupted. Grounded on the teacher's cmd/emulator main (flag-based
// CLI, plain fmt status lines, an opt-in -log flag wiring
// internal/debug).
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"synthgraph/internal/config"
	"synthgraph/internal/debug"
	"synthgraph/internal/graph"
	"synthgraph/internal/output"
	"synthgraph/internal/runtime"
)

func main() {
	configPath := flag.String("config", "", "Path to a node-graph configuration document")
	sampleRate := flag.Int("sample-rate", graph.DefaultSampleRate, "Output sample rate in Hz")
	bufferFrames := flag.Int("buffer-frames", graph.DefaultBufferFrames, "Frames per audio callback")
	enableLogging := flag.Bool("log", false, "Enable construction/runtime logging (disabled by default)")
	withGUI := flag.Bool("gui", false, "Open a minimal Fyne transport-control window instead of waiting on Ctrl+C")
	flag.Parse()

	if *configPath == "" {
		fmt.Println("Usage: synthplay -config <path-to-config.json>")
		fmt.Println("  -config <path>         Path to a node-graph configuration document")
		fmt.Println("  -sample-rate <hz>      Output sample rate (default: 48000)")
		fmt.Println("  -buffer-frames <n>     Frames per audio callback (default: 1024)")
		fmt.Println("  -log                   Enable logging (disabled by default)")
		fmt.Println("  -gui                   Open a minimal transport-control window")
		os.Exit(1)
	}

	var logger *debug.Logger
	if *enableLogging {
		logger = debug.NewLogger(10000)
		logger.SetComponentEnabled(debug.ComponentLoader, true)
		logger.SetComponentEnabled(debug.ComponentAsset, true)
		logger.SetComponentEnabled(debug.ComponentRuntime, true)
		logger.SetComponentEnabled(debug.ComponentMidi, true)
		logger.SetComponentEnabled(debug.ComponentSystem, true)
		defer logger.Shutdown()
	}

	data, err := os.ReadFile(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading config file: %v\n", err)
		os.Exit(1)
	}

	registry := config.NewRegistry()
	registry.SetLogger(logger)
	assets := config.NewFileAssetLoader()
	ctx := config.NewBuildContext(float32(*sampleRate), *bufferFrames, assets, registry, logger)

	root, err := config.Load(data, ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building node graph: %v\n", err)
		os.Exit(1)
	}

	device, err := output.Open(*sampleRate, *bufferFrames)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening audio device: %v\n", err)
		os.Exit(1)
	}
	defer device.Close()

	rt := runtime.New(float32(*sampleRate), *bufferFrames, logger)
	rt.ActivateNode(root)

	fmt.Println("synthgraph player")
	fmt.Println("=================")
	fmt.Printf("Config loaded: %s\n", *configPath)
	fmt.Printf("Sample rate: %d Hz\n", *sampleRate)
	fmt.Printf("Buffer size: %d frames\n", *bufferFrames)

	stop := make(chan struct{})
	closeStop := sync.OnceFunc(func() { close(stop) })
	runErrs := make(chan error, 1)
	go func() {
		runErrs <- rt.Run(device, stop)
	}()

	if *withGUI {
		runTransportWindow(rt, closeStop)
		closeStop()
	} else {
		fmt.Println("\nPress Ctrl+C to stop.")
		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
		<-sigs
		closeStop()
	}

	if err := <-runErrs; err != nil {
		fmt.Fprintf(os.Stderr, "Playback error: %v\n", err)
		os.Exit(1)
	}
}
