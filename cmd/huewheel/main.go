// huewheel - accessible colour palettes from the OKHSL hue wheel
//
// huewheel generates evenly spaced foreground colours, scores them with
// WCAG 2 and APCA contrast, and finds the settings that pass on a given
// background.
//
// Copyright (c) 2025 John Mylchreest
// Licensed under the MIT License
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/jmylchreest/huewheel/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cli.NewRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
