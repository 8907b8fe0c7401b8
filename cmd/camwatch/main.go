// Command camwatch watches an IP camera for people.
//
//	camwatch monitor   pull frames, detect persons, alert and serve a preview
//	camwatch view      open the live stream in ffplay
//	camwatch setup     write the camera settings
//	camwatch doctor    check ffmpeg, model files and build features
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "camwatch:", err)
		os.Exit(1)
	}
}
