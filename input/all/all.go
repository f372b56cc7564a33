// Package all imports every input backend so that a blank import of
// this package registers them all.
package all

import (
	_ "github.com/auricle/cortex/input/ffmpeg"
	_ "github.com/auricle/cortex/input/parec"
)
