package main

import (
	"io"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/SiGenixDave/FlashC167-R188TestBench/serialbridge"
)

// trafficBar shows a spinner with the number of bytes moved over the port.
type trafficBar struct {
	bar *progressbar.ProgressBar
}

func newTrafficBar(w io.Writer) *trafficBar {
	bar := progressbar.NewOptions64(-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("flashing"),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
	return &trafficBar{bar: bar}
}

// update is the bridge traffic callback.
func (t *trafficBar) update(tr serialbridge.Traffic) {
	_ = t.bar.Set64(int64(tr.Transmitted + tr.Received))
}

func (t *trafficBar) finish() {
	_ = t.bar.Finish()
}
