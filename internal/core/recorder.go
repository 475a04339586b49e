package core

import "time"

// Recorder receives operational measurements. internal/metrics provides a
// Prometheus implementation.
type Recorder interface {
	ImportCompleted(stats MergeStats, skipped int, d time.Duration)
	ImportFailed(reason string)
	SaveCompleted(mode Mode, err error)
	StoreSize(n int)
}

type nopRecorder struct{}

func (nopRecorder) ImportCompleted(MergeStats, int, time.Duration) {}
func (nopRecorder) ImportFailed(string)                            {}
func (nopRecorder) SaveCompleted(Mode, error)                      {}
func (nopRecorder) StoreSize(int)                                  {}
