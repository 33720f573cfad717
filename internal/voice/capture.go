package voice

import (
	"context"
	"errors"
	"fmt"
)

var ErrUnsupported = errors.New("voice input is not supported")

// Capture turns spoken input into text for the answer box.
type Capture interface {
	// Supported reports whether Start can ever succeed.
	Supported() bool
	// Start begins recording. It is a no-op while already recording.
	Start(ctx context.Context) error
	// Stop ends recording, waits for pending results and returns the first
	// recognition error, if any.
	Stop() error
	Recording() bool
	// Interim is the live partial result. It is replaced on every update.
	Interim() string
	// Transcript is the accumulated final text.
	Transcript() string
	// Reset clears the transcript and the interim value.
	Reset()
	Close() error
}

// Unsupported is the capture used when no recognizer is available.
type Unsupported struct {
	Reason string
}

func (u Unsupported) Supported() bool { return false }

func (u Unsupported) Start(context.Context) error {
	if u.Reason == "" {
		return ErrUnsupported
	}
	return fmt.Errorf("%w: %s", ErrUnsupported, u.Reason)
}

func (u Unsupported) Stop() error        { return nil }
func (u Unsupported) Recording() bool    { return false }
func (u Unsupported) Interim() string    { return "" }
func (u Unsupported) Transcript() string { return "" }
func (u Unsupported) Reset()             {}
func (u Unsupported) Close() error       { return nil }
