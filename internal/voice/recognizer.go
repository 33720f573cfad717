package voice

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	speechpb "cloud.google.com/go/speech/apiv1/speechpb"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	// 100ms of 16-bit mono audio at 16 kHz.
	chunkSize        = 3200
	defaultStopGrace = 3 * time.Second
)

// Stream is the bidirectional recognition stream.
// speechpb.Speech_StreamingRecognizeClient satisfies it.
type Stream interface {
	Send(*speechpb.StreamingRecognizeRequest) error
	Recv() (*speechpb.StreamingRecognizeResponse, error)
	CloseSend() error
}

type StreamOpener func(ctx context.Context) (Stream, error)

// AudioSource yields raw LINEAR16 mono PCM until closed.
type AudioSource interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}

// Recognizer streams audio to Speech-to-Text while recording. Each recording
// runs one sender and one receiver goroutine; Stop joins both.
type Recognizer struct {
	open   StreamOpener
	source AudioSource
	config *speechpb.StreamingRecognitionConfig
	closer io.Closer
	logger *zap.Logger

	// OnUpdate is called after every recognition result.
	OnUpdate  func(interim, transcript string)
	StopGrace time.Duration

	mu        sync.Mutex
	recording bool
	interim   string
	finals    []string
	err       error
	audio     io.ReadCloser
	cancel    context.CancelFunc
	done      chan struct{}
}

func NewRecognizer(open StreamOpener, source AudioSource, language string, sampleRate int, log *zap.Logger) *Recognizer {
	if log == nil {
		log = zap.NewNop()
	}

	return &Recognizer{
		open:   open,
		source: source,
		config: &speechpb.StreamingRecognitionConfig{
			Config: &speechpb.RecognitionConfig{
				Encoding:          speechpb.RecognitionConfig_LINEAR16,
				SampleRateHertz:   int32(sampleRate),
				AudioChannelCount: 1,
				LanguageCode:      language,
			},
			InterimResults: true,
		},
		logger:    log,
		StopGrace: defaultStopGrace,
	}
}

func (r *Recognizer) Supported() bool { return true }

func (r *Recognizer) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.recording {
		return nil
	}
	if r.cancel != nil {
		// The previous recording ended on its own and was never stopped.
		r.cancel()
	}

	rctx, cancel := context.WithCancel(ctx)

	stream, err := r.open(rctx)
	if err != nil {
		cancel()
		return fmt.Errorf("open recognition stream: %w", err)
	}

	if err := stream.Send(&speechpb.StreamingRecognizeRequest{
		StreamingRequest: &speechpb.StreamingRecognizeRequest_StreamingConfig{
			StreamingConfig: r.config,
		},
	}); err != nil {
		_ = stream.CloseSend()
		cancel()
		return fmt.Errorf("send recognition config: %w", err)
	}

	audio, err := r.source.Open(rctx)
	if err != nil {
		_ = stream.CloseSend()
		cancel()
		return fmt.Errorf("open audio source: %w", err)
	}

	done := make(chan struct{})
	r.recording = true
	r.err = nil
	r.interim = ""
	r.audio = audio
	r.cancel = cancel
	r.done = done

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		r.send(stream, audio)
	}()
	go func() {
		defer wg.Done()
		r.receive(rctx, stream)
		// Unblocks the sender when the server ends the stream first.
		_ = audio.Close()
	}()
	go func() {
		wg.Wait()
		_ = audio.Close()

		r.mu.Lock()
		r.recording = false
		r.mu.Unlock()

		close(done)
	}()

	r.logger.Debug("recording started", zap.String("language", r.config.Config.LanguageCode))

	return nil
}

func (r *Recognizer) send(stream Stream, audio io.Reader) {
	defer func() {
		if err := stream.CloseSend(); err != nil {
			r.logger.Debug("closing recognition stream", zap.Error(err))
		}
	}()

	buf := make([]byte, chunkSize)
	for {
		n, err := audio.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			if sendErr := stream.Send(&speechpb.StreamingRecognizeRequest{
				StreamingRequest: &speechpb.StreamingRecognizeRequest_AudioContent{
					AudioContent: chunk,
				},
			}); sendErr != nil {
				r.logger.Debug("sending audio", zap.Error(sendErr))
				return
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrClosedPipe) {
				r.logger.Debug("audio source ended", zap.Error(err))
			}
			return
		}
	}
}

func (r *Recognizer) receive(ctx context.Context, stream Stream) {
	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			if ctx.Err() == nil && status.Code(err) != codes.Canceled {
				r.setErr(fmt.Errorf("receive recognition result: %w", err))
			}
			return
		}

		if st := resp.GetError(); st != nil {
			r.logger.Warn("recognition error from server", zap.String("message", st.GetMessage()))
			r.setErr(fmt.Errorf("recognition: %s", st.GetMessage()))
			continue
		}

		for _, result := range resp.GetResults() {
			alternatives := result.GetAlternatives()
			if len(alternatives) == 0 {
				continue
			}
			r.apply(strings.TrimSpace(alternatives[0].GetTranscript()), result.GetIsFinal())
		}
	}
}

func (r *Recognizer) apply(text string, final bool) {
	r.mu.Lock()
	if final {
		if text != "" {
			r.finals = append(r.finals, text)
		}
		r.interim = ""
	} else {
		r.interim = text
	}
	interim, transcript := r.interim, strings.Join(r.finals, " ")
	onUpdate := r.OnUpdate
	r.mu.Unlock()

	r.logger.Debug("recognition result", zap.Bool("final", final), zap.Int("transcript_length", len(transcript)))

	if onUpdate != nil {
		onUpdate(interim, transcript)
	}
}

func (r *Recognizer) setErr(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err == nil {
		r.err = err
	}
}

// Stop closes the audio source so the stream can flush its final results. The
// stream is cancelled if it does not finish within StopGrace.
func (r *Recognizer) Stop() error {
	r.mu.Lock()
	audio, cancel, done := r.audio, r.cancel, r.done
	r.audio, r.cancel, r.done = nil, nil, nil
	r.mu.Unlock()

	if done == nil {
		return nil
	}

	_ = audio.Close()

	select {
	case <-done:
	case <-time.After(r.StopGrace):
		r.logger.Debug("recognition stream did not finish in time, cancelling")
		cancel()
		<-done
	}
	cancel()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.interim = ""
	r.logger.Debug("recording stopped", zap.Int("final_results", len(r.finals)))
	return r.err
}

func (r *Recognizer) Recording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recording
}

func (r *Recognizer) Interim() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.interim
}

func (r *Recognizer) Transcript() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return strings.Join(r.finals, " ")
}

func (r *Recognizer) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finals = nil
	r.interim = ""
	r.err = nil
}

func (r *Recognizer) Close() error {
	err := r.Stop()
	if r.closer != nil {
		if cerr := r.closer.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}
