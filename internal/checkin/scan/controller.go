package scan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aussiebroadwan/checkin/internal/checkin/domain"
)

const DefaultCooldown = 3 * time.Second

var (
	ErrBusy              = errors.New("scan: station is not scanning")
	ErrClosed            = errors.New("scan: controller closed")
	ErrStreamUnavailable = errors.New("scan: stream unavailable")
	ErrNoImageDecoder    = errors.New("scan: image upload not supported")
)

// Verifier is the part of the attendance verifier the controller drives.
type Verifier interface {
	VerifyText(ctx context.Context, text string) domain.Outcome
}

type Config struct {
	Verifier Verifier
	Stream   Stream       // optional; without it text must be pushed with Scan
	Images   ImageDecoder // optional
	Cooldown time.Duration
	Logger   *slog.Logger

	// OnResult is called from the controller goroutine for every result.
	OnResult func(Result)
}

type op int

const (
	opStart op = iota
	opScan
	opImage
	opNext
	opDismiss
)

type command struct {
	op    op
	ctx   context.Context
	text  string
	data  []byte
	reply chan reply
}

type reply struct {
	result Result
	err    error
}

// Controller runs one scanning station. A single goroutine owns the state
// machine and consumes stream frames, so at most one verification is ever in
// flight and the stream is stopped while it runs.
type Controller struct {
	verifier Verifier
	stream   Stream
	images   ImageDecoder
	cooldown time.Duration
	log      *slog.Logger
	onResult func(Result)

	ctx    context.Context
	cancel context.CancelFunc
	cmds   chan command
	done   chan struct{}
	once   sync.Once

	// closed once the stream has no more input
	ended chan struct{}

	// owned by the run goroutine
	frames    <-chan Frame
	timer     *time.Timer
	work      context.Context // values of the last Start, never cancelled
	exhausted bool

	mu   sync.RWMutex
	snap Snapshot
}

func NewController(cfg Config) *Controller {
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = DefaultCooldown
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		verifier: cfg.Verifier,
		stream:   cfg.Stream,
		images:   cfg.Images,
		cooldown: cfg.Cooldown,
		log:      cfg.Logger,
		onResult: cfg.OnResult,
		ctx:      ctx,
		cancel:   cancel,
		cmds:     make(chan command),
		done:     make(chan struct{}),
		ended:    make(chan struct{}),
		work:     context.Background(),
	}
	go c.run()
	return c
}

// Start moves an idle station to Scanning. Failing to acquire the stream is
// reported as ErrStreamUnavailable. Verifications of stream frames inherit
// the values of ctx, such as its logger, but not its cancellation.
func (c *Controller) Start(ctx context.Context) error {
	return c.do(ctx, command{op: opStart}).err
}

// Scan verifies text pushed by the host. It is only accepted while the
// station is Scanning.
func (c *Controller) Scan(ctx context.Context, text string) (Result, error) {
	r := c.do(ctx, command{op: opScan, text: text})
	return r.result, r.err
}

// SubmitImage decodes an uploaded image and verifies it. The stream is
// stopped and stays stopped afterwards until ScanNext or Restart.
func (c *Controller) SubmitImage(ctx context.Context, data []byte) (Result, error) {
	r := c.do(ctx, command{op: opImage, data: data})
	return r.result, r.err
}

// ScanNext skips the remaining cooldown and resumes scanning.
func (c *Controller) ScanNext() error {
	return c.do(context.Background(), command{op: opNext}).err
}

// Dismiss returns the station to Idle and clears the last result.
func (c *Controller) Dismiss() error {
	return c.do(context.Background(), command{op: opDismiss}).err
}

// Restart dismisses the current result and starts scanning again.
func (c *Controller) Restart(ctx context.Context) error {
	if err := c.Dismiss(); err != nil {
		return err
	}
	return c.Start(ctx)
}

// StreamEnded is closed once the stream has run dry and every frame it
// delivered has been verified.
func (c *Controller) StreamEnded() <-chan struct{} { return c.ended }

func (c *Controller) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap
}

// Close stops the controller and its stream. A verification already running
// completes before Close returns. Safe to call more than once.
func (c *Controller) Close() error {
	c.once.Do(func() {
		c.cancel()
		<-c.done
	})
	return nil
}

func (c *Controller) do(ctx context.Context, cmd command) reply {
	cmd.ctx = ctx
	cmd.reply = make(chan reply, 1)

	select {
	case c.cmds <- cmd:
	case <-c.done:
		return reply{err: ErrClosed}
	case <-ctx.Done():
		return reply{err: ctx.Err()}
	}

	select {
	case r := <-cmd.reply:
		return r
	case <-c.done:
		select {
		case r := <-cmd.reply:
			return r
		default:
			return reply{err: ErrClosed}
		}
	}
}

func (c *Controller) run() {
	defer close(c.done)

	for {
		var frames <-chan Frame
		if c.state() == Scanning {
			frames = c.frames
		}
		var resume <-chan time.Time
		if c.timer != nil {
			resume = c.timer.C
		}

		select {
		case <-c.ctx.Done():
			c.stopTimer()
			c.stopStream()
			return

		case f, ok := <-frames:
			if !ok {
				c.frames = nil
				c.endStream()
				continue
			}
			if f.Err != nil {
				c.log.Warn("scan stream read failed", slog.Any("error", f.Err))
				continue
			}
			// An in-flight store write is never cancelled by Close.
			c.process(c.work, f.Text, SourceStream, true)

		case <-resume:
			c.timer = nil
			if err := c.resume(); err != nil && !c.exhausted {
				c.log.Error("failed to resume scanning", slog.Any("error", err))
			}

		case cmd := <-c.cmds:
			cmd.reply <- c.handle(cmd)
		}
	}
}

func (c *Controller) handle(cmd command) reply {
	switch cmd.op {
	case opStart:
		if c.state() != Idle {
			return reply{}
		}
		c.work = context.WithoutCancel(cmd.ctx)
		return reply{err: c.resume()}

	case opScan:
		if c.state() != Scanning {
			return reply{err: ErrBusy}
		}
		// An in-flight store write is never cancelled by the caller.
		ctx := context.WithoutCancel(cmd.ctx)
		return reply{result: c.process(ctx, cmd.text, SourceText, true)}

	case opImage:
		return c.handleImage(cmd)

	case opNext:
		if c.state() == Scanning {
			return reply{}
		}
		c.stopTimer()
		return reply{err: c.resume()}

	case opDismiss:
		c.stopTimer()
		c.stopStream()
		c.mu.Lock()
		c.snap = Snapshot{State: Idle}
		c.mu.Unlock()
		return reply{}
	}

	return reply{err: fmt.Errorf("scan: unknown op %d", cmd.op)}
}

func (c *Controller) handleImage(cmd command) reply {
	if c.images == nil {
		return reply{err: ErrNoImageDecoder}
	}

	c.stopTimer()
	c.stopStream()
	c.setState(Idle)

	text, err := c.images.DecodeImage(cmd.ctx, cmd.data)
	if err != nil {
		c.log.Warn("failed to decode uploaded image", slog.Any("error", err))
		return reply{err: err}
	}

	ctx := context.WithoutCancel(cmd.ctx)
	return reply{result: c.process(ctx, text, SourceImage, false)}
}

// process runs one verification. The stream is stopped first so no frames
// queue up behind it.
func (c *Controller) process(ctx context.Context, text string, src Source, autoResume bool) Result {
	c.stopStream()
	c.setState(Processing)

	outcome := c.verifier.VerifyText(ctx, text)
	res := Result{Outcome: outcome, Source: src, At: time.Now().UTC()}

	c.mu.Lock()
	c.snap = Snapshot{
		State:         ShowingResult,
		Last:          &res,
		SecurityAlert: outcome.SecurityRelevant(),
	}
	c.mu.Unlock()

	if c.onResult != nil {
		c.onResult(res)
	}

	c.setState(Cooldown)
	if autoResume {
		c.timer = time.NewTimer(c.cooldown)
	}
	return res
}

func (c *Controller) resume() error {
	if c.stream != nil && c.frames == nil {
		frames, err := c.stream.Start(c.ctx)
		if err != nil {
			if errors.Is(err, ErrStreamClosed) {
				c.endStream()
			}
			c.setState(Idle)
			return fmt.Errorf("%w: %v", ErrStreamUnavailable, err)
		}
		c.frames = frames
	}
	c.setState(Scanning)
	return nil
}

func (c *Controller) endStream() {
	c.setState(Idle)
	if c.exhausted {
		return
	}
	c.exhausted = true
	c.log.Info("scan stream ended")
	close(c.ended)
}

func (c *Controller) stopStream() {
	if c.stream == nil || c.frames == nil {
		return
	}
	c.frames = nil
	if err := c.stream.Stop(); err != nil {
		c.log.Warn("failed to stop scan stream", slog.Any("error", err))
	}
}

func (c *Controller) stopTimer() {
	if c.timer == nil {
		return
	}
	c.timer.Stop()
	c.timer = nil
}

func (c *Controller) state() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap.State
}

func (c *Controller) setState(s State) {
	c.mu.Lock()
	c.snap.State = s
	c.mu.Unlock()
}
