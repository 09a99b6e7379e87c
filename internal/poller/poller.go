package poller

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"

	"memodeck-client/internal/api"
	"memodeck-client/internal/models"
)

// User-facing terminal messages. The timeout message is fixed and never
// conflated with a server-reported failure.
const (
	TimeoutMessage        = "Card generation timed out. Please try again."
	GenericFailureMessage = "Card generation failed. Please try again."
)

var (
	// ErrJobInFlight is returned when Submit is called while a job is
	// already being polled. One job at a time per poller.
	ErrJobInFlight = errors.New("a generation job is already in flight")

	// ErrSubmitFailed is returned when the submit request itself failed.
	// OnFailure has already fired by the time Submit returns it; the error
	// lets synchronous callers report the request as dead, not accepted.
	ErrSubmitFailed = errors.New("generation submit failed")

	errDeckEmpty = errors.New("deck has no cards yet")
)

// GenerationAPI is the slice of the Memodeck API the poller drives.
type GenerationAPI interface {
	SubmitGeneration(ctx context.Context, req models.GenerateRequest) (*models.GenerateResponse, error)
	GetJob(ctx context.Context, jobID string) (*models.GenerationJob, error)
	GetDeck(ctx context.Context, deckID string) (*models.Deck, error)
}

// Hooks surface poller outcomes to the caller. Exactly one of OnSuccess or
// OnFailure fires per submitted job; OnStatusChange may fire any number of
// times before that. Nil hooks are skipped.
type Hooks struct {
	OnStatusChange func(jobID, status string)
	OnSuccess      func(jobID, deckID string)
	OnFailure      func(jobID, message string)
}

type Config struct {
	PollInterval     time.Duration // cadence between status checks
	Watchdog         time.Duration // hard deadline from submit
	VerifyDelay      time.Duration // grace before the first result check
	VerifyRetryDelay time.Duration // wait before the single verify retry
}

func DefaultConfig() Config {
	return Config{
		PollInterval:     2 * time.Second,
		Watchdog:         5 * time.Minute,
		VerifyDelay:      1 * time.Second,
		VerifyRetryDelay: 2 * time.Second,
	}
}

// Poller turns one submit into a bounded sequence of status checks ending
// in exactly one terminal outcome: success, failure, or timeout.
type Poller struct {
	api   GenerationAPI
	hooks Hooks
	cfg   Config

	mu     sync.Mutex
	active bool
	done   bool
	gen    uint64 // bumped by Cancel; stale submits and loops check it
	jobID  string
	status string
	cancel context.CancelFunc
}

func New(apiClient GenerationAPI, hooks Hooks, cfg Config) *Poller {
	if cfg.PollInterval <= 0 {
		cfg = DefaultConfig()
	}
	return &Poller{
		api:    apiClient,
		hooks:  hooks,
		cfg:    cfg,
		status: models.JobStatusIdle,
	}
}

// Status returns the last-known job ID and status.
func (p *Poller) Status() (string, string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.jobID, p.status
}

// Submit sends the generation request and starts the polling loop. The
// topic is validated by the caller; the poller does not revalidate it.
// A submit failure surfaces through OnFailure and as ErrSubmitFailed, and
// no polling starts. A Cancel arriving while the submit request is in
// flight abandons the job: no loop starts and no callback fires.
func (p *Poller) Submit(ctx context.Context, req models.GenerateRequest) error {
	p.mu.Lock()
	if p.active {
		p.mu.Unlock()
		return ErrJobInFlight
	}
	p.active = true
	p.done = false
	p.status = models.JobStatusQueued
	gen := p.gen
	p.mu.Unlock()

	resp, err := p.api.SubmitGeneration(ctx, req)

	p.mu.Lock()
	if p.gen != gen {
		// Cancelled mid-submit. Cancel already restored the idle state.
		p.mu.Unlock()
		return nil
	}
	if err != nil {
		p.active = false
		p.jobID = ""
		p.status = models.JobStatusIdle
		p.mu.Unlock()

		log.Printf("poller: submit failed: %v", err)
		p.failure("", submitFailureMessage(err))
		return ErrSubmitFailed
	}

	runCtx, cancel := context.WithCancel(context.Background())
	p.jobID = resp.JobID
	p.status = resp.Status
	p.cancel = cancel
	p.mu.Unlock()

	p.statusChange(resp.JobID, resp.Status)

	go p.run(runCtx, gen, resp.JobID, resp.DeckID)
	return nil
}

// Cancel tears the loop down. No poll fires and no callback runs after it
// returns. Safe to call at any time, including with no job in flight.
func (p *Poller) Cancel() {
	p.mu.Lock()
	p.done = true
	p.gen++
	cancel := p.cancel
	p.cancel = nil
	p.active = false
	p.jobID = ""
	p.status = models.JobStatusIdle
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// run drives the loop: one immediate poll, then fixed-cadence polls until
// a terminal status, the watchdog deadline, or cancellation. The interval
// and watchdog timers are released together on every exit path.
func (p *Poller) run(ctx context.Context, gen uint64, jobID, deckID string) {
	watchdog := time.NewTimer(p.cfg.Watchdog)
	defer watchdog.Stop()
	ticker := time.NewTicker(p.cfg.PollInterval)
	defer ticker.Stop()

	// First status check goes out immediately, not after a full interval.
	if p.pollOnce(ctx, gen, jobID, deckID) {
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-watchdog.C:
			if !p.claimTerminal(gen) {
				return
			}
			log.Printf("poller: job %s exceeded the %s deadline", jobID, p.cfg.Watchdog)
			p.reset()
			p.failure(jobID, TimeoutMessage)
			return
		case <-ticker.C:
			if p.pollOnce(ctx, gen, jobID, deckID) {
				return
			}
		}
	}
}

// pollOnce issues one status query and reports whether the loop is over.
// Transport errors are logged and swallowed; the loop tries again at the
// next tick rather than aborting a long-running job.
func (p *Poller) pollOnce(ctx context.Context, gen uint64, jobID, deckID string) bool {
	job, err := p.api.GetJob(ctx, jobID)
	if err != nil {
		if ctx.Err() != nil {
			return true
		}
		log.Printf("poller: poll for job %s failed (will retry): %v", jobID, err)
		return false
	}

	p.setStatus(jobID, job.Status)

	switch job.Status {
	case models.JobStatusCompleted:
		if !p.claimTerminal(gen) {
			return true
		}
		resultDeck := job.DeckID
		if resultDeck == "" {
			resultDeck = deckID
		}
		p.verifyDeck(ctx, resultDeck)
		p.reset()
		if ctx.Err() != nil {
			return true
		}
		p.success(jobID, resultDeck)
		return true

	case models.JobStatusFailed:
		if !p.claimTerminal(gen) {
			return true
		}
		message := job.Message
		if message == "" {
			message = GenericFailureMessage
		}
		p.reset()
		p.failure(jobID, message)
		return true
	}

	return false
}

// verifyDeck waits a short grace period, then checks that the generated
// deck is actually fetchable. An empty result is retried once after the
// longer delay. The outcome never blocks success: the flow proceeds
// whether or not the deck was readable yet.
func (p *Poller) verifyDeck(ctx context.Context, deckID string) {
	select {
	case <-ctx.Done():
		return
	case <-time.After(p.cfg.VerifyDelay):
	}

	err := retry.Do(
		func() error {
			deck, err := p.api.GetDeck(ctx, deckID)
			if err != nil {
				return err
			}
			if len(deck.Cards) == 0 {
				return errDeckEmpty
			}
			return nil
		},
		retry.Attempts(2),
		retry.Delay(p.cfg.VerifyRetryDelay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
	)
	if err != nil && ctx.Err() == nil {
		log.Printf("poller: deck %s not yet fetchable after completion, proceeding: %v", deckID, err)
	}
}

// claimTerminal marks the current job terminal. It returns false when the
// job was already terminated, torn down, or superseded by a newer submit,
// so at most one terminal callback ever fires per job.
func (p *Poller) claimTerminal(gen uint64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.done || p.gen != gen {
		return false
	}
	p.done = true
	return true
}

// reset clears the job handle back to idle.
func (p *Poller) reset() {
	p.mu.Lock()
	p.active = false
	p.jobID = ""
	p.status = models.JobStatusIdle
	p.cancel = nil
	p.mu.Unlock()
}

func (p *Poller) setStatus(jobID, status string) {
	p.mu.Lock()
	changed := p.status != status
	if changed {
		p.status = status
	}
	p.mu.Unlock()

	if changed {
		p.statusChange(jobID, status)
	}
}

func (p *Poller) statusChange(jobID, status string) {
	if p.hooks.OnStatusChange != nil {
		p.hooks.OnStatusChange(jobID, status)
	}
}

func (p *Poller) success(jobID, deckID string) {
	if p.hooks.OnSuccess != nil {
		p.hooks.OnSuccess(jobID, deckID)
	}
}

func (p *Poller) failure(jobID, message string) {
	if p.hooks.OnFailure != nil {
		p.hooks.OnFailure(jobID, message)
	}
}

func submitFailureMessage(err error) string {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return GenericFailureMessage
}
