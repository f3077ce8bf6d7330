package agent

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"guided-session-agent/internal/domain/entities"
	"guided-session-agent/internal/infra/logger"
)

// SpeechChannel is the say/listen capability of the live room. Both
// calls suspend: Speak until playback completes (or is interrupted when
// interruptible), AwaitUtterance until the user's next complete
// utterance is recognized or the context ends.
type SpeechChannel interface {
	Speak(ctx context.Context, text string, interruptible bool) error
	AwaitUtterance(ctx context.Context) (string, error)
}

// Store is the slice of the session store the driver writes through.
type Store interface {
	AppendTurn(ctx context.Context, userID string, sessionID string, turn entities.Turn) error
	UpdateSessionStatus(ctx context.Context, userID string, sessionID string, status string, extra map[string]interface{}) error
}

// Summarizer produces the session summary and title at finalization.
type Summarizer interface {
	GenerateSummary(ctx context.Context, transcript []entities.Turn) (summary string, title string, err error)
}

// Timing holds the pacing of a session. The delays encode a UX
// decision: don't start talking right on top of a just-finished
// utterance.
type Timing struct {
	// SettleDelay runs after the welcome line, before the first question.
	SettleDelay time.Duration
	// FollowUpDelay runs after a follow-up question is spoken.
	FollowUpDelay time.Duration
	// QuestionGap runs between one answer and the next base question.
	QuestionGap time.Duration
	// UtteranceTimeout caps how long a single wait for the user may
	// last. Zero disables the cap and a silent user stalls the session
	// indefinitely. When set, a timed-out wait triggers one re-prompt;
	// a second timeout ends the session early.
	UtteranceTimeout time.Duration
}

func DefaultTiming() Timing {
	return Timing{
		SettleDelay:   1 * time.Second,
		FollowUpDelay: 1 * time.Second,
		QuestionGap:   1500 * time.Millisecond,
	}
}

const silenceReprompt = "Are you still there?"

var errSilence = errors.New("no utterance received before timeout")

// Driver runs one guided session: a strictly sequential loop that asks
// each module question, waits for the spoken answer, optionally asks a
// follow-up, and persists every turn as it is captured. One Driver
// instance serves one session; independent sessions run as independent
// drivers and share nothing but the path-partitioned store.
type Driver struct {
	logger     *logger.Logger
	store      Store
	summarizer Summarizer
	timing     Timing
	sleep      func(time.Duration)
}

func NewDriver(log *logger.Logger, store Store, summarizer Summarizer, timing Timing) *Driver {
	return &Driver{
		logger:     log,
		store:      store,
		summarizer: summarizer,
		timing:     timing,
		sleep:      time.Sleep,
	}
}

// Run conducts the session over the given channel. The session record
// must already exist with all identity fields resolved; Run moves it to
// recording, asks every module question in order, and finalizes it as
// completed. A store failure on any single write is logged and the loop
// continues; a channel failure terminates the session with an error.
func (d *Driver) Run(ctx context.Context, session entities.Session, module entities.Module, guide entities.Guide, channel SpeechChannel) error {
	d.updateStatus(ctx, session, entities.SessionStatusRecording, nil)

	welcome := fmt.Sprintf("Welcome to your %s session. I'm %s, and I'll be your guide today.", module.Name, guide.Name)
	if err := channel.Speak(ctx, welcome, false); err != nil {
		return fmt.Errorf("failed to speak welcome line: %w", err)
	}
	d.sleep(d.timing.SettleDelay)

	var transcript []entities.Turn

	for i, question := range module.Questions {
		if err := channel.Speak(ctx, question, false); err != nil {
			return fmt.Errorf("failed to speak question %d: %w", i+1, err)
		}

		answer, err := d.awaitAnswer(ctx, channel, question)
		if errors.Is(err, errSilence) {
			d.logger.Warn(fmt.Sprintf("Session %s: user silent on question %d, ending session early", session.SessionID, i+1))
			break
		}
		if err != nil {
			return fmt.Errorf("failed waiting for answer to question %d: %w", i+1, err)
		}

		turn := entities.Turn{
			QuestionIndex: strconv.Itoa(i + 1),
			Question:      question,
			Answer:        answer,
			Timestamp:     time.Now(),
		}
		d.persistTurn(ctx, session, turn)
		transcript = append(transcript, turn)

		if needsFollowUp(answer) {
			prompt := selectFollowUp(module, i+1)
			if err := channel.Speak(ctx, prompt, false); err != nil {
				return fmt.Errorf("failed to speak follow-up for question %d: %w", i+1, err)
			}
			d.sleep(d.timing.FollowUpDelay)

			followUpAnswer, err := d.awaitAnswer(ctx, channel, prompt)
			if errors.Is(err, errSilence) {
				d.logger.Warn(fmt.Sprintf("Session %s: user silent on follow-up %d.1, ending session early", session.SessionID, i+1))
				break
			}
			if err != nil {
				return fmt.Errorf("failed waiting for follow-up answer to question %d: %w", i+1, err)
			}

			followUpTurn := entities.Turn{
				QuestionIndex: fmt.Sprintf("%d.1", i+1),
				Question:      prompt,
				Answer:        followUpAnswer,
				Timestamp:     time.Now(),
			}
			d.persistTurn(ctx, session, followUpTurn)
			transcript = append(transcript, followUpTurn)
		}

		if i < len(module.Questions)-1 {
			d.sleep(d.timing.QuestionGap)
		}
	}

	closing := fmt.Sprintf("Great job doing today's %s session!", module.Name)
	if err := channel.Speak(ctx, closing, false); err != nil {
		return fmt.Errorf("failed to speak closing line: %w", err)
	}

	d.finalize(ctx, session, module, transcript)
	return nil
}

// awaitAnswer waits for the next utterance, applying the configured
// silence policy: with no timeout it blocks until the channel delivers
// or the context ends; with a timeout it re-prompts once and reports
// errSilence after a second silent window.
func (d *Driver) awaitAnswer(ctx context.Context, channel SpeechChannel, question string) (string, error) {
	if d.timing.UtteranceTimeout <= 0 {
		return channel.AwaitUtterance(ctx)
	}

	answer, err := d.awaitWithTimeout(ctx, channel)
	if err == nil || !errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
		return answer, err
	}

	reprompt := silenceReprompt + " " + question
	if err := channel.Speak(ctx, reprompt, false); err != nil {
		return "", err
	}

	answer, err = d.awaitWithTimeout(ctx, channel)
	if err != nil && errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
		return "", errSilence
	}
	return answer, err
}

func (d *Driver) awaitWithTimeout(ctx context.Context, channel SpeechChannel) (string, error) {
	waitCtx, cancel := context.WithTimeout(ctx, d.timing.UtteranceTimeout)
	defer cancel()
	return channel.AwaitUtterance(waitCtx)
}

// persistTurn writes one turn, tolerating failure: the turn is lost but
// the conversation continues.
func (d *Driver) persistTurn(ctx context.Context, session entities.Session, turn entities.Turn) {
	if err := d.store.AppendTurn(ctx, session.UserID, session.SessionID, turn); err != nil {
		d.logger.Error(fmt.Sprintf("Failed to save turn %s for session %s: %v", turn.QuestionIndex, session.SessionID, err))
	}
}

func (d *Driver) updateStatus(ctx context.Context, session entities.Session, status string, extra map[string]interface{}) {
	if err := d.store.UpdateSessionStatus(ctx, session.UserID, session.SessionID, status, extra); err != nil {
		d.logger.Error(fmt.Sprintf("Failed to update session %s to status %s: %v", session.SessionID, status, err))
	}
}

// finalize marks the session completed, attaching a summary and title
// when the summarizer can produce them and falling back to the module
// name otherwise.
func (d *Driver) finalize(ctx context.Context, session entities.Session, module entities.Module, transcript []entities.Turn) {
	extra := map[string]interface{}{
		"completed_at": time.Now().UnixMilli(),
		"title":        module.Name,
	}

	if d.summarizer != nil && len(transcript) > 0 {
		summary, title, err := d.summarizer.GenerateSummary(ctx, transcript)
		if err != nil {
			d.logger.Error(fmt.Sprintf("Failed to generate summary for session %s: %v", session.SessionID, err))
		} else {
			extra["summary"] = summary
			if title != "" {
				extra["title"] = title
			}
		}
	}

	d.updateStatus(ctx, session, entities.SessionStatusCompleted, extra)
}
