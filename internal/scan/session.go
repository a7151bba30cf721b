// Package scan folds successive frames of the same key into one credential
// and decides when the reading is good enough to stop.
//
// A Session is driven by its caller: every decoded frame is handed to Step,
// which merges it into the best credential so far and answers Continue or
// Done. The session never blocks or retries on its own, and it must not be
// stepped from two goroutines at once.
package scan

import (
	"time"

	"github.com/ironsheep/dicekey-reader/internal/config"
	"github.com/ironsheep/dicekey-reader/internal/dicekey"
)

// Decision is the outcome of a Step.
type Decision int

const (
	// Continue asks for another frame.
	Continue Decision = iota
	// Done means Best is final.
	Done
)

func (d Decision) String() string {
	if d == Done {
		return "done"
	}
	return "continue"
}

// Session accumulates frames of one key.
type Session struct {
	cal config.Calibration

	best       dicekey.Credential
	totalError int
	frames     int

	firstRead       time.Time
	lastImprovement time.Time
	lastRead        time.Time

	// Logf, when set, receives debug messages.
	Logf func(format string, args ...any)
}

// NewSession starts an empty session.
func NewSession(cal config.Calibration) *Session {
	return &Session{cal: cal, totalError: dicekey.WorstTotalError}
}

// Step merges a frame read at time at and reports whether to keep going.
//
// The merged credential replaces the best one unless its total error is
// higher; a strictly lower total counts as an improvement. The session is
// Done when the total error is zero, or when no face has an error above the
// correctable threshold and nothing has improved for the grace period.
// Failed frames (uninitialized credentials) only update the read time.
func (s *Session) Step(cred dicekey.Credential, at time.Time) Decision {
	s.frames++
	if s.firstRead.IsZero() {
		s.firstRead = at
	}
	s.lastRead = at

	if cred.Initialized {
		merged := dicekey.Merge(s.best, cred)
		total := merged.TotalError()
		switch {
		case !s.best.Initialized || total < s.totalError:
			s.best, s.totalError = merged, total
			s.lastImprovement = at
			s.logf("scan: frame %d improved total error to %d", s.frames, total)
		case total == s.totalError:
			s.best = merged
		}
	}

	return s.decide(at)
}

func (s *Session) decide(at time.Time) Decision {
	if !s.best.Initialized {
		return Continue
	}
	if s.totalError == 0 {
		return Done
	}
	if s.best.MaxFaceError() <= s.cal.CorrectableError && at.Sub(s.lastImprovement) >= s.cal.GracePeriod {
		return Done
	}
	return Continue
}

// Best returns the best merged credential so far.
func (s *Session) Best() dicekey.Credential { return s.best }

// TotalError returns the total error of Best.
func (s *Session) TotalError() int { return s.totalError }

// Frames returns the number of frames stepped.
func (s *Session) Frames() int { return s.frames }

// FirstRead returns when the first frame was stepped.
func (s *Session) FirstRead() time.Time { return s.firstRead }

// LastImprovement returns when the total error last decreased.
func (s *Session) LastImprovement() time.Time { return s.lastImprovement }

// LastRead returns when the latest frame was stepped.
func (s *Session) LastRead() time.Time { return s.lastRead }

// Reset discards everything the session has accumulated.
func (s *Session) Reset() {
	logf := s.Logf
	*s = *NewSession(s.cal)
	s.Logf = logf
}

func (s *Session) logf(format string, args ...any) {
	if s.Logf != nil {
		s.Logf(format, args...)
	}
}
