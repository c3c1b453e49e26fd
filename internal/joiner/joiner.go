// Package joiner pairs every observation with its opponent's observation for the same
// fixture and copies the opponent's figures across as "against" figures.
package joiner

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/pable/go-ck-metrics/internal/model"
)

// Policy decides what happens when an opponent row cannot be matched uniquely.
type Policy int

const (
	// Fatal aborts the join on the first unmatched observation.
	Fatal Policy = iota
	// Skip drops the observation and records a Gap.
	Skip
)

func (p Policy) String() string {
	switch p {
	case Skip:
		return "skip"
	default:
		return "fatal"
	}
}

// ParsePolicy accepts "fatal" or "skip".
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "fatal":
		return Fatal, nil
	case "skip":
		return Skip, nil
	}
	return Fatal, fmt.Errorf("unknown missing-opponent policy %q (want fatal or skip)", s)
}

// ErrorKind classifies a JoinError.
type ErrorKind string

const (
	// KindLabel: the subject team is not a participant of its own fixture label.
	KindLabel ErrorKind = "label"
	// KindMissing: no opponent row exists for the fixture.
	KindMissing ErrorKind = "missing-opponent"
	// KindAmbiguous: more than one opponent row matches.
	KindAmbiguous ErrorKind = "ambiguous-opponent"
)

// JoinError reports an observation whose opponent could not be determined.
// An ambiguous error with no Opponent means the subject row itself is duplicated.
type JoinError struct {
	Kind     ErrorKind
	Row      int
	Team     model.Team
	Opponent model.Team
	Fixture  string
	Week     int
	Matches  int
}

func (e *JoinError) Error() string {
	switch e.Kind {
	case KindLabel:
		return fmt.Sprintf("row %d: %s is not a participant of %q", e.Row, e.Team, e.Fixture)
	case KindAmbiguous:
		if e.Opponent == "" {
			return fmt.Sprintf("row %d: %d rows for %s in %s, want 1", e.Row, e.Matches, e.Team, e.where())
		}
		return fmt.Sprintf("row %d: %d rows for opponent %s in %s, want 1",
			e.Row, e.Matches, e.Opponent, e.where())
	default:
		return fmt.Sprintf("row %d: no row for opponent %s in %s", e.Row, e.Opponent, e.where())
	}
}

func (e *JoinError) where() string {
	if e.Week == 0 {
		return fmt.Sprintf("%q", e.Fixture)
	}
	return fmt.Sprintf("%q week %d", e.Fixture, e.Week)
}

// Gap is a skipped observation under the Skip policy.
type Gap struct {
	Team    model.Team
	Fixture string
	Week    int
	Reason  ErrorKind
}

// Options controls opponent matching.
type Options struct {
	// MatchWeek requires the opponent row to share the subject's week.
	MatchWeek bool
	Policy    Policy
}

// Result is the enriched table plus any observations skipped under Skip.
type Result[S any] struct {
	Rows []model.Enriched[S]
	Gaps []Gap
}

type key struct {
	team  model.Team
	label string
	week  int
}

// Join produces one Enriched row per joinable input observation, in input order.
// Label errors are fatal under every policy; missing and ambiguous opponents follow
// opts.Policy.
func Join[S any](obs []model.Observation[S], opts Options) (*Result[S], error) {
	index := make(map[key][]int, len(obs))
	for i, o := range obs {
		k := keyFor(o.Team, o.Fixture.Label, o.Week, opts.MatchWeek)
		index[k] = append(index[k], i)
	}

	res := &Result[S]{Rows: make([]model.Enriched[S], 0, len(obs))}
	for _, o := range obs {
		opp, ok := o.Fixture.Opponent(o.Team)
		if !ok {
			return nil, &JoinError{Kind: KindLabel, Row: o.Row, Team: o.Team, Fixture: o.Fixture.Label, Week: o.Week}
		}

		var jerr *JoinError
		matches := index[keyFor(opp, o.Fixture.Label, o.Week, opts.MatchWeek)]
		if n := len(index[keyFor(o.Team, o.Fixture.Label, o.Week, opts.MatchWeek)]); n > 1 {
			jerr = &JoinError{
				Kind:    KindAmbiguous,
				Row:     o.Row,
				Team:    o.Team,
				Fixture: o.Fixture.Label,
				Week:    o.Week,
				Matches: n,
			}
		} else if len(matches) != 1 {
			jerr = &JoinError{
				Kind:     KindMissing,
				Row:      o.Row,
				Team:     o.Team,
				Opponent: opp,
				Fixture:  o.Fixture.Label,
				Week:     o.Week,
				Matches:  len(matches),
			}
			if len(matches) > 1 {
				jerr.Kind = KindAmbiguous
			}
		}
		if jerr != nil {
			if opts.Policy == Fatal {
				return nil, jerr
			}
			slog.Warn("skipping unjoinable observation",
				slog.String("team", string(o.Team)),
				slog.String("fixture", o.Fixture.Label),
				slog.Int("week", o.Week),
				slog.String("reason", string(jerr.Kind)))
			res.Gaps = append(res.Gaps, Gap{Team: o.Team, Fixture: o.Fixture.Label, Week: o.Week, Reason: jerr.Kind})
			continue
		}

		res.Rows = append(res.Rows, model.Enriched[S]{
			Observation: o,
			Opponent:    opp,
			Against:     obs[matches[0]].For,
		})
	}
	slog.Debug("joined fixtures", slog.Int("rows", len(res.Rows)), slog.Int("gaps", len(res.Gaps)))
	return res, nil
}

func keyFor(t model.Team, label string, week int, matchWeek bool) key {
	if !matchWeek {
		week = 0
	}
	return key{team: t, label: label, week: week}
}
