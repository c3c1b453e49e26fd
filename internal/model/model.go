package model

import (
	"fmt"
	"strings"
)

// Team is a club name drawn from a closed Roster.
type Team string

func (t Team) String() string { return string(t) }

// Roster is the closed set of teams a dataset may reference.
type Roster struct {
	teams []Team
	index map[string]Team
}

// NewRoster builds a roster from team names. Names must be unique and non-empty.
func NewRoster(names []string) (*Roster, error) {
	r := &Roster{index: make(map[string]Team, len(names))}
	for _, n := range names {
		if strings.TrimSpace(n) == "" {
			return nil, fmt.Errorf("empty team name in roster")
		}
		if _, dup := r.index[n]; dup {
			return nil, fmt.Errorf("duplicate team %q in roster", n)
		}
		t := Team(n)
		r.index[n] = t
		r.teams = append(r.teams, t)
	}
	return r, nil
}

// Lookup resolves a name by exact match.
func (r *Roster) Lookup(name string) (Team, bool) {
	t, ok := r.index[name]
	return t, ok
}

// Teams returns the roster in declaration order.
func (r *Roster) Teams() []Team {
	out := make([]Team, len(r.teams))
	copy(out, r.teams)
	return out
}

// Len returns the number of teams.
func (r *Roster) Len() int { return len(r.teams) }

// Liga1Teams is the 2024/25 Liga 1 roster.
var Liga1Teams = []string{
	"AREMA FC",
	"Bali United FC",
	"Borneo FC Samarinda",
	"Dewa United FC",
	"Madura United FC",
	"Malut United FC",
	"PERSEBAYA Surabaya",
	"PERSIS Solo",
	"PSS Sleman",
	"PSIS Semarang",
	"PERSIJA Jakarta",
	"PERSIB Bandung",
	"PERSITA Tangerang",
	"PSBS Biak",
	"PSM Makassar",
	"PERSIK Kediri",
	"PS Barito Putera",
	"Semen Padang FC",
}

// DefaultRoster returns the Liga 1 roster.
func DefaultRoster() *Roster {
	r, err := NewRoster(Liga1Teams)
	if err != nil {
		panic(err)
	}
	return r
}

// Fixture is a match label parsed into its two participants.
type Fixture struct {
	Label string
	Home  Team
	Away  Team
}

// Opponent returns the participant that is not t.
func (f Fixture) Opponent(t Team) (Team, bool) {
	switch t {
	case f.Home:
		return f.Away, true
	case f.Away:
		return f.Home, true
	}
	return "", false
}

// ---- Per-team statistic sets ----

// CornerStats are one team's corner-kick figures for one fixture or season.
type CornerStats struct {
	CornersTaken     int
	ShotsFromCorners int
	XG               float64
}

// XGPerShot returns 0 when no shots were taken.
func (s CornerStats) XGPerShot() float64 {
	if s.ShotsFromCorners == 0 {
		return 0
	}
	return s.XG / float64(s.ShotsFromCorners)
}

// TiltStats are field-tilt shares (percent) by match state.
type TiltStats struct {
	Winning float64
	Drawing float64
	Losing  float64
}

// ---- Pipeline tables ----

// Observation is one team's row for one fixture. Week is 0 for weekless datasets.
type Observation[S any] struct {
	Row     int // 1-based source line
	Team    Team
	Fixture Fixture
	Week    int
	For     S
}

// Enriched carries the opponent's For figures as Against.
type Enriched[S any] struct {
	Observation[S]
	Opponent Team
	Against  S
}

// SeasonTotals is one team's reduced figures across every fixture it appears in.
type SeasonTotals[S any] struct {
	Team     Team
	Fixtures int
	For      S
	Against  S
}

// CornerSeason adds the per-fixture xG-per-shot means to the corner totals.
type CornerSeason struct {
	SeasonTotals[CornerStats]
	MeanXGPerShot         float64
	MeanXGPerShotConceded float64
}

// TiltSeason is the field-tilt season record.
type TiltSeason = SeasonTotals[TiltStats]

// DerivedMetrics are the efficiency ratios handed to presentation.
type DerivedMetrics struct {
	Team                   Team
	XGPerShot              float64
	ShotsPerCorner         float64
	XGPerShotConceded      float64
	ShotsConcededPerCorner float64
}

// Dataset names the input variant.
type Dataset string

const (
	DatasetCorners Dataset = "corners"
	DatasetTilt    Dataset = "tilt"
)

// RunSummary is a lightweight record for list/show commands.
type RunSummary struct {
	Hash         string
	Dataset      Dataset
	SourcePath   string
	LoadedAt     string
	Observations int
	Teams        int
	Weeks        int
	Gaps         int
}

// GapRecord is a stored, reported data gap.
type GapRecord struct {
	Team   Team
	Kind   string
	Detail string
}
