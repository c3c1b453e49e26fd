package loader

import (
	"fmt"
	"strings"

	"github.com/pable/go-ck-metrics/internal/model"
)

// FixtureSeparator is the token between the two participants of a match label.
const FixtureSeparator = "vs"

// ParseFixture splits "<home> vs <away>" on a whitespace-delimited separator token and
// resolves both sides against the roster. Team names containing "vs" as a substring
// (not as a standalone word) are never split.
func ParseFixture(label string, roster *model.Roster) (model.Fixture, error) {
	fields := strings.Fields(label)
	sep := -1
	for i, f := range fields {
		if f != FixtureSeparator {
			continue
		}
		if sep >= 0 {
			return model.Fixture{}, fmt.Errorf("%w: separator appears more than once", ErrBadFixture)
		}
		sep = i
	}
	if sep <= 0 || sep == len(fields)-1 {
		return model.Fixture{}, ErrBadFixture
	}

	homeName := strings.Join(fields[:sep], " ")
	awayName := strings.Join(fields[sep+1:], " ")
	home, ok := roster.Lookup(homeName)
	if !ok {
		return model.Fixture{}, fmt.Errorf("%w: %q", ErrUnknownTeam, homeName)
	}
	away, ok := roster.Lookup(awayName)
	if !ok {
		return model.Fixture{}, fmt.Errorf("%w: %q", ErrUnknownTeam, awayName)
	}
	if home == away {
		return model.Fixture{}, fmt.Errorf("%w: %q plays itself", ErrBadFixture, homeName)
	}
	return model.Fixture{Label: strings.Join(fields, " "), Home: home, Away: away}, nil
}
