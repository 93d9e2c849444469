package api

import (
	"errors"

	service "github.com/foostable/ladder/internal/app"
	"github.com/foostable/ladder/internal/domain/skill"
	"github.com/foostable/ladder/internal/domain/team"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
)

// isBadRequest reports whether err is a caller bug that should map to a
// 400 rather than a 500.
func isBadRequest(err error) bool {
	return errors.Is(err, ErrBadRequest) ||
		errors.Is(err, skill.ErrInvalidOutcome) ||
		errors.Is(err, team.ErrDegenerateTeam) ||
		errors.Is(err, service.ErrInactivePlayer) ||
		errors.Is(err, service.ErrDuplicatePlayer)
}
