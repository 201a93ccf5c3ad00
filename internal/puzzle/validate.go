package puzzle

import "fmt"

// Validation error codes.
const (
	CodeBadSize        = "BAD_SIZE"
	CodeTileCount      = "TILE_COUNT"
	CodeCarrierCount   = "CARRIER_COUNT"
	CodeBeamCount      = "BEAM_COUNT"
	CodeCarrierBlocked = "CARRIER_BLOCKED"
	CodeBeamBlocked    = "BEAM_BLOCKED"
	CodeBadDirection   = "BAD_DIRECTION"
	CodeDetachedBeam   = "DETACHED_BEAM"
	CodeBadGround      = "BAD_GROUND"
)

// ValidationError contains details about a level or snapshot that breaks the
// board invariants.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}
