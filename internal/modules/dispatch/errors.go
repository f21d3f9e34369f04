// README: Error taxonomy for dispatch rounds.
package dispatch

import "errors"

var (
	// ErrOutsideServiceArea reports a pickup that classifies to no zone.
	// No round is started.
	ErrOutsideServiceArea = errors.New("dispatch: pickup outside service area")

	// ErrNoCandidates means filtering left nobody to offer. Returned
	// immediately; no partner is ever reserved.
	ErrNoCandidates = errors.New("dispatch: no eligible partners")

	// ErrRoutingFailed marks a distance batch that cannot be trusted.
	// The round aborts and the trip is marked failed.
	ErrRoutingFailed = errors.New("dispatch: routing batch failed")

	// ErrNoAcceptance means offers ran out or the global deadline passed
	// with nobody accepting. Surfaced to riders as no drivers available.
	ErrNoAcceptance = errors.New("dispatch: no partner accepted")
)
