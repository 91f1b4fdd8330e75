package domain

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrScheduleUnavailable    = errors.New("schedule unavailable")
	ErrGameContentUnavailable = errors.New("game content unavailable")
	ErrUnknownTeam            = errors.New("unknown team")
	ErrNoGame                 = errors.New("no game scheduled")
	ErrNoMatchingFeed         = errors.New("no matching feed")
	ErrStreamNotLive          = errors.New("stream not live")
	ErrManifestMalformed      = errors.New("manifest malformed")
	ErrQualityUnavailable     = errors.New("quality unavailable")
	ErrNetwork                = errors.New("network error")
)

// Stage names the step of stream resolution that produced an error.
type Stage string

const (
	StageMaster   Stage = "master"
	StageManifest Stage = "manifest"
	StageQuality  Stage = "quality"
)

// FeedError ties a resolution failure to the game and feed it belongs to.
type FeedError struct {
	GameID int
	Feed   FeedType
	Stage  Stage
	Err    error
}

func (e *FeedError) Error() string {
	return fmt.Sprintf("game %d %s feed: %s: %v", e.GameID, e.Feed, e.Stage, e.Err)
}

func (e *FeedError) Unwrap() error {
	return e.Err
}

// AsFeedError attempts to unwrap an error into a FeedError.
func AsFeedError(err error) (*FeedError, bool) {
	var feedErr *FeedError
	if errors.As(err, &feedErr) {
		return feedErr, true
	}
	return nil, false
}

// NetworkError wraps a transport failure so it matches ErrNetwork.
func NetworkError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrNetwork, err)
}

// IsRecoverable reports whether waiting and retrying can change the outcome.
func IsRecoverable(err error) bool {
	return errors.Is(err, ErrStreamNotLive) || errors.Is(err, ErrNetwork)
}

// IsCanceled reports whether err stems from context cancellation or deadline.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
