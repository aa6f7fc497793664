// Package interaction turns pointer gestures over the rendered timeline
// into store mutations. All edits from the editor go through Guard, which
// holds the invariants the store itself does not check.
package interaction

import (
	"fmt"

	"github.com/aschmelyun/robomovie/internal/logger"
	"github.com/aschmelyun/robomovie/internal/timeline"
	"go.uber.org/zap"
)

// Guard wraps a store with range, lock and volume checks. A refused call
// returns one of the timeline sentinel errors and changes nothing.
type Guard struct {
	store *timeline.Store
}

func NewGuard(store *timeline.Store) *Guard {
	return &Guard{store: store}
}

func (g *Guard) Store() *timeline.Store { return g.store }

func reject(op string, err error, fields ...zap.Field) error {
	logger.Debug("edit rejected", append(fields, zap.String("op", op), zap.Error(err))...)
	return err
}

func validRange(start, end float64) error {
	if start < 0 || start >= end {
		return fmt.Errorf("range [%.3f, %.3f): %w", start, end, timeline.ErrInvalidRange)
	}
	return nil
}

// editable returns the clip and its track when the track accepts edits.
func (g *Guard) editable(clipID string) (timeline.Clip, timeline.Track, error) {
	track, ok := g.store.TrackForClip(clipID)
	if !ok {
		return timeline.Clip{}, timeline.Track{}, fmt.Errorf("clip %s: %w", clipID, timeline.ErrNotFound)
	}
	clip, _ := track.Clip(clipID)
	if track.Locked {
		return clip, track, fmt.Errorf("track %s: %w", track.Name, timeline.ErrLocked)
	}
	return clip, track, nil
}

func (g *Guard) unlockedTrack(trackID string) (timeline.Track, error) {
	track, ok := g.store.Track(trackID)
	if !ok {
		return track, fmt.Errorf("track %s: %w", trackID, timeline.ErrNotFound)
	}
	if track.Locked {
		return track, fmt.Errorf("track %s: %w", track.Name, timeline.ErrLocked)
	}
	return track, nil
}

// Resize requires 0 <= start < end.
func (g *Guard) Resize(clipID string, start, end float64) error {
	if _, _, err := g.editable(clipID); err != nil {
		return reject("resize", err, zap.String("clip", clipID))
	}
	if err := validRange(start, end); err != nil {
		return reject("resize", err, zap.String("clip", clipID))
	}
	if err := g.store.ResizeClip(clipID, start, end); err != nil {
		return reject("resize", err, zap.String("clip", clipID))
	}
	logger.Debug("clip resized", zap.String("clip", clipID), zap.Float64("start", start), zap.Float64("end", end))
	return nil
}

// Move refuses a locked source or destination and a negative start.
func (g *Guard) Move(clipID, trackID string, start float64) error {
	clip, _, err := g.editable(clipID)
	if err != nil {
		return reject("move", err, zap.String("clip", clipID))
	}
	if _, err := g.unlockedTrack(trackID); err != nil {
		return reject("move", err, zap.String("clip", clipID))
	}
	if err := validRange(start, start+clip.Duration()); err != nil {
		return reject("move", err, zap.String("clip", clipID))
	}
	if err := g.store.MoveClip(clipID, trackID, start); err != nil {
		return reject("move", err, zap.String("clip", clipID))
	}
	logger.Debug("clip moved", zap.String("clip", clipID), zap.String("track", trackID), zap.Float64("start", start))
	return nil
}

func (g *Guard) Split(clipID string, at float64) (timeline.Clip, error) {
	if _, _, err := g.editable(clipID); err != nil {
		return timeline.Clip{}, reject("split", err, zap.String("clip", clipID))
	}
	second, err := g.store.SplitClip(clipID, at)
	if err != nil {
		return timeline.Clip{}, reject("split", err, zap.String("clip", clipID))
	}
	logger.Debug("clip split", zap.String("clip", clipID), zap.String("new", second.ID), zap.Float64("at", at))
	return second, nil
}

// SplitAtOffset splits at the time under cell offset x of a clip drawn
// width cells wide.
func (g *Guard) SplitAtOffset(clip timeline.Clip, x, width int) (timeline.Clip, error) {
	return g.Split(clip.ID, SplitTime(clip.Start, clip.End, x, width))
}

// RemoveClip deletes the clip from whichever track holds it.
func (g *Guard) RemoveClip(clipID string) error {
	_, track, err := g.editable(clipID)
	if err != nil {
		return reject("remove", err, zap.String("clip", clipID))
	}
	if err := g.store.RemoveClip(track.ID, clipID); err != nil {
		return reject("remove", err, zap.String("clip", clipID))
	}
	logger.Debug("clip removed", zap.String("clip", clipID), zap.String("track", track.ID))
	return nil
}

func (g *Guard) AddClip(trackID string, spec timeline.ClipSpec) (timeline.Clip, error) {
	if _, err := g.unlockedTrack(trackID); err != nil {
		return timeline.Clip{}, reject("add", err, zap.String("track", trackID))
	}
	end := spec.End
	if end == 0 {
		end = timeline.DefaultClipEnd
	}
	if err := validRange(spec.Start, end); err != nil {
		return timeline.Clip{}, reject("add", err, zap.String("track", trackID))
	}
	clip, err := g.store.AddClip(trackID, spec)
	if err != nil {
		return timeline.Clip{}, reject("add", err, zap.String("track", trackID))
	}
	logger.Debug("clip added", zap.String("clip", clip.ID), zap.String("track", trackID))
	return clip, nil
}

// SetTrackVolume clamps volume to [0,1]. Locked tracks keep their volume.
func (g *Guard) SetTrackVolume(trackID string, volume float64) error {
	if _, err := g.unlockedTrack(trackID); err != nil {
		return reject("track volume", err, zap.String("track", trackID))
	}
	if err := g.store.SetTrackVolume(trackID, clamp01(volume)); err != nil {
		return reject("track volume", err, zap.String("track", trackID))
	}
	return nil
}

// SetClipVolume clamps volume to [0,1].
func (g *Guard) SetClipVolume(clipID string, volume float64) error {
	if _, _, err := g.editable(clipID); err != nil {
		return reject("clip volume", err, zap.String("clip", clipID))
	}
	if err := g.store.SetClipVolume(clipID, clamp01(volume)); err != nil {
		return reject("clip volume", err, zap.String("clip", clipID))
	}
	return nil
}

func (g *Guard) UpdateStyle(clipID string, patch timeline.TextStylePatch) error {
	if _, _, err := g.editable(clipID); err != nil {
		return reject("style", err, zap.String("clip", clipID))
	}
	if patch.FontSize != nil && *patch.FontSize <= 0 {
		return reject("style", fmt.Errorf("font size %d: %w", *patch.FontSize, timeline.ErrInvalidRange), zap.String("clip", clipID))
	}
	if err := g.store.UpdateClipStyle(clipID, patch); err != nil {
		return reject("style", err, zap.String("clip", clipID))
	}
	return nil
}

func (g *Guard) RenameClip(clipID, name string) error {
	if _, _, err := g.editable(clipID); err != nil {
		return reject("rename", err, zap.String("clip", clipID))
	}
	return g.store.RenameClip(clipID, name)
}

// RenameTrack refuses locked tracks like every other track edit.
func (g *Guard) RenameTrack(trackID, name string) error {
	if _, err := g.unlockedTrack(trackID); err != nil {
		return reject("rename track", err, zap.String("track", trackID))
	}
	return g.store.RenameTrack(trackID, name)
}

func (g *Guard) SetClipContent(clipID, content string) error {
	if _, _, err := g.editable(clipID); err != nil {
		return reject("content", err, zap.String("clip", clipID))
	}
	if err := g.store.SetClipContent(clipID, content); err != nil {
		return reject("content", err, zap.String("clip", clipID))
	}
	return nil
}

// ToggleSelect selects the clip, or clears the selection when it is
// already the selected one.
func (g *Guard) ToggleSelect(clipID string) error {
	if g.store.SelectedClipID() == clipID {
		return g.store.SelectClip("")
	}
	return g.store.SelectClip(clipID)
}

func clamp01(v float64) float64 {
	return min(max(v, 0), 1)
}
