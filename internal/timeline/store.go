package timeline

import (
	"fmt"
	"maps"
	"math"
	"slices"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

const (
	DefaultClipName = "New Clip"
	DefaultClipEnd  = 5000.0
	DefaultZoom     = 1.0
	DefaultGridSize = 10
)

// State is a point-in-time copy of everything the store holds. An empty
// selection id means nothing is selected.
type State struct {
	Tracks          []Track
	SelectedTrackID string
	SelectedClipID  string
	Zoom            float64
	ScrollPosition  float64
	SnapToGrid      bool
	GridSize        int
}

func (s State) clone() State {
	s.Tracks = lo.Map(s.Tracks, func(t Track, _ int) Track { return t.clone() })
	return s
}

// Store is the single owner of tracks and clips. It is a plain container:
// it checks identifiers and kinds, but time ranges passed to ResizeClip and
// volumes passed to SetTrackVolume are stored as given. Range and lock
// enforcement live in the interaction layer that wraps it.
//
// Store is not safe for concurrent use; the editor drives it from one
// goroutine.
type Store struct {
	state   State
	newID   func() string
	subs    map[int]func()
	nextSub int
}

type Option func(*Store)

// WithIDGenerator replaces the uuid generator, mostly for tests.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		state: initialState(),
		newID: func() string { return uuid.New().String() },
		subs:  map[int]func(){},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func initialState() State {
	return State{
		Tracks:     []Track{},
		Zoom:       DefaultZoom,
		SnapToGrid: true,
		GridSize:   DefaultGridSize,
	}
}

// Subscribe registers fn to run after every successful mutation and returns
// the func that removes it.
func (s *Store) Subscribe(fn func()) func() {
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() { delete(s.subs, id) }
}

func (s *Store) changed() {
	for _, id := range slices.Sorted(maps.Keys(s.subs)) {
		if fn, ok := s.subs[id]; ok {
			fn()
		}
	}
}

// Snapshot returns a deep copy of the whole state.
func (s *Store) Snapshot() State { return s.state.clone() }

// Tracks returns copies of all tracks in order.
func (s *Store) Tracks() []Track { return s.state.clone().Tracks }

func (s *Store) Track(trackID string) (Track, bool) {
	t, ok := lo.Find(s.state.Tracks, func(t Track) bool { return t.ID == trackID })
	if !ok {
		return Track{}, false
	}
	return t.clone(), true
}

// FindClip scans every track for the clip.
func (s *Store) FindClip(clipID string) (Clip, bool) {
	ti, ci := s.locateClip(clipID)
	if ti < 0 {
		return Clip{}, false
	}
	return s.state.Tracks[ti].Clips[ci], true
}

// TrackForClip returns the track currently holding the clip.
func (s *Store) TrackForClip(clipID string) (Track, bool) {
	ti, _ := s.locateClip(clipID)
	if ti < 0 {
		return Track{}, false
	}
	return s.state.Tracks[ti].clone(), true
}

// ClipIDs lists every clip id across all tracks.
func (s *Store) ClipIDs() []string {
	return lo.FlatMap(s.state.Tracks, func(t Track, _ int) []string {
		return lo.Map(t.Clips, func(c Clip, _ int) string { return c.ID })
	})
}

func (s *Store) SelectedTrackID() string { return s.state.SelectedTrackID }
func (s *Store) SelectedClipID() string  { return s.state.SelectedClipID }
func (s *Store) Zoom() float64           { return s.state.Zoom }
func (s *Store) ScrollPosition() float64 { return s.state.ScrollPosition }
func (s *Store) SnapEnabled() bool       { return s.state.SnapToGrid }
func (s *Store) GridSize() int           { return s.state.GridSize }

func (s *Store) trackIndex(trackID string) int {
	_, idx, _ := lo.FindIndexOf(s.state.Tracks, func(t Track) bool { return t.ID == trackID })
	return idx
}

func (s *Store) locateClip(clipID string) (trackIdx, clipIdx int) {
	for ti, t := range s.state.Tracks {
		if ci := t.clipIndex(clipID); ci >= 0 {
			return ti, ci
		}
	}
	return -1, -1
}

func (s *Store) nextOrder() int {
	if len(s.state.Tracks) == 0 {
		return 0
	}
	return lo.MaxBy(s.state.Tracks, func(a, b Track) bool { return a.Order > b.Order }).Order + 1
}

func (s *Store) sortTracks() {
	slices.SortStableFunc(s.state.Tracks, func(a, b Track) int { return a.Order - b.Order })
}

// AddTrack appends an empty, visible, unlocked track after the current last one.
func (s *Store) AddTrack(kind Kind, name string) Track {
	track := Track{
		ID:      s.newID(),
		Name:    name,
		Kind:    kind,
		Visible: true,
		Order:   s.nextOrder(),
		Volume:  1,
		Clips:   []Clip{},
	}
	s.state.Tracks = append(s.state.Tracks, track)
	s.changed()
	return track.clone()
}

// RemoveTrack deletes the track and every clip on it, clearing any
// selection that pointed into it.
func (s *Store) RemoveTrack(trackID string) error {
	idx := s.trackIndex(trackID)
	if idx < 0 {
		return fmt.Errorf("track %s: %w", trackID, ErrNotFound)
	}
	removed := s.state.Tracks[idx]
	s.state.Tracks = slices.Delete(s.state.Tracks, idx, idx+1)

	if s.state.SelectedTrackID == trackID {
		s.state.SelectedTrackID = ""
	}
	if removed.clipIndex(s.state.SelectedClipID) >= 0 {
		s.state.SelectedClipID = ""
	}
	s.changed()
	return nil
}

// ReorderTrack gives the track newOrder and shifts every other track at or
// after that position down by one.
func (s *Store) ReorderTrack(trackID string, newOrder int) error {
	idx := s.trackIndex(trackID)
	if idx < 0 {
		return fmt.Errorf("track %s: %w", trackID, ErrNotFound)
	}
	for i := range s.state.Tracks {
		switch {
		case i == idx:
			s.state.Tracks[i].Order = newOrder
		case s.state.Tracks[i].Order >= newOrder:
			s.state.Tracks[i].Order++
		}
	}
	s.sortTracks()
	s.changed()
	return nil
}

func (s *Store) ToggleTrackLock(trackID string) error {
	return s.updateTrack(trackID, func(t *Track) error {
		t.Locked = !t.Locked
		return nil
	})
}

func (s *Store) ToggleTrackVisibility(trackID string) error {
	return s.updateTrack(trackID, func(t *Track) error {
		t.Visible = !t.Visible
		return nil
	})
}

// SetTrackVolume stores volume as given; callers clamp it to [0,1].
// Non-audio tracks reject the call with ErrKindMismatch.
func (s *Store) SetTrackVolume(trackID string, volume float64) error {
	return s.updateTrack(trackID, func(t *Track) error {
		if t.Kind != KindAudio {
			return fmt.Errorf("track %s is %s: %w", t.ID, t.Kind, ErrKindMismatch)
		}
		t.Volume = volume
		return nil
	})
}

func (s *Store) RenameTrack(trackID, name string) error {
	return s.updateTrack(trackID, func(t *Track) error {
		t.Name = name
		return nil
	})
}

func (s *Store) updateTrack(trackID string, fn func(*Track) error) error {
	idx := s.trackIndex(trackID)
	if idx < 0 {
		return fmt.Errorf("track %s: %w", trackID, ErrNotFound)
	}
	t := s.state.Tracks[idx]
	if err := fn(&t); err != nil {
		return err
	}
	s.state.Tracks[idx] = t
	s.changed()
	return nil
}

// AddClip builds a clip of the track's kind from spec and appends it.
func (s *Store) AddClip(trackID string, spec ClipSpec) (Clip, error) {
	idx := s.trackIndex(trackID)
	if idx < 0 {
		return Clip{}, fmt.Errorf("track %s: %w", trackID, ErrNotFound)
	}
	clip := spec.build(s.newID(), s.state.Tracks[idx])
	s.state.Tracks[idx].Clips = append(s.state.Tracks[idx].Clips, clip)
	s.changed()
	return clip, nil
}

// RemoveClip removes the clip from the named track only.
func (s *Store) RemoveClip(trackID, clipID string) error {
	idx := s.trackIndex(trackID)
	if idx < 0 {
		return fmt.Errorf("track %s: %w", trackID, ErrNotFound)
	}
	ci := s.state.Tracks[idx].clipIndex(clipID)
	if ci < 0 {
		return fmt.Errorf("clip %s on track %s: %w", clipID, trackID, ErrNotFound)
	}
	s.state.Tracks[idx].Clips = slices.Delete(s.state.Tracks[idx].Clips, ci, ci+1)
	if s.state.SelectedClipID == clipID {
		s.state.SelectedClipID = ""
	}
	s.changed()
	return nil
}

// MoveClip places the clip on newTrackID starting at newStart, keeping its
// duration. The destination must have the clip's kind.
func (s *Store) MoveClip(clipID, newTrackID string, newStart float64) error {
	ti, ci := s.locateClip(clipID)
	if ti < 0 {
		return fmt.Errorf("clip %s: %w", clipID, ErrNotFound)
	}
	dst := s.trackIndex(newTrackID)
	if dst < 0 {
		return fmt.Errorf("track %s: %w", newTrackID, ErrNotFound)
	}
	clip := s.state.Tracks[ti].Clips[ci]
	if s.state.Tracks[dst].Kind != clip.Kind() {
		return fmt.Errorf("%s clip onto %s track: %w", clip.Kind(), s.state.Tracks[dst].Kind, ErrKindMismatch)
	}

	duration := clip.Duration()
	clip.TrackID = newTrackID
	clip.Start = newStart
	clip.End = newStart + duration

	s.state.Tracks[ti].Clips = slices.Delete(s.state.Tracks[ti].Clips, ci, ci+1)
	s.state.Tracks[dst].Clips = append(s.state.Tracks[dst].Clips, clip)
	s.changed()
	return nil
}

// ResizeClip sets both bounds wherever the clip lives. Ordering is not
// checked here.
func (s *Store) ResizeClip(clipID string, newStart, newEnd float64) error {
	return s.updateClip(clipID, func(c *Clip) error {
		c.Start = newStart
		c.End = newEnd
		return nil
	})
}

// SplitClip cuts the clip at time at. The original id keeps [start, at) and
// a new clip with a fresh id takes [at, end), inserted right after it.
// Times on or outside the clip bounds are rejected with ErrInvalidRange.
func (s *Store) SplitClip(clipID string, at float64) (Clip, error) {
	ti, ci := s.locateClip(clipID)
	if ti < 0 {
		return Clip{}, fmt.Errorf("clip %s: %w", clipID, ErrNotFound)
	}
	first := s.state.Tracks[ti].Clips[ci]
	if at <= first.Start || at >= first.End {
		return Clip{}, fmt.Errorf("split at %.3f outside (%.3f, %.3f): %w", at, first.Start, first.End, ErrInvalidRange)
	}

	second := first
	second.ID = s.newID()
	second.Start = at
	first.End = at

	clips := s.state.Tracks[ti].Clips
	clips[ci] = first
	s.state.Tracks[ti].Clips = slices.Insert(clips, ci+1, second)
	s.changed()
	return second, nil
}

// UpdateClipStyle merges patch into a text clip's style.
func (s *Store) UpdateClipStyle(clipID string, patch TextStylePatch) error {
	return s.updateClip(clipID, func(c *Clip) error {
		body, ok := c.Body.(TextBody)
		if !ok {
			return fmt.Errorf("style on %s clip: %w", c.Kind(), ErrKindMismatch)
		}
		body.Style = body.Style.Merge(patch)
		c.Body = body
		return nil
	})
}

func (s *Store) RenameClip(clipID, name string) error {
	return s.updateClip(clipID, func(c *Clip) error {
		c.Name = name
		return nil
	})
}

// SetClipContent replaces the text of a text clip.
func (s *Store) SetClipContent(clipID, content string) error {
	return s.updateClip(clipID, func(c *Clip) error {
		body, ok := c.Body.(TextBody)
		if !ok {
			return fmt.Errorf("content on %s clip: %w", c.Kind(), ErrKindMismatch)
		}
		body.Content = content
		c.Body = body
		return nil
	})
}

// SetClipVolume stores an audio clip's gain as given.
func (s *Store) SetClipVolume(clipID string, volume float64) error {
	return s.updateClip(clipID, func(c *Clip) error {
		body, ok := c.Body.(AudioBody)
		if !ok {
			return fmt.Errorf("volume on %s clip: %w", c.Kind(), ErrKindMismatch)
		}
		body.Volume = volume
		c.Body = body
		return nil
	})
}

func (s *Store) updateClip(clipID string, fn func(*Clip) error) error {
	ti, ci := s.locateClip(clipID)
	if ti < 0 {
		return fmt.Errorf("clip %s: %w", clipID, ErrNotFound)
	}
	c := s.state.Tracks[ti].Clips[ci]
	if err := fn(&c); err != nil {
		return err
	}
	s.state.Tracks[ti].Clips[ci] = c
	s.changed()
	return nil
}

// SelectTrack selects a track, or clears the selection for "". A selected
// clip on a different track is deselected.
func (s *Store) SelectTrack(trackID string) error {
	if trackID != "" && s.trackIndex(trackID) < 0 {
		return fmt.Errorf("track %s: %w", trackID, ErrNotFound)
	}
	s.state.SelectedTrackID = trackID
	if s.state.SelectedClipID != "" {
		if ti, _ := s.locateClip(s.state.SelectedClipID); ti < 0 || s.state.Tracks[ti].ID != trackID {
			s.state.SelectedClipID = ""
		}
	}
	s.changed()
	return nil
}

// SelectClip selects a clip and its track, or clears the clip selection for "".
func (s *Store) SelectClip(clipID string) error {
	if clipID == "" {
		s.state.SelectedClipID = ""
		s.changed()
		return nil
	}
	ti, _ := s.locateClip(clipID)
	if ti < 0 {
		return fmt.Errorf("clip %s: %w", clipID, ErrNotFound)
	}
	s.state.SelectedClipID = clipID
	s.state.SelectedTrackID = s.state.Tracks[ti].ID
	s.changed()
	return nil
}

// SetZoom stores the zoom factor; callers keep it inside [0.5, 2].
func (s *Store) SetZoom(zoom float64) {
	s.state.Zoom = zoom
	s.changed()
}

func (s *Store) SetScrollPosition(position float64) {
	s.state.ScrollPosition = position
	s.changed()
}

func (s *Store) ToggleSnapToGrid() {
	s.state.SnapToGrid = !s.state.SnapToGrid
	s.changed()
}

func (s *Store) SetGridSize(size int) {
	s.state.GridSize = size
	s.changed()
}

// Snap rounds t to the nearest grid line when snapping is on. The grid size
// is counted in frames.
func (s *Store) Snap(t float64, fps int) float64 {
	if !s.state.SnapToGrid || s.state.GridSize <= 0 || fps <= 0 {
		return t
	}
	step := float64(s.state.GridSize) / float64(fps)
	return math.Round(t/step) * step
}

// Reset drops every track and restores default view settings.
func (s *Store) Reset() {
	s.state = initialState()
	s.changed()
}

// Restore replaces the whole state with a copy of st.
func (s *Store) Restore(st State) {
	s.state = st.clone()
	if s.state.Tracks == nil {
		s.state.Tracks = []Track{}
	}
	s.sortTracks()
	s.changed()
}
