package project

import (
	"errors"
	"fmt"
	"slices"

	"github.com/aschmelyun/robomovie/internal/timeline"
	"github.com/samber/lo"
)

// Timeline is the saved form of the timeline store.
type Timeline struct {
	Tracks          []Track `json:"tracks"`
	SelectedTrackID string  `json:"selectedTrackId,omitempty"`
	SelectedClipID  string  `json:"selectedClipId,omitempty"`
	Zoom            float64 `json:"zoom"`
	ScrollPosition  float64 `json:"scrollPosition"`
	SnapToGrid      bool    `json:"snapToGrid"`
	GridSize        int     `json:"gridSize"`
}

type Track struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Kind     timeline.Kind `json:"type"`
	IsLocked bool          `json:"isLocked"`
	Visible  bool          `json:"isVisible"`
	Order    int           `json:"order"`
	Volume   *float64      `json:"volume,omitempty"`
	Clips    []Clip        `json:"clips"`
}

type Clip struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Kind      timeline.Kind `json:"type"`
	StartTime float64       `json:"startTime"`
	EndTime   float64       `json:"endTime"`
	Source    string        `json:"source,omitempty"`
	Thumbnail string        `json:"thumbnail,omitempty"`
	Waveform  string        `json:"waveform,omitempty"`
	Volume    *float64      `json:"volume,omitempty"`
	Content   string        `json:"content,omitempty"`
	Style     *Style        `json:"style,omitempty"`
}

type Style struct {
	FontSize   int                `json:"fontSize"`
	FontFamily string             `json:"fontFamily"`
	Color      string             `json:"color"`
	Alignment  timeline.Alignment `json:"alignment"`
}

// Snapshot captures the store for saving.
func Snapshot(store *timeline.Store) *Timeline {
	st := store.Snapshot()
	return &Timeline{
		Tracks:          FromTracks(st.Tracks),
		SelectedTrackID: st.SelectedTrackID,
		SelectedClipID:  st.SelectedClipID,
		Zoom:            st.Zoom,
		ScrollPosition:  st.ScrollPosition,
		SnapToGrid:      st.SnapToGrid,
		GridSize:        st.GridSize,
	}
}

// FromTracks converts store tracks to their saved form.
func FromTracks(tracks []timeline.Track) []Track {
	return lo.Map(tracks, func(t timeline.Track, _ int) Track { return trackDTO(t) })
}

func trackDTO(t timeline.Track) Track {
	dto := Track{
		ID:       t.ID,
		Name:     t.Name,
		Kind:     t.Kind,
		IsLocked: t.Locked,
		Visible:  t.Visible,
		Order:    t.Order,
		Clips:    lo.Map(t.Clips, func(c timeline.Clip, _ int) Clip { return clipDTO(c) }),
	}
	if t.Kind == timeline.KindAudio {
		v := t.Volume
		dto.Volume = &v
	}
	return dto
}

func clipDTO(c timeline.Clip) Clip {
	dto := Clip{
		ID:        c.ID,
		Name:      c.Name,
		Kind:      c.Kind(),
		StartTime: c.Start,
		EndTime:   c.End,
	}
	switch b := c.Body.(type) {
	case timeline.VideoBody:
		dto.Source = b.Source
		dto.Thumbnail = b.Thumbnail
	case timeline.AudioBody:
		v := b.Volume
		dto.Source = b.Source
		dto.Waveform = b.Waveform
		dto.Volume = &v
	case timeline.TextBody:
		s := Style(b.Style)
		dto.Content = b.Content
		dto.Style = &s
	}
	return dto
}

// ErrDuplicateID is returned when a saved timeline reuses a track or clip id.
var ErrDuplicateID = errors.New("duplicate id")

// State converts the saved timeline back into store state. A clip whose
// kind differs from its track's is refused with ErrKindMismatch, a clip
// outside 0 <= start < end with ErrInvalidRange and a reused id with
// ErrDuplicateID. Clashing track orders are renumbered and selections that
// point at nothing are cleared.
func (tl *Timeline) State() (timeline.State, error) {
	st := timeline.State{
		SelectedTrackID: tl.SelectedTrackID,
		SelectedClipID:  tl.SelectedClipID,
		Zoom:            tl.Zoom,
		ScrollPosition:  tl.ScrollPosition,
		SnapToGrid:      tl.SnapToGrid,
		GridSize:        tl.GridSize,
	}
	if st.Zoom <= 0 {
		st.Zoom = timeline.DefaultZoom
	}
	trackIDs := map[string]bool{}
	clipTracks := map[string]string{}
	for _, t := range tl.Tracks {
		if trackIDs[t.ID] {
			return timeline.State{}, fmt.Errorf("track %s: %w", t.ID, ErrDuplicateID)
		}
		trackIDs[t.ID] = true
		if !t.Kind.Valid() {
			return timeline.State{}, fmt.Errorf("track %s kind %d: %w", t.ID, int(t.Kind), timeline.ErrKindMismatch)
		}
		track := timeline.Track{
			ID:      t.ID,
			Name:    t.Name,
			Kind:    t.Kind,
			Locked:  t.IsLocked,
			Visible: t.Visible,
			Order:   t.Order,
			Volume:  1,
			Clips:   make([]timeline.Clip, 0, len(t.Clips)),
		}
		if t.Volume != nil {
			track.Volume = *t.Volume
		}
		for _, c := range t.Clips {
			if c.Kind != t.Kind {
				return timeline.State{}, fmt.Errorf("%s clip %s on %s track %s: %w", c.Kind, c.ID, t.Kind, t.ID, timeline.ErrKindMismatch)
			}
			if _, seen := clipTracks[c.ID]; seen {
				return timeline.State{}, fmt.Errorf("clip %s: %w", c.ID, ErrDuplicateID)
			}
			if c.StartTime < 0 || c.StartTime >= c.EndTime {
				return timeline.State{}, fmt.Errorf("clip %s %g..%g: %w", c.ID, c.StartTime, c.EndTime, timeline.ErrInvalidRange)
			}
			clipTracks[c.ID] = t.ID
			track.Clips = append(track.Clips, clipFromDTO(c, t.ID))
		}
		st.Tracks = append(st.Tracks, track)
	}
	renumber(st.Tracks)

	if trackID, ok := clipTracks[st.SelectedClipID]; ok {
		st.SelectedTrackID = trackID
	} else {
		st.SelectedClipID = ""
	}
	if !trackIDs[st.SelectedTrackID] {
		st.SelectedTrackID = ""
	}
	return st, nil
}

// renumber gives tracks distinct orders when the saved ones clash, keeping
// their relative order and file order among equals.
func renumber(tracks []timeline.Track) {
	if len(lo.UniqBy(tracks, func(t timeline.Track) int { return t.Order })) == len(tracks) {
		return
	}
	sorted := slices.Clone(tracks)
	slices.SortStableFunc(sorted, func(a, b timeline.Track) int { return a.Order - b.Order })
	for i, t := range sorted {
		idx := slices.IndexFunc(tracks, func(x timeline.Track) bool { return x.ID == t.ID })
		tracks[idx].Order = i
	}
}

func clipFromDTO(c Clip, trackID string) timeline.Clip {
	clip := timeline.Clip{
		ID:      c.ID,
		TrackID: trackID,
		Name:    c.Name,
		Start:   c.StartTime,
		End:     c.EndTime,
	}
	switch c.Kind {
	case timeline.KindVideo:
		clip.Body = timeline.VideoBody{Source: c.Source, Thumbnail: c.Thumbnail}
	case timeline.KindAudio:
		volume := 1.0
		if c.Volume != nil {
			volume = *c.Volume
		}
		clip.Body = timeline.AudioBody{Source: c.Source, Volume: volume, Waveform: c.Waveform}
	case timeline.KindText:
		style := timeline.DefaultTextStyle
		if c.Style != nil {
			style = timeline.TextStyle(*c.Style)
		}
		clip.Body = timeline.TextBody{Content: c.Content, Style: style}
	}
	return clip
}

// Apply restores the saved timeline into store, leaving the store
// untouched when the file is inconsistent.
func (tl *Timeline) Apply(store *timeline.Store) error {
	st, err := tl.State()
	if err != nil {
		return err
	}
	store.Restore(st)
	return nil
}
