package timeline

// Body carries the kind-specific part of a clip. The only implementations
// are VideoBody, AudioBody and TextBody.
type Body interface {
	Kind() Kind
	sealed()
}

type VideoBody struct {
	Source    string
	Thumbnail string
}

type AudioBody struct {
	Source   string
	Volume   float64
	Waveform string
}

type TextBody struct {
	Content string
	Style   TextStyle
}

func (VideoBody) Kind() Kind { return KindVideo }
func (AudioBody) Kind() Kind { return KindAudio }
func (TextBody) Kind() Kind  { return KindText }

func (VideoBody) sealed() {}
func (AudioBody) sealed() {}
func (TextBody) sealed()  {}

type Alignment string

const (
	AlignLeft   Alignment = "left"
	AlignCenter Alignment = "center"
	AlignRight  Alignment = "right"
)

type TextStyle struct {
	FontSize   int
	FontFamily string
	Color      string
	Alignment  Alignment
}

// DefaultTextStyle is applied to new text clips before any caller overrides.
var DefaultTextStyle = TextStyle{
	FontSize:   16,
	FontFamily: "Arial",
	Color:      "#FFFFFF",
	Alignment:  AlignCenter,
}

// TextStylePatch is a partial style; nil fields keep their current value.
type TextStylePatch struct {
	FontSize   *int
	FontFamily *string
	Color      *string
	Alignment  *Alignment
}

func (s TextStyle) Merge(p TextStylePatch) TextStyle {
	if p.FontSize != nil {
		s.FontSize = *p.FontSize
	}
	if p.FontFamily != nil {
		s.FontFamily = *p.FontFamily
	}
	if p.Color != nil {
		s.Color = *p.Color
	}
	if p.Alignment != nil {
		s.Alignment = *p.Alignment
	}
	return s
}

// Clip is a time-bounded piece of content on exactly one track.
// Start and End are in seconds.
type Clip struct {
	ID      string
	TrackID string
	Name    string
	Start   float64
	End     float64
	Body    Body
}

func (c Clip) Kind() Kind { return c.Body.Kind() }

func (c Clip) Duration() float64 { return c.End - c.Start }

// Contains reports whether t falls inside the half-open range [Start, End).
func (c Clip) Contains(t float64) bool { return t >= c.Start && t < c.End }

// Source returns the media reference for video and audio clips and the
// content for text clips.
func (c Clip) Source() string {
	switch b := c.Body.(type) {
	case VideoBody:
		return b.Source
	case AudioBody:
		return b.Source
	case TextBody:
		return b.Content
	}
	return ""
}

// ClipSpec is the partial clip data accepted by Store.AddClip. Zero values
// fall back to the defaults of the target track's kind; fields that do not
// belong to that kind are ignored.
type ClipSpec struct {
	Name      string
	Start     float64
	End       float64
	Source    string
	Thumbnail string
	Waveform  string
	Volume    *float64
	Content   string
	Style     TextStylePatch
}

func (spec ClipSpec) build(id string, track Track) Clip {
	clip := Clip{
		ID:      id,
		TrackID: track.ID,
		Name:    spec.Name,
		Start:   spec.Start,
		End:     spec.End,
	}
	if clip.Name == "" {
		clip.Name = DefaultClipName
	}
	if clip.End == 0 {
		clip.End = DefaultClipEnd
	}

	switch track.Kind {
	case KindVideo:
		clip.Body = VideoBody{Source: spec.Source, Thumbnail: spec.Thumbnail}
	case KindAudio:
		volume := 1.0
		if spec.Volume != nil {
			volume = *spec.Volume
		}
		clip.Body = AudioBody{Source: spec.Source, Volume: volume, Waveform: spec.Waveform}
	case KindText:
		clip.Body = TextBody{Content: spec.Content, Style: DefaultTextStyle.Merge(spec.Style)}
	}
	return clip
}
