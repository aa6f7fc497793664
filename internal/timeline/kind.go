package timeline

import "fmt"

// Kind is the media kind shared by a track and every clip it holds.
type Kind int

const (
	KindVideo Kind = iota
	KindAudio
	KindText
)

// Kinds lists every kind in display order.
var Kinds = []Kind{KindVideo, KindAudio, KindText}

func (k Kind) String() string {
	switch k {
	case KindVideo:
		return "video"
	case KindAudio:
		return "audio"
	case KindText:
		return "text"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

func (k Kind) Valid() bool {
	switch k {
	case KindVideo, KindAudio, KindText:
		return true
	}
	return false
}

// ParseKind accepts the lowercase names used by composition payloads and project files.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "video":
		return KindVideo, nil
	case "audio":
		return KindAudio, nil
	case "text":
		return KindText, nil
	}
	return 0, fmt.Errorf("unknown clip kind %q", s)
}

func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("unknown clip kind %d", int(k))
	}
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
