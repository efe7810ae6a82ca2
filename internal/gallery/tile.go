package gallery

import "strings"

// Kind selects how a tile renders its source
type Kind int

const (
	KindImage Kind = iota
	KindVideo
)

func (k Kind) String() string {
	if k == KindVideo {
		return "video"
	}
	return "image"
}

// KindOf reports KindVideo for .mp4 and .webm sources
func KindOf(src string) Kind {
	if strings.HasSuffix(src, ".mp4") || strings.HasSuffix(src, ".webm") {
		return KindVideo
	}
	return KindImage
}

// IsVideo is the template helper form of KindOf
func IsVideo(src string) bool {
	return KindOf(src) == KindVideo
}
