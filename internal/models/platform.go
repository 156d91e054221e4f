package models

import "fmt"

// Platform identifies the target social network for a piece of content.
// The set is closed: publish dispatch switches exhaustively over it.
type Platform string

const (
	PlatformLinkedIn  Platform = "linkedin"
	PlatformYouTube   Platform = "youtube"
	PlatformInstagram Platform = "instagram"
	PlatformTwitter   Platform = "twitter"
	PlatformTikTok    Platform = "tiktok"
)

// AllPlatforms lists every supported platform in a stable order.
func AllPlatforms() []Platform {
	return []Platform{
		PlatformLinkedIn,
		PlatformYouTube,
		PlatformInstagram,
		PlatformTwitter,
		PlatformTikTok,
	}
}

func (p Platform) Valid() bool {
	switch p {
	case PlatformLinkedIn, PlatformYouTube, PlatformInstagram, PlatformTwitter, PlatformTikTok:
		return true
	}
	return false
}

func (p Platform) String() string { return string(p) }

// ParsePlatform converts external input into a Platform value.
func ParsePlatform(s string) (Platform, error) {
	p := Platform(s)
	if !p.Valid() {
		return "", fmt.Errorf("unknown platform %q", s)
	}
	return p, nil
}
