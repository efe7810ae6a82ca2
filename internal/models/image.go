// Package models contains data structures used across handlers
package models

import (
	"regexp"
	"strings"
)

// Image is a single gallery entry as served by the media proxy endpoint
type Image struct {
	PublicID    string `json:"public_id"`
	SecureURL   string `json:"secure_url"`
	DisplayName string `json:"display_name"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Folder      string `json:"folder,omitempty"`
}

// Folder is a subfolder under the media root
type Folder struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// Resource is an upstream asset before it is mapped to an Image
type Resource struct {
	PublicID  string `json:"public_id"`
	Format    string `json:"format"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	SecureURL string `json:"secure_url"`
}

var qualitySegment = regexp.MustCompile(`(^|[/,])q_[a-z0-9:]+([/,]|$)`)

// DisplayNameFor returns the last path segment of a public id
func DisplayNameFor(publicID string) string {
	if i := strings.LastIndex(publicID, "/"); i >= 0 {
		return publicID[i+1:]
	}
	return publicID
}

// WithQuality returns the delivery URL with its q_* transformation replaced by quality.
// Only the part before the public id is rewritten; URLs without a quality transformation
// are returned unchanged.
func (i Image) WithQuality(quality string) string {
	head, tail := i.SecureURL, ""
	if i.PublicID != "" {
		if idx := strings.LastIndex(i.SecureURL, "/"+i.PublicID); idx >= 0 {
			head, tail = i.SecureURL[:idx+1], i.SecureURL[idx+1:]
		}
	}

	loc := qualitySegment.FindStringSubmatchIndex(head)
	if loc == nil {
		return i.SecureURL
	}
	// loc[3] ends the leading separator, loc[4] starts the trailing one
	return head[:loc[3]] + quality + head[loc[4]:] + tail
}
