package models

import (
	"time"
)

type SourceType string

const (
	SourceYouTube SourceType = "youtube"
	SourcePaste   SourceType = "paste"
)

type Mode string

const (
	ModeInsights Mode = "insights"
	ModeSummary  Mode = "summary"
)

type Length string

const (
	LengthTLDR     Length = "tldr"
	LengthBrief    Length = "brief"
	LengthDetailed Length = "detailed"
)

// CreateBriefRequest is the request body for creating a brief.
type CreateBriefRequest struct {
	SourceType     SourceType `json:"source_type"`
	Source         string     `json:"source"`
	Mode           Mode       `json:"mode"`
	Length         Length     `json:"length"`
	OutputLanguage string     `json:"output_language"`
}

// ApplyDefaults fills optional fields the same way the API documents them.
func (r *CreateBriefRequest) ApplyDefaults() {
	if r.Mode == "" {
		r.Mode = ModeInsights
	}
	if r.Length == "" {
		r.Length = LengthBrief
	}
	if r.OutputLanguage == "" {
		r.OutputLanguage = "en"
	}
}

func (s SourceType) Valid() bool {
	return s == SourceYouTube || s == SourcePaste
}

func (m Mode) Valid() bool {
	return m == ModeInsights || m == ModeSummary
}

func (l Length) Valid() bool {
	return l == LengthTLDR || l == LengthBrief || l == LengthDetailed
}

// BriefMeta records the source and requested options for a generated brief.
type BriefMeta struct {
	SourceType     SourceType `json:"source_type"`
	Mode           Mode       `json:"mode"`
	Length         Length     `json:"length"`
	OutputLanguage string     `json:"output_language"`
}

// Brief is the structured summary returned to the user and persisted by id.
type Brief struct {
	ID           string    `json:"id"`
	ShareURL     string    `json:"share_url"`
	Title        string    `json:"title"`
	Overview     string    `json:"overview"`
	Bullets      []string  `json:"bullets"`
	WhyItMatters string    `json:"why_it_matters,omitempty"`
	Meta         BriefMeta `json:"meta"`
	CreatedAt    time.Time `json:"created_at"`
}
