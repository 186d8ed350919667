package domain

import "time"

// RawReview is one record as delivered by the warehouse: every signal may be
// absent when the upstream source or analyzer had nothing to say.
type RawReview struct {
	ID             int64
	AppID          string
	SourceID       *string
	Username       string
	Rating         *int
	Review         *string
	SentimentScore *float64
	TopicLabel     *string
	ReviewedAt     *time.Time
	RawJSON        []byte
}

// Review is a validated record with its derived fields.
type Review struct {
	Username       string  `json:"username"`
	Rating         int     `json:"rating"`
	Review         string  `json:"review"`
	SentimentScore float64 `json:"sentiment_score"`
	Topic          string  `json:"topic_label"`
	Satisfaction   float64 `json:"satisfaction"`
	Significance   float64 `json:"significance"`
	Action         Action  `json:"action"`
}

type Action string

const (
	ActionAddressImmediately Action = "Address Immediately"
	ActionMaintainMonitor    Action = "Maintain & Monitor"
	ActionMinimizeReassess   Action = "Minimize & Reassess"
	ActionExplore            Action = "Explore"
)

// Actions lists every quadrant tag in display order.
var Actions = []Action{
	ActionAddressImmediately,
	ActionMaintainMonitor,
	ActionMinimizeReassess,
	ActionExplore,
}

// DefaultCategories is the topic set the analyzer is asked to choose from.
// Labels outside it are still accepted downstream.
var DefaultCategories = []string{
	"OTP", "ACCOUNT BLOCKED", "LOGIN", "INSTALLATION", "UPDATE", "UI",
	"NOTIFICATIONS", "MEDIA", "FEATURE REQUEST", "AI", "SPAM/MISUSE",
	"BUGS/CRASH", "RESTORE", "LANGUAGE", "APP STORE ISSUE",
	"CUSTOMIZATION", "DOWNLOAD", "ACCOUNT RECOVERY", "SUPPORT",
	"VOICE CHAT", "SECURITY",
}
