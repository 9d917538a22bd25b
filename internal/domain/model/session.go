package model

import "time"

// オペレーターごとの状態。他のセッションとは共有しない
type Session struct {
	ID              string    `json:"id"`
	Authenticated   bool      `json:"authenticated"`
	Cart            Cart      `json:"cart"`
	ExtraCategories []string  `json:"extra_categories,omitempty"`
	LastInvoice     *Invoice  `json:"last_invoice,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

func NewSession(id string, now time.Time) *Session {
	return &Session{
		ID:            id,
		Authenticated: true,
		CreatedAt:     now,
	}
}

func (s *Session) Categories() []string {
	return MergeCategories(s.ExtraCategories)
}
