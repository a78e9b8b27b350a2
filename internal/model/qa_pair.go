package model

import "time"

// QAPair is one question/answer exchange. The in-memory ledger and the
// per-document history file hold these; the MySQL row is a best-effort
// mirror written by the persist worker.
type QAPair struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	Document  string    `gorm:"size:256;not null;index" json:"document"`
	Question  string    `gorm:"type:text;not null" json:"question"`
	Answer    string    `gorm:"type:text;not null" json:"answer"`
	CreatedAt time.Time `json:"created_at"`
}
