package models

// Counter is a named durable sequence, bumped atomically inside a
// transaction. Two concurrent creators never observe the same value; a
// value burned by a failed follow-up write stays burned (gaps over
// duplicates).
type Counter struct {
	Name string `gorm:"primaryKey;size:32"`
	Seq  int64  `gorm:"not null;default:0"`
}
