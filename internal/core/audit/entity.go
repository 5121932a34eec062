package audit

import (
	"time"
	"unicode/utf8"
)

// MaxDescriptionLength は監査ログ本文の最大文字数です。
const MaxDescriptionLength = 500

const truncationSuffix = "..."

// Entry は社員レコードへの変更を表す不変の監査ログです。
type Entry struct {
	ID          int64
	EmployeeID  string
	ActorID     int64
	ChangedAt   time.Time
	Description string
}

// NewEntry は監査ログを生成します。本文が上限を超える場合は末尾を省略記号に置き換えます。
func NewEntry(employeeID string, actorID int64, changedAt time.Time, description string) *Entry {
	return &Entry{
		EmployeeID:  employeeID,
		ActorID:     actorID,
		ChangedAt:   changedAt,
		Description: truncate(description),
	}
}

func truncate(description string) string {
	if utf8.RuneCountInString(description) <= MaxDescriptionLength {
		return description
	}
	runes := []rune(description)
	return string(runes[:MaxDescriptionLength-len(truncationSuffix)]) + truncationSuffix
}
