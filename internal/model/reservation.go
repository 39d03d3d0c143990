// Package model はドメインモデルを定義する。
package model

import "time"

// Reservation は学校見学の予約を表す。
// 同一日付の予約はシステム全体で1件まで。日付の比較は常に日付成分のみで行う。
type Reservation struct {
	ID            int64
	SchoolName    string
	ContactPerson string
	Date          time.Time // 正規化済み（UTC 0時）の日付
	Note          string
	CreatedAt     time.Time
}

// BlockedDate は管理者が予約不可と宣言した日付を表す。
// 同一日付のブロックは1件まで。
type BlockedDate struct {
	ID        int64
	Date      time.Time // 正規化済み（UTC 0時）の日付
	Reason    string
	CreatedAt time.Time
}

// YearlyReservationLimit は同一学校が同一暦年内に持てる予約数の上限。
const YearlyReservationLimit = 10

// DateOnly はタイムスタンプから時刻成分を捨て、UTC 0時に正規化した日付を返す。
// 予約日・ブロック日の比較はすべてこの正規化後の値で行う。
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameDate は2つのタイムスタンプが同一の暦日を指すかを判定する。
// 時刻成分は無視される。
func SameDate(a, b time.Time) bool {
	return DateOnly(a).Equal(DateOnly(b))
}
