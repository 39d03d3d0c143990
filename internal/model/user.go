// Package model はドメインモデルを定義する。
package model

import "time"

// Role はユーザーの権限ロールを表す。
// 不正なロール値を型レベルで排除するため、文字列ではなく専用型として定義する。
type Role string

const (
	// RoleUser は一般ユーザーのロール。予約の作成が可能。
	RoleUser Role = "User"
	// RoleAdmin は管理者のロール。日付ブロックの管理が可能。
	RoleAdmin Role = "Admin"
)

// Valid はロール値が定義済みのものであるかを検証する。
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	default:
		return false
	}
}

// User はサービス利用ユーザーを表す。
// ユーザー登録はこのAPIの外（運用側での事前登録）で行われ、
// 本コアからは読み取り専用として扱う。
type User struct {
	ID           int64
	Username     string
	PasswordHash string // bcryptハッシュ。ログイン時の照合以外では参照しない
	Role         Role
	CreatedAt    time.Time
}

// Session はユーザーのログインセッションを表す。
type Session struct {
	ID        string
	UserID    int64
	ExpiresAt time.Time
	CreatedAt time.Time
}
