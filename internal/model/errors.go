// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
// Messageは利用者に表示される確定文言（オランダ語）を保持する。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, reservation, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeDateBlocked         = "DATE_BLOCKED"
	ErrCodeDateAlreadyTaken    = "DATE_ALREADY_TAKEN"
	ErrCodeYearlyQuotaExceeded = "YEARLY_QUOTA_EXCEEDED"
	ErrCodeDateAlreadyBlocked  = "DATE_ALREADY_BLOCKED"
	ErrCodeInvalidCredentials  = "INVALID_CREDENTIALS"
	ErrCodeUserNotFound        = "USER_NOT_FOUND"
)

// NewDateBlockedError は予約対象日がブロック済みの場合のエラーを生成する。
func NewDateBlockedError() *APIError {
	return &APIError{
		Code:     ErrCodeDateBlocked,
		Message:  "Datum is geblokkeerd.",
		Category: "reservation",
		Action:   "Kies een andere datum.",
	}
}

// NewDateAlreadyTakenError は予約対象日が予約済みの場合のエラーを生成する。
func NewDateAlreadyTakenError() *APIError {
	return &APIError{
		Code:     ErrCodeDateAlreadyTaken,
		Message:  "Datum is al gereserveerd.",
		Category: "reservation",
		Action:   "Kies een andere datum.",
	}
}

// NewYearlyQuotaExceededError は同一学校の年間予約上限超過エラーを生成する。
func NewYearlyQuotaExceededError() *APIError {
	return &APIError{
		Code:     ErrCodeYearlyQuotaExceeded,
		Message:  "Maximum aantal boekingen bereikt voor dit jaar.",
		Category: "reservation",
		Action:   "Kies een datum in een ander jaar of neem contact op.",
	}
}

// NewDateAlreadyBlockedError は対象日が既にブロック済みの場合のエラーを生成する。
func NewDateAlreadyBlockedError() *APIError {
	return &APIError{
		Code:     ErrCodeDateAlreadyBlocked,
		Message:  "Datum is al geblokkeerd.",
		Category: "reservation",
		Action:   "Controleer de lijst met geblokkeerde datums.",
	}
}

// NewInvalidCredentialsError は認証失敗エラーを生成する。
// ユーザー不在とパスワード不一致は区別せず同一の応答を返す。
func NewInvalidCredentialsError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidCredentials,
		Message:  "Ongeldige gebruikersnaam of wachtwoord.",
		Category: "auth",
		Action:   "Controleer uw inloggegevens en probeer opnieuw.",
	}
}

// NewUserNotFoundError はユーザーが見つからない場合のエラーを生成する。
func NewUserNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  "Gebruiker niet gevonden.",
		Category: "auth",
		Action:   "Log opnieuw in.",
	}
}
