package repository

import (
	"errors"

	"github.com/lib/pq"
)

// ErrDuplicateDate は日付のユニーク制約違反を表すセンチネルエラー。
// 事前チェックをすり抜けた同時書き込みはこのエラーとして表面化し、
// サービス層で対応するバリデーション拒否に変換される。
var ErrDuplicateDate = errors.New("duplicate date")

// uniqueViolationCode はPostgreSQLのunique_violationエラーコード。
const uniqueViolationCode = "23505"

// isUniqueViolation はエラーがユニーク制約違反かどうかを判定する。
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolationCode
}
