package common

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// GenerateUUID 生成 UUID
func GenerateUUID() string {
	return uuid.New().String()
}

// NormalizeName 正規化食材名稱（去除前後空白並轉為小寫），重複套用結果不變
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// ParseIntOr 將字串轉換為 int，失敗時返回預設值
func ParseIntOr(s string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return v
}
