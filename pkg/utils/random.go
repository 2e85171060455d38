package utils

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"math/big"
	"strings"
)

// RandomDigits 生成指定位数的数字验证码
func RandomDigits(n int) (string, error) {
	var b strings.Builder
	b.Grow(n)
	ten := big.NewInt(10)
	for i := 0; i < n; i++ {
		d, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", err
		}
		b.WriteByte(byte('0' + d.Int64()))
	}
	return b.String(), nil
}

// HMACSHA256 计算十六进制签名
func HMACSHA256(secret, message string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(message))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyHMACSHA256 常量时间比较签名
func VerifyHMACSHA256(secret, message, signature string) bool {
	expected := HMACSHA256(secret, message)
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(signature)))
}
