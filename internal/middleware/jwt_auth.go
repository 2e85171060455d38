package middleware

import (
	"errors"
	"strings"
	"time"

	"mall_saas_202610/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// ==================== JWT 配置 ====================

// JWTConfig JWT 配置
type JWTConfig struct {
	SecretKey string        // 签名密钥
	TokenTTL  time.Duration // Token 有效期
	Issuer    string        // 签发者
}

// ==================== Claims 定义 ====================

// TokenPayload 签发凭证所需的信息
type TokenPayload struct {
	SubjectID   int64
	SubjectType model.SubjectType
	Snapshot    model.PermissionSnapshot
}

// Claims 凭证声明：主体 + 签发时的权限快照
type Claims struct {
	SubjectID   int64             `json:"id"`
	SubjectType model.SubjectType `json:"type"`
	model.PermissionSnapshot
	jwt.RegisteredClaims
}

// Payload 还原签发时的信息
func (c *Claims) Payload() TokenPayload {
	return TokenPayload{
		SubjectID:   c.SubjectID,
		SubjectType: c.SubjectType,
		Snapshot:    c.PermissionSnapshot,
	}
}

// ==================== TokenCodec ====================

// TokenCodec 签发与校验凭证
// 无刷新/轮换机制，过期后重新登录
type TokenCodec struct {
	cfg JWTConfig
	now func() time.Time
}

func NewTokenCodec(cfg JWTConfig) *TokenCodec {
	return &TokenCodec{cfg: cfg, now: time.Now}
}

// WithClock 替换时钟（测试用）
func (tc *TokenCodec) WithClock(now func() time.Time) *TokenCodec {
	cp := *tc
	cp.now = now
	return &cp
}

// TTL 凭证有效期
func (tc *TokenCodec) TTL() time.Duration {
	return tc.cfg.TokenTTL
}

// Issue 签发 Token
func (tc *TokenCodec) Issue(p TokenPayload) (string, error) {
	if !p.SubjectType.Valid() {
		return "", errors.New("invalid subject type")
	}

	now := tc.now()
	claims := &Claims{
		SubjectID:          p.SubjectID,
		SubjectType:        p.SubjectType,
		PermissionSnapshot: p.Snapshot,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tc.cfg.Issuer,
			Subject:   string(p.SubjectType),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tc.cfg.TokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(tc.cfg.SecretKey))
}

// Verify 校验签名与有效期
// 签名伪造、过期、格式错误对调用方不做区分，均返回 false
func (tc *TokenCodec) Verify(tokenString string) (*Claims, bool) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(tc.cfg.SecretKey), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(tc.now),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(tc.cfg.Issuer),
	)
	if err != nil {
		return nil, false
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || !claims.SubjectType.Valid() {
		return nil, false
	}
	return claims, true
}

// ==================== Header 解析 ====================

// bearerToken 解析 Authorization: Bearer {token}
// 返回值 present 表示是否携带了凭证
func bearerToken(c *gin.Context) (token string, present bool) {
	authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		// 有 Header 但格式错误，按无效凭证处理
		return "", true
	}
	return strings.TrimSpace(parts[1]), true
}

// ==================== 辅助函数 ====================

// Context Keys
const (
	ContextKeyClaims = "claims"
)

// GetClaims 从 Context 获取完整 Claims
func GetClaims(c *gin.Context) *Claims {
	if claims, exists := c.Get(ContextKeyClaims); exists {
		if cl, ok := claims.(*Claims); ok {
			return cl
		}
	}
	return nil
}

// GetSubjectID 从 Context 获取主体 ID
func GetSubjectID(c *gin.Context) int64 {
	if claims := GetClaims(c); claims != nil {
		return claims.SubjectID
	}
	return 0
}

// GetSubjectType 从 Context 获取主体类型
func GetSubjectType(c *gin.Context) model.SubjectType {
	if claims := GetClaims(c); claims != nil {
		return claims.SubjectType
	}
	return ""
}
