package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// Manager JWT管理器
// 设计说明：
// 1. 登录成功后签发一个Token，写入auth-token Cookie
// 2. Token本身只携带身份信息，权限判断在领域服务中完成
// 3. 登出通过黑名单让Token提前失效
type Manager struct {
	secret string        // JWT签名密钥
	expire time.Duration // Token有效期
	issuer string
}

// NewManager 创建JWT管理器
func NewManager(secret string, expire time.Duration) *Manager {
	return &Manager{
		secret: secret,
		expire: expire,
		issuer: "bookshop",
	}
}

// Claims 自定义JWT Claims
// 嵌入jwt.RegisteredClaims获取标准字段（exp、iat、nbf等）
type Claims struct {
	UserID string `json:"uid"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}

// Token 签发结果
type Token struct {
	Value     string
	ExpiresAt time.Time
}

// Expire 返回Token有效期（用于Cookie MaxAge和黑名单TTL）
func (m *Manager) Expire() time.Duration {
	return m.expire
}

// GenerateToken 生成Token
func (m *Manager) GenerateToken(userID, email, name string) (*Token, error) {
	now := time.Now()
	expiresAt := now.Add(m.expire)

	claims := Claims{
		UserID: userID,
		Email:  email,
		Name:   name,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    m.issuer,
			Subject:   userID,
			ID:        uuid.NewString(), // 同一秒内多次登录也得到不同Token，登出吊销互不影响
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(m.secret))
	if err != nil {
		return nil, apperrors.Wrap(err, "sign token")
	}

	return &Token{Value: signed, ExpiresAt: expiresAt}, nil
}

// ParseToken 解析并验证Token
// 1. 验证签名算法和签名
// 2. 验证过期时间（exp）和生效时间（nbf）
func (m *Manager) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(m.secret), nil
	}, jwt.WithIssuer(m.issuer))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, apperrors.ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid && claims.UserID != "" {
		return claims, nil
	}

	return nil, apperrors.ErrInvalidToken
}
