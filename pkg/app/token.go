package app

import (
	"fmt"
	"strconv"
	"time"

	"github.com/haierkeys/start-page-service/pkg/util"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// 默认 Token 签发者
const DefaultTokenIssuer = "start-page-service"

// contextUserKey gin.Context 中保存解析后用户信息的键
const contextUserKey = "user_token"

// TokenConfig 定义 Token 管理器的配置
type TokenConfig struct {
	SecretKey string        `yaml:"secret-key"` // JWT 签名密钥
	Expiry    time.Duration `yaml:"expiry"`     // Token 过期时间，默认 7 天
	Issuer    string        `yaml:"issuer"`     // Token 签发者
}

// TokenManager 定义 Token 管理接口
type TokenManager interface {
	Generate(uid int64, nickname, ip string) (string, error)
	Parse(token string) (*UserEntity, error)
	Validate(token string) error
}

// tokenManager 实现 TokenManager 接口
type tokenManager struct {
	config TokenConfig
}

// NewTokenManager 创建一个新的 TokenManager 实例
func NewTokenManager(cfg TokenConfig) TokenManager {
	if cfg.Expiry == 0 {
		cfg.Expiry = 7 * 24 * time.Hour
	}
	if cfg.Issuer == "" {
		cfg.Issuer = DefaultTokenIssuer
	}
	return &tokenManager{config: cfg}
}

// UserEntity claims carried by an operator token
// UserEntity 操作员 Token 中携带的声明
type UserEntity struct {
	UID      int64  `json:"uid"`
	Nickname string `json:"nickname"`
	IP       string `json:"ip"`
	jwt.RegisteredClaims
}

// signingKey binds the secret to the current machine so a leaked token is useless elsewhere
// signingKey 将密钥与当前机器绑定
func signingKey(secret string) []byte {
	return []byte(secret + "_" + util.GetMachineID())
}

// Generate 生成一个新的 JWT Token
func (t *tokenManager) Generate(uid int64, nickname, ip string) (string, error) {
	now := time.Now()
	claims := &UserEntity{
		UID:      uid,
		Nickname: nickname,
		IP:       ip,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(t.config.Expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    t.config.Issuer,
			Subject:   "operator-token",
			ID:        strconv.FormatInt(uid, 10),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(signingKey(t.config.SecretKey))
}

// Parse 解析 JWT Token 并返回用户信息
func (t *tokenManager) Parse(token string) (*UserEntity, error) {
	return ParseTokenWithKey(token, t.config.SecretKey)
}

// Validate 验证 Token 是否有效
func (t *tokenManager) Validate(token string) error {
	_, err := t.Parse(token)
	return err
}

// ParseTokenWithKey 使用指定密钥解析 Token
func ParseTokenWithKey(tokenString string, secretKey string) (*UserEntity, error) {
	claims := &UserEntity{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return signingKey(secretKey), nil
	})

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}

// GetUID extracts the user ID from the request context.
func GetUID(ctx *gin.Context) (out int64) {
	if user := GetUser(ctx); user != nil {
		out = user.UID
	}
	return
}

// GetUser returns the operator parsed by the auth middleware, or nil
// GetUser 返回认证中间件解析出的操作员，未认证时为 nil
func GetUser(ctx *gin.Context) *UserEntity {
	user, exist := ctx.Get(contextUserKey)
	if !exist {
		return nil
	}
	userEntity, _ := user.(*UserEntity)
	return userEntity
}

// SetTokenToContextWithKey 使用指定密钥设置 Token 到 Context
func SetTokenToContextWithKey(ctx *gin.Context, tokenString string, secretKey string) error {
	user, err := ParseTokenWithKey(tokenString, secretKey)
	if err != nil {
		return err
	}
	ctx.Set(contextUserKey, user)
	return nil
}
