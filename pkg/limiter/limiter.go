// Package limiter 基于令牌桶的接口限流
package limiter

import (
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/juju/ratelimit"
)

// Face 限流器接口
type Face interface {
	Key(c *gin.Context) string
	GetBucket(key string) (*ratelimit.Bucket, bool)
	GetRule(key string) (BucketRule, bool)
	AddBuckets(rules ...BucketRule) Face
}

// BucketRule 令牌桶规则
type BucketRule struct {
	// Key 请求路径前缀
	Key string
	// FillInterval 放入令牌的间隔
	FillInterval time.Duration
	// Capacity 令牌桶容量
	Capacity int64
	// Quantum 每次放入的令牌数
	Quantum int64
}

// MethodLimiter limits requests by route path prefix
// MethodLimiter 按路由路径前缀限流
type MethodLimiter struct {
	mu      sync.RWMutex
	keys    []string
	buckets map[string]*ratelimit.Bucket
	rules   map[string]BucketRule
}

func NewMethodLimiter() Face {
	return &MethodLimiter{
		buckets: make(map[string]*ratelimit.Bucket),
		rules:   make(map[string]BucketRule),
	}
}

// Key returns the request path without the query string
// Key 返回去掉查询参数的请求路径
func (l *MethodLimiter) Key(c *gin.Context) string {
	uri := c.Request.RequestURI
	if index := strings.Index(uri, "?"); index != -1 {
		return uri[:index]
	}
	return uri
}

// GetBucket returns the bucket of the longest rule key that prefixes key
// GetBucket 返回与 key 前缀匹配的最长规则对应的令牌桶
func (l *MethodLimiter) GetBucket(key string) (*ratelimit.Bucket, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	matched, ok := l.match(key)
	if !ok {
		return nil, false
	}
	return l.buckets[matched], true
}

// GetRule 返回与 key 匹配的规则，调用方据此得知补充间隔
func (l *MethodLimiter) GetRule(key string) (BucketRule, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	matched, ok := l.match(key)
	if !ok {
		return BucketRule{}, false
	}
	return l.rules[matched], true
}

func (l *MethodLimiter) match(key string) (string, bool) {
	matched := ""
	for _, k := range l.keys {
		if strings.HasPrefix(key, k) && len(k) > len(matched) {
			matched = k
		}
	}
	return matched, matched != ""
}

func (l *MethodLimiter) AddBuckets(rules ...BucketRule) Face {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, rule := range rules {
		if _, ok := l.buckets[rule.Key]; ok {
			continue
		}
		l.buckets[rule.Key] = ratelimit.NewBucketWithQuantum(rule.FillInterval, rule.Capacity, rule.Quantum)
		l.rules[rule.Key] = rule
		l.keys = append(l.keys, rule.Key)
	}
	return l
}
