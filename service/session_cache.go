package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
)

// SessionCache redis 中的会话缓存，只加速 sid -> userID 的查找。
// Redis Key 设计：
// - nb:session:{sid} -> "{userID}|{expiresAt unix nano}" (String, TTL = 会话剩余有效期)
// - nb:session:{sid} -> "revoked" 注销标记，TTL 同样为会话剩余有效期
//
// 正常条目只用 SETNX 写入，不会覆盖注销标记；
// 因此与注销并发的解析无法把已注销的会话写回缓存。
// 缓存不是真相来源：命中后仍会回表读取用户，删除/停用立即生效。
// rdb 为 nil 时所有方法都是空操作。
type SessionCache struct {
	rdb *redis.Client
}

func NewSessionCache(rdb *redis.Client) *SessionCache {
	return &SessionCache{rdb: rdb}
}

func (c *SessionCache) enabled() bool {
	return c != nil && c.rdb != nil
}

func (c *SessionCache) key(sid string) string {
	return "nb:session:" + sid
}

// CacheState 缓存查询结果
type CacheState int

const (
	CacheMiss    CacheState = iota // 未缓存，需回表
	CacheHit                       // 命中正常条目
	CacheRevoked                   // 命中注销标记，视为会话不存在
)

// revokedMarker 注销标记的值，不含 "|"，不会与正常条目混淆
const revokedMarker = "revoked"

// Put 写入缓存（SETNX）；已过期不写，已有条目或注销标记时不覆盖
func (c *SessionCache) Put(ctx context.Context, sid, userID string, expiresAt, now time.Time) error {
	ttl := expiresAt.Sub(now)
	if !c.enabled() || ttl <= 0 {
		return nil
	}
	val := userID + "|" + strconv.FormatInt(expiresAt.UnixNano(), 10)
	return c.rdb.SetNX(ctx, c.key(sid), val, ttl).Err()
}

// Get 命中返回 (userID, expiresAt, CacheHit)；格式不对视为未命中
func (c *SessionCache) Get(ctx context.Context, sid string) (string, time.Time, CacheState, error) {
	if !c.enabled() {
		return "", time.Time{}, CacheMiss, nil
	}
	val, err := c.rdb.Get(ctx, c.key(sid)).Result()
	if errors.Is(err, redis.Nil) {
		return "", time.Time{}, CacheMiss, nil
	}
	if err != nil {
		return "", time.Time{}, CacheMiss, err
	}
	if val == revokedMarker {
		return "", time.Time{}, CacheRevoked, nil
	}
	userID, exp, ok := strings.Cut(val, "|")
	if !ok || userID == "" {
		return "", time.Time{}, CacheMiss, nil
	}
	nanos, err := strconv.ParseInt(exp, 10, 64)
	if err != nil {
		return "", time.Time{}, CacheMiss, nil
	}
	return userID, time.Unix(0, nanos).UTC(), CacheHit, nil
}

// MarkRevoked 用注销标记覆盖会话条目（SET，非 SETNX），ttl 为会话剩余有效期
func (c *SessionCache) MarkRevoked(ctx context.Context, ttl time.Duration, sids ...string) error {
	if !c.enabled() || len(sids) == 0 || ttl <= 0 {
		return nil
	}
	pipe := c.rdb.Pipeline()
	for _, sid := range sids {
		pipe.Set(ctx, c.key(sid), revokedMarker, ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}
