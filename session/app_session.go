package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrNoSession = errors.New("session not found or expired")

type AppSessionStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewAppSessionStore(rdb *redis.Client, ttl time.Duration) *AppSessionStore {
	return &AppSessionStore{rdb: rdb, ttl: ttl}
}

func (s *AppSessionStore) TTL() time.Duration { return s.ttl }

// AppSession 只存身份；角色每次请求从数据库重新读取
type AppSession struct {
	StaffID   uint   `json:"sid"`
	Email     string `json:"email"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

func key(id string) string            { return fmt.Sprintf("equip:sess:%s", id) }
func staffSetKey(staffID uint) string { return fmt.Sprintf("equip:staff_sessions:%d", staffID) }

// Create 生成新的会话 ID 并写入 Redis
func (s *AppSessionStore) Create(ctx context.Context, staffID uint, email string) (string, error) {
	id := uuid.NewString()
	now := time.Now()
	b, err := json.Marshal(AppSession{
		StaffID:   staffID,
		Email:     email,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(s.ttl).Unix(),
	})
	if err != nil {
		return "", err
	}
	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, key(id), b, s.ttl)
	pipe.SAdd(ctx, staffSetKey(staffID), id)
	pipe.Expire(ctx, staffSetKey(staffID), s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", err
	}
	return id, nil
}

func (s *AppSessionStore) Get(ctx context.Context, id string) (*AppSession, error) {
	b, err := s.rdb.Get(ctx, key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, err
	}
	var as AppSession
	if err := json.Unmarshal(b, &as); err != nil {
		return nil, err
	}
	return &as, nil
}

func (s *AppSessionStore) Delete(ctx context.Context, id string) error {
	as, _ := s.Get(ctx, id) // 忽略失败
	pipe := s.rdb.TxPipeline()
	pipe.Del(ctx, key(id))
	if as != nil {
		pipe.SRem(ctx, staffSetKey(as.StaffID), id)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// RevokeAllForStaff 删除员工时撤销其全部会话
func (s *AppSessionStore) RevokeAllForStaff(ctx context.Context, staffID uint) error {
	ids, err := s.rdb.SMembers(ctx, staffSetKey(staffID)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}

	pipe := s.rdb.TxPipeline()
	for _, sid := range ids {
		pipe.Del(ctx, key(sid))
	}
	pipe.Del(ctx, staffSetKey(staffID))
	_, err = pipe.Exec(ctx)
	return err
}
