// backend/pkg/cache/redis.go
package cache

import (
	"context"
	"encoding/json"
	"time"

	"skillprofile-system/internal/models"

	"github.com/go-redis/redis/v8"
)

// RedisCache keeps read-through JSON snapshots of per-student profiles.
// The database stays authoritative; entries are dropped whenever the
// underlying rows change.
type RedisCache struct {
	client *redis.Client
	ctx    context.Context
}

func NewRedisCache(addr string) *RedisCache {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	return &RedisCache{
		client: client,
		ctx:    context.Background(),
	}
}

func (c *RedisCache) SetClaimedProfile(studentID string, claimed []models.ClaimedSkillDTO) error {
	data, err := json.Marshal(claimed)
	if err != nil {
		return err
	}

	key := "claimed:" + studentID
	return c.client.Set(c.ctx, key, data, 24*time.Hour).Err()
}

func (c *RedisCache) GetClaimedProfile(studentID string) ([]models.ClaimedSkillDTO, error) {
	key := "claimed:" + studentID
	data, err := c.client.Get(c.ctx, key).Bytes()
	if err != nil {
		return nil, err
	}

	var claimed []models.ClaimedSkillDTO
	err = json.Unmarshal(data, &claimed)
	return claimed, err
}

func (c *RedisCache) SetPortfolio(studentID string, portfolio []models.StudentSkillPortfolio) error {
	data, err := json.Marshal(portfolio)
	if err != nil {
		return err
	}

	key := "portfolio:" + studentID
	return c.client.Set(c.ctx, key, data, 24*time.Hour).Err()
}

func (c *RedisCache) GetPortfolio(studentID string) ([]models.StudentSkillPortfolio, error) {
	key := "portfolio:" + studentID
	data, err := c.client.Get(c.ctx, key).Bytes()
	if err != nil {
		return nil, err
	}

	var portfolio []models.StudentSkillPortfolio
	err = json.Unmarshal(data, &portfolio)
	return portfolio, err
}

// InvalidateStudent drops every cached snapshot for the student. Called after
// recomputes and quiz submissions before the new snapshots are written.
func (c *RedisCache) InvalidateStudent(studentID string) error {
	return c.client.Del(c.ctx, "claimed:"+studentID, "portfolio:"+studentID).Err()
}
