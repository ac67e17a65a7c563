package stub

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ecotrack/console/internal/config"
	"github.com/ecotrack/console/internal/models"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps fixture data in Redis so the stub survives restarts
// during longer console sessions. Each record is a JSON blob under
// <prefix><collection>:<id>; an index list per collection preserves
// newest-first ordering.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore connects and pings Redis before returning.
func NewRedisStore(cfg *config.Config) (*RedisStore, error) {
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStore{client: client, prefix: cfg.RedisPrefix}, nil
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}

func (r *RedisStore) key(collection, id string) string {
	return r.prefix + collection + ":" + id
}

func (r *RedisStore) indexKey(collection string) string {
	return r.prefix + collection + ":index"
}

// saveRecord writes the blob and prepends the ID to the index unless it
// is already listed.
func (r *RedisStore) saveRecord(ctx context.Context, collection, id string, record any) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal %s record: %w", collection, err)
	}

	existed, err := r.client.Exists(ctx, r.key(collection, id)).Result()
	if err != nil {
		return fmt.Errorf("redis exists error: %w", err)
	}
	if err := r.client.Set(ctx, r.key(collection, id), data, 0).Err(); err != nil {
		return fmt.Errorf("redis set error: %w", err)
	}
	if existed == 0 {
		if err := r.client.LPush(ctx, r.indexKey(collection), id).Err(); err != nil {
			return fmt.Errorf("redis lpush error: %w", err)
		}
	}
	return nil
}

func (r *RedisStore) getRecord(ctx context.Context, collection, id string, out any) error {
	data, err := r.client.Get(ctx, r.key(collection, id)).Bytes()
	if err == redis.Nil {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("redis get error: %w", err)
	}
	return json.Unmarshal(data, out)
}

// listRecords walks the index newest first and decodes each blob.
func listRecords[T any](ctx context.Context, r *RedisStore, collection string) ([]T, error) {
	ids, err := r.client.LRange(ctx, r.indexKey(collection), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis lrange error: %w", err)
	}

	out := make([]T, 0, len(ids))
	for _, id := range ids {
		var record T
		if err := r.getRecord(ctx, collection, id, &record); err != nil {
			if err == ErrNotFound {
				continue
			}
			return nil, err
		}
		out = append(out, record)
	}
	return out, nil
}

func (r *RedisStore) ListNews(ctx context.Context) ([]models.NewsItem, error) {
	return listRecords[models.NewsItem](ctx, r, "news")
}

func (r *RedisStore) GetNews(ctx context.Context, id string) (models.NewsItem, error) {
	var item models.NewsItem
	err := r.getRecord(ctx, "news", id, &item)
	return item, err
}

func (r *RedisStore) SaveNews(ctx context.Context, item models.NewsItem) error {
	return r.saveRecord(ctx, "news", item.ID, item)
}

func (r *RedisStore) ListUsers(ctx context.Context) ([]models.User, error) {
	return listRecords[models.User](ctx, r, "users")
}

func (r *RedisStore) GetUser(ctx context.Context, id string) (models.User, error) {
	var user models.User
	err := r.getRecord(ctx, "users", id, &user)
	return user, err
}

func (r *RedisStore) SaveUser(ctx context.Context, user models.User) error {
	return r.saveRecord(ctx, "users", user.ID, user)
}

func (r *RedisStore) AppendAudit(ctx context.Context, entry models.AuditEntry) error {
	return r.saveRecord(ctx, "audit", entry.ID, entry)
}

func (r *RedisStore) ListAudit(ctx context.Context) ([]models.AuditEntry, error) {
	return listRecords[models.AuditEntry](ctx, r, "audit")
}
