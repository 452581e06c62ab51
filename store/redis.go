package store

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/aaz50/ByteIntern/errors"
	"github.com/aaz50/ByteIntern/listing"
)

// RedisStore implements Store on a hosted Redis keyspace.
//
// Layout: one hash per listing at "<prefix>:job:<id>", plus a sorted set at
// "<prefix>:jobs" scored by FirstSeen (unix nanoseconds) that provides the
// most-recent-first ordering of All. The prefix acts as the logical table
// name, so several trackers can share one Redis instance.
type RedisStore struct {
	client *redis.Client
	prefix string
	log    *zap.SugaredLogger
}

// NewRedisStore connects to redisURL and verifies connectivity.
func NewRedisStore(ctx context.Context, redisURL, prefix string, log *zap.SugaredLogger) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, errors.Wrapf(err, "redis.ParseURL(%q)", redisURL)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, errors.Wrap(errors.ErrBackendUnavailable, err.Error())
	}

	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &RedisStore{client: client, prefix: prefix, log: log}, nil
}

func (s *RedisStore) jobKey(id string) string {
	return s.prefix + ":job:" + id
}

func (s *RedisStore) indexKey() string {
	return s.prefix + ":jobs"
}

// Exists reports whether a listing with this ID has ever been inserted.
func (s *RedisStore) Exists(ctx context.Context, id string) (bool, error) {
	n, err := s.client.Exists(ctx, s.jobKey(id)).Result()
	if err != nil {
		return false, errors.Wrapf(err, "check existence of %s", id)
	}
	return n > 0, nil
}

// insertScript writes the listing hash and its index entry as one atomic
// server-side step, guarded on the hash not existing yet. A failed insert
// leaves no trace; a duplicate returns 0 without touching either key.
//
// KEYS[1] = listing hash, KEYS[2] = index sorted set.
// ARGV[1] = score, ARGV[2] = listing id, ARGV[3..] = hash field/value pairs.
var insertScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 1 then
	return 0
end
redis.call("HSET", KEYS[1], unpack(ARGV, 3))
redis.call("ZADD", KEYS[2], ARGV[1], ARGV[2])
return 1
`)

// Insert stores the listing if absent. The hash write and the index ZADD
// run in one script, so a listing is either fully stored (visible to
// Exists, All, and Count alike) or not stored at all.
func (s *RedisStore) Insert(ctx context.Context, l listing.Listing) error {
	firstSeen := l.FirstSeen
	if firstSeen.IsZero() {
		firstSeen = time.Now().UTC()
	}

	args := []interface{}{
		strconv.FormatInt(firstSeen.UnixNano(), 10),
		l.ID,
		"job_id", l.ID,
		"title", l.Title,
		"company", l.Company,
		"location", l.Location,
		"url", l.URL,
		"first_seen", firstSeen.UTC().Format(firstSeenLayout),
		"notified", boolToInt(l.Notified),
	}
	if l.Description != "" {
		args = append(args, "description", l.Description)
	}
	if l.PostedAt != "" {
		args = append(args, "posted_at", l.PostedAt)
	}
	if l.SalaryMin != nil {
		args = append(args, "salary_min", strconv.FormatFloat(*l.SalaryMin, 'f', -1, 64))
	}
	if l.SalaryMax != nil {
		args = append(args, "salary_max", strconv.FormatFloat(*l.SalaryMax, 'f', -1, 64))
	}

	keys := []string{s.jobKey(l.ID), s.indexKey()}
	created, err := insertScript.Run(ctx, s.client, keys, args...).Int()
	if err != nil {
		return errors.Wrapf(err, "insert listing %s", l.ID)
	}
	if created == 0 {
		s.log.Debugw("Listing already stored", "id", l.ID)
	}
	return nil
}

// MarkNotified sets the notified flag; a no-op for unknown IDs.
func (s *RedisStore) MarkNotified(ctx context.Context, id string) error {
	key := s.jobKey(id)
	known, err := s.client.HExists(ctx, key, "job_id").Result()
	if err != nil {
		return errors.Wrapf(err, "mark %s notified", id)
	}
	if !known {
		return nil
	}
	if err := s.client.HSet(ctx, key, "notified", 1).Err(); err != nil {
		return errors.Wrapf(err, "mark %s notified", id)
	}
	return nil
}

// All returns every stored listing, most recently discovered first.
func (s *RedisStore) All(ctx context.Context) ([]listing.Listing, error) {
	ids, err := s.client.ZRevRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, errors.Wrap(err, "read listing index")
	}

	listings := make([]listing.Listing, 0, len(ids))
	for _, id := range ids {
		fields, err := s.client.HGetAll(ctx, s.jobKey(id)).Result()
		if err != nil {
			return nil, errors.Wrapf(err, "read listing %s", id)
		}
		if len(fields) == 0 {
			// Index entry without a hash; skip rather than fail the scan
			s.log.Warnw("Indexed listing has no record", "id", id)
			continue
		}
		listings = append(listings, listingFromFields(fields))
	}
	return listings, nil
}

// Count returns the total number of stored listings.
func (s *RedisStore) Count(ctx context.Context) (int, error) {
	n, err := s.client.ZCard(ctx, s.indexKey()).Result()
	if err != nil {
		return 0, errors.Wrap(err, "count listings")
	}
	return int(n), nil
}

// Close releases the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func listingFromFields(fields map[string]string) listing.Listing {
	l := listing.Listing{
		ID:          fields["job_id"],
		Title:       fields["title"],
		Company:     fields["company"],
		Location:    fields["location"],
		URL:         fields["url"],
		Description: fields["description"],
		PostedAt:    fields["posted_at"],
		FirstSeen:   parseFirstSeen(fields["first_seen"]),
		Notified:    fields["notified"] == "1",
	}
	if v, err := strconv.ParseFloat(fields["salary_min"], 64); err == nil {
		l.SalaryMin = &v
	}
	if v, err := strconv.ParseFloat(fields["salary_max"], 64); err == nil {
		l.SalaryMax = &v
	}
	return l
}
