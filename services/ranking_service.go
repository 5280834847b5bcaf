package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"time"

	"quizzical/models"
	"quizzical/queries"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const rankingKeyPrefix = "rankings:"

var rankingMetrics = []string{queries.RankPopular, queries.RankRated, queries.RankFavourited}

// RankedQuiz is a quiz with the metric it was ranked by: result count,
// average rating or favourite count.
type RankedQuiz struct {
	models.Quiz
	Metric float64 `json:"metric"`
}

// RankingCache keeps computed rankings in Redis, one hash per metric with
// a field per limit. Any write to results, ratings or favourites drops them.
type RankingCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRankingCache(client *redis.Client, ttl time.Duration) *RankingCache {
	return &RankingCache{client: client, ttl: ttl}
}

// Get returns (nil, false, nil) on a cache miss.
func (c *RankingCache) Get(ctx context.Context, metric string, limit int) ([]RankedQuiz, bool, error) {
	data, err := c.client.HGet(ctx, rankingKeyPrefix+metric, strconv.Itoa(limit)).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var ranked []RankedQuiz
	if err := json.Unmarshal([]byte(data), &ranked); err != nil {
		return nil, false, err
	}
	return ranked, true, nil
}

func (c *RankingCache) Set(ctx context.Context, metric string, limit int, ranked []RankedQuiz) error {
	data, err := json.Marshal(ranked)
	if err != nil {
		return fmt.Errorf("failed to marshal ranking: %v", err)
	}
	key := rankingKeyPrefix + metric
	pipe := c.client.TxPipeline()
	pipe.HSet(ctx, key, strconv.Itoa(limit), data)
	pipe.Expire(ctx, key, c.ttl)
	_, err = pipe.Exec(ctx)
	return err
}

func (c *RankingCache) Invalidate(ctx context.Context) error {
	keys := make([]string, len(rankingMetrics))
	for i, metric := range rankingMetrics {
		keys[i] = rankingKeyPrefix + metric
	}
	return c.client.Del(ctx, keys...).Err()
}

type RankingService struct {
	db    *gorm.DB
	cache *RankingCache
}

// NewRankingService accepts a nil cache, in which case every ranking is
// computed from the database.
func NewRankingService(db *gorm.DB, cache *RankingCache) *RankingService {
	return &RankingService{db: db, cache: cache}
}

func (s *RankingService) GetRanking(ctx context.Context, metric string, limit int) ([]RankedQuiz, error) {
	q, err := queries.Ranking(metric, limit)
	if err != nil {
		return nil, classify(err)
	}

	if s.cache != nil {
		ranked, ok, err := s.cache.Get(ctx, metric, limit)
		if err != nil {
			log.Printf("Ranking cache read failed for %s: %v", metric, err)
		} else if ok {
			return ranked, nil
		}
	}

	ranked := []RankedQuiz{}
	if err := selectAll(ctx, s.db, q, &ranked); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, metric, limit, ranked); err != nil {
			log.Printf("Ranking cache write failed for %s: %v", metric, err)
		}
	}
	return ranked, nil
}

func (s *RankingService) GetMostPopular(ctx context.Context, limit int) ([]RankedQuiz, error) {
	return s.GetRanking(ctx, queries.RankPopular, limit)
}

func (s *RankingService) GetBestRated(ctx context.Context, limit int) ([]RankedQuiz, error) {
	return s.GetRanking(ctx, queries.RankRated, limit)
}

func (s *RankingService) GetMostFavourited(ctx context.Context, limit int) ([]RankedQuiz, error) {
	return s.GetRanking(ctx, queries.RankFavourited, limit)
}

// QuizActivity drops cached rankings after any result, rating or favourite
// write.
func (s *RankingService) QuizActivity(ctx context.Context, quiz *models.Quiz, event string, payload interface{}) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		log.Printf("Ranking cache invalidation after %s on quiz %s failed: %v", event, quiz.URL, err)
	}
}
