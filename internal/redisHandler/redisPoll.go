package redishandler

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/saxenaaman628/hobbyhub/internal/ballot"
	"github.com/saxenaaman628/hobbyhub/internal/models"
	"github.com/saxenaaman628/hobbyhub/internal/repository"
)

// CastVote retries a transaction aborted by another client with growing
// pauses until maxVoteWait has passed or the caller's context ends.
const (
	maxVoteWait   = 5 * time.Second
	minRetryDelay = 2 * time.Millisecond
	maxRetryDelay = 100 * time.Millisecond
)

func pollKey(id string) string      { return "poll:" + id }
func optionsKey(id string) string   { return "poll:" + id + ":options" }
func votesKey(id string) string     { return "poll:" + id + ":votes" }
func votersKey(id string) string    { return "poll:" + id + ":voters" }
func hubPollsKey(hub string) string { return "hub:" + hub + ":polls" }

// pollRecord is the shape of the poll:<id> hash.
type pollRecord struct {
	ID        string    `mapstructure:"id"`
	HubID     string    `mapstructure:"hub_id"`
	AuthorID  string    `mapstructure:"author_id"`
	Title     string    `mapstructure:"title"`
	CreatedAt time.Time `mapstructure:"created_at"`
}

// pollReader is satisfied by both *redis.Client and *redis.Tx, so polls can be
// loaded inside and outside a WATCH.
type pollReader interface {
	HGetAll(ctx context.Context, key string) *redis.MapStringStringCmd
	LRange(ctx context.Context, key string, start, stop int64) *redis.StringSliceCmd
}

// PollStore keeps polls in redis. Votes are applied with optimistic
// transactions so concurrent voters never overwrite each other's counts.
type PollStore struct {
	rdb       *redis.Client
	locks     *pollLocks
	logger    *logrus.Logger
	conflicts prometheus.Counter
}

var _ repository.PollRepository = (*PollStore)(nil)

// NewPollStore creates a PollStore. conflicts may be nil; when set it counts
// vote transactions aborted by a concurrent writer.
func NewPollStore(rdb *redis.Client, logger *logrus.Logger, conflicts prometheus.Counter) *PollStore {
	return &PollStore{rdb: rdb, locks: newPollLocks(), logger: logger, conflicts: conflicts}
}

func (s *PollStore) Create(ctx context.Context, poll *models.Poll) error {
	exists, err := s.rdb.Exists(ctx, pollKey(poll.ID)).Result()
	if err != nil {
		return fmt.Errorf("failed to check poll %s: %w", poll.ID, err)
	}
	if exists > 0 {
		return fmt.Errorf("poll %s: %w", poll.ID, models.ErrConflict)
	}

	options := make([]interface{}, 0, len(poll.Options))
	counts := make(map[string]interface{}, len(poll.Options))
	for _, opt := range poll.Options {
		options = append(options, opt.Text)
		counts[opt.Text] = opt.Votes
	}

	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, pollKey(poll.ID), map[string]interface{}{
			"id":         poll.ID,
			"hub_id":     poll.HubID,
			"author_id":  poll.AuthorID,
			"title":      poll.Title,
			"created_at": poll.CreatedAt.UTC().Format(time.RFC3339Nano),
		})
		pipe.RPush(ctx, optionsKey(poll.ID), options...)
		pipe.HSet(ctx, votesKey(poll.ID), counts)
		if len(poll.Voters) > 0 {
			pipe.HSet(ctx, votersKey(poll.ID), poll.Voters)
		}
		pipe.ZAdd(ctx, hubPollsKey(poll.HubID), redis.Z{
			Score:  float64(poll.CreatedAt.UnixMilli()),
			Member: poll.ID,
		})
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to create poll %s: %w", poll.ID, err)
	}
	return nil
}

func (s *PollStore) Get(ctx context.Context, id string) (*models.Poll, error) {
	return loadPoll(ctx, s.rdb, id)
}

// ListByHub returns the hub's polls newest first.
func (s *PollStore) ListByHub(ctx context.Context, hubID string, filters repository.ListFilters) ([]*models.Poll, error) {
	filters = filters.Normalize()
	start := int64(filters.Offset)
	stop := start + int64(filters.Limit) - 1

	ids, err := s.rdb.ZRevRange(ctx, hubPollsKey(hubID), start, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list polls of hub %s: %w", hubID, err)
	}

	polls := make([]*models.Poll, 0, len(ids))
	for _, id := range ids {
		poll, err := loadPoll(ctx, s.rdb, id)
		if errors.Is(err, models.ErrNotFound) {
			s.logger.WithField("poll_id", id).Warn("Hub index references a missing poll")
			continue
		}
		if err != nil {
			return nil, err
		}
		polls = append(polls, poll)
	}
	return polls, nil
}

// CastVote records userID's choice of option on the poll. The poll is read
// under WATCH, reconciled in memory and written back in MULTI/EXEC; if another
// client changes the poll in between, the whole cycle is retried after a
// backoff. Votes on one poll through the same store are serialized first, so
// only writers in other processes can abort the transaction.
func (s *PollStore) CastVote(ctx context.Context, pollID, userID, option string) (ballot.Result, error) {
	var result ballot.Result

	txf := func(tx *redis.Tx) error {
		poll, err := loadPoll(ctx, tx, pollID)
		if err != nil {
			return err
		}

		res, err := ballot.Reconcile(*poll, userID, option)
		if err != nil {
			return err
		}

		counts := map[string]interface{}{
			option: res.Poll.Options[res.Poll.OptionIndex(option)].Votes,
		}
		if i := res.Poll.OptionIndex(res.Previous); res.Previous != "" && i >= 0 {
			counts[res.Previous] = res.Poll.Options[i].Votes
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, votesKey(pollID), counts)
			pipe.HSet(ctx, votersKey(pollID), userID, option)
			return nil
		})
		if err != nil {
			return err
		}

		result = res
		return nil
	}

	unlock := s.locks.lock(pollID)
	defer unlock()

	ctx, cancel := context.WithTimeout(ctx, maxVoteWait)
	defer cancel()

	for attempt := 0; ; attempt++ {
		err := s.rdb.Watch(ctx, txf, pollKey(pollID), votesKey(pollID), votersKey(pollID))
		if err == nil {
			return result, nil
		}
		if !errors.Is(err, redis.TxFailedErr) {
			return ballot.Result{}, err
		}
		if s.conflicts != nil {
			s.conflicts.Inc()
		}
		s.logger.WithFields(logrus.Fields{
			"poll_id": pollID,
			"attempt": attempt + 1,
		}).Debug("Vote transaction aborted by concurrent writer, retrying")

		timer := time.NewTimer(retryDelay(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ballot.Result{}, fmt.Errorf("vote on poll %s gave up after %d attempts: %w", pollID, attempt+1,
				errors.Join(models.ErrConflict, ctx.Err()))
		case <-timer.C:
		}
	}
}

// retryDelay is a jittered exponential backoff: a random wait in
// [base/2, base) where base doubles per attempt up to maxRetryDelay.
func retryDelay(attempt int) time.Duration {
	base := minRetryDelay << min(attempt, 10)
	if base > maxRetryDelay {
		base = maxRetryDelay
	}
	half := base / 2
	return half + rand.N(half)
}

func (s *PollStore) Delete(ctx context.Context, id string) error {
	hubID, err := s.rdb.HGet(ctx, pollKey(id), "hub_id").Result()
	if errors.Is(err, redis.Nil) {
		return fmt.Errorf("poll %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to read poll %s: %w", id, err)
	}

	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, pollKey(id), optionsKey(id), votesKey(id), votersKey(id))
		pipe.ZRem(ctx, hubPollsKey(hubID), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete poll %s: %w", id, err)
	}
	return nil
}

// DeleteByHub removes every poll of the hub along with the hub's index.
func (s *PollStore) DeleteByHub(ctx context.Context, hubID string) error {
	ids, err := s.rdb.ZRange(ctx, hubPollsKey(hubID), 0, -1).Result()
	if err != nil {
		return fmt.Errorf("failed to list polls of hub %s: %w", hubID, err)
	}

	keys := make([]string, 0, len(ids)*4+1)
	for _, id := range ids {
		keys = append(keys, pollKey(id), optionsKey(id), votesKey(id), votersKey(id))
	}
	keys = append(keys, hubPollsKey(hubID))

	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete polls of hub %s: %w", hubID, err)
	}
	s.logger.WithFields(logrus.Fields{"hub_id": hubID, "polls": len(ids)}).Info("Deleted hub polls")
	return nil
}

func loadPoll(ctx context.Context, r pollReader, id string) (*models.Poll, error) {
	data, err := r.HGetAll(ctx, pollKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch poll %s: %w", id, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("poll %s: %w", id, models.ErrNotFound)
	}

	var rec pollRecord
	if err := decodeRecord(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode poll %s: %w", id, err)
	}

	texts, err := r.LRange(ctx, optionsKey(id), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch options of poll %s: %w", id, err)
	}
	votes, err := r.HGetAll(ctx, votesKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch votes of poll %s: %w", id, err)
	}
	voters, err := r.HGetAll(ctx, votersKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch voters of poll %s: %w", id, err)
	}

	options := make([]models.PollOption, 0, len(texts))
	for _, text := range texts {
		var n int64
		if raw, ok := votes[text]; ok {
			if n, err = strconv.ParseInt(raw, 10, 64); err != nil {
				return nil, fmt.Errorf("poll %s option %q has bad count %q: %w", id, text, raw, err)
			}
		}
		options = append(options, models.PollOption{Text: text, Votes: n})
	}

	return &models.Poll{
		ID:        rec.ID,
		HubID:     rec.HubID,
		AuthorID:  rec.AuthorID,
		Title:     rec.Title,
		Options:   options,
		CreatedAt: rec.CreatedAt,
		Voters:    voters,
	}, nil
}

func decodeRecord(data map[string]string, out *pollRecord) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeHookFunc(time.RFC3339Nano),
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(data)
}
