package rollingbloom

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis"
	"github.com/sirupsen/logrus"
)

var ErrNilRedisClient = errors.New(`rollingbloom: nil redis client`)
var ErrEmptyRedisKey = errors.New(`rollingbloom: empty redis key`)

// DefaultPollInterval bounds how often ShiftByRedisEpoch reads the epoch key.
const DefaultPollInterval = time.Second

type RedisEpochConfig struct {
	Client redis.Cmdable

	// the key holds an integer epoch, a missing key is epoch 0
	Key string

	// zero means DefaultPollInterval
	PollInterval time.Duration

	// nil means logrus.StandardLogger()
	Logger logrus.FieldLogger
}

// ShiftByRedisEpoch shifts when the epoch stored in redis changes.
// Any process sharing the key can call Advance() to rotate every filter in the cluster.
// It must be built with NewShiftByRedisEpoch, a nil or zero value never shifts.
type ShiftByRedisEpoch struct {
	client       redis.Cmdable
	key          string
	pollInterval time.Duration
	logger       logrus.FieldLogger

	// the epoch seen by the latest successful poll
	observed int64
	// the epoch of the current window
	current  int64
	lastPoll time.Time

	now func() time.Time
}

// NewShiftByRedisEpoch reads the current epoch so the first window starts at it.
func NewShiftByRedisEpoch(cfg RedisEpochConfig) (*ShiftByRedisEpoch, error) {
	return newShiftByRedisEpoch(cfg, time.Now)
}

func newShiftByRedisEpoch(cfg RedisEpochConfig, now func() time.Time) (*ShiftByRedisEpoch, error) {
	if cfg.Client == nil {
		return nil, ErrNilRedisClient
	}
	if cfg.Key == "" {
		return nil, ErrEmptyRedisKey
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}

	c := &ShiftByRedisEpoch{
		client:       cfg.Client,
		key:          cfg.Key,
		pollInterval: cfg.PollInterval,
		logger:       cfg.Logger.WithField("key", cfg.Key),
		now:          now,
	}

	epoch, err := c.readEpoch()
	if err != nil {
		return nil, err
	}
	c.observed = epoch
	c.current = epoch
	c.lastPoll = now()
	return c, nil
}

func (c *ShiftByRedisEpoch) readEpoch() (int64, error) {
	epoch, err := c.client.Get(c.key).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("rollingbloom: read epoch %q: %w", c.key, err)
	}
	return epoch, nil
}

// Advance increments the shared epoch. Every condition watching the key,
// this one included, shifts on its next insertion after polling it.
func (c *ShiftByRedisEpoch) Advance() (int64, error) {
	if c == nil || c.client == nil {
		return 0, ErrNilRedisClient
	}
	epoch, err := c.client.Incr(c.key).Result()
	if err != nil {
		return 0, fmt.Errorf("rollingbloom: advance epoch %q: %w", c.key, err)
	}
	c.observed = epoch
	return epoch, nil
}

// Epoch is the epoch of the current window.
func (c *ShiftByRedisEpoch) Epoch() int64 {
	if c == nil {
		return 0
	}
	return c.current
}

func (c *ShiftByRedisEpoch) ShouldShift() bool {
	if c == nil {
		return false
	}
	return c.observed != c.current
}

func (c *ShiftByRedisEpoch) DoShift() {
	if c == nil {
		return
	}
	c.current = c.observed
}

// Increment polls the epoch key if the poll interval has passed.
// A failed poll is logged and the previously observed epoch is kept.
func (c *ShiftByRedisEpoch) Increment() {
	if c == nil || c.client == nil {
		return
	}
	now := clockOrNow(c.now)
	if now.Sub(c.lastPoll) < c.pollInterval {
		return
	}
	c.lastPoll = now

	epoch, err := c.readEpoch()
	if err != nil {
		c.logger.WithError(err).Warn("failed to poll rolling bloom epoch")
		return
	}
	c.observed = epoch
}

func (c *ShiftByRedisEpoch) ShouldShiftAfterIncrement() bool {
	return shouldShiftAfterIncrement(c)
}
