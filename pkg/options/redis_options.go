package options

import (
	"errors"

	"github.com/spf13/pflag"
)

var _ IOptions = (*RedisOptions)(nil)

// RedisOptions configures the redis session backend.
type RedisOptions struct {
	Addr      string `json:"addr" mapstructure:"addr"`
	Password  string `json:"password" mapstructure:"password"`
	DB        int    `json:"db" mapstructure:"db"`
	PoolSize  int    `json:"pool-size" mapstructure:"pool-size"`
	KeyPrefix string `json:"key-prefix" mapstructure:"key-prefix"`
}

func NewRedisOptions() *RedisOptions {
	return &RedisOptions{
		Addr:      "127.0.0.1:6379",
		PoolSize:  10,
		KeyPrefix: "fleetview:",
	}
}

func (o *RedisOptions) Validate() []error {
	if o == nil {
		return nil
	}

	errs := []error{}
	if err := ValidateAddress(o.Addr); err != nil {
		errs = append(errs, err)
	}
	if o.DB < 0 {
		errs = append(errs, errors.New("--redis.db must not be negative"))
	}
	return errs
}

func (o *RedisOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Addr, "redis.addr", o.Addr, "Redis server address.")
	fs.StringVar(&o.Password, "redis.password", o.Password, "Redis password.")
	fs.IntVar(&o.DB, "redis.db", o.DB, "Redis database number.")
	fs.IntVar(&o.PoolSize, "redis.pool-size", o.PoolSize, "Maximum number of redis connections.")
	fs.StringVar(&o.KeyPrefix, "redis.key-prefix", o.KeyPrefix, "Prefix prepended to every session key.")
}
