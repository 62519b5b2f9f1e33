package debounce

import (
	"fmt"
	"reflect"
	"strconv"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

const (
	// ConfigKey is the Viper subkey under which debounce configuration should be stored.
	// FromViper *does not* assume this key.
	ConfigKey = "debounce"
)

// Config is the externally configurable form of a Debounced function's options.  Durations may be
// given as strings such as "250ms" or as bare numbers, which are interpreted as milliseconds.
type Config struct {
	// Name is used in log output.  Optional.
	Name string `mapstructure:"name"`

	// Wait is the debounce window.  Zero is allowed.
	Wait time.Duration `mapstructure:"wait"`

	// MaxWait forces an invocation during a long burst.  Zero means no maximum.
	MaxWait time.Duration `mapstructure:"maxWait"`

	// Leading enables invocation on the leading edge of a burst
	Leading bool `mapstructure:"leading"`

	// Trailing enables invocation on the trailing edge of a burst.  If unset, trailing is enabled.
	Trailing *bool `mapstructure:"trailing"`

	// CallImmediately requests one invocation at construction
	CallImmediately bool `mapstructure:"callImmediately"`

	// MaxCalls caps invocations between cancellations.  Zero means no cap.
	MaxCalls int `mapstructure:"maxCalls"`
}

// Options converts this configuration into the Options accepted by New.  The wait is returned
// separately, since New takes it as a parameter.
func (c Config) Options() (time.Duration, []Option, error) {
	switch {
	case c.Wait < 0:
		return 0, nil, fmt.Errorf("%w: negative wait %s", ErrInvalidArgument, c.Wait)

	case c.MaxWait < 0:
		return 0, nil, fmt.Errorf("%w: negative maxWait %s", ErrInvalidArgument, c.MaxWait)

	case c.MaxCalls < 0:
		return 0, nil, fmt.Errorf("%w: negative maxCalls %d", ErrInvalidArgument, c.MaxCalls)
	}

	o := []Option{
		WithLeading(c.Leading),
		WithCallImmediately(c.CallImmediately),
		WithMaxCalls(c.MaxCalls),
	}

	if c.Trailing != nil {
		o = append(o, WithTrailing(*c.Trailing))
	}

	if c.MaxWait > 0 {
		o = append(o, WithMaxWait(c.MaxWait))
	}

	if len(c.Name) > 0 {
		o = append(o, WithName(c.Name))
	}

	return c.Wait, o, nil
}

// Sub returns the standard child Viper, using ConfigKey, for this package.
// If passed nil, this function returns nil.
func Sub(v *viper.Viper) *viper.Viper {
	if v != nil {
		return v.Sub(ConfigKey)
	}

	return nil
}

// FromViper produces a Config from a (possibly nil) Viper instance.
// Callers should use FromViper(Sub(v)) if the standard subkey is desired.
func FromViper(v *viper.Viper) (Config, error) {
	var c Config
	if v != nil {
		err := v.Unmarshal(&c, viper.DecodeHook(
			mapstructure.ComposeDecodeHookFunc(
				MillisecondsHookFunc(),
				mapstructure.StringToTimeDurationHookFunc(),
			),
		))

		if err != nil {
			return Config{}, err
		}
	}

	return c, nil
}

// MillisecondsHookFunc is a mapstructure decode hook that converts bare numbers, or strings holding
// bare numbers, into time.Duration values measured in milliseconds.  Anything else is passed through.
func MillisecondsHookFunc() mapstructure.DecodeHookFuncType {
	durationType := reflect.TypeOf(time.Duration(0))
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != durationType || from == durationType {
			return data, nil
		}

		switch from.Kind() {
		case reflect.String:
			if _, err := strconv.ParseFloat(data.(string), 64); err != nil {
				return data, nil
			}

		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
			reflect.Float32, reflect.Float64:

		default:
			return data, nil
		}

		ms, err := cast.ToFloat64E(data)
		if err != nil {
			return nil, err
		}

		return time.Duration(ms * float64(time.Millisecond)), nil
	}
}
