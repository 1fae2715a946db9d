package memrepo

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/go-memrepo/memrepo/resolve"
)

var errConfigLoadFailed = errors.New("loading configuration failed")

// Config is a structure used to set up a Manager from configuration
// files. It is intended to be mapped by viper.
type Config struct {
	// DefaultEntity is the entity type used for bare symbolic
	// identifiers, that is identifiers without a separator.
	DefaultEntity string `mapstructure:"default_entity"`

	// DefaultRepository is the repository kind used when neither the
	// entity nor its registration names one.
	DefaultRepository string `mapstructure:"default_repository" validate:"required"`

	// IDField is the identifier field every record must carry; missing
	// values are injected from the record's store key.
	IDField string `mapstructure:"id_field" validate:"required"`

	Naming Naming `mapstructure:"naming"`

	// Sources maps logical identifiers to the data files backing them.
	Sources map[string]string `mapstructure:"sources" validate:"dive,required"`
}

// Naming configures the convention used to rewrite interface-style
// identifiers into entity names.
type Naming struct {
	Separator       string `mapstructure:"separator"        validate:"required"`
	ContractSegment string `mapstructure:"contract_segment" validate:"required"`
	EntitySegment   string `mapstructure:"entity_segment"   validate:"required"`
	InterfaceSuffix string `mapstructure:"interface_suffix" validate:"required"`
}

// DefaultViper returns a new viper instance with all default values
// from Config set.
func DefaultViper() *viper.Viper {
	vip := viper.New()

	vip.SetDefault("default_entity", "")
	vip.SetDefault("default_repository", RepositoryMemory)
	vip.SetDefault("id_field", "id")

	vip.SetDefault("naming.separator", ".")
	vip.SetDefault("naming.contract_segment", "contract")
	vip.SetDefault("naming.entity_segment", "entity")
	vip.SetDefault("naming.interface_suffix", "Interface")

	vip.SetDefault("sources", map[string]string{})

	return vip
}

// NewConfigFromViper unmarshals and validates a Config from the given
// viper instance. Use DefaultViper as a starting point.
func NewConfigFromViper(vip *viper.Viper) (*Config, error) {
	config := &Config{}

	err := vip.Unmarshal(config)
	if err != nil {
		return nil, fmt.Errorf("%w: could not decode configuration into struct: %v", errConfigLoadFailed, err)
	}

	err = validator.New().Struct(config)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errConfigLoadFailed, err)
	}

	return config, nil
}

func (c *Config) convention() resolve.Convention {
	return resolve.Convention{
		Separator:       c.Naming.Separator,
		ContractSegment: c.Naming.ContractSegment,
		EntitySegment:   c.Naming.EntitySegment,
		InterfaceSuffix: c.Naming.InterfaceSuffix,
	}
}
