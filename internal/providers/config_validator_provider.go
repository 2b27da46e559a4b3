package providers

import (
	"fmt"

	"ghexplorer/internal/structures"

	"github.com/gookit/validate"
)

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

func (c *CnfValidator) Validate() error {
	v := validate.Struct(c.conf)
	if !v.Validate() {
		return fmt.Errorf("invalid config: %s", v.Errors.One())
	}
	if c.conf.Storage.Driver != "memory" && c.conf.Storage.Path == "" {
		return fmt.Errorf("invalid config: storage.path is required for driver %q", c.conf.Storage.Driver)
	}
	return nil
}
