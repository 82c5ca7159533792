// Package config holds the YAML configuration for the subsh CLI surface.
// The library core takes everything it needs through capabilities and
// never reads configuration itself.
package config

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ConfigurationName is the file name Load looks for inside a directory.
const ConfigurationName = "subsh.yaml"

// Configuration drives the CLI: initial variable bindings, the playground
// prompt and executor tuning.
type Configuration struct {
	// Vars are bound into the session resolver before any command runs.
	Vars map[string]string `json:"vars"`

	// Prompt is printed by the playground before each line.
	Prompt string `json:"prompt"`

	// EventLog is a path for the JSON-lines execution event log; empty
	// disables recording.
	EventLog string `json:"event_log"`

	// PipeCopyBuffer sizes the executor's byte-pump buffers.
	PipeCopyBuffer int `json:"pipe_copy_buffer" validate:"omitempty,gte=1024"`
}

// Default returns the configuration used when no file exists.
func Default() *Configuration {
	return &Configuration{
		Prompt:         "subsh> ",
		PipeCopyBuffer: 32 * 1024,
	}
}

// Validate the configuration for basic semantic errors.
func (c *Configuration) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		return name
	})

	return validate.Struct(c)
}
