package client

import (
	"time"

	"github.com/mitchellh/mapstructure"
)

// decode maps an api.JSON/api.Array payload onto a model struct,
// reusing the json tags and parsing RFC3339 timestamps.
func decode(input, output any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.StringToTimeHookFunc(time.RFC3339),
		Result:     output,
		TagName:    "json",
	})
	if err != nil {
		return err
	}

	return decoder.Decode(input)
}
