package actioninputs

import "errors"

type Options struct {
	HTTPTimeout string `json:"HTTPTimeout,omitempty" jsonschema:"default=30s"`
}

var fail = false

func Inputs() (any, error) {
	if fail {
		return nil, errors.New("unreachable")
	}
	return &Options{}, nil
}
