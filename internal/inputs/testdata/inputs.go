package main

type Options struct {
	Retries int    `json:"retries,omitempty" jsonschema:"default=3"`
	Token   string `json:"token"`
	DryRun  bool   `json:"dryRun,omitempty" jsonschema:"description=Skip the release"`
}

func Inputs() any {
	return Options{}
}
