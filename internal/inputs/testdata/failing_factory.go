package main

import "errors"

func Inputs() (any, error) {
	return nil, errors.New("boom")
}
