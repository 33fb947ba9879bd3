package client

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/anniv/internal/common"
)

var ErrUnavailable = errors.New("server unavailable")

// StatusError is a non-zero envelope status.
type StatusError struct {
	Status  uint32
	Message string
}

func (e *StatusError) Error() string {
	name := "UnknownError"
	if kind := common.ForCode(e.Status); kind != nil {
		name = kind.Error()
	}
	if e.Message != "" {
		return fmt.Sprintf("%s (%d): %s", name, e.Status, e.Message)
	}
	return fmt.Sprintf("%s (%d)", name, e.Status)
}

func (e *StatusError) Unwrap() error {
	if kind := common.ForCode(e.Status); kind != nil {
		return kind
	}
	return nil
}
