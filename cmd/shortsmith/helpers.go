package main

import (
	"fmt"
	"strconv"
	"strings"

	"shortsmith/internal/services"
)

func parseVideoID(arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil || id <= 0 {
		return 0, services.Wrap(services.ErrValidation, "cli", "args", fmt.Sprintf("invalid video id %q", arg), nil)
	}
	return id, nil
}

func valueOrDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}
