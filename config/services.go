package config

import (
	"errors"
	"fmt"
	"strings"
)

// ServiceMode names a long-running component of the console process.
type ServiceMode string

const (
	ServiceModeHTTP   ServiceMode = "http"
	ServiceModeReaper ServiceMode = "reaper"
)

// ValidServiceModes lists the modes SERVICES accepts, in start order.
func ValidServiceModes() []ServiceMode {
	return []ServiceMode{ServiceModeHTTP, ServiceModeReaper}
}

// ServiceSet is the set of requested modes.
type ServiceSet map[ServiceMode]struct{}

// Has reports whether m was requested.
func (s ServiceSet) Has(m ServiceMode) bool {
	_, ok := s[m]
	return ok
}

// ParseServices reads a comma-separated SERVICES value. Blank items are ignored,
// duplicates collapse, and an unknown name fails the whole list.
func ParseServices(raw string) (ServiceSet, error) {
	set := ServiceSet{}
	for _, part := range strings.Split(raw, ",") {
		name := strings.ToLower(strings.TrimSpace(part))
		if name == "" {
			continue
		}
		mode := ServiceMode(name)
		if !isValidMode(mode) {
			return nil, fmt.Errorf("invalid service name %q (valid options: %s)", name, validModeList())
		}
		set[mode] = struct{}{}
	}
	if len(set) == 0 {
		return nil, errors.New("at least one service must be specified")
	}
	return set, nil
}

func isValidMode(m ServiceMode) bool {
	for _, v := range ValidServiceModes() {
		if v == m {
			return true
		}
	}
	return false
}

func validModeList() string {
	names := make([]string, 0, len(ValidServiceModes()))
	for _, m := range ValidServiceModes() {
		names = append(names, string(m))
	}
	return strings.Join(names, ", ")
}
