package registry

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Policy decides what happens when Load fails.
type Policy string

const (
	// PolicyDegrade keeps serving with an empty registry.
	PolicyDegrade Policy = "degrade"
	// PolicyFail aborts process start.
	PolicyFail Policy = "fail"
)

// ParsePolicy accepts "degrade" or "fail" in any case.
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(strings.ToLower(strings.TrimSpace(s))); p {
	case PolicyDegrade, PolicyFail:
		return p, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
}

// LoadWithPolicy loads dir and applies policy on failure. Under
// PolicyDegrade the error is logged and an empty registry is returned
// with a nil error.
func LoadWithPolicy(dir string, policy Policy, log *zap.Logger) (*Registry, error) {
	reg, err := Load(dir)
	if err == nil {
		log.Info("models loaded", zap.String("dir", dir), zap.Int("periods", len(reg.Periods())))
		return reg, nil
	}
	if policy == PolicyFail {
		return nil, err
	}
	log.Error("model load failed, serving without models", zap.String("dir", dir), zap.Error(err))
	return Empty(), nil
}
