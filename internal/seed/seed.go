// Package seed provides the built-in directory fixtures.
package seed

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"meddir/internal/domain"
)

//go:embed fixtures.yaml
var fixtures []byte

// YAML is a domain.SeedSource backed by a YAML document.
type YAML struct {
	data []byte
}

// Embedded returns the source for the fixtures compiled into the binary.
func Embedded() YAML { return YAML{data: fixtures} }

func FromBytes(b []byte) YAML { return YAML{data: b} }

func (y YAML) Load(_ context.Context) (domain.Fixtures, error) {
	var fx domain.Fixtures
	dec := yaml.NewDecoder(bytes.NewReader(y.data))
	dec.KnownFields(true)
	if err := dec.Decode(&fx); err != nil {
		return domain.Fixtures{}, fmt.Errorf("decode fixtures: %w", err)
	}
	return fx, nil
}
