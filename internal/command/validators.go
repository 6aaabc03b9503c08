// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"fmt"
	"slices"
	"strings"

	"github.com/tfctl/jailctl/internal/datasets"
)

type FlagValidatorType func(any) error

func FlagValidators(value any, validators ...FlagValidatorType) error {
	for _, v := range validators {
		if err := v(value); err != nil {
			return err
		}
	}
	return nil
}

func OutputValidator(value any) error {
	var validOutputFlagValues = []string{"text", "json", "yaml"}
	s, _ := value.(string)
	if !slices.Contains(validOutputFlagValues, s) {
		return fmt.Errorf("must be one of %v", validOutputFlagValues)
	}
	return nil
}

// ParseSources parses name=pool/path specs. Specs may be comma separated.
func ParseSources(specs []string) ([]datasets.Source, error) {
	var sources []datasets.Source
	for _, spec := range specs {
		for _, s := range strings.Split(spec, ",") {
			s = strings.TrimSpace(s)
			if s == "" {
				continue
			}
			name, dataset, ok := strings.Cut(s, "=")
			name, dataset = strings.TrimSpace(name), strings.TrimSpace(dataset)
			if !ok || name == "" || dataset == "" {
				return nil, fmt.Errorf("invalid dataset %q, want name=pool/path", s)
			}
			sources = append(sources, datasets.Source{Name: name, Dataset: dataset})
		}
	}
	return sources, nil
}
