package cli

import (
	"github.com/ka2n/oembed/api/format"
	"github.com/morikuni/failure/v2"
	"github.com/spf13/pflag"
)

type formatFlag struct {
	IsSet bool
	Value format.Format
}

// String implements pflag.Value.
func (s *formatFlag) String() string {
	return s.Value.String()
}

func (s *formatFlag) Set(value string) error {
	f, err := format.Lookup(value)
	if err != nil {
		return failure.Wrap(err, failure.WithCode(InvalidFormatFlag),
			failure.Message("--format must be json or xml"),
			failure.Context{"format": value})
	}
	s.Value = f
	s.IsSet = true
	return nil
}

func (s *formatFlag) Type() string {
	return "json|xml"
}

var _ pflag.Value = &formatFlag{}
