package commands

import (
	"errors"
	"fmt"

	"github.com/samber/lo"
)

var (
	ErrUnspecifiedOperation  = errors.New("an operation must be specified (--compress, --decompress or --add)")
	ErrConflictingOperations = errors.New("only one of --compress, --decompress or --add can be specified")
	ErrUnexpectedArguments   = errors.New("unexpected arguments")
)

// MissingArgumentError is returned when an operation is missing a flag it
// cannot run without.
type MissingArgumentError struct {
	Flag   string
	Reason string
}

func (e *MissingArgumentError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("missing required argument --%s: %s", e.Flag, e.Reason)
	}

	return fmt.Sprintf("missing required argument --%s", e.Flag)
}

func (e *MissingArgumentError) Is(err error) bool {
	_, ok := err.(*MissingArgumentError)
	return ok
}

type Operation int

const (
	OperationUnspecified Operation = iota
	OperationHelp
	OperationCompress
	OperationDecompress
	OperationAdd
)

func (o Operation) String() string {
	switch o {
	case OperationHelp:
		return "help"
	case OperationCompress:
		return "compress"
	case OperationDecompress:
		return "decompress"
	case OperationAdd:
		return "add"
	default:
		return "unspecified"
	}
}

// resolveOperation picks the single operation selected by the flags. Help
// takes precedence over every other flag.
func (cmd *TartCommand) resolveOperation() (Operation, error) {
	if cmd.Help {
		return OperationHelp, nil
	}

	selected := lo.Keys(lo.PickBy(map[Operation]bool{
		OperationCompress:   cmd.Compress,
		OperationDecompress: cmd.Decompress,
		OperationAdd:        cmd.Add,
	}, func(_ Operation, set bool) bool {
		return set
	}))

	switch len(selected) {
	case 0:
		return OperationUnspecified, ErrUnspecifiedOperation
	case 1:
		return selected[0], nil
	default:
		return OperationUnspecified, ErrConflictingOperations
	}
}

func (cmd *TartCommand) validate(op Operation) error {
	switch op {
	case OperationCompress:
		if cmd.Output == "" {
			return &MissingArgumentError{Flag: "output", Reason: "the archive to create"}
		}
	case OperationDecompress, OperationAdd:
		if len(cmd.Input) == 0 {
			return &MissingArgumentError{Flag: "input"}
		}
		if len(cmd.Input) > 1 {
			return fmt.Errorf("%w: --%s accepts a single --input, got %d", ErrUnexpectedArguments, op, len(cmd.Input))
		}
		if cmd.Output == "" {
			return &MissingArgumentError{Flag: "output"}
		}
	}

	return nil
}
