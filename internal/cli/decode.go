package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	codec "github.com/Vladimir7280/catbuffer-typescript-sub001"
	"github.com/Vladimir7280/catbuffer-typescript-sub001/model"
	"github.com/Vladimir7280/catbuffer-typescript-sub001/receipt"
	"github.com/Vladimir7280/catbuffer-typescript-sub001/transaction"
)

const structKind = "struct:"

type described interface {
	codec.Codec
	Describe() map[string]any
}

func (a *app) decodeCommand() *cobra.Command {
	var kind, file string
	cmd := &cobra.Command{
		Use:   "decode [hex]",
		Short: "Decode a payload and print its fields",
		Long: `Decode a payload given as hex, or as raw bytes with --file. The kind selects
the envelope: transaction, embedded, receipt, or struct:<Name> for a schema struct.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := input(args, file)
			if err != nil {
				return err
			}
			v, n, err := a.decode(kind, data)
			if err != nil {
				return err
			}
			if n < int64(len(data)) {
				a.log.Warn("trailing bytes ignored", zap.Int64("decoded", n), zap.Int("total", len(data)))
			}
			return a.render(cmd.OutOrStdout(), v.Describe())
		},
	}
	cmd.Flags().StringVarP(&kind, "kind", "k", "transaction", "transaction, embedded, receipt or struct:<Name>")
	cmd.Flags().StringVarP(&file, "file", "f", "", "read the raw payload from a file")
	return cmd
}

func input(args []string, file string) ([]byte, error) {
	switch {
	case file != "" && len(args) > 0:
		return nil, errors.New("give either a hex argument or --file, not both")
	case file != "":
		return os.ReadFile(file)
	case len(args) == 1:
		s := strings.TrimPrefix(strings.TrimSpace(args[0]), "0x")
		return model.DecodeHex(s)
	}
	return nil, errors.New("nothing to decode: give a hex argument or --file")
}

func (a *app) decode(kind string, data []byte) (described, int64, error) {
	var v described
	switch {
	case kind == "transaction":
		v = transaction.Empty(a.reg)
	case kind == "embedded":
		v = transaction.EmptyEmbedded(a.reg)
	case kind == "receipt":
		v = receipt.Empty(a.reg)
	case strings.HasPrefix(kind, structKind):
		def, err := a.reg.Struct(strings.TrimPrefix(kind, structKind))
		if err != nil {
			return nil, 0, err
		}
		v = def.Empty()
	default:
		return nil, 0, fmt.Errorf("unknown kind %q", kind)
	}

	n, err := v.ReadFrom(codec.NewBytesReader(data))
	if err != nil {
		return nil, n, err
	}
	a.log.Debug("decoded", zap.String("kind", kind), zap.Int64("bytes", n))
	return v, n, nil
}
