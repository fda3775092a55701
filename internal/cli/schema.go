package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	codec "github.com/Vladimir7280/catbuffer-typescript-sub001"
	"github.com/Vladimir7280/catbuffer-typescript-sub001/catalog"
	"github.com/Vladimir7280/catbuffer-typescript-sub001/schema"
)

func (a *app) schemaCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Inspect the schema registry",
	}

	list := &cobra.Command{
		Use:       "list [transactions|receipts|structs]",
		Short:     "List bodies and structs",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"transactions", "receipts", "structs"},
		RunE: func(cmd *cobra.Command, args []string) error {
			which := "all"
			if len(args) == 1 {
				which = args[0]
			}
			w := cmd.OutOrStdout()
			switch which {
			case "all", "transactions", "receipts", "structs":
			default:
				return fmt.Errorf("unknown section %q", which)
			}
			for _, family := range []schema.Family{schema.Transactions, schema.Receipts} {
				if which != "all" && which != string(family)+"s" {
					continue
				}
				for _, b := range a.reg.Bodies(family) {
					fmt.Fprintf(w, "%-12s %-32s v%d %s\n", family, b.Name, b.Version, discriminants(b.Discriminants))
				}
			}
			if which == "all" || which == "structs" {
				for _, d := range a.reg.Structs() {
					fmt.Fprintf(w, "%-12s %s\n", "struct", d.Name)
				}
			}
			return nil
		},
	}

	show := &cobra.Command{
		Use:   "show <name>",
		Short: "Print the layout of a body or struct",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := a.layout(args[0])
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), out)
		},
	}

	dump := &cobra.Command{
		Use:   "dump",
		Short: "Print the built-in schema table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := cmd.OutOrStdout().Write(catalog.Table())
			return err
		},
	}

	cmd.AddCommand(list, show, dump)
	return cmd
}

func discriminants(ds []uint16) string {
	parts := make([]string, len(ds))
	for i, d := range ds {
		parts[i] = fmt.Sprintf("0x%04X", d)
	}
	return strings.Join(parts, ",")
}

func (a *app) layout(name string) (map[string]any, error) {
	out := map[string]any{"name": name}
	var def *schema.StructDef
	if b, err := a.reg.BodyNamed(name); err == nil {
		def = b.StructDef
		out["family"] = string(b.Family)
		out["version"] = b.Version
		out["discriminants"] = discriminants(b.Discriminants)
	} else if d, err := a.reg.Struct(name); err == nil {
		def = d
		out["family"] = "struct"
	} else {
		return nil, fmt.Errorf("%w: no body or struct named %q", codec.ErrUnknownName, name)
	}

	rows := make([]map[string]any, 0, len(def.Fields))
	for _, f := range def.Fields {
		row := map[string]any{"name": f.Name, "type": f.Def.Type, "kind": f.Kind.String()}
		switch {
		case f.Reserved:
			row["reserved"] = true
		case f.Derived:
			row["computed_from"] = def.Fields[f.Referrer].Name
		}
		if f.Def.Count != "" {
			row["count"] = f.Def.Count
		}
		if f.Def.Size != "" {
			row["size"] = f.Def.Size
		}
		if f.Def.Remaining {
			row["remaining"] = true
		}
		if f.Options.Alignment > 0 {
			row["alignment"] = f.Options.Alignment
			row["pad_last"] = f.Options.PadLast
		}
		rows = append(rows, row)
	}
	out["fields"] = rows
	return out, nil
}
