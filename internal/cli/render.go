package cli

import (
	"io"

	ugorji "github.com/ugorji/go/codec"
	"gopkg.in/yaml.v3"
)

// render writes v in the configured output format.
func (a *app) render(w io.Writer, v any) error {
	if a.cfg.Output.Format == "yaml" {
		enc := yaml.NewEncoder(w)
		if a.cfg.Output.Indent > 0 {
			enc.SetIndent(a.cfg.Output.Indent)
		}
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}

	h := &ugorji.JsonHandle{}
	h.Canonical = true
	h.Indent = int8(a.cfg.Output.Indent)
	if err := ugorji.NewEncoder(w, h).Encode(v); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}
