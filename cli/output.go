package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/jrsteele09/go-portal-client/api"
	"github.com/jrsteele09/go-portal-client/forms"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

// print writes v as json or yaml, or calls text for the default format.
func (a *app) print(cmd *cobra.Command, v any, text func(w io.Writer)) error {
	w := cmd.OutOrStdout()
	switch a.output {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case outputYAML:
		// round trip through json so yaml keys follow the json tags
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		var generic any
		if err := json.Unmarshal(data, &generic); err != nil {
			return err
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(generic)
	default:
		text(w)
		return nil
	}
}

func statusColor(status api.TaskStatus) string {
	switch status {
	case api.TaskSuccess:
		return green(status)
	case api.TaskFailure:
		return red(status)
	case api.TaskRevoked:
		return yellow(status)
	default:
		return cyan(status)
	}
}

// userError turns an API or transport failure into the short user facing message,
// keeping the original error in the chain.
func (a *app) userError(err error) error {
	a.logger.Debug().Err(err).Msg("request failed")
	return fmt.Errorf("%s: %w", forms.ErrorMessage(err), err)
}
