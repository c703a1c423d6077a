package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/dhzdhd/curlr/internal/app"
	"github.com/dhzdhd/curlr/internal/core"
	"github.com/dhzdhd/curlr/internal/exporter"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// writeClipboard is replaced in tests.
var writeClipboard = clipboard.WriteAll

// SendOptions holds options for the send command.
type SendOptions struct {
	Headers []string
	Body    string
	DryRun  bool
	Format  string
	Copy    bool
	Curl    string
	Pretty  bool
}

// NewSendCommand creates the send command.
func NewSendCommand(flags *configFlags) *cobra.Command {
	opts := &SendOptions{}

	cmd := &cobra.Command{
		Use:   "send [URI]",
		Short: "Assemble and send a request without the TUI",
		Long: `Assemble a request the same way the composer does and send it.

Headers given with -H are joined one per line; a body given with -d makes the
default method POST. With --curl the fields are read from a curl command first;
a URI argument, -H and -d then add to or replace them. With --dry-run the
assembled request is printed instead.`,
		Example: `  curlr send https://httpbin.org/get
  curlr send https://httpbin.org/post -H 'Accept: application/json' -d '{"name":"test"}'
  curlr send https://httpbin.org/put --method put -d hi --dry-run --format yaml
  curlr send https://httpbin.org/post -d '{"a":1}' --dry-run --pretty
  curlr send --curl "curl -u me:secret https://httpbin.org/basic-auth/me/secret"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.resolve(cmd)
			if err != nil {
				return err
			}
			fields, err := sendFields(cmd, &cfg, args, opts)
			if err != nil {
				return err
			}
			return runSend(cmd, cfg, fields, opts)
		},
	}

	cmd.Flags().StringArrayVarP(&opts.Headers, "header", "H", nil, "Request header (format: 'Name: value'), repeatable")
	cmd.Flags().StringVarP(&opts.Body, "data", "d", "", "Request body")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Print the assembled request instead of sending it")
	cmd.Flags().StringVar(&opts.Format, "format", "",
		"Output format. With --dry-run: "+exporter.NewDefaultRegistry().Describe()+". Responses: json or yaml")
	cmd.Flags().BoolVar(&opts.Copy, "copy", false, "Copy the assembled request to the clipboard as a curl command")
	cmd.Flags().StringVar(&opts.Curl, "curl", "", "Read the request from a curl command")
	cmd.Flags().BoolVar(&opts.Pretty, "pretty", false, "Break curl output over several lines (--dry-run and --copy)")

	return cmd
}

// sendFields merges --curl, the URI argument, -H and -d into field contents.
func sendFields(cmd *cobra.Command, cfg *app.Config, args []string, opts *SendOptions) (core.Fields, error) {
	fields := core.Fields{}
	if opts.Curl != "" {
		var err error
		if fields, err = importCurl(cmd, cfg, opts.Curl); err != nil {
			return nil, err
		}
	}
	if len(args) == 1 {
		fields[core.SlotURI] = args[0]
	}
	if fields.Text(core.SlotURI) == "" {
		return nil, errors.New("a URI argument or --curl is required")
	}

	if len(opts.Headers) > 0 {
		lines := opts.Headers
		if existing := fields.Text(core.SlotHeaders); existing != "" {
			lines = append([]string{existing}, lines...)
		}
		fields[core.SlotHeaders] = strings.Join(lines, "\n")
	}
	if cmd.Flags().Changed("data") {
		fields[core.SlotBody] = opts.Body
	}
	return fields, nil
}

func runSend(cmd *cobra.Command, cfg app.Config, fields core.Fields, opts *SendOptions) error {
	switch opts.Format {
	case "", string(exporter.FormatJSON), string(exporter.FormatYAML):
	default:
		if !opts.DryRun {
			return fmt.Errorf("%w: %q for a response", exporter.ErrUnknownFormat, opts.Format)
		}
	}

	logger, closer, err := app.NewLogger(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	assembler, err := newAssembler(cfg)
	if err != nil {
		return err
	}
	req := assembler.Assemble(fields)

	application := newApp(cfg, logger)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if opts.Copy {
		if err := copyCurl(ctx, req, opts.Pretty); err != nil {
			return err
		}
	}

	if opts.DryRun {
		if err := application.Check(req); err != nil {
			return err
		}
		return outputRequest(ctx, cmd.OutOrStdout(), req, opts.Format, opts.Pretty)
	}

	resp, err := application.Submit(ctx, req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	switch opts.Format {
	case "":
		return outputHuman(cmd.OutOrStdout(), resp)
	case string(exporter.FormatJSON):
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(newResponseResult(resp))
	default:
		encoder := yaml.NewEncoder(cmd.OutOrStdout())
		defer encoder.Close()
		return encoder.Encode(newResponseResult(resp))
	}
}

func copyCurl(ctx context.Context, req *core.Request, pretty bool) error {
	out, err := (&exporter.CurlExporter{Pretty: pretty}).Export(ctx, req)
	if err != nil {
		return err
	}
	if err := writeClipboard(string(out)); err != nil {
		return fmt.Errorf("copying to clipboard: %w", err)
	}
	return nil
}

func outputRequest(ctx context.Context, out io.Writer, req *core.Request, name string, pretty bool) error {
	format := exporter.FormatCurl
	if name != "" {
		var err error
		if format, err = exporter.ParseFormat(name); err != nil {
			return err
		}
	}

	registry := exporter.NewDefaultRegistry()
	if pretty {
		registry.Register(&exporter.CurlExporter{Pretty: true})
	}
	result, err := registry.Export(ctx, format, req)
	if err != nil {
		return err
	}

	content := string(result.Content)
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	_, err = io.WriteString(out, content)
	return err
}

// responseResult is the structured form of a response.
type responseResult struct {
	Status     int                 `json:"status" yaml:"status"`
	StatusText string              `json:"status_text" yaml:"status_text"`
	Headers    map[string][]string `json:"headers" yaml:"headers"`
	Body       string              `json:"body" yaml:"body"`
	TimingMS   int64               `json:"timing_ms" yaml:"timing_ms"`
}

func newResponseResult(resp *core.Response) responseResult {
	return responseResult{
		Status:     resp.StatusCode(),
		StatusText: resp.Status().Text(),
		Headers:    resp.Headers().ToMap(),
		Body:       resp.Body(),
		TimingMS:   resp.Timing().Total.Milliseconds(),
	}
}

func outputHuman(out io.Writer, resp *core.Response) error {
	// Status line
	fmt.Fprintf(out, "HTTP %s\n", resp.Status().Text())
	fmt.Fprintf(out, "Time: %dms\n", resp.Timing().Total.Milliseconds())
	fmt.Fprintln(out)

	// Headers
	fmt.Fprintln(out, "Headers:")
	for _, key := range resp.Headers().Keys() {
		for _, value := range resp.Headers().GetAll(key) {
			fmt.Fprintf(out, "  %s: %s\n", key, value)
		}
	}
	fmt.Fprintln(out)

	// Body
	if resp.Size() > 0 {
		fmt.Fprintln(out, "Body:")
		fmt.Fprintln(out, resp.Body())
	}

	return nil
}
