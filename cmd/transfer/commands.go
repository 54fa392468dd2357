package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/samvad-hq/transfer-client/internal/app"
	"github.com/samvad-hq/transfer-client/internal/config"
	"github.com/samvad-hq/transfer-client/internal/logger"
	"github.com/samvad-hq/transfer-client/pkg/requests"
	"github.com/spf13/cobra"
)

const cliRequestID = "cli"

func newRootCmd(cfg *config.Config, log logger.Logger, out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "transfer",
		Short:         "One-shot HTTP/HTTPS GET and POST transfers",
		Long:          "Issue single GET or POST transfers and print the response body. The exit status is the transfer completion code.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var strictTLS, followRedirects, debug bool
	root.PersistentFlags().BoolVar(&strictTLS, "strict-tls", cfg.StrictTLS, "verify secure transfers against platform roots when no CA path is given")
	root.PersistentFlags().BoolVar(&followRedirects, "follow-redirects", cfg.FollowRedirects, "follow up to max_redirects redirects")
	root.PersistentFlags().BoolVar(&debug, "debug", cfg.HTTPDebug, "dump requests and responses to the log")
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg.StrictTLS = strictTLS
		cfg.FollowRedirects = followRedirects
		cfg.HTTPDebug = debug
		if cfg.FollowRedirects && cfg.MaxRedirects <= 0 {
			return fmt.Errorf("max_redirects must be positive when following redirects")
		}
		return nil
	}

	root.AddCommand(newGetCmd(cfg, log, out))
	root.AddCommand(newPostCmd(cfg, log, out))
	root.AddCommand(newRunCmd(cfg, log, out))
	return root
}

func newGetCmd(cfg *config.Config, log logger.Logger, out io.Writer) *cobra.Command {
	var secure bool
	var caPath string

	cmd := &cobra.Command{
		Use:   "get URL",
		Short: "Fetch URL and print the body",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec := requests.Spec{
				ID:     cliRequestID,
				Method: requests.MethodGet,
				URL:    args[0],
				Secure: secure || caPath != "",
				CAPath: caPath,
			}
			return transferOne(cmd, cfg, log, out, spec)
		},
	}
	cmd.Flags().BoolVar(&secure, "secure", false, "use the HTTPS transfer shape")
	cmd.Flags().StringVar(&caPath, "ca", "", "CA bundle used to verify the peer (implies --secure)")
	return cmd
}

func newPostCmd(cfg *config.Config, log logger.Logger, out io.Writer) *cobra.Command {
	var (
		secure  bool
		caPath  string
		data    string
		form    []string
		headers []string
	)

	cmd := &cobra.Command{
		Use:   "post URL",
		Short: "Post a body or form fields to URL and print the response body",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := parseFormFlags(form)
			if err != nil {
				return err
			}
			spec := requests.Spec{
				ID:      cliRequestID,
				Method:  requests.MethodPost,
				URL:     args[0],
				Secure:  secure || caPath != "",
				CAPath:  caPath,
				Body:    data,
				Form:    fields,
				Headers: headers,
			}
			return transferOne(cmd, cfg, log, out, spec)
		},
	}
	cmd.Flags().BoolVar(&secure, "secure", false, "use the HTTPS transfer shape")
	cmd.Flags().StringVar(&caPath, "ca", "", "CA bundle used to verify the peer (implies --secure)")
	cmd.Flags().StringVarP(&data, "data", "d", "", "raw request body")
	cmd.Flags().StringArrayVarP(&form, "form", "F", nil, "form field as key=value (repeatable)")
	cmd.Flags().StringArrayVarP(&headers, "header", "H", nil, `header line "Name: value" (repeatable, plain POST only)`)
	return cmd
}

func newRunCmd(cfg *config.Config, log logger.Logger, out io.Writer) *cobra.Command {
	var (
		file     string
		workers  int
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run every transfer listed in a requests file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := requests.LoadRegistry(file)
			if err != nil {
				return fmt.Errorf("load requests registry: %w", err)
			}
			specs := reg.All()
			log.InfoObj("requests registry loaded", "requests_meta", map[string]any{
				"count": len(specs),
				"file":  file,
			})

			client, err := app.NewClient(cfg, log)
			if err != nil {
				return err
			}
			runner, err := app.NewRunner(client, workers, log)
			if err != nil {
				return err
			}

			// Bodies without an output file go to out after every pass.
			var writeErr error
			runner.OnPass(func(specs []requests.Spec, results []app.Result) {
				for i, res := range results {
					if specs[i].Output != "" || res.Err != nil {
						continue
					}
					if _, werr := io.WriteString(out, res.Body); werr != nil {
						writeErr = fmt.Errorf("write body: %w", werr)
						log.ErrorObj("write body failed", "request_error", map[string]any{
							"request_id": res.ID,
							"error":      werr.Error(),
						})
					}
				}
			})

			if interval > 0 {
				if err := runner.Loop(cmd.Context(), specs, interval); err != nil {
					return err
				}
				return writeErr
			}

			if _, err := runner.Run(cmd.Context(), specs); err != nil {
				return err
			}
			return writeErr
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", cfg.RequestsFile, "requests file (YAML or JSON)")
	cmd.Flags().IntVarP(&workers, "workers", "w", cfg.Workers, "concurrent transfers")
	cmd.Flags().DurationVar(&interval, "interval", cfg.RepeatInterval, "repeat every interval until interrupted (0 runs once)")
	return cmd
}

// transferOne validates spec like a requests file entry, runs it and writes
// the body to out.
func transferOne(cmd *cobra.Command, cfg *config.Config, log logger.Logger, out io.Writer, spec requests.Spec) error {
	reg, err := requests.NewRegistry([]requests.Spec{spec})
	if err != nil {
		return fmt.Errorf("invalid request: %w", err)
	}
	spec, _ = reg.ByID(cliRequestID)

	client, err := app.NewClient(cfg, log)
	if err != nil {
		return err
	}

	res := app.Dispatch(cmd.Context(), client, spec)
	if _, werr := io.WriteString(out, res.Body); werr != nil && res.Err == nil {
		return fmt.Errorf("write body: %w", werr)
	}
	return res.Err
}

func parseFormFlags(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	fields := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("invalid form field %q (expected key=value)", pair)
		}
		fields[key] = value
	}
	return fields, nil
}
