package main

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/samvad-hq/samvad-api-relay/internal/config"
	"github.com/samvad-hq/samvad-api-relay/pkg/notify"
	"github.com/samvad-hq/samvad-api-relay/pkg/relay"
)

var (
	baseFlag    string
	tokenFlag   string
	tenantFlag  string
	headerFlags []string
	queryFlags  []string
	timeoutFlag time.Duration
	quietFlag   bool
	rawFlag     bool
	noColorFlag bool
)

var rootCmd = &cobra.Command{
	Use:   "relay",
	Short: "Call JSON APIs through the response-shaping dispatcher",
	Long: `relay dispatches HTTP calls against a base address and shapes every
response into the canonical {success, code, msg, data} envelope. Failed
calls raise a notice on stderr before the error detail is printed.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(*cobra.Command, []string) {
		if noColorFlag {
			color.NoColor = true
		}
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&baseFlag, "base", "b", "", "base URL calls resolve against (env: BASE_URL)")
	pf.StringVar(&tokenFlag, "token", "", "bearer token attached to every call (env: API_TOKEN)")
	pf.StringVar(&tenantFlag, "tenant", "", "tenant id attached to every call (env: TENANT_ID)")
	pf.StringArrayVarP(&headerFlags, "header", "H", nil, `extra request header ("Key: Value"), repeatable`)
	pf.StringArrayVar(&queryFlags, "query", nil, `query parameter ("key=value"), repeatable`)
	pf.DurationVar(&timeoutFlag, "timeout", 0, "request timeout override (e.g. 10s)")
	pf.BoolVarP(&quietFlag, "quiet", "q", false, "suppress failure notices on stderr")
	pf.BoolVar(&rawFlag, "raw", false, "print the response body without shaping it")
	pf.BoolVar(&noColorFlag, "no-color", false, "disable colored output")

	rootCmd.AddCommand(getCmd, deleteCmd, postCmd, putCmd, patchCmd, downloadCmd)
}

// newClient builds the dispatcher client from config with flag overrides
// applied on top.
func newClient() (*relay.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if baseFlag != "" {
		cfg.BaseURL = baseFlag
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("base url is required (--base or BASE_URL)")
	}
	if tokenFlag != "" {
		cfg.APIToken = tokenFlag
	}
	if tenantFlag != "" {
		cfg.TenantID = tenantFlag
	}
	if timeoutFlag > 0 {
		cfg.Timeout = timeoutFlag
	}

	creds := relay.CredentialSource(relay.AnonymousSource{})
	if cfg.APIToken != "" || cfg.TenantID != "" {
		creds = relay.StaticSource{APIToken: cfg.APIToken, Tenant: cfg.TenantID}
	}

	saver := relay.DirSaver{Dir: cfg.DownloadDir}
	if dirFlag != "" {
		saver.Dir = dirFlag
	}

	opts := []relay.Option{
		relay.WithCredentials(creds),
		relay.WithSaver(saver),
	}
	if !quietFlag {
		opts = append(opts, relay.WithSink(notify.NewConsole("cli", nil)))
	}

	return relay.New(relay.Config{
		BaseURL:        cfg.BaseURL,
		Timeout:        cfg.Timeout,
		NoticeDuration: cfg.NoticeDuration,
	}, opts...), nil
}

// callOptions converts the shared flags into per-call options.
func callOptions() ([]relay.CallOption, error) {
	var opts []relay.CallOption

	headers, err := parseHeaders(headerFlags)
	if err != nil {
		return nil, err
	}
	if len(headers) > 0 {
		opts = append(opts, relay.WithHeaders(headers))
	}
	if rawFlag {
		opts = append(opts, relay.WithoutNormalize())
	}
	return opts, nil
}

func parseHeaders(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	headers := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, ":")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("invalid header %q (want \"Key: Value\")", pair)
		}
		headers[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return headers, nil
}

func parseQuery(pairs []string) (url.Values, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	query := make(url.Values, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("invalid query parameter %q (want \"key=value\")", pair)
		}
		query.Add(strings.TrimSpace(key), value)
	}
	return query, nil
}
