// Package cercactl implements the admin command line for moderating
// pending businesses and the contact inbox over the HTTP API.
package cercactl

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/dalemusser/cercadeti/internal/apiclient"
)

const usage = `usage: cercactl [flags] <command> [args]

commands:
  categories
  zones [city]
  pending list
  pending show <documentId>
  pending approve <documentId>
  pending reject <documentId>
  contacts list
  contacts read <id>
  contacts replied <id>
`

// ErrUsage is returned for an unknown or incomplete command.
var ErrUsage = errors.New("invalid command")

type envConfig struct {
	BaseURL  string        `env:"NEXT_PUBLIC_STRAPI_URL" envDefault:"http://localhost:1337"`
	Email    string        `env:"CERCADETI_ADMIN_EMAIL"`
	Password string        `env:"CERCADETI_ADMIN_PASSWORD"`
	Timeout  time.Duration `env:"CERCADETI_CLI_TIMEOUT" envDefault:"30s"`
}

// Config holds parsed flags and the remaining command words.
type Config struct {
	BaseURL    string
	Email      string
	Password   string
	Timeout    time.Duration
	JSONOutput bool
	Status     string
	Query      string
	Page       int
	PageSize   int
	Args       []string
}

// ParseConfig reads the environment then flags; flags win.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var envCfg envConfig
	if err := env.Parse(&envCfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	cfg := Config{
		BaseURL:  envCfg.BaseURL,
		Email:    envCfg.Email,
		Password: envCfg.Password,
		Timeout:  envCfg.Timeout,
	}
	fs.StringVar(&cfg.BaseURL, "url", cfg.BaseURL, "API base URL (default: NEXT_PUBLIC_STRAPI_URL)")
	fs.StringVar(&cfg.Email, "email", cfg.Email, "admin email (default: CERCADETI_ADMIN_EMAIL)")
	fs.StringVar(&cfg.Password, "password", cfg.Password, "admin password (default: CERCADETI_ADMIN_PASSWORD)")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "overall timeout")
	fs.BoolVar(&cfg.JSONOutput, "json", false, "print JSON instead of a table")
	fs.StringVar(&cfg.Status, "status", "", "status filter for list commands")
	fs.StringVar(&cfg.Query, "q", "", "name search for pending list")
	fs.IntVar(&cfg.Page, "page", 0, "page number for list commands")
	fs.IntVar(&cfg.PageSize, "page-size", 0, "page size for list commands")
	fs.Usage = func() {
		fmt.Fprint(fs.Output(), usage)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	cfg.Args = fs.Args()
	if len(cfg.Args) == 0 {
		return Config{}, fmt.Errorf("%w: no command given\n%s", ErrUsage, usage)
	}
	return cfg, nil
}

// Run executes the command in cfg.Args, writing results to out.
func Run(ctx context.Context, cfg Config, out, errOut io.Writer) error {
	client, err := apiclient.New(apiclient.Config{BaseURL: cfg.BaseURL, Timeout: cfg.Timeout})
	if err != nil {
		return err
	}
	r := runner{cfg: cfg, client: client, out: out, errOut: errOut}

	switch cfg.Args[0] {
	case "categories":
		return r.categories(ctx)
	case "zones":
		return r.zones(ctx)
	case "pending":
		return r.pending(ctx)
	case "contacts":
		return r.contacts(ctx)
	default:
		return fmt.Errorf("%w: unknown command %q\n%s", ErrUsage, cfg.Args[0], usage)
	}
}

type runner struct {
	cfg    Config
	client *apiclient.Client
	out    io.Writer
	errOut io.Writer
}

// sub returns the subcommand and its single argument, when required.
func (r runner) sub(needsArg map[string]bool) (string, string, error) {
	if len(r.cfg.Args) < 2 {
		return "", "", fmt.Errorf("%w: %s needs a subcommand\n%s", ErrUsage, r.cfg.Args[0], usage)
	}
	verb := r.cfg.Args[1]
	need, known := needsArg[verb]
	if !known {
		return "", "", fmt.Errorf("%w: unknown %s subcommand %q", ErrUsage, r.cfg.Args[0], verb)
	}
	if !need {
		return verb, "", nil
	}
	if len(r.cfg.Args) < 3 || strings.TrimSpace(r.cfg.Args[2]) == "" {
		return "", "", fmt.Errorf("%w: %s %s needs an id", ErrUsage, r.cfg.Args[0], verb)
	}
	return verb, r.cfg.Args[2], nil
}

func (r runner) login(ctx context.Context) error {
	if r.cfg.Email == "" || r.cfg.Password == "" {
		return errors.New("admin credentials required: set -email and -password or CERCADETI_ADMIN_EMAIL/CERCADETI_ADMIN_PASSWORD")
	}
	admin, err := r.client.Login(ctx, r.cfg.Email, r.cfg.Password)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	fmt.Fprintf(r.errOut, "signed in as %s\n", admin.Email)
	return nil
}

func (r runner) listOptions() apiclient.ListOptions {
	return apiclient.ListOptions{
		Status:   r.cfg.Status,
		Q:        r.cfg.Query,
		Page:     r.cfg.Page,
		PageSize: r.cfg.PageSize,
	}
}

func (r runner) printJSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (r runner) table(header string, rows [][]string) error {
	tw := tabwriter.NewWriter(r.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, header)
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

func (r runner) pageFooter(pg apiclient.Pagination) {
	fmt.Fprintf(r.errOut, "page %d of %d (%d total)\n", pg.Page, pg.PageCount, pg.Total)
}
