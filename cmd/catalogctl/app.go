package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/dmitrymomot/pricingkit/pkg/catalog"
	"github.com/dmitrymomot/pricingkit/pkg/contract"
	"github.com/dmitrymomot/pricingkit/pkg/errkind"
	"github.com/dmitrymomot/pricingkit/pkg/evalctx"
	"github.com/dmitrymomot/pricingkit/pkg/logger"
	"github.com/dmitrymomot/pricingkit/pkg/novation"
	"github.com/dmitrymomot/pricingkit/pkg/pricing"
	"github.com/dmitrymomot/pricingkit/pkg/rbac"
	"github.com/dmitrymomot/pricingkit/pkg/subscription"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

const usage = `usage: catalogctl [-role ROLE] COMMAND [flags]

commands:
  list            list services
  add-pricing     upload a pricing version from a YAML file or URL
  archive         archive a pricing version and novate its contracts
  activate        re-activate an archived pricing version
  delete-pricing  delete an archived pricing version
  disable         disable a service and novate its contracts
  reset-usage     renew expired usage counters of a contract
  consume         record usage of a limit on a contract
  evaluate        print the feature evaluation context of a user's contract
  health          check that the storage backend is reachable`

type stores struct {
	services  catalog.Store
	documents pricing.DocumentStore
	contracts contract.Store
	health    func(context.Context) error
}

type command struct {
	verb   string
	module string
	exec   func(ctx context.Context, fs *flag.FlagSet, args []string) (any, error)
}

type app struct {
	catalog   *catalog.Catalog
	contracts *contract.Service
	evaluator *evalctx.Builder
	auth      rbac.Authorizer
	parser    pricing.Parser
	health    func(context.Context) error
	log       *slog.Logger
	stdout    io.Writer
	stderr    io.Writer
	commands  map[string]command
}

func newApp(ctx context.Context, st stores, fetcher pricing.Fetcher, log *slog.Logger, stdout, stderr io.Writer) (*app, error) {
	parser := pricing.NewYAMLParser()
	resolver := pricing.NewResolver(st.documents,
		pricing.WithFetcher(fetcher),
		pricing.WithParser(parser),
	)
	engine := novation.New(st.contracts, resolver, novation.WithLogger(log))
	cat := catalog.New(st.services, st.documents, resolver,
		catalog.WithNovator(engine),
		catalog.WithLogger(log),
	)
	auth, err := rbac.NewAuthorizer(ctx, rbac.NewInMemPolicySource(rbac.DefaultPolicies()))
	if err != nil {
		return nil, err
	}

	a := &app{
		catalog:   cat,
		contracts: contract.NewService(st.contracts, cat, contract.WithLogger(log)),
		evaluator: evalctx.NewBuilder(cat, evalctx.WithLogger(log)),
		auth:      auth,
		parser:    parser,
		health:    st.health,
		log:       log,
		stdout:    stdout,
		stderr:    stderr,
	}
	a.commands = map[string]command{
		"list":           {http.MethodGet, "services", a.list},
		"add-pricing":    {http.MethodPost, "services", a.addPricing},
		"archive":        {http.MethodPut, "services", a.archive},
		"activate":       {http.MethodPut, "services", a.activate},
		"delete-pricing": {http.MethodDelete, "services", a.deletePricing},
		"disable":        {http.MethodDelete, "services", a.disable},
		"reset-usage":    {http.MethodPut, "contracts", a.resetUsage},
		"consume":        {http.MethodPut, "contracts", a.consume},
		"evaluate":       {http.MethodPost, "features", a.evaluate},
		"health":         {http.MethodGet, "services", a.checkHealth},
	}
	return a, nil
}

// run parses global flags, authorizes the command and prints its JSON result.
func (a *app) run(ctx context.Context, defaultRole string, args []string) int {
	global := flag.NewFlagSet("catalogctl", flag.ContinueOnError)
	global.SetOutput(a.stderr)
	global.Usage = func() { fmt.Fprintln(a.stderr, usage) }
	roleName := global.String("role", defaultRole, "caller role: admin, manager or evaluator")
	if err := global.Parse(args); err != nil {
		return exitUsage
	}
	if global.NArg() == 0 {
		global.Usage()
		return exitUsage
	}

	name := global.Arg(0)
	cmd, ok := a.commands[name]
	if !ok {
		fmt.Fprintf(a.stderr, "catalogctl: unknown command %q\n\n%s\n", name, usage)
		return exitUsage
	}

	role, err := rbac.ParseRole(*roleName)
	if err != nil {
		return a.fail(ctx, name, err)
	}
	ctx = rbac.WithRole(ctx, role)
	if err := a.auth.CanFromContext(ctx, cmd.verb, cmd.module); err != nil {
		return a.fail(ctx, name, err)
	}

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	result, err := cmd.exec(ctx, fs, global.Args()[1:])
	if errors.Is(err, errUsage) {
		fs.Usage()
		return exitUsage
	}
	if err != nil {
		return a.fail(ctx, name, err)
	}

	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return a.fail(ctx, name, err)
	}
	return exitOK
}

func (a *app) fail(ctx context.Context, name string, err error) int {
	out := errkind.Classify(err)
	a.log.ErrorContext(ctx, "command failed",
		logger.Operation(name),
		logger.ErrorKey(errkind.Key(err)),
		logger.Error(err),
	)
	fmt.Fprintf(a.stderr, "catalogctl: %s: %s: %v\n", name, out.Key, err)
	return exitFailure
}

var errUsage = errors.New("usage")

func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return errors.Join(errUsage, err)
	}
	return nil
}

func (a *app) list(ctx context.Context, fs *flag.FlagSet, args []string) (any, error) {
	query := fs.String("q", "", "case-insensitive name filter")
	all := fs.Bool("all", false, "include disabled services")
	if err := parse(fs, args); err != nil {
		return nil, err
	}
	return a.catalog.Search(ctx, *query, *all)
}

func (a *app) addPricing(ctx context.Context, fs *flag.FlagSet, args []string) (any, error) {
	service := fs.String("service", "", "service name")
	file := fs.String("file", "", "path to a YAML pricing")
	url := fs.String("url", "", "URL of a remote YAML pricing")
	if err := parse(fs, args); err != nil {
		return nil, err
	}
	if *service == "" || (*file == "") == (*url == "") {
		return nil, errUsage
	}

	src := catalog.Source{URL: *url}
	if *file != "" {
		raw, err := os.ReadFile(*file)
		if err != nil {
			return nil, err
		}
		doc, err := a.parser.Parse(ctx, raw)
		if err != nil {
			return nil, err
		}
		src = catalog.Source{Document: doc}
	}
	return a.catalog.AddPricing(ctx, *service, src)
}

func (a *app) archive(ctx context.Context, fs *flag.FlagSet, args []string) (any, error) {
	service := fs.String("service", "", "service name")
	version := fs.String("version", "", "pricing version")
	plan := fs.String("plan", "", "fallback plan")
	addOns := addOnFlag{}
	fs.Var(addOns, "addon", "fallback add-on as name=quantity (repeatable)")
	if err := parse(fs, args); err != nil {
		return nil, err
	}
	if *service == "" || *version == "" {
		return nil, errUsage
	}

	var fallback *subscription.Selection
	if *plan != "" || len(addOns) > 0 {
		fallback = &subscription.Selection{Plan: *plan, AddOns: addOns}
	}
	return a.catalog.ArchivePricing(ctx, *service, *version, fallback)
}

func (a *app) activate(ctx context.Context, fs *flag.FlagSet, args []string) (any, error) {
	service, version, err := parseServiceVersion(fs, args)
	if err != nil {
		return nil, err
	}
	if err := a.catalog.ActivatePricing(ctx, service, version); err != nil {
		return nil, err
	}
	return a.catalog.Get(ctx, service)
}

func (a *app) deletePricing(ctx context.Context, fs *flag.FlagSet, args []string) (any, error) {
	service, version, err := parseServiceVersion(fs, args)
	if err != nil {
		return nil, err
	}
	if err := a.catalog.DeletePricing(ctx, service, version); err != nil {
		return nil, err
	}
	return a.catalog.Get(ctx, service)
}

func (a *app) disable(ctx context.Context, fs *flag.FlagSet, args []string) (any, error) {
	service := fs.String("service", "", "service name")
	if err := parse(fs, args); err != nil {
		return nil, err
	}
	if *service == "" {
		return nil, errUsage
	}
	return a.catalog.Disable(ctx, *service)
}

func (a *app) resetUsage(ctx context.Context, fs *flag.FlagSet, args []string) (any, error) {
	id := fs.String("contract", "", "contract id")
	if err := parse(fs, args); err != nil {
		return nil, err
	}
	if *id == "" {
		return nil, errUsage
	}
	renewed, err := a.contracts.ResetUsage(ctx, *id)
	if err != nil {
		return nil, err
	}
	return map[string]int{"renewed": renewed}, nil
}

func (a *app) consume(ctx context.Context, fs *flag.FlagSet, args []string) (any, error) {
	id := fs.String("contract", "", "contract id")
	service := fs.String("service", "", "service name")
	limit := fs.String("limit", "", "usage limit name")
	amount := fs.Float64("amount", 1, "amount to record")
	if err := parse(fs, args); err != nil {
		return nil, err
	}
	if *id == "" || *service == "" || *limit == "" {
		return nil, errUsage
	}
	if err := a.contracts.Consume(ctx, *id, *service, *limit, *amount); err != nil {
		return nil, err
	}
	c, err := a.contracts.Get(ctx, *id)
	if err != nil {
		return nil, err
	}
	return c.UsageLevels[contract.ServiceKey(*service)], nil
}

func (a *app) evaluate(ctx context.Context, fs *flag.FlagSet, args []string) (any, error) {
	userID := fs.String("user", "", "user id")
	if err := parse(fs, args); err != nil {
		return nil, err
	}
	if *userID == "" {
		return nil, errUsage
	}
	c, err := a.contracts.GetByUser(ctx, *userID)
	if err != nil {
		return nil, err
	}
	return a.evaluator.Build(ctx, c)
}

func (a *app) checkHealth(ctx context.Context, fs *flag.FlagSet, args []string) (any, error) {
	if err := parse(fs, args); err != nil {
		return nil, err
	}
	if a.health != nil {
		if err := a.health(ctx); err != nil {
			return nil, err
		}
	}
	return map[string]string{"status": "ok"}, nil
}

func parseServiceVersion(fs *flag.FlagSet, args []string) (string, string, error) {
	service := fs.String("service", "", "service name")
	version := fs.String("version", "", "pricing version")
	if err := parse(fs, args); err != nil {
		return "", "", err
	}
	if *service == "" || *version == "" {
		return "", "", errUsage
	}
	return *service, *version, nil
}

// addOnFlag collects repeated name=quantity pairs.
type addOnFlag map[string]int

func (f addOnFlag) String() string {
	pairs := make([]string, 0, len(f))
	for name, qty := range f {
		pairs = append(pairs, name+"="+strconv.Itoa(qty))
	}
	return strings.Join(pairs, ",")
}

func (f addOnFlag) Set(v string) error {
	name, qty, found := strings.Cut(v, "=")
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("invalid add-on %q", v)
	}
	if !found {
		f[name] = 1
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(qty))
	if err != nil {
		return fmt.Errorf("invalid add-on quantity %q: %w", v, err)
	}
	f[name] = n
	return nil
}

func roleExtractor(ctx context.Context) (slog.Attr, bool) {
	role, ok := rbac.RoleFromContext(ctx)
	if !ok {
		return slog.Attr{}, false
	}
	return logger.Role(string(role)), true
}
