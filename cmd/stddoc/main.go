// Command stddoc compiles a structured-document AST into normalized
// standard-document XML.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/stddoc/stddoc/core/ast"
	"github.com/stddoc/stddoc/core/doctree"
	"github.com/stddoc/stddoc/internal/assemble"
	"github.com/stddoc/stddoc/internal/bibcache"
	"github.com/stddoc/stddoc/internal/cleanup"
	"github.com/stddoc/stddoc/internal/config"
	"github.com/stddoc/stddoc/internal/convert"
	"github.com/stddoc/stddoc/internal/diag"
	"github.com/stddoc/stddoc/internal/logging"
	"github.com/stddoc/stddoc/internal/mathml"
	"github.com/stddoc/stddoc/internal/refs"
	"github.com/stddoc/stddoc/internal/schema"
)

const version = "0.1.0"

// CLI defines the command-line interface for stddoc.
var CLI struct {
	LogLevel  string `name:"log-level" default:"info" enum:"debug,info,warn,error" help:"Log verbosity"`
	LogFormat string `name:"log-format" default:"text" enum:"text,json" help:"Log output format"`

	Convert ConvertCmd `cmd:"" help:"Convert an AST document to standard-document XML"`
	Cache   CacheGroup `cmd:"" help:"Bibliographic cache maintenance"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

// CacheGroup contains cache maintenance operations.
type CacheGroup struct {
	Purge CachePurgeCmd `cmd:"" help:"Delete all cached bibliographic records"`
	Info  CacheInfoCmd  `cmd:"" help:"Show cache locations and entry counts"`
}

// ConvertCmd converts one document.
type ConvertCmd struct {
	Input  string `arg:"" help:"Input AST document (JSON)" type:"existingfile"`
	Output string `name:"output" short:"o" help:"Output file (default stdout)" type:"path"`

	Config        string `name:"config" help:"Configuration file (default .stddoc.yml beside the input)" type:"path"`
	Lang          string `name:"lang" help:"Override document language"`
	Script        string `name:"script" help:"Override document script"`
	KeepAsciiMath bool   `name:"keep-asciimath" help:"Emit AsciiMath sources instead of MathML"`
	NoSmartQuotes bool   `name:"no-smartquotes" help:"Keep straight quotes in prose"`
	CacheDir      string `name:"cache-dir" help:"Project-local cache directory" type:"path"`
	NoCache       bool   `name:"no-cache" help:"Disable the bibliographic cache"`
	Strict        bool   `name:"strict" help:"Exit nonzero when recoverable conditions were reported"`
}

func (c *ConvertCmd) Run() error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	doc, err := ast.LoadFile(c.Input)
	if err != nil {
		return err
	}

	opts := c.options(doc, cfg)
	sink := diag.NewSink()
	math := mathml.NewRetrying(mathml.Unavailable{})
	cctx := convert.NewContext(opts, sink, math)

	sk, err := cctx.Convert(doc)
	if err != nil {
		return err
	}

	resolver, closeCache, err := c.resolver(cfg, sink)
	if err != nil {
		return err
	}
	if closeCache != nil {
		defer closeCache()
	}
	if err := resolver.Apply(context.Background(), sk.Roots()...); err != nil {
		return err
	}

	cleanup.New(cctx).Apply(sk)

	root := assemble.Build(doc, sk)
	out := doctree.XML(root, doctree.WriteOptions{Declaration: true, Indent: "  "})
	if err := schema.Check(string(out), sink); err != nil {
		return err
	}

	if err := c.write(out); err != nil {
		return err
	}
	if sink.Len() > 0 {
		fmt.Fprintln(os.Stderr, sink.Summary())
		if c.Strict {
			return fmt.Errorf("%d condition(s) reported", sink.Len())
		}
	}
	return nil
}

func (c *ConvertCmd) loadConfig() (*config.Config, error) {
	if c.Config != "" {
		return config.Load(c.Config)
	}
	return config.LoadNear(c.Input)
}

// options layers the sources: built-in defaults, then the configuration
// file, then document attributes, then CLI flags.
func (c *ConvertCmd) options(doc *ast.Document, cfg *config.Config) convert.Options {
	opts := convert.OptionsFrom(doc)
	if doc.Attrs.Value("language") == "" && cfg.Language != "" {
		opts.Lang = cfg.Language
	}
	if doc.Attrs.Value("script") == "" && cfg.Script != "" {
		opts.Script = cfg.Script
	}
	if !cfg.SmartQuotesEnabled() {
		opts.SmartQuotes = false
	}
	if cfg.KeepAsciiMath {
		opts.KeepAsciiMath = true
	}
	if c.Lang != "" {
		opts.Lang = c.Lang
	}
	if c.Script != "" {
		opts.Script = c.Script
	}
	if c.KeepAsciiMath {
		opts.KeepAsciiMath = true
	}
	if c.NoSmartQuotes {
		opts.SmartQuotes = false
	}
	return opts
}

// resolver builds the reference resolver. No lookup provider ships with the
// tool, so fetching stays off and recognized identifiers keep their literal
// citation text; the cache is still opened so a configured provider build
// shares the same wiring.
func (c *ConvertCmd) resolver(cfg *config.Config, sink *diag.Sink) (*refs.Resolver, func(), error) {
	r := refs.NewResolver(refs.Unavailable{}, nil, sink)
	r.Fetch = false
	if c.NoCache || cfg.Cache.Disabled {
		return r, nil, nil
	}
	localDir := cfg.Cache.Dir
	if c.CacheDir != "" {
		localDir = c.CacheDir
	}
	globalPath := cfg.Cache.GlobalPath
	if globalPath == "" {
		p, err := bibcache.DefaultGlobalPath()
		if err != nil {
			return nil, nil, err
		}
		globalPath = p
	}
	tiered, global, err := bibcache.Open(localDir, globalPath)
	if err != nil {
		return nil, nil, err
	}
	r.Cache = tiered
	return r, func() { global.Close() }, nil
}

func (c *ConvertCmd) write(out []byte) error {
	if c.Output == "" {
		_, err := os.Stdout.Write(out)
		return err
	}
	return os.WriteFile(c.Output, out, 0o644)
}

// CachePurgeCmd empties both cache tiers.
type CachePurgeCmd struct {
	CacheDir   string `name:"cache-dir" default:".stddoc-cache" help:"Project-local cache directory" type:"path"`
	GlobalPath string `name:"global-path" help:"Shared cache database path" type:"path"`
}

func (c *CachePurgeCmd) Run() error {
	globalPath, err := resolveGlobalPath(c.GlobalPath)
	if err != nil {
		return err
	}
	local, err := bibcache.OpenLocal(c.CacheDir)
	if err != nil {
		return err
	}
	nLocal, err := local.Purge()
	if err != nil {
		return err
	}
	global, err := bibcache.OpenGlobal(globalPath)
	if err != nil {
		return err
	}
	defer global.Close()
	nGlobal, err := global.Purge()
	if err != nil {
		return err
	}
	fmt.Printf("purged %d local and %d global cache entries\n", nLocal, nGlobal)
	return nil
}

// CacheInfoCmd reports cache locations and sizes.
type CacheInfoCmd struct {
	CacheDir   string `name:"cache-dir" default:".stddoc-cache" help:"Project-local cache directory" type:"path"`
	GlobalPath string `name:"global-path" help:"Shared cache database path" type:"path"`
}

func (c *CacheInfoCmd) Run() error {
	globalPath, err := resolveGlobalPath(c.GlobalPath)
	if err != nil {
		return err
	}
	local, err := bibcache.OpenLocal(c.CacheDir)
	if err != nil {
		return err
	}
	nLocal, err := local.Count()
	if err != nil {
		return err
	}
	global, err := bibcache.OpenGlobal(globalPath)
	if err != nil {
		return err
	}
	defer global.Close()
	nGlobal, err := global.Count()
	if err != nil {
		return err
	}
	fmt.Printf("local:  %s (%d entries)\n", local.Dir(), nLocal)
	fmt.Printf("global: %s (%d entries, %s driver)\n", globalPath, nGlobal, bibcache.DriverType())
	return nil
}

func resolveGlobalPath(override string) (string, error) {
	if override != "" {
		return override, nil
	}
	return bibcache.DefaultGlobalPath()
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Printf("stddoc %s (sqlite driver: %s, %s)\n", version, bibcache.DriverType(), bibcache.DriverPackage())
	return nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("stddoc"),
		kong.Description("Structured-document compiler producing normalized standard-document XML"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	logging.InitLogger(logging.ParseLevel(CLI.LogLevel), logging.ParseFormat(CLI.LogFormat))
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
