// Package cli implements the geoaddr command line tool.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"geoaddr/internal/domain"
	"geoaddr/internal/port"
)

// Runner is the extraction pipeline as seen by the commands.
type Runner interface {
	Process(ctx context.Context, text, cityHint string) *domain.GeoResult
	BatchFunc(ctx context.Context, texts []string, cityHint string, done func(i int, res *domain.GeoResult)) []*domain.GeoResult
}

// App carries the dependencies of the commands. The constructors are called
// lazily so that --help works without configuration.
type App struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer

	NewRunner  func(ctx context.Context) (Runner, error)
	NewStorage func(ctx context.Context) (port.ObjectStorage, error)
	Log        *zap.Logger
	Version    string
}

func (a *App) stdin() io.Reader {
	if a.In == nil {
		return os.Stdin
	}
	return a.In
}

func (a *App) stdout() io.Writer {
	if a.Out == nil {
		return os.Stdout
	}
	return a.Out
}

func (a *App) stderr() io.Writer {
	if a.Err == nil {
		return os.Stderr
	}
	return a.Err
}

// NewRootCommand builds the geoaddr command tree.
func NewRootCommand(app *App) *cobra.Command {
	if app.Log == nil {
		app.Log = zap.NewNop()
	}

	root := &cobra.Command{
		Use:   "geoaddr",
		Short: "extract and geocode street addresses in Russian and Ukrainian text",
		Long: `
geoaddr finds a street address in free-form Russian or Ukrainian text, using
the configured LLM backends when available and an offline pattern cascade
otherwise, and resolves it to coordinates through Nominatim.
`,
		Version:      app.Version,
		SilenceUsage: true,
	}
	root.SetIn(app.stdin())
	root.SetOut(app.stdout())
	root.SetErr(app.stderr())

	root.AddCommand(newExtractCommand(app))
	root.AddCommand(newBatchCommand(app))
	return root
}

// Execute runs the command tree and returns the process exit code.
func Execute(ctx context.Context, app *App) int {
	if err := NewRootCommand(app).ExecuteContext(ctx); err != nil {
		return 1
	}
	return 0
}
