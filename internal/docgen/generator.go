// Package docgen turns captured snippets into one resource document per
// operation.
package docgen

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/kolah/apispec/internal/config"
	"github.com/kolah/apispec/internal/model"
	"github.com/kolah/apispec/internal/resource"
)

type Generator struct {
	assembler     *resource.Assembler
	operationPath string
}

type Output struct {
	Filename string
	Content  string
	Resource *model.Resource
}

func New(cfg *config.Config, assembler *resource.Assembler) *Generator {
	operationPath := cfg.OperationPath
	if operationPath == "" {
		operationPath = config.OperationPlaceholder + "/" + "resource.json"
	}
	return &Generator{
		assembler:     assembler,
		operationPath: operationPath,
	}
}

// Generate assembles every snippet concurrently. Outputs keep the order of
// the snippets; the first error cancels the remaining work.
func (g *Generator) Generate(ctx context.Context, snippets []model.Snippet) ([]Output, error) {
	outputs := make([]Output, len(snippets))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))

	for i, s := range snippets {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out, err := g.generate(s)
			if err != nil {
				return err
			}
			outputs[i] = *out
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[string]string, len(outputs))
	for _, out := range outputs {
		if prev, ok := seen[out.Filename]; ok {
			return nil, fmt.Errorf("operations %q and %q both write %s", prev, out.Resource.OperationID, out.Filename)
		}
		seen[out.Filename] = out.Resource.OperationID
	}

	return outputs, nil
}

func (g *Generator) generate(s model.Snippet) (*Output, error) {
	r, err := g.assembler.Assemble(s)
	if err != nil {
		return nil, fmt.Errorf("assembling resource: %w", err)
	}

	filename, err := g.Filename(r.OperationID)
	if err != nil {
		return nil, err
	}

	content, err := resource.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", r.OperationID, err)
	}

	logrus.WithFields(logrus.Fields{
		"operation": r.OperationID,
		"method":    r.Request.Method,
		"path":      r.Request.Path,
		"status":    r.Response.Status,
	}).Debug("assembled resource")

	return &Output{
		Filename: filename,
		Content:  string(content),
		Resource: r,
	}, nil
}

// Filename resolves the operation path for an operation id. The result is
// relative and never escapes the output directory.
func (g *Generator) Filename(operationID string) (string, error) {
	if strings.TrimSpace(operationID) == "" {
		return "", fmt.Errorf("empty operation id")
	}
	name := filepath.Clean(strings.ReplaceAll(g.operationPath, config.OperationPlaceholder, operationID))
	if filepath.IsAbs(name) || name == ".." || strings.HasPrefix(name, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("operation %q: path %s leaves the output directory", operationID, name)
	}
	return name, nil
}
