package loader

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"

	"github.com/kolah/apispec/internal/model"
)

// ResourceFile is the file name of a stored resource document.
const ResourceFile = "resource.json"

// LoadResources reads every resource document below dir in lexical path order.
func LoadResources(dir string) ([]*model.Resource, error) {
	var resources []*model.Resource
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || d.Name() != ResourceFile {
			return nil
		}
		r, err := LoadResource(path)
		if err != nil {
			return err
		}
		resources = append(resources, r)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("loading resources: %w", err)
	}
	return resources, nil
}

func LoadResource(path string) (*model.Resource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading resource: %w", err)
	}
	var r model.Resource
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	if r.OperationID == "" {
		return nil, fmt.Errorf("%s: missing operationId", path)
	}
	return &r, nil
}
