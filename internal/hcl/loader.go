package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/varunsv97/easybuild-gitlab-hook/internal/config"
	"github.com/varunsv97/easybuild-gitlab-hook/internal/ctxlog"
	"github.com/varunsv97/easybuild-gitlab-hook/internal/fsutil"
	"github.com/varunsv97/easybuild-gitlab-hook/internal/schema"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL buildset loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load orchestrates the buildset loading process. It is agnostic to the
// origin of the paths and preserves the package declaration order across
// files, since that order is the dependency order the resolver produced.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.BuildSet, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := fsutil.CollectFiles(".hcl", paths...)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered buildset files.", "count", len(files))

	set := &config.BuildSet{}
	parser := hclparse.NewParser()

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse buildset file %s: %w", file, diags)
		}

		var root schema.BuildSetFile
		diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode buildset file %s: %w", file, diags)
		}

		for _, pkg := range root.Packages {
			spec, err := l.translatePackage(pkg)
			if err != nil {
				return nil, fmt.Errorf("invalid package %q in %s: %w", pkg.Name, file, err)
			}
			set.Packages = append(set.Packages, spec)
		}
	}

	logger.Debug("HCL loading complete.", "packages", len(set.Packages))
	return set, nil
}
