package hcl

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/varunsv97/easybuild-gitlab-hook/internal/config"
	"github.com/varunsv97/easybuild-gitlab-hook/internal/schema"
)

// translatePackage converts the HCL-specific package schema into the
// agnostic model.
func (l *Loader) translatePackage(p *schema.PackageBlock) (*config.PackageSpec, error) {
	spec := &config.PackageSpec{
		Name:       p.Name,
		Version:    p.Version,
		Toolchain:  translateToolchain(p.Toolchain),
		SourcePath: p.Source,
	}
	// The conventional spec file name stands in when the block omits source.
	if spec.SourcePath == "" && p.Name != "" && p.Version != "" {
		spec.SourcePath = p.Name + "-" + p.Version + ".eb"
	}

	for _, dep := range p.Dependencies {
		spec.Dependencies = append(spec.Dependencies, config.Dependency{
			Name:      dep.Name,
			Version:   dep.Version,
			Toolchain: translateToolchain(dep.Toolchain),
			External:  dep.External,
		})
	}

	vars, err := evalVariables(p.Variables)
	if err != nil {
		return nil, err
	}
	spec.Variables = vars

	return spec, nil
}

// translateToolchain maps an optional toolchain block. A missing block means
// the system toolchain.
func translateToolchain(t *schema.ToolchainBlock) config.Toolchain {
	if t == nil {
		return config.Toolchain{}
	}
	return config.Toolchain{Name: t.Name, Version: t.Version}
}

// evalVariables evaluates the optional `variables` map expression into a
// plain string map. Values are converted to strings, so numbers and bools
// are accepted in the document.
func evalVariables(expr hcl.Expression) (map[string]string, error) {
	if expr == nil {
		return nil, nil
	}

	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to evaluate variables: %w", diags)
	}
	if val.IsNull() {
		return nil, nil
	}
	if !val.Type().IsObjectType() && !val.Type().IsMapType() {
		return nil, fmt.Errorf("variables must be a map, got %s", val.Type().FriendlyName())
	}

	vars := make(map[string]string, val.LengthInt())
	for key, elem := range val.AsValueMap() {
		strVal, err := convert.Convert(elem, cty.String)
		if err != nil {
			return nil, fmt.Errorf("variable %q is not convertible to a string: %w", key, err)
		}
		if strVal.IsNull() {
			continue
		}
		vars[key] = strVal.AsString()
	}
	return vars, nil
}
