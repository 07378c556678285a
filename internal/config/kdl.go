package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	kdl "github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"

	"github.com/apexls/core/internal/validate"
)

// fileName is the project-local config file this core looks for, read
// straight off the project root.
const fileName = ".apexls.kdl"

// Load reads <projectRoot>/.apexls.kdl if present and overlays it onto
// Default(projectRoot); a missing file is not an error — the engine runs
// on defaults alone. The returned Config is not yet validated; call
// Validate before using it.
func Load(projectRoot string) (*Config, error) {
	cfg := Default(projectRoot)

	kdlPath := filepath.Join(projectRoot, fileName)
	content, err := os.ReadFile(kdlPath)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", fileName, err)
	}

	if err := parseKDL(string(content), cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", fileName, err)
	}

	if cfg.Project.Root != "" && !filepath.IsAbs(cfg.Project.Root) {
		cfg.Project.Root = filepath.Clean(filepath.Join(projectRoot, cfg.Project.Root))
	}
	return cfg, nil
}

// parseKDL walks doc's top-level nodes, overlaying recognized sections onto
// cfg. Unknown nodes are ignored rather than rejected, matching the
// teacher's tolerant kdl_config.go traversal.
func parseKDL(content string, cfg *Config) error {
	doc, err := kdl.Parse(strings.NewReader(content))
	if err != nil {
		return fmt.Errorf("parse KDL: %w", err)
	}

	for _, n := range doc.Nodes {
		switch nodeName(n) {
		case "project":
			for _, cn := range n.Children {
				assignSimpleString(cn, "root", func(v string) { cfg.Project.Root = v })
				assignSimpleString(cn, "name", func(v string) { cfg.Project.Name = v })
			}
		case "engine":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "max_file_size":
					if v, ok := firstIntArg(cn); ok {
						cfg.Engine.MaxFileSizeBytes = int64(v)
					}
				case "max_file_count":
					if v, ok := firstIntArg(cn); ok {
						cfg.Engine.MaxFileCount = v
					}
				case "max_goroutines":
					if v, ok := firstIntArg(cn); ok {
						cfg.Engine.MaxGoroutines = v
					}
				case "follow_symlinks":
					if b, ok := firstBoolArg(cn); ok {
						cfg.Engine.FollowSymlinks = b
					}
				}
			}
		case "validation":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "tier":
					if s, ok := firstStringArg(cn); ok {
						cfg.Validation.Tier = validate.Tier(s)
					}
				case "allow_artifact_loading":
					if b, ok := firstBoolArg(cn); ok {
						cfg.Validation.AllowArtifactLoading = b
					}
				case "api_version":
					if v, ok := firstIntArg(cn); ok {
						cfg.Validation.APIVersion = v
					}
				case "enable_version_specific_validation":
					if b, ok := firstBoolArg(cn); ok {
						cfg.Validation.EnableVersionSpecificValidation = b
					}
				}
			}
		case "stdlib_cache":
			for _, cn := range n.Children {
				assignSimpleString(cn, "path", func(v string) { cfg.StdlibCache.Path = v })
				assignSimpleString(cn, "manifest_path", func(v string) { cfg.StdlibCache.ManifestPath = v })
			}
		case "feature_flags":
			for _, cn := range n.Children {
				if b, ok := firstBoolArg(cn); ok {
					cfg.FeatureFlags[nodeName(cn)] = b
				}
			}
		case "include":
			cfg.Include = append(cfg.Include, collectStringArgs(n)...)
		case "exclude":
			cfg.Exclude = collectStringArgs(n)
		}
	}
	return nil
}

func nodeName(n *document.Node) string {
	if n == nil || n.Name == nil {
		return ""
	}
	return n.Name.NodeNameString()
}

func firstIntArg(n *document.Node) (int, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

func firstStringArg(n *document.Node) (string, bool) {
	if len(n.Arguments) == 0 {
		return "", false
	}
	s, ok := n.Arguments[0].Value.(string)
	return s, ok
}

func firstBoolArg(n *document.Node) (bool, bool) {
	if len(n.Arguments) == 0 {
		return false, false
	}
	b, ok := n.Arguments[0].Value.(bool)
	return b, ok
}

func collectStringArgs(n *document.Node) []string {
	if n == nil {
		return nil
	}
	out := make([]string, 0, len(n.Arguments))
	for _, a := range n.Arguments {
		if s, ok := a.Value.(string); ok {
			out = append(out, s)
		}
	}
	if len(out) == 0 && len(n.Children) > 0 {
		out = make([]string, 0, len(n.Children))
		for _, child := range n.Children {
			if s, ok := firstStringArg(child); ok {
				out = append(out, s)
			} else if child.Name != nil {
				if s, ok := child.Name.Value.(string); ok {
					out = append(out, s)
				}
			}
		}
	}
	return out
}

func assignSimpleString(n *document.Node, target string, set func(string)) {
	if nodeName(n) == target {
		if s, ok := firstStringArg(n); ok {
			set(s)
		}
	}
}
