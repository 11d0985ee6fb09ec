package config

import (
	"synthgraph/internal/graph"
)

// SubtreeConfig resolves a referenced configuration document at
// graph-build time and recurses into it; it is loader-only and never
// appears as a runtime node (spec.md §4.4, SUPPLEMENTED FEATURES #4).
// Grounded on original_source/src/node/group/subtree.rs.
type SubtreeConfig struct {
	idRef
	FilePath string `json:"file_path"`
}

func (c *SubtreeConfig) ToNode(ctx *BuildContext) (graph.Node, error) {
	leave, err := ctx.enterPath(c.FilePath)
	if err != nil {
		return nil, err
	}
	defer leave()

	payload, err := ctx.Assets.LoadAssetData(c.FilePath)
	if err != nil {
		return nil, err
	}
	if payload.Raw == nil {
		return nil, graph.UserErrorf("Subtree asset %q did not return a raw config document", c.FilePath)
	}
	cfg, err := ctx.Registry.Decode(payload.Raw)
	if err != nil {
		return nil, err
	}
	node, err := cfg.ToNode(ctx)
	if err != nil {
		return nil, err
	}
	if id := c.resolve(); id != nil {
		node.SetID(*id)
	}
	return node, nil
}

func (c *SubtreeConfig) CloneChildConfigs() []NodeConfig { return nil }
func (c *SubtreeConfig) AssetSource() string             { return c.FilePath }
func (c *SubtreeConfig) Duplicate() NodeConfig {
	cp := *c
	return &cp
}
