// Package config implements the tagged-variant configuration tree
// described in spec.md §4.6: a registry of node-type deserializer
// thunks, a recursive loader that turns a config document into a node
// tree, and the asset-loader boundary that supplies decoded sample
// data. Grounded on original_source/src/config/{mod,registry,builtin,defaults}.rs,
// whose serde-tagged enum dispatch this package renders as a Go
// map[string]decoder over encoding/json.RawMessage — no third-party
// JSON library in the retrieval pack offers anything beyond stdlib for
// this shape (see DESIGN.md).
package config

import (
	"encoding/json"

	"synthgraph/internal/debug"
	"synthgraph/internal/graph"
)

// NodeConfig is the capability set every concrete config type satisfies
// (spec.md §4.6). Built-in and user-registered types alike implement it.
type NodeConfig interface {
	// ToNode builds the runtime node this config describes, recursively
	// building any child configs through ctx.
	ToNode(ctx *BuildContext) (graph.Node, error)

	// CloneChildConfigs returns this config's immediate child configs,
	// or nil for a leaf. The loader does not call it: Subtree cycle
	// detection tracks in-progress paths on BuildContext instead.
	CloneChildConfigs() []NodeConfig

	// AssetSource returns the file path this config loads an asset
	// from, or "" if it loads none directly (a Subtree's own path, not
	// its resolved contents).
	AssetSource() string

	// Duplicate produces an independent copy of this config (distinct
	// from graph.Node.Duplicate, which duplicates a built node).
	Duplicate() NodeConfig
}

// decodeFn parses a raw JSON value (the node object minus its "type"
// tag handling, which the registry already consumed) into a concrete
// NodeConfig. It receives the registry so nested child documents can
// recurse through registry.Decode.
type decodeFn func(reg *Registry, raw json.RawMessage) (NodeConfig, error)

// Registry maps a config document's "type" discriminator to the
// deserializer that produces its concrete NodeConfig. Grounded on
// original_source/src/config/registry.rs's NodeRegistry; unlike the
// Rust source's process-global OnceLock, this registry is an ordinary
// value threaded explicitly through Load/Decode, which is the
// idiomatic Go rendering of the same "configure once, use many" shape
// without a package-level singleton.
type Registry struct {
	decoders map[string]decodeFn
	logger   *debug.Logger
}

// NewRegistry builds a Registry with every built-in type registered
// (spec.md §4.6 "Built-in types are registered by default"), matching
// the exact set in original_source/src/config/builtin.rs.
func NewRegistry() *Registry {
	r := &Registry{decoders: make(map[string]decodeFn)}
	registerBuiltinTypes(r)
	return r
}

// SetLogger attaches a logger used for construction-time diagnostics
// (each node type Decode dispatches). Logging here happens
// off the audio thread, during graph construction.
func (r *Registry) SetLogger(l *debug.Logger) { r.logger = l }

func (r *Registry) log(format string, args ...interface{}) {
	if r.logger != nil {
		r.logger.LogLoaderf(debug.LogLevelDebug, format, args...)
	}
}

// Register adds or replaces the deserializer for typeName. Users call
// this before Load to extend the registry with their own node types,
// per spec.md §4.6 "Users may register additional types before
// loading."
func (r *Registry) Register(typeName string, fn func(reg *Registry, raw json.RawMessage) (NodeConfig, error)) {
	r.decoders[typeName] = fn
}

// registerTyped is a convenience wrapper used by builtin.go: it
// unmarshals raw directly into a *C value (C carries its own json
// struct tags and default-filling in an UnmarshalJSON or a post-decode
// step) and registers it under typeName.
func registerTyped[C NodeConfig](r *Registry, typeName string, zero func() C) {
	r.Register(typeName, func(reg *Registry, raw json.RawMessage) (NodeConfig, error) {
		cfg := zero()
		if err := json.Unmarshal(raw, cfg); err != nil {
			return nil, graph.ParseErrorf("decoding %s: %v", typeName, err)
		}
		if hydrator, ok := NodeConfig(cfg).(childHydrator); ok {
			if err := hydrator.hydrateChildren(reg); err != nil {
				return nil, err
			}
		}
		return cfg, nil
	})
}

// childHydrator is implemented by config types that hold nested raw
// child documents (single-child effects, groups, MIDI's channel map,
// Subtree's own referenced document is resolved later at ToNode time
// instead). hydrateChildren recursively decodes those raw documents
// into NodeConfig values via the registry immediately after this
// type's own fields are unmarshaled.
type childHydrator interface {
	hydrateChildren(reg *Registry) error
}

// typeTag is the shape every config document shares: a "type"
// discriminator plus whatever fields the concrete type defines.
type typeTag struct {
	Type string `json:"type"`
}

// Decode dispatches a raw config document to its registered decoder by
// reading its "type" field.
func (r *Registry) Decode(raw json.RawMessage) (NodeConfig, error) {
	var tag typeTag
	if err := json.Unmarshal(raw, &tag); err != nil {
		return nil, graph.ParseErrorf("decoding config node: %v", err)
	}
	if tag.Type == "" {
		return nil, graph.ParseErrorf("config node is missing a \"type\" discriminator")
	}
	fn, ok := r.decoders[tag.Type]
	if !ok {
		return nil, graph.UserErrorf("unrecognized config node type %q", tag.Type)
	}
	r.log("decoding node type %s", tag.Type)
	return fn(r, raw)
}

// BuildContext carries everything ToNode needs besides the config
// tree itself: the fixed audio parameters, the asset loader, the
// registry (for Subtree's recursive resolution), and the in-progress
// asset-path set used for Subtree cycle detection (spec.md §9 "Cycle
// prevention").
type BuildContext struct {
	SampleRate   float32
	BufferFrames int

	Assets   AssetLoader
	Registry *Registry
	Logger   *debug.Logger

	loadingPaths map[string]bool
}

// NewBuildContext constructs a BuildContext ready for a single Load
// call.
func NewBuildContext(sampleRate float32, bufferFrames int, assets AssetLoader, registry *Registry, logger *debug.Logger) *BuildContext {
	return &BuildContext{
		SampleRate:   sampleRate,
		BufferFrames: bufferFrames,
		Assets:       assets,
		Registry:     registry,
		Logger:       logger,
		loadingPaths: make(map[string]bool),
	}
}

func (c *BuildContext) log(format string, args ...interface{}) {
	if c.Logger != nil {
		c.Logger.LogLoaderf(debug.LogLevelInfo, format, args...)
	}
}

// enterPath pushes path onto the in-progress set, returning a user
// error if it already transitively includes itself (Subtree cycle
// detection) and a pop function to call (via defer) on the way back
// out.
func (c *BuildContext) enterPath(path string) (func(), error) {
	if c.loadingPaths[path] {
		return nil, graph.UserErrorf("cyclic Subtree reference through %q", path)
	}
	c.loadingPaths[path] = true
	return func() { delete(c.loadingPaths, path) }, nil
}

// Load parses a top-level config document and builds its node tree.
// bufferFrames sizes every effect node's preallocated intermediate
// buffer (I4: no audio-thread allocation once built).
func Load(data []byte, ctx *BuildContext) (graph.Node, error) {
	cfg, err := ctx.Registry.Decode(data)
	if err != nil {
		return nil, err
	}
	ctx.log("building node tree from root config")
	return cfg.ToNode(ctx)
}

// idRef mirrors an optional user-reserved node id (spec.md §3: ids
// below StartGeneratedNodeIDs may be chosen by the user at construction).
type idRef struct {
	ID *uint64 `json:"id,omitempty"`
}

func (r idRef) resolve() *uint64 { return r.ID }

func validateID(id *uint64) error {
	if id != nil && *id >= graph.StartGeneratedNodeIDs {
		return graph.UserErrorf("reserved node id %d must be below %d", *id, graph.StartGeneratedNodeIDs)
	}
	return nil
}

