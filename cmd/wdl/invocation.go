package main

import (
	"context"
	"fmt"

	"github.com/kingrea/wdl/internal/document"
	"github.com/kingrea/wdl/internal/engine"
	"github.com/kingrea/wdl/internal/input"
	"github.com/kingrea/wdl/internal/value"
)

// resolveInvocation analyzes source, coalesces tokens and binds them to a
// task or workflow of the document. Inputs without a `<name>.` prefix are
// bound to the target chosen by name, or to the document's workflow.
func (a *app) resolveInvocation(ctx context.Context, source, name string, tokens []string) (*engine.Invocation, error) {
	results, err := a.analyze(ctx, []string{source}, nil, false)
	if err != nil {
		return nil, err
	}
	if results.Len() != 1 {
		return nil, fmt.Errorf("`%s` must be a single WDL document, found %d", source, results.Len())
	}
	if err := a.emit(results); err != nil {
		return nil, err
	}
	doc := results.All()[0].Document

	resolver := input.NewResolver(input.WithFs(a.fs), input.WithLogger(a.logger))
	inputs, err := resolver.Coalesce(tokens)
	if err != nil {
		return nil, err
	}
	inv, err := inputs.EngineInputs(doc)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		if inv, err = engine.Select(doc, name, source); err != nil {
			return nil, err
		}
		if inputs.Len() > 0 {
			if inv, err = bindUnprefixed(doc, inv, inputs); err != nil {
				return nil, err
			}
		}
	}
	a.logger.Debug("bound inputs", "kind", inv.Kind, "name", inv.Name, "inputs", inv.Inputs.Len())
	if err := inv.Validate(doc); err != nil {
		return nil, err
	}
	return inv, nil
}

func bindUnprefixed(doc *document.Document, inv *engine.Invocation, inputs *input.Inputs) (*engine.Invocation, error) {
	prefixed := value.NewObject()
	for _, key := range inputs.Keys() {
		v, _ := inputs.Get(key)
		prefixed.Set(inv.Name+"."+key, v)
	}
	return engine.Bind(doc, prefixed)
}
