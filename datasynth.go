// Package datasynth turns a plain-language description into a synthetic
// dataset.
//
// Usage:
//
//	import (
//	    "github.com/spektr-org/datasynth/remote"
//	    "github.com/spektr-org/datasynth/wizard"
//	)
//
//	c := wizard.New(remote.NewClient(remote.Config{}), nil)
//	c.SetDescription("online shop orders")
//	err := c.SuggestSchema(ctx, remote.SourceAI) // describe → review schema
//	err = c.Generate(ctx)                        // review schema → explore
//	res, err := c.Chart()
//
// The wizard package owns all state and is the only caller of the remote
// generation service. Field editing lives in schema, chart aggregation in
// engine, file output in export, and past generations in history. The
// engine never calls any external service; all computation is local.
package datasynth
