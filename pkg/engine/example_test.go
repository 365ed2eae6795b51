package engine_test

import (
	"context"
	"fmt"

	"github.com/matzehuels/biotree/pkg/engine"
	"github.com/matzehuels/biotree/pkg/hierarchy"
	"github.com/matzehuels/biotree/pkg/source"
)

func ExampleEngine() {
	src := &source.Bytes{Data: []byte(`{"id":"Assay","children":[{"id":"Imaging","children":[{"id":"H&E"}]}]}`)}

	e := engine.New(engine.DefaultConfig(), nil)
	if err := e.Load(context.Background(), src); err != nil {
		fmt.Println(err)
		return
	}

	id, _, _ := e.FocusPath(hierarchy.ParsePath("Assay/Imaging/H&E"))
	fmt.Println(hierarchy.FormatPath(e.Tree().PathOf(id)))

	for _, n := range e.Settle().Nodes {
		fmt.Println(n.Depth, n.Label, n.Focus)
	}
	// Output:
	// Assay/Imaging/H&E
	// 0 Assay false
	// 1 Imaging false
	// 2 H&E true
}
