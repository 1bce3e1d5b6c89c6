// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package httpx

import (
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"testing"
)

// bannedHTTPSelectors bypass the redirect cap and transport tuning of NewClient.
var bannedHTTPSelectors = map[string]bool{
	"DefaultClient": true,
	"Get":           true,
	"Head":          true,
	"Post":          true,
	"PostForm":      true,
}

// TestOutboundClientsComeFromNewClient fails when production code issues
// requests through net/http package helpers or builds its own http.Client.
func TestOutboundClientsComeFromNewClient(t *testing.T) {
	repoRoot := filepath.Clean(filepath.Join("..", "..", ".."))
	ownDir, err := filepath.Abs(".")
	if err != nil {
		t.Fatal(err)
	}

	var violations []string
	fset := token.NewFileSet()

	for _, root := range []string{"internal", "cmd"} {
		err := filepath.WalkDir(filepath.Join(repoRoot, root), func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if d.Name() == "testdata" {
					return filepath.SkipDir
				}
				return nil
			}
			if filepath.Ext(path) != ".go" || strings.HasSuffix(path, "_test.go") {
				return nil
			}
			abs, _ := filepath.Abs(filepath.Dir(path))
			inHTTPX := abs == ownDir

			file, err := parser.ParseFile(fset, path, nil, 0)
			if err != nil {
				return err
			}
			ast.Inspect(file, func(n ast.Node) bool {
				switch x := n.(type) {
				case *ast.SelectorExpr:
					if isHTTPSelector(x) && bannedHTTPSelectors[x.Sel.Name] {
						violations = append(violations, fset.Position(x.Pos()).String()+": http."+x.Sel.Name)
					}
				case *ast.CompositeLit:
					if sel, ok := x.Type.(*ast.SelectorExpr); ok && !inHTTPX && isHTTPSelector(sel) && sel.Sel.Name == "Client" {
						violations = append(violations, fset.Position(x.Pos()).String()+": http.Client literal")
					}
				}
				return true
			})
			return nil
		})
		if err != nil {
			t.Fatalf("scan %s: %v", root, err)
		}
	}

	if len(violations) > 0 {
		sort.Strings(violations)
		t.Fatalf("outbound HTTP must use httpx.NewClient:\n%s", strings.Join(violations, "\n"))
	}
}

func isHTTPSelector(sel *ast.SelectorExpr) bool {
	ident, ok := sel.X.(*ast.Ident)
	return ok && ident.Name == "http"
}
