package modules

import (
	"path/filepath"
	"strings"

	"github.com/funvibe/tuplecheck/internal/ast"
	"github.com/funvibe/tuplecheck/internal/diagnostics"
)

// Module is one loaded program file.
type Module struct {
	Name    string
	Path    string
	Program *ast.Program
	Errors  []*diagnostics.DiagnosticError // syntax errors found while loading
}

// moduleName is the file name without its program extension.
func moduleName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
