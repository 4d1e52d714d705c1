package modules

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/funvibe/tuplecheck/internal/config"
)

// Loader reads program files and caches them by absolute path.
type Loader struct {
	LoadedModules map[string]*Module // Cache of loaded modules by path
}

func NewLoader() *Loader {
	return &Loader{
		LoadedModules: make(map[string]*Module),
	}
}

// IsProgramFile reports whether path has a recognized program extension.
func IsProgramFile(path string) bool {
	for _, ext := range config.ProgramFileExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// Load reads and parses the program at path.
func (l *Loader) Load(path string) (*Module, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if mod, ok := l.LoadedModules[absPath]; ok {
		return mod, nil
	}
	if !IsProgramFile(absPath) {
		return nil, fmt.Errorf("%s: not a program file (expected one of %s)", path, strings.Join(config.ProgramFileExtensions, ", "))
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("reading program %s: %w", path, err)
	}
	mod, err := l.Parse(data, path)
	if err != nil {
		return nil, err
	}
	l.LoadedModules[absPath] = mod
	return mod, nil
}

// Parse builds a module from program content. The path is used for the
// module name and for messages. Malformed YAML is an error; malformed
// expressions inside it are syntax diagnostics on the module.
func (l *Loader) Parse(data []byte, path string) (*Module, error) {
	var doc programDoc
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing program %s: %w", path, err)
	}

	b := &builder{}
	program := b.program(&doc, path)
	return &Module{
		Name:    moduleName(path),
		Path:    path,
		Program: program,
		Errors:  b.errors,
	}, nil
}
