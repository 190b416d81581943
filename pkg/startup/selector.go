// Package startup decides which startup code a project build uses: code the
// user supplied in the project source tree, or a board-specific template
// shipped with the platform.
package startup

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/dapperfu/s32pack/internal/logger"
	"github.com/dapperfu/s32pack/pkg/model"
)

// Source is the outcome of one selection. FromTemplate tells the build step
// whether the file needs to be copied into the project before compiling.
type Source struct {
	Path         string
	FromTemplate bool
}

// NoTemplateError reports that the project supplies no startup code and no
// template exists for the board's MCU.
type NoTemplateError struct {
	MCU      string
	Template string
}

func (e *NoTemplateError) Error() string {
	return fmt.Sprintf("no startup code in project and no template %s for MCU %s", e.Template, e.MCU)
}

// Conventional user startup file names, tried in this order.
var userStartupNames = []string{"startup.S", "startup.s", "startup.c"}

// startSymbol matches a _start symbol reference in assembly source.
var startSymbol = regexp.MustCompile(`\b_start\b`)

// Selector picks startup code for a project. TemplatesDir holds the
// platform's per-MCU startup templates.
type Selector struct {
	TemplatesDir string
}

// Select returns the startup source for a project and board.
//
// The project wins over templates: first a conventionally named startup
// file, then any assembly file defining the _start symbol. Only when the
// project supplies nothing is the board's template substituted.
func (s *Selector) Select(projectSrcDir string, board *model.BoardDescriptor) (*Source, error) {
	for _, name := range userStartupNames {
		candidate := filepath.Join(projectSrcDir, name)
		if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
			return &Source{Path: candidate}, nil
		}
	}

	if found, ok := findStartSymbol(projectSrcDir); ok {
		logger.Debug("using project assembly with _start symbol", logger.Fields{
			"file": found,
		})
		return &Source{Path: found}, nil
	}

	template := board.StartupTemplate
	if template == "" {
		template = board.MCU + "_startup.S"
	}
	candidate := filepath.Join(s.TemplatesDir, template)
	if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
		return &Source{Path: candidate, FromTemplate: true}, nil
	}

	return nil, &NoTemplateError{MCU: board.MCU, Template: template}
}

// findStartSymbol scans the project's assembly files, anywhere under the
// source tree and in sorted path order, for one that references the _start
// symbol.
func findStartSymbol(dir string) (string, bool) {
	var candidates []string
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // unreadable subtrees are skipped, not fatal
		}
		if !d.Type().IsRegular() {
			return nil
		}
		switch filepath.Ext(d.Name()) {
		case ".S", ".s":
			candidates = append(candidates, path)
		}
		return nil
	})
	sort.Strings(candidates)

	for _, candidate := range candidates {
		data, err := os.ReadFile(candidate)
		if err != nil {
			continue
		}
		if startSymbol.Match(data) {
			return candidate, true
		}
	}
	return "", false
}
