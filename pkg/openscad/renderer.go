package openscad

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/philipparndt/meshcut/pkg/stl"
)

// ErrNotInstalled is returned when the openscad binary cannot be found
var ErrNotInstalled = errors.New("openscad not found in PATH, install it from https://openscad.org/")

// Renderer handles OpenSCAD file rendering to STL
type Renderer struct {
	workDir string
	// Binary is the OpenSCAD executable, "openscad" unless set
	Binary string
}

// NewRenderer creates a new OpenSCAD renderer
func NewRenderer(workDir string) *Renderer {
	return &Renderer{
		workDir: workDir,
		Binary:  "openscad",
	}
}

// IsSource reports whether filename looks like an OpenSCAD source
func IsSource(filename string) bool {
	return strings.EqualFold(filepath.Ext(filename), ".scad")
}

func (r *Renderer) abs(scadFile string) string {
	if filepath.IsAbs(scadFile) {
		return scadFile
	}
	return filepath.Join(r.workDir, scadFile)
}

// RenderToSTL renders an OpenSCAD file to STL format
func (r *Renderer) RenderToSTL(ctx context.Context, scadFile, outputFile string) error {
	binary, err := exec.LookPath(r.Binary)
	if err != nil {
		return ErrNotInstalled
	}

	cmd := exec.CommandContext(ctx, binary, "-o", outputFile, r.abs(scadFile))
	cmd.Dir = r.workDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	// If error occurred, include the tool output
	if err := cmd.Run(); err != nil {
		var errMsg strings.Builder
		errMsg.WriteString(fmt.Sprintf("failed to render %s: %v", scadFile, err))
		if stderr.Len() > 0 {
			errMsg.WriteString("\nstderr: ")
			errMsg.WriteString(stderr.String())
		}
		if stdout.Len() > 0 {
			errMsg.WriteString("\nstdout: ")
			errMsg.WriteString(stdout.String())
		}
		return errors.New(errMsg.String())
	}

	return nil
}

// Render renders scadFile into a temporary STL and parses it
func (r *Renderer) Render(ctx context.Context, scadFile string) (*stl.Model, error) {
	tmp, err := os.MkdirTemp("", "meshcut-scad-")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tmp)

	out := filepath.Join(tmp, strings.TrimSuffix(filepath.Base(scadFile), filepath.Ext(scadFile))+".stl")
	if err := r.RenderToSTL(ctx, scadFile, out); err != nil {
		return nil, err
	}

	model, err := stl.Parse(out)
	if err != nil {
		return nil, fmt.Errorf("failed to parse rendered %s: %w", scadFile, err)
	}
	if model.Name == "" {
		model.Name = strings.TrimSuffix(filepath.Base(scadFile), filepath.Ext(scadFile))
	}
	return model, nil
}

// ResolveDependencies finds all dependencies (use/include statements) in an OpenSCAD file
// Returns a list of absolute paths to all dependencies
func (r *Renderer) ResolveDependencies(scadFile string) ([]string, error) {
	absScadFile := r.abs(scadFile)

	visited := make(map[string]bool)
	var deps []string

	if err := r.resolveDependenciesRecursive(absScadFile, visited, &deps); err != nil {
		return nil, err
	}

	return deps, nil
}

// resolveDependenciesRecursive recursively finds all dependencies
func (r *Renderer) resolveDependenciesRecursive(scadFile string, visited map[string]bool, deps *[]string) error {
	// Avoid circular dependencies
	if visited[scadFile] {
		return nil
	}
	visited[scadFile] = true

	// Add this file to dependencies
	*deps = append(*deps, scadFile)

	// Parse the file to find use/include statements
	fileDeps, err := r.parseDependencies(scadFile)
	if err != nil {
		return err
	}

	// Recursively resolve dependencies
	for _, dep := range fileDeps {
		if err := r.resolveDependenciesRecursive(dep, visited, deps); err != nil {
			return err
		}
	}

	return nil
}

// dependencyRegex matches use <file.scad> and include <file.scad> statements
var dependencyRegex = regexp.MustCompile(`^\s*(?:use|include)\s*<([^>]+)>`)

// parseDependencies parses a single OpenSCAD file to find use/include statements
func (r *Renderer) parseDependencies(scadFile string) ([]string, error) {
	file, err := os.Open(scadFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", scadFile, err)
	}
	defer file.Close()

	var deps []string
	scanner := bufio.NewScanner(file)

	scadDir := filepath.Dir(scadFile)

	for scanner.Scan() {
		line := scanner.Text()

		// Skip comments
		if strings.HasPrefix(strings.TrimSpace(line), "//") {
			continue
		}

		if matches := dependencyRegex.FindStringSubmatch(line); len(matches) > 1 {
			deps = append(deps, r.resolveDepPath(matches[1], scadDir))
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading %s: %w", scadFile, err)
	}

	return deps, nil
}

// resolveDepPath resolves a dependency path relative to the current file's directory
func (r *Renderer) resolveDepPath(depPath, currentDir string) string {
	// If the path starts with ./ or ../, it's relative to the current file
	if strings.HasPrefix(depPath, "./") || strings.HasPrefix(depPath, "../") {
		absPath := filepath.Join(currentDir, depPath)
		return filepath.Clean(absPath)
	}

	// Otherwise, try relative to current directory first
	absPath := filepath.Join(currentDir, depPath)
	if _, err := os.Stat(absPath); err == nil {
		return filepath.Clean(absPath)
	}

	// Try relative to work directory
	absPath = filepath.Join(r.workDir, depPath)
	return filepath.Clean(absPath)
}
